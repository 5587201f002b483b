package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/tada/internal/model"
)

const seedSchemaURL = "https://tada.local/seed.schema.json"

const seedSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["body"],
    "additionalProperties": false,
    "properties": {
      "id":     {"type": "integer", "minimum": 0},
      "body":   {"type": "string"},
      "status": {"enum": ["", "pending", "completed"]}
    }
  }
}`

var seedSchema = jsonschema.MustCompileString(seedSchemaURL, seedSchemaJSON)

// SeedError points at the first entry of a seed file that failed validation.
type SeedError struct {
	Path    string
	Message string
}

func (e *SeedError) Error() string {
	if e.Path == "" {
		return "seed: " + e.Message
	}
	return fmt.Sprintf("seed %s: %s", e.Path, e.Message)
}

// LoadSeed reads todos from a JSON array file. A missing file is an empty seed.
// Entries without a status default to pending; ids must be unique and bodies
// non-empty.
func LoadSeed(path string) ([]model.Todo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Todo{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := seedSchema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var todos []model.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	seen := make(map[int64]bool, len(todos))
	var next int64 = 1
	for _, t := range todos {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	for i := range todos {
		t := &todos[i]
		if t.ID == 0 {
			t.ID = next
			next++
		}
		if seen[t.ID] {
			return nil, &SeedError{Path: fmt.Sprintf("[%d].id", i), Message: fmt.Sprintf("duplicate id %d", t.ID)}
		}
		seen[t.ID] = true
		if t.Body, err = model.ValidateBody(t.Body); err != nil {
			return nil, &SeedError{Path: fmt.Sprintf("[%d].body", i), Message: err.Error()}
		}
		if t.Status == "" {
			t.Status = model.StatusPending
		}
	}
	return todos, nil
}

// schemaError reduces a jsonschema error tree to its first leaf.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &SeedError{Message: err.Error()}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &SeedError{Path: pointerToPath(ve.InstanceLocation), Message: ve.Message}
}

// pointerToPath turns "/1/status" into "[1].status".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for i, part := range strings.Split(ptr, "/") {
		if part != "" && strings.Trim(part, "0123456789") == "" {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
