package model

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a todo as reported by the remote service.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ErrEmptyBody is returned when a todo body is blank after trimming.
var ErrEmptyBody = errors.New("todo body must not be empty")

// Todo is the client-side copy of a todo owned by the remote service.
// ID and Status are assigned by the service; Body never changes here.
type Todo struct {
	ID     int64  `json:"id"`
	Body   string `json:"body"`
	Status Status `json:"status"`
}

// Completed reports whether the todo is done.
func (t Todo) Completed() bool { return t.Status == StatusCompleted }

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle flips pending <-> completed. Unknown values toggle to completed,
// matching how the list treats anything that isn't pending.
func (s Status) Toggle() Status {
	if s == StatusPending {
		return StatusCompleted
	}
	return StatusPending
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// ValidateBody trims the draft and rejects blank input.
func ValidateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyBody
	}
	return body, nil
}

// Stats counts completed and pending todos in a snapshot.
func Stats(todos []Todo) (completed, pending int) {
	for _, t := range todos {
		if t.Completed() {
			completed++
		} else {
			pending++
		}
	}
	return
}
