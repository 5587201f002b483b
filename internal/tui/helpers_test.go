package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/api/memory"
	"github.com/idilsaglam/tada/internal/model"
)

// fakeService delegates to an in-memory store unless a func field
// overrides the call. Every call is recorded by name.
type fakeService struct {
	store *memory.Service

	getAllFn       func(ctx context.Context, statuses []model.Status) ([]model.Todo, error)
	createFn       func(ctx context.Context, body string) (model.Todo, error)
	updateStatusFn func(ctx context.Context, id int64, status model.Status) (model.Todo, error)
	deleteFn       func(ctx context.Context, id int64) error

	mu    sync.Mutex
	calls []string
}

func newFake(seed ...model.Todo) *fakeService {
	return &fakeService{store: memory.New(seed...)}
}

func (f *fakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeService) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeService) GetAll(ctx context.Context, statuses []model.Status) ([]model.Todo, error) {
	f.record("GetAll")
	if f.getAllFn != nil {
		return f.getAllFn(ctx, statuses)
	}
	return f.store.GetAll(ctx, statuses)
}

func (f *fakeService) Create(ctx context.Context, body string) (model.Todo, error) {
	f.record("Create")
	if f.createFn != nil {
		return f.createFn(ctx, body)
	}
	return f.store.Create(ctx, body)
}

func (f *fakeService) UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Todo, error) {
	f.record("UpdateStatus")
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return f.store.UpdateStatus(ctx, id, status)
}

func (f *fakeService) Delete(ctx context.Context, id int64) error {
	f.record("Delete")
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return f.store.Delete(ctx, id)
}

// runCmd executes cmd and flattens batches into the produced messages.
func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle feeds messages produced by cmd back into the app until no
// command is left, the way the program loop would.
func settle(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	queue := runCmd(t, cmd)
	for i := 0; len(queue) > 0; i++ {
		if i > 100 {
			t.Fatal("message loop did not settle")
		}
		msg := queue[0]
		queue = queue[1:]
		_, next := app.Update(msg)
		queue = append(queue, runCmd(t, next)...)
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func seedTodos() []model.Todo {
	return []model.Todo{
		{ID: 1, Body: "Buy milk", Status: model.StatusPending},
		{ID: 2, Body: "Walk dog", Status: model.StatusCompleted},
		{ID: 3, Body: "Write report", Status: model.StatusPending},
	}
}

func bodies(todos []model.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.Body)
	}
	return out
}
