package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/model"
)

// alertMsg opens the blocking notice (validation failures).
type alertMsg struct{ text string }

// noticeMsg shows a transient error line (remote failures).
type noticeMsg struct{ text string }

type noticeExpiredMsg struct{ seq int }

// refreshRequestedMsg asks the list to reload its snapshot.
type refreshRequestedMsg struct{}

type todosLoadedMsg struct {
	seq   int
	todos []model.Todo
	err   error
}

type todoCreatedMsg struct {
	todo model.Todo
	err  error
}

type statusUpdatedMsg struct {
	id   int64
	todo model.Todo
	err  error
}

type todoDeletedMsg struct {
	id  int64
	err error
}

func notify(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}

func requestRefresh() tea.Msg { return refreshRequestedMsg{} }

// requestContext bounds a remote call when a timeout is configured.
func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
