package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

type todoItem struct {
	todo model.Todo
	busy bool
}

func (i todoItem) FilterValue() string { return i.todo.Body }

type itemDelegate struct{ st styles }

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(todoItem)
	if !ok {
		return
	}
	box := d.st.pending.Render(boxUnchecked)
	bodyStyle := lipgloss.NewStyle()
	if it.todo.Completed() {
		box = d.st.success.Render(boxChecked)
		bodyStyle = d.st.done
	}
	cursor := "  "
	if index == m.Index() {
		cursor = d.st.accent.Render("> ")
		bodyStyle = bodyStyle.Inherit(d.st.selected)
	}
	line := cursor + box + " " + bodyStyle.Render(it.todo.Body)
	if it.busy {
		line += " " + d.st.muted.Render("…")
	}
	fmt.Fprint(w, line)
}

// List is the list control. It keeps the last loaded snapshot of every
// todo and derives the visible rows from the active filter, so changing
// the filter never hits the network.
type List struct {
	svc     api.Service
	timeout time.Duration

	filter   model.Filter
	snapshot []model.Todo
	busy     map[int64]bool

	seq     int // id of the newest refresh sent
	applied int // id of the newest refresh applied
	loaded  bool

	view list.Model
}

func NewList(svc api.Service, timeout time.Duration, st styles) *List {
	v := list.New(nil, itemDelegate{st: st}, 0, 0)
	v.SetShowTitle(false)
	v.SetShowStatusBar(false)
	v.SetShowHelp(false)
	v.SetFilteringEnabled(false)
	v.DisableQuitKeybindings()
	return &List{
		svc:     svc,
		timeout: timeout,
		filter:  model.FilterAll,
		busy:    make(map[int64]bool),
		view:    v,
	}
}

func (l *List) Filter() model.Filter      { return l.filter }
func (l *List) Snapshot() []model.Todo    { return l.snapshot }
func (l *List) Visible() []model.Todo     { return model.Apply(l.filter, l.snapshot) }
func (l *List) Busy(id int64) bool        { return l.busy[id] }
func (l *List) Loaded() bool              { return l.loaded }
func (l *List) Loading() bool             { return l.seq > l.applied }
func (l *List) SetSize(width, height int) { l.view.SetSize(width, height) }

// Selected returns the todo under the cursor.
func (l *List) Selected() (model.Todo, bool) {
	it, ok := l.view.SelectedItem().(todoItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

// Refresh fetches every todo. Only the newest refresh is applied; an
// older response arriving late is discarded.
func (l *List) Refresh() tea.Cmd {
	l.seq++
	seq, svc, timeout := l.seq, l.svc, l.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		todos, err := svc.GetAll(ctx, model.FilterAll.Statuses())
		return todosLoadedMsg{seq: seq, todos: todos, err: err}
	}
}

func (l *List) SetFilter(f model.Filter) {
	if f == l.filter {
		return
	}
	l.filter = f
	l.view.Select(0)
	l.sync()
}

func (l *List) CycleFilter() { l.SetFilter(l.filter.Next()) }

// Toggle flips the status of one todo. Requests for a todo that already
// has one in flight are ignored.
func (l *List) Toggle(id int64) tea.Cmd {
	t, ok := l.find(id)
	if !ok || l.busy[id] {
		return nil
	}
	l.setBusy(id, true)
	next := t.Status.Toggle()
	svc, timeout := l.svc, l.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		updated, err := svc.UpdateStatus(ctx, id, next)
		return statusUpdatedMsg{id: id, todo: updated, err: err}
	}
}

func (l *List) Remove(id int64) tea.Cmd {
	if _, ok := l.find(id); !ok || l.busy[id] {
		return nil
	}
	l.setBusy(id, true)
	svc, timeout := l.svc, l.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return todoDeletedMsg{id: id, err: svc.Delete(ctx, id)}
	}
}

func (l *List) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case todosLoadedMsg:
		if msg.seq <= l.applied {
			return nil
		}
		l.applied = msg.seq
		if msg.err != nil {
			return notify("load todos: " + msg.err.Error())
		}
		l.snapshot = msg.todos
		l.loaded = true
		l.sync()
		return nil

	case statusUpdatedMsg:
		l.setBusy(msg.id, false)
		if msg.err != nil {
			return notify(fmt.Sprintf("update todo %d: %v", msg.id, msg.err))
		}
		return l.Refresh()

	case todoDeletedMsg:
		l.setBusy(msg.id, false)
		// already gone on the server: same outcome as a delete
		if msg.err != nil && !errors.Is(msg.err, api.ErrNotFound) {
			return notify(fmt.Sprintf("delete todo %d: %v", msg.id, msg.err))
		}
		return l.Refresh()

	case refreshRequestedMsg:
		return l.Refresh()
	}

	var cmd tea.Cmd
	l.view, cmd = l.view.Update(msg)
	return cmd
}

func (l *List) View(st styles) string {
	switch {
	case !l.loaded && l.Loading():
		return st.muted.Render("Loading…")
	case len(l.view.Items()) == 0:
		if len(l.snapshot) == 0 {
			return st.muted.Render("Nothing to do. Press a to add a todo.")
		}
		return st.muted.Render("No " + string(l.filter) + " todos.")
	}
	return l.view.View()
}

func (l *List) find(id int64) (model.Todo, bool) {
	for _, t := range l.snapshot {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}

func (l *List) setBusy(id int64, busy bool) {
	if busy {
		l.busy[id] = true
	} else {
		delete(l.busy, id)
	}
	l.sync()
}

// sync rebuilds the rows from the snapshot, the filter and the busy set.
func (l *List) sync() {
	visible := model.Apply(l.filter, l.snapshot)
	items := make([]list.Item, 0, len(visible))
	for _, t := range visible {
		items = append(items, todoItem{todo: t, busy: l.busy[t.ID]})
	}
	l.view.SetItems(items)
	if n := len(items); n > 0 && l.view.Index() >= n {
		l.view.Select(n - 1)
	}
}
