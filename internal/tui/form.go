package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

const emptyBodyAlert = "please enter todo"

// Form is the creation control: one draft field and a submit action.
type Form struct {
	svc     api.Service
	timeout time.Duration

	input      textinput.Model
	submitting bool // create in flight; submit is disabled
}

func NewForm(svc api.Service, timeout time.Duration) *Form {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Add todo"
	ti.CharLimit = 500
	ti.Cursor.SetMode(cursor.CursorStatic)
	return &Form{svc: svc, timeout: timeout, input: ti}
}

func (f *Form) Draft() string     { return f.input.Value() }
func (f *Form) SetDraft(s string) { f.input.SetValue(s) }
func (f *Form) Submitting() bool  { return f.submitting }
func (f *Form) Focused() bool     { return f.input.Focused() }
func (f *Form) Focus() tea.Cmd    { return f.input.Focus() }
func (f *Form) Blur()             { f.input.Blur() }
func (f *Form) SetWidth(w int)    { f.input.Width = w }

// Submit validates the draft and sends exactly one create request.
// A blank draft raises the blocking alert and sends nothing; a pending
// create makes Submit a no-op.
func (f *Form) Submit() tea.Cmd {
	if f.submitting {
		return nil
	}
	body, err := model.ValidateBody(f.input.Value())
	if err != nil {
		return func() tea.Msg { return alertMsg{text: emptyBodyAlert} }
	}

	f.submitting = true
	svc, timeout := f.svc, f.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		t, err := svc.Create(ctx, body)
		return todoCreatedMsg{todo: t, err: err}
	}
}

func (f *Form) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case todoCreatedMsg:
		f.submitting = false
		if msg.err != nil {
			// keep the draft so the user can retry
			return notify("create todo: " + msg.err.Error())
		}
		f.input.Reset()
		return requestRefresh

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			return f.Submit()
		}
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *Form) View(st styles) string {
	btn := st.button.Render("Add")
	if f.submitting {
		btn = st.muted.Render("Adding…")
	}
	box := st.inputBox
	if f.input.Focused() {
		box = st.inputFocused
	}
	return box.Render(f.input.View() + "  " + btn)
}
