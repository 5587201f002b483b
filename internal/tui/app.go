// Package tui is the interactive todo client: a creation form above a
// filterable list, both talking to an api.Service.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

type Options struct {
	Timeout   time.Duration // per request; 0 means none
	NoticeTTL time.Duration // how long an error line stays; 0 keeps it until the next successful action
	Theme     string
}

type focusArea int

const (
	focusList focusArea = iota
	focusForm
)

// rows taken by everything but the list
const chromeHeight = 13

// App is the root Bubble Tea model.
type App struct {
	form *Form
	list *List

	keys   keyMap
	help   help.Model
	styles styles
	focus  focusArea

	alert     string
	notice    string
	noticeSeq int
	noticeTTL time.Duration

	width, height int
}

func New(svc api.Service, opts Options) *App {
	st := newStyles(opts.Theme)
	h := help.New()
	h.Styles.ShortKey = st.accent
	h.Styles.ShortDesc = st.help
	h.Styles.FullKey = st.accent
	h.Styles.FullDesc = st.help
	return &App{
		form:      NewForm(svc, opts.Timeout),
		list:      NewList(svc, opts.Timeout, st),
		keys:      defaultKeys(),
		help:      h,
		styles:    st,
		focus:     focusList,
		noticeTTL: opts.NoticeTTL,
	}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, svc api.Service, opts Options) error {
	p := tea.NewProgram(New(svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *App) Form() *Form       { return m.form }
func (m *App) List() *List       { return m.list }
func (m *App) Alert() string     { return m.alert }
func (m *App) Notice() string    { return m.notice }
func (m *App) FormFocused() bool { return m.focus == focusForm }

func (m *App) Init() tea.Cmd { return m.list.Refresh() }

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.form.SetWidth(max(10, msg.Width-20))
		m.list.SetSize(max(10, msg.Width-4), max(1, msg.Height-chromeHeight))
		return m, nil

	case alertMsg:
		m.alert = msg.text
		return m, nil

	case noticeMsg:
		return m, m.setNotice(msg.text)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case todoCreatedMsg:
		m.clearNoticeOn(msg.err)
		return m, m.form.Update(msg)

	case statusUpdatedMsg:
		m.clearNoticeOn(msg.err)
		return m, m.list.Update(msg)

	case todoDeletedMsg:
		m.clearNoticeOn(msg.err)
		return m, m.list.Update(msg)

	case todosLoadedMsg, refreshRequestedMsg:
		return m, m.list.Update(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, m.form.Update(msg)
}

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit
	}
	// the alert is modal
	if m.alert != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.alert = ""
		}
		return nil
	}
	if m.focus == focusForm {
		if key.Matches(msg, m.keys.Blur, m.keys.SwitchFocus) {
			m.focusList()
			return nil
		}
		return m.form.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Add, m.keys.SwitchFocus):
		return m.focusForm()
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.list.Selected(); ok {
			return m.list.Toggle(t.ID)
		}
		return nil
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.list.Selected(); ok {
			return m.list.Remove(t.ID)
		}
		return nil
	case key.Matches(msg, m.keys.FilterAll):
		m.list.SetFilter(model.FilterAll)
		return nil
	case key.Matches(msg, m.keys.FilterPending):
		m.list.SetFilter(model.FilterPending)
		return nil
	case key.Matches(msg, m.keys.FilterDone):
		m.list.SetFilter(model.FilterCompleted)
		return nil
	case key.Matches(msg, m.keys.CycleFilter):
		m.list.CycleFilter()
		return nil
	case key.Matches(msg, m.keys.Refresh):
		return m.list.Refresh()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}
	return m.list.Update(msg)
}

func (m *App) focusForm() tea.Cmd {
	m.focus = focusForm
	return m.form.Focus()
}

func (m *App) focusList() {
	m.focus = focusList
	m.form.Blur()
}

func (m *App) setNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeSeq++
	if m.noticeTTL <= 0 {
		return nil
	}
	seq := m.noticeSeq
	return tea.Tick(m.noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })
}

func (m *App) clearNoticeOn(err error) {
	if err == nil {
		m.notice = ""
	}
}

func (m *App) View() string {
	st := m.styles
	if m.alert != "" {
		box := st.alert.Render(st.err.Render(m.alert) + "\n\n" + st.muted.Render("press enter to continue"))
		if m.width == 0 || m.height == 0 {
			return box
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	var b strings.Builder
	done, pending := model.Stats(m.list.Snapshot())
	b.WriteString(st.title.Render("Todos") + "  ")
	b.WriteString(st.success.Render(fmt.Sprintf("✔ %d", done)) + "  ")
	b.WriteString(st.pending.Render(fmt.Sprintf("• %d", pending)) + "\n")
	b.WriteString(st.muted.Render(ui.ProgressBar(done, done+pending, 28)) + "\n\n")

	tabs := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		if f == m.list.Filter() {
			tabs = append(tabs, st.tabActive.Render(string(f)))
		} else {
			tabs = append(tabs, st.tabInactive.Render(string(f)))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n")
	b.WriteString(m.form.View(st) + "\n")
	b.WriteString(st.panel.Render(m.list.View(st)) + "\n")

	if m.notice != "" {
		b.WriteString(st.err.Render("✗ "+m.notice) + "\n")
	} else {
		b.WriteString("\n")
	}
	if m.focus == focusForm {
		b.WriteString(m.help.View(formHelp{m.keys}))
	} else {
		b.WriteString(m.help.View(listHelp{m.keys}))
	}
	return b.String()
}
