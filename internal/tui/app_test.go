package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

func startApp(t *testing.T, svc *fakeService) *App {
	t.Helper()
	app := New(svc, Options{})
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	settle(t, app, app.Init())
	return app
}

func press(t *testing.T, app *App, msgs ...tea.KeyMsg) {
	t.Helper()
	for _, m := range msgs {
		_, cmd := app.Update(m)
		settle(t, app, cmd)
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestApp_InitLoadsAll(t *testing.T) {
	app := startApp(t, newFake(seedTodos()...))
	assert.Equal(t, []string{"Buy milk", "Walk dog", "Write report"}, bodies(app.List().Visible()))
	assert.False(t, app.FormFocused())
}

func TestApp_AddTodoFlow(t *testing.T) {
	svc := newFake(seedTodos()...)
	app := startApp(t, svc)

	press(t, app, keyRunes("a"))
	require.True(t, app.FormFocused())
	assert.Equal(t, "", app.Form().Draft(), "the focus key is not typed")

	press(t, app, keyRunes("Call mom"), keyType(tea.KeyEnter))

	assert.Equal(t, 1, svc.count("Create"))
	assert.Equal(t, "", app.Form().Draft())
	assert.Equal(t, "Call mom", app.List().Snapshot()[3].Body)
	assert.Equal(t, model.StatusPending, app.List().Snapshot()[3].Status)
	assert.Equal(t, 2, svc.count("GetAll"))
}

func TestApp_EmptySubmitAlerts(t *testing.T) {
	svc := newFake(seedTodos()...)
	app := startApp(t, svc)

	press(t, app, keyType(tea.KeyTab), keyRunes("   "), keyType(tea.KeyEnter))
	assert.Equal(t, "please enter todo", app.Alert())
	assert.Contains(t, app.View(), "please enter todo")
	assert.Equal(t, 0, svc.count("Create"))

	// modal: other keys are swallowed
	press(t, app, keyRunes("q"))
	assert.Equal(t, "please enter todo", app.Alert())
	assert.Equal(t, "   ", app.Form().Draft())

	press(t, app, keyType(tea.KeyEnter))
	assert.Equal(t, "", app.Alert())
	assert.Equal(t, 0, svc.count("Create"), "dismissing does not submit")
}

func TestApp_ToggleAndDeleteSelected(t *testing.T) {
	svc := newFake(seedTodos()...)
	app := startApp(t, svc)

	press(t, app, keyType(tea.KeySpace))
	assert.Equal(t, model.StatusCompleted, app.List().Snapshot()[0].Status)

	press(t, app, keyType(tea.KeyDown), keyRunes("d"))
	assert.Equal(t, []string{"Buy milk", "Write report"}, bodies(app.List().Snapshot()))
	assert.Equal(t, 1, svc.count("UpdateStatus"))
	assert.Equal(t, 1, svc.count("Delete"))
}

func TestApp_FilterKeys(t *testing.T) {
	svc := newFake(seedTodos()...)
	app := startApp(t, svc)

	press(t, app, keyRunes("2"))
	assert.Equal(t, model.FilterPending, app.List().Filter())
	assert.Equal(t, []string{"Buy milk", "Write report"}, bodies(app.List().Visible()))

	press(t, app, keyRunes("f"))
	assert.Equal(t, model.FilterCompleted, app.List().Filter())

	press(t, app, keyRunes("1"))
	assert.Equal(t, model.FilterAll, app.List().Filter())
	assert.Equal(t, 1, svc.count("GetAll"))

	press(t, app, keyRunes("r"))
	assert.Equal(t, 2, svc.count("GetAll"))
}

func TestApp_QuitOnlyFromList(t *testing.T) {
	app := startApp(t, newFake())

	_, cmd := app.Update(keyRunes("q"))
	assert.True(t, isQuit(cmd))

	press(t, app, keyRunes("a"))
	_, cmd = app.Update(keyRunes("q"))
	assert.False(t, isQuit(cmd))
	assert.Equal(t, "q", app.Form().Draft())

	_, cmd = app.Update(keyType(tea.KeyCtrlC))
	assert.True(t, isQuit(cmd))
}

func TestApp_EscReturnsToList(t *testing.T) {
	app := startApp(t, newFake())
	press(t, app, keyRunes("a"), keyRunes("half"), keyType(tea.KeyEsc))
	assert.False(t, app.FormFocused())
	assert.Equal(t, "half", app.Form().Draft())
}

func TestApp_RemoteFailureShowsNotice(t *testing.T) {
	svc := newFake(seedTodos()...)
	svc.updateStatusFn = func(context.Context, int64, model.Status) (model.Todo, error) {
		return model.Todo{}, api.ErrUnavailable
	}
	app := startApp(t, svc)

	press(t, app, keyRunes("x"))
	assert.Contains(t, app.Notice(), "update todo 1")
	assert.Contains(t, app.View(), "update todo 1")
	assert.Equal(t, model.StatusPending, app.List().Snapshot()[0].Status)

	press(t, app, keyType(tea.KeyDown))
	assert.NotEmpty(t, app.Notice(), "navigation keeps the notice")

	// without a TTL the notice stays until an action succeeds
	svc.updateStatusFn = nil
	press(t, app, keyRunes("x"))
	assert.Equal(t, "", app.Notice())
	assert.Equal(t, model.StatusPending, app.List().Snapshot()[1].Status, "walk dog was completed")
}

func TestApp_NoticeExpires(t *testing.T) {
	app := New(newFake(), Options{NoticeTTL: time.Second})

	_, cmd := app.Update(noticeMsg{text: "first"})
	require.NotNil(t, cmd)
	app.Update(noticeMsg{text: "second"})

	app.Update(noticeExpiredMsg{seq: 1})
	assert.Equal(t, "second", app.Notice(), "an older timer does not clear a newer notice")

	app.Update(noticeExpiredMsg{seq: 2})
	assert.Equal(t, "", app.Notice())
}

func TestApp_View(t *testing.T) {
	app := startApp(t, newFake(seedTodos()...))
	v := app.View()
	assert.Contains(t, v, "Todos")
	assert.Contains(t, v, "✔ 1")
	assert.Contains(t, v, "• 2")
	assert.Contains(t, v, " 33%")
	for _, f := range model.Filters {
		assert.Contains(t, v, string(f))
	}
	assert.Contains(t, v, "Add todo")
	assert.Contains(t, v, "Walk dog")
}

func TestApp_ViewEmptyProgress(t *testing.T) {
	app := startApp(t, newFake())
	v := app.View()
	assert.Contains(t, v, "✔ 0")
	assert.Contains(t, v, "• 0")
	assert.Contains(t, v, "  0%")
	assert.NotContains(t, v, "0/1")
	assert.Contains(t, v, "Nothing to do")
}

func TestApp_HelpUsesThemeStyles(t *testing.T) {
	app := New(newFake(), Options{Theme: "neon"})
	assert.Equal(t, app.styles.help, app.help.Styles.ShortDesc)
	assert.Equal(t, app.styles.help, app.help.Styles.FullDesc)
	assert.Equal(t, app.styles.accent, app.help.Styles.ShortKey)
}
