package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

func TestForm_BlankDraftAlertsWithoutRequest(t *testing.T) {
	for _, draft := range []string{"", "   ", "\t\n"} {
		svc := newFake()
		f := NewForm(svc, 0)
		f.SetDraft(draft)

		msgs := runCmd(t, f.Submit())
		require.Len(t, msgs, 1)
		assert.Equal(t, alertMsg{text: "please enter todo"}, msgs[0])
		assert.Equal(t, 0, svc.count("Create"), "draft %q", draft)
		assert.False(t, f.Submitting())
	}
}

func TestForm_SubmitSendsTrimmedBodyOnce(t *testing.T) {
	svc := newFake()
	f := NewForm(svc, 0)
	f.SetDraft("  Buy milk  ")

	cmd := f.Submit()
	require.NotNil(t, cmd)
	assert.True(t, f.Submitting())
	assert.Nil(t, f.Submit(), "second submit while pending")

	msgs := runCmd(t, cmd)
	require.Len(t, msgs, 1)
	created, ok := msgs[0].(todoCreatedMsg)
	require.True(t, ok)
	require.NoError(t, created.err)
	assert.Equal(t, "Buy milk", created.todo.Body)
	assert.Equal(t, model.StatusPending, created.todo.Status)
	assert.Equal(t, 1, svc.count("Create"))

	next := f.Update(created)
	assert.False(t, f.Submitting())
	assert.Equal(t, "", f.Draft())
	assert.Equal(t, []tea.Msg{refreshRequestedMsg{}}, runCmd(t, next))
}

func TestForm_CreateFailureKeepsDraft(t *testing.T) {
	svc := newFake()
	svc.createFn = func(context.Context, string) (model.Todo, error) {
		return model.Todo{}, api.ErrUnavailable
	}
	f := NewForm(svc, 0)
	f.SetDraft("Buy milk")

	msgs := runCmd(t, f.Submit())
	require.Len(t, msgs, 1)

	out := runCmd(t, f.Update(msgs[0]))
	require.Len(t, out, 1)
	notice, ok := out[0].(noticeMsg)
	require.True(t, ok)
	assert.Contains(t, notice.text, "unavailable")
	assert.Equal(t, "Buy milk", f.Draft())
	assert.False(t, f.Submitting())
}

func TestForm_TypingAndEnter(t *testing.T) {
	svc := newFake()
	f := NewForm(svc, 0)
	f.Focus()
	require.True(t, f.Focused())

	f.Update(keyRunes("Walk dog"))
	assert.Equal(t, "Walk dog", f.Draft())

	msgs := runCmd(t, f.Update(keyType(tea.KeyEnter)))
	require.Len(t, msgs, 1)
	created := msgs[0].(todoCreatedMsg)
	assert.Equal(t, "Walk dog", created.todo.Body)
}

func TestForm_BlurredIgnoresTyping(t *testing.T) {
	f := NewForm(newFake(), 0)
	f.Update(keyRunes("abc"))
	assert.Equal(t, "", f.Draft())
}

func TestForm_TimeoutBoundsRequest(t *testing.T) {
	svc := newFake()
	svc.createFn = func(ctx context.Context, _ string) (model.Todo, error) {
		<-ctx.Done()
		return model.Todo{}, ctx.Err()
	}
	f := NewForm(svc, 10*time.Millisecond)
	f.SetDraft("x")

	msgs := runCmd(t, f.Submit())
	require.Len(t, msgs, 1)
	assert.True(t, errors.Is(msgs[0].(todoCreatedMsg).err, context.DeadlineExceeded))
}
