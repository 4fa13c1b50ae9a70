package skilledit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/masterysheet/internal/client"
	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/sheet"
)

// stubUpdater implements client.Updater for testing.
type stubUpdater struct {
	calls []mastery.Level
	res   *client.UpdateResult
	err   error
	block bool
}

func (s *stubUpdater) UpdateMastery(ctx context.Context, _ sheet.SkillID, level mastery.Level) (*client.UpdateResult, error) {
	s.calls = append(s.calls, level)
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.res, s.err
}

// collectMsgs runs cmd, expanding batches, and returns every message.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

type fixture struct {
	board       *sheet.Board
	updater     *stubUpdater
	editor      *Editor
	alerts      []string
	transitions []Transition
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		board:   sheet.NewBoard(),
		updater: &stubUpdater{res: &client.UpdateResult{}},
	}
	f.board.Add("42", "Arcana", mastery.Trained)
	f.board.Add("43", "Stealth", mastery.Expert)

	opts = append([]Option{
		WithAlerter(AlertFunc(func(msg string) { f.alerts = append(f.alerts, msg) })),
		WithObserver(func(tr Transition) { f.transitions = append(f.transitions, tr) }),
	}, opts...)
	f.editor = New(f.board, f.updater, opts...)
	return f
}

func (f *fixture) cell(t *testing.T, id sheet.SkillID) *sheet.Cell {
	t.Helper()
	c, ok := f.board.Lookup(id)
	require.True(t, ok, "cell %s missing", id)
	return c
}

// commit chooses level on the mounted selector and returns the update result
// messages produced by the queued command.
func (f *fixture) commit(t *testing.T, id sheet.SkillID, level mastery.Level) []tea.Msg {
	t.Helper()
	require.True(t, f.editor.Choose(id, level))
	return collectMsgs(f.editor.Flush())
}

func TestPresent_PreselectsEveryLevel(t *testing.T) {
	for _, level := range mastery.Levels() {
		t.Run(string(level), func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.editor.Present("42", level))

			c := f.cell(t, "42")
			sel := c.Selector()
			require.NotNil(t, sel)
			assert.Equal(t, level, sel.Selected())
			assert.Equal(t, "select-42", sel.ID())
			assert.True(t, sel.Focused())
			assert.True(t, sel.Visible())
			assert.Equal(t, sheet.ModeSelect, c.Mode())
		})
	}
}

func TestPresent_MissingCellIsNonFatal(t *testing.T) {
	f := newFixture(t)

	err := f.editor.Present("999", mastery.Expert)
	require.ErrorIs(t, err, ErrCellNotFound)

	for _, c := range f.board.Cells() {
		assert.Equal(t, sheet.ModeText, c.Mode())
		assert.Nil(t, c.Selector())
	}
	assert.Equal(t, mastery.Trained, f.cell(t, "42").Text())
	assert.Equal(t, mastery.Expert, f.cell(t, "43").Text())
}

func TestPresent_RejectsUnknownLevel(t *testing.T) {
	f := newFixture(t)

	err := f.editor.Present("42", "Godlike")
	var unknown *mastery.ErrUnknownLevel
	require.ErrorAs(t, err, &unknown)
	assert.Nil(t, f.cell(t, "42").Selector())
}

func TestLeave_RestoresPresentedLevel(t *testing.T) {
	f := newFixture(t)
	c := f.cell(t, "42")
	require.NoError(t, f.editor.Present("42", mastery.Expert))
	sel := c.Selector()

	sel.Move(2)
	f.editor.Leave("42")

	assert.False(t, sel.Visible())
	assert.Equal(t, sheet.ModeText, c.Mode())
	assert.Equal(t, mastery.Expert, c.Text())
	assert.Empty(t, f.updater.calls)
}

func TestPresent_TwiceReplacesSelector(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.editor.Present("42", mastery.Trained))
	first := f.cell(t, "42").Selector()
	require.NoError(t, f.editor.Present("42", mastery.Master))
	second := f.cell(t, "42").Selector()

	assert.NotSame(t, first, second)
	assert.Equal(t, mastery.Master, second.Selected())
}

func TestSubmit_SuccessUpdatesText(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.editor.Present("42", mastery.Trained))

	msgs := f.commit(t, "42", mastery.Master)
	require.Len(t, msgs, 1)
	assert.Equal(t, StatusPending, f.editor.State("42"))

	f.editor.Update(msgs[0])

	c := f.cell(t, "42")
	assert.Equal(t, mastery.Master, c.Text())
	assert.Equal(t, sheet.ModeText, c.Mode())
	assert.Equal(t, StatusSucceeded, f.editor.State("42"))
	assert.Equal(t, []mastery.Level{mastery.Master}, f.updater.calls)
	assert.Empty(t, f.alerts)
}

func TestSubmit_ApplicationErrorAlerts(t *testing.T) {
	f := newFixture(t)
	f.updater.res = &client.UpdateResult{Error: "Invalid mastery"}
	require.NoError(t, f.editor.Present("42", mastery.Trained))

	for _, msg := range f.commit(t, "42", mastery.Legendary) {
		f.editor.Update(msg)
	}

	assert.Equal(t, []string{"Invalid mastery"}, f.alerts)
	assert.Equal(t, mastery.Trained, f.cell(t, "42").Text())
	assert.Equal(t, StatusRejected, f.editor.State("42"))

	last := f.transitions[len(f.transitions)-1]
	assert.Equal(t, StatusRejected, last.To)
	assert.Equal(t, "Invalid mastery", last.Message)
}

func TestSubmit_ConnectionRefusedChangesNothing(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	board := sheet.NewBoard()
	board.Add("42", "Arcana", mastery.Trained)
	var alerts []string
	e := New(board, client.New(url), WithAlerter(AlertFunc(func(m string) { alerts = append(alerts, m) })))

	require.NoError(t, e.Present("42", mastery.Trained))
	require.True(t, e.Choose("42", mastery.Master))
	require.NotPanics(t, func() {
		for _, msg := range collectMsgs(e.Flush()) {
			e.Update(msg)
		}
	})

	c, _ := board.Lookup("42")
	assert.Equal(t, mastery.Trained, c.Text())
	assert.Equal(t, sheet.ModeSelect, c.Mode())
	assert.Equal(t, StatusFailed, e.State("42"))
	assert.Empty(t, alerts)
}

func TestSubmit_LatestIntentWins(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.editor.Present("42", mastery.Trained))

	first := f.commit(t, "42", mastery.Expert)
	second := f.commit(t, "42", mastery.Master)
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	// Responses arrive out of order.
	f.editor.Update(second[0])
	f.editor.Update(first[0])

	assert.Equal(t, mastery.Master, f.cell(t, "42").Text())
	assert.Equal(t, StatusSucceeded, f.editor.State("42"))

	var superseded int
	for _, tr := range f.transitions {
		if tr.To == StatusSuperseded {
			superseded++
			assert.Equal(t, uint64(1), tr.Seq)
		}
	}
	assert.Equal(t, 1, superseded)
}

func TestSubmit_SequencesArePerSkill(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.editor.Present("42", mastery.Trained))
	require.NoError(t, f.editor.Present("43", mastery.Expert))

	a := f.commit(t, "42", mastery.Master)
	b := f.commit(t, "43", mastery.None)

	f.editor.Update(b[0])
	f.editor.Update(a[0])

	assert.Equal(t, mastery.Master, f.cell(t, "42").Text())
	assert.Equal(t, mastery.None, f.cell(t, "43").Text())
}

func TestSubmit_TimeoutFails(t *testing.T) {
	f := newFixture(t, WithTimeout(10*time.Millisecond))
	f.updater.block = true
	require.NoError(t, f.editor.Present("42", mastery.Trained))

	msgs := f.commit(t, "42", mastery.Expert)
	require.Len(t, msgs, 1)
	res := msgs[0].(UpdateResultMsg)
	assert.True(t, errors.Is(res.Err, context.DeadlineExceeded))

	f.editor.Update(res)
	assert.Equal(t, StatusFailed, f.editor.State("42"))
	assert.Equal(t, mastery.Trained, f.cell(t, "42").Text())
}

func TestCancel_IgnoresLateResult(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.editor.Present("42", mastery.Trained))
	require.True(t, f.editor.Choose("42", mastery.Master))
	cmd := f.editor.Flush()

	assert.True(t, f.editor.Cancel("42"))
	assert.False(t, f.editor.Cancel("42"))
	assert.Equal(t, StatusCanceled, f.editor.State("42"))

	for _, msg := range collectMsgs(cmd) {
		f.editor.Update(msg)
	}
	assert.Equal(t, StatusCanceled, f.editor.State("42"))
	assert.Equal(t, mastery.Trained, f.cell(t, "42").Text())
}

func TestCancelAll_CancelsEveryPendingSkill(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.editor.Present("42", mastery.Trained))
	require.NoError(t, f.editor.Present("43", mastery.Expert))
	require.True(t, f.editor.Choose("42", mastery.Master))
	require.True(t, f.editor.Choose("43", mastery.Legendary))
	cmd := f.editor.Flush()

	f.editor.CancelAll()
	assert.Equal(t, StatusCanceled, f.editor.State("42"))
	assert.Equal(t, StatusCanceled, f.editor.State("43"))

	for _, msg := range collectMsgs(cmd) {
		f.editor.Update(msg)
	}
	assert.Equal(t, mastery.Trained, f.cell(t, "42").Text())
	assert.Equal(t, mastery.Expert, f.cell(t, "43").Text())
}

func TestChoose_SameLevelDoesNotSubmit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.editor.Present("42", mastery.Trained))

	require.True(t, f.editor.Choose("42", mastery.Trained))
	assert.Nil(t, f.editor.Flush())
	assert.Equal(t, StatusIdle, f.editor.State("42"))
	assert.False(t, f.editor.Choose("43", mastery.Master), "no selector mounted on 43")
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.True(t, StatusSucceeded.Terminal())
	assert.False(t, StatusPending.Terminal())
}
