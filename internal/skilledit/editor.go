package skilledit

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/masterysheet/internal/client"
	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/sheet"
)

// DefaultTimeout bounds a single mastery update request.
const DefaultTimeout = 10 * time.Second

// ErrCellNotFound is returned by Present when no display cell exists for
// the skill.
var ErrCellNotFound = errors.New("skill cell not found")

// Surface locates display cells by skill id.
type Surface interface {
	Lookup(id sheet.SkillID) (*sheet.Cell, bool)
}

// Alerter shows a blocking notification to the user.
type Alerter interface {
	Alert(message string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

// request tracks the latest update issued for a skill.
type request struct {
	seq    uint64
	level  mastery.Level
	status Status
	cancel context.CancelFunc
}

// Editor presents mastery selectors on a Surface and persists the chosen
// levels through an Updater. It is not safe for concurrent use: all calls,
// including Update with result messages, must come from the UI loop.
type Editor struct {
	surface  Surface
	updater  client.Updater
	alerter  Alerter
	logger   *zap.Logger
	timeout  time.Duration
	observer func(Transition)

	seq    map[sheet.SkillID]uint64
	latest map[sheet.SkillID]*request
	queued []tea.Cmd
}

// Option configures an Editor.
type Option func(*Editor)

// WithAlerter sets the user-facing notifier for rejected updates.
func WithAlerter(a Alerter) Option {
	return func(e *Editor) { e.alerter = a }
}

// WithLogger sets the operator log.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithTimeout bounds each update request. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithObserver registers a callback receiving every request transition.
func WithObserver(fn func(Transition)) Option {
	return func(e *Editor) { e.observer = fn }
}

// New creates an Editor over surface that persists through updater.
func New(surface Surface, updater client.Updater, opts ...Option) *Editor {
	e := &Editor{
		surface: surface,
		updater: updater,
		logger:  zap.NewNop(),
		timeout: DefaultTimeout,
		seq:     make(map[sheet.SkillID]uint64),
		latest:  make(map[sheet.SkillID]*request),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.alerter == nil {
		e.alerter = AlertFunc(func(msg string) {
			e.logger.Warn("alert with no alerter", zap.String("message", msg))
		})
	}
	return e
}

// Present mounts a mastery selector for id with current pre-selected.
// Leaving the selector without committing restores current as text.
func (e *Editor) Present(id sheet.SkillID, current mastery.Level) error {
	if !current.Valid() {
		return fmt.Errorf("present %s: %w", id, &mastery.ErrUnknownLevel{Value: string(current)})
	}

	sel := sheet.NewSelector(id, current)
	sel.OnChange(func(level mastery.Level) {
		e.queued = append(e.queued, e.Submit(id, level))
	})

	cell, ok := e.surface.Lookup(id)
	if !ok {
		e.logger.Error("skill cell not found", zap.String("skill_id", string(id)))
		return fmt.Errorf("present %s: %w", id, ErrCellNotFound)
	}

	cell.Mount(sel)
	sel.Focus()
	sel.Show()

	sel.OnLeave(func() {
		sel.Hide()
		cell.SetText(current)
	})
	return nil
}

// Choose selects level on the mounted selector for id, submitting it if it
// differs from the selection. It reports whether a selector was mounted.
func (e *Editor) Choose(id sheet.SkillID, level mastery.Level) bool {
	sel := e.selector(id)
	if sel == nil {
		return false
	}
	sel.Choose(level)
	return true
}

// Leave signals that focus left the selector for id.
func (e *Editor) Leave(id sheet.SkillID) {
	if sel := e.selector(id); sel != nil {
		sel.Leave()
	}
}

func (e *Editor) selector(id sheet.SkillID) *sheet.Selector {
	cell, ok := e.surface.Lookup(id)
	if !ok {
		return nil
	}
	return cell.Selector()
}

// Submit issues a mastery update for id. The returned command performs the
// request and yields an UpdateResultMsg, which must be fed back to Update.
func (e *Editor) Submit(id sheet.SkillID, level mastery.Level) tea.Cmd {
	if !level.Valid() {
		e.logger.Error("refusing to submit unknown mastery level",
			zap.String("skill_id", string(id)), zap.String("mastery", string(level)))
		return nil
	}

	e.seq[id]++
	seq := e.seq[id]

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	req := &request{seq: seq, level: level, status: StatusIdle, cancel: cancel}
	e.latest[id] = req
	e.setStatus(id, req, StatusPending, Transition{})

	updater := e.updater
	return func() tea.Msg {
		defer cancel()
		res, err := updater.UpdateMastery(ctx, id, level)
		if err == nil && res == nil {
			err = errors.New("update mastery: empty result")
		}
		return UpdateResultMsg{SkillID: id, Seq: seq, Level: level, Result: res, Err: err}
	}
}

// Cancel aborts the in-flight update for id, if any.
func (e *Editor) Cancel(id sheet.SkillID) bool {
	req := e.latest[id]
	if req == nil || req.status != StatusPending {
		return false
	}
	req.cancel()
	e.setStatus(id, req, StatusCanceled, Transition{})
	return true
}

// CancelAll aborts every in-flight update.
func (e *Editor) CancelAll() {
	for id := range e.latest {
		e.Cancel(id)
	}
}

// Update reconciles result messages and returns commands queued by
// selector changes.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	if res, ok := msg.(UpdateResultMsg); ok {
		e.reconcile(res)
	}
	return e.Flush()
}

// Flush returns and clears the commands queued by selector changes.
func (e *Editor) Flush() tea.Cmd {
	if len(e.queued) == 0 {
		return nil
	}
	cmds := e.queued
	e.queued = nil
	return tea.Batch(cmds...)
}

// State returns the status of the latest update issued for id.
func (e *Editor) State(id sheet.SkillID) Status {
	if req := e.latest[id]; req != nil {
		return req.status
	}
	return StatusIdle
}

// Pending reports whether an update for id is in flight.
func (e *Editor) Pending(id sheet.SkillID) bool {
	return e.State(id) == StatusPending
}

func (e *Editor) reconcile(msg UpdateResultMsg) {
	log := e.logger.With(
		zap.String("skill_id", string(msg.SkillID)),
		zap.Uint64("seq", msg.Seq),
		zap.Stringer("mastery", msg.Level),
	)

	req := e.latest[msg.SkillID]
	if req == nil || req.seq != msg.Seq {
		log.Debug("discarding superseded mastery update")
		e.notify(Transition{SkillID: msg.SkillID, Seq: msg.Seq, Level: msg.Level, From: StatusPending, To: StatusSuperseded})
		return
	}
	if req.status != StatusPending {
		return
	}

	switch {
	case msg.Err != nil:
		log.Error("mastery update failed", zap.Error(msg.Err))
		e.setStatus(msg.SkillID, req, StatusFailed, Transition{Err: msg.Err})

	case msg.Result.Error != "":
		e.alerter.Alert(msg.Result.Error)
		e.setStatus(msg.SkillID, req, StatusRejected, Transition{Message: msg.Result.Error})

	default:
		if cell, ok := e.surface.Lookup(msg.SkillID); ok {
			cell.SetText(msg.Level)
		} else {
			log.Error("skill cell not found")
		}
		e.setStatus(msg.SkillID, req, StatusSucceeded, Transition{})
	}
}

func (e *Editor) setStatus(id sheet.SkillID, req *request, to Status, t Transition) {
	t.SkillID = id
	t.Seq = req.seq
	t.Level = req.level
	t.From = req.status
	t.To = to
	req.status = to
	e.notify(t)
}

func (e *Editor) notify(t Transition) {
	if e.observer != nil {
		e.observer(t)
	}
}
