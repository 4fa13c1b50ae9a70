package skillsheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/masterysheet/internal/client"
	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/model"
	"github.com/abhisek/masterysheet/internal/router"
	"github.com/abhisek/masterysheet/internal/screen"
	"github.com/abhisek/masterysheet/internal/screens/history"
	"github.com/abhisek/masterysheet/internal/sheet"
	"github.com/abhisek/masterysheet/internal/skilledit"
	"github.com/abhisek/masterysheet/internal/ui/components"
	"github.com/abhisek/masterysheet/internal/ui/layout"
)

const loadTimeout = 10 * time.Second

// Backend is the part of the API client the sheet reads and writes through.
type Backend interface {
	client.Updater
	ListSkills(ctx context.Context, characterID uint) ([]model.CharacterSkill, error)
	CreateSkill(ctx context.Context, in model.CharacterSkillCreate) (*model.CharacterSkill, error)
	History(ctx context.Context, id sheet.SkillID) ([]model.MasteryChange, error)
}

var _ Backend = (*client.Client)(nil)

// Options configures a SkillSheetScreen.
type Options struct {
	Logger  *zap.Logger
	Timeout time.Duration
	// Updater overrides the backend for mastery updates, e.g. with a
	// logging decorator.
	Updater client.Updater
}

// SkillSheetScreen lists a character's skills and edits their mastery in
// place.
type SkillSheetScreen struct {
	characterID uint
	backend     Backend
	logger      *zap.Logger

	board  *sheet.Board
	editor *skilledit.Editor

	cursor  int
	editing sheet.SkillID // skill whose selector is open, "" if none
	alert   *components.Alert // blocking alert, nil if none
	failed  map[sheet.SkillID]bool

	adding bool
	input  components.TextInput

	loaded bool
	errMsg string
}

var _ screen.Screen = (*SkillSheetScreen)(nil)
var _ screen.KeyHintProvider = (*SkillSheetScreen)(nil)
var _ screen.Closer = (*SkillSheetScreen)(nil)

// New creates a sheet for characterID backed by backend.
func New(characterID uint, backend Backend, opts Options) *SkillSheetScreen {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	updater := opts.Updater
	if updater == nil {
		updater = backend
	}

	s := &SkillSheetScreen{
		characterID: characterID,
		backend:     backend,
		logger:      logger,
		board:       sheet.NewBoard(),
		failed:      make(map[sheet.SkillID]bool),
	}
	s.editor = skilledit.New(s.board, updater,
		skilledit.WithAlerter(skilledit.AlertFunc(func(msg string) {
			a := components.NewAlert(msg)
			s.alert = &a
		})),
		skilledit.WithLogger(logger),
		skilledit.WithTimeout(opts.Timeout),
		skilledit.WithObserver(s.observe),
	)
	return s
}

func (s *SkillSheetScreen) Init() tea.Cmd {
	return s.load()
}

func (s *SkillSheetScreen) Title() string {
	return fmt.Sprintf("Character %d", s.characterID)
}

func (s *SkillSheetScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.alert != nil:
		return hints(keys.Dismiss)
	case s.adding:
		return []layout.KeyHint{{Key: "Enter", Description: "Create"}, {Key: "Esc", Description: "Cancel"}}
	case s.editing != "":
		return append([]layout.KeyHint{{Key: "↑↓", Description: "Choose"}}, hints(keys.Commit, keys.Leave)...)
	default:
		return append([]layout.KeyHint{{Key: "↑↓", Description: "Navigate"}},
			hints(keys.Edit, keys.Add, keys.History, keys.Reload)...)
	}
}

func hints(bindings ...key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return out
}

func (s *SkillSheetScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case skillsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		for _, sk := range msg.Skills {
			s.board.Add(sheet.IDFromUint(sk.ID), sk.Name, sk.Mastery)
		}
		s.clampCursor()
		return s, nil

	case skillCreatedMsg:
		if msg.Err != nil {
			s.input.SetError(createErrorText(msg.Err))
			return s, nil
		}
		s.adding = false
		s.board.Add(sheet.IDFromUint(msg.Skill.ID), msg.Skill.Name, msg.Skill.Mastery)
		s.cursor = s.board.Len() - 1
		return s, nil

	case skilledit.UpdateResultMsg:
		return s, s.editor.Update(msg)

	case components.AlertDismissedMsg:
		s.alert = nil
		return s, nil

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	if s.adding {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SkillSheetScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	// The alert blocks every other interaction until dismissed.
	if s.alert != nil {
		var cmd tea.Cmd
		*s.alert, cmd = s.alert.Update(msg)
		return cmd
	}

	if s.adding {
		return s.handleAddKey(msg)
	}

	if s.editing != "" {
		return s.handleSelectorKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Up):
		s.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		s.moveCursor(1)
	case key.Matches(msg, keys.Edit):
		s.present()
	case key.Matches(msg, keys.Add):
		s.adding = true
		s.input = components.NewTextInput("Skill name", 127)
		return s.input.Init()
	case key.Matches(msg, keys.History):
		if c := s.current(); c != nil {
			h := history.New(c.ID, c.Name, s.backend)
			return func() tea.Msg { return router.PushScreenMsg{Screen: h} }
		}
	case key.Matches(msg, keys.Cancel):
		if c := s.current(); c != nil {
			s.editor.Cancel(c.ID)
		}
	case key.Matches(msg, keys.Reload):
		return s.load()
	}
	return nil
}

func (s *SkillSheetScreen) handleSelectorKey(msg tea.KeyMsg) tea.Cmd {
	id := s.editing
	cell, ok := s.board.Lookup(id)
	if !ok || cell.Selector() == nil {
		s.editing = ""
		return nil
	}
	sel := cell.Selector()

	switch {
	case key.Matches(msg, keys.Up):
		sel.Move(-1)
	case key.Matches(msg, keys.Down):
		sel.Move(1)
	case key.Matches(msg, keys.Commit):
		sel.Commit()
		s.editing = ""
		s.editor.Leave(id)
		return s.editor.Flush()
	case key.Matches(msg, keys.Leave):
		s.editing = ""
		s.editor.Leave(id)
	}
	return nil
}

func (s *SkillSheetScreen) handleAddKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.adding = false
		return nil
	case "enter":
		name := s.input.Value()
		if name == "" {
			s.input.SetError("name required")
			return nil
		}
		return s.create(name)
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *SkillSheetScreen) present() {
	c := s.current()
	if c == nil {
		return
	}
	if err := s.editor.Present(c.ID, c.Text()); err != nil {
		s.logger.Warn("cannot edit mastery", zap.String("skill_id", string(c.ID)), zap.Error(err))
		return
	}
	s.editing = c.ID
	delete(s.failed, c.ID)
}

func (s *SkillSheetScreen) observe(t skilledit.Transition) {
	switch t.To {
	case skilledit.StatusFailed:
		s.failed[t.SkillID] = true
	case skilledit.StatusSucceeded, skilledit.StatusPending:
		delete(s.failed, t.SkillID)
	}
}

func (s *SkillSheetScreen) load() tea.Cmd {
	backend, characterID := s.backend, s.characterID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		skills, err := backend.ListSkills(ctx, characterID)
		return skillsLoadedMsg{Skills: skills, Err: err}
	}
}

func (s *SkillSheetScreen) create(name string) tea.Cmd {
	backend := s.backend
	in := model.CharacterSkillCreate{CharacterID: s.characterID, Name: name, Mastery: mastery.None}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		sk, err := backend.CreateSkill(ctx, in)
		return skillCreatedMsg{Skill: sk, Err: err}
	}
}

func createErrorText(err error) string {
	var apiErr *client.ErrAPI
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "could not reach server"
}

func (s *SkillSheetScreen) current() *sheet.Cell {
	cells := s.board.Cells()
	if s.cursor < 0 || s.cursor >= len(cells) {
		return nil
	}
	return cells[s.cursor]
}

func (s *SkillSheetScreen) moveCursor(delta int) {
	s.cursor += delta
	s.clampCursor()
}

func (s *SkillSheetScreen) clampCursor() {
	s.cursor = min(max(s.cursor, 0), max(s.board.Len()-1, 0))
}

// Editing reports the skill whose selector is open, if any.
func (s *SkillSheetScreen) Editing() (sheet.SkillID, bool) {
	return s.editing, s.editing != ""
}

// Alert returns the blocking alert message, or "" if none is shown.
func (s *SkillSheetScreen) Alert() string {
	if s.alert == nil {
		return ""
	}
	return s.alert.Message
}

// Close cancels every in-flight mastery update.
func (s *SkillSheetScreen) Close() {
	s.editor.CancelAll()
}
