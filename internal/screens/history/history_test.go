package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/model"
	"github.com/abhisek/masterysheet/internal/router"
	"github.com/abhisek/masterysheet/internal/sheet"
)

type stubSource struct {
	changes []model.MasteryChange
	err     error
	gotID   sheet.SkillID
}

func (s *stubSource) History(_ context.Context, id sheet.SkillID) ([]model.MasteryChange, error) {
	s.gotID = id
	return s.changes, s.err
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestHistoryLoadsAndRenders(t *testing.T) {
	src := &stubSource{changes: []model.MasteryChange{
		{Sequence: 2, SkillID: 9, From: mastery.Trained, To: mastery.Expert, Timestamp: time.Now()},
		{Sequence: 1, SkillID: 9, From: mastery.None, To: mastery.Trained, Timestamp: time.Now()},
	}}
	s := New("9", "Arcana", src)

	msg := s.Init()()
	s.Update(msg)

	if src.gotID != "9" {
		t.Errorf("History called with %q, want 9", src.gotID)
	}
	if s.Title() != "Arcana history" {
		t.Errorf("unexpected title %q", s.Title())
	}
	out := s.View(80, 20)
	for _, want := range []string{"#2", "#1", "Expert", "Trained"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryError(t *testing.T) {
	s := New("9", "Arcana", &stubSource{err: errors.New("boom")})
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 20), "boom") {
		t.Error("expected error in view")
	}
}

func TestHistoryEmpty(t *testing.T) {
	s := New("9", "Arcana", &stubSource{})
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 20), "No mastery changes") {
		t.Error("expected empty message")
	}
}

func TestHistoryEscPops(t *testing.T) {
	s := New("9", "Arcana", &stubSource{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected command on esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestHistoryNavigationClamps(t *testing.T) {
	src := &stubSource{changes: []model.MasteryChange{{Sequence: 2}, {Sequence: 1}}}
	s := New("9", "Arcana", src)
	s.Update(s.Init()())

	s.Update(keyPress('j'))
	s.Update(keyPress('j'))
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
	s.Update(keyPress('k'))
	s.Update(keyPress('k'))
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
}
