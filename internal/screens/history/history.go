package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterysheet/internal/model"
	"github.com/abhisek/masterysheet/internal/router"
	"github.com/abhisek/masterysheet/internal/screen"
	"github.com/abhisek/masterysheet/internal/sheet"
	"github.com/abhisek/masterysheet/internal/ui/layout"
	"github.com/abhisek/masterysheet/internal/ui/theme"
)

// Source fetches the mastery change log of a skill.
type Source interface {
	History(ctx context.Context, id sheet.SkillID) ([]model.MasteryChange, error)
}

type historyLoadedMsg struct {
	Changes []model.MasteryChange
	Err     error
}

// HistoryScreen displays the recorded mastery changes of one skill.
type HistoryScreen struct {
	skillID  sheet.SkillID
	name     string
	source   Source
	changes  []model.MasteryChange
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen for the named skill.
func New(id sheet.SkillID, name string, source Source) *HistoryScreen {
	return &HistoryScreen{
		skillID: id,
		name:    name,
		source:  source,
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	source, id := s.source, s.skillID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		changes, err := source.History(ctx, id)
		return historyLoadedMsg{Changes: changes, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return s.name + " history"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.changes = msg.Changes
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.changes)-1 {
				s.selected++
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.changes) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No mastery changes recorded yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, c := range s.changes {
		if i >= height-1 {
			break
		}
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}

		line := style.Render(fmt.Sprintf("%s#%-5d %s  ", prefix, c.Sequence, c.Timestamp.Local().Format("Jan 02, 2006 15:04"))) +
			theme.Level(c.From) + style.Render(" → ") + theme.Level(c.To)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}

	return b.String()
}
