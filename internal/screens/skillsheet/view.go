package skillsheet

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterysheet/internal/sheet"
	"github.com/abhisek/masterysheet/internal/ui/components"
	"github.com/abhisek/masterysheet/internal/ui/theme"
)

const nameWidth = 28

func (s *SkillSheetScreen) View(width, height int) string {
	if s.alert != nil {
		return s.alert.View(width, height)
	}
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s\n\nPress r to retry", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading skills...")
	}

	var b strings.Builder
	b.WriteString("\n")

	cells := s.board.Cells()
	if len(cells) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No skills yet. Press a to add one."))
		b.WriteString("\n")
	}

	for i, c := range cells {
		b.WriteString(s.renderRow(c, i == s.cursor))
		b.WriteString("\n")
		if c.Mode() == sheet.ModeSelect {
			b.WriteString(indent(components.RenderPicker(c.Selector()), nameWidth+4))
			b.WriteString("\n")
		}
	}

	if s.adding {
		b.WriteString("\n  New skill: ")
		b.WriteString(s.input.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (s *SkillSheetScreen) renderRow(c *sheet.Cell, selected bool) string {
	prefix := "  "
	nameStyle := theme.Unselected
	if selected {
		prefix = "▸ "
		nameStyle = theme.Selected
	}

	name := c.Name
	if r := []rune(name); len(r) > nameWidth {
		name = string(r[:nameWidth-1]) + "…"
	}

	line := nameStyle.Render(fmt.Sprintf("%s%-*s", prefix, nameWidth, name)) + "  "
	if c.Mode() == sheet.ModeSelect {
		line += theme.Hint.Render("choosing…")
	} else {
		line += theme.Level(c.Text())
	}

	switch {
	case s.editor.Pending(c.ID):
		line += "  " + theme.Pending.Render("saving…")
	case s.failed[c.ID]:
		line += "  " + theme.Failed.Render("not saved")
	}
	return line
}

func indent(block string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
