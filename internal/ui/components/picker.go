package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterysheet/internal/sheet"
	"github.com/abhisek/masterysheet/internal/ui/theme"
)

// RenderPicker renders a mounted mastery selector as a vertical option
// list. The highlighted option carries a cursor; the selected one a dot.
// A hidden selector renders as the empty string.
func RenderPicker(sel *sheet.Selector) string {
	if sel == nil || !sel.Visible() {
		return ""
	}

	var b strings.Builder
	for _, opt := range sel.Options() {
		prefix := "  "
		if opt == sel.Highlighted() && sel.Focused() {
			prefix = "▸ "
		}
		mark := " "
		if opt == sel.Selected() {
			mark = "●"
		}

		line := fmt.Sprintf("%s%s %s", prefix, mark, opt)
		if opt == sel.Highlighted() {
			b.WriteString(theme.Selected.Render(line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.LevelColor(opt)).Render(line))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1).
		Render(strings.TrimSuffix(b.String(), "\n"))
}
