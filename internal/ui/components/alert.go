package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterysheet/internal/ui/theme"
)

// AlertDismissedMsg is sent when the user presses OK on an alert.
type AlertDismissedMsg struct{}

// Alert is a blocking message box with a single OK button.
type Alert struct {
	Message string
	ok      Button
}

// NewAlert creates an alert showing message.
func NewAlert(message string) Alert {
	return Alert{
		Message: message,
		ok: NewButton("OK", true, func() tea.Cmd {
			return func() tea.Msg { return AlertDismissedMsg{} }
		}),
	}
}

// Update forwards key events to the OK button.
func (a Alert) Update(msg tea.Msg) (Alert, tea.Cmd) {
	var cmd tea.Cmd
	a.ok, cmd = a.ok.Update(msg)
	return a, cmd
}

// View renders the alert centered in width x height.
func (a Alert) View(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Update rejected"),
		"",
		theme.Body.Render(a.Message),
		"",
		a.ok.View(),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Modal.Render(body))
}
