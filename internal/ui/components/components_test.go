package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/sheet"
)

func TestRenderPickerListsEveryLevel(t *testing.T) {
	sel := sheet.NewSelector("7", mastery.Expert)
	sel.Show()
	sel.Focus()

	out := RenderPicker(sel)
	for _, l := range mastery.Levels() {
		if !strings.Contains(out, l.String()) {
			t.Errorf("picker missing level %q", l)
		}
	}
	if !strings.Contains(out, "▸") {
		t.Error("expected a cursor on the highlighted option")
	}
}

func TestRenderPickerHidden(t *testing.T) {
	sel := sheet.NewSelector("7", mastery.Expert)
	if got := RenderPicker(sel); got != "" {
		t.Errorf("hidden picker rendered %q", got)
	}
	if got := RenderPicker(nil); got != "" {
		t.Errorf("nil picker rendered %q", got)
	}
}

func TestAlertShowsMessage(t *testing.T) {
	out := NewAlert("Invalid mastery").View(60, 12)
	if !strings.Contains(out, "Invalid mastery") {
		t.Error("alert missing message")
	}
	if !strings.Contains(out, "OK") {
		t.Error("alert missing OK button")
	}
}

func TestAlertDismissedByOK(t *testing.T) {
	a := NewAlert("Invalid mastery")

	a, cmd := a.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if cmd != nil {
		t.Error("only enter should act on the alert")
	}

	_, cmd = a.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command on enter")
	}
	if _, ok := cmd().(AlertDismissedMsg); !ok {
		t.Error("expected AlertDismissedMsg")
	}
}

func TestButtonPress(t *testing.T) {
	pressed := false
	b := NewButton("OK", true, func() tea.Cmd {
		pressed = true
		return nil
	})
	b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !pressed {
		t.Error("expected OnPress on enter")
	}

	pressed = false
	b.Active = false
	b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if pressed {
		t.Error("inactive button should ignore enter")
	}
}

func TestTextInputValueTrimmed(t *testing.T) {
	ti := NewTextInput("name", 20)
	ti.Model.SetValue("  Athletics ")
	if got := ti.Value(); got != "Athletics" {
		t.Errorf("Value() = %q, want %q", got, "Athletics")
	}
	ti.SetError("required")
	if !strings.Contains(ti.View(), "required") {
		t.Error("expected error in view")
	}
}
