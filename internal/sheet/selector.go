package sheet

import "github.com/abhisek/masterysheet/internal/mastery"

// Selector is the inline mastery dropdown mounted into a Cell.
type Selector struct {
	id       string
	options  []mastery.Level
	selected int
	cursor   int
	focused  bool
	visible  bool

	onChange func(mastery.Level)
	onLeave  func()
}

// NewSelector builds a selector for skillID listing every mastery level,
// with current pre-selected. An unknown current leaves nothing selected.
func NewSelector(skillID SkillID, current mastery.Level) *Selector {
	s := &Selector{
		id:       SelectorID(skillID),
		options:  mastery.Levels(),
		selected: current.Rank(),
	}
	s.cursor = max(s.selected, 0)
	return s
}

// SelectorID returns the element id of the selector for skillID.
func SelectorID(skillID SkillID) string {
	return "select-" + string(skillID)
}

func (s *Selector) ID() string                { return s.id }
func (s *Selector) Options() []mastery.Level { return s.options }
func (s *Selector) Focused() bool             { return s.focused }
func (s *Selector) Visible() bool             { return s.visible }

// Selected returns the committed option, or "" if none is selected.
func (s *Selector) Selected() mastery.Level {
	if s.selected < 0 || s.selected >= len(s.options) {
		return ""
	}
	return s.options[s.selected]
}

// Highlighted returns the option under the cursor.
func (s *Selector) Highlighted() mastery.Level {
	return s.options[s.cursor]
}

// Move shifts the cursor by delta, clamped to the option list.
func (s *Selector) Move(delta int) {
	s.cursor = min(max(s.cursor+delta, 0), len(s.options)-1)
}

func (s *Selector) Focus() { s.focused = true }
func (s *Selector) Show()  { s.visible = true }

// Hide makes the selector invisible and drops focus.
func (s *Selector) Hide() {
	s.visible = false
	s.focused = false
}

// OnChange registers the handler fired when the selected value changes.
func (s *Selector) OnChange(fn func(mastery.Level)) { s.onChange = fn }

// OnLeave registers the handler fired when focus leaves the control.
func (s *Selector) OnLeave(fn func()) { s.onLeave = fn }

// Choose selects level. The change handler fires only when the value differs
// from the current selection.
func (s *Selector) Choose(level mastery.Level) {
	idx := level.Rank()
	if idx < 0 || idx == s.selected {
		return
	}
	s.selected = idx
	s.cursor = idx
	if s.onChange != nil {
		s.onChange(level)
	}
}

// Commit chooses the highlighted option.
func (s *Selector) Commit() {
	s.Choose(s.Highlighted())
}

// Leave fires the leave handler at most once per selector.
func (s *Selector) Leave() {
	fn := s.onLeave
	s.onLeave = nil
	if fn != nil {
		fn()
	}
}
