package sheet

import (
	"strconv"

	"github.com/abhisek/masterysheet/internal/mastery"
)

// SkillID identifies a character skill both on the sheet and on the backend.
type SkillID string

// IDFromUint formats a numeric database id as a SkillID.
func IDFromUint(id uint) SkillID {
	return SkillID(strconv.FormatUint(uint64(id), 10))
}

// Mode is what a cell currently shows.
type Mode int

const (
	ModeText Mode = iota
	ModeSelect
)

// Cell is the display element for one skill's mastery. It shows either the
// level as text or a mounted selector, never both.
type Cell struct {
	ID   SkillID
	Name string

	text     mastery.Level
	selector *Selector
}

// Text returns the level shown while the cell is in text mode.
func (c *Cell) Text() mastery.Level {
	return c.text
}

// SetText shows level as plain text. Any mounted selector is discarded
// along with its handlers.
func (c *Cell) SetText(level mastery.Level) {
	c.text = level
	c.selector = nil
}

// Mount replaces the cell's content with sel.
func (c *Cell) Mount(sel *Selector) {
	c.selector = sel
}

// Selector returns the mounted selector, or nil.
func (c *Cell) Selector() *Selector {
	return c.selector
}

// Mode reports whether the cell shows text or a visible selector.
func (c *Cell) Mode() Mode {
	if c.selector != nil && c.selector.Visible() {
		return ModeSelect
	}
	return ModeText
}
