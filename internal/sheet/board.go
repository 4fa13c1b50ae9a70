package sheet

import "github.com/abhisek/masterysheet/internal/mastery"

// Board is an ordered set of skill cells for one character sheet.
type Board struct {
	cells map[SkillID]*Cell
	order []SkillID
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{cells: make(map[SkillID]*Cell)}
}

// Add appends a cell in text mode, or resets an existing one.
func (b *Board) Add(id SkillID, name string, level mastery.Level) *Cell {
	if c, ok := b.cells[id]; ok {
		c.Name = name
		c.SetText(level)
		return c
	}
	c := &Cell{ID: id, Name: name, text: level}
	b.cells[id] = c
	b.order = append(b.order, id)
	return c
}

// Lookup returns the cell for id.
func (b *Board) Lookup(id SkillID) (*Cell, bool) {
	c, ok := b.cells[id]
	return c, ok
}

// Cells returns the cells in insertion order.
func (b *Board) Cells() []*Cell {
	out := make([]*Cell, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.cells[id])
	}
	return out
}

// Len returns the number of cells.
func (b *Board) Len() int {
	return len(b.order)
}
