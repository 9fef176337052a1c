package tasklist

import (
	"slices"

	"task-manager/domain"
)

// DefaultColumns are shown when no layout is configured.
var DefaultColumns = []domain.Column{
	domain.ColumnTitle,
	domain.ColumnDescription,
	domain.ColumnAssignee,
	domain.ColumnDueDate,
	domain.ColumnStatus,
	domain.ColumnPriority,
}

// Columns is the visible column list in display order. It only affects
// rendering.
type Columns struct {
	visible []domain.Column
}

// ColumnItem is one entry of the column picker.
type ColumnItem struct {
	Column   domain.Column
	Label    string
	Selected bool
}

// NewColumns creates a layout showing cols, or DefaultColumns when none are
// given. Unknown and repeated columns are dropped.
func NewColumns(cols ...domain.Column) *Columns {
	if len(cols) == 0 {
		cols = DefaultColumns
	}
	c := &Columns{visible: make([]domain.Column, 0, len(cols))}
	for _, col := range cols {
		if !slices.Contains(domain.AllColumns, col) || slices.Contains(c.visible, col) {
			continue
		}
		c.visible = append(c.visible, col)
	}
	return c
}

// Visible returns the shown columns in order.
func (c *Columns) Visible() []domain.Column {
	return slices.Clone(c.visible)
}

// Toggle shows or hides col. A newly shown column goes to the end.
func (c *Columns) Toggle(col domain.Column, visible bool) {
	idx := slices.Index(c.visible, col)
	switch {
	case visible && idx < 0 && slices.Contains(domain.AllColumns, col):
		c.visible = append(c.visible, col)
	case !visible && idx >= 0:
		c.visible = slices.Delete(c.visible, idx, idx+1)
	}
}

// Move drags the column at index from to index to. Out of range indexes are
// ignored and reported as false.
func (c *Columns) Move(from, to int) bool {
	n := len(c.visible)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	col := c.visible[from]
	c.visible = slices.Delete(c.visible, from, from+1)
	c.visible = slices.Insert(c.visible, to, col)
	return true
}

// Selectable lists every column with whether it is shown.
func (c *Columns) Selectable() []ColumnItem {
	out := make([]ColumnItem, 0, len(domain.AllColumns))
	for _, col := range domain.AllColumns {
		out = append(out, ColumnItem{
			Column:   col,
			Label:    col.Label(),
			Selected: slices.Contains(c.visible, col),
		})
	}
	return out
}
