package ui

import (
	"fmt"

	tm "github.com/nsf/termbox-go"
)

// Table draws a bordered cell grid on the termbox backbuffer, one row at
// a time from top to bottom.
type Table struct {
	ColWidths []int
	X, Y      int
	row       int
}

func (t *Table) width() int {
	w := len(t.ColWidths) + 1
	for _, cw := range t.ColWidths {
		w += cw
	}
	return w
}

func (t *Table) drawRule(ledge, redge, middle, spr rune) {
	tw := t.width()
	for i := 0; i < tw; i++ {
		tm.SetCell(t.X+i, t.Y+t.row, middle, tm.ColorDefault, tm.ColorDefault)
	}
	tm.SetCell(t.X, t.Y+t.row, ledge, tm.ColorDefault, tm.ColorDefault)
	tm.SetCell(t.X+tw-1, t.Y+t.row, redge, tm.ColorDefault, tm.ColorDefault)

	o := 0
	for c, w := range t.ColWidths {
		o += w + 1
		if c < len(t.ColWidths)-1 {
			tm.SetCell(t.X+o, t.Y+t.row, spr, tm.ColorDefault, tm.ColorDefault)
		}
	}
	t.row++
}

// AddHeader draws the top border.
func (t *Table) AddHeader() {
	t.drawRule(Symbols[SymbolLeftTop], Symbols[SymbolRightTop], Symbols[SymbolHorizontal], Symbols[SymbolMiddleTop])
}

// AddSeparator draws an inner rule between row groups.
func (t *Table) AddSeparator() {
	t.drawRule(Symbols[SymbolMiddleLeft], Symbols[SymbolMiddleRight], Symbols[SymbolHorizontal], Symbols[SymbolMiddleMiddle])
}

// AddFooter draws the bottom border.
func (t *Table) AddFooter() {
	t.drawRule(Symbols[SymbolLeftBottom], Symbols[SymbolRightBottom], Symbols[SymbolHorizontal], Symbols[SymbolMiddleBottom])
}

// AddRow draws one row of right-justified cells inside vertical borders.
func (t *Table) AddRow(cells []string) {
	t.drawRule(Symbols[SymbolVertical], Symbols[SymbolVertical], Symbols[SymbolSpace], Symbols[SymbolVertical])
	t.row--

	o := 1
	for i, w := range t.ColWidths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		printText(t.X+o, t.Y+t.row, w, fmt.Sprintf("%*s", w, cell), tm.ColorDefault, tm.ColorDefault)
		o += w + 1
	}
	t.row++
}

// Reset rewinds the cursor so the table can be repainted in place.
func (t *Table) Reset() {
	t.row = 0
}
