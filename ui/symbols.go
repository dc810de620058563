package ui

import "github.com/mattn/go-runewidth"

const (
	SymbolLeftTop = iota
	SymbolHorizontal
	SymbolRightTop
	SymbolVertical
	SymbolLeftBottom
	SymbolRightBottom
	SymbolMiddleBottom
	SymbolMiddleTop
	SymbolMiddleLeft
	SymbolMiddleRight
	SymbolMiddleMiddle
	SymbolSpace
)

var Symbols = []rune{'┌', '─', '┐', '│', '└', '┘', '┴', '┬', '├', '┤', '┼', ' '}

func init() {
	// East-Asian terminals render the box-drawing runes double-width,
	// which breaks column alignment; fall back to ASCII there.
	if runewidth.IsEastAsian() {
		Symbols = []rune{'+', '-', '+', '|', '+', '+', '+', '+', '+', '+', '+', ' '}
	}
}
