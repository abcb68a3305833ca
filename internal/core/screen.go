package core

import (
	"strings"
)

// Cell is one character position on the screen.
type Cell struct {
	Rune  rune
	Style Style
}

var blank = Cell{Rune: ' '}

// Screen is a 2D cell buffer for rendering game graphics.
// It decouples game rendering from the terminal, allowing games to draw
// runes with styles while the platform handles actual display.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  width,
		height: height,
	}
	s.allocate()
	s.Clear()
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}

	old := s.cells
	copyW := min(s.width, width)
	copyH := min(s.height, height)

	s.width = width
	s.height = height
	s.allocate()
	s.Clear()

	for y := range copyH {
		copy(s.cells[y][:copyW], old[y][:copyW])
	}
}

// Clear fills the entire screen with unstyled spaces.
func (s *Screen) Clear() {
	s.FillCell(blank)
}

// Fill fills the entire screen with the given rune.
func (s *Screen) Fill(r rune) {
	s.FillCell(Cell{Rune: r})
}

// FillCell fills the entire screen with c.
func (s *Screen) FillCell(c Cell) {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = c
		}
	}
}

// Set places an unstyled rune at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetStyled(x, y, r, Style{})
}

// SetWithColor places a rune with a foreground color.
func (s *Screen) SetWithColor(x, y int, r rune, c Color) {
	s.SetStyled(x, y, r, Plain(c))
}

// SetStyled places a rune with a full style.
func (s *Screen) SetStyled(x, y int, r rune, st Style) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = Cell{Rune: r, Style: st}
}

// Get returns the rune at the given position.
// Returns space for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at the given position.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return blank
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextStyled(x, y, text, Style{})
}

// DrawTextColor writes colored text starting at (x, y).
func (s *Screen) DrawTextColor(x, y int, text string, c Color) {
	s.DrawTextStyled(x, y, text, Plain(c))
}

// DrawTextStyled writes styled text starting at (x, y).
func (s *Screen) DrawTextStyled(x, y int, text string, st Style) {
	i := 0
	for _, r := range text {
		s.SetStyled(x+i, y, r, st)
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string) {
	s.DrawTextCenteredStyled(y, text, Style{})
}

// DrawTextCenteredStyled draws styled text centered at the given y position.
func (s *Screen) DrawTextCenteredStyled(y int, text string, st Style) {
	x := (s.width - len([]rune(text))) / 2
	s.DrawTextStyled(x, y, text, st)
}

// DrawRect fills a rectangular area with the given cell.
func (s *Screen) DrawRect(r Rect, fill Cell) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.SetStyled(x, y, fill.Rune, fill.Style)
		}
	}
}

// DrawBox draws a box outline using box-drawing characters.
func (s *Screen) DrawBox(r Rect, st Style) {
	s.SetStyled(r.X, r.Y, '┌', st)
	s.SetStyled(r.Right()-1, r.Y, '┐', st)
	s.SetStyled(r.X, r.Bottom()-1, '└', st)
	s.SetStyled(r.Right()-1, r.Bottom()-1, '┘', st)

	for x := r.X + 1; x < r.Right()-1; x++ {
		s.SetStyled(x, r.Y, '─', st)
		s.SetStyled(x, r.Bottom()-1, '─', st)
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		s.SetStyled(r.X, y, '│', st)
		s.SetStyled(r.Right()-1, y, '│', st)
	}
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (s *Screen) DrawHLine(x, y, length int, r rune, st Style) {
	for i := range length {
		s.SetStyled(x+i, y, r, st)
	}
}

// DrawBar draws a horizontal meter of width cells, filled to value/maxValue.
func (s *Screen) DrawBar(x, y, width, value, maxValue int, fill, empty Style) {
	if maxValue <= 0 || width <= 0 {
		return
	}
	filled := Clamp(value*width/maxValue, 0, width)
	for i := range width {
		if i < filled {
			s.SetStyled(x+i, y, '█', fill)
		} else {
			s.SetStyled(x+i, y, '░', empty)
		}
	}
}

// String converts the screen buffer to plain text, one line per row.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := range s.height {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := range s.width {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the runes of row y as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}
