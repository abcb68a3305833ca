package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorPink
	ColorPurple
)

// Style is the visual attribute set of a cell.
type Style struct {
	Fg      Color
	Bg      Color // ColorDefault leaves the terminal background
	Bold    bool
	Reverse bool
}

// Plain returns a style with only a foreground color.
func Plain(fg Color) Style {
	return Style{Fg: fg}
}
