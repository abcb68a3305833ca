package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/phyzzle/internal/core"
)

// colorCodes maps core.Color to ANSI 256 color codes.
var colorCodes = map[core.Color]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
	core.ColorPink:          "213",
	core.ColorPurple:        "93",
}

var (
	styleMu    sync.Mutex
	styleCache = make(map[core.Style]lipgloss.Style)
)

// lipglossStyle converts a cell style, caching the result.
func lipglossStyle(st core.Style) lipgloss.Style {
	styleMu.Lock()
	defer styleMu.Unlock()

	if s, ok := styleCache[st]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if code, ok := colorCodes[st.Fg]; ok {
		s = s.Foreground(lipgloss.Color(code))
	}
	if code, ok := colorCodes[st.Bg]; ok {
		s = s.Background(lipgloss.Color(code))
	}
	if st.Bold {
		s = s.Bold(true)
	}
	if st.Reverse {
		s = s.Reverse(true)
	}
	styleCache[st] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y).Style

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Style != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if start == (core.Style{}) {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(lipglossStyle(start).Render(run.String()))
		}
	}
	return sb.String()
}
