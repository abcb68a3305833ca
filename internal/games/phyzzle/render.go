package phyzzle

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/phyzzle/internal/core"
	"github.com/vovakirdan/phyzzle/internal/match3"
	"github.com/vovakirdan/phyzzle/internal/session"
)

const (
	cellWidth   = 3 // Characters per tile
	hudHeight   = 4
	hudMinWidth = 46
	overlayW    = 60
	overlayH    = 12
	optionRow   = 5 // First option row inside the overlay
)

// screenLayout holds the positions shared by Render and mouse hit testing.
type screenLayout struct {
	hud     core.Rect
	board   core.Rect // Including the border
	overlay core.Rect
	minW    int
	minH    int
}

func (g *Game) layout() screenLayout {
	size := g.cfg.Grid.Size
	boardW := size*cellWidth + 2
	boardH := size + 2
	hudW := max(boardW, hudMinWidth)

	l := screenLayout{
		hud:   core.NewRect((g.screenW-hudW)/2, 0, hudW, hudHeight),
		board: core.NewRect((g.screenW-boardW)/2, hudHeight+1, boardW, boardH),
		minW:  hudW,
		minH:  hudHeight + 1 + boardH + 2,
	}
	w := min(overlayW, g.screenW-2)
	l.overlay = core.CenteredIn(core.NewRect(0, 0, g.screenW, g.screenH), w, overlayH)
	return l
}

// cellAt maps a screen position onto a grid cell.
func (g *Game) cellAt(x, y int) (match3.Coord, bool) {
	inner := g.layout().board.Inset(1)
	if !inner.Contains(x, y) {
		return match3.Coord{}, false
	}
	c := match3.At((x-inner.X)/cellWidth, y-inner.Y)
	return c, g.engine.Grid().InBounds(c)
}

// optionAt maps a screen position onto an overlay option row.
func (g *Game) optionAt(x, y int) (int, bool) {
	o := g.layout().overlay
	if !o.Contains(x, y) {
		return 0, false
	}
	i := y - (o.Y + optionRow)
	return i, i >= 0 && i < 4
}

func tileColor(t match3.TileType) core.Color {
	switch t {
	case match3.Gravity:
		return core.ColorRed
	case match3.Force:
		return core.ColorBlue
	case match3.Mass:
		return core.ColorOrange
	case match3.Velocity:
		return core.ColorPurple
	case match3.Acceleration:
		return core.ColorGreen
	default:
		return core.ColorGray
	}
}

// TileStyle returns the cell style used for a tile type.
func TileStyle(t match3.TileType) core.Style {
	return core.Style{Fg: core.ColorBrightWhite, Bg: tileColor(t), Bold: true}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	l := g.layout()
	st := g.session.State()

	g.renderHUD(dst, l.hud, st)
	g.renderBoard(dst, l.board)

	footer := l.board.Bottom()
	if g.message != "" {
		dst.DrawTextCenteredStyled(footer, g.message, core.Style{Fg: core.ColorBrightYellow, Bold: true})
	}
	dst.DrawTextCenteredStyled(footer+1, "arrows move  space select  p pause  q quit", core.Plain(core.ColorGray))

	if len(g.frames) > 0 {
		return
	}

	switch st.Phase {
	case session.PhasePaused:
		g.renderBanner(dst, l, "PAUSED", "Press P to resume")
	case session.PhaseQuiz:
		g.renderQuiz(dst, l.overlay, st)
	case session.PhaseWordChallenge:
		g.renderWord(dst, l.overlay, st)
	case session.PhaseGameOver:
		title := "EXPERIMENT ENDED"
		if st.Exploding {
			title = "REACTOR MELTDOWN"
		}
		g.renderBanner(dst, l, title, fmt.Sprintf("Score %d  Level %d  R restart  Q quit", st.Score, st.Level))
	}
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

func (g *Game) renderHUD(dst *core.Screen, r core.Rect, st session.State) {
	dst.DrawTextCenteredStyled(r.Y, g.Title(), core.Style{Fg: core.ColorBrightCyan, Bold: true})

	score := fmt.Sprintf("Score: %d", st.Score)
	level := fmt.Sprintf("Level %d", st.Level)
	dst.DrawText(r.X, r.Y+1, score)
	dst.DrawText(r.Right()-len(level), r.Y+1, level)

	const label = "Stability "
	full := g.session.Rules().StabilityMax
	pct := fmt.Sprintf(" %3d%%", st.Stability*100/full)
	barW := r.W - len(label) - len(pct)
	fill := core.Plain(core.ColorGreen)
	switch {
	case st.Stability*4 <= full:
		fill = core.Plain(core.ColorBrightRed)
	case st.Stability*2 <= full:
		fill = core.Plain(core.ColorYellow)
	}
	if !g.session.Rules().DecayEnabled {
		fill = core.Plain(core.ColorCyan)
	}
	dst.DrawText(r.X, r.Y+2, label)
	dst.DrawBar(r.X+len(label), r.Y+2, barW, st.Stability, full, fill, core.Plain(core.ColorGray))
	dst.DrawText(r.X+len(label)+barW, r.Y+2, pct)

	dst.DrawText(r.X, r.Y+3, "Target: ")
	x := r.X + len("Target: ")
	dst.DrawTextStyled(x, r.Y+3, " "+string(st.Target.Label())+" ", TileStyle(st.Target))
	dst.DrawText(x+cellWidth+1, r.Y+3, fmt.Sprintf("%s %d/%d", st.Target, st.Collected, st.Required))

	if st.Player != "" {
		who := st.Player
		dst.DrawTextColor(r.Right()-len([]rune(who)), r.Y+3, who, core.ColorGray)
	}
}

func (g *Game) renderBoard(dst *core.Screen, r core.Rect) {
	dst.DrawBox(r, core.Plain(core.ColorGray))

	types := g.engine.Snapshot()
	var flash map[match3.Coord]bool
	if len(g.frames) > 0 {
		types = g.frames[0].grid
		flash = g.frames[0].flash
	}
	sel, hasSel := g.engine.Selected()

	for row, line := range types {
		for col, t := range line {
			c := match3.At(col, row)
			x := r.X + 1 + col*cellWidth
			y := r.Y + 1 + row

			st := TileStyle(t)
			left, right := ' ', ' '
			label := t.Label()
			switch {
			case flash[c]:
				st = core.Style{Fg: core.ColorBrightWhite, Bg: core.ColorBrightYellow, Bold: true}
				label = '*'
			case hasSel && sel == c:
				left, right = '[', ']'
			}
			if c == g.cursor && len(g.frames) == 0 {
				st.Reverse = true
			}

			dst.SetStyled(x, y, left, st)
			dst.SetStyled(x+1, y, label, st)
			dst.SetStyled(x+2, y, right, st)
		}
	}
}

// renderBanner draws a two-line boxed message over the board.
func (g *Game) renderBanner(dst *core.Screen, l screenLayout, title, hint string) {
	w := max(len(title), len(hint)) + 4
	r := core.CenteredIn(l.board, w, 4)
	dst.DrawRect(r, core.Cell{Rune: ' '})
	dst.DrawBox(r, core.Plain(core.ColorBrightWhite))
	dst.DrawTextStyled(r.X+(w-len(title))/2, r.Y+1, title, core.Style{Fg: core.ColorBrightRed, Bold: true})
	dst.DrawText(r.X+(w-len(hint))/2, r.Y+2, hint)
}

func (g *Game) renderOverlayFrame(dst *core.Screen, r core.Rect, title string, options []string) {
	dst.DrawRect(r, core.Cell{Rune: ' '})
	dst.DrawBox(r, core.Plain(core.ColorBrightCyan))
	dst.DrawTextStyled(r.X+2, r.Y+1, title, core.Style{Fg: core.ColorBrightCyan, Bold: true})

	for i, opt := range options {
		line := truncate(fmt.Sprintf("%d) %s", i+1, opt), r.W-4)
		dst.DrawText(r.X+2, r.Y+optionRow+i, line)
	}
	dst.DrawTextColor(r.X+2, r.Bottom()-2, "Press 1-4 or click an answer", core.ColorGray)
}

func (g *Game) renderQuiz(dst *core.Screen, r core.Rect, st session.State) {
	q := st.Question
	if q == nil {
		return
	}
	title := fmt.Sprintf("QUIZ: %s", q.Topic)
	g.renderOverlayFrame(dst, r, title, q.Options)

	left := fmt.Sprintf("%ds", int(st.QuizLeft.Seconds()+0.999))
	dst.DrawTextStyled(r.Right()-2-len(left), r.Y+1, left, core.Style{Fg: core.ColorBrightYellow, Bold: true})

	for i, line := range wrap(q.Prompt, r.W-4, 2) {
		dst.DrawText(r.X+2, r.Y+2+i, line)
	}
}

func (g *Game) renderWord(dst *core.Screen, r core.Rect, st session.State) {
	w := st.Word
	if w == nil {
		return
	}
	g.renderOverlayFrame(dst, r, "LEVEL COMPLETE: unscramble the word", w.Options)
	dst.DrawTextStyled(r.X+2, r.Y+2, w.Scrambled, core.Style{Fg: core.ColorBrightGreen, Bold: true})
	dst.DrawText(r.X+2, r.Y+3, truncate("Hint: "+w.Hint, r.W-4))
}

// wrap splits text into at most lines lines of width runes.
func wrap(text string, width, lines int) []string {
	var out []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && len([]rune(cur.String()))+1+len([]rune(word)) > width {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	if len(out) > lines {
		out = out[:lines]
		out[lines-1] = truncate(out[lines-1]+" ...", width)
	}
	return out
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
