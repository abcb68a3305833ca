package match3

// Orientation is the direction of a run.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// String returns "horizontal" or "vertical".
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// MatchGroup is one maximal run of three or more identical elemental tiles.
type MatchGroup struct {
	Type        TileType    `json:"type"`
	Orientation Orientation `json:"orientation"`
	Cells       []Coord     `json:"cells"`
}

// Len returns the run length.
func (m MatchGroup) Len() int {
	return len(m.Cells)
}

// FindMatches scans rows left to right, then columns top to bottom, and returns
// every run of length >= 3. A cell can appear in one horizontal and one vertical
// group. Obstacles never start or extend a run.
func FindMatches(g *Grid) []MatchGroup {
	var groups []MatchGroup

	for row := range g.size {
		groups = scanLine(g, groups, Horizontal, func(i int) Coord { return At(i, row) })
	}
	for col := range g.size {
		groups = scanLine(g, groups, Vertical, func(i int) Coord { return At(col, i) })
	}

	return groups
}

// scanLine finds runs along one row or column; at maps a line index to a cell.
func scanLine(g *Grid, groups []MatchGroup, o Orientation, at func(int) Coord) []MatchGroup {
	n := g.size
	for i := 0; i < n-2; i++ {
		t := g.TypeAt(at(i))
		if t.IsObstacle() {
			continue
		}
		if g.TypeAt(at(i+1)) != t || g.TypeAt(at(i+2)) != t {
			continue
		}

		end := i + 3
		for end < n && g.TypeAt(at(end)) == t {
			end++
		}

		cells := make([]Coord, 0, end-i)
		for j := i; j < end; j++ {
			cells = append(cells, at(j))
		}
		groups = append(groups, MatchGroup{Type: t, Orientation: o, Cells: cells})

		// Resume after the run
		i = end - 1
	}
	return groups
}

// HasMatch reports whether the grid holds at least one run.
func HasMatch(g *Grid) bool {
	return len(FindMatches(g)) > 0
}
