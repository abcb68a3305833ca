package match3

import "sort"

// ZapLength is the run length that also clears every obstacle on the grid.
const ZapLength = 5

// MatchDetail is one cleared cell attributed to its type.
type MatchDetail struct {
	Type  TileType `json:"type"`
	Count int      `json:"count"`
}

// Pass is one detect-clear-collapse-refill iteration of a cascade.
type Pass struct {
	Groups           []MatchGroup  `json:"groups"`
	Cleared          []Coord       `json:"cleared"`
	ObstaclesCleared bool          `json:"obstacles_cleared"`
	Details          []MatchDetail `json:"details"`
	Grid             [][]TileType  `json:"grid"` // After refill
}

// Resolution is the outcome of a full cascade.
type Resolution struct {
	Passes           []Pass        `json:"passes"`
	Cleared          []Coord       `json:"cleared"` // Union over passes, row-major
	ObstaclesCleared bool          `json:"obstacles_cleared"`
	Details          []MatchDetail `json:"details"`
	Truncated        bool          `json:"truncated,omitempty"`
}

// Resolver runs cascades, refilling cleared cells from its factory.
type Resolver struct {
	factory      *Factory
	obstacleProb float64
	maxPasses    int
}

// NewResolver creates a resolver. maxPasses <= 0 leaves cascades unbounded.
func NewResolver(f *Factory, obstacleProb float64, maxPasses int) *Resolver {
	if maxPasses < 0 {
		maxPasses = 0
	}
	return &Resolver{factory: f, obstacleProb: obstacleProb, maxPasses: maxPasses}
}

// ObstacleProbability returns the refill obstacle probability.
func (r *Resolver) ObstacleProbability() float64 {
	return r.obstacleProb
}

// Resolve clears matches until the grid is stable (or the pass guard trips).
// The grid is modified in place.
func (r *Resolver) Resolve(g *Grid) Resolution {
	var res Resolution
	union := make(map[Coord]struct{})

	for {
		if r.maxPasses > 0 && len(res.Passes) >= r.maxPasses {
			res.Truncated = HasMatch(g)
			break
		}

		groups := FindMatches(g)
		if len(groups) == 0 {
			break
		}

		pass := r.clearPass(g, groups)
		for _, c := range pass.Cleared {
			union[c] = struct{}{}
		}
		res.ObstaclesCleared = res.ObstaclesCleared || pass.ObstaclesCleared
		res.Details = append(res.Details, pass.Details...)
		res.Passes = append(res.Passes, pass)
	}

	res.Cleared = sortedCoords(union)
	return res
}

// clearPass removes the cells of groups, collapses columns and refills.
func (r *Resolver) clearPass(g *Grid, groups []MatchGroup) Pass {
	n := g.size
	cleared := make([][]bool, n)
	for row := range n {
		cleared[row] = make([]bool, n)
	}

	zap := false
	for _, grp := range groups {
		for _, c := range grp.Cells {
			cleared[c.Row][c.Column] = true
		}
		if grp.Len() >= ZapLength {
			zap = true
		}
	}

	if zap {
		for row := range n {
			for col := range n {
				if g.tiles[row][col].Type.IsObstacle() {
					cleared[row][col] = true
				}
			}
		}
	}

	pass := Pass{Groups: groups, ObstaclesCleared: zap}
	for row := range n {
		for col := range n {
			if !cleared[row][col] {
				continue
			}
			pass.Cleared = append(pass.Cleared, At(col, row))
			pass.Details = append(pass.Details, MatchDetail{Type: g.tiles[row][col].Type, Count: 1})
		}
	}

	r.collapse(g, cleared)
	pass.Grid = g.Types()
	return pass
}

// collapse drops surviving tiles to the bottom of each column, keeping their
// order, then refills the vacated top cells. Columns run left to right and
// refill rows top to bottom.
func (r *Resolver) collapse(g *Grid, cleared [][]bool) {
	n := g.size
	column := make([]Tile, 0, n)

	for col := range n {
		column = column[:0]
		for row := n - 1; row >= 0; row-- {
			if !cleared[row][col] {
				column = append(column, g.tiles[row][col])
			}
		}

		// Write pointer from the bottom
		write := n - 1
		for _, t := range column {
			t.Row = write
			t.Column = col
			t.Cleared = false
			g.tiles[write][col] = t
			write--
		}

		empty := n - len(column)
		for row := range empty {
			g.tiles[row][col] = r.factory.NewTile(col, row, r.obstacleProb)
		}
	}
}

func sortedCoords(set map[Coord]struct{}) []Coord {
	out := make([]Coord, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Column < out[j].Column
	})
	return out
}
