package match3

// Move is a swap between two adjacent cells.
type Move struct {
	A Coord `json:"a"`
	B Coord `json:"b"`
}

// FindMoves lists every swap that would produce a match, scanning row-major
// and trying the right then the lower neighbour.
func FindMoves(g *Grid) []Move {
	var moves []Move
	probe := g.Clone()

	for row := range g.size {
		for col := range g.size {
			a := At(col, row)
			for _, b := range []Coord{At(col+1, row), At(col, row+1)} {
				if ValidateSwap(probe, a, b) != RejectNone {
					continue
				}
				if probe.TypeAt(a) == probe.TypeAt(b) {
					continue
				}
				probe.swapTypes(a, b)
				if HasMatch(probe) {
					moves = append(moves, Move{A: a, B: b})
				}
				probe.swapTypes(a, b)
			}
		}
	}
	return moves
}

// HasMoves reports whether at least one swap would match.
func HasMoves(g *Grid) bool {
	return len(FindMoves(g)) > 0
}
