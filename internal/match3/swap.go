package match3

// RejectReason explains why a swap was not performed.
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectOutOfBounds
	RejectNotAdjacent
	RejectObstacle
	RejectNoMatch
	RejectBusy
)

// String returns a short description of the reason.
func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectOutOfBounds:
		return "out of bounds"
	case RejectNotAdjacent:
		return "not adjacent"
	case RejectObstacle:
		return "obstacle"
	case RejectNoMatch:
		return "no match"
	case RejectBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// SwapOutcome is the result of a swap attempt.
type SwapOutcome struct {
	Accepted   bool
	Reason     RejectReason
	Resolution Resolution
}

// ValidateSwap checks the static swap rules. It does not look for matches.
func ValidateSwap(g *Grid, a, b Coord) RejectReason {
	if !g.InBounds(a) || !g.InBounds(b) {
		return RejectOutOfBounds
	}
	if !a.Adjacent(b) {
		return RejectNotAdjacent
	}
	if g.TypeAt(a).IsObstacle() || g.TypeAt(b).IsObstacle() {
		return RejectObstacle
	}
	return RejectNone
}

// Swap exchanges a and b and resolves the cascade. A swap that produces no
// match is reverted and the grid is left untouched.
func (r *Resolver) Swap(g *Grid, a, b Coord) SwapOutcome {
	if reason := ValidateSwap(g, a, b); reason != RejectNone {
		return SwapOutcome{Reason: reason}
	}

	g.swapTypes(a, b)
	if !HasMatch(g) {
		g.swapTypes(a, b)
		return SwapOutcome{Reason: RejectNoMatch}
	}

	return SwapOutcome{Accepted: true, Resolution: r.Resolve(g)}
}

// Apply performs the swap on a clone and returns the resulting grid.
// On rejection the returned grid equals the input.
func Apply(g *Grid, a, b Coord, r *Resolver) (*Grid, SwapOutcome) {
	next := g.Clone()
	out := r.Swap(next, a, b)
	return next, out
}
