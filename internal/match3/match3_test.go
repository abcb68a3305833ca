package match3

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// scriptedSource replays fixed draws. Float64 defaults to 0.5 and Intn falls
// back to a rotating counter once the script runs out.
type scriptedSource struct {
	floats []float64
	ints   []int
	next   int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) > 0 {
		v := s.ints[0]
		s.ints = s.ints[1:]
		return v % n
	}
	s.next++
	return s.next % n
}

func mustGrid(t *testing.T, rows ...string) *Grid {
	t.Helper()
	g, err := ParseGrid(rows...)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	return g
}

func checkCoords(t *testing.T, g *Grid) {
	t.Helper()
	for row := range g.Size() {
		for col := range g.Size() {
			tile := g.At(At(col, row))
			if tile.Column != col || tile.Row != row {
				t.Fatalf("tile at (%d,%d) reports (%d,%d)", col, row, tile.Column, tile.Row)
			}
		}
	}
}

func TestObstacleProbability(t *testing.T) {
	rule := DefaultObstacleRule()
	tests := []struct {
		level int
		want  float64
	}{
		{1, 0},
		{2, 0.05},
		{3, 0.1},
		{5, 0.2},
		{9, 0.2},
	}

	for _, tt := range tests {
		got := rule.Probability(tt.level)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Probability(%d) = %v, expected %v", tt.level, got, tt.want)
		}
	}

	uncapped := ObstacleRule{Step: 0.05}
	if got := uncapped.Probability(11); got < 0.49 || got > 0.51 {
		t.Errorf("uncapped Probability(11) = %v, expected 0.5", got)
	}
}

func TestFactoryDrawOrder(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.01, 0.9}, ints: []int{4}}
	f := NewFactory(src)

	if tile := f.NewTile(2, 3, 0.1); tile.Type != Obstacle {
		t.Errorf("roll 0.01 < 0.1 should give an obstacle, got %v", tile.Type)
	}
	tile := f.NewTile(2, 3, 0.1)
	if tile.Type != Gravity {
		t.Errorf("roll 0.9 with Intn=4 should give gravity, got %v", tile.Type)
	}
	if tile.Column != 2 || tile.Row != 3 {
		t.Errorf("tile position = (%d,%d), expected (2,3)", tile.Column, tile.Row)
	}
	if tile.ID == "" {
		t.Error("tile should have an ID")
	}
}

func TestFactorySeededIDs(t *testing.T) {
	a := NewFactory(rand.New(rand.NewSource(7)))
	b := NewFactory(rand.New(rand.NewSource(7)))

	for i := range 10 {
		ta := a.NewTile(i, 0, 0.2)
		tb := b.NewTile(i, 0, 0.2)
		if ta != tb {
			t.Fatalf("tile %d differs: %+v vs %+v", i, ta, tb)
		}
	}
}

func TestFindMatches(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want []MatchGroup
	}{
		{
			name: "no match",
			rows: []string{"Fmv", "mvF", "vFm"},
			want: nil,
		},
		{
			name: "horizontal three",
			rows: []string{"ggg", "mvF", "vFm"},
			want: []MatchGroup{
				{Type: Gravity, Orientation: Horizontal, Cells: []Coord{At(0, 0), At(1, 0), At(2, 0)}},
			},
		},
		{
			name: "vertical four",
			rows: []string{"Fmva", "Fvam", "Fagv", "Fgmv"},
			want: []MatchGroup{
				{Type: Force, Orientation: Vertical, Cells: []Coord{At(0, 0), At(0, 1), At(0, 2), At(0, 3)}},
			},
		},
		{
			name: "six in a row is one group",
			rows: []string{"aaaaaa", "Fmvgmv", "mvgFaF", "Fmvgmv", "mvgFaF", "Fmvgmv"},
			want: []MatchGroup{
				{Type: Acceleration, Orientation: Horizontal, Cells: []Coord{
					At(0, 0), At(1, 0), At(2, 0), At(3, 0), At(4, 0), At(5, 0),
				}},
			},
		},
		{
			name: "obstacles never match",
			rows: []string{"!!!", "mvF", "!Fm"},
			want: nil,
		},
		{
			name: "cross shares a cell",
			rows: []string{"Fmvam", "avFgv", "mmmam", "Fgmva", "vamFg"},
			want: []MatchGroup{
				{Type: Mass, Orientation: Horizontal, Cells: []Coord{At(0, 2), At(1, 2), At(2, 2)}},
				{Type: Mass, Orientation: Vertical, Cells: []Coord{At(2, 2), At(2, 3), At(2, 4)}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.rows...)
			got := FindMatches(g)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindMatches() mismatch (-want +got):\n%s", diff)
			}
			if HasMatch(g) != (len(tt.want) > 0) {
				t.Errorf("HasMatch() = %v, expected %v", HasMatch(g), len(tt.want) > 0)
			}
		})
	}
}

func TestResolveChainReaction(t *testing.T) {
	// Clearing the bottom gravity run drops a mass into line with the two
	// masses already on the bottom row.
	g := mustGrid(t,
		"Fmvag",
		"vagFm",
		"agFmv",
		"vamFa",
		"gggmm",
	)
	top := []Coord{At(0, 0), At(1, 0), At(2, 0)}
	ids := make([]string, len(top))
	for i, c := range top {
		ids[i] = g.At(c).ID
	}

	src := &scriptedSource{ints: []int{4, 0, 1, 3, 2, 0}}
	r := NewResolver(NewFactory(src), 0, 0)
	res := r.Resolve(g)

	if len(res.Passes) != 2 {
		t.Fatalf("expected 2 passes, got %d", len(res.Passes))
	}
	if res.Truncated {
		t.Error("unbounded cascade should not be truncated")
	}
	if res.ObstaclesCleared {
		t.Error("no run of five, obstacles should stay")
	}

	wantPass2 := []MatchGroup{
		{Type: Mass, Orientation: Horizontal, Cells: []Coord{At(2, 4), At(3, 4), At(4, 4)}},
	}
	if diff := cmp.Diff(wantPass2, res.Passes[1].Groups); diff != "" {
		t.Errorf("second pass groups mismatch (-want +got):\n%s", diff)
	}

	wantDetails := []MatchDetail{
		{Gravity, 1}, {Gravity, 1}, {Gravity, 1},
		{Mass, 1}, {Mass, 1}, {Mass, 1},
	}
	if diff := cmp.Diff(wantDetails, res.Details); diff != "" {
		t.Errorf("details mismatch (-want +got):\n%s", diff)
	}

	wantCleared := []Coord{At(0, 4), At(1, 4), At(2, 4), At(3, 4), At(4, 4)}
	if diff := cmp.Diff(wantCleared, res.Cleared); diff != "" {
		t.Errorf("cleared union mismatch (-want +got):\n%s", diff)
	}

	want := mustGrid(t,
		"gFavF",
		"Fmmag",
		"vavFm",
		"aggmv",
		"vaFFa",
	)
	if diff := cmp.Diff(want.Types(), g.Types()); diff != "" {
		t.Errorf("final grid mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(g.Types(), res.Passes[1].Grid); diff != "" {
		t.Errorf("last pass snapshot should equal the final grid:\n%s", diff)
	}

	// Columns 0 and 1 only moved in the first pass.
	if got := g.At(At(0, 1)).ID; got != ids[0] {
		t.Errorf("column 0 tile identity lost: %s != %s", got, ids[0])
	}
	if got := g.At(At(1, 1)).ID; got != ids[1] {
		t.Errorf("column 1 tile identity lost: %s != %s", got, ids[1])
	}
	checkCoords(t, g)
	if HasMatch(g) {
		t.Error("grid should be stable after Resolve")
	}
}

func TestResolveFiveClearsObstacles(t *testing.T) {
	g := mustGrid(t,
		"!Fmva",
		"av!Fm",
		"maF!v",
		"vFam!",
		"ggggg",
	)

	r := NewResolver(NewFactory(&scriptedSource{}), 0, 1)
	res := r.Resolve(g)

	if !res.ObstaclesCleared {
		t.Fatal("a run of five should clear obstacles")
	}
	if got := g.Count(Obstacle); got != 0 {
		t.Errorf("expected no obstacles left, got %d", got)
	}

	want := []MatchDetail{
		{Obstacle, 1}, {Obstacle, 1}, {Obstacle, 1}, {Obstacle, 1},
		{Gravity, 1}, {Gravity, 1}, {Gravity, 1}, {Gravity, 1}, {Gravity, 1},
	}
	if diff := cmp.Diff(want, res.Passes[0].Details); diff != "" {
		t.Errorf("details mismatch (-want +got):\n%s", diff)
	}
	checkCoords(t, g)
}

func TestResolveFourKeepsObstacles(t *testing.T) {
	g := mustGrid(t,
		"!Fmva",
		"av!Fm",
		"maF!v",
		"vFamF",
		"ggggm",
	)

	r := NewResolver(NewFactory(&scriptedSource{}), 0, 1)
	res := r.Resolve(g)

	if res.ObstaclesCleared {
		t.Error("a run of four must not clear obstacles")
	}
	if len(res.Passes[0].Details) != 4 {
		t.Errorf("expected 4 details, got %d", len(res.Passes[0].Details))
	}
	if got := g.Count(Obstacle); got != 3 {
		t.Errorf("expected 3 obstacles to survive, got %d", got)
	}
}

func TestResolveCrossCountsUnion(t *testing.T) {
	g := mustGrid(t, "Fmvam", "avFgv", "mmmam", "Fgmva", "vamFg")

	r := NewResolver(NewFactory(&scriptedSource{}), 0, 1)
	res := r.Resolve(g)

	if got := len(res.Passes[0].Cleared); got != 5 {
		t.Errorf("cross should clear 5 distinct cells, got %d", got)
	}
	if got := len(res.Passes[0].Details); got != 5 {
		t.Errorf("cross should produce 5 details, got %d", got)
	}
}

func TestResolveConservesColumnOrder(t *testing.T) {
	g := mustGrid(t,
		"Fmva",
		"vagF",
		"gFmv",
		"aaam",
	)
	before := [][]string{}
	for col := range 3 {
		var ids []string
		for row := range 3 {
			ids = append(ids, g.At(At(col, row)).ID)
		}
		before = append(before, ids)
	}

	r := NewResolver(NewFactory(&scriptedSource{}), 0, 1)
	r.Resolve(g)

	for col := range 3 {
		for row := 1; row < 4; row++ {
			if got := g.At(At(col, row)).ID; got != before[col][row-1] {
				t.Errorf("column %d row %d: identity %s, expected %s", col, row, got, before[col][row-1])
			}
		}
	}
	if got := g.At(At(3, 3)).Type; got != Mass {
		t.Errorf("untouched column changed: %v", got)
	}
}

func TestMaxPassesTruncates(t *testing.T) {
	g := mustGrid(t,
		"Fmvag",
		"vagFm",
		"agFmv",
		"vamFa",
		"gggmm",
	)

	r := NewResolver(NewFactory(&scriptedSource{ints: []int{4, 0, 1}}), 0, 1)
	res := r.Resolve(g)

	if len(res.Passes) != 1 {
		t.Fatalf("expected 1 pass, got %d", len(res.Passes))
	}
	if !res.Truncated {
		t.Error("pending chain should mark the resolution truncated")
	}
}

func TestValidateSwap(t *testing.T) {
	g := mustGrid(t, "Fm!", "vaF", "gvm")

	tests := []struct {
		name string
		a, b Coord
		want RejectReason
	}{
		{"ok", At(0, 0), At(1, 0), RejectNone},
		{"out of bounds", At(2, 2), At(3, 2), RejectOutOfBounds},
		{"negative", At(0, 0), At(-1, 0), RejectOutOfBounds},
		{"diagonal", At(0, 0), At(1, 1), RejectNotAdjacent},
		{"same cell", At(1, 1), At(1, 1), RejectNotAdjacent},
		{"two apart", At(0, 0), At(0, 2), RejectNotAdjacent},
		{"obstacle", At(1, 0), At(2, 0), RejectObstacle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateSwap(g, tt.a, tt.b); got != tt.want {
				t.Errorf("ValidateSwap() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestSwapNoMatchReverts(t *testing.T) {
	g := mustGrid(t, "Fmv", "mvF", "vFm")
	before := g.Tiles()

	r := NewResolver(NewFactory(&scriptedSource{}), 0, 0)
	out := r.Swap(g, At(0, 0), At(1, 0))

	if out.Accepted || out.Reason != RejectNoMatch {
		t.Fatalf("expected RejectNoMatch, got %+v", out)
	}
	if diff := cmp.Diff(before, g.Tiles()); diff != "" {
		t.Errorf("grid changed after rejected swap:\n%s", diff)
	}
}

func TestApplyIsPure(t *testing.T) {
	g := mustGrid(t,
		"Fmvag",
		"vagFm",
		"agFmv",
		"vamFa",
		"ggmgm",
	)
	before := g.Types()

	r := NewResolver(NewFactory(&scriptedSource{}), 0, 0)
	next, out := Apply(g, At(2, 4), At(3, 4), r)

	if !out.Accepted {
		t.Fatalf("swap should be accepted, got %v", out.Reason)
	}
	if diff := cmp.Diff(before, g.Types()); diff != "" {
		t.Errorf("Apply modified its input:\n%s", diff)
	}
	if HasMatch(next) {
		t.Error("result grid should be stable")
	}
}

func TestFindMoves(t *testing.T) {
	g := mustGrid(t, "FFm", "vaF", "mva")

	moves := FindMoves(g)
	want := []Move{{A: At(2, 0), B: At(2, 1)}}
	if diff := cmp.Diff(want, moves); diff != "" {
		t.Errorf("FindMoves() mismatch (-want +got):\n%s", diff)
	}

	stuck := mustGrid(t, "Fmv", "agF", "mva")
	if HasMoves(stuck) {
		t.Errorf("expected no moves, got %v", FindMoves(stuck))
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = 2
	if _, err := New(cfg, rand.New(rand.NewSource(1))); !errors.Is(err, ErrGridTooSmall) {
		t.Errorf("expected ErrGridTooSmall, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Level = 0
	if _, err := New(cfg, rand.New(rand.NewSource(1))); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestEngineStableStartAndDeterminism(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = 4

	a, err := New(cfg, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(cfg, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}

	if HasMatch(a.Grid()) {
		t.Error("stable start should leave no matches")
	}
	if diff := cmp.Diff(a.Grid().Tiles(), b.Grid().Tiles()); diff != "" {
		t.Errorf("same seed produced different grids:\n%s", diff)
	}
}

func TestEngineClickProtocol(t *testing.T) {
	e, err := New(DefaultConfig(), rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	e.grid = mustGrid(t,
		"Fmva!",
		"vagFm",
		"agFmv",
		"vamFa",
		"ggmgm",
	)

	var events []MatchEvent
	e.Subscribe(ListenerFunc(func(ev MatchEvent) { events = append(events, ev) }))

	if r := e.Click(At(4, 0)); r.Kind != ClickIgnored {
		t.Errorf("obstacle click should be ignored, got %v", r.Kind)
	}
	if r := e.Click(At(9, 9)); r.Kind != ClickIgnored {
		t.Errorf("out of bounds click should be ignored, got %v", r.Kind)
	}

	if r := e.Click(At(0, 0)); r.Kind != ClickSelected {
		t.Fatalf("first click should select, got %v", r.Kind)
	}
	if r := e.Click(At(3, 3)); r.Kind != ClickSelected {
		t.Fatalf("non-adjacent click should move the selection, got %v", r.Kind)
	}
	if sel, ok := e.Selected(); !ok || sel != At(3, 3) {
		t.Fatalf("selection = %v %v, expected (3,3)", sel, ok)
	}

	// Adjacent swap without a match deselects
	if r := e.Click(At(3, 2)); r.Kind != ClickRejected || r.Outcome.Reason != RejectNoMatch {
		t.Fatalf("expected rejected swap, got %+v", r)
	}
	if _, ok := e.Selected(); ok {
		t.Error("rejected swap should clear the selection")
	}
	if len(events) != 0 {
		t.Fatalf("rejected swap must not emit, got %d events", len(events))
	}

	e.Click(At(2, 4))
	r := e.Click(At(3, 4))
	if r.Kind != ClickSwapped {
		t.Fatalf("expected swap, got %+v", r)
	}
	if _, ok := e.Selected(); ok {
		t.Error("accepted swap should clear the selection")
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if got := events[0].CountOf(Gravity); got < 3 {
		t.Errorf("expected at least 3 gravity details, got %d", got)
	}
	if events[0].Level != 1 {
		t.Errorf("event level = %d, expected 1", events[0].Level)
	}
}

func TestEngineBusyIgnoresInput(t *testing.T) {
	e, err := New(DefaultConfig(), rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	e.grid = mustGrid(t, "FFm", "vaF", "mva")

	var nested SwapOutcome
	var nestedClick ClickResult
	e.Subscribe(ListenerFunc(func(MatchEvent) {
		nested = e.Swap(At(0, 0), At(1, 0))
		nestedClick = e.Click(At(0, 0))
	}))

	if out := e.Swap(At(2, 0), At(2, 1)); !out.Accepted {
		t.Fatalf("swap should be accepted, got %v", out.Reason)
	}
	if nested.Reason != RejectBusy {
		t.Errorf("re-entrant swap reason = %v, expected busy", nested.Reason)
	}
	if nestedClick.Kind != ClickIgnored {
		t.Errorf("re-entrant click = %v, expected ignored", nestedClick.Kind)
	}
	if e.Busy() {
		t.Error("engine should not be busy after the swap returns")
	}
}

func TestEngineInvariantsUnderPlay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = 5
	e, err := New(cfg, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatal(err)
	}

	for i := range 40 {
		moves := FindMoves(e.Grid())
		if len(moves) == 0 {
			e.Shuffle()
			continue
		}
		m := moves[i%len(moves)]
		out := e.Swap(m.A, m.B)
		if !out.Accepted {
			t.Fatalf("move %d rejected: %v", i, out.Reason)
		}
		if len(out.Resolution.Details) < 3 {
			t.Fatalf("move %d cleared %d cells", i, len(out.Resolution.Details))
		}
		checkCoords(t, e.Grid())
		if HasMatch(e.Grid()) {
			t.Fatalf("grid not stable after move %d", i)
		}
	}
}

func TestSetLevelRebuilds(t *testing.T) {
	e, err := New(DefaultConfig(), rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	e.Click(At(0, 0))

	if err := e.SetLevel(0); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("expected ErrInvalidLevel, got %v", err)
	}
	if err := e.SetLevel(3); err != nil {
		t.Fatal(err)
	}
	if e.Level() != 3 {
		t.Errorf("Level() = %d, expected 3", e.Level())
	}
	if _, ok := e.Selected(); ok {
		t.Error("rebuild should drop the selection")
	}
	if got := e.ObstacleProbability(); got < 0.099 || got > 0.101 {
		t.Errorf("level 3 obstacle probability = %v, expected 0.1", got)
	}
}

func TestEngineLoad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = 3
	e, err := New(cfg, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatal(err)
	}
	e.Click(At(0, 0))

	g := mustGrid(t, "FFm", "vaF", "mva")
	if err := e.Load(g); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(g.Types(), e.Snapshot()); diff != "" {
		t.Errorf("loaded grid mismatch:\n%s", diff)
	}
	if _, ok := e.Selected(); ok {
		t.Error("load should drop the selection")
	}

	// The engine keeps its own copy
	e.Swap(At(2, 0), At(2, 1))
	if g.TypeAt(At(2, 0)) != Mass {
		t.Error("swap leaked into the loaded grid")
	}

	if err := e.Load(mustGrid(t, "FFmv", "vaFm", "mvaF", "aFmv")); err == nil {
		t.Error("expected a size mismatch error")
	}
}
