package match3

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Grid is a square matrix of tiles stored as tiles[row][column].
type Grid struct {
	size  int
	tiles [][]Tile
}

// NewGrid fills a size x size grid from the factory, row by row.
func NewGrid(size int, f *Factory, obstacleProb float64) *Grid {
	g := &Grid{size: size, tiles: make([][]Tile, size)}
	for row := range size {
		g.tiles[row] = make([]Tile, size)
		for col := range size {
			g.tiles[row][col] = f.NewTile(col, row, obstacleProb)
		}
	}
	return g
}

// GridFromTypes builds a grid from a square matrix of types (types[row][column]).
func GridFromTypes(types [][]TileType) (*Grid, error) {
	size := len(types)
	if size < MinGridSize {
		return nil, fmt.Errorf("match3: grid size %d: %w", size, ErrGridTooSmall)
	}

	g := &Grid{size: size, tiles: make([][]Tile, size)}
	for row, line := range types {
		if len(line) != size {
			return nil, fmt.Errorf("match3: row %d has %d cells, want %d", row, len(line), size)
		}
		g.tiles[row] = make([]Tile, size)
		for col, t := range line {
			g.tiles[row][col] = Tile{
				ID:     uuid.NewString(),
				Type:   t,
				Column: col,
				Row:    row,
			}
		}
	}
	return g, nil
}

// ParseGrid builds a grid from rows of board labels, e.g. "gFmva!g".
// Spaces are ignored.
func ParseGrid(rows ...string) (*Grid, error) {
	types := make([][]TileType, len(rows))
	for i, line := range rows {
		line = strings.ReplaceAll(line, " ", "")
		for _, r := range line {
			t, err := ParseTileType(string(r))
			if err != nil {
				return nil, fmt.Errorf("match3: row %d: %w", i, err)
			}
			types[i] = append(types[i], t)
		}
	}
	return GridFromTypes(types)
}

// Size returns the grid dimension.
func (g *Grid) Size() int {
	return g.size
}

// InBounds returns true if the coordinate lies on the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Column >= 0 && c.Column < g.size && c.Row >= 0 && c.Row < g.size
}

// At returns the tile at c. c must be in bounds.
func (g *Grid) At(c Coord) Tile {
	return g.tiles[c.Row][c.Column]
}

// TypeAt returns the tile type at c. c must be in bounds.
func (g *Grid) TypeAt(c Coord) TileType {
	return g.tiles[c.Row][c.Column].Type
}

// Types returns a snapshot of the tile types (types[row][column]).
func (g *Grid) Types() [][]TileType {
	out := make([][]TileType, g.size)
	for row := range g.size {
		out[row] = make([]TileType, g.size)
		for col := range g.size {
			out[row][col] = g.tiles[row][col].Type
		}
	}
	return out
}

// Tiles returns a copy of every tile (tiles[row][column]).
func (g *Grid) Tiles() [][]Tile {
	out := make([][]Tile, g.size)
	for row := range g.size {
		out[row] = make([]Tile, g.size)
		copy(out[row], g.tiles[row])
	}
	return out
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{size: g.size, tiles: g.Tiles()}
}

// Count returns how many tiles of type t are on the grid.
func (g *Grid) Count(t TileType) int {
	n := 0
	for row := range g.size {
		for col := range g.size {
			if g.tiles[row][col].Type == t {
				n++
			}
		}
	}
	return n
}

// String renders one label per cell, one line per row.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.size*(g.size+1) + 1)
	for row := range g.size {
		if row > 0 {
			sb.WriteRune('\n')
		}
		for col := range g.size {
			sb.WriteRune(g.tiles[row][col].Type.Label())
		}
	}
	return sb.String()
}

// swapTypes exchanges the types held at a and b. Tile identity stays in place.
func (g *Grid) swapTypes(a, b Coord) {
	ta := &g.tiles[a.Row][a.Column]
	tb := &g.tiles[b.Row][b.Column]
	ta.Type, tb.Type = tb.Type, ta.Type
}
