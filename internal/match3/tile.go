// Package match3 implements the grid match-and-cascade engine: tile creation,
// run detection, swap validation and cascade resolution.
//
// The package is pure game logic. It never renders, plays sound or talks to the
// network; collaborators observe it through Listener.
package match3

import (
	"fmt"
	"strings"
)

// TileType identifies what a tile holds.
type TileType int

const (
	Force TileType = iota
	Mass
	Velocity
	Acceleration
	Gravity
	Obstacle
)

// elementalTypes is the draw order used by the factory.
var elementalTypes = []TileType{Force, Mass, Velocity, Acceleration, Gravity}

// ElementalTypes returns every non-obstacle tile type.
func ElementalTypes() []TileType {
	out := make([]TileType, len(elementalTypes))
	copy(out, elementalTypes)
	return out
}

// IsObstacle reports whether the type is the obstacle type.
func (t TileType) IsObstacle() bool {
	return t == Obstacle
}

// String returns the lower-case name of the type.
func (t TileType) String() string {
	switch t {
	case Force:
		return "force"
	case Mass:
		return "mass"
	case Velocity:
		return "velocity"
	case Acceleration:
		return "acceleration"
	case Gravity:
		return "gravity"
	case Obstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// Label returns the single-character label used on the board.
func (t TileType) Label() rune {
	switch t {
	case Force:
		return 'F'
	case Mass:
		return 'm'
	case Velocity:
		return 'v'
	case Acceleration:
		return 'a'
	case Gravity:
		return 'g'
	case Obstacle:
		return '!'
	default:
		return '?'
	}
}

// ParseTileType converts a name or a board label to a TileType.
func ParseTileType(s string) (TileType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "force", "f":
		return Force, nil
	case "mass", "m":
		return Mass, nil
	case "velocity", "v":
		return Velocity, nil
	case "acceleration", "a":
		return Acceleration, nil
	case "gravity", "g":
		return Gravity, nil
	case "obstacle", "!":
		return Obstacle, nil
	}
	return 0, fmt.Errorf("match3: unknown tile type %q", s)
}

// MarshalText encodes the type by name (YAML and JSON).
func (t TileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name or label.
func (t *TileType) UnmarshalText(text []byte) error {
	parsed, err := ParseTileType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Tile is a single grid cell occupant.
// ID is stable for the lifetime of the tile and only used for display identity.
type Tile struct {
	ID      string   `json:"id"`
	Type    TileType `json:"type"`
	Column  int      `json:"column"`
	Row     int      `json:"row"`
	Cleared bool     `json:"cleared,omitempty"`
}

// Coord addresses a grid cell. Row 0 is the top row.
type Coord struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// At is a convenience constructor for Coord.
func At(column, row int) Coord {
	return Coord{Column: column, Row: row}
}

// String returns "(column,row)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Column, c.Row)
}

// Adjacent reports whether two cells share an edge.
func (c Coord) Adjacent(other Coord) bool {
	dc := abs(c.Column - other.Column)
	dr := abs(c.Row - other.Row)
	return dc+dr == 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
