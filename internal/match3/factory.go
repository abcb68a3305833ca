package match3

import (
	"io"

	"github.com/google/uuid"
)

// Source is the random source consumed by the engine.
// *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// ObstacleRule derives the obstacle probability from the level.
type ObstacleRule struct {
	Step float64 `yaml:"step"` // Added per level above 1
	Cap  float64 `yaml:"cap"`  // Upper bound; 0 leaves growth uncapped
}

// DefaultObstacleRule returns min(0.2, (level-1)*0.05).
func DefaultObstacleRule() ObstacleRule {
	return ObstacleRule{Step: 0.05, Cap: 0.2}
}

// Probability returns the obstacle probability for the given level.
func (r ObstacleRule) Probability(level int) float64 {
	p := float64(level-1) * r.Step
	if p < 0 {
		p = 0
	}
	if r.Cap > 0 && p > r.Cap {
		p = r.Cap
	}
	if p > 1 {
		p = 1
	}
	return p
}

// Factory creates tiles from a random source.
type Factory struct {
	rng Source
}

// NewFactory creates a tile factory drawing from rng.
func NewFactory(rng Source) *Factory {
	return &Factory{rng: rng}
}

// NewTile creates a tile at (column, row). The obstacle roll is drawn first,
// then the elemental type when the roll misses.
func (f *Factory) NewTile(column, row int, obstacleProb float64) Tile {
	tileType := Obstacle
	if f.rng.Float64() >= obstacleProb {
		tileType = elementalTypes[f.rng.Intn(len(elementalTypes))]
	}

	return Tile{
		ID:     f.newID(),
		Type:   tileType,
		Column: column,
		Row:    row,
	}
}

// newID draws the UUID from the random source when it can be read from,
// keeping seeded runs fully reproducible.
func (f *Factory) newID() string {
	if r, ok := f.rng.(io.Reader); ok {
		if id, err := uuid.NewRandomFromReader(r); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}
