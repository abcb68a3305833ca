package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/phyzzle/internal/match3"
)

func TestEmbeddedDefaultsMatchCode(t *testing.T) {
	var fromYAML PhyzzleConfig
	require.NoError(t, yaml.Unmarshal(GetDefaultYAML("phyzzle"), &fromYAML))

	assert.Equal(t, DefaultPhyzzleConfig(), fromYAML)
	assert.NoError(t, fromYAML.Validate())
	assert.Nil(t, GetDefaultYAML("pong"))
}

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phyzzle.yaml")
	data := "grid:\n  size: 9\ncascade:\n  pass_delay_ms: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadPhyzzle(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Grid.Size)
	assert.Equal(t, 0, cfg.Cascade.PassDelayMs)
	assert.Equal(t, 25, cfg.Scoring.PointsPerCell, "unset keys keep their defaults")
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadPhyzzle(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("grid: [\n"), 0o644))
	_, err = LoadPhyzzle(bad)
	assert.Error(t, err)

	small := filepath.Join(dir, "small.yaml")
	require.NoError(t, os.WriteFile(small, []byte("grid:\n  size: 2\n"), 0o644))
	_, err = LoadPhyzzle(small)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadPhyzzle("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPhyzzleConfig(), cfg)
}

func TestLoadLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll("configs", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "phyzzle.yaml"), []byte("word:\n  score: 42\n"), 0o644))

	cfg, err := LoadPhyzzle("")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Word.Score)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PhyzzleConfig)
	}{
		{"grid too small", func(c *PhyzzleConfig) { c.Grid.Size = 2 }},
		{"start level zero", func(c *PhyzzleConfig) { c.Grid.StartLevel = 0 }},
		{"negative step", func(c *PhyzzleConfig) { c.Obstacles.Step = -0.1 }},
		{"cap above one", func(c *PhyzzleConfig) { c.Obstacles.Cap = 1.5 }},
		{"negative passes", func(c *PhyzzleConfig) { c.Cascade.MaxPasses = -1 }},
		{"negative points", func(c *PhyzzleConfig) { c.Scoring.PointsPerCell = -25 }},
		{"zero max stability", func(c *PhyzzleConfig) { c.Stability.Max = 0 }},
		{"zero decay amount", func(c *PhyzzleConfig) { c.Stability.DecayAmount = 0 }},
		{"obstacle target", func(c *PhyzzleConfig) { c.Targets.Initial = "obstacle" }},
		{"unknown cycle entry", func(c *PhyzzleConfig) { c.Targets.Cycle = []string{"gravity", "spin"} }},
		{"inverted quiz delay", func(c *PhyzzleConfig) { c.Quiz.DelayMaxMs = 1000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPhyzzleConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestTargets(t *testing.T) {
	cfg := DefaultPhyzzleConfig()

	initial, err := cfg.InitialTarget()
	require.NoError(t, err)
	assert.Equal(t, match3.Gravity, initial)

	cycle, err := cfg.TargetCycle()
	require.NoError(t, err)
	assert.Equal(t, []match3.TileType{match3.Gravity, match3.Force, match3.Mass, match3.Velocity, match3.Acceleration}, cycle)
}

func TestPresets(t *testing.T) {
	p, err := ParsePreset("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyNormal, p)

	_, err = ParsePreset("nightmare")
	assert.ErrorIs(t, err, ErrInvalid)

	tests := []struct {
		preset DifficultyPreset
		check  func(t *testing.T, c PhyzzleConfig)
	}{
		{DifficultyNormal, func(t *testing.T, c PhyzzleConfig) {
			assert.Equal(t, DefaultPhyzzleConfig(), c)
		}},
		{DifficultyEasy, func(t *testing.T, c PhyzzleConfig) {
			assert.Greater(t, c.Stability.DecayBaseMs, 400)
			assert.Greater(t, c.Quiz.TimeoutMs, 10000)
		}},
		{DifficultyHard, func(t *testing.T, c PhyzzleConfig) {
			assert.Equal(t, 3, c.Grid.StartLevel)
			assert.Less(t, c.Stability.DecayBaseMs, 400)
		}},
		{DifficultyZen, func(t *testing.T, c PhyzzleConfig) {
			assert.False(t, c.Stability.DecayEnabled)
			assert.False(t, c.Quiz.Enabled)
			assert.True(t, IsRelaxed(DifficultyZen))
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultPhyzzleConfig()
			ApplyPhyzzlePreset(&cfg, tt.preset)
			require.NoError(t, cfg.Validate())
			tt.check(t, cfg)
		})
	}
}
