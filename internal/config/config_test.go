package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CAPTURE_TIMEOUT", "")
	t.Setenv("DEV_GRADING_BYPASS", "")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "heuristic", cfg.ShapeGrader)
	assert.False(t, cfg.DevGradingBypass)
	assert.Equal(t, 10*time.Second, cfg.CaptureTimeout)
	assert.Equal(t, 2500*time.Millisecond, cfg.SplashDelay)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SHAPE_GRADER", "accept_any")
	t.Setenv("DEV_GRADING_BYPASS", "true")
	t.Setenv("CAPTURE_TIMEOUT", "3s")
	t.Setenv("SPLASH_DELAY", "not-a-duration")

	cfg := Load()
	assert.Equal(t, "accept_any", cfg.ShapeGrader)
	assert.True(t, cfg.DevGradingBypass)
	assert.Equal(t, 3*time.Second, cfg.CaptureTimeout)
	assert.Equal(t, 2500*time.Millisecond, cfg.SplashDelay)
}

func TestDefaultLevels(t *testing.T) {
	levels := DefaultLevels()
	require.NotEmpty(t, levels)
	assert.Equal(t, "A", levels[0].Lower)
	assert.Equal(t, "E", levels[0].Upper)
}

func TestParseLevels(t *testing.T) {
	data := []byte(`
levels:
  - id: 1
    name: Start
    lower: a
    upper: c
    position: {x: 0.1, y: 0.9}
  - id: 2
    name: Words
    lower: WORD
    upper: WORD
`)
	levels, err := ParseLevels(data)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, "C", levels[0].Upper)
	assert.InDelta(t, 0.9, levels[0].MapPosition.Y, 1e-9)
	assert.Equal(t, "WORD", levels[1].Lower)
}

func TestParseLevelsRejectsInvertedRange(t *testing.T) {
	_, err := ParseLevels([]byte("levels:\n  - {id: 1, name: Bad, lower: M, upper: B}\n"))
	assert.Error(t, err)
}

func TestParseLevelsRejectsDuplicateIDs(t *testing.T) {
	_, err := ParseLevels([]byte("levels:\n  - {id: 1, name: A, lower: A, upper: B}\n  - {id: 1, name: B, lower: C, upper: D}\n"))
	assert.Error(t, err)
}

func TestLoadLevelsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("levels:\n  - {id: 3, name: Solo, lower: Q, upper: Q}\n"), 0o644))

	levels, err := LoadLevels(path)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 3, levels[0].ID)

	_, err = LoadLevels(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
