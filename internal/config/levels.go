package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"letterpath/internal/models"
)

type levelFile struct {
	Levels []levelEntry `yaml:"levels"`
}

type levelEntry struct {
	ID       int                `yaml:"id"`
	Name     string             `yaml:"name"`
	Lower    string             `yaml:"lower"`
	Upper    string             `yaml:"upper"`
	Position models.MapPosition `yaml:"position"`
}

// defaultLevels is the built-in curriculum used when no LEVELS_PATH is set
var defaultLevels = []levelEntry{
	{ID: 1, Name: "Sunny Meadow", Lower: "A", Upper: "E", Position: models.MapPosition{X: 0.15, Y: 0.85}},
	{ID: 2, Name: "Whisper Woods", Lower: "F", Upper: "J", Position: models.MapPosition{X: 0.40, Y: 0.72}},
	{ID: 3, Name: "Pebble Beach", Lower: "K", Upper: "O", Position: models.MapPosition{X: 0.70, Y: 0.65}},
	{ID: 4, Name: "Cloud Hills", Lower: "P", Upper: "T", Position: models.MapPosition{X: 0.55, Y: 0.45}},
	{ID: 5, Name: "Starry Peak", Lower: "U", Upper: "Z", Position: models.MapPosition{X: 0.25, Y: 0.30}},
	{ID: 6, Name: "Syllable Bridge", Lower: "SYLLABLE", Upper: "SYLLABLE", Position: models.MapPosition{X: 0.50, Y: 0.18}},
	{ID: 7, Name: "Word Castle", Lower: "WORD", Upper: "WORD", Position: models.MapPosition{X: 0.80, Y: 0.08}},
}

// DefaultLevels returns the built-in level catalog
func DefaultLevels() []models.LevelDefinition {
	levels, err := buildLevels(defaultLevels)
	if err != nil {
		panic(fmt.Sprintf("built-in level catalog is invalid: %v", err))
	}
	return levels
}

// LoadLevels reads a YAML level catalog. An empty path yields the defaults.
func LoadLevels(path string) ([]models.LevelDefinition, error) {
	if path == "" {
		return DefaultLevels(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels file: %w", err)
	}
	return ParseLevels(data)
}

// ParseLevels decodes and validates a YAML level catalog
func ParseLevels(data []byte) ([]models.LevelDefinition, error) {
	var file levelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse levels: %w", err)
	}
	if len(file.Levels) == 0 {
		return nil, fmt.Errorf("levels file defines no levels")
	}
	return buildLevels(file.Levels)
}

func buildLevels(entries []levelEntry) ([]models.LevelDefinition, error) {
	seen := make(map[int]bool, len(entries))
	levels := make([]models.LevelDefinition, 0, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate level id %d", e.ID)
		}
		seen[e.ID] = true

		lvl, err := models.NewLevelDefinition(e.ID, e.Name, e.Lower, e.Upper, e.Position)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}
