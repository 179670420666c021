package models

import (
	"fmt"
	"unicode/utf8"

	"letterpath/internal/utils"
)

// MapPosition is where a level's node sits on the level map, in 0..1 units
type MapPosition struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// LevelDefinition describes one level of the curriculum. Range bounds are
// single tokens: usually letters, but symbolic markers such as "WORD" are
// allowed for levels that are not letter-based.
type LevelDefinition struct {
	ID          int
	Name        string
	Lower       string
	Upper       string
	MapPosition MapPosition
}

// NewLevelDefinition validates and builds a level. A letter range whose
// lower bound sorts after its upper bound is a configuration error.
func NewLevelDefinition(id int, name, lower, upper string, pos MapPosition) (LevelDefinition, error) {
	if id <= 0 {
		return LevelDefinition{}, utils.ValidationError{Field: "id", Message: "must be positive"}
	}
	if err := utils.ValidateToken("lower", lower); err != nil {
		return LevelDefinition{}, fmt.Errorf("level %d: %w", id, err)
	}
	if err := utils.ValidateToken("upper", upper); err != nil {
		return LevelDefinition{}, fmt.Errorf("level %d: %w", id, err)
	}

	lo, loIsLetter := tokenLetter(lower)
	hi, hiIsLetter := tokenLetter(upper)
	if loIsLetter && hiIsLetter && lo > hi {
		return LevelDefinition{}, fmt.Errorf("level %d: %w", id, utils.ValidationError{
			Field:   "range",
			Message: fmt.Sprintf("lower bound %s is after upper bound %s", lo, hi),
		})
	}
	if loIsLetter {
		lower = lo.String()
	}
	if hiIsLetter {
		upper = hi.String()
	}

	return LevelDefinition{
		ID:          id,
		Name:        name,
		Lower:       lower,
		Upper:       upper,
		MapPosition: pos,
	}, nil
}

// UpperLetter returns the upper bound when it is a letter
func (l LevelDefinition) UpperLetter() (Letter, bool) {
	return tokenLetter(l.Upper)
}

// LowerLetter returns the lower bound when it is a letter
func (l LevelDefinition) LowerLetter() (Letter, bool) {
	return tokenLetter(l.Lower)
}

// Contains reports whether c falls inside a letter range. Symbolic levels
// contain no letters.
func (l LevelDefinition) Contains(c Letter) bool {
	lo, ok1 := l.LowerLetter()
	hi, ok2 := l.UpperLetter()
	return ok1 && ok2 && c >= lo && c <= hi
}

func tokenLetter(token string) (Letter, bool) {
	if utf8.RuneCountInString(token) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(token)
	l, err := ParseLetter(r)
	if err != nil {
		return 0, false
	}
	return l, true
}
