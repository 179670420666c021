package models

import "letterpath/internal/utils"

// Letter is a single uppercase letter A-Z. The zero value is not a valid
// letter; build one with ParseLetter or ParseLetterString.
type Letter rune

const (
	FirstLetter Letter = 'A'
	LastLetter  Letter = 'Z'
)

// ParseLetter normalizes r to uppercase and rejects anything outside A-Z
func ParseLetter(r rune) (Letter, error) {
	upper, ok := utils.NormalizeLetter(r)
	if !ok {
		return 0, utils.ValidationError{Field: "letter", Message: "must be a letter A-Z"}
	}
	return Letter(upper), nil
}

// ParseLetterString parses a one-character string such as "b" or "B"
func ParseLetterString(s string) (Letter, error) {
	r, err := utils.ValidateLetter("letter", s)
	if err != nil {
		return 0, err
	}
	return Letter(r), nil
}

// MustLetter is ParseLetter for compile-time constants; it panics on bad input.
func MustLetter(r rune) Letter {
	l, err := ParseLetter(r)
	if err != nil {
		panic(err)
	}
	return l
}

// Valid reports whether l is within A-Z
func (l Letter) Valid() bool {
	return l >= FirstLetter && l <= LastLetter
}

// Next returns the successor of l; ok is false at Z.
func (l Letter) Next() (Letter, bool) {
	if l >= LastLetter {
		return LastLetter, false
	}
	return l + 1, true
}

func (l Letter) String() string {
	return string(rune(l))
}

// Lower returns the lowercase form of the letter as a string
func (l Letter) Lower() string {
	return string(rune(l) + ('a' - 'A'))
}
