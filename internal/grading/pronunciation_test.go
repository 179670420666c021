package grading

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letterpath/internal/models"
)

func TestPronunciationGrade(t *testing.T) {
	g := NewPronunciationGrader()

	tests := []struct {
		name        string
		transcript  string
		target      rune
		wantPass    bool
		wantMatched float64
	}{
		{name: "canonical", transcript: "bee", target: 'B', wantPass: true, wantMatched: matchCanonical},
		{name: "alternative", transcript: "be", target: 'B', wantPass: true, wantMatched: matchAlternative},
		{name: "canonical inside sentence", transcript: "  The letter EM  ", target: 'M', wantPass: true, wantMatched: matchCanonical},
		{name: "raw letter", transcript: "v", target: 'V', wantPass: true, wantMatched: matchRawLetter},
		{name: "multi word name", transcript: "Double You", target: 'W', wantPass: true, wantMatched: matchCanonical},
		{name: "no match", transcript: "xyz", target: 'B', wantPass: false, wantMatched: matchNone},
		{name: "wrong letter", transcript: "zee", target: 'K', wantPass: false, wantMatched: matchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := g.Grade(tt.transcript, models.MustLetter(tt.target))
			assert.Equal(t, tt.wantPass, v.Passed, v.Message)
			assert.Equal(t, tt.wantMatched, v.Metrics["matched"])
		})
	}
}

func TestPronunciationFailureMessages(t *testing.T) {
	g := NewPronunciationGrader()

	empty := g.Grade("   ", models.MustLetter('B'))
	require.False(t, empty.Passed)
	assert.Contains(t, empty.Message, "not detected")

	wrong := g.Grade("xyz", models.MustLetter('B'))
	require.False(t, wrong.Passed)
	assert.Contains(t, wrong.Message, "xyz")
	assert.Contains(t, wrong.Message, "bee")
}

func TestPhoneticTablesCoverAlphabet(t *testing.T) {
	for l := models.FirstLetter; l <= models.LastLetter; l++ {
		assert.NotEmpty(t, PhoneticName(l), "letter %s", l)
		assert.LessOrEqual(t, len(PhoneticAlternatives(l)), 3, "letter %s", l)

		v := NewPronunciationGrader().Grade(PhoneticName(l), l)
		assert.True(t, v.Passed, "canonical name of %s should pass", l)
	}
}

func TestInvalidTargetPanics(t *testing.T) {
	g := NewPronunciationGrader()
	for _, target := range []models.Letter{models.Letter('!'), models.Letter('a'), 0} {
		want := fmt.Sprintf("grading: invalid target %q", rune(target))
		assert.PanicsWithValue(t, want, func() { PhoneticName(target) })
		assert.PanicsWithValue(t, want, func() { PhoneticAlternatives(target) })
		assert.PanicsWithValue(t, want, func() { g.Grade("bee", target) })
	}
}

func TestDoubleSubmitBypass(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	g := NewPronunciationGrader(WithDoubleSubmitBypass(DefaultBypassWindow, clock))
	require.True(t, g.BypassEnabled())

	b := models.MustLetter('B')

	first := g.Grade("xyz", b)
	assert.False(t, first.Passed)

	now = now.Add(300 * time.Millisecond)
	second := g.Grade("xyz", b)
	assert.True(t, second.Passed, "second call inside the window is forced to pass")
	assert.Equal(t, 1.0, second.Metrics["bypass"])

	now = now.Add(100 * time.Millisecond)
	third := g.Grade("xyz", b)
	assert.False(t, third.Passed, "a consumed pair does not chain")

	now = now.Add(time.Second)
	late := g.Grade("xyz", b)
	assert.False(t, late.Passed, "outside the window")

	now = now.Add(100 * time.Millisecond)
	other := g.Grade("xyz", models.MustLetter('C'))
	assert.False(t, other.Passed, "different target does not trigger")
}

func TestBypassOffByDefault(t *testing.T) {
	g := NewPronunciationGrader()
	assert.False(t, g.BypassEnabled())

	b := models.MustLetter('B')
	g.Grade("xyz", b)
	assert.False(t, g.Grade("xyz", b).Passed)
}
