package grading

import (
	"fmt"

	"letterpath/internal/models"
)

// phoneticNames is the canonical spoken name of each letter as a speech
// recognizer tends to spell it
var phoneticNames = [26]string{
	"ay", "bee", "see", "dee", "ee", "ef", "gee", "aitch", "eye", "jay",
	"kay", "el", "em", "en", "oh", "pee", "cue", "ar", "ess", "tee",
	"you", "vee", "double you", "ex", "why", "zee",
}

// phoneticAlternatives are other transcriptions accepted for a letter
var phoneticAlternatives = [26][]string{
	{"hey", "eh", "aye"},
	{"be", "bea"},
	{"sea", "si", "she"},
	{"the", "di"},
	{"he"},
	{"eff", "if"},
	{"jee", "ji"},
	{"age", "ach"},
	{"aye", "ai"},
	{"jey"},
	{"okay", "cay"},
	{"elle", "ell"},
	{"am"},
	{"and", "in"},
	{"owe", "ow"},
	{"pea"},
	{"queue", "kyu"},
	{"are", "our"},
	{"yes", "es"},
	{"tea"},
	{"yu", "ew"},
	{},
	{"dub", "double u"},
	{"axe", "eggs"},
	{"wise", "wai"},
	{"zed"},
}

// PhoneticName returns the canonical spoken name of l
func PhoneticName(l models.Letter) string {
	mustValidTarget(l)
	return phoneticNames[l-models.FirstLetter]
}

// PhoneticAlternatives returns the accepted alternative spellings of l
func PhoneticAlternatives(l models.Letter) []string {
	mustValidTarget(l)
	alts := phoneticAlternatives[l-models.FirstLetter]
	out := make([]string, len(alts))
	copy(out, alts)
	return out
}

// mustValidTarget guards the per-letter tables. Callers validate letters at
// the edge, so an invalid target here is a programming error.
func mustValidTarget(l models.Letter) {
	if !l.Valid() {
		panic(fmt.Sprintf("grading: invalid target %q", rune(l)))
	}
}
