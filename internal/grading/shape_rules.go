package grading

import "letterpath/internal/models"

// IntRange is an inclusive integer range
type IntRange struct {
	Min, Max int
}

func (r IntRange) contains(v int) bool { return v >= r.Min && v <= r.Max }

// FloatRange is an inclusive float range
type FloatRange struct {
	Min, Max float64
}

func (r FloatRange) contains(v float64) bool { return v >= r.Min && v <= r.Max }

// ShapeRule is the coarse acceptance rule for one letter. A nil range does
// not constrain that dimension.
type ShapeRule struct {
	Strokes *IntRange
	Aspect  *FloatRange
}

func strokes(min, max int) *IntRange      { return &IntRange{Min: min, Max: max} }
func aspect(min, max float64) *FloatRange { return &FloatRange{Min: min, Max: max} }

// shapeRules holds one rule per letter, A..Z. Aspect is width / height of
// the drawing's bounding box. The ranges were tuned by hand against
// children's drawings and are deliberately loose; changing them is a
// product decision, not a bug fix.
var shapeRules = [26]ShapeRule{
	{Strokes: strokes(2, 4), Aspect: aspect(0.5, 1.6)}, // A
	{Strokes: strokes(1, 3), Aspect: aspect(0.3, 1.0)}, // B
	{Strokes: strokes(1, 1), Aspect: aspect(0.4, 1.3)}, // C
	{Strokes: strokes(1, 2), Aspect: aspect(0.4, 1.2)}, // D
	{Strokes: strokes(1, 4), Aspect: aspect(0.3, 1.1)}, // E
	{Strokes: strokes(1, 3), Aspect: aspect(0.3, 1.1)}, // F
	{Strokes: strokes(1, 2), Aspect: aspect(0.5, 1.4)}, // G
	{Strokes: strokes(2, 3), Aspect: aspect(0.4, 1.5)}, // H
	{Strokes: strokes(1, 3), Aspect: aspect(0.0, 0.8)}, // I
	{Strokes: strokes(1, 2), Aspect: aspect(0.2, 1.0)}, // J
	{Strokes: strokes(2, 3), Aspect: aspect(0.4, 1.3)}, // K
	{Strokes: strokes(1, 2), Aspect: aspect(0.3, 1.2)}, // L
	{Strokes: strokes(1, 4), Aspect: aspect(0.6, 2.0)}, // M
	{Strokes: strokes(1, 3), Aspect: aspect(0.5, 1.6)}, // N
	{Strokes: strokes(1, 2), Aspect: aspect(0.6, 1.5)}, // O
	{Strokes: strokes(1, 2), Aspect: aspect(0.3, 1.0)}, // P
	{Strokes: strokes(1, 2)},                           // Q
	{Strokes: strokes(1, 3), Aspect: aspect(0.3, 1.1)}, // R
	{Strokes: strokes(1, 1)},                           // S
	{Strokes: strokes(2, 2), Aspect: aspect(0.5, 1.8)}, // T
	{Strokes: strokes(1, 2), Aspect: aspect(0.5, 1.5)}, // U
	{Strokes: strokes(1, 2), Aspect: aspect(0.5, 1.8)}, // V
	{Strokes: strokes(1, 4), Aspect: aspect(0.8, 2.5)}, // W
	{Strokes: strokes(2, 2), Aspect: aspect(0.5, 1.8)}, // X
	{Strokes: strokes(2, 3), Aspect: aspect(0.4, 1.5)}, // Y
	{Aspect: aspect(0.6, 1.8)},                         // Z
}

// RuleFor returns the shape rule for l
func RuleFor(l models.Letter) ShapeRule {
	mustValidTarget(l)
	return shapeRules[l-models.FirstLetter]
}
