package grading

import (
	"fmt"
	"math"
	"strings"

	"letterpath/internal/models"
)

const (
	// MinDrawingPoints is the smallest drawing the heuristic grader will
	// look at; anything smaller fails before any rule is checked
	MinDrawingPoints = 15

	// boxEpsilon floors the bounding box sides so aspect never divides by 0
	boxEpsilon = 1e-3
)

// Shape grading strategies selectable through configuration
const (
	StrategyHeuristic = "heuristic"
	StrategyAcceptAny = "accept_any"
)

// ShapeGrader grades a set of completed strokes against a target letter
type ShapeGrader interface {
	Grade(strokes []models.Stroke, target models.Letter) models.GradeVerdict
}

// NewShapeGrader returns the grader for a configured strategy name
func NewShapeGrader(strategy string) (ShapeGrader, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case StrategyHeuristic, "":
		return HeuristicShapeGrader{}, nil
	case StrategyAcceptAny, "accept_non_empty":
		return AcceptAnyDrawingGrader{}, nil
	default:
		return nil, fmt.Errorf("unknown shape grader strategy %q", strategy)
	}
}

// HeuristicShapeGrader is a coarse heuristic, NOT handwriting recognition.
// It only looks at how many strokes were drawn and the proportions of the
// drawing's bounding box, so many wrong letters with the right stroke count
// and proportions will pass. That is intended: the goal is to encourage a
// child who made a reasonable attempt, not to classify characters.
//
// Empty strokes (no points) still count toward the stroke count.
type HeuristicShapeGrader struct{}

func (HeuristicShapeGrader) Grade(strokes []models.Stroke, target models.Letter) models.GradeVerdict {
	mustValidTarget(target)
	totalPoints := countPoints(strokes)
	metrics := map[string]float64{
		"total_points": float64(totalPoints),
		"stroke_count": float64(len(strokes)),
	}

	if totalPoints < MinDrawingPoints {
		return models.GradeVerdict{
			Passed:  false,
			Message: fmt.Sprintf("Too little drawing. Try tracing the whole %s.", target),
			Metrics: metrics,
		}
	}

	width, height := boundingBox(strokes)
	aspectRatio := width / height
	strokeCount := len(strokes)
	metrics["width"] = width
	metrics["height"] = height
	metrics["aspect_ratio"] = aspectRatio

	rule := RuleFor(target)
	var violations []string
	if rule.Strokes != nil && !rule.Strokes.contains(strokeCount) {
		violations = append(violations, fmt.Sprintf("stroke count should be %s", describeIntRange(*rule.Strokes)))
	}
	if rule.Aspect != nil && !rule.Aspect.contains(aspectRatio) {
		violations = append(violations, fmt.Sprintf("aspect ratio should be between %.2f and %.2f", rule.Aspect.Min, rule.Aspect.Max))
	}

	if len(violations) > 0 {
		return models.GradeVerdict{
			Passed: false,
			Message: fmt.Sprintf("That doesn't look like %s yet: %s (strokes=%d, aspect=%.2f)",
				target, strings.Join(violations, "; "), strokeCount, aspectRatio),
			Metrics: metrics,
		}
	}

	return models.GradeVerdict{
		Passed:  true,
		Message: fmt.Sprintf("Great job writing %s!", target),
		Metrics: metrics,
	}
}

// AcceptAnyDrawingGrader passes any drawing containing at least one point,
// skipping shape analysis entirely
type AcceptAnyDrawingGrader struct{}

func (AcceptAnyDrawingGrader) Grade(strokes []models.Stroke, target models.Letter) models.GradeVerdict {
	mustValidTarget(target)
	totalPoints := countPoints(strokes)
	metrics := map[string]float64{
		"total_points": float64(totalPoints),
		"stroke_count": float64(len(strokes)),
	}
	if totalPoints == 0 {
		return models.GradeVerdict{
			Passed:  false,
			Message: fmt.Sprintf("Too little drawing. Try tracing the whole %s.", target),
			Metrics: metrics,
		}
	}
	return models.GradeVerdict{
		Passed:  true,
		Message: fmt.Sprintf("Great job writing %s!", target),
		Metrics: metrics,
	}
}

func countPoints(strokes []models.Stroke) int {
	n := 0
	for _, s := range strokes {
		n += len(s)
	}
	return n
}

// boundingBox returns the floored width and height of all points. Callers
// guarantee at least one point.
func boundingBox(strokes []models.Stroke) (width, height float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range strokes {
		for _, p := range s {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	return math.Max(maxX-minX, boxEpsilon), math.Max(maxY-minY, boxEpsilon)
}

func describeIntRange(r IntRange) string {
	if r.Min == r.Max {
		return fmt.Sprintf("exactly %d", r.Min)
	}
	return fmt.Sprintf("%d to %d", r.Min, r.Max)
}
