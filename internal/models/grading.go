package models

// Point is a sample from a pen stroke in canvas coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one completed pen-down..pen-up polyline
type Stroke []Point

// GradeVerdict is the outcome of grading one submission. Metrics are
// diagnostic only; callers never branch on them.
type GradeVerdict struct {
	Passed  bool               `json:"passed"`
	Message string             `json:"message"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// CaptureKind distinguishes the two kinds of graded input
type CaptureKind string

const (
	CaptureSpeech  CaptureKind = "speech"
	CaptureDrawing CaptureKind = "drawing"
)
