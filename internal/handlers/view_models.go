package handlers

import (
	"letterpath/internal/models"
	"letterpath/internal/service"
)

type ScreenResponse struct {
	Current models.ScreenDTO   `json:"current"`
	Stack   []models.ScreenDTO `json:"stack"`
}

type LevelView struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Lower       string             `json:"lower"`
	Upper       string             `json:"upper"`
	MapPosition models.MapPosition `json:"map_position"`
	Unlocked    bool               `json:"unlocked"`
}

type StartActivityRequest struct {
	Char  string `json:"char"`
	Level int    `json:"level"`
}

type BeginCaptureRequest struct {
	Kind models.CaptureKind `json:"kind"`
}

type BeginCaptureResponse struct {
	CaptureID string `json:"capture_id"`
}

type GradeRequest struct {
	CaptureID  string             `json:"capture_id"`
	Kind       models.CaptureKind `json:"kind"`
	Transcript string             `json:"transcript,omitempty"`
	Strokes    []models.Stroke    `json:"strokes,omitempty"`
}

type GradeResponse struct {
	Verdict models.GradeVerdict `json:"verdict"`
	Screen  models.ScreenDTO    `json:"screen"`
}

type VerdictView struct {
	CaptureID string              `json:"capture_id"`
	Kind      models.CaptureKind  `json:"kind"`
	Char      string              `json:"char"`
	Verdict   models.GradeVerdict `json:"verdict"`
	TimedOut  bool                `json:"timed_out"`
}

type ActivityStateResponse struct {
	Active      bool               `json:"active"`
	Char        string             `json:"char,omitempty"`
	Level       int                `json:"level,omitempty"`
	Phase       service.Phase      `json:"phase,omitempty"`
	CaptureID   string             `json:"capture_id,omitempty"`
	CaptureKind models.CaptureKind `json:"capture_kind,omitempty"`
	LastVerdict *VerdictView       `json:"last_verdict,omitempty"`
}

func newVerdictView(e service.VerdictEvent) *VerdictView {
	return &VerdictView{
		CaptureID: e.CaptureID,
		Kind:      e.Kind,
		Char:      e.Letter.String(),
		Verdict:   e.Verdict,
		TimedOut:  e.TimedOut,
	}
}

func newScreenResponse(stack []models.Screen) ScreenResponse {
	resp := ScreenResponse{Stack: make([]models.ScreenDTO, len(stack))}
	for i, s := range stack {
		resp.Stack[i] = models.EncodeScreen(s)
	}
	resp.Current = resp.Stack[len(resp.Stack)-1]
	return resp
}
