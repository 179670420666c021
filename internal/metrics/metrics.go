package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"letterpath/internal/models"
)

// Metrics exposes Prometheus collectors for grading and progression
type Metrics struct {
	verdicts        *prometheus.CounterVec
	captureTimeouts prometheus.Counter
	lettersUnlocked prometheus.Counter
	currentStreak   prometheus.Gauge
}

// MustNewMetrics constructs a Metrics instance using the provided
// registerer. Registration errors panic, surfacing wiring bugs at start.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "letterpath",
				Subsystem: "grading",
				Name:      "verdicts_total",
				Help:      "Grading verdicts by input kind and result.",
			},
			[]string{"kind", "result"},
		),
		captureTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "letterpath",
			Name:      "capture_timeouts_total",
			Help:      "Speech captures that ended without a transcript.",
		}),
		lettersUnlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "letterpath",
			Name:      "letters_unlocked_total",
			Help:      "Letters newly added to the ledger.",
		}),
		currentStreak: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "letterpath",
			Name:      "current_streak",
			Help:      "Current daily engagement streak.",
		}),
	}
	reg.MustRegister(m.verdicts, m.captureTimeouts, m.lettersUnlocked, m.currentStreak)
	return m
}

// ObserveVerdict counts a grading verdict
func (m *Metrics) ObserveVerdict(kind models.CaptureKind, passed bool) {
	if m == nil {
		return
	}
	result := "fail"
	if passed {
		result = "pass"
	}
	m.verdicts.WithLabelValues(string(kind), result).Inc()
}

// CaptureTimedOut counts a speech capture that hit its timeout
func (m *Metrics) CaptureTimedOut() {
	if m == nil {
		return
	}
	m.captureTimeouts.Inc()
}

// LetterUnlocked counts a newly unlocked letter
func (m *Metrics) LetterUnlocked() {
	if m == nil {
		return
	}
	m.lettersUnlocked.Inc()
}

// SetStreak records the current streak
func (m *Metrics) SetStreak(days int) {
	if m == nil {
		return
	}
	m.currentStreak.Set(float64(days))
}
