package sinks

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JakeFAU/route-narrator/internal/progress"
)

// PrometheusSink exports narration metrics. It owns collectors for runs
// started/completed/active, narrated steps and distance per step kind, and
// the completion percentage of the most recent step.
type PrometheusSink struct {
	runsStarted   *prometheus.CounterVec
	runsCompleted *prometheus.CounterVec
	runsActive    prometheus.Gauge
	runDuration   *prometheus.HistogramVec

	steps    *prometheus.CounterVec
	distance *prometheus.CounterVec
	percent  prometheus.Gauge

	tracker *runTracker
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "narrator_runs_started_total",
			Help: "Narration runs started, partitioned by locale.",
		}, []string{"locale"}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "narrator_runs_completed_total",
			Help: "Narration runs ended, partitioned by result.",
		}, []string{"result"}),
		runsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "narrator_runs_active",
			Help: "Narration runs currently in progress.",
		}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "narrator_run_duration_seconds",
			Help:    "Wall time per finished narration run.",
			Buckets: []float64{0.1, 1, 2, 5, 10, 30, 60, 300},
		}, []string{"result"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "narrator_steps_total",
			Help: "Steps narrated, partitioned by step kind.",
		}, []string{"kind"}),
		distance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "narrator_distance_total",
			Help: "Raw distance narrated, partitioned by step kind.",
		}, []string{"kind"}),
		percent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "narrator_progress_percent",
			Help: "Completion percentage reported by the latest narrated step.",
		}),
		tracker: newRunTracker(),
	}
	for _, collector := range []prometheus.Collector{
		s.runsStarted,
		s.runsCompleted,
		s.runsActive,
		s.runDuration,
		s.steps,
		s.distance,
		s.percent,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors from the batch.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		switch evt.Stage {
		case progress.StageRunStart:
			s.runsStarted.WithLabelValues(evt.Locale).Inc()
			if s.tracker.start(evt.RunID) {
				s.runsActive.Inc()
			}
		case progress.StageStep:
			s.steps.WithLabelValues(evt.StepKind).Inc()
			if evt.Distance > 0 {
				s.distance.WithLabelValues(evt.StepKind).Add(float64(evt.Distance))
			}
			s.percent.Set(float64(evt.Percent))
		case progress.StageRunDone, progress.StageRunCancelled, progress.StageRunRejected:
			s.finishRun(evt)
		}
	}
	return nil
}

func (s *PrometheusSink) finishRun(evt progress.Event) {
	result := resultLabel(evt.Stage)
	s.runsCompleted.WithLabelValues(result).Inc()
	if evt.Dur > 0 {
		s.runDuration.WithLabelValues(result).Observe(evt.Dur.Seconds())
	}
	if s.tracker.complete(evt.RunID) {
		s.runsActive.Dec()
	}
}

func resultLabel(stage progress.Stage) string {
	switch stage {
	case progress.StageRunDone:
		return "done"
	case progress.StageRunCancelled:
		return "cancelled"
	default:
		return "rejected"
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}

type runTracker struct {
	mu      sync.Mutex
	running map[[16]byte]struct{}
}

func newRunTracker() *runTracker {
	return &runTracker{running: make(map[[16]byte]struct{})}
}

func (t *runTracker) start(id [16]byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.running[id]; ok {
		return false
	}
	t.running[id] = struct{}{}
	return true
}

func (t *runTracker) complete(id [16]byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.running[id]; !ok {
		return false
	}
	delete(t.running, id)
	return true
}
