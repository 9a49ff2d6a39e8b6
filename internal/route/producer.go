package route

import (
	"context"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/route-narrator/internal/clock/system"
)

// DefaultInterval is the pause between successive events.
const DefaultInterval = time.Second

// Clock paces the producer. Sleep must return early with ctx.Err() when ctx
// is canceled and must not leave a timer running after it returns.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// Config controls pacing for a Producer.
//   - Interval: pause after each event (default 1s).
//   - TrailingDelay: also pause after the final event.
//   - Clock: pacing source (defaults to the system clock).
//   - Logger: optional structured logger.
type Config struct {
	Interval      time.Duration
	TrailingDelay bool
	Clock         Clock
	Logger        *zap.Logger
}

// Producer turns routes into paced progress event sequences. A Producer holds
// no per-run state and may serve any number of concurrent runs.
type Producer struct {
	interval      time.Duration
	trailingDelay bool
	clock         Clock
	logger        *zap.Logger
}

// NewProducer applies defaults to cfg and returns a Producer.
func NewProducer(cfg Config) *Producer {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	clk := cfg.Clock
	if clk == nil {
		clk = system.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Producer{
		interval:      interval,
		trailingDelay: cfg.TrailingDelay,
		clock:         clk,
		logger:        logger,
	}
}

// Interval returns the effective pause between events.
func (p *Producer) Interval() time.Duration {
	return p.interval
}

// Events returns a lazy, single-pass sequence with one event per step of r,
// in route order. Nothing is computed until the sequence is ranged over.
//
// Between events the sequence pauses for the configured interval. If ctx is
// canceled the pause is cut short, ctx.Err() is yielded and the sequence
// ends. An empty route yields ErrEmptyRoute. Breaking out of the range loop
// stops the sequence without waiting for the pending pause.
func (p *Producer) Events(ctx context.Context, r Route) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		if err := r.Validate(); err != nil {
			yield(Event{}, err)
			return
		}
		total := r.TotalDistance()
		cumulative := 0
		p.logger.Debug("route started",
			zap.Int("steps", len(r)),
			zap.Int("total_distance", total),
		)
		for i, step := range r {
			if err := ctx.Err(); err != nil {
				yield(Event{}, err)
				return
			}
			var next *Step
			if i+1 < len(r) {
				lookahead := r[i+1]
				next = &lookahead
			}
			cumulative += step.Distance
			evt := Event{
				Index:   i,
				Step:    step,
				Next:    next,
				Percent: Percent(cumulative, total),
			}
			if !yield(evt, nil) {
				p.logger.Debug("route abandoned by consumer", zap.Int("index", i))
				return
			}
			if evt.Last() && !p.trailingDelay {
				break
			}
			if err := p.pause(ctx); err != nil {
				yield(Event{}, err)
				return
			}
		}
		p.logger.Debug("route finished", zap.Int("cumulative_distance", cumulative))
	}
}

// Collect drains Events into a slice, pacing included.
func (p *Producer) Collect(ctx context.Context, r Route) ([]Event, error) {
	out := make([]Event, 0, len(r))
	for evt, err := range p.Events(ctx, r) {
		if err != nil {
			return out, err
		}
		out = append(out, evt)
	}
	return out, nil
}

func (p *Producer) pause(ctx context.Context) error {
	return p.clock.Sleep(ctx, p.interval)
}
