package narration

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/route-narrator/internal/locale"
	"github.com/JakeFAU/route-narrator/internal/progress"
	"github.com/JakeFAU/route-narrator/internal/route"
)

var tracer = otel.Tracer("github.com/JakeFAU/route-narrator/internal/narration")

// IDGenerator produces run identifiers.
type IDGenerator interface {
	NewRawID() (uuid.UUID, error)
}

// Clock timestamps telemetry.
type Clock interface {
	Now() time.Time
}

// Config controls a Narrator.
//   - Locale: preset selection token; when empty the user is prompted.
//   - Precision: decimals for converted distances (negative selects the default).
type Config struct {
	Locale    string
	Precision int
}

// Summary describes a finished run.
type Summary struct {
	RunID    uuid.UUID
	Locale   string
	Steps    int
	Percent  int
	Rejected bool
}

// Narrator runs a single interactive narration per Run call.
type Narrator struct {
	producer *route.Producer
	emitter  progress.Emitter
	ids      IDGenerator
	clock    Clock
	cfg      Config
	logger   *zap.Logger
}

// New constructs a Narrator. A nil emitter discards telemetry and a nil
// logger is replaced with a no-op logger.
func New(
	producer *route.Producer,
	emitter progress.Emitter,
	ids IDGenerator,
	clock Clock,
	cfg Config,
	logger *zap.Logger,
) *Narrator {
	if emitter == nil {
		emitter = progress.NopEmitter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Narrator{
		producer: producer,
		emitter:  emitter,
		ids:      ids,
		clock:    clock,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run selects a locale and narrates r to out.
//
// Without a preset token the prompt is written to out and one line is read
// from in. An unrecognised token prints the rejection message and returns a
// Summary with Rejected set and a nil error; the route is never started.
// Cancellation of ctx ends the run between events and returns ctx.Err().
func (n *Narrator) Run(ctx context.Context, in io.Reader, out io.Writer, r route.Route) (Summary, error) {
	ctx, span := tracer.Start(ctx, "narration.run")
	defer span.End()

	summary, err := n.run(ctx, in, out, r)
	span.SetAttributes(
		attribute.String("narration.locale", summary.Locale),
		attribute.Int("narration.steps", summary.Steps),
		attribute.Bool("narration.rejected", summary.Rejected),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return summary, err
}

func (n *Narrator) run(ctx context.Context, in io.Reader, out io.Writer, r route.Route) (Summary, error) {
	if err := r.Validate(); err != nil {
		return Summary{}, fmt.Errorf("narrate route: %w", err)
	}
	id, err := n.ids.NewRawID()
	if err != nil {
		return Summary{}, fmt.Errorf("generate run id: %w", err)
	}
	summary := Summary{RunID: id}
	runID := progress.UUIDToBytes(id)
	logger := n.logger.With(
		zap.Stringer("run_id", id),
		zap.Stringer("trace_id", trace.SpanFromContext(ctx).SpanContext().TraceID()),
	)

	token := n.cfg.Locale
	if token == "" {
		if token, err = prompt(ctx, in, out); err != nil {
			if ctx.Err() != nil {
				logger.Info("narration cancelled at locale prompt")
			}
			return summary, err
		}
	}
	loc, err := locale.Select(token)
	if err != nil {
		logger.Info("locale selection rejected", zap.String("token", strings.TrimSpace(token)))
		n.emit(progress.Event{RunID: runID, Stage: progress.StageRunRejected, Note: err.Error()})
		if _, werr := fmt.Fprintln(out, locale.InvalidInput); werr != nil {
			return summary, fmt.Errorf("write rejection: %w", werr)
		}
		summary.Rejected = true
		return summary, nil
	}
	summary.Locale = loc.Tag

	renderer := NewRenderer(loc, n.cfg.Precision)
	start := n.clock.Now()
	n.emit(progress.Event{RunID: runID, Stage: progress.StageRunStart, Locale: loc.Tag})
	logger.Info("narration started", zap.String("locale", loc.Tag), zap.Int("steps", len(r)))

	for evt, err := range n.producer.Events(ctx, r) {
		if err != nil {
			return summary, n.abort(ctx, runID, loc, start, summary, err, logger)
		}
		if _, werr := fmt.Fprintln(out, renderer.Line(evt)); werr != nil {
			return summary, fmt.Errorf("write step %d: %w", evt.Index, werr)
		}
		summary.Steps++
		summary.Percent = evt.Percent
		n.emit(stepEvent(runID, loc, evt))
	}

	n.emit(progress.Event{
		RunID:   runID,
		Stage:   progress.StageRunDone,
		Locale:  loc.Tag,
		Percent: summary.Percent,
		Dur:     n.since(start),
	})
	logger.Info("narration finished", zap.Int("steps", summary.Steps))
	return summary, nil
}

func (n *Narrator) abort(
	ctx context.Context,
	runID [16]byte,
	loc locale.Locale,
	start time.Time,
	summary Summary,
	err error,
	logger *zap.Logger,
) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		n.emit(progress.Event{
			RunID:   runID,
			Stage:   progress.StageRunCancelled,
			Locale:  loc.Tag,
			Percent: summary.Percent,
			Dur:     n.since(start),
			Note:    err.Error(),
		})
		logger.Info("narration cancelled", zap.Int("steps", summary.Steps))
		return err
	}
	return fmt.Errorf("narrate route: %w", err)
}

func (n *Narrator) emit(evt progress.Event) {
	evt.TS = n.clock.Now()
	n.emitter.Emit(evt)
}

func (n *Narrator) since(start time.Time) time.Duration {
	d := n.clock.Now().Sub(start)
	if d < 0 {
		return 0
	}
	return d
}

func stepEvent(runID [16]byte, loc locale.Locale, evt route.Event) progress.Event {
	out := progress.Event{
		RunID:     runID,
		Stage:     progress.StageStep,
		Locale:    loc.Tag,
		StepIndex: evt.Index,
		StepKind:  string(evt.Step.Kind),
		Distance:  evt.Step.Distance,
		Percent:   evt.Percent,
	}
	if evt.Next != nil {
		out.NextKind = string(evt.Next.Kind)
	}
	return out
}

type readResult struct {
	line string
	err  error
}

// prompt writes the locale question and reads one line. End of input yields
// whatever was typed, possibly nothing. Cancellation of ctx returns at once;
// the pending read is left to finish on its own.
func prompt(ctx context.Context, in io.Reader, out io.Writer) (string, error) {
	if _, err := fmt.Fprintln(out, locale.Prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	done := make(chan readResult, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		done <- readResult{line: line, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return "", fmt.Errorf("read locale selection: %w", res.err)
		}
		return res.line, nil
	}
}
