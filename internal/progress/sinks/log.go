package sinks

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JakeFAU/route-narrator/internal/progress"
)

// LogSink writes each event as a structured log line. Step events are logged
// at debug level so that narration stays quiet in production.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each event in the batch.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		level := zapcore.InfoLevel
		if evt.Stage == progress.StageStep {
			level = zapcore.DebugLevel
		}
		if ce := s.logger.Check(level, "progress event"); ce != nil {
			ce.Write(fields(evt)...)
		}
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}

func fields(evt progress.Event) []zap.Field {
	out := []zap.Field{
		zap.Stringer("run_id", evt.RunUUID()),
		zap.String("stage", string(evt.Stage)),
	}
	if evt.Locale != "" {
		out = append(out, zap.String("locale", evt.Locale))
	}
	switch {
	case evt.Stage == progress.StageStep:
		out = append(out,
			zap.Int("step_index", evt.StepIndex),
			zap.String("step_kind", evt.StepKind),
			zap.Int("distance", evt.Distance),
			zap.String("next_kind", evt.NextKind),
			zap.Int("percent", evt.Percent),
		)
	case evt.Stage.Terminal():
		out = append(out, zap.Duration("dur", evt.Dur), zap.Int("percent", evt.Percent))
	}
	if evt.Note != "" {
		out = append(out, zap.String("note", evt.Note))
	}
	return out
}
