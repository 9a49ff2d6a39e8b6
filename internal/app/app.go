// Package app initializes and holds long-lived services for one narrator
// process, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/JakeFAU/route-narrator/internal/clock/system"
	"github.com/JakeFAU/route-narrator/internal/config"
	"github.com/JakeFAU/route-narrator/internal/id/uuid"
	"github.com/JakeFAU/route-narrator/internal/metrics"
	"github.com/JakeFAU/route-narrator/internal/narration"
	"github.com/JakeFAU/route-narrator/internal/progress"
	"github.com/JakeFAU/route-narrator/internal/progress/sinks"
	"github.com/JakeFAU/route-narrator/internal/route"
	"github.com/JakeFAU/route-narrator/internal/telemetry"
)

const (
	serviceName     = "route-narrator"
	shutdownTimeout = 5 * time.Second
)

// PublisherFactory opens the Pub/Sub publisher. It is a variable so tests
// can substitute a fake.
var PublisherFactory = func(ctx context.Context, projectID, topicID string) (sinks.Publisher, error) {
	return sinks.NewTopicPublisher(ctx, projectID, topicID)
}

// App holds the shared services: logger, telemetry hub, metrics endpoint and
// the narrator wired to the configured route.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	hub      *progress.Hub
	tracing  *telemetry.Tracing
	metrics  *metrics.Server
	narrator *narration.Narrator
	route    route.Route
}

// GetLogger returns the shared logger.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetNarrator returns the configured narrator.
func (a *App) GetNarrator() *narration.Narrator {
	return a.narrator
}

// GetRoute returns the route to narrate.
func (a *App) GetRoute() route.Route {
	return a.route
}

// GetRegistry returns the Prometheus registry backing the metrics endpoint.
func (a *App) GetRegistry() *prometheus.Registry {
	return a.registry
}

// NewApp builds every service described by cfg. It fails fast when an
// optional integration is enabled but cannot start.
func NewApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r, err := cfg.ParsedRoute()
	if err != nil {
		return nil, fmt.Errorf("parse route: %w", err)
	}

	tracing, err := telemetry.Setup(telemetry.Config{
		ServiceName: serviceName,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	a := &App{
		cfg:      cfg,
		logger:   logger,
		registry: metrics.NewRegistry(),
		tracing:  tracing,
		route:    r,
	}

	promSink, err := sinks.NewPrometheusSink(a.registry)
	if err != nil {
		a.shutdownTracer()
		return nil, fmt.Errorf("init prometheus sink: %w", err)
	}
	sinkList := []progress.Sink{
		sinks.NewLogSink(logger.Named("progress")),
		promSink,
	}

	if cfg.PubSub.Enabled {
		publisher, err := PublisherFactory(ctx, cfg.PubSub.ProjectID, cfg.PubSub.TopicName)
		if err != nil {
			a.shutdownTracer()
			return nil, fmt.Errorf("init pubsub publisher: %w", err)
		}
		var opts []sinks.PubSubOption
		if cfg.PubSub.SkipSteps {
			opts = append(opts, sinks.WithoutSteps())
		}
		logger.Info("publishing progress to pubsub", zap.String("topic", cfg.PubSub.TopicName))
		sinkList = append(sinkList, sinks.NewPubSubSink(publisher, logger.Named("pubsub"), opts...))
	}

	a.hub = progress.NewHub(progress.Config{
		BufferSize:     cfg.Progress.BufferSize,
		MaxBatchEvents: cfg.Progress.MaxBatchEvents,
		MaxBatchWait:   cfg.Progress.MaxBatchWait,
		SinkTimeout:    cfg.Progress.SinkTimeout,
		Logger:         logger.Named("hub"),
	}, sinkList...)

	if cfg.Metrics.Enabled {
		srv, err := metrics.NewServer(cfg.Metrics.Addr, a.registry, logger.Named("metrics"))
		if err == nil {
			err = srv.Start()
		}
		if err != nil {
			a.closeHub()
			a.shutdownTracer()
			return nil, fmt.Errorf("init metrics server: %w", err)
		}
		a.metrics = srv
	}

	clk := system.New()
	producer := route.NewProducer(route.Config{
		Interval:      cfg.Pacing.Interval,
		TrailingDelay: cfg.Pacing.TrailingDelay,
		Clock:         clk,
		Logger:        logger.Named("producer"),
	})
	a.narrator = narration.New(
		producer,
		a.hub,
		uuid.New(),
		clk,
		narration.Config{
			Locale:    cfg.Narration.Locale,
			Precision: cfg.Narration.Precision,
		},
		logger.Named("narrator"),
	)

	logger.Debug("application services initialized",
		zap.Int("steps", len(r)),
		zap.Duration("interval", producer.Interval()),
	)
	return a, nil
}

// Close flushes telemetry, stops the metrics endpoint and syncs the logger.
func (a *App) Close() {
	a.closeHub()
	a.shutdownTracer()
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.logger.Warn("metrics shutdown failed", zap.Error(err))
		}
	}
	// Sync fails on non-syncable stderr on some platforms; nothing to act on.
	_ = a.logger.Sync()
}

func (a *App) closeHub() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.hub.Close(ctx); err != nil {
		a.logger.Warn("progress hub close failed", zap.Error(err))
	}
}

func (a *App) shutdownTracer() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.tracing.Shutdown(ctx); err != nil {
		a.logger.Warn("tracer shutdown failed", zap.Error(err))
	}
}
