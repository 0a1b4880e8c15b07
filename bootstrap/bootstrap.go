// Package bootstrap assembles a ready-to-use mediator runtime from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/next-trace/scg-mediator/adapters/inmemory"
	"github.com/next-trace/scg-mediator/adapters/kafka"
	"github.com/next-trace/scg-mediator/adapters/nats"
	"github.com/next-trace/scg-mediator/adapters/rabbitmq"
	"github.com/next-trace/scg-mediator/config"
	"github.com/next-trace/scg-mediator/contract/handler"
	"github.com/next-trace/scg-mediator/logging"
	"github.com/next-trace/scg-mediator/mediator"
	"github.com/next-trace/scg-mediator/metrics"
	"github.com/next-trace/scg-mediator/tracing"
)

// Runtime bundles the mediator with the collaborators built for it.
type Runtime struct {
	Mediator *mediator.Mediator
	Logger   *slog.Logger

	// Forwarder is the configured broker bridge, nil when bridge.backend is empty.
	Forwarder handler.Forwarder

	// MetricsHandler serves the registry the collector was registered with, nil when
	// metrics are disabled.
	MetricsHandler http.Handler

	subject string
}

// New builds a Runtime from cfg. Metrics are registered with reg, or with the default
// registerer when reg is nil. The returned cleanup closes the bridge and flushes traces.
func New(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*Runtime, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: nil config")
	}

	logger := logging.New(cfg.Log).With("service", cfg.Service.Name)

	tp, shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing, cfg.Service.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap tracing: %w", err)
	}

	opts := []mediator.Option{mediator.WithTracer(tp.Tracer("github.com/next-trace/scg-mediator"))}
	rt := &Runtime{Logger: logger, subject: cfg.Bridge.Subject}

	if cfg.Metrics.Enabled {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}

		col, err := metrics.NewCollector(reg)
		if err != nil {
			_ = shutdownTracing(ctx)
			return nil, nil, fmt.Errorf("bootstrap metrics: %w", err)
		}

		opts = append(opts, mediator.WithObserver(col))

		g, ok := reg.(prometheus.Gatherer)
		if !ok {
			g = prometheus.DefaultGatherer
		}

		rt.MetricsHandler = metrics.Handler(g)
	}

	fwd, closeBridge, err := newBridge(cfg.Bridge)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, nil, fmt.Errorf("bootstrap bridge %q: %w", cfg.Bridge.Backend, err)
	}

	rt.Forwarder = fwd
	rt.Mediator = mediator.New(logger, opts...)

	logger.Debug("mediator runtime ready", "bridge", cfg.Bridge.Backend, "metrics", cfg.Metrics.Enabled, "tracing", cfg.Tracing.Enabled)

	cleanup := func() {
		closeBridge()

		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown", "err", err)
		}
	}

	return rt, cleanup, nil
}

// RegisterBridge forwards every published M through the runtime's bridge. It reports false
// when no bridge is configured. A zero opts.Subject falls back to bridge.subject.
func RegisterBridge[M any](rt *Runtime, opts handler.ForwardOptions) bool {
	if rt.Forwarder == nil {
		return false
	}

	if opts.Subject == "" {
		opts.Subject = rt.subject
	}

	mediator.RegisterForwarder[M](rt.Mediator, rt.Forwarder, opts)

	return true
}

func newBridge(cfg config.BridgeConfig) (handler.Forwarder, func(), error) {
	noop := func() {}
	prop := tracing.NewPropagator()

	switch cfg.Backend {
	case config.BackendNone:
		return nil, noop, nil
	case config.BackendMemory:
		return inmemory.New(), noop, nil
	case config.BackendNATS:
		ad, cleanup, err := nats.NewWithNATS(nats.Config{
			URL:           cfg.NATS.URL,
			Name:          cfg.NATS.Name,
			ConnTimeout:   cfg.NATS.ConnTimeout,
			MaxReconnects: cfg.NATS.MaxReconnects,
		})
		if err != nil {
			return nil, nil, err
		}

		ad.Propagator = prop

		return ad, cleanup, nil
	case config.BackendKafka:
		ad, cleanup, err := kafka.NewWithKgo(kafka.Config{
			Brokers:    cfg.Kafka.Brokers,
			ClientID:   cfg.Kafka.ClientID,
			Idempotent: cfg.Kafka.Idempotent,
		})
		if err != nil {
			return nil, nil, err
		}

		ad.Propagator = prop

		return ad, cleanup, nil
	case config.BackendRabbitMQ:
		ad, cleanup, err := rabbitmq.NewWithAMQPConn(rabbitmq.Config{
			URL:         cfg.RabbitMQ.URL,
			ConnTimeout: cfg.RabbitMQ.ConnTimeout,
			Exchange:    cfg.RabbitMQ.Exchange,
		})
		if err != nil {
			return nil, nil, err
		}

		ad.Propagator = prop

		return ad, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend")
	}
}
