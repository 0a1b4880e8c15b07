// Package metrics exports mediator dispatch diagnostics as Prometheus metrics.
//
// Metric naming follows Prometheus conventions:
//   - mediator_ prefix for all metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/mediator"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Collector is a mediator.Observer recording dispatch counts, handler latency and
// publishes that found no handler.
type Collector struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	noHandler  *prometheus.CounterVec
}

// NewCollector creates the mediator metrics and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediator_dispatch_total",
				Help: "Total handler invocations by operation, message type and outcome.",
			},
			[]string{"op", "message", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mediator_handler_duration_seconds",
				Help:    "Handler execution time in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op", "message"},
		),
		noHandler: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediator_no_handler_total",
				Help: "Total publishes of message types with no registered handler.",
			},
			[]string{"message"},
		),
	}

	var err error

	if c.dispatches, err = register(reg, c.dispatches); err != nil {
		return nil, err
	}

	if c.duration, err = register(reg, c.duration); err != nil {
		return nil, err
	}

	if c.noHandler, err = register(reg, c.noHandler); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Collector) NoHandler(_ context.Context, w berr.NoHandlerWarning) {
	c.noHandler.WithLabelValues(w.TypeName).Inc()
}

func (c *Collector) HandlerSettled(_ context.Context, e mediator.DispatchEvent) {
	outcome := OutcomeOK
	if e.Err != nil {
		outcome = OutcomeError
	}

	c.dispatches.WithLabelValues(string(e.Op), e.MessageType, outcome).Inc()
	c.duration.WithLabelValues(string(e.Op), e.MessageType).Observe(e.Duration.Seconds())
}

var _ mediator.Observer = (*Collector)(nil)

// register adds col to reg, reusing the collector already registered under the same
// descriptor so several mediators can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, col C) (C, error) {
	err := reg.Register(col)
	if err == nil {
		return col, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return col, fmt.Errorf("register mediator metrics: %w", err)
}

// Handler serves the metrics gathered by g in the Prometheus text format.
// A nil g uses prometheus.DefaultGatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}

	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
