package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/mediator"
	"github.com/next-trace/scg-mediator/metrics"
)

type OrderPlaced struct{ ID string }

func histogramCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var n uint64

	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}

		for _, m := range mf.GetMetric() {
			n += histogramSamples(m)
		}
	}

	return n
}

func histogramSamples(m *dto.Metric) uint64 { return m.GetHistogram().GetSampleCount() }

func Test_Collector_RecordsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()

	c, err := metrics.NewCollector(reg)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}

	ctx := context.Background()
	c.HandlerSettled(ctx, mediator.DispatchEvent{Op: mediator.OpPublish, MessageType: "OrderPlaced", Duration: time.Millisecond})
	c.HandlerSettled(ctx, mediator.DispatchEvent{Op: mediator.OpPublish, MessageType: "OrderPlaced", Err: errors.New("x")})
	c.NoHandler(ctx, berr.NoHandlerWarning{TypeName: "Unrouted"})

	expected := `
# HELP mediator_dispatch_total Total handler invocations by operation, message type and outcome.
# TYPE mediator_dispatch_total counter
mediator_dispatch_total{message="OrderPlaced",op="publish",outcome="error"} 1
mediator_dispatch_total{message="OrderPlaced",op="publish",outcome="ok"} 1
# HELP mediator_no_handler_total Total publishes of message types with no registered handler.
# TYPE mediator_no_handler_total counter
mediator_no_handler_total{message="Unrouted"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"mediator_dispatch_total", "mediator_no_handler_total"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}

	if n := histogramCount(t, reg, "mediator_handler_duration_seconds"); n != 2 {
		t.Fatalf("want 2 duration samples, got %d", n)
	}
}

func Test_Collector_WiredIntoMediator(t *testing.T) {
	reg := prometheus.NewRegistry()

	c, err := metrics.NewCollector(reg)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}

	m := mediator.New(nil, mediator.WithObserver(c))
	mediator.RegisterFunc(m, func(ctx context.Context, o OrderPlaced) (string, error) { return o.ID, nil })

	if _, err := m.Send(t.Context(), OrderPlaced{ID: "o-1"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := m.Publish(t.Context(), struct{}{}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if n, err := testutil.GatherAndCount(reg, "mediator_dispatch_total"); err != nil || n != 1 {
		t.Fatalf("want one dispatch series, got %d (%v)", n, err)
	}

	if n, err := testutil.GatherAndCount(reg, "mediator_no_handler_total"); err != nil || n != 1 {
		t.Fatalf("want one no-handler series, got %d (%v)", n, err)
	}
}

func Test_NewCollector_SharesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	a, err := metrics.NewCollector(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}

	b, err := metrics.NewCollector(reg)
	if err != nil {
		t.Fatalf("second registration must reuse existing metrics: %v", err)
	}

	ctx := context.Background()
	a.NoHandler(ctx, berr.NoHandlerWarning{TypeName: "X"})
	b.NoHandler(ctx, berr.NoHandlerWarning{TypeName: "X"})

	expected := `
# HELP mediator_no_handler_total Total publishes of message types with no registered handler.
# TYPE mediator_no_handler_total counter
mediator_no_handler_total{message="X"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "mediator_no_handler_total"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func Test_Handler_ServesTextFormat(t *testing.T) {
	reg := prometheus.NewRegistry()

	c, err := metrics.NewCollector(reg)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}

	c.NoHandler(context.Background(), berr.NoHandlerWarning{TypeName: "X"})

	srv := httptest.NewServer(metrics.Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `mediator_no_handler_total{message="X"} 1`) {
		t.Fatalf("metrics body missing counter: %s", body)
	}
}
