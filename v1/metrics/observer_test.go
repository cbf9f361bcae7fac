package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Aleph-Alpha/agentmem/v1/observability"
)

func testMetrics() *Metrics {
	return NewMetrics(Config{
		Address:     ":0",
		ServiceName: "test",
	})
}

func TestObserverCountsSuccess(t *testing.T) {
	m := testMetrics()
	obs := NewObserver(m)

	obs.ObserveOperation(observability.OperationContext{
		Component: "collection",
		Operation: "add",
		Resource:  "notes",
		Duration:  5 * time.Millisecond,
		Size:      1,
	})

	got := testutil.ToFloat64(m.operationsTotal.WithLabelValues("collection", "add", "notes", "success"))
	if got != 1 {
		t.Errorf("expected 1 success operation, got %f", got)
	}
	written := testutil.ToFloat64(m.entriesWritten.WithLabelValues("notes"))
	if written != 1 {
		t.Errorf("expected 1 entry written, got %f", written)
	}
}

func TestObserverCountsErrors(t *testing.T) {
	m := testMetrics()
	obs := NewObserver(m)

	obs.ObserveOperation(observability.OperationContext{
		Component: "collection",
		Operation: "query",
		Resource:  "notes",
		Error:     errors.New("boom"),
	})

	got := testutil.ToFloat64(m.operationsTotal.WithLabelValues("collection", "query", "notes", "error"))
	if got != 1 {
		t.Errorf("expected 1 error operation, got %f", got)
	}
}

func TestObserverBatchWritesCountEntries(t *testing.T) {
	m := testMetrics()
	obs := NewObserver(m)

	obs.ObserveOperation(observability.OperationContext{
		Component: "collection",
		Operation: "add_batch",
		Resource:  "notes",
		Size:      7,
	})

	written := testutil.ToFloat64(m.entriesWritten.WithLabelValues("notes"))
	if written != 7 {
		t.Errorf("expected 7 entries written, got %f", written)
	}
}

func TestFailedWritesDoNotCountEntries(t *testing.T) {
	m := testMetrics()
	obs := NewObserver(m)

	obs.ObserveOperation(observability.OperationContext{
		Component: "collection",
		Operation: "add",
		Resource:  "notes",
		Error:     errors.New("boom"),
		Size:      1,
	})

	written := testutil.ToFloat64(m.entriesWritten.WithLabelValues("notes"))
	if written != 0 {
		t.Errorf("expected 0 entries written, got %f", written)
	}
}
