package metrics

import (
	"time"

	"github.com/Aleph-Alpha/agentmem/v1/observability"
)

// Observer adapts a Metrics instance to the observability.Observer
// contract, so stores and collections can report their operations
// without depending on Prometheus types.
type Observer struct {
	metrics *Metrics
}

// NewObserver wraps a Metrics instance as an operation observer.
func NewObserver(m *Metrics) *Observer {
	return &Observer{metrics: m}
}

// ObserveOperation records one finished operation: a count by status and
// a duration sample. Write operations additionally feed the
// entries-written counter.
func (o *Observer) ObserveOperation(op observability.OperationContext) {
	status := "success"
	if op.Error != nil {
		status = "error"
	}
	o.metrics.IncrementOperations(op.Component, op.Operation, op.Resource, status)
	o.metrics.RecordOperationDuration(time.Now().Add(-op.Duration), op.Component, op.Operation)

	if op.Error == nil && op.Size > 0 {
		switch op.Operation {
		case "add", "add_batch":
			o.metrics.AddEntriesWritten(op.Resource, float64(op.Size))
		}
	}
}
