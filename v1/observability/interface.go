package observability

import "time"

// Observer receives notifications about operations performed by agentmem
// components. Implementations typically forward these to a metrics system
// (see v1/metrics for a Prometheus-backed implementation) or a tracer.
//
// Observers must be safe for concurrent use and must not block: they are
// invoked inline on the calling goroutine after each operation completes.
type Observer interface {
	// ObserveOperation is called once per completed operation, whether it
	// succeeded or failed.
	ObserveOperation(ctx OperationContext)
}

// OperationContext carries the details of a single completed operation.
type OperationContext struct {
	// Component identifies the emitting component (e.g. "collection", "store").
	Component string

	// Operation is the operation name (e.g. "add", "query", "prune").
	Operation string

	// Resource is the primary resource operated on, typically the
	// collection name.
	Resource string

	// SubResource carries additional context such as an entry id or a
	// compiled predicate.
	SubResource string

	// Duration is the wall-clock time the operation took.
	Duration time.Duration

	// Error is nil for successful operations.
	Error error

	// Size is an operation-specific magnitude: rows inserted, results
	// returned, or entries removed.
	Size int64

	// Metadata holds any further key-value context.
	Metadata map[string]interface{}
}
