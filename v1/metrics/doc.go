// Package metrics provides Prometheus-based monitoring for stores and
// collections.
//
// The package exposes a configurable /metrics endpoint, registers the
// built-in operation metrics (operation counts by status, operation
// latency histograms, entries written), and integrates with the Fx
// dependency injection framework for lifecycle management.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - MetricsCollector interface: Defines the contract for metrics operations
//   - Metrics struct: Concrete implementation of the MetricsCollector interface
//   - Observer: adapts a Metrics instance to the observability.Observer
//     contract consumed by stores and collections
//
// # Direct Usage (Without FX)
//
// For simple applications or tests, create metrics directly:
//
//	m := metrics.NewMetrics(metrics.DefaultConfig().WithServiceName("memory"))
//	go m.Server.ListenAndServe()
//
//	st, err := store.New(store.DefaultConfig().
//		WithPath("./mem").
//		WithObserver(metrics.NewObserver(m)))
//
// # Configuration
//
// The metrics server can be configured via environment variables:
//
//	METRICS_ADDRESS=:9090                      # Port and address for /metrics endpoint
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true     # Enable runtime and process metrics
//	METRICS_SERVICE_NAME=memory                # Adds service label to all metrics
//
// # Thread Safety
//
// All methods on the Metrics struct and Prometheus collectors are safe
// for concurrent use by multiple goroutines.
package metrics
