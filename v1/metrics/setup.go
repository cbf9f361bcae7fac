package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and HTTP server exposing
// store and collection metrics.
//
// Each store maintains its own isolated registry to prevent metric name
// collisions when several stores run in one process.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	Registry *prometheus.Registry

	// Core built-in metrics
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	entriesWritten    *prometheus.CounterVec
}

// NewMetrics initializes a Metrics instance: a dedicated registry, the
// built-in operation metrics wrapped with a constant `service` label,
// optional runtime collectors, and an HTTP server serving /metrics.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.DefaultConfig().WithAddress(":9091"))
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	// All metrics emitted through this instance automatically carry
	// service="<cfg.ServiceName>".
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.operationsTotal = createCounterVec("agentmem_operations_total",
		"Total number of store and collection operations",
		[]string{"component", "operation", "collection", "status"})
	m.operationDuration = createHistogramVec("agentmem_operation_duration_seconds",
		"Duration of store and collection operations in seconds",
		[]string{"component", "operation"}, prometheus.DefBuckets)
	m.entriesWritten = createCounterVec("agentmem_entries_written_total",
		"Total number of memory entries written",
		[]string{"collection"})

	wrappedRegistry.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.entriesWritten,
	)

	// GoCollector, ProcessCollector and BuildInfoCollector cover runtime
	// memory, goroutine, GC, CPU and build information.
	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}
	return m
}
