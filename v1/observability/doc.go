// Package observability defines the Observer contract shared by all
// agentmem components.
//
// Components accept an optional Observer and notify it after every
// operation with an OperationContext describing what ran, how long it
// took, and whether it failed. This keeps metrics and tracing concerns
// out of the data path: components never import a metrics library
// directly.
//
// # Usage
//
//	type logObserver struct{}
//
//	func (logObserver) ObserveOperation(ctx observability.OperationContext) {
//	    log.Printf("%s.%s on %s took %s (err=%v)",
//	        ctx.Component, ctx.Operation, ctx.Resource, ctx.Duration, ctx.Error)
//	}
//
//	coll, _ := store.GetOrCreateCollection(ctx, collection.Config{
//	    Name:            "episodic",
//	    VectorDimension: 16,
//	    Observer:        logObserver{},
//	})
//
// For a ready-made Prometheus implementation see the v1/metrics package.
package observability
