package store

import (
	"context"

	"go.uber.org/fx"
)

// FXModule defines the Fx module for the store package.
// This module integrates the store into an Fx-based application by
// providing the store factory and registering its lifecycle hooks.
//
// The module:
//  1. Provides the New factory function to the dependency injection
//     container, making the store available to other components
//  2. Invokes RegisterStoreLifecycle to release the engine connection
//     during application shutdown
//
// Usage:
//
//	app := fx.New(
//	    store.FXModule,
//	    // other modules...
//	)
//
// Dependencies required by this module:
// - A store.Config instance must be available in the dependency injection container
var FXModule = fx.Module("store",
	fx.Provide(
		New,
	),
	fx.Invoke(RegisterStoreLifecycle),
)

// RegisterStoreLifecycle handles cleanup of the store's engine
// connection on application shutdown.
//
// Note: This function is automatically invoked by the FXModule and does
// not need to be called directly in application code.
func RegisterStoreLifecycle(lc fx.Lifecycle, s *Store) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})
}
