// Package logger provides structured logging for agentmem components.
//
// The logger package wraps Uber's Zap with a simplified interface: every
// call takes a message, an optional error, and optional key-value field
// maps. It integrates with the fx dependency injection framework for easy
// incorporation into applications.
//
// # Direct Usage (Without FX)
//
// For simple applications or tests, create a logger directly:
//
//	import "github.com/Aleph-Alpha/agentmem/v1/logger"
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       logger.Info,
//		ServiceName: "agentmem",
//	})
//
//	log.Info("Collection created", nil, map[string]interface{}{
//		"collection": "episodic",
//		"dimension":  384,
//	})
//
// # FX Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() logger.Config { return logger.DefaultConfig() }),
//	    // other modules...
//	)
//
// The FX module registers a shutdown hook that flushes buffered entries
// on application stop.
//
// # Consumer Packages
//
// Packages that log (collection, store, sqlite) declare their own minimal
// Logger interface matching this type's methods, so they work with any
// compatible implementation and default to a no-op logger when none is
// configured.
package logger
