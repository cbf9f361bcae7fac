package logger

// Level represents the minimum severity a log entry must have to be emitted.
type Level string

const (
	// Debug enables all log output, including verbose diagnostics.
	Debug Level = "debug"
	// Info is the default level for production use.
	Info Level = "info"
	// Warning emits warnings and errors only.
	Warning Level = "warning"
	// Error emits errors only.
	Error Level = "error"
)

// Config holds the logger configuration.
//
// Example:
//
//	cfg := logger.Config{
//	    Level:       logger.Info,
//	    ServiceName: "agentmem",
//	}
//	log := logger.NewLoggerClient(cfg)
type Config struct {
	// Level is the minimum severity to emit. Defaults to Info.
	Level Level `yaml:"level" env:"LOG_LEVEL"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" env:"LOG_SERVICE_NAME"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Level:       Info,
		ServiceName: "agentmem",
	}
}
