package metrics

// Config holds the settings for the Prometheus metrics server.
type Config struct {
	// Address is the listen address of the /metrics endpoint.
	Address string `yaml:"address" env:"METRICS_ADDRESS"`

	// ServiceName is added as a constant `service` label to every metric.
	ServiceName string `yaml:"service_name" env:"METRICS_SERVICE_NAME"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" env:"METRICS_ENABLE_DEFAULT_COLLECTORS"`
}

// DefaultConfig returns the conventional metrics configuration.
func DefaultConfig() Config {
	return Config{
		Address:                 ":9090",
		ServiceName:             "agentmem",
		EnableDefaultCollectors: true,
	}
}

// WithAddress sets the listen address.
func (c Config) WithAddress(address string) Config {
	c.Address = address
	return c
}

// WithServiceName sets the service label value.
func (c Config) WithServiceName(name string) Config {
	c.ServiceName = name
	return c
}

// WithDefaultCollectors toggles the runtime collectors.
func (c Config) WithDefaultCollectors(enable bool) Config {
	c.EnableDefaultCollectors = enable
	return c
}
