package metrics

// Config holds metric provider configuration.
type Config struct {
	ServiceName string
	Port        string
}

// OptionFn mutates the metric configuration.
type OptionFn func(Config) Config

// WithServiceName sets the service name attached to the metric resource.
func WithServiceName(name string) OptionFn {
	return func(c Config) Config {
		c.ServiceName = name
		return c
	}
}

// WithPort sets the Prometheus listen port.
func WithPort(port string) OptionFn {
	return func(c Config) Config {
		c.Port = port
		return c
	}
}
