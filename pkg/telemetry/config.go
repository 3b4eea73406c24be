package telemetry

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format specifies the log format (console, json). Console is the
	// interactive default; json is for running under a supervisor.
	Format string

	// Output specifies where logs are written (stdout, stderr, file path).
	Output string
}

// DefaultLoggingConfig is the interactive CLI default.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	Enabled bool

	// ListenAddress is the address for the metrics HTTP endpoint,
	// e.g. ":9464".
	ListenAddress string

	// Namespace is the metrics namespace prefix.
	Namespace string
}

// DefaultMetricsConfig returns a disabled metrics configuration with the
// module's namespace filled in.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "nms_install",
	}
}
