package config

// GetDefaultConfig returns the built-in default configuration.
// Azure identity fields have no defaults; they must come from a config file
// or the AZURE_* environment variables.
func GetDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Transport: TransportStdio,
			Host:      "localhost",
			Port:      8080,
		},
		Query: QueryConfig{
			TimeoutSeconds:       60,
			WorkerPoolSize:       8,
			DefaultTimespanDays:  7,
			MaxTimespanDays:      90,
			BufferPercent:        10,
			MinBufferDays:        1,
			LargeResultThreshold: 250,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
