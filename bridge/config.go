package bridge

import (
	"os"
	"strconv"
)

// LoadTracingConfigFromEnv loads tracing configuration from environment variables
func LoadTracingConfigFromEnv() TracingConfig {
	config := DefaultTracingConfig()

	if enabledStr := os.Getenv("SIGSLOT_TRACING_ENABLED"); enabledStr != "" {
		if enabled, err := strconv.ParseBool(enabledStr); err == nil {
			config.Enabled = enabled
		}
	}

	if serviceName := os.Getenv("SIGSLOT_TRACING_SERVICE_NAME"); serviceName != "" {
		config.ServiceName = serviceName
	}

	if zipkinURL := os.Getenv("SIGSLOT_TRACING_ZIPKIN_URL"); zipkinURL != "" {
		config.ZipkinURL = zipkinURL
	}

	return config
}
