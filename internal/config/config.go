package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Catalog seed files (optional, defaults ship in-binary)
	DataDir string

	// Sink backend selection
	SinkBackend string
	SQLiteDSN   string

	// AMQP event mirror (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Stage pacing profile
	PacingProfile string
}

func Load() *Config {
	cfg := &Config{
		Port:    getEnv("PORT", "8081"),
		DataDir: getEnv("DATA_DIR", "data"),

		SinkBackend: getEnv("SINK_BACKEND", "memory"),
		SQLiteDSN:   getEnv("SQLITE_DSN", "file:etp?mode=memory&cache=shared"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "etp"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "workflow_events"),

		PacingProfile: getEnv("PACING_PROFILE", "demo"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate sink backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.SinkBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid sink backend '%s': must be one of %v", c.SinkBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.SinkBackend == "sqlite" && c.SQLiteDSN == "" {
		errors = append(errors, "SQLite DSN cannot be empty when using sqlite backend")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate pacing profile
	validProfiles := []string{"demo", "instant"}
	isValidProfile := false
	for _, profile := range validProfiles {
		if c.PacingProfile == profile {
			isValidProfile = true
			break
		}
	}
	if !isValidProfile {
		errors = append(errors, fmt.Sprintf("invalid pacing profile '%s': must be one of %v", c.PacingProfile, validProfiles))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
