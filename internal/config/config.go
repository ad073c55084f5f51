// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
)

// Events backends.
const (
	EventsNone = "none"
	EventsSQS  = "sqs"
	EventsAMQP = "amqp"
)

// Config holds all settings for the api and worker binaries.
type Config struct {
	Addr             string `validate:"required"`
	RunLocal         bool
	LogLevel         string `validate:"oneof=debug info warn error"`
	SeedData         bool
	IdempotencyTTL   time.Duration `validate:"gt=0"`
	EventsBackend    string        `validate:"oneof=none sqs amqp"`
	EventsQueueURL   string        `validate:"required_if=EventsBackend sqs"`
	AMQPURL          string        `validate:"required_if=EventsBackend amqp"`
	AMQPExchange     string        `validate:"required"`
	MetricsNamespace string        `validate:"required"`
	TracingEnabled   bool
	ServiceName      string `validate:"required"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Addr:             env("ADDR", ":8080"),
		LogLevel:         env("LOG_LEVEL", "info"),
		EventsBackend:    env("EVENTS_BACKEND", EventsNone),
		EventsQueueURL:   getenv("EVENTS_QUEUE_URL"),
		AMQPURL:          getenv("AMQP_URL"),
		AMQPExchange:     env("AMQP_EXCHANGE", "restaurant_events"),
		MetricsNamespace: env("METRICS_NAMESPACE", "Restaurant"),
		ServiceName:      env("SERVICE_NAME", "restaurant-api"),
	}

	var err error
	if cfg.RunLocal, err = parseBool(env("RUN_LOCAL", "false")); err != nil {
		return Config{}, fmt.Errorf("RUN_LOCAL: %w", err)
	}
	if cfg.SeedData, err = parseBool(env("SEED_DATA", "true")); err != nil {
		return Config{}, fmt.Errorf("SEED_DATA: %w", err)
	}
	if cfg.TracingEnabled, err = parseBool(env("TRACING_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("TRACING_ENABLED: %w", err)
	}
	if cfg.IdempotencyTTL, err = time.ParseDuration(env("IDEMPOTENCY_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("IDEMPOTENCY_TTL: %w", err)
	}

	if err := validatorv10.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func parseBool(s string) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return b, nil
}
