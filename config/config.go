// Package config loads mediator runtime configuration from a file and the environment.
package config

import "time"

// Bridge backends.
const (
	BackendNone     = ""
	BackendMemory   = "memory"
	BackendNATS     = "nats"
	BackendKafka    = "kafka"
	BackendRabbitMQ = "rabbitmq"
)

// Config is the root configuration.
type Config struct {
	Service ServiceConfig `mapstructure:"service"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Bridge  BridgeConfig  `mapstructure:"bridge"`
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// LogConfig contains logger configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
	Output string `mapstructure:"output"` // stdout, stderr
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Endpoint   string  `mapstructure:"endpoint"` // OTLP gRPC endpoint, e.g. localhost:4317
	Insecure   bool    `mapstructure:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// BridgeConfig selects the broker messages are forwarded to, if any.
type BridgeConfig struct {
	Backend  string         `mapstructure:"backend"` // "", memory, nats, kafka, rabbitmq
	Subject  string         `mapstructure:"subject"` // fixed subject for every forwarded message
	NATS     NATSConfig     `mapstructure:"nats"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	Name          string        `mapstructure:"name"`
	ConnTimeout   time.Duration `mapstructure:"conn_timeout"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
}

type KafkaConfig struct {
	Brokers    []string `mapstructure:"brokers"`
	ClientID   string   `mapstructure:"client_id"`
	Idempotent bool     `mapstructure:"idempotent"`
}

type RabbitMQConfig struct {
	URL         string        `mapstructure:"url"`
	ConnTimeout time.Duration `mapstructure:"conn_timeout"`
	Exchange    string        `mapstructure:"exchange"`
}
