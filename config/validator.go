package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that cfg is complete for the selected features.
func Validate(cfg *Config) error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", cfg.Log.Format)
	}

	switch cfg.Log.Output {
	case "stdout", "stderr":
	default:
		return fmt.Errorf("log.output must be stdout or stderr (got %q)", cfg.Log.Output)
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}

	if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1 (got %v)", cfg.Tracing.SampleRate)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}

	b := cfg.Bridge
	switch b.Backend {
	case BackendNone, BackendMemory:
	case BackendNATS:
		if b.NATS.URL == "" {
			return fmt.Errorf("bridge.nats.url is required for the nats backend")
		}
	case BackendKafka:
		if len(b.Kafka.Brokers) == 0 {
			return fmt.Errorf("bridge.kafka.brokers is required for the kafka backend")
		}
	case BackendRabbitMQ:
		if b.RabbitMQ.URL == "" {
			return fmt.Errorf("bridge.rabbitmq.url is required for the rabbitmq backend")
		}
	default:
		return fmt.Errorf("unsupported bridge.backend %q (use memory, nats, kafka or rabbitmq)", b.Backend)
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "scg-mediator"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	cfg.Bridge.Backend = strings.ToLower(cfg.Bridge.Backend)

	if cfg.Bridge.NATS.ConnTimeout == 0 {
		cfg.Bridge.NATS.ConnTimeout = 5 * time.Second
	}

	if cfg.Bridge.RabbitMQ.ConnTimeout == 0 {
		cfg.Bridge.RabbitMQ.ConnTimeout = 5 * time.Second
	}

	if cfg.Bridge.RabbitMQ.Exchange == "" {
		cfg.Bridge.RabbitMQ.Exchange = "mediator"
	}

	if cfg.Bridge.Kafka.ClientID == "" {
		cfg.Bridge.Kafka.ClientID = cfg.Service.Name
	}

	if cfg.Bridge.NATS.Name == "" {
		cfg.Bridge.NATS.Name = cfg.Service.Name
	}
}
