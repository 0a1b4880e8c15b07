package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from a file and environment variables.
// envPrefix namespaces environment variables (e.g. "MEDIATOR" -> MEDIATOR_LOG_LEVEL).
// If configPath is empty, only defaults and environment variables are used.
func Load(configPath, envPrefix string) (*Config, error) {
	v := viper.New()

	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration and panics on error.
func MustLoad(configPath, envPrefix string) *Config {
	cfg, err := Load(configPath, envPrefix)
	if err != nil {
		panic(fmt.Sprintf("load configuration: %v", err))
	}

	return cfg
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv(envPrefix string) (*Config, error) {
	return Load("", envPrefix)
}

// setDefaults registers every key with viper so AutomaticEnv overrides reach Unmarshal
// even when no config file mentions them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "scg-mediator")
	v.SetDefault("service.version", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sample_rate", 1.0)
	v.SetDefault("bridge.backend", BackendNone)
	v.SetDefault("bridge.subject", "")
	v.SetDefault("bridge.nats.url", "")
	v.SetDefault("bridge.nats.name", "")
	v.SetDefault("bridge.nats.conn_timeout", "5s")
	v.SetDefault("bridge.nats.max_reconnects", 10)
	v.SetDefault("bridge.kafka.brokers", []string{})
	v.SetDefault("bridge.kafka.client_id", "")
	v.SetDefault("bridge.kafka.idempotent", false)
	v.SetDefault("bridge.rabbitmq.url", "")
	v.SetDefault("bridge.rabbitmq.conn_timeout", "5s")
	v.SetDefault("bridge.rabbitmq.exchange", "mediator")
}
