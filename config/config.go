// Package config loads process configuration from environment variables under
// the CHATMESH_ prefix, one section per concern.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"8080"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// OpenAIConfig configures the OpenAI model provider.
type OpenAIConfig struct {
	APIKey string `envconfig:"API_KEY"`
	Model  string `envconfig:"MODEL" default:"gpt-4o-mini"`
}

// AnthropicConfig configures the Anthropic model provider.
type AnthropicConfig struct {
	APIKey string `envconfig:"API_KEY"`
	Model  string `envconfig:"MODEL" default:"claude-3-5-sonnet-latest"`
}

// ProvidersConfig selects and configures model providers.
type ProvidersConfig struct {
	// Default names the provider used by built-in features:
	// "openai", "anthropic", or "mock".
	Default   string `envconfig:"DEFAULT" default:"openai"`
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
}

// ChatConfig bounds conversation execution.
type ChatConfig struct {
	TurnCap        int           `envconfig:"TURN_CAP" default:"12"`
	NestedDepth    int           `envconfig:"NESTED_DEPTH" default:"3"`
	PoolSize       int           `envconfig:"POOL_SIZE" default:"8"`
	OutboundBuffer int           `envconfig:"OUTBOUND_BUFFER" default:"256"`
	InputTimeout   time.Duration `envconfig:"INPUT_TIMEOUT" default:"60s"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// Config is the full process configuration.
type Config struct {
	Server    ServerConfig
	Providers ProvidersConfig
	Chat      ChatConfig
	Log       LogConfig
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config

	sections := []struct {
		prefix string
		target any
	}{
		{"CHATMESH_SERVER", &cfg.Server},
		{"CHATMESH_PROVIDERS", &cfg.Providers},
		{"CHATMESH_PROVIDERS_OPENAI", &cfg.Providers.OpenAI},
		{"CHATMESH_PROVIDERS_ANTHROPIC", &cfg.Providers.Anthropic},
		{"CHATMESH_CHAT", &cfg.Chat},
		{"CHATMESH_LOG", &cfg.Log},
	}

	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.target); err != nil {
			return nil, fmt.Errorf("load %s config: %w", s.prefix, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Providers.Default {
	case "openai", "anthropic", "mock":
	default:
		return fmt.Errorf("invalid default provider %q", c.Providers.Default)
	}

	if c.Chat.TurnCap <= 0 {
		return fmt.Errorf("turn cap must be positive, got %d", c.Chat.TurnCap)
	}
	if c.Chat.NestedDepth < 0 {
		return fmt.Errorf("nested depth must not be negative, got %d", c.Chat.NestedDepth)
	}

	return nil
}
