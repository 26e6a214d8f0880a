package taskly

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viant/taskly/event"
	"github.com/viant/taskly/executor"
)

// Config is a serialisable representation of the runtime configuration. It
// can be populated from JSON or YAML. The zero-value is useful – all nested
// fields inherit their package defaults.

type Config struct {
	Executor executor.Config `json:"executor,omitempty" yaml:"executor,omitempty"`
	Events   event.Config    `json:"events,omitempty" yaml:"events,omitempty"`
	Journal  JournalConfig   `json:"journal,omitempty" yaml:"journal,omitempty"`
}

// JournalConfig enables event persistence when BaseURL is set. Codec is one
// of "json" or "msgpack", defaulting to JSON.
type JournalConfig struct {
	BaseURL string      `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	Codec   event.Codec `json:"codec,omitempty" yaml:"codec,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		Executor: executor.DefaultConfig(),
		Events:   event.DefaultConfig(),
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if err := c.Executor.Validate(); err != nil {
		return fmt.Errorf("executor: %w", err)
	}
	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	switch c.Journal.Codec {
	case "", event.CodecJSON, event.CodecMsgpack:
	default:
		return fmt.Errorf("journal: unsupported codec %q", c.Journal.Codec)
	}
	return nil
}

// LoadConfig reads a YAML configuration file, layering it over the package
// defaults so absent fields keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %v: %w", path, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
