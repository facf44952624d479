// Package config loads the service's YAML configuration: the
// removable-section rules the MW contextualizer compiles once at
// startup, the segment-isolation toggle, and logging options.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/cxserver/lderr"
	"github.com/gaurav-prasanna/cxserver/lineardoc"
)

// LoggingConfig configures the zap logger the service constructs at startup.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Config is the top-level configuration schema.
type Config struct {
	RemovableSections lineardoc.RemovableSections `yaml:"removableSections"`
	IsolateSegments   bool                        `yaml:"isolateSegments"`
	Logging           LoggingConfig               `yaml:"logging"`
}

// Default returns the configuration used when no file is supplied:
// nothing is removed, segments are not isolated, logging is
// console-encoded at info level.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Encoding: "console"},
	}
}

// Load reads and decodes the YAML file at path. Unknown fields and
// malformed regex template entries are rejected at load time rather
// than surfacing later as a request-time failure.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, lderr.NewConfigError("reading config file %s: %v", path, err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, lderr.NewConfigError("decoding config file %s: %v", path, err)
	}

	if _, err := lineardoc.NewMwContextualizer(&cfg.RemovableSections); err != nil {
		return nil, fmt.Errorf("validating removableSections: %w", err)
	}

	return cfg, nil
}
