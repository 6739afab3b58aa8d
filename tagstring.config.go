package tagstring

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the file form of the evaluator options.
//
//	start_marker: "<%"
//	end_marker: "%>"
//	error_strategy: throw
//	max_recursion_depth: 5
//	scopes:
//	  - driver: file
//	    dsn: ./values.yaml
//	  - driver: postgres
//	    dsn: postgres://localhost/app?sslmode=disable
//	    cache: true
type Config struct {
	StartMarker          string        `yaml:"start_marker,omitempty"`
	EndMarker            string        `yaml:"end_marker,omitempty"`
	ForceToString        *bool         `yaml:"force_to_string,omitempty"`
	ErrorStrategy        string        `yaml:"error_strategy,omitempty"`
	MaxRecursionDepth    *int          `yaml:"max_recursion_depth,omitempty"`
	Rescan               *bool         `yaml:"rescan,omitempty"`
	InstructionSeparator string        `yaml:"instruction_separator,omitempty"`
	Scopes               []ScopeConfig `yaml:"scopes,omitempty"`
}

// ScopeConfig names a store to open as a scope, most significant first
type ScopeConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn,omitempty"`
	Cache  bool   `yaml:"cache,omitempty"`
}

// LoadConfig reads and validates a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigReadFailed, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML configuration document
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, NewConfigError(ErrMsgConfigParseFailed, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that options would otherwise reject late
func (c *Config) Validate() error {
	if c.ErrorStrategy != "" && !IsValidErrorStrategy(c.ErrorStrategy) {
		return NewConfigError(ErrMsgInvalidStrategy, nil)
	}
	if c.MaxRecursionDepth != nil && *c.MaxRecursionDepth < 0 {
		return NewConfigError(ErrMsgNegativeDepth, nil)
	}
	if c.StartMarker != "" && c.StartMarker == c.EndMarker {
		return NewConfigError(ErrMsgSameMarkers, nil)
	}
	for _, sc := range c.Scopes {
		if sc.Driver == "" {
			return NewConfigError(ErrMsgStoreDriverNotFound, nil)
		}
	}
	return nil
}

// Options converts the configuration to evaluator options. Unset fields
// keep the evaluator defaults. logger may be nil.
func (c *Config) Options(logger *zap.Logger) []Option {
	var opts []Option
	if c.StartMarker != "" || c.EndMarker != "" {
		opts = append(opts, WithMarkers(c.StartMarker, c.EndMarker))
	}
	if c.ForceToString != nil {
		opts = append(opts, WithForceToString(*c.ForceToString))
	}
	if c.ErrorStrategy != "" {
		opts = append(opts, WithErrorStrategy(ParseErrorStrategy(c.ErrorStrategy)))
	}
	if c.MaxRecursionDepth != nil {
		opts = append(opts, WithMaxRecursionDepth(*c.MaxRecursionDepth))
	}
	if c.Rescan != nil {
		opts = append(opts, WithRescan(*c.Rescan))
	}
	if c.InstructionSeparator != "" {
		opts = append(opts, WithDecoratorOptions(WithSeparator(c.InstructionSeparator)))
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	return opts
}
