package tagstring

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Evaluator.
type Option func(*evaluatorConfig)

// evaluatorConfig holds the internal configuration for an Evaluator.
type evaluatorConfig struct {
	startMarker   string
	endMarker     string
	forceToString bool
	errorStrategy ErrorStrategy
	maxDepth      int
	rescan        bool
	logger        *zap.Logger
	decoratorOpts []DecoratorOption
}

// defaultEvaluatorConfig returns the default evaluator configuration.
func defaultEvaluatorConfig() *evaluatorConfig {
	return &evaluatorConfig{
		startMarker:   DefaultStartMarker,
		endMarker:     DefaultEndMarker,
		forceToString: false,
		errorStrategy: ErrorStrategyMarker,
		maxDepth:      DefaultMaxRecursionDepth,
		rescan:        true,
		logger:        nil,
	}
}

// validate checks the configuration for inconsistent values
func (c *evaluatorConfig) validate() error {
	if c.startMarker == "" || c.endMarker == "" {
		return NewConfigError(ErrMsgEmptyMarker, nil)
	}
	if c.startMarker == c.endMarker {
		return NewConfigError(ErrMsgSameMarkers, nil)
	}
	if c.errorStrategy < ErrorStrategyMarker || c.errorStrategy > ErrorStrategyLog {
		return NewConfigError(ErrMsgInvalidStrategy, nil)
	}
	if c.maxDepth < 0 {
		return NewConfigError(ErrMsgNegativeDepth, nil)
	}
	return nil
}

// WithMarkers sets custom start and end markers for tags.
// Default: "${" and "}"
func WithMarkers(start, end string) Option {
	return func(c *evaluatorConfig) {
		if start != "" {
			c.startMarker = start
		}
		if end != "" {
			c.endMarker = end
		}
	}
}

// WithForceToString makes Evaluate always return a string. Without it, a
// template made of exactly one tag returns the tag's raw value.
// Default: false
func WithForceToString(force bool) Option {
	return func(c *evaluatorConfig) {
		c.forceToString = force
	}
}

// WithErrorStrategy sets how failing tags are rendered.
// Default: ErrorStrategyMarker
func WithErrorStrategy(strategy ErrorStrategy) Option {
	return func(c *evaluatorConfig) {
		c.errorStrategy = strategy
	}
}

// WithMaxRecursionDepth sets the budget for the * and + instructions.
// Default: 10
func WithMaxRecursionDepth(depth int) Option {
	return func(c *evaluatorConfig) {
		c.maxDepth = depth
	}
}

// WithRescan controls whether tags found in a tag's result are expanded
// once more.
// Default: true
func WithRescan(rescan bool) Option {
	return func(c *evaluatorConfig) {
		c.rescan = rescan
	}
}

// WithLogger sets the logger for the evaluator.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *evaluatorConfig) {
		c.logger = logger
	}
}

// WithDecoratorOptions passes options to the ProcessingDecorator built by
// NewChain. They are applied after the defaults, so WithFormatters(nil)
// disables the built-in formatters.
func WithDecoratorOptions(opts ...DecoratorOption) Option {
	return func(c *evaluatorConfig) {
		c.decoratorOpts = append(c.decoratorOpts, opts...)
	}
}
