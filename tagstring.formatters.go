package tagstring

import (
	"go.uber.org/zap"

	"github.com/itsatony/go-tagstring/internal"
)

// Formatter is a named formatting function invoked by "#id(params)"
// instructions. Fn receives the current value and the literal parameters.
type Formatter = internal.Formatter

// FormatterRegistry maps formatter ids to formatters. Safe for concurrent use.
type FormatterRegistry = internal.FormatterRegistry

// NewFormatterRegistry creates an empty formatter registry
func NewFormatterRegistry(logger *zap.Logger) *FormatterRegistry {
	return internal.NewFormatterRegistry(logger)
}

// NewBuiltinFormatters creates a registry holding the built-in formatters:
// number, percent, currency, title, upper, lower, date, bytes, comma, ago,
// markdown, default, truncate and json.
func NewBuiltinFormatters(logger *zap.Logger) *FormatterRegistry {
	r := internal.NewFormatterRegistry(logger)
	internal.RegisterBuiltinFormatters(r)
	return r
}
