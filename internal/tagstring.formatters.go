package internal

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Formatter is a named formatting function invoked by "#id(params)"
// processing instructions.
type Formatter struct {
	Name      string
	MinParams int
	MaxParams int // -1 for variadic
	Fn        func(value any, params []string) (any, error)
}

// FormatterRegistry manages registered formatters
type FormatterRegistry struct {
	formatters map[string]*Formatter
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewFormatterRegistry creates an empty formatter registry
func NewFormatterRegistry(logger *zap.Logger) *FormatterRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &FormatterRegistry{
		formatters: make(map[string]*Formatter),
		logger:     logger,
	}
}

// Register adds a formatter to the registry (first-come-wins)
func (r *FormatterRegistry) Register(f *Formatter) error {
	if f == nil || f.Fn == nil {
		return NewFormatterRegistryError(ErrMsgFormatterNil, "")
	}
	if f.Name == "" {
		return NewFormatterRegistryError(ErrMsgFormatterEmptyName, "")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Name]; exists {
		r.logger.Warn(LogMsgFormatterCollision, zap.String(LogFieldFormatter, f.Name))
		return NewFormatterRegistryError(ErrMsgFormatterAlreadyExists, f.Name)
	}

	r.formatters[f.Name] = f
	r.logger.Debug(LogMsgFormatterAdded, zap.String(LogFieldFormatter, f.Name))
	return nil
}

// MustRegister adds a formatter and panics on error
func (r *FormatterRegistry) MustRegister(f *Formatter) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Get retrieves a formatter by name
func (r *FormatterRegistry) Get(name string) (*Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[name]
	return f, ok
}

// Has checks if a formatter is registered
func (r *FormatterRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Call invokes a formatter by name
func (r *FormatterRegistry) Call(name string, value any, params []string) (any, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, NewFormatterError(ErrMsgFormatterNotFound, name)
	}

	count := len(params)
	if count < f.MinParams {
		return nil, NewFormatterParamError(ErrMsgFormatterTooFewParams, name, f.MinParams, count)
	}
	if f.MaxParams >= 0 && count > f.MaxParams {
		return nil, NewFormatterParamError(ErrMsgFormatterTooManyParams, name, f.MaxParams, count)
	}

	result, err := f.Fn(value, params)
	if err != nil {
		return nil, NewFormatterExecError(name, err)
	}
	return result, nil
}

// List returns all registered formatter names in sorted order
func (r *FormatterRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered formatters
func (r *FormatterRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.formatters)
}

// FormatterRegistryError represents a registration error
type FormatterRegistryError struct {
	Message string
	Name    string
}

// NewFormatterRegistryError creates a new registry error
func NewFormatterRegistryError(message, name string) *FormatterRegistryError {
	return &FormatterRegistryError{Message: message, Name: name}
}

// Error implements the error interface
func (e *FormatterRegistryError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Name)
	}
	return e.Message
}

// FormatterError represents a lookup error
type FormatterError struct {
	Message string
	Name    string
}

// NewFormatterError creates a new formatter error
func NewFormatterError(message, name string) *FormatterError {
	return &FormatterError{Message: message, Name: name}
}

// Error implements the error interface
func (e *FormatterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Name)
}

// FormatterParamError represents a parameter count error
type FormatterParamError struct {
	Message  string
	Name     string
	Expected int
	Actual   int
}

// NewFormatterParamError creates a new parameter count error
func NewFormatterParamError(message, name string, expected, actual int) *FormatterParamError {
	return &FormatterParamError{Message: message, Name: name, Expected: expected, Actual: actual}
}

// Error implements the error interface
func (e *FormatterParamError) Error() string {
	return fmt.Sprintf("%s: %s (expected %d, got %d)", e.Message, e.Name, e.Expected, e.Actual)
}

// FormatterExecError wraps a failure inside a formatter
type FormatterExecError struct {
	Name  string
	Cause error
}

// NewFormatterExecError creates a new execution error
func NewFormatterExecError(name string, cause error) *FormatterExecError {
	return &FormatterExecError{Name: name, Cause: cause}
}

// Error implements the error interface
func (e *FormatterExecError) Error() string {
	return fmt.Sprintf("formatter %s failed: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying error
func (e *FormatterExecError) Unwrap() error {
	return e.Cause
}

// Formatter error messages
const (
	ErrMsgFormatterNil           = "formatter cannot be nil"
	ErrMsgFormatterEmptyName     = "formatter name cannot be empty"
	ErrMsgFormatterAlreadyExists = "formatter already registered"
	ErrMsgFormatterNotFound      = "formatter not found"
	ErrMsgFormatterTooFewParams  = "too few parameters"
	ErrMsgFormatterTooManyParams = "too many parameters"
	ErrMsgExpectedNumber         = "expected numeric value"
	ErrMsgExpectedTime           = "expected time value"
	ErrMsgExpectedInteger        = "expected integer parameter"
	ErrMsgUnknownLocale          = "unknown locale"
	ErrMsgUnknownCurrency        = "unknown currency code"
)

// Built-in formatter names
const (
	FormatterNameNumber   = "number"
	FormatterNamePercent  = "percent"
	FormatterNameCurrency = "currency"
	FormatterNameTitle    = "title"
	FormatterNameUpper    = "upper"
	FormatterNameLower    = "lower"
	FormatterNameDate     = "date"
	FormatterNameBytes    = "bytes"
	FormatterNameComma    = "comma"
	FormatterNameAgo      = "ago"
	FormatterNameMarkdown = "markdown"
	FormatterNameDefault  = "default"
	FormatterNameTruncate = "truncate"
	FormatterNameJSON     = "json"
)

// DefaultLocale is used when a locale-aware formatter gets no locale parameter
const DefaultLocale = "en"

// RegisterBuiltinFormatters registers all built-in formatters with the registry
func RegisterBuiltinFormatters(r *FormatterRegistry) {
	registerTextFormatters(r)
	registerLocaleFormatters(r)
	registerDateTimeFormatters(r)
	registerHumanizeFormatters(r)
}
