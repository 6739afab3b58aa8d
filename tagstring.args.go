package tagstring

import (
	"sort"
	"strconv"
)

// Args is the call-scoped argument bag threaded through every resolution
// step. It holds ordered positional values and named values. Names that
// parse as a non-negative integer address positional values.
//
// A nil *Args is a valid empty bag.
type Args struct {
	positional []any
	named      map[string]any
}

// NewArgs creates a bag with the given positional values
func NewArgs(values ...any) *Args {
	return &Args{positional: values}
}

// NamedArgs creates a bag from a map of named values
func NamedArgs(values map[string]any) *Args {
	a := &Args{named: make(map[string]any, len(values))}
	for k, v := range values {
		a.named[k] = v
	}
	return a
}

// Add appends a positional value
func (a *Args) Add(value any) *Args {
	a.positional = append(a.positional, value)
	return a
}

// Set stores a named value
func (a *Args) Set(name string, value any) *Args {
	if a.named == nil {
		a.named = make(map[string]any)
	}
	a.named[name] = value
	return a
}

// Get looks up a named value, falling back to a positional index
func (a *Args) Get(name string) (any, bool) {
	if a == nil {
		return nil, false
	}
	if v, ok := a.named[name]; ok {
		return v, true
	}
	if i, err := strconv.Atoi(name); err == nil {
		return a.At(i)
	}
	return nil, false
}

// At returns the positional value at index i
func (a *Args) At(i int) (any, bool) {
	if a == nil || i < 0 || i >= len(a.positional) {
		return nil, false
	}
	return a.positional[i], true
}

// Len returns the number of positional values
func (a *Args) Len() int {
	if a == nil {
		return 0
	}
	return len(a.positional)
}

// Names returns the named keys in sorted order
func (a *Args) Names() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.named))
	for name := range a.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the named values
func (a *Args) Map() map[string]any {
	out := make(map[string]any)
	if a == nil {
		return out
	}
	for k, v := range a.named {
		out[k] = v
	}
	return out
}
