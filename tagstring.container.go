package tagstring

import (
	"context"
	"strings"
)

// Lookup resolves a single path segment against a scope
type Lookup interface {
	Lookup(ctx context.Context, name string, args *Args) (any, error)
}

// LookupFunc adapts a function to Lookup
type LookupFunc func(ctx context.Context, name string, args *Args) (any, error)

// Lookup implements Lookup
func (f LookupFunc) Lookup(ctx context.Context, name string, args *Args) (any, error) {
	return f(ctx, name, args)
}

// ContainerOption configures a ContainerResolver
type ContainerOption func(*ContainerResolver)

// WithPathSeparator sets the path separator.
// Default: "."
func WithPathSeparator(sep string) ContainerOption {
	return func(c *ContainerResolver) {
		if sep != "" {
			c.separator = sep
		}
	}
}

// WithExceptionResolver sets a fallback consulted with the failing segment
// when a lookup fails. Its value replaces the failure.
func WithExceptionResolver(r Resolver) ContainerOption {
	return func(c *ContainerResolver) {
		c.exception = r
	}
}

// ContainerResolver resolves a separated path by looking up the first
// segment in its scope and handing the rest of the path to the scope of
// the value found (see ScopeOf).
type ContainerResolver struct {
	lookup    Lookup
	separator string
	exception Resolver
}

// NewContainerResolver creates a resolver whose root scope is lookup
func NewContainerResolver(lookup Lookup, opts ...ContainerOption) *ContainerResolver {
	c := &ContainerResolver{
		lookup:    lookup,
		separator: DefaultPathSeparator,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Evaluate implements Resolver
func (c *ContainerResolver) Evaluate(ctx context.Context, expr string, args *Args) (any, error) {
	if expr == "" {
		return nil, NewEvaluationError(ErrMsgEmptyExpression, expr, nil)
	}

	head, rest, nested := strings.Cut(expr, c.separator)
	v, err := c.lookup.Lookup(ctx, head, args)
	if err != nil {
		if c.exception == nil {
			return nil, err
		}
		fallback, fallbackErr := c.exception.Evaluate(ctx, head, args)
		if fallbackErr != nil {
			return nil, err
		}
		v = fallback
	}

	v = Unwrap(v)
	if !nested {
		return v, nil
	}
	return c.scopeOf(v).Evaluate(ctx, rest, args)
}

// scopeOf wraps v like ScopeOf but keeps this resolver's separator and
// exception resolver for the remaining path.
func (c *ContainerResolver) scopeOf(v any) Resolver {
	if KindOf(v) == ScopeEvaluator {
		return v.(Resolver)
	}
	return &ContainerResolver{
		lookup:    valueLookup(v),
		separator: c.separator,
		exception: c.exception,
	}
}
