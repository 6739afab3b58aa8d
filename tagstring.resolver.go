package tagstring

import (
	"context"
)

// Resolver maps an expression to a value for one evaluation call.
// Implementations return an evaluation error (see IsEvaluationError) when
// the expression cannot be resolved.
type Resolver interface {
	Evaluate(ctx context.Context, expr string, args *Args) (any, error)
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(ctx context.Context, expr string, args *Args) (any, error)

// Evaluate implements Resolver
func (f ResolverFunc) Evaluate(ctx context.Context, expr string, args *Args) (any, error) {
	return f(ctx, expr, args)
}

// DepthResolver is a Resolver that honors an explicit recursion budget.
// The evaluator passes its remaining budget to resolvers implementing it.
type DepthResolver interface {
	Resolver
	EvaluateDepth(ctx context.Context, expr string, args *Args, depth int) (any, error)
}

// RecursiveEvaluator expands a whole template with a recursion budget.
// *Evaluator implements it; the * and + instructions use it to re-expand
// string values.
type RecursiveEvaluator interface {
	EvaluateDepth(ctx context.Context, template string, args *Args, depth int) (any, error)
}

// Holder is a box around a single value. Held values are unwrapped before
// they are returned or navigated.
type Holder interface {
	HeldValue() any
}

// Unwrap returns the innermost value of nested Holders
func Unwrap(v any) any {
	for {
		h, ok := v.(Holder)
		if !ok {
			return v
		}
		v = h.HeldValue()
	}
}

// evaluateWithDepth calls EvaluateDepth when r supports it
func evaluateWithDepth(ctx context.Context, r Resolver, expr string, args *Args, depth int) (any, error) {
	if dr, ok := r.(DepthResolver); ok {
		return dr.EvaluateDepth(ctx, expr, args, depth)
	}
	return r.Evaluate(ctx, expr, args)
}

// ChainResolver consults scopes in order, most significant first.
// The first scope that resolves the expression wins.
type ChainResolver struct {
	scopes []Resolver
}

// NewChainResolver creates a chain over the given scopes; nil scopes are skipped
func NewChainResolver(scopes ...Resolver) *ChainResolver {
	c := &ChainResolver{scopes: make([]Resolver, 0, len(scopes))}
	for _, s := range scopes {
		if s != nil {
			c.scopes = append(c.scopes, s)
		}
	}
	return c
}

// Scopes returns the number of scopes in the chain
func (c *ChainResolver) Scopes() int {
	return len(c.scopes)
}

// Evaluate implements Resolver
func (c *ChainResolver) Evaluate(ctx context.Context, expr string, args *Args) (any, error) {
	if len(c.scopes) == 0 {
		return nil, NewEvaluationError(ErrMsgNoScopes, expr, nil)
	}

	var lastErr error
	for _, scope := range c.scopes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := scope.Evaluate(ctx, expr, args)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return nil, NewUnresolvedError(expr, lastErr)
}

// MapResolver resolves dotted paths against a map root scope
func MapResolver(m map[string]any, opts ...ContainerOption) *ContainerResolver {
	return NewContainerResolver(mapLookup(m), opts...)
}

// ValueResolver uses any value as the root scope (struct, map, slice, *Args...)
func ValueResolver(v any, opts ...ContainerOption) *ContainerResolver {
	return NewContainerResolver(valueLookup(v), opts...)
}

// ArgsResolver resolves expressions against the call's argument bag:
// "${0}" is the first positional argument, "${name}" a named one.
func ArgsResolver(opts ...ContainerOption) *ContainerResolver {
	return NewContainerResolver(LookupFunc(func(_ context.Context, name string, args *Args) (any, error) {
		return argsLookup(args, name)
	}), opts...)
}
