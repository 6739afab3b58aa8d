package tagstring

import (
	"context"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/itsatony/go-tagstring/internal"
)

// DecoratorOption configures a ProcessingDecorator
type DecoratorOption func(*ProcessingDecorator)

// WithSeparator sets the instruction separator. An empty separator is a
// configuration error.
// Default: ":"
func WithSeparator(sep string) DecoratorOption {
	return func(d *ProcessingDecorator) {
		d.separator = sep
	}
}

// WithFormatters sets the registry used by "#id(params)" instructions.
// A nil registry turns every formatter instruction into a passthrough.
func WithFormatters(r *FormatterRegistry) DecoratorOption {
	return func(d *ProcessingDecorator) {
		d.formatters = r
	}
}

// WithRecursion sets the evaluator used by the * and + instructions
func WithRecursion(ev RecursiveEvaluator) DecoratorOption {
	return func(d *ProcessingDecorator) {
		d.recursion = ev
	}
}

// WithDepthBudget sets the recursion budget used by Evaluate.
// Default: DefaultMaxRecursionDepth
func WithDepthBudget(depth int) DecoratorOption {
	return func(d *ProcessingDecorator) {
		if depth >= 0 {
			d.maxDepth = depth
		}
	}
}

// WithDecoratorLogger sets the logger for the decorator.
// Default: nil (no logging)
func WithDecoratorLogger(logger *zap.Logger) DecoratorOption {
	return func(d *ProcessingDecorator) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// ProcessingDecorator resolves the value expression of a tag body through
// a wrapped resolver and threads the result through the processing
// instructions that follow it:
//
//	value-expr ( ':' instruction )*
//
// Instructions are applied left to right and dispatched by their first
// character: '?' conditional, '.' drill-down, '#' formatter, '*' and '+'
// recursive expansion. Anything else is a text format key: u upper, l lower,
// t trim, c capitalize, h HTML escape, q quote, j JSON, n nil to empty.
// Unknown keys and the empty instruction stringify the value.
type ProcessingDecorator struct {
	inner      Resolver
	separator  string
	formatters *FormatterRegistry
	recursion  RecursiveEvaluator
	maxDepth   int
	logger     *zap.Logger
}

// NewProcessingDecorator wraps inner with the instruction pipeline
func NewProcessingDecorator(inner Resolver, opts ...DecoratorOption) (*ProcessingDecorator, error) {
	if inner == nil {
		return nil, NewConfigError(ErrMsgNilResolver, nil)
	}

	d := &ProcessingDecorator{
		inner:     inner,
		separator: DefaultInstructionSeparator,
		maxDepth:  DefaultMaxRecursionDepth,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.separator == "" {
		return nil, NewConfigError(ErrMsgEmptySeparator, nil)
	}

	d.logger.Debug(LogMsgDecoratorCreated,
		zap.String(LogFieldSeparator, d.separator),
		zap.Int(LogFieldDepth, d.maxDepth))
	return d, nil
}

// SetRecursionEvaluator sets the evaluator used by the * and + instructions.
// It exists so an Evaluator built on top of this decorator can be wired back
// into it; call it before the decorator is used concurrently.
func (d *ProcessingDecorator) SetRecursionEvaluator(ev RecursiveEvaluator) {
	d.recursion = ev
}

// Formatters returns the formatter registry, or nil
func (d *ProcessingDecorator) Formatters() *FormatterRegistry {
	return d.formatters
}

// Evaluate implements Resolver with the configured recursion budget
func (d *ProcessingDecorator) Evaluate(ctx context.Context, expr string, args *Args) (any, error) {
	return d.EvaluateDepth(ctx, expr, args, d.maxDepth)
}

// EvaluateDepth implements DepthResolver. depth seeds the pass budget when
// ctx does not carry one yet.
func (d *ProcessingDecorator) EvaluateDepth(ctx context.Context, expr string, args *Args, depth int) (any, error) {
	ctx = withPassBudget(ctx, depth)
	pe := internal.ParseProcessingExpression(expr, d.separator)

	var value any
	if pe.Literal {
		value = pe.Value
	} else {
		v, err := evaluateWithDepth(ctx, d.inner, pe.Value, args, depth)
		if err != nil {
			return nil, err
		}
		value = Unwrap(v)
	}

	for _, instruction := range pe.Instructions {
		next, err := d.apply(ctx, expr, instruction, value, args)
		if err != nil {
			return nil, err
		}
		value = next
	}
	return value, nil
}

// apply runs a single instruction against value
func (d *ProcessingDecorator) apply(ctx context.Context, expr, instruction string, value any, args *Args) (any, error) {
	if instruction == "" {
		return internal.ApplyTextFormat(internal.TextFormatDefault, value), nil
	}

	rest := instruction[1:]
	switch instruction[0] {
	case InstructionConditional:
		return d.conditional(ctx, rest, value, args), nil
	case InstructionReflect:
		if value == nil || rest == "" {
			return value, nil
		}
		v, err := ScopeOf(value).Evaluate(ctx, rest, args)
		if err != nil {
			return nil, err
		}
		return Unwrap(v), nil
	case InstructionFormatter:
		return d.format(expr, rest, value)
	case InstructionRepeat:
		return d.repeat(ctx, value, args), nil
	case InstructionOnce:
		return d.once(ctx, expr, value, args)
	default:
		return internal.ApplyTextFormat(instruction, value), nil
	}
}

// conditional keeps value when the named argument is truthy ("?name") or
// falsy ("?!name"). Missing arguments are falsy.
func (d *ProcessingDecorator) conditional(ctx context.Context, name string, value any, args *Args) any {
	negate := strings.HasPrefix(name, string(InstructionNegate))
	if negate {
		name = name[1:]
	}

	var arg any
	if name != "" {
		if v, err := ScopeOf(args).Evaluate(ctx, name, args); err == nil {
			arg = Unwrap(v)
		}
	}

	if internal.IsTruthy(arg) != negate {
		return value
	}
	return nil
}

// format applies a registered formatter
func (d *ProcessingDecorator) format(expr, call string, value any) (any, error) {
	if d.formatters == nil {
		return value, nil
	}
	name, params := internal.ParseFormatterCall(call)
	if !d.formatters.Has(name) {
		return nil, NewFormatterNotFoundError(name, expr)
	}
	out, err := d.formatters.Call(name, value, params)
	if err != nil {
		return nil, NewFormatterFailedError(name, expr, err)
	}
	return out, nil
}

// repeat re-expands a string value until it stops changing. Every pass
// draws from the budget of the enclosing evaluation call. Running out of
// budget or failing stops the loop and yields the last value.
func (d *ProcessingDecorator) repeat(ctx context.Context, value any, args *Args) any {
	s, ok := value.(string)
	if !ok || d.recursion == nil {
		return value
	}

	budget := passBudgetFrom(ctx)
	markExpanded(ctx)
	passCtx := withinPass(ctx)
	for budget.take() {
		d.logger.Debug(LogMsgRecursionPass, zap.Int(LogFieldDepth, budget.left()))
		next, err := d.recursion.EvaluateDepth(passCtx, s, args, budget.left())
		if err != nil {
			d.logger.Debug(LogMsgRecursionStopped, zap.Int(LogFieldDepth, budget.left()), zap.Error(err))
			return s
		}
		ns, isString := next.(string)
		if !isString {
			return next
		}
		if ns == s {
			return s
		}
		s = ns
	}

	d.logger.Debug(LogMsgRecursionStopped, zap.Int(LogFieldDepth, 0))
	return s
}

// once re-expands a string value exactly one more time
func (d *ProcessingDecorator) once(ctx context.Context, expr string, value any, args *Args) (any, error) {
	budget := passBudgetFrom(ctx)
	if budget.left() <= 0 {
		return nil, NewRecursionExhaustedError(expr, d.maxDepth)
	}
	s, ok := value.(string)
	if !ok || d.recursion == nil {
		return value, nil
	}
	budget.take()
	markExpanded(ctx)
	d.logger.Debug(LogMsgRecursionPass, zap.Int(LogFieldDepth, budget.left()))
	return d.recursion.EvaluateDepth(withinPass(ctx), s, args, budget.left())
}

// passBudget counts the * and + passes left to one evaluation call,
// including the passes nested inside other passes.
type passBudget struct {
	remaining atomic.Int64
}

func (b *passBudget) take() bool {
	if b.remaining.Add(-1) < 0 {
		b.remaining.Store(0)
		return false
	}
	return true
}

func (b *passBudget) left() int {
	return int(b.remaining.Load())
}

type (
	passBudgetKey struct{}
	inPassKey     struct{}
	tagStateKey   struct{}
)

// withPassBudget attaches a budget of depth passes unless ctx has one
func withPassBudget(ctx context.Context, depth int) context.Context {
	if _, ok := ctx.Value(passBudgetKey{}).(*passBudget); ok {
		return ctx
	}
	b := &passBudget{}
	if depth > 0 {
		b.remaining.Store(int64(depth))
	}
	return context.WithValue(ctx, passBudgetKey{}, b)
}

func passBudgetFrom(ctx context.Context) *passBudget {
	if b, ok := ctx.Value(passBudgetKey{}).(*passBudget); ok {
		return b
	}
	return &passBudget{}
}

// withinPass marks ctx as a * or + pass. Tag results inside a pass are not
// rescanned, so each pass expands exactly one level.
func withinPass(ctx context.Context) context.Context {
	return context.WithValue(ctx, inPassKey{}, true)
}

func inPass(ctx context.Context) bool {
	v, _ := ctx.Value(inPassKey{}).(bool)
	return v
}

// tagState is per-tag bookkeeping shared between the evaluator and the
// decorator
type tagState struct {
	expanded bool
}

func withTagState(ctx context.Context) (context.Context, *tagState) {
	st := &tagState{}
	return context.WithValue(ctx, tagStateKey{}, st), st
}

// markExpanded records that the current tag's value went through * or +
func markExpanded(ctx context.Context) {
	if st, ok := ctx.Value(tagStateKey{}).(*tagState); ok {
		st.expanded = true
	}
}
