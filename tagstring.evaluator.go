package tagstring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/itsatony/go-tagstring/internal"
)

// Evaluator expands tagged-string templates against a resolver.
// It is safe for concurrent use when its resolver is.
type Evaluator struct {
	resolver Resolver
	config   *evaluatorConfig
	logger   *zap.Logger
}

// New creates an Evaluator that hands every tag body to resolver.
// Wrap resolver in a ProcessingDecorator to enable processing instructions,
// or use NewChain.
func New(resolver Resolver, opts ...Option) (*Evaluator, error) {
	if resolver == nil {
		return nil, NewConfigError(ErrMsgNilResolver, nil)
	}

	config := defaultEvaluatorConfig()
	for _, opt := range opts {
		opt(config)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgEvaluatorCreated,
		zap.String(LogFieldStrategy, config.errorStrategy.String()),
		zap.Int(LogFieldDepth, config.maxDepth))

	return &Evaluator{
		resolver: resolver,
		config:   config,
		logger:   logger,
	}, nil
}

// MustNew creates a new Evaluator and panics if there's an error.
func MustNew(resolver Resolver, opts ...Option) *Evaluator {
	ev, err := New(resolver, opts...)
	if err != nil {
		panic(err)
	}
	return ev
}

// NewChain creates an Evaluator over scopes, most significant first, behind
// a single ProcessingDecorator with the built-in formatters. The decorator
// re-expands * and + values with the returned Evaluator, so recursive
// expansion sees the whole scope chain.
func NewChain(scopes []Resolver, opts ...Option) (*Evaluator, error) {
	config := defaultEvaluatorConfig()
	for _, opt := range opts {
		opt(config)
	}

	decoratorOpts := []DecoratorOption{
		WithFormatters(NewBuiltinFormatters(config.logger)),
		WithDepthBudget(config.maxDepth),
		WithDecoratorLogger(config.logger),
	}
	decoratorOpts = append(decoratorOpts, config.decoratorOpts...)

	decorator, err := NewProcessingDecorator(NewChainResolver(scopes...), decoratorOpts...)
	if err != nil {
		return nil, err
	}

	ev, err := New(decorator, opts...)
	if err != nil {
		return nil, err
	}
	decorator.SetRecursionEvaluator(ev)
	return ev, nil
}

// Resolver returns the resolver tags are handed to
func (e *Evaluator) Resolver() Resolver {
	return e.resolver
}

// MaxRecursionDepth returns the recursion budget used by Evaluate
func (e *Evaluator) MaxRecursionDepth() int {
	return e.config.maxDepth
}

// Evaluate expands template. A template without a start marker is returned
// unchanged. Unless WithForceToString is set, a template made of exactly one
// tag that resolves to a non-string value returns that value.
func (e *Evaluator) Evaluate(ctx context.Context, template string, args *Args) (any, error) {
	return e.EvaluateDepth(ctx, template, args, e.config.maxDepth)
}

// EvaluateString expands template and stringifies the result
func (e *Evaluator) EvaluateString(ctx context.Context, template string, args *Args) (string, error) {
	v, err := e.Evaluate(ctx, template, args)
	if err != nil {
		return "", err
	}
	return internal.AnyToString(v), nil
}

// EvaluateDepth implements RecursiveEvaluator. depth is the number of * and
// + passes the whole call may run, nested passes included. A call made from
// inside a pass shares the budget of the outer call.
func (e *Evaluator) EvaluateDepth(ctx context.Context, template string, args *Args, depth int) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = withPassBudget(ctx, depth)
	if !strings.Contains(template, e.config.startMarker) {
		e.logger.Debug(LogMsgFastPath, zap.Int(LogFieldTemplate, len(template)))
		return template, nil
	}

	e.logger.Debug(LogMsgEvaluateStart,
		zap.Int(LogFieldTemplate, len(template)),
		zap.Int(LogFieldDepth, depth))

	handler := &tagHandler{evaluator: e, ctx: ctx, args: args, depth: depth}
	reader := internal.NewTagReaderWithConfig(template, e.readerConfig(ctx), handler, args, e.logger)

	out, err := reader.ReadAll()
	if err != nil {
		var readerErr *internal.ReaderError
		if errors.As(err, &readerErr) {
			if readerErr.Message == ErrMsgUnterminatedTag {
				return nil, NewUnterminatedTagError(readerErr.Position)
			}
			return nil, NewParseError(readerErr.Message, readerErr.Position, nil)
		}
		return nil, err
	}

	if out == "" && reader.ResolvedObjectCount() == 1 {
		result := reader.ResolvedObject()
		e.logger.Debug(LogMsgEvaluateDone, zap.String(LogFieldResultType, fmt.Sprintf("%T", result)))
		return result, nil
	}
	e.logger.Debug(LogMsgEvaluateDone, zap.Int(LogFieldTemplate, len(out)))
	return out, nil
}

// Escape escapes every start marker in s with the configured markers
func (e *Evaluator) Escape(s string) string {
	return EscapeWith(s, e.config.startMarker, e.config.endMarker)
}

func (e *Evaluator) readerConfig(ctx context.Context) internal.ReaderConfig {
	return internal.ReaderConfig{
		StartMarker:   e.config.startMarker,
		EndMarker:     e.config.endMarker,
		ForceToString: e.config.forceToString,
		RescanResults: e.config.rescan && !inPass(ctx),
	}
}

// handleTagError renders a failed tag according to the error strategy
func (e *Evaluator) handleTagError(body string, pos Position, err error) (any, error) {
	switch e.config.errorStrategy {
	case ErrorStrategyThrow:
		return nil, NewTagError(body, pos, err)
	case ErrorStrategyRemove:
		return nil, nil
	case ErrorStrategyKeepRaw:
		return e.config.startMarker + body + e.config.endMarker, nil
	case ErrorStrategyLog:
		e.logger.Warn(LogMsgTagFailed,
			zap.String(LogFieldExpression, body),
			zap.Int(LogFieldLine, pos.Line),
			zap.Int(LogFieldColumn, pos.Column),
			zap.Error(err))
		return nil, nil
	default:
		return fmt.Sprintf(ErrorMarkerFormat, body, err.Error()), nil
	}
}

// tagHandler forwards tag bodies from the reader to the evaluator's resolver
type tagHandler struct {
	evaluator *Evaluator
	ctx       context.Context
	args      *Args
	depth     int
	location  internal.LocationProvider
}

// StartTag implements internal.TagHandler
func (h *tagHandler) StartTag() {}

// SetLocationProvider implements internal.LocationAware
func (h *tagHandler) SetLocationProvider(p internal.LocationProvider) {
	h.location = p
}

// EndTag implements internal.TagHandler
func (h *tagHandler) EndTag(body string, _ any) (any, error) {
	if err := h.ctx.Err(); err != nil {
		return nil, err
	}

	ctx, st := withTagState(h.ctx)
	v, err := evaluateWithDepth(ctx, h.evaluator.resolver, body, h.args, h.depth)
	if err == nil {
		if s, ok := v.(string); ok && st.expanded {
			return internal.Expanded(s), nil
		}
		return v, nil
	}
	if ctxErr := h.ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return h.evaluator.handleTagError(body, h.position(), err)
}

func (h *tagHandler) position() Position {
	if h.location == nil {
		return Position{}
	}
	return h.location.Position()
}

// Escape escapes every default start marker in s so that evaluating the
// result yields s verbatim: Escape("${test}") == "${${}test}".
func Escape(s string) string {
	return EscapeWith(s, DefaultStartMarker, DefaultEndMarker)
}

// EscapeWith escapes every start marker in s for the given markers
func EscapeWith(s, start, end string) string {
	if start == "" {
		return s
	}
	return strings.ReplaceAll(s, start, start+start+end)
}
