package internal

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// ReaderConfig holds tag reader configuration
type ReaderConfig struct {
	StartMarker   string // Opening marker (default: "${")
	EndMarker     string // Closing marker (default: "}")
	ForceToString bool   // Stringify every tag result (default: true)
	RescanResults bool   // Scan tag results once more for tags (default: true)
}

// DefaultReaderConfig returns the default reader configuration
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		StartMarker:   StrStartMarker,
		EndMarker:     StrEndMarker,
		ForceToString: true,
		RescanResults: true,
	}
}

// escape returns the escaped start marker sequence (e.g. "${${}" for "${")
func (c ReaderConfig) escape() string {
	return c.StartMarker + c.StartMarker + c.EndMarker
}

// escapedEnd returns the in-body escaped end marker (e.g. "\}" for "}")
func (c ReaderConfig) escapedEnd() string {
	return string(CharBackslash) + c.EndMarker
}

// TagHandler resolves tag bodies found by a TagReader.
type TagHandler interface {
	// StartTag is called when a start marker opens a tag.
	StartTag()
	// EndTag resolves a finished tag body. context is the opaque value
	// given to NewTagReader.
	EndTag(body string, context any) (any, error)
}

// TagHandlerFunc adapts a function to TagHandler. StartTag is a no-op.
type TagHandlerFunc func(body string, context any) (any, error)

// StartTag implements TagHandler
func (f TagHandlerFunc) StartTag() {}

// EndTag implements TagHandler
func (f TagHandlerFunc) EndTag(body string, context any) (any, error) {
	return f(body, context)
}

// Expanded is a tag result that is already fully expanded. It is spliced
// into the output as is and never rescanned.
type Expanded string

// LocationProvider reports the current position in the template.
type LocationProvider interface {
	Position() Position
}

// LocationAware handlers receive the reader as a LocationProvider.
type LocationAware interface {
	SetLocationProvider(p LocationProvider)
}

// frame is one source being scanned: the template itself, or a tag
// result queued for rescan.
type frame struct {
	src  string
	pos  int
	pass int
}

func (f *frame) atEnd() bool {
	return f.pos >= len(f.src)
}

func (f *frame) match(s string) bool {
	return strings.HasPrefix(f.src[f.pos:], s)
}

// TagReader is a pull-style reader over an expanded template.
// Literal text passes through unchanged; every tag region is handed to a
// TagHandler and its result is spliced into the output.
// A TagReader reads exactly one template and cannot be reset.
type TagReader struct {
	config  ReaderConfig
	handler TagHandler
	context any
	logger  *zap.Logger

	base   *frame
	frames []*frame
	out    bytes.Buffer
	err    error
	done   bool

	emitted       bool
	pending       any
	hasPending    bool
	resolved      any
	resolvedCount int
}

// NewTagReader creates a reader with default configuration
func NewTagReader(source string, handler TagHandler, context any, logger *zap.Logger) *TagReader {
	return NewTagReaderWithConfig(source, DefaultReaderConfig(), handler, context, logger)
}

// NewTagReaderWithConfig creates a reader with custom configuration
func NewTagReaderWithConfig(source string, config ReaderConfig, handler TagHandler, context any, logger *zap.Logger) *TagReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.StartMarker == "" {
		config.StartMarker = StrStartMarker
	}
	if config.EndMarker == "" {
		config.EndMarker = StrEndMarker
	}
	logger.Debug(LogMsgReaderCreated, zap.Int(LogFieldSource, len(source)))

	base := &frame{src: source, pass: PassTemplate}
	r := &TagReader{
		config:  config,
		handler: handler,
		context: context,
		logger:  logger,
		base:    base,
		frames:  []*frame{base},
	}
	if aware, ok := handler.(LocationAware); ok {
		aware.SetLocationProvider(r)
	}
	return r
}

// Read implements io.Reader
func (r *TagReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for r.out.Len() == 0 {
		if r.err != nil {
			return 0, r.err
		}
		if r.done {
			return 0, io.EOF
		}
		r.step()
	}
	return r.out.Read(p)
}

// ReadAll drains the reader and returns the produced text.
func (r *TagReader) ReadAll() (string, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return sb.String(), err
	}
	return sb.String(), nil
}

// Position returns the current position in the template.
// While a tag result is being rescanned this is the position just after
// the tag that produced it.
func (r *TagReader) Position() Position {
	return calculatePosition(r.base.src[:r.base.pos])
}

// HasResolvedObject reports whether a tag produced a non-string object.
// Only meaningful when ForceToString is false.
func (r *TagReader) HasResolvedObject() bool {
	return r.resolvedCount > 0
}

// ResolvedObject returns the last non-string object a tag produced.
func (r *TagReader) ResolvedObject() any {
	return r.resolved
}

// ResolvedObjectCount returns how many tags produced non-string objects.
func (r *TagReader) ResolvedObjectCount() int {
	return r.resolvedCount
}

// step advances the scanner by one literal run, escape, or tag.
func (r *TagReader) step() {
	if len(r.frames) == 0 {
		r.done = true
		r.logger.Debug(LogMsgReaderDone, zap.Int(LogFieldObjects, r.resolvedCount))
		return
	}
	f := r.frames[len(r.frames)-1]
	if f.atEnd() {
		r.frames = r.frames[:len(r.frames)-1]
		return
	}

	start := r.config.StartMarker
	switch {
	case f.match(r.config.escape()):
		f.pos += len(r.config.escape())
		r.emit(start)
	case f.match(start):
		r.readTag(f)
	default:
		end := len(f.src)
		if idx := strings.Index(f.src[f.pos:], start); idx >= 0 {
			end = f.pos + idx
		}
		r.emit(f.src[f.pos:end])
		f.pos = end
	}
}

// readTag consumes one tag region starting at the current start marker
func (r *TagReader) readTag(f *frame) {
	tagStart := f.pos
	f.pos += len(r.config.StartMarker)

	body, terminated, err := r.scanBody(f)
	if err != nil {
		r.err = err
		return
	}
	if !terminated {
		if f.pass == PassTemplate {
			r.err = &ReaderError{
				Message:  ErrMsgUnterminatedTag,
				Position: calculatePosition(f.src[:tagStart]),
			}
			return
		}
		// a partial marker inside a tag result is plain text
		r.emit(f.src[tagStart:])
		return
	}

	value, err := r.resolve(body)
	if err != nil {
		r.err = err
		return
	}
	r.deliver(value, f.pass)
}

// scanBody accumulates a tag body up to its end marker, resolving nested
// tags inner-first. Returns false if the source ends first.
func (r *TagReader) scanBody(f *frame) (string, bool, error) {
	r.handler.StartTag()

	var sb strings.Builder
	for !f.atEnd() {
		switch {
		case f.match(r.config.escape()):
			sb.WriteString(r.config.StartMarker)
			f.pos += len(r.config.escape())
		case f.match(r.config.escapedEnd()):
			sb.WriteString(r.config.EndMarker)
			f.pos += len(r.config.escapedEnd())
		case f.match(r.config.EndMarker):
			f.pos += len(r.config.EndMarker)
			return sb.String(), true, nil
		case f.match(r.config.StartMarker):
			f.pos += len(r.config.StartMarker)
			inner, terminated, err := r.scanBody(f)
			if err != nil || !terminated {
				return "", terminated, err
			}
			value, err := r.resolve(inner)
			if err != nil {
				return "", false, err
			}
			sb.WriteString(AnyToString(value))
		default:
			sb.WriteByte(f.src[f.pos])
			f.pos++
		}
	}
	return sb.String(), false, nil
}

func (r *TagReader) resolve(body string) (any, error) {
	value, err := r.handler.EndTag(body, r.context)
	if err != nil {
		return nil, err
	}
	r.logger.Debug(LogMsgTagResolved, zap.String(LogFieldBody, body))
	return value, nil
}

// deliver splices a tag result into the output
func (r *TagReader) deliver(value any, pass int) {
	if value == nil {
		return
	}
	if s, ok := value.(Expanded); ok {
		r.emit(string(s))
		return
	}
	if _, isString := value.(string); !isString && !r.config.ForceToString {
		r.resolved = value
		r.resolvedCount++
		if r.emitted || r.hasPending {
			r.emit(AnyToString(value))
			return
		}
		// held back until something else is emitted
		r.pending = value
		r.hasPending = true
		return
	}

	s := AnyToString(value)
	if s == "" {
		return
	}
	if r.config.RescanResults && pass == PassTemplate && strings.Contains(s, r.config.StartMarker) {
		r.logger.Debug(LogMsgTagRescan, zap.Int(LogFieldPass, pass+1))
		r.frames = append(r.frames, &frame{src: s, pass: pass + 1})
		return
	}
	r.emit(s)
}

// emit appends text to the output, flushing a held-back object first
func (r *TagReader) emit(s string) {
	if s == "" {
		return
	}
	if r.hasPending {
		r.hasPending = false
		r.out.WriteString(AnyToString(r.pending))
	}
	r.out.WriteString(s)
	r.emitted = true
}

// calculatePosition calculates the Position (line, column, offset) for a given prefix string.
func calculatePosition(prefix string) Position {
	pos := Position{
		Offset: len(prefix),
		Line:   1,
		Column: 1,
	}

	for i := 0; i < len(prefix); i++ {
		if prefix[i] == CharNewline {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}

	return pos
}

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// ReaderError represents a reader error with position
type ReaderError struct {
	Message  string
	Position Position
}

func (e *ReaderError) Error() string {
	return e.Message + " at " + e.Position.String()
}

// Error message constants for the reader
const (
	ErrMsgUnterminatedTag = "unterminated tag"
)
