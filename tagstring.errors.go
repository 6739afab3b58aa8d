package tagstring

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-tagstring/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Parse errors
	ErrMsgUnterminatedTag = internal.ErrMsgUnterminatedTag
	ErrMsgReadFailed      = "template read failed"

	// Evaluation errors
	ErrMsgUnresolved          = "expression could not be resolved"
	ErrMsgNoScopes            = "no scopes configured"
	ErrMsgKeyNotFound         = "key not found"
	ErrMsgIndexOutOfRange     = "index out of range"
	ErrMsgInvalidIndex        = "invalid index"
	ErrMsgUnsupportedMapKey   = "map key type not supported"
	ErrMsgPropertyNotFound    = "property not found"
	ErrMsgNilScope            = "cannot navigate into nil value"
	ErrMsgGetterFailed        = "getter method failed"
	ErrMsgEmptyExpression     = "expression cannot be empty"
	ErrMsgFormatterNotFound   = "formatter not registered"
	ErrMsgFormatterFailed     = "formatter failed"
	ErrMsgRecursionExhausted  = "recursion depth budget exhausted"
	ErrMsgTagEvaluationFailed = "tag evaluation failed"
	ErrMsgStoreLookupFailed   = "store lookup failed"

	// Configuration errors
	ErrMsgNilResolver       = "resolver cannot be nil"
	ErrMsgEmptyMarker       = "start and end markers cannot be empty"
	ErrMsgSameMarkers       = "start and end markers must differ"
	ErrMsgInvalidStrategy   = "invalid error strategy"
	ErrMsgNegativeDepth     = "recursion depth cannot be negative"
	ErrMsgConfigReadFailed  = "failed to read configuration"
	ErrMsgConfigParseFailed = "failed to parse configuration"
	ErrMsgEmptySeparator    = "separator cannot be empty"
)

// Error code constants for categorization
const (
	ErrCodeParse  = "TAGSTRING_PARSE"
	ErrCodeEval   = "TAGSTRING_EVAL"
	ErrCodeConfig = "TAGSTRING_CONFIG"
	ErrCodeStore  = "TAGSTRING_STORE"
)

// lookupMessageFormat appends the lookup reason to the not-found message
const lookupMessageFormat = "%s (%s)"

// Position represents a location in the source template
type Position = internal.Position

// NewParseError creates a parse error with position context
func NewParseError(msg string, pos Position, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeParse, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeParse, msg)
	}
	return withPosition(err.WithMetadata(MetaKeyKind, ErrorKindParse), pos)
}

// NewUnterminatedTagError creates an error for a tag left open at the end of the template
func NewUnterminatedTagError(pos Position) error {
	return NewParseError(ErrMsgUnterminatedTag, pos, nil)
}

// NewEvaluationError creates an evaluation error for an expression
func NewEvaluationError(msg, expr string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeEval, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeEval, msg)
	}
	return err.
		WithMetadata(MetaKeyKind, ErrorKindEvaluation).
		WithMetadata(MetaKeyExpression, expr)
}

// NewUnresolvedError creates an error for an expression no scope could resolve
func NewUnresolvedError(expr string, cause error) error {
	return NewEvaluationError(ErrMsgUnresolved, expr, cause)
}

// NewLookupError creates an error for a single failed path segment.
// msg is the reason the segment could not be resolved.
func NewLookupError(msg, segment string, kind ScopeKind) error {
	err := cuserr.NewNotFoundError(MetaKeySegment, segment,
		cuserr.WithMetadata(MetaKeyKind, ErrorKindEvaluation),
		cuserr.WithMetadata(MetaKeySegment, segment),
		cuserr.WithMetadata(MetaKeyReason, msg),
		cuserr.WithMetadata(MetaKeyScopeKind, kind.String()))
	err.Message = fmt.Sprintf(lookupMessageFormat, err.Message, msg)
	return err
}

// NewStoreLookupError wraps a store backend failure for key
func NewStoreLookupError(key string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeStore, ErrMsgStoreLookupFailed).
		WithMetadata(MetaKeyKind, ErrorKindEvaluation).
		WithMetadata(MetaKeyExpression, key)
}

// NewFormatterNotFoundError creates an error for an unregistered formatter id
func NewFormatterNotFoundError(name, expr string) error {
	return cuserr.NewNotFoundError(MetaKeyFormatter, ErrMsgFormatterNotFound).
		WithMetadata(MetaKeyKind, ErrorKindEvaluation).
		WithMetadata(MetaKeyFormatter, name).
		WithMetadata(MetaKeyExpression, expr)
}

// NewFormatterFailedError wraps a formatter failure
func NewFormatterFailedError(name, expr string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeEval, ErrMsgFormatterFailed).
		WithMetadata(MetaKeyKind, ErrorKindEvaluation).
		WithMetadata(MetaKeyFormatter, name).
		WithMetadata(MetaKeyExpression, expr)
}

// NewRecursionExhaustedError creates an error for a + instruction without budget left
func NewRecursionExhaustedError(expr string, maxDepth int) error {
	return cuserr.NewValidationError(ErrCodeEval, ErrMsgRecursionExhausted).
		WithMetadata(MetaKeyKind, ErrorKindEvaluation).
		WithMetadata(MetaKeyExpression, expr).
		WithMetadata(MetaKeyMaxDepth, strconv.Itoa(maxDepth))
}

// NewTagError attaches the tag position to a failed tag evaluation
func NewTagError(body string, pos Position, cause error) error {
	err := cuserr.WrapStdError(cause, ErrCodeEval, ErrMsgTagEvaluationFailed).
		WithMetadata(MetaKeyKind, ErrorKindEvaluation).
		WithMetadata(MetaKeyExpression, body)
	return withPosition(err, pos)
}

// NewConfigError creates a configuration error
func NewConfigError(msg string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeConfig, msg)
	}
	return err.WithMetadata(MetaKeyKind, ErrorKindConfig)
}

func withPosition(err *cuserr.CustomError, pos Position) *cuserr.CustomError {
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// errorKind returns the kind recorded on the outermost custom error in the chain
func errorKind(err error) string {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return ""
	}
	kind, ok := customErr.GetMetadata(MetaKeyKind)
	if !ok {
		return ""
	}
	return fmt.Sprint(kind)
}

// IsEvaluationError reports whether err is an expression evaluation failure
func IsEvaluationError(err error) bool {
	return errorKind(err) == ErrorKindEvaluation
}

// IsParseError reports whether err is a malformed template error
func IsParseError(err error) bool {
	return errorKind(err) == ErrorKindParse
}

// IsConfigError reports whether err is a configuration error
func IsConfigError(err error) bool {
	return errorKind(err) == ErrorKindConfig
}
