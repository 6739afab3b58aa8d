package tagstring

import "time"

// Marker and separator defaults
const (
	DefaultStartMarker          = "${"
	DefaultEndMarker            = "}"
	DefaultPathSeparator        = "."
	DefaultInstructionSeparator = ":"
)

// DefaultMaxRecursionDepth is the recursion budget for the * and + instructions
const DefaultMaxRecursionDepth = 10

// Processing instruction prefixes
const (
	InstructionConditional = '?'
	InstructionNegate      = '!'
	InstructionReflect     = '.'
	InstructionFormatter   = '#'
	InstructionRepeat      = '*'
	InstructionOnce        = '+'
)

// Pseudo properties understood by sequence and array scopes
const (
	PropertyLength = "length"
	PropertySize   = "size"
)

// Getter method prefixes tried by reflective lookup, in order
const (
	GetterPrefixGet = "Get"
	GetterPrefixIs  = "Is"
)

// ErrorStrategy defines how a failing tag is rendered
type ErrorStrategy int

const (
	// ErrorStrategyMarker replaces the tag with an inline "<error BODY: MESSAGE>" marker
	ErrorStrategyMarker ErrorStrategy = iota
	// ErrorStrategyThrow stops evaluation and returns the error
	ErrorStrategyThrow
	// ErrorStrategyRemove removes the tag from the output
	ErrorStrategyRemove
	// ErrorStrategyKeepRaw keeps the original tag text in the output
	ErrorStrategyKeepRaw
	// ErrorStrategyLog logs the error and continues with an empty string
	ErrorStrategyLog
)

// Error strategy names for configuration parsing
const (
	ErrorStrategyNameMarker  = "marker"
	ErrorStrategyNameThrow   = "throw"
	ErrorStrategyNameRemove  = "remove"
	ErrorStrategyNameKeepRaw = "keepraw"
	ErrorStrategyNameLog     = "log"
)

// String returns the configuration name of the strategy
func (s ErrorStrategy) String() string {
	switch s {
	case ErrorStrategyThrow:
		return ErrorStrategyNameThrow
	case ErrorStrategyRemove:
		return ErrorStrategyNameRemove
	case ErrorStrategyKeepRaw:
		return ErrorStrategyNameKeepRaw
	case ErrorStrategyLog:
		return ErrorStrategyNameLog
	default:
		return ErrorStrategyNameMarker
	}
}

// ParseErrorStrategy parses a strategy name.
// Returns ErrorStrategyMarker for unknown values.
func ParseErrorStrategy(s string) ErrorStrategy {
	switch s {
	case ErrorStrategyNameThrow:
		return ErrorStrategyThrow
	case ErrorStrategyNameRemove:
		return ErrorStrategyRemove
	case ErrorStrategyNameKeepRaw:
		return ErrorStrategyKeepRaw
	case ErrorStrategyNameLog:
		return ErrorStrategyLog
	default:
		return ErrorStrategyMarker
	}
}

// IsValidErrorStrategy checks if a string is a valid error strategy name.
func IsValidErrorStrategy(s string) bool {
	switch s {
	case ErrorStrategyNameMarker, ErrorStrategyNameThrow,
		ErrorStrategyNameRemove, ErrorStrategyNameKeepRaw, ErrorStrategyNameLog:
		return true
	default:
		return false
	}
}

// ErrorMarkerFormat renders a failed tag under ErrorStrategyMarker
const ErrorMarkerFormat = "<error %s: %s>"

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyKind       = "kind"
	MetaKeyExpression = "expression"
	MetaKeyLine       = "line"
	MetaKeyColumn     = "column"
	MetaKeyOffset     = "offset"
	MetaKeyFormatter  = "formatter"
	MetaKeyMaxDepth   = "max_depth"
	MetaKeySegment    = "segment"
	MetaKeyScopeKind  = "scope_kind"
	MetaKeyPath       = "path"
	MetaKeyDriverName = "driver"
	MetaKeyReason     = "reason"
)

// Error kinds stored under MetaKeyKind
const (
	ErrorKindParse      = "parse"
	ErrorKindEvaluation = "evaluation"
	ErrorKindConfig     = "config"
	ErrorKindStore      = "store"
)

// Log message constants
const (
	LogMsgEvaluatorCreated = "tagstring evaluator created"
	LogMsgEvaluateStart    = "evaluating template"
	LogMsgEvaluateDone     = "template evaluated"
	LogMsgFastPath         = "template has no tags, returned unchanged"
	LogMsgTagFailed        = "tag evaluation failed"
	LogMsgDecoratorCreated = "processing decorator created"
	LogMsgRecursionPass    = "recursive expansion pass"
	LogMsgRecursionStopped = "recursive expansion stopped"
	LogMsgStoreOpened      = "scope store opened"
	LogMsgStoreReloaded    = "scope store reloaded"
	LogMsgStoreReloadFail  = "scope store reload failed"
	LogMsgStoreWatchError  = "scope store watch error"
	LogMsgStoreWatchStart  = "watching scope store"
	LogMsgStoreWatchStop   = "stopped watching scope store"
)

// Log field names
const (
	LogFieldExpression = "expression"
	LogFieldTemplate   = "template_length"
	LogFieldDepth      = "depth"
	LogFieldStrategy   = "strategy"
	LogFieldLine       = "line"
	LogFieldColumn     = "column"
	LogFieldPath       = "path"
	LogFieldKeys       = "keys"
	LogFieldEvent      = "event"
	LogFieldResultType = "result_type"
	LogFieldSeparator  = "separator"
)

// Store driver names
const (
	StoreDriverNameMemory   = "memory"
	StoreDriverNameFile     = "file"
	StoreDriverNamePostgres = "postgres"
)

// File store constants
const (
	FileExtensionJSON = ".json"
	FileExtensionYAML = ".yaml"
	FileExtensionYML  = ".yml"
)

// PostgreSQL store defaults
const (
	PostgresTablePrefix            = "tagstring_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)
