package internal

// String constants for marker matching
const (
	StrStartMarker = "${"
	StrEndMarker   = "}"
)

// Character constants
const (
	CharBackslash   = '\\'
	CharDoubleQuote = '"'
	CharComma       = ','
	CharOpenParen   = '('
	CharCloseParen  = ')'
	CharNewline     = '\n'
)

// Reader pass levels. Tags found in the template itself are resolved at
// PassTemplate; tags found in a tag result are resolved at PassRescan and
// their own results are emitted verbatim.
const (
	PassTemplate = 0
	PassRescan   = 1
)

// Log message constants
const (
	LogMsgReaderCreated      = "tag reader created"
	LogMsgReaderDone         = "tag reader exhausted"
	LogMsgTagResolved        = "tag resolved"
	LogMsgTagRescan          = "tag result queued for rescan"
	LogMsgRegistryCreated    = "formatter registry created"
	LogMsgFormatterAdded     = "formatter registered"
	LogMsgFormatterCollision = "formatter registration collision - first-come-wins"
)

// Log field names
const (
	LogFieldSource    = "source_length"
	LogFieldBody      = "body"
	LogFieldPass      = "pass"
	LogFieldLine      = "line"
	LogFieldColumn    = "column"
	LogFieldFormatter = "formatter"
	LogFieldObjects   = "resolved_objects"
)

// String value constants for type conversions
const (
	StringValueNil   = "nil"
	StringValueTrue  = "true"
	StringValueFalse = "false"
	StringValueEmpty = ""
)

// Numeric constants for conversions
const (
	FloatFormatFlag   = 'f'
	FloatPrecisionAll = -1
	FloatBitSize64    = 64
	IntBase10         = 10
)
