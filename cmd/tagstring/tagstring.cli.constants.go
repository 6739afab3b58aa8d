package main

// Command names
const (
	CmdNameRender     = "render"
	CmdNameEscape     = "escape"
	CmdNameFormatters = "formatters"
	CmdNameVersion    = "version"
	CmdNameHelp       = "help"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagData     = "data"
	FlagDataFile = "data-file"
	FlagConfig   = "config"
	FlagOutput   = "output"
	FlagArg      = "arg"
	FlagStrict   = "strict"
	FlagVerbose  = "verbose"
	FlagFormat   = "format"
	FlagStart    = "start"
	FlagEnd      = "end"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagConfigShort   = "c"
	FlagOutputShort   = "o"
	FlagArgShort      = "a"
	FlagVerboseShort  = "v"
	FlagFormatShort   = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUsage             = "invalid usage"
	ErrMsgMissingTemplate   = "template source required"
	ErrMsgInvalidData       = "invalid JSON or YAML data"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgConfigFailed      = "invalid configuration"
	ErrMsgOpenScopesFailed  = "failed to open scopes"
	ErrMsgEvaluateFailed    = "template evaluation failed"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgJSONMarshalFailed = "failed to marshal JSON"
)

// CLI metadata
const (
	CLIName        = "tagstring"
	CLIDescription = "Tagged-string template expansion CLI"
	CLILong        = `tagstring expands ${...} tags in text against JSON/YAML data,
configured scope stores and named arguments.

Examples:
    tagstring render -t template.txt -d '{"user": "Ada"}'
    tagstring render -t template.txt -f data.yaml -a admin=true
    cat template.txt | tagstring render -t - -c tagstring.yaml --strict
    tagstring escape -t raw.txt -o escaped.txt`
)

// Short descriptions
const (
	ShortRender     = "Render a template against data"
	ShortEscape     = "Escape start markers so text renders literally"
	ShortFormatters = "List the built-in formatters"
	ShortVersion    = "Show version information"
)

// Flag usage texts
const (
	UsageTemplate = `template file (use "-" for stdin)`
	UsageData     = "inline JSON or YAML data"
	UsageDataFile = "JSON or YAML data file"
	UsageConfig   = "YAML configuration file"
	UsageOutput   = `output file (default: stdout)`
	UsageArg      = "named argument name=value (repeatable)"
	UsageStrict   = "fail on the first unresolved tag"
	UsageVerbose  = "log evaluation details to stderr"
	UsageFormat   = "output format: text, json"
	UsageStart    = "start marker (default from config or ${)"
	UsageEnd      = "end marker (default from config or })"
)

// Version output format templates
const (
	VersionTextTemplate = "go-tagstring version %s\nCommit: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithCause = "%s: %v\n"
	FmtError          = "%s\n"
	FmtNewline        = "\n"
)
