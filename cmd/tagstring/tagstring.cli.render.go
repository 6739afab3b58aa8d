package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/itsatony/go-tagstring"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath string
	data         string
	dataFilePath string
	configPath   string
	outputPath   string
	args         map[string]string
	strict       bool
	verbose      bool
	start        string
	end          string
}

func newRenderCommand() *cobra.Command {
	cfg := &renderConfig{}

	cmd := &cobra.Command{
		Use:   CmdNameRender,
		Short: ShortRender,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.templatePath == "" {
				return newExitError(ExitCodeUsageError, ErrMsgMissingTemplate, nil)
			}
			return runRender(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", UsageTemplate)
	flags.StringVarP(&cfg.data, FlagData, FlagDataShort, "", UsageData)
	flags.StringVarP(&cfg.dataFilePath, FlagDataFile, FlagDataFileShort, "", UsageDataFile)
	flags.StringVarP(&cfg.configPath, FlagConfig, FlagConfigShort, "", UsageConfig)
	flags.StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, UsageOutput)
	flags.StringToStringVarP(&cfg.args, FlagArg, FlagArgShort, nil, UsageArg)
	flags.BoolVar(&cfg.strict, FlagStrict, false, UsageStrict)
	flags.BoolVarP(&cfg.verbose, FlagVerbose, FlagVerboseShort, false, UsageVerbose)
	flags.StringVar(&cfg.start, FlagStart, "", UsageStart)
	flags.StringVar(&cfg.end, FlagEnd, "", UsageEnd)
	cmd.MarkFlagsMutuallyExclusive(FlagData, FlagDataFile)

	return cmd
}

func runRender(cmd *cobra.Command, cfg *renderConfig) error {
	source, err := readInput(cfg.templatePath, cmd.InOrStdin())
	if err != nil {
		return newExitError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	data, err := loadData(cfg.data, cfg.dataFilePath)
	if err != nil {
		return newExitError(ExitCodeInputError, ErrMsgInvalidData, err)
	}

	logger := newLogger(cfg.verbose, cmd)
	defer func() { _ = logger.Sync() }()

	scopes := []tagstring.Resolver{tagstring.MapResolver(data)}
	opts := []tagstring.Option{tagstring.WithLogger(logger)}
	start, end := tagstring.DefaultStartMarker, tagstring.DefaultEndMarker

	if cfg.configPath != "" {
		fileCfg, err := tagstring.LoadConfig(cfg.configPath)
		if err != nil {
			return newExitError(ExitCodeValidationError, ErrMsgConfigFailed, err)
		}

		resolvers, stores, err := tagstring.OpenScopes(fileCfg.Scopes)
		if err != nil {
			return newExitError(ExitCodeError, ErrMsgOpenScopesFailed, err)
		}
		defer func() {
			for _, s := range stores {
				_ = s.Close()
			}
		}()

		scopes = append(scopes, resolvers...)
		opts = append(opts, fileCfg.Options(logger)...)
		if fileCfg.StartMarker != "" {
			start = fileCfg.StartMarker
		}
		if fileCfg.EndMarker != "" {
			end = fileCfg.EndMarker
		}
	}
	scopes = append(scopes, tagstring.ArgsResolver())

	if cfg.start != "" || cfg.end != "" {
		if cfg.start != "" {
			start = cfg.start
		}
		if cfg.end != "" {
			end = cfg.end
		}
		opts = append(opts, tagstring.WithMarkers(start, end))
	}
	if cfg.strict {
		opts = append(opts, tagstring.WithErrorStrategy(tagstring.ErrorStrategyThrow))
	}

	ev, err := tagstring.NewChain(scopes, opts...)
	if err != nil {
		return newExitError(ExitCodeValidationError, ErrMsgConfigFailed, err)
	}

	args := tagstring.NewArgs()
	for name, value := range cfg.args {
		args.Set(name, value)
	}

	result, err := ev.EvaluateString(cmd.Context(), string(source), args)
	if err != nil {
		code := ExitCodeError
		if tagstring.IsParseError(err) {
			code = ExitCodeValidationError
		}
		return newExitError(code, ErrMsgEvaluateFailed, err)
	}

	if err := writeOutput(cfg.outputPath, []byte(result), cmd.OutOrStdout()); err != nil {
		return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}

// newLogger returns a console logger on stderr when verbose, a no-op logger otherwise
func newLogger(verbose bool, cmd *cobra.Command) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(cmd.ErrOrStderr()), zapcore.DebugLevel)
	return zap.New(core)
}
