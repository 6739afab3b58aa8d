package main

import (
	"github.com/spf13/cobra"

	"github.com/itsatony/go-tagstring"
)

// escapeConfig holds parsed escape command configuration
type escapeConfig struct {
	inputPath  string
	outputPath string
	start      string
	end        string
}

func newEscapeCommand() *cobra.Command {
	cfg := &escapeConfig{}

	cmd := &cobra.Command{
		Use:   CmdNameEscape,
		Short: ShortEscape,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := readInput(cfg.inputPath, cmd.InOrStdin())
			if err != nil {
				return newExitError(ExitCodeInputError, ErrMsgReadFileFailed, err)
			}

			escaped := tagstring.EscapeWith(string(source), cfg.start, cfg.end)
			if err := writeOutput(cfg.outputPath, []byte(escaped), cmd.OutOrStdout()); err != nil {
				return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.inputPath, FlagTemplate, FlagTemplateShort, InputSourceStdin, UsageTemplate)
	flags.StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, UsageOutput)
	flags.StringVar(&cfg.start, FlagStart, tagstring.DefaultStartMarker, UsageStart)
	flags.StringVar(&cfg.end, FlagEnd, tagstring.DefaultEndMarker, UsageEnd)

	return cmd
}
