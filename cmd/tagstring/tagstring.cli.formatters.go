package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsatony/go-tagstring"
)

func newFormattersCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   CmdNameFormatters,
		Short: ShortFormatters,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := tagstring.NewBuiltinFormatters(nil).List()
			out := cmd.OutOrStdout()

			switch format {
			case OutputFormatText:
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
			case OutputFormatJSON:
				jsonBytes, err := json.MarshalIndent(names, "", "  ")
				if err != nil {
					return newExitError(ExitCodeError, ErrMsgJSONMarshalFailed, err)
				}
				fmt.Fprintln(out, string(jsonBytes))
			default:
				return newExitError(ExitCodeUsageError, ErrMsgInvalidFormat, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, UsageFormat)
	return cmd
}
