package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = ""
	commit  = ""
)

// versionOutput represents JSON output for version
type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

func newVersionCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: ShortVersion,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := getVersionInfo()
			switch format {
			case OutputFormatText:
				outputVersionText(v, cmd.OutOrStdout())
			case OutputFormatJSON:
				return outputVersionJSON(v, cmd.OutOrStdout())
			default:
				return newExitError(ExitCodeUsageError, ErrMsgInvalidFormat, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, UsageFormat)
	return cmd
}

func getVersionInfo() *versionOutput {
	v := &versionOutput{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		GoVersion: runtime.Version(),
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			v.Version = info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				v.Commit = setting.Value
			}
		}
	}

	if version != "" {
		v.Version = version
	}
	if commit != "" {
		v.Commit = commit
	}
	return v
}

func outputVersionText(v *versionOutput, stdout io.Writer) {
	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline, v.Version, v.Commit, v.GoVersion)
}

func outputVersionJSON(v *versionOutput, stdout io.Writer) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return newExitError(ExitCodeError, ErrMsgJSONMarshalFailed, err)
	}
	fmt.Fprintln(stdout, string(jsonBytes))
	return nil
}
