package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"frel/internal/fir"
	"frel/internal/version"
)

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	FIRVersion uint16 `json:"fir_version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show frelc build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		versionFormat, err := cmd.Root().PersistentFlags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		switch strings.ToLower(versionFormat) {
		case "pretty":
			fmt.Fprint(cmd.OutOrStdout(), version.Describe(fir.Version))
			return nil
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(versionPayload{
				Tool:       "frelc",
				Version:    strings.TrimSpace(version.Version),
				FIRVersion: fir.Version,
				GitCommit:  strings.TrimSpace(version.GitCommit),
				GitMessage: strings.TrimSpace(version.GitMessage),
				BuildDate:  strings.TrimSpace(version.BuildDate),
			})
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}
