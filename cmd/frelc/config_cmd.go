package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"frel/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [flags] [path]",
	Short: "Print the effective compile configuration as TOML",
	Long: `Config resolves the configuration the same way compile does: defaults,
then the nearest frel.toml (or the file given by --config), then flags.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	addConfigFlags(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	cfg, source, err := loadConfig(cmd, path)
	if err != nil {
		return err
	}
	if source != "" {
		fmt.Fprintf(os.Stdout, "# loaded from %s\n", source)
	} else {
		fmt.Fprintln(os.Stdout, "# defaults (no config file found)")
	}
	return config.EncodeTOML(os.Stdout, cfg)
}
