package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"frel/internal/config"
)

// addConfigFlags registers the compile options shared by compile, check,
// parse, deps and config. Flags override values from the config file.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "config file (frel.toml or .yaml); searched upwards when empty")
	cmd.Flags().Bool("no-config", false, "ignore config files")
	cmd.Flags().Bool("strict", true, "treat unknown fragment references as errors")
	cmd.Flags().Uint32("max-depth", config.DefaultMaxNestingDepth, "maximum directive and include nesting")
	cmd.Flags().Uint32("max-blob-size", config.DefaultMaxBlobSize, "maximum FIR blob size in bytes")
	cmd.Flags().String("error-mode", "aggregate", "error handling (aggregate|fail-fast)")
	cmd.Flags().StringSlice("known", nil, "fragment names provided by the host")
}

// loadConfig builds the effective configuration for path: defaults, then
// the config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command, path string) (config.Config, string, error) {
	cfg := config.Default()
	flags := cmd.Flags()

	noConfig, err := flags.GetBool("no-config")
	if err != nil {
		return cfg, "", fmt.Errorf("failed to get no-config flag: %w", err)
	}
	cfgPath, err := flags.GetString("config")
	if err != nil {
		return cfg, "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if cfgPath == "" && !noConfig {
		var found bool
		cfgPath, found, err = config.Find(searchDir(path))
		if err != nil {
			return cfg, "", err
		}
		if !found {
			cfgPath = ""
		}
	}
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return cfg, "", err
		}
	}

	if flags.Changed("strict") {
		if cfg.StrictUnknownRefs, err = flags.GetBool("strict"); err != nil {
			return cfg, "", err
		}
	}
	if flags.Changed("max-depth") {
		if cfg.MaxNestingDepth, err = flags.GetUint32("max-depth"); err != nil {
			return cfg, "", err
		}
	}
	if flags.Changed("max-blob-size") {
		if cfg.MaxBlobSize, err = flags.GetUint32("max-blob-size"); err != nil {
			return cfg, "", err
		}
	}
	if flags.Changed("error-mode") {
		modeStr, err := flags.GetString("error-mode")
		if err != nil {
			return cfg, "", err
		}
		if cfg.ErrorMode, err = config.ParseErrorMode(modeStr); err != nil {
			return cfg, "", err
		}
	}
	if flags.Changed("known") {
		known, err := flags.GetStringSlice("known")
		if err != nil {
			return cfg, "", err
		}
		cfg.KnownFragments = append(cfg.KnownFragments, known...)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	return cfg, cfgPath, nil
}

func searchDir(path string) string {
	if path == "" {
		return "."
	}
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return path
	}
	return filepath.Dir(path)
}
