package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"frel/internal/buildpipeline"
	"frel/internal/diag"
	"frel/internal/driver"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <file.frel|directory>",
	Short: "Compile fragment templates into FIR blobs",
	Long: `Compile a single *.frel file or every *.frel file under a directory.
Each source produces a .fir file next to it (or under --out). In directory
mode every file may include its siblings by file name.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.frel|directory>",
	Short: "Validate fragment templates without writing blobs",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var compileUI = uiModeAuto

func init() {
	addConfigFlags(compileCmd)
	compileCmd.Flags().StringP("out", "o", "", "output directory for .fir files (default: next to sources)")
	compileCmd.Flags().Int("jobs", 0, "max parallel workers for directory compiles (0=auto)")
	compileCmd.Flags().Var(&compileUI, "ui", "progress UI (auto|on|off)")

	addConfigFlags(checkCmd)
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory checks (0=auto)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	return runPipeline(cmd, args[0], driver.Options{OutDir: outDir}, compileUI)
}

func runCheck(cmd *cobra.Command, args []string) error {
	return runPipeline(cmd, args[0], driver.Options{NoWrite: true}, uiModeOff)
}

func runPipeline(cmd *cobra.Command, path string, opts driver.Options, mode uiMode) error {
	cfg, _, err := loadConfig(cmd, path)
	if err != nil {
		return err
	}
	opts.Config = cfg

	if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.Timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	out, err := readDiagOutput(cmd)
	if err != nil {
		return err
	}

	useTUI := mode.enabled() && !out.structured()
	counter := &buildpipeline.Counter{}
	var lines buildpipeline.ProgressSink
	if opts.NoWrite && !useTUI && !out.structured() {
		lines = &buildpipeline.LineSink{W: os.Stderr}
	}
	opts.Progress = buildpipeline.Tee(counter, lines)
	heartbeat, err := startHeartbeat(cmd, counter.Status)
	if err != nil {
		return err
	}
	defer heartbeat.Stop()
	var res *driver.RunResult
	if useTUI {
		files, title, lerr := progressFiles(path)
		if lerr != nil {
			return lerr
		}
		res, err = runWithUI(cmd.Context(), title, path, files, opts)
	} else {
		res, err = driver.Run(cmd.Context(), path, opts)
	}
	heartbeat.Stop()
	if err != nil {
		dumpTraceRing(cmd, os.Stderr)
		return err
	}

	diagW := os.Stderr
	if out.structured() {
		diagW = os.Stdout
	}
	var diags []diag.Diagnostic
	for _, f := range res.Files {
		if f.Result != nil {
			diags = append(diags, f.Result.Diagnostics...)
		}
	}
	if err := out.print(diagW, diags, res.FileSet); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	for _, f := range res.Files {
		var derr *diag.Error
		if f.Err != nil && !errors.As(f.Err, &derr) {
			// encode errors carry no source position
			fmt.Fprintf(os.Stderr, "%s: %v\n", f.Display, f.Err)
		}
	}

	if !useTUI && !out.structured() {
		for _, f := range res.Files {
			if f.Output != "" {
				fmt.Fprintf(os.Stdout, "%s -> %s (%d bytes)\n", f.Display, f.Output, len(f.Result.Blob))
			}
		}
	}

	if opts.Timings {
		reports := make([]*driver.TimingReport, 0, len(res.Files))
		var total buildpipeline.Timings
		for _, f := range res.Files {
			reports = append(reports, f.Timing)
			addTimings(&total, f.Timing)
		}
		if err := driver.WriteTimings(os.Stderr, reports, out.structured()); err != nil {
			return err
		}
		if !out.structured() && len(res.Files) > 1 {
			printStageTimings(os.Stderr, &total)
		}
	}

	if failed := res.Failed(); failed > 0 {
		dumpTraceRing(cmd, os.Stderr)
		if !out.structured() {
			fmt.Fprintf(os.Stderr, "%d of %d file(s) failed\n", failed, len(res.Files))
		}
		return &exitError{code: 1}
	}
	return nil
}

// progressFiles lists the display names the progress UI tracks.
func progressFiles(path string) ([]string, string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if !st.IsDir() {
		return buildpipeline.DisplayNames([]string{path}, filepath.Dir(path)), "compiling " + filepath.Base(path), nil
	}
	files, err := driver.ListSources(path)
	if err != nil {
		return nil, "", err
	}
	return buildpipeline.DisplayNames(files, path), "compiling " + path, nil
}
