package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"frel/internal/doccat"
)

// usageError marks bad invocations; they exit with status 2.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	var opts doccat.Options
	cmd := &cobra.Command{
		Use:           "doccat [flags] [output]",
		Short:         "Concatenate markdown documentation into one file",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if cmd.Flags().Changed("out") {
					return &usageError{err: errors.New("output path given both as argument and --out")}
				}
				opts.Out = args[0]
			}
			res, err := doccat.Run(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d file(s) into %s\n", len(res.Files), res.Out)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", doccat.DefaultDir, "directory to scan for .md and .markdown files")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", doccat.DefaultOut, "output file")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	return cmd
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, err)
	var ue *usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}
