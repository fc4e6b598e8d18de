package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"frel/internal/diagfmt"
	"frel/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.frel",
	Short: "Print the token stream of a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.frel",
	Short: "Print the syntax tree of a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] file.fir",
	Short: "Decode a FIR blob and print its contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	addConfigFlags(parseCmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	out, err := readDiagOutput(cmd)
	if err != nil {
		return err
	}
	result, err := driver.Tokenize(args[0], 0)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := out.printSide(result.Bag.Items(), result.FileSet); err != nil {
		return err
	}

	switch out.format {
	case diagfmt.FormatJSON:
		err = diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	case diagfmt.FormatMsgpack:
		err = diagfmt.FormatTokensMsgpack(os.Stdout, result.Tokens)
	default:
		err = diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return &exitError{code: 1}
	}
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	out, err := readDiagOutput(cmd)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	result, err := driver.Parse(args[0], cfg, 0)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := out.printSide(result.Bag.Items(), result.FileSet); err != nil {
		return err
	}
	if !result.TooDeep {
		if err := diagfmt.FormatOutline(os.Stdout, result.Tree.Outline(), out.format); err != nil {
			return err
		}
	}
	if result.Bag.HasErrors() {
		return &exitError{code: 1}
	}
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	out, err := readDiagOutput(cmd)
	if err != nil {
		return err
	}
	prog, err := driver.Dump(args[0])
	if err != nil {
		return err
	}
	return diagfmt.FormatProgram(os.Stdout, prog, out.format)
}
