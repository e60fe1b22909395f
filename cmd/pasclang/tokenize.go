package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pasclang/internal/diagfmt"
	"pasclang/internal/driver"
	"pasclang/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] input.pp",
	Short: "Dump the token stream of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  tokenizeExecution,
}

func init() {
	tokenizeCmd.Flags().String("format", "text", "output format (text|json)")
}

func tokenizeExecution(cmd *cobra.Command, args []string) error {
	formatValue, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}

	result, tokErr := driver.Tokenize(args[0], maxDiagnostics)
	if result == nil {
		return tokErr
	}

	result.Bag.Sort()
	switch formatValue {
	case "json":
		if err := diagfmt.JSON(os.Stdout, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		}); err != nil {
			return err
		}
	default:
		for _, tok := range result.Tokens {
			printToken(result, tok)
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     colorEnabled(colorMode, os.Stderr),
			ShowNotes: true,
		})
	}

	return tokErr
}

func printToken(result *driver.TokenizeResult, tok token.Token) {
	start, _ := result.FileSet.Resolve(tok.Span)
	if tok.Text != "" && tok.Kind.String() != tok.Text {
		fmt.Fprintf(os.Stdout, "%d:%d\t%s\t%q\n", start.Line, start.Col, tok.Kind, tok.Text)
		return
	}
	fmt.Fprintf(os.Stdout, "%d:%d\t%s\n", start.Line, start.Col, tok.Kind)
}
