// Package main implements the pasclang CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pasclang/internal/driver"
	"pasclang/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pasclang [flags] input.pp",
	Short: "Pseudo-Pascal ahead-of-time compiler",
	Long: `pasclang compiles a Pseudo-Pascal source file to a native executable,
an object file, or assembly, linking against a small runtime that provides
write, writeln, readln, and the heap allocator.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          compileExecution,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.Flags().StringP("output", "o", "", "output path (executable, object, or assembly)")
	rootCmd.Flags().IntP("optimize", "O", 0, "optimization level; only 0 and 1 are distinct")
	rootCmd.Flags().BoolP("object", "c", false, "emit an object file, do not link")
	rootCmd.Flags().BoolP("assembly", "S", false, "emit an assembly file, do not link")
	rootCmd.Flags().BoolP("pretty", "p", false, "pretty-print the source from the AST to stdout")
	rootCmd.Flags().BoolP("dump-ir", "d", false, "dump backend IR to stderr after lowering")
	rootCmd.Flags().BoolP("frontend", "f", false, "front-end only: lex, parse, type-check")
	rootCmd.Flags().Bool("cache", false, "reuse cached front-end diagnostics for unchanged inputs")
	rootCmd.Flags().Bool("keep-tmp", false, "preserve the temporary build directory")
	rootCmd.Flags().Bool("print-commands", false, "print external build commands")
	rootCmd.Flags().String("ui", "auto", "build progress interface (auto|on|off)")

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pasclang: %v\n", err)
		var failure *driver.Failure
		if errors.As(err, &failure) {
			os.Exit(int(failure.Category))
		}
		// Anything cobra itself rejects (unknown flag, bad arguments) is a
		// usage error.
		os.Exit(int(driver.WrongUsage))
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func colorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}
