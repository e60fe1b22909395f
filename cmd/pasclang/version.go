package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pasclang/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the compiler version",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(os.Stdout, "pasclang %s\n", version.Version)
		return err
	},
}
