// Package cmd implements the CLI commands for cxserver using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cxserver",
	Short: "cxserver — prepare Parsoid HTML for sentence-aligned machine translation",
	Long: `cxserver runs the linear-document pipeline: it parses Parsoid HTML into a
flat item stream, rewrites section markers, splits translatable text into
sentence-level segments, and re-serializes to HTML ready for a translation
engine.

Usage:
  cxserver serve --config config.yaml`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
