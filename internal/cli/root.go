// Package cli wires the issuewatch commands together.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "issuewatch",
	Short: "Governed MCP gateway to an issue tracker",
	Long:  "Exposes issue-tracker operations as MCP tools over stdio, with rate limiting,\ninput scanning, and error sanitization applied to every call.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
