package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/issuewatch/issuewatch/internal/audit"
)

var (
	auditPath  string
	auditLimit int
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditTailCmd.Flags().StringVar(&auditPath, "path", audit.DefaultPath(), "Path to the audit database")
	auditTailCmd.Flags().IntVarP(&auditLimit, "lines", "n", 10, "Number of recent entries to show")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Invocation log operations",
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show recent tool invocations",
	Long:  "Reads the most recent entries from the invocation database and\npretty-prints them, newest first.",
	RunE:  runAuditTail,
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	store, err := audit.Open(auditPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(auditLimit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		out, _ := json.MarshalIndent(e, "", "  ")
		fmt.Println(string(out))
	}
	return nil
}
