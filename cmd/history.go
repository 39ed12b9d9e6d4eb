package cmd

import (
	"fmt"

	"github.com/hpkotak/shellfirm/internal/ui"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent decisions from the audit log",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(false)
	if err != nil {
		return err
	}

	if !s.Audit.Enabled {
		_, _ = fmt.Fprintln(ioOut, "Audit log is disabled.")
		return nil
	}

	store, err := openAudit(s.AuditPath(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(commandContext(cmd), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(ioOut, "No decisions recorded yet.")
		return nil
	}
	_, _ = fmt.Fprint(ioOut, ui.DefaultTheme().History(entries))
	return nil
}
