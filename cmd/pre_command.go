package cmd

import (
	"context"
	"fmt"

	"github.com/hpkotak/shellfirm/internal/audit"
	"github.com/hpkotak/shellfirm/internal/challenge"
	"github.com/hpkotak/shellfirm/internal/checks"
	"github.com/hpkotak/shellfirm/internal/guard"
	"github.com/hpkotak/shellfirm/internal/ui"
	"github.com/spf13/cobra"
)

var commandFlag string

var preCommandCmd = &cobra.Command{
	Use:   "pre-command",
	Short: "Check a command before the shell runs it",
	Long: `Check a command before the shell runs it. Called by the shell hook.

Exit status:
  0  the command may run
  2  settings or catalog could not be loaded
  3  the command was aborted`,
	Args: cobra.NoArgs,
	RunE: runPreCommand,
}

func init() {
	preCommandCmd.Flags().StringVarP(&commandFlag, "command", "c", "", "command line to check")
	rootCmd.AddCommand(preCommandCmd)
}

func runPreCommand(cmd *cobra.Command, args []string) error {
	res := evaluate(commandContext(cmd), commandFlag)

	if msg := ui.DefaultTheme().Result(res); msg != "" {
		_, _ = fmt.Fprintln(ioErr, msg)
	}
	if res.Status != guard.Allow {
		return &exitError{code: res.Status.ExitCode()}
	}
	return nil
}

func evaluate(ctx context.Context, command string) guard.Result {
	catalog, err := checks.Default()
	if err != nil {
		return guard.Failure(err)
	}
	s, err := loadSettings(true)
	if err != nil {
		return guard.Failure(err)
	}

	gate := &challenge.Gate{
		Length: s.ChallengeLength,
		Source: newSource(),
		In:     ioIn,
		Out:    ioOut,
	}

	opts := []guard.Option{guard.WithLogger(logger)}
	if s.Audit.Enabled {
		rec := &lazyRecorder{path: s.AuditPath()}
		defer rec.Close()
		opts = append(opts, guard.WithRecorder(rec))
	}

	return guard.New(catalog, s, gate, opts...).Evaluate(ctx, command)
}

// lazyRecorder opens the audit store on the first Record, so commands that
// never reach the gate do not touch the database.
type lazyRecorder struct {
	path  string
	store *audit.Store
}

func (r *lazyRecorder) Record(ctx context.Context, e audit.Entry) error {
	if r.store == nil {
		store, err := openAudit(r.path, logger)
		if err != nil {
			return err
		}
		r.store = store
	}
	return r.store.Record(ctx, e)
}

func (r *lazyRecorder) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}
