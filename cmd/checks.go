package cmd

import (
	"fmt"

	"github.com/hpkotak/shellfirm/internal/checks"
	"github.com/hpkotak/shellfirm/internal/fixture"
	"github.com/hpkotak/shellfirm/internal/ui"
	"github.com/spf13/cobra"
)

var (
	listAllFlag  bool
	workersFlag  int
	categoryFlag string
)

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "Inspect the risk check catalog",
}

var checksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active checks",
	Args:  cobra.NoArgs,
	RunE:  runChecksList,
}

var checksTestCmd = &cobra.Command{
	Use:   "test <fixtures.yaml>...",
	Short: "Verify the catalog against fixture files",
	Long: `Verify the catalog against fixture files. Each file is a YAML list of
entries with a test command and the check ids it must trigger:

  - test: rm -rf /
    description: recursive delete of the root directory
    expect: [fs:recursively_delete, fs:delete_root]`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChecksTest,
}

func init() {
	checksListCmd.Flags().BoolVar(&listAllFlag, "all", false, "list the whole catalog, ignoring settings")
	checksListCmd.Flags().StringVar(&categoryFlag, "category", "", "only list checks in this category")
	checksTestCmd.Flags().IntVar(&workersFlag, "workers", 0, "parallel workers (default GOMAXPROCS)")
	checksCmd.AddCommand(checksListCmd, checksTestCmd)
	rootCmd.AddCommand(checksCmd)
}

func runChecksList(cmd *cobra.Command, args []string) error {
	catalog, err := checks.Default()
	if err != nil {
		return err
	}

	list := catalog.All()
	if !listAllFlag {
		s, err := loadSettings(false)
		if err != nil {
			return err
		}
		list = checks.Resolve(catalog, s.Filter())
	}
	if categoryFlag != "" {
		var filtered []checks.Check
		for _, c := range list {
			if c.Category == categoryFlag {
				filtered = append(filtered, c)
			}
		}
		list = filtered
	}

	_, _ = fmt.Fprint(ioOut, ui.DefaultTheme().Checks(list))
	_, _ = fmt.Fprintf(ioOut, "\n%d of %d checks\n", len(list), catalog.Len())
	return nil
}

func runChecksTest(cmd *cobra.Command, args []string) error {
	catalog, err := checks.Default()
	if err != nil {
		return err
	}
	active := catalog.All()
	theme := ui.DefaultTheme()

	total, failed := 0, 0
	for _, path := range args {
		fs, err := fixture.Load(path)
		if err != nil {
			return err
		}
		reports, err := fixture.Verify(commandContext(cmd), active, fs, workersFlag)
		if err != nil {
			return err
		}
		total += len(reports)
		for _, r := range fixture.Failures(reports) {
			failed++
			_, _ = fmt.Fprintf(ioOut, "%s %s: %q\n    got  %v\n    want %v\n",
				theme.Abort.Render("FAIL"), path, r.Fixture.Test, r.Got, r.Fixture.Expect)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d fixtures failed", fixture.ErrMismatch, failed, total)
	}
	_, _ = fmt.Fprintf(ioOut, "%s %d fixtures\n", theme.Allow.Render("ok"), total)
	return nil
}
