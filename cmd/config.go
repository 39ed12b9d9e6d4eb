package cmd

import (
	"errors"
	"fmt"

	"github.com/hpkotak/shellfirm/internal/challenge"
	"github.com/hpkotak/shellfirm/internal/checks"
	"github.com/hpkotak/shellfirm/internal/settings"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var resetYes bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage shellfirm settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _ = fmt.Fprintln(ioOut, settingsPath())
		return nil
	},
}

var configIgnoreCmd = &cobra.Command{
	Use:   "ignore <check-id>...",
	Short: "Stop prompting for specific checks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConfigIgnore,
}

var configUnignoreCmd = &cobra.Command{
	Use:   "unignore <check-id>...",
	Short: "Resume prompting for ignored checks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConfigUnignore,
}

var configDisableCmd = &cobra.Command{
	Use:   "disable <category>...",
	Short: "Disable every check in a category",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConfigDisable,
}

var configEnableCmd = &cobra.Command{
	Use:   "enable <category>...",
	Short: "Re-enable a disabled category",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConfigEnable,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigReset,
}

func init() {
	configResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	configCmd.AddCommand(configShowCmd, configPathCmd, configIgnoreCmd, configUnignoreCmd,
		configDisableCmd, configEnableCmd, configResetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path := settingsPath()
	s, err := settings.LoadFrom(path)
	note := ""
	if errors.Is(err, settings.ErrNotFound) {
		s, err = settings.Default(), nil
		note = " (not created yet, showing defaults)"
	}
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	_, _ = fmt.Fprintf(ioOut, "Settings file: %s%s\n\n", path, note)
	_, _ = fmt.Fprint(ioOut, string(data))
	return nil
}

// updateSettings loads the settings (defaults when missing), applies fn
// and saves the result.
func updateSettings(fn func(s *settings.Settings) error) error {
	s, err := loadSettings(false)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return settings.SaveTo(settingsPath(), s)
}

func runConfigIgnore(cmd *cobra.Command, args []string) error {
	catalog, err := checks.Default()
	if err != nil {
		return err
	}
	for _, id := range args {
		if _, ok := catalog.Lookup(id); !ok {
			return fmt.Errorf("unknown check id: %s (see `shellfirm checks list --all`)", id)
		}
	}
	return updateSettings(func(s *settings.Settings) error {
		for _, id := range s.Ignore(args...) {
			_, _ = fmt.Fprintf(ioOut, "Ignoring %s\n", id)
		}
		return nil
	})
}

func runConfigUnignore(cmd *cobra.Command, args []string) error {
	return updateSettings(func(s *settings.Settings) error {
		removed := s.Unignore(args...)
		if len(removed) == 0 {
			return fmt.Errorf("none of the given ids are ignored")
		}
		for _, id := range removed {
			_, _ = fmt.Fprintf(ioOut, "No longer ignoring %s\n", id)
		}
		return nil
	})
}

func runConfigDisable(cmd *cobra.Command, args []string) error {
	catalog, err := checks.Default()
	if err != nil {
		return err
	}
	for _, c := range args {
		if !catalog.HasCategory(c) {
			return fmt.Errorf("unknown category: %s (known: %v)", c, catalog.Categories())
		}
	}
	return updateSettings(func(s *settings.Settings) error {
		for _, c := range s.DisableCategories(args...) {
			_, _ = fmt.Fprintf(ioOut, "Disabled %s\n", c)
		}
		return nil
	})
}

func runConfigEnable(cmd *cobra.Command, args []string) error {
	return updateSettings(func(s *settings.Settings) error {
		removed := s.EnableCategories(args...)
		if len(removed) == 0 {
			return fmt.Errorf("none of the given categories are disabled")
		}
		for _, c := range removed {
			_, _ = fmt.Fprintf(ioOut, "Enabled %s\n", c)
		}
		return nil
	})
}

// runConfigReset never reads the existing file, so it also recovers from
// a settings file that no longer parses.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if !resetYes && !challenge.YesNo("Reset settings to defaults?", false, ioIn, ioOut) {
		_, _ = fmt.Fprintln(ioOut, "Cancelled.")
		return nil
	}
	path := settingsPath()
	if err := settings.SaveTo(path, settings.Default()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ioOut, "Settings reset: %s\n", path)
	return nil
}
