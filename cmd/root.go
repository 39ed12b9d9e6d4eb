package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hpkotak/shellfirm/internal/audit"
	"github.com/hpkotak/shellfirm/internal/challenge"
	"github.com/hpkotak/shellfirm/internal/settings"
	"github.com/spf13/cobra"
)

var (
	logFlag      string
	settingsFlag string
)

// Package-level vars for testability.
// Tests override these to inject input and capture output.
var (
	newSource = challenge.NewSource
	openAudit = audit.Open
	logger    = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ioIn  io.Reader = os.Stdin
	ioOut io.Writer = os.Stdout
	ioErr io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "shellfirm",
	Short: "Ask for confirmation before risky shell commands run",
	Long: `shellfirm checks each shell command against a catalog of risky patterns.
When one matches, you retype a random token before the command runs.

Get started:
  eval "$(shellfirm init zsh)"`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger(logFlag, os.Getenv("LOG"))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFlag, "log", "", "log level: debug, info, warn, error (default $LOG, then info)")
	rootCmd.PersistentFlags().StringVar(&settingsFlag, "settings", "", "settings file (default ~/.shellfirm/settings.yaml)")
}

// exitError carries a process exit code out of a command without printing
// an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	_, _ = fmt.Fprintf(ioErr, "Error: %v\n", err)
	return 1
}

// setupLogger builds the logger from the --log flag, falling back to the
// LOG environment variable and then info. An unknown flag value is an
// error; an unknown $LOG value only warns, so a stray variable never blocks
// the shell hook.
func setupLogger(flagLevel, envLevel string) error {
	l := slog.LevelInfo
	var warn string
	switch {
	case flagLevel != "":
		parsed, ok := parseLevel(flagLevel)
		if !ok {
			return fmt.Errorf("invalid log level %q", flagLevel)
		}
		l = parsed
	case envLevel != "":
		if parsed, ok := parseLevel(envLevel); ok {
			l = parsed
		} else {
			warn = envLevel
		}
	}

	logger = slog.New(slog.NewTextHandler(ioErr, &slog.HandlerOptions{Level: l}))
	if warn != "" {
		logger.Warn("ignoring unrecognised LOG value, using info", "value", warn)
	}
	return nil
}

func parseLevel(s string) (slog.Level, bool) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return l, false
	}
	return l, true
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func settingsPath() string {
	if settingsFlag != "" {
		return settings.ExpandPath(settingsFlag)
	}
	return settings.Path()
}

// loadSettings reads the settings file. A missing file yields defaults,
// and is written to disk when bootstrap is set.
func loadSettings(bootstrap bool) (*settings.Settings, error) {
	path := settingsPath()
	s, err := settings.LoadFrom(path)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, settings.ErrNotFound) {
		return nil, err
	}

	s = settings.Default()
	if bootstrap {
		if err := settings.SaveTo(path, s); err != nil {
			logger.Warn("could not write default settings", "path", path, "error", err)
		} else {
			logger.Debug("default settings written", "path", path)
		}
	}
	return s, nil
}
