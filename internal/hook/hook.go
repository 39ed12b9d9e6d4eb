// Package hook provides the shell integration scripts that route every
// command line through `shellfirm pre-command`.
package hook

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*
var scripts embed.FS

var ErrUnsupportedShell = errors.New("unsupported shell")

// Shells lists the shells Script supports.
var Shells = []string{"bash", "fish", "zsh"}

// Script returns the hook for shell (a name like "zsh" or a path like
// "/bin/zsh").
func Script(shell string) (string, error) {
	name := filepath.Base(strings.TrimSpace(shell))
	data, err := scripts.ReadFile("scripts/shellfirm." + name)
	if err != nil {
		return "", fmt.Errorf("%w %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(Shells, ", "))
	}
	return string(data), nil
}

// Detect returns the base name of the user's shell from $SHELL, or "sh"
// when it is unset.
func Detect() string {
	s := os.Getenv("SHELL")
	if s == "" {
		return "sh"
	}
	return filepath.Base(s)
}
