package cmd

import (
	"fmt"

	"github.com/hpkotak/shellfirm/internal/hook"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [shell]",
	Short: "Print the shell hook",
	Long: `Print the shell hook for zsh, bash or fish. Without an argument the
shell is taken from $SHELL.

  zsh:   eval "$(shellfirm init zsh)"
  bash:  eval "$(shellfirm init bash)"
  fish:  shellfirm init fish | source`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: hook.Shells,
	RunE:      runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	shell := hook.Detect()
	if len(args) == 1 {
		shell = args[0]
	}

	script, err := hook.Script(shell)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(ioOut, script)
	return nil
}
