package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hpkotak/shellfirm/internal/checks"
	"github.com/hpkotak/shellfirm/internal/settings"
	"github.com/spf13/cobra"
)

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a settings value",
	Long: `Update a settings value. Supported keys:
  challenge_length  Length of the token to retype (1-64)
  risk_threshold    Minimum risk that prompts (low/medium/high, "" for all)
  audit.enabled     Record decisions in the audit log (true/false)
  audit.path        Audit database path`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	err := updateSettings(func(s *settings.Settings) error {
		switch key {
		case "challenge_length":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("challenge_length must be a number: %q", value)
			}
			s.ChallengeLength = n
		case "risk_threshold":
			value = strings.ToLower(strings.TrimSpace(value))
			if value != "" {
				if _, err := checks.ParseRiskLevel(value); err != nil {
					return err
				}
			}
			s.RiskThreshold = value
		case "audit.enabled":
			b, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("audit.enabled must be true or false: %q", value)
			}
			s.Audit.Enabled = b
		case "audit.path":
			value = strings.TrimSpace(value)
			if value == "" {
				return fmt.Errorf("audit path cannot be empty")
			}
			s.Audit.Path = value
		default:
			return fmt.Errorf("unknown settings key: %s", key)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(ioOut, "Set %s = %s\n", key, value)
	return nil
}
