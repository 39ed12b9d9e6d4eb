// Package checks holds the catalog of pattern-based risk rules and the pure
// functions that resolve and match them against a command line. Matching is
// regex based on purpose: it must be deterministic and fast, and it runs
// before the shell ever sees the command.
package checks

import (
	"fmt"
	"regexp"
	"strings"
)

// RiskLevel is the ordinal severity of a check.
type RiskLevel int

const (
	Low RiskLevel = iota
	Medium
	High
)

func (l RiskLevel) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// ParseRiskLevel accepts "low", "medium" or "high" in any case.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	default:
		return Low, fmt.Errorf("unknown risk level %q", s)
	}
}

// Check is one named risk rule.
type Check struct {
	ID          string
	Pattern     *regexp.Regexp
	Description string
	Risk        RiskLevel
	Category    string
}

// IDs returns the ids of cs in the order given.
func IDs(cs []Check) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}
