// Package ui styles CLI output. The decision core never imports it.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hpkotak/shellfirm/internal/audit"
	"github.com/hpkotak/shellfirm/internal/checks"
	"github.com/hpkotak/shellfirm/internal/guard"
)

// Color definitions
var (
	ColorAllow   = lipgloss.Color("#2ECC71")
	ColorAbort   = lipgloss.Color("#ff6b6b")
	ColorError   = lipgloss.Color("#e5a50a")
	ColorLow     = lipgloss.Color("#6b7b8c")
	ColorMedium  = lipgloss.Color("#e5a50a")
	ColorHigh    = lipgloss.Color("#ff6b6b")
	ColorMuted   = lipgloss.Color("#808080")
	ColorPrimary = lipgloss.Color("#937dd8")
)

type Theme struct {
	Allow lipgloss.Style
	Abort lipgloss.Style
	Error lipgloss.Style
	ID    lipgloss.Style
	Muted lipgloss.Style
	Risk  map[checks.RiskLevel]lipgloss.Style
}

// DefaultTheme returns the default theme
func DefaultTheme() *Theme {
	return &Theme{
		Allow: lipgloss.NewStyle().Foreground(ColorAllow).Bold(true),
		Abort: lipgloss.NewStyle().Foreground(ColorAbort).Bold(true),
		Error: lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		ID:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Muted: lipgloss.NewStyle().Foreground(ColorMuted),
		Risk: map[checks.RiskLevel]lipgloss.Style{
			checks.Low:    lipgloss.NewStyle().Foreground(ColorLow),
			checks.Medium: lipgloss.NewStyle().Foreground(ColorMedium),
			checks.High:   lipgloss.NewStyle().Foreground(ColorHigh).Bold(true),
		},
	}
}

// Result renders the one-line outcome of a guarded command. Allowed
// commands that were never challenged render as the empty string.
func (t *Theme) Result(res guard.Result) string {
	switch res.Status {
	case guard.Allow:
		if !res.Challenged {
			return ""
		}
		return t.Allow.Render("shellfirm: confirmed")
	case guard.Abort:
		return t.Abort.Render("shellfirm: " + res.Message)
	default:
		return t.Error.Render("shellfirm: configuration error: ") + res.Message
	}
}

// RiskLabel renders a risk level in its color.
func (t *Theme) RiskLabel(l checks.RiskLevel) string {
	style, ok := t.Risk[l]
	if !ok {
		style = t.Muted
	}
	return style.Render(fmt.Sprintf("%-6s", l.String()))
}

// Checks renders one line per check: risk, id, description.
func (t *Theme) Checks(cs []checks.Check) string {
	var b strings.Builder
	for _, c := range cs {
		fmt.Fprintf(&b, "%s  %s  %s\n", t.RiskLabel(c.Risk), t.ID.Render(c.ID), c.Description)
	}
	return b.String()
}

// History renders audit entries, newest first as given.
func (t *Theme) History(entries []audit.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		outcome := e.Outcome
		switch outcome {
		case guard.Allow.String():
			outcome = t.Allow.Render(fmt.Sprintf("%-6s", outcome))
		case guard.Abort.String():
			outcome = t.Abort.Render(fmt.Sprintf("%-6s", outcome))
		}
		fmt.Fprintf(&b, "%s  %s  %s", t.Muted.Render(e.CreatedAt.Format("2006-01-02 15:04:05")), outcome, e.Command)
		if len(e.MatchedIDs) > 0 {
			fmt.Fprintf(&b, "  %s", t.Muted.Render("["+strings.Join(e.MatchedIDs, ", ")+"]"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
