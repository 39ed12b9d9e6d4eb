// Package guard decides whether an intercepted command may run. It resolves
// the active checks once, matches each command against them and, when
// anything matches, asks a Confirmer to challenge the user.
package guard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hpkotak/shellfirm/internal/audit"
	"github.com/hpkotak/shellfirm/internal/challenge"
	"github.com/hpkotak/shellfirm/internal/checks"
	"github.com/hpkotak/shellfirm/internal/settings"
)

// Confirmer challenges the user about matched checks. A nil error means
// the user proved intent.
type Confirmer interface {
	Confirm(ctx context.Context, matches []checks.Check) error
}

// Recorder persists challenged decisions. *audit.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, e audit.Entry) error
}

type Option func(*Guard)

func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

func WithRecorder(r Recorder) Option {
	return func(g *Guard) { g.recorder = r }
}

type Guard struct {
	active    []checks.Check
	confirmer Confirmer
	recorder  Recorder
	logger    *slog.Logger
}

// New builds a guard over the checks that survive s's filter.
func New(c *checks.Catalog, s *settings.Settings, confirmer Confirmer, opts ...Option) *Guard {
	g := &Guard{confirmer: confirmer, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}

	f := s.Filter()
	ids, cats := checks.Unknown(c, f)
	if len(ids) > 0 {
		g.logger.Debug("ignored ids not in catalog", "ids", ids)
	}
	if len(cats) > 0 {
		g.logger.Debug("disabled categories not in catalog", "categories", cats)
	}

	g.active = checks.Resolve(c, f)
	g.logger.Debug("active checks resolved", "active", len(g.active), "catalog", c.Len())
	return g
}

// Active returns the checks this guard matches against.
func (g *Guard) Active() []checks.Check {
	out := make([]checks.Check, len(g.active))
	copy(out, g.active)
	return out
}

// Evaluate runs one command through the guard. The user is prompted at
// most once.
func (g *Guard) Evaluate(ctx context.Context, command string) Result {
	g.logger.Debug("scanning", "command", command)

	matches := checks.Match(g.active, command)
	if len(matches) == 0 {
		g.logger.Debug("clear")
		return Result{Status: Allow}
	}

	g.logger.Debug("prompting", "matches", checks.IDs(matches))
	res := Result{Matches: matches, Challenged: true}

	err := g.confirmer.Confirm(ctx, matches)
	switch {
	case err == nil:
		g.logger.Debug("confirmed")
		res.Status = Allow
	case errors.Is(err, challenge.ErrRejected):
		g.logger.Debug("rejected")
		res.Status = Abort
		res.Message = "command aborted: challenge not confirmed"
	default:
		g.logger.Debug("challenge failed", "error", err)
		res.Status = Abort
		res.Message = "command aborted: " + err.Error()
	}

	g.record(ctx, command, res)
	return res
}

func (g *Guard) record(ctx context.Context, command string, res Result) {
	if g.recorder == nil {
		return
	}
	e := audit.Entry{
		Command:    command,
		MatchedIDs: checks.IDs(res.Matches),
		Outcome:    res.Status.String(),
	}
	if err := g.recorder.Record(ctx, e); err != nil {
		g.logger.Warn("audit record failed", "error", err)
	}
}
