// Package settings manages the persisted shellfirm settings file at
// ~/.shellfirm/settings.yaml. A path ending in .toml is read and written as
// TOML instead.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hpkotak/shellfirm/internal/checks"
	"gopkg.in/yaml.v3"
)

// EnvPath overrides the settings file location.
const EnvPath = "SHELLFIRM_SETTINGS"

const (
	DefaultChallengeLength = 6
	MaxChallengeLength     = 64
	DefaultAuditPath       = "~/.shellfirm/audit.db"
)

var ErrNotFound = errors.New("settings file not found")

// ParseError means the settings file exists but cannot be used as is.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing settings %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type Settings struct {
	ChallengeLength    int      `yaml:"challenge_length" toml:"challenge_length"`
	IgnoredIDs         []string `yaml:"ignored_ids" toml:"ignored_ids"`
	DisabledCategories []string `yaml:"disabled_categories" toml:"disabled_categories"`
	// RiskThreshold is empty or one of low, medium, high.
	RiskThreshold string `yaml:"risk_threshold,omitempty" toml:"risk_threshold,omitempty"`
	Audit         Audit  `yaml:"audit" toml:"audit"`
}

type Audit struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// Dir returns the settings directory (~/.shellfirm).
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".shellfirm")
}

// DefaultPath returns ~/.shellfirm/settings.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "settings.yaml")
}

// Path returns $SHELLFIRM_SETTINGS when set, DefaultPath otherwise.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return ExpandPath(p)
	}
	return DefaultPath()
}

// Default returns the settings written on first run and by reset.
func Default() *Settings {
	return &Settings{
		ChallengeLength:    DefaultChallengeLength,
		IgnoredIDs:         []string{},
		DisabledCategories: []string{},
		Audit: Audit{
			Enabled: true,
			Path:    DefaultAuditPath,
		},
	}
}

// Load reads the settings at Path. Returns ErrNotFound if the file is missing.
func Load() (*Settings, error) {
	return LoadFrom(Path())
}

// LoadFrom reads settings from path. Keys missing from the file keep their
// default values; unknown keys are rejected. Any decode or validation
// failure is a *ParseError.
func LoadFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	s := Default()
	if err := unmarshal(path, data, s); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := s.Validate(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return s, nil
}

// Save writes s to Path.
func Save(s *Settings) error {
	return SaveTo(Path(), s)
}

// SaveTo writes s to path through a temp file and rename, so readers see
// either the old or the new file.
func SaveTo(path string, s *Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	data, err := marshal(path, s)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// unmarshal decodes data into s and rejects keys that match no field.
func unmarshal(path string, data []byte, s *Settings) error {
	if isTOML(path) {
		md, err := toml.Decode(string(data), s)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func marshal(path string, s *Settings) ([]byte, error) {
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, fmt.Errorf("encoding settings: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return data, nil
}

// Validate checks every field and reports all problems at once.
func (s *Settings) Validate() error {
	var errs []string

	if s.ChallengeLength < 1 || s.ChallengeLength > MaxChallengeLength {
		errs = append(errs, fmt.Sprintf("challenge_length must be between 1 and %d", MaxChallengeLength))
	}
	if s.RiskThreshold != "" {
		if _, err := checks.ParseRiskLevel(s.RiskThreshold); err != nil {
			errs = append(errs, "risk_threshold must be one of: low, medium, high")
		}
	}
	if s.Audit.Enabled && strings.TrimSpace(s.Audit.Path) == "" {
		errs = append(errs, "audit.path is required when audit is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Filter converts the settings into the resolver's input.
func (s *Settings) Filter() checks.Filter {
	f := checks.Filter{
		IgnoredIDs:         slices.Clone(s.IgnoredIDs),
		DisabledCategories: slices.Clone(s.DisabledCategories),
	}
	if s.RiskThreshold != "" {
		if level, err := checks.ParseRiskLevel(s.RiskThreshold); err == nil {
			f.Threshold = &level
		}
	}
	return f
}

// AuditPath returns the audit database path with ~/ expanded.
func (s *Settings) AuditPath() string {
	return ExpandPath(s.Audit.Path)
}

// Ignore adds ids to IgnoredIDs and returns the ones that were new.
func (s *Settings) Ignore(ids ...string) []string {
	var added []string
	s.IgnoredIDs, added = addAll(s.IgnoredIDs, ids)
	return added
}

// Unignore removes ids from IgnoredIDs and returns the ones that were present.
func (s *Settings) Unignore(ids ...string) []string {
	var removed []string
	s.IgnoredIDs, removed = removeAll(s.IgnoredIDs, ids)
	return removed
}

// DisableCategories adds categories to DisabledCategories.
func (s *Settings) DisableCategories(categories ...string) []string {
	var added []string
	s.DisabledCategories, added = addAll(s.DisabledCategories, categories)
	return added
}

// EnableCategories removes categories from DisabledCategories.
func (s *Settings) EnableCategories(categories ...string) []string {
	var removed []string
	s.DisabledCategories, removed = removeAll(s.DisabledCategories, categories)
	return removed
}

func addAll(list, items []string) ([]string, []string) {
	var added []string
	for _, it := range items {
		if !slices.Contains(list, it) {
			list = append(list, it)
			added = append(added, it)
		}
	}
	return list, added
}

func removeAll(list, items []string) ([]string, []string) {
	var removed []string
	kept := make([]string, 0, len(list))
	for _, it := range list {
		if slices.Contains(items, it) {
			removed = append(removed, it)
			continue
		}
		kept = append(kept, it)
	}
	return kept, removed
}

// ExpandPath resolves a leading ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
