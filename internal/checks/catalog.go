package checks

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var bundled embed.FS

// rawCheck is one rule as written in a catalog file.
type rawCheck struct {
	ID          string `yaml:"id"`
	Pattern     string `yaml:"pattern"`
	Description string `yaml:"description"`
	RiskLevel   string `yaml:"risk_level"`
	Category    string `yaml:"category"`
}

// Catalog is the full, immutable set of checks. Build one with Default,
// Load or Parse; accessors hand out copies.
type Catalog struct {
	checks []Check
	byID   map[string]int
}

// Default loads the catalog bundled with the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(bundled, "catalog")
	if err != nil {
		return nil, fmt.Errorf("opening bundled catalog: %w", err)
	}
	return Load(sub)
}

// Load reads every *.yaml file at the root of fsys in lexical order.
// Ids must be unique across all files.
func Load(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("listing catalog files: %w", err)
	}

	var raws []rawCheck
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading catalog file %s: %w", name, err)
		}
		entries, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("parsing catalog file %s: %w", name, err)
		}
		raws = append(raws, entries...)
	}
	return compile(raws)
}

// Parse builds a catalog from a single YAML document.
func Parse(data []byte) (*Catalog, error) {
	raws, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return compile(raws)
}

func decode(data []byte) ([]rawCheck, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raws []rawCheck
	if err := dec.Decode(&raws); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return raws, nil
}

func compile(raws []rawCheck) (*Catalog, error) {
	c := &Catalog{
		checks: make([]Check, 0, len(raws)),
		byID:   make(map[string]int, len(raws)),
	}
	for _, r := range raws {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, &InvalidCheckError{Reason: "missing id"}
		}
		if _, dup := c.byID[id]; dup {
			return nil, &DuplicateIDError{ID: id}
		}
		if r.Pattern == "" {
			return nil, &InvalidCheckError{ID: id, Reason: "missing pattern"}
		}
		category := strings.TrimSpace(r.Category)
		if category == "" {
			return nil, &InvalidCheckError{ID: id, Reason: "missing category"}
		}
		risk, err := ParseRiskLevel(r.RiskLevel)
		if err != nil {
			return nil, &InvalidCheckError{ID: id, Reason: err.Error()}
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, &PatternCompileError{ID: id, Pattern: r.Pattern, Err: err}
		}

		c.byID[id] = len(c.checks)
		c.checks = append(c.checks, Check{
			ID:          id,
			Pattern:     re,
			Description: r.Description,
			Risk:        risk,
			Category:    category,
		})
	}
	return c, nil
}

// Len returns the number of checks.
func (c *Catalog) Len() int { return len(c.checks) }

// All returns every check in catalog order.
func (c *Catalog) All() []Check {
	out := make([]Check, len(c.checks))
	copy(out, c.checks)
	return out
}

// Lookup returns the check with the given id.
func (c *Catalog) Lookup(id string) (Check, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Check{}, false
	}
	return c.checks[i], true
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ch := range c.checks {
		if !seen[ch.Category] {
			seen[ch.Category] = true
			out = append(out, ch.Category)
		}
	}
	return out
}

// HasCategory reports whether any check belongs to category.
func (c *Catalog) HasCategory(category string) bool {
	for _, ch := range c.checks {
		if ch.Category == category {
			return true
		}
	}
	return false
}
