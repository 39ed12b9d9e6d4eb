package checks

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("bundled catalog is empty")
	}

	seen := make(map[string]bool)
	for _, ch := range c.All() {
		if seen[ch.ID] {
			t.Errorf("duplicate id %q in bundled catalog", ch.ID)
		}
		seen[ch.ID] = true
		if ch.Description == "" {
			t.Errorf("check %q has no description", ch.ID)
		}
		if !strings.HasPrefix(ch.ID, ch.Category+":") {
			t.Errorf("check %q is not prefixed with its category %q", ch.ID, ch.Category)
		}
	}

	for _, want := range []string{"base", "fs", "git", "kubernetes", "docker", "network"} {
		if !c.HasCategory(want) {
			t.Errorf("bundled catalog missing category %q", want)
		}
	}
}

func TestDefaultIsIdempotent(t *testing.T) {
	a, err := Default()
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	b, err := Default()
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if got, want := IDs(b.All()), IDs(a.All()); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("second load ids = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	doc := `
- id: demo:one
  pattern: 'one\s'
  description: first
  risk_level: High
  category: demo
- id: demo:two
  pattern: two
  description: second
  risk_level: low
  category: demo
`
	c, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	one, ok := c.Lookup("demo:one")
	if !ok {
		t.Fatal("Lookup(demo:one) not found")
	}
	if one.Risk != High {
		t.Errorf("risk = %v, want high", one.Risk)
	}
	if !one.Pattern.MatchString("one two") {
		t.Error("compiled pattern does not match")
	}
	if _, ok := c.Lookup("demo:missing"); ok {
		t.Error("Lookup(demo:missing) should not be found")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		check   func(error) bool
		wantErr string
	}{
		{
			name: "duplicate id",
			doc: `
- {id: "a:x", pattern: x, description: d, risk_level: low, category: a}
- {id: "a:x", pattern: y, description: d, risk_level: low, category: a}
`,
			check: func(err error) bool {
				var dup *DuplicateIDError
				return errors.As(err, &dup) && dup.ID == "a:x"
			},
			wantErr: "duplicate check id",
		},
		{
			name: "bad pattern",
			doc:  `- {id: "a:x", pattern: '(unclosed', description: d, risk_level: low, category: a}`,
			check: func(err error) bool {
				var pce *PatternCompileError
				return errors.As(err, &pce) && pce.ID == "a:x" && pce.Unwrap() != nil
			},
			wantErr: "compiling pattern",
		},
		{
			name: "unknown risk level",
			doc:  `- {id: "a:x", pattern: x, description: d, risk_level: extreme, category: a}`,
			check: func(err error) bool {
				var inv *InvalidCheckError
				return errors.As(err, &inv)
			},
			wantErr: "unknown risk level",
		},
		{
			name: "missing id",
			doc:  `- {pattern: x, description: d, risk_level: low, category: a}`,
			check: func(err error) bool {
				var inv *InvalidCheckError
				return errors.As(err, &inv)
			},
			wantErr: "missing id",
		},
		{
			name: "missing category",
			doc:  `- {id: "a:x", pattern: x, description: d, risk_level: low}`,
			check: func(err error) bool {
				var inv *InvalidCheckError
				return errors.As(err, &inv)
			},
			wantErr: "missing category",
		},
		{
			name:    "unknown field",
			doc:     `- {id: "a:x", pattern: x, description: d, risk_level: low, category: a, severity: 3}`,
			check:   func(err error) bool { return err != nil },
			wantErr: "severity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatalf("expected error, got catalog with %d checks", c.Len())
			}
			if !tt.check(err) {
				t.Errorf("error %v (%T) has the wrong type", err, err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestLoadDuplicateAcrossFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(`- {id: "dup:x", pattern: x, description: d, risk_level: low, category: dup}`)},
		"b.yaml": {Data: []byte(`- {id: "dup:x", pattern: y, description: d, risk_level: high, category: dup}`)},
		"c.txt":  {Data: []byte(`not a catalog`)},
	}

	_, err := Load(fsys)
	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("Load() error = %v, want DuplicateIDError", err)
	}
}

func TestLoadKeepsFileOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"b.yaml": {Data: []byte(`- {id: "b:1", pattern: x, description: d, risk_level: low, category: b}`)},
		"a.yaml": {Data: []byte(`- {id: "a:1", pattern: x, description: d, risk_level: low, category: a}`)},
	}

	c, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got := strings.Join(IDs(c.All()), ",")
	if got != "a:1,b:1" {
		t.Errorf("ids = %s, want a:1,b:1", got)
	}
	if cats := strings.Join(c.Categories(), ","); cats != "a,b" {
		t.Errorf("Categories() = %s, want a,b", cats)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c, err := Parse([]byte(`- {id: "a:x", pattern: x, description: d, risk_level: low, category: a}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	all := c.All()
	all[0].ID = "mutated"
	if _, ok := c.Lookup("a:x"); !ok {
		t.Error("mutating All() result changed the catalog")
	}
	if c.All()[0].ID != "a:x" {
		t.Error("catalog order entry was mutated")
	}
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		in   string
		want RiskLevel
	}{
		{"low", Low},
		{"Medium", Medium},
		{" HIGH ", High},
	}
	for _, tt := range tests {
		got, err := ParseRiskLevel(tt.in)
		if err != nil {
			t.Errorf("ParseRiskLevel(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRiskLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseRiskLevel("critical"); err == nil {
		t.Error("ParseRiskLevel(critical) expected error")
	}
	if RiskLevel(42).String() != "unknown" {
		t.Errorf("RiskLevel(42).String() = %q, want unknown", RiskLevel(42).String())
	}
	if !(Low < Medium && Medium < High) {
		t.Error("risk levels are not ordered low < medium < high")
	}
}
