package fixture

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hpkotak/shellfirm/internal/checks"
)

func defaultActive(t *testing.T) []checks.Check {
	t.Helper()
	c, err := checks.Default()
	if err != nil {
		t.Fatalf("checks.Default(): %v", err)
	}
	return c.All()
}

func TestBundledFixturesPass(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "checks", "testdata", "fixtures", "*.yaml"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no fixture files: %v", err)
	}
	active := defaultActive(t)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			fs, err := Load(file)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			reports, err := Verify(context.Background(), active, fs, 4)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			for _, r := range Failures(reports) {
				t.Errorf("%q: got %v, want %v", r.Fixture.Test, r.Got, r.Fixture.Expect)
			}
		})
	}
}

func TestVerifyKeepsInputOrder(t *testing.T) {
	fs := []Fixture{
		{Test: "ls", Expect: nil},
		{Test: "rm -rf /", Expect: []string{"fs:recursively_delete", "fs:delete_root"}},
		{Test: "git push -f", Expect: []string{"git:force_push"}},
		{Test: "echo hi", Expect: []string{"fs:shred"}},
	}

	reports, err := Verify(context.Background(), defaultActive(t), fs, 2)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(reports) != len(fs) {
		t.Fatalf("got %d reports, want %d", len(reports), len(fs))
	}
	for i, r := range reports {
		if r.Fixture.Test != fs[i].Test {
			t.Errorf("report %d is for %q, want %q", i, r.Fixture.Test, fs[i].Test)
		}
	}

	failed := Failures(reports)
	if len(failed) != 1 || failed[0].Fixture.Test != "echo hi" {
		t.Errorf("failures = %+v, want only the echo fixture", failed)
	}
}

func TestVerifyDefaultWorkers(t *testing.T) {
	reports, err := Verify(context.Background(), defaultActive(t), []Fixture{{Test: "ls"}}, 0)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !reports[0].Pass() {
		t.Errorf("report = %+v, want pass", reports[0])
	}
}

func TestVerifyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Verify(ctx, defaultActive(t), []Fixture{{Test: "ls"}}, 1); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestPassTreatsEmptyAsNone(t *testing.T) {
	r := Report{Fixture: Fixture{Test: "ls", Expect: []string{}}}
	if !r.Pass() {
		t.Error("nil result should equal an empty expectation")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Fixture
		wantErr string
	}{
		{
			name:    "valid",
			content: "- test: rm -rf /tmp\n  description: nested\n  expect: [\"fs:recursively_delete\"]\n",
			want:    []Fixture{{Test: "rm -rf /tmp", Description: "nested", Expect: []string{"fs:recursively_delete"}}},
		},
		{name: "malformed", content: "- test: [oops\n", wantErr: "parsing fixtures"},
		{name: "missing test", content: "- description: nothing\n", wantErr: "no test command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "fixtures.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := Load(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want substring %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
