package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	s, err := ParseConfig(nil, "thread.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Macros) != len(DefaultMacros) || s.Macros[0] != "thread" {
		t.Errorf("macros = %v", s.Macros)
	}
	if s.BoundName != DefaultBoundName {
		t.Errorf("bound_name = %q", s.BoundName)
	}
	if s.MaxDepth != DefaultMaxDepth {
		t.Errorf("max_depth = %d", s.MaxDepth)
	}
	if s.Hygienic || s.StrictPlacement || s.Pretty || s.Verify {
		t.Errorf("flags should default to false: %+v", s)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
macros: [thread, pipe::thread]
bound_name: it
hygienic: true
strict_placement: true
max_depth: 4
cache: .cache/thread.db
pretty: true
verify: true
`)
	path := filepath.Join("/work", "proj", "thread.yaml")
	s, err := ParseConfig(data, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Macros) != 2 || s.Macros[1] != "pipe::thread" {
		t.Errorf("macros = %v", s.Macros)
	}
	if s.BoundName != "it" || !s.Hygienic || !s.StrictPlacement || !s.Pretty || !s.Verify {
		t.Errorf("unexpected settings %+v", s)
	}
	if s.MaxDepth != 4 {
		t.Errorf("max_depth = %d", s.MaxDepth)
	}
	if want := filepath.Join("/work", "proj", ".cache", "thread.db"); s.Cache != want {
		t.Errorf("cache = %q, want %q", s.Cache, want)
	}
	if s.Path != path {
		t.Errorf("path = %q", s.Path)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		substr string
	}{
		{"unknown field", "bound: i\n", "field bound not found"},
		{"bad macro", "macros: [\"thread!\"]\n", "not a path of identifiers"},
		{"empty macro", "macros: [\"\"]\n", "empty macro name"},
		{"bad bound name", "bound_name: 1x\n", "not an identifier"},
		{"underscore bound name", "bound_name: _\n", "not an identifier"},
		{"depth out of range", "max_depth: 1000\n", "outside 0..256"},
		{"negative depth", "max_depth: -1\n", "outside"},
		{"malformed", "macros: [\n", "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), "thread.yaml")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("expected error containing %q, got %v", tt.substr, err)
			}
		})
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(root, "thread.yml")
	if err := os.WriteFile(cfg, []byte("pretty: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != cfg {
		t.Errorf("found %q, want %q", found, cfg)
	}

	s, err := LoadConfig(found)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Pretty {
		t.Error("pretty should be set from the file")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()
	if !bytes.Equal(a.Fingerprint(), b.Fingerprint()) {
		t.Error("equal settings should share a fingerprint")
	}

	b.Hygienic = true
	if bytes.Equal(a.Fingerprint(), b.Fingerprint()) {
		t.Error("hygienic should change the fingerprint")
	}

	c := Default()
	c.MaxDepth = 3
	c.Verify = true
	if !bytes.Equal(a.Fingerprint(), c.Fingerprint()) {
		t.Error("max_depth and verify do not change what an expansion renders to")
	}
}
