package config

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// Settings represents the thread.yaml configuration.
type Settings struct {
	// Macros lists the invocation paths the source expander rewrites,
	// e.g. "thread" or "thread::thread".
	Macros []string `yaml:"macros,omitempty"`

	// BoundName is the closure parameter used by Some/Ok mapping.
	BoundName string `yaml:"bound_name,omitempty"`

	// Hygienic derives the mapping parameter from the macro body so it
	// cannot capture a user variable of the same name.
	Hygienic bool `yaml:"hygienic,omitempty"`

	// StrictPlacement rejects a placement keyword after a let alias
	// instead of ignoring it.
	StrictPlacement bool `yaml:"strict_placement,omitempty"`

	// MaxDepth bounds how many rounds of nested invocations are expanded.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Cache is the path of the sqlite expansion cache. Empty disables it.
	// Relative paths are resolved against the config file's directory.
	Cache string `yaml:"cache,omitempty"`

	// Pretty renders expansions over multiple lines.
	Pretty bool `yaml:"pretty,omitempty"`

	// Verify re-parses every expansion before it is spliced in.
	Verify bool `yaml:"verify,omitempty"`

	// Debug traces pipeline stages to stderr. Set from THREAD_DEBUG or -debug.
	Debug bool `yaml:"-"`

	// NoColor disables coloured diagnostics. Set from NO_COLOR.
	NoColor bool `yaml:"-"`

	// Path is the file the settings were loaded from, if any.
	Path string `yaml:"-"`
}

// Default returns the settings used when no config file exists.
func Default() *Settings {
	s := &Settings{}
	s.setDefaults()
	return s
}

// LoadConfig reads and parses a thread.yaml file.
func LoadConfig(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses thread.yaml content from bytes.
// The path argument is used for error messages and to resolve the cache path.
func ParseConfig(data []byte, path string) (*Settings, error) {
	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.validate(path); err != nil {
		return nil, err
	}
	s.setDefaults()
	s.Path = path
	if s.Cache != "" && !filepath.IsAbs(s.Cache) && path != "" {
		s.Cache = filepath.Join(filepath.Dir(path), s.Cache)
	}
	return &s, nil
}

// FindConfig searches for thread.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// LoadSettings resolves the effective settings for a run started in dir:
// THREAD_CONFIG names the file explicitly, otherwise FindConfig is used,
// and without a file the defaults apply. Environment overrides are
// applied last.
func LoadSettings(dir string) (*Settings, error) {
	path := env.Str(EnvConfig)
	if path == "" {
		found, err := FindConfig(dir)
		if err != nil {
			return nil, err
		}
		path = found
	}

	s := Default()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		s = loaded
	}
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	if env.Has(EnvCache) {
		s.Cache = env.Str(EnvCache)
	}
	if env.Has(EnvDepth) {
		s.MaxDepth = env.Int(EnvDepth, s.MaxDepth)
		if err := s.validate(EnvDepth); err != nil {
			return err
		}
	}
	s.Debug = s.Debug || env.Bool(EnvDebug)
	s.NoColor = s.NoColor || env.Has(EnvNoColor)
	return nil
}

// validate checks the configuration for semantic errors.
func (s *Settings) validate(path string) error {
	for i, m := range s.Macros {
		if m == "" {
			return fmt.Errorf("%s: macros[%d]: empty macro name", path, i)
		}
		for _, seg := range strings.Split(m, "::") {
			if !isIdent(seg) {
				return fmt.Errorf("%s: macros[%d]: %q is not a path of identifiers", path, i, m)
			}
		}
	}

	if s.BoundName != "" && !isIdent(s.BoundName) {
		return fmt.Errorf("%s: bound_name: %q is not an identifier", path, s.BoundName)
	}

	if s.MaxDepth < 0 || s.MaxDepth > MaxMaxDepth {
		return fmt.Errorf("%s: max_depth: %d is outside 0..%d", path, s.MaxDepth, MaxMaxDepth)
	}

	return nil
}

// setDefaults fills in default values for omitted fields.
func (s *Settings) setDefaults() {
	if len(s.Macros) == 0 {
		s.Macros = append([]string(nil), DefaultMacros...)
	}
	if s.BoundName == "" {
		s.BoundName = DefaultBoundName
	}
	if s.MaxDepth == 0 {
		s.MaxDepth = DefaultMaxDepth
	}
}

// Fingerprint identifies every setting that changes what an expansion
// renders to. Cache keys include it so a config change invalidates them.
func (s *Settings) Fingerprint() []byte {
	h := sha256.New()
	fmt.Fprintf(h, "v=%s\nbound=%s\nhygienic=%t\nstrict=%t\npretty=%t\n",
		Version, s.BoundName, s.Hygienic, s.StrictPlacement, s.Pretty)
	return h.Sum(nil)
}

func isIdent(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
