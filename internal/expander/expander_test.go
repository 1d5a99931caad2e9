package expander

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/funvibe/thread/internal/cache"
	"github.com/funvibe/thread/internal/config"
	"github.com/funvibe/thread/internal/diagnostics"
)

// Each archive in testdata holds cases as `-- name.rs --` sections with an
// optional `name.yaml` settings section and either a `name.out` section
// (the whole expanded file) or a `name.err` section (the diagnostics).
func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no golden files found")
	}
	for _, file := range files {
		ar, err := txtar.ParseFile(file)
		if err != nil {
			t.Fatal(err)
		}
		sections := make(map[string]string, len(ar.Files))
		for _, f := range ar.Files {
			sections[f.Name] = string(f.Data)
		}
		for _, f := range ar.Files {
			name, ok := strings.CutSuffix(f.Name, ".rs")
			if !ok {
				continue
			}
			t.Run(filepath.Base(file)+"/"+name, func(t *testing.T) {
				runGolden(t, sections, name)
			})
		}
	}
}

func runGolden(t *testing.T, sections map[string]string, name string) {
	t.Helper()
	settings := config.Default()
	if data, ok := sections[name+".yaml"]; ok {
		var err error
		settings, err = config.ParseConfig([]byte(data), name+".yaml")
		if err != nil {
			t.Fatalf("bad settings: %v", err)
		}
	}

	e := New(settings)
	res, errs := e.ExpandSource(name+".rs", sections[name+".rs"])

	if wantErr, ok := sections[name+".err"]; ok {
		if len(errs) == 0 {
			t.Fatalf("expected errors, got:\n%s", res.Source)
		}
		if got := strings.TrimSpace(diagnostics.Join(errs)); got != strings.TrimSpace(wantErr) {
			t.Errorf("error mismatch\n got: %s\nwant: %s", got, strings.TrimSpace(wantErr))
		}
		return
	}
	if len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", diagnostics.Join(errs))
	}
	if want := sections[name+".out"]; res.Source != want {
		t.Errorf("expansion mismatch\n got:\n%s\nwant:\n%s", res.Source, want)
	}
}

// ---------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------

func TestResultCounts(t *testing.T) {
	e := New(nil)
	res, errs := e.ExpandSource("", "a(thread!(x in f(thread!(y in g))));\nb(thread![z in h]);\n")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", diagnostics.Join(errs))
	}
	if want := "a(f(x, g(y)));\nb(h(z));\n"; res.Source != want {
		t.Errorf("got %q, want %q", res.Source, want)
	}
	if res.Expanded != 3 || res.Rounds != 2 || res.Cached != 0 {
		t.Errorf("unexpected counts %+v", res)
	}
	if !res.Changed() {
		t.Error("result should report a change")
	}
}

func TestNoInvocations(t *testing.T) {
	src := "fn main() { println!(\"{}\", 1); }\n"
	res, errs := New(nil).ExpandSource("main.rs", src)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", diagnostics.Join(errs))
	}
	if res.Source != src || res.Changed() || res.Rounds != 0 {
		t.Errorf("source should be untouched: %+v", res)
	}
}

func TestExpandBody(t *testing.T) {
	e := New(nil)
	got, errs := e.ExpandBody("x in f(thread!(y in g)), h")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", diagnostics.Join(errs))
	}
	if got != "h(f(x, g(y)))" {
		t.Errorf("got %q", got)
	}

	_, errs = e.ExpandBody("x in")
	if len(errs) != 1 || errs[0].Code != diagnostics.ErrT002 {
		t.Fatalf("expected T002, got %v", errs)
	}
	if errs[0].Token.Line != 1 || errs[0].Token.Column != 5 {
		t.Errorf("body errors keep body positions, got %d:%d", errs[0].Token.Line, errs[0].Token.Column)
	}
}

// ---------------------------------------------------------------------
// Cache
// ---------------------------------------------------------------------

func TestCacheIsConsulted(t *testing.T) {
	c, err := cache.Open(cache.MemoryPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	e := New(nil)
	e.Cache = c
	src := "let a = thread!(x in f, g);\nlet b = thread!(x in f, g);\n"

	res, errs := e.ExpandSource("a.rs", src)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", diagnostics.Join(errs))
	}
	if res.Expanded != 2 || res.Cached != 1 {
		t.Errorf("the second identical body should hit the cache: %+v", res)
	}

	res, _ = e.ExpandSource("a.rs", src)
	if res.Cached != 2 {
		t.Errorf("a second run should be served from the cache: %+v", res)
	}
	if want := "let a = g(f(x));\nlet b = g(f(x));\n"; res.Source != want {
		t.Errorf("got %q", res.Source)
	}

	st, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 1 || st.Hits != 3 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestCacheKeyedOnSettings(t *testing.T) {
	c, err := cache.Open(cache.MemoryPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	plain := New(nil)
	plain.Cache = c
	if _, errs := plain.ExpandSource("", "thread!(Some x in f)"); len(errs) > 0 {
		t.Fatal(diagnostics.Join(errs))
	}

	s := config.Default()
	s.BoundName = "v"
	renamed := New(s)
	renamed.Cache = c
	res, errs := renamed.ExpandSource("", "thread!(Some x in f)")
	if len(errs) > 0 {
		t.Fatal(diagnostics.Join(errs))
	}
	if res.Cached != 0 || res.Source != "x.map(|v| f(v))" {
		t.Errorf("changed settings must not reuse an entry: %+v", res)
	}
}

// ---------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------

func TestVerify(t *testing.T) {
	s := config.Default()
	s.Verify = true
	res, errs := New(s).ExpandSource("", "thread!(let Cond(a) = x in a > 0 => f, true => g(a, 1))")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", diagnostics.Join(errs))
	}
	if !res.Changed() {
		t.Error("expected an expansion")
	}
	if err := New(s).verify("f(x"); err == nil {
		t.Error("verify should reject malformed output")
	}
}

func TestVerifyChecksCachedOutput(t *testing.T) {
	c, err := cache.Open(cache.MemoryPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	s := config.Default()
	body := "x in f"
	if err := c.Put(cache.Key(s.Fingerprint(), body), "f(x"); err != nil {
		t.Fatal(err)
	}

	lenient := New(s)
	lenient.Cache = c
	res, errs := lenient.ExpandSource("", "thread!(x in f)")
	if len(errs) > 0 {
		t.Fatal(diagnostics.Join(errs))
	}
	if res.Cached != 1 || res.Source != "f(x" {
		t.Fatalf("without verify the stored entry is used as is: %+v", res)
	}

	strict := *s
	strict.Verify = true
	e := New(&strict)
	e.Cache = c
	_, errs = e.ExpandSource("a.rs", "thread!(x in f)")
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "does not parse back") {
		t.Fatalf("a malformed cached entry must fail verification, got %v", errs)
	}
}

func TestGroupInStatementPosition(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"thread!(let a = x in f).len();", "({ let a = x; let a = f(a); a }).len();"},
		{"thread!(x in if c { f } else { g });", "(if c { f } else { g }(x));"},
		{"thread!(let a = x in f);", "{ let a = x; let a = f(a); a };"},
		{"thread!(let a = x in f)", "{ let a = x; let a = f(a); a }"},
		{"{ thread!(Cond x in c => f) }", "{ { if c { f(x) } else { x } } }"},
		{"thread!(x in f).len();", "f(x).len();"},
		{"let n = thread!(let a = x in f).len();", "let n = { let a = x; let a = f(a); a }.len();"},
		{"g(thread!(let a = x in f));", "g({ let a = x; let a = f(a); a });"},
	}
	for _, tt := range tests {
		res, errs := New(nil).ExpandSource("", tt.src)
		if len(errs) > 0 {
			t.Fatalf("%s: %s", tt.src, diagnostics.Join(errs))
		}
		if res.Source != tt.want {
			t.Errorf("%s\n got: %s\nwant: %s", tt.src, res.Source, tt.want)
		}
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	e := New(nil)
	e.Trace = &buf
	if _, errs := e.ExpandSource("t.rs", "thread!(x in f)"); len(errs) > 0 {
		t.Fatal(diagnostics.Join(errs))
	}
	out := buf.String()
	if !strings.Contains(out, "[expander] t.rs: round 1, 1 invocation(s)") {
		t.Errorf("missing round trace in %q", out)
	}
	if !strings.Contains(out, "[pipeline]") {
		t.Errorf("missing pipeline trace in %q", out)
	}
}

// ---------------------------------------------------------------------
// Positions
// ---------------------------------------------------------------------

func TestPosition(t *testing.T) {
	src := "ab\nçé x\n"
	tests := []struct {
		off       int
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{8, 2, 4}, // x, after two 2-byte runes and a space
	}
	for _, tt := range tests {
		line, col := position(src, tt.off)
		if line != tt.line || col != tt.col {
			t.Errorf("position(%d) = %d:%d, want %d:%d", tt.off, line, col, tt.line, tt.col)
		}
	}
}

func TestLineIndent(t *testing.T) {
	src := "fn f() {\n\t  let a = thread!(x in f);\n}"
	off := strings.Index(src, "thread")
	if got := lineIndent(src, off); got != "\t  " {
		t.Errorf("got %q", got)
	}
	if got := lineIndent("thread!(x in f)", 0); got != "" {
		t.Errorf("got %q", got)
	}
}
