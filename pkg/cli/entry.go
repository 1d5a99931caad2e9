package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/funvibe/thread/internal/cache"
	"github.com/funvibe/thread/internal/config"
	"github.com/funvibe/thread/internal/expander"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1 // diagnostics or I/O failure
	exitUsage = 2
)

// app holds one invocation of the command.
type app struct {
	name   string
	args   []string // without the program name and host-only flags
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	debug    bool
	settings *config.Settings
	cache    *cache.Cache
	color    bool
}

// Run executes the thread command with the process arguments and exits.
func Run() {
	os.Exit(Main(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// Main executes the thread command and returns its exit code.
func Main(argv []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if env.Bool(config.EnvDebug) {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(stderr, "Internal error: %v\n", r)
			fmt.Fprintln(stderr, "This is a bug. Please report it.")
			code = exitError
		}
	}()

	a := &app{name: "thread", stdin: stdin, stdout: stdout, stderr: stderr}
	if len(argv) > 0 {
		a.name = baseName(argv[0])
	}
	for _, arg := range argv[min(1, len(argv)):] {
		if arg == "-debug" || arg == "--debug" {
			a.debug = true
			continue
		}
		a.args = append(a.args, arg)
	}

	if len(a.args) == 0 {
		a.usage(a.stderr)
		return exitUsage
	}

	// Commands that need no settings
	if code, ok := a.handleVersion(); ok {
		return code
	}
	if code, ok := a.handleHelp(); ok {
		return code
	}

	if err := a.loadSettings(); err != nil {
		fmt.Fprintf(a.stderr, "Error: %s\n", err)
		return exitError
	}
	defer a.closeCache()

	handlers := []func() (int, bool){
		a.handleCache,
		a.handleEval,
		a.handleRepl,
		a.handleCheck,
		a.handleExpand,
	}
	for _, h := range handlers {
		if code, ok := h(); ok {
			return code
		}
	}

	fmt.Fprintf(a.stderr, "%s: unknown command %q\n", a.name, a.args[0])
	a.usage(a.stderr)
	return exitUsage
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		return "thread"
	}
	return path
}

// loadSettings resolves thread.yaml from the working directory.
func (a *app) loadSettings() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	s, err := config.LoadSettings(dir)
	if err != nil {
		return err
	}
	s.Debug = s.Debug || a.debug
	a.settings = s
	a.color = useColor(a.stderr, s)
	return nil
}

// openCache opens the configured expansion cache. A cache that cannot be
// opened is reported and skipped.
func (a *app) openCache() *cache.Cache {
	if a.cache != nil || a.settings.Cache == "" {
		return a.cache
	}
	c, err := cache.Open(a.settings.Cache)
	if err != nil {
		fmt.Fprintf(a.stderr, "Warning: cache disabled: %s\n", err)
		return nil
	}
	a.cache = c
	return c
}

func (a *app) closeCache() {
	if a.cache != nil {
		a.cache.Close()
		a.cache = nil
	}
}

// newExpander builds an expander over the loaded settings, wired to the
// cache and, in debug mode, to stderr for traces.
func (a *app) newExpander() *expander.Expander {
	e := expander.New(a.settings)
	e.Cache = a.openCache()
	if a.settings.Debug {
		e.Trace = a.stderr
	}
	return e
}

func (a *app) handleVersion() (int, bool) {
	if len(a.args) != 1 {
		return 0, false
	}
	switch a.args[0] {
	case "-v", "-version", "--version", "version":
		fmt.Fprintln(a.stdout, a.name+" "+config.Version)
		return exitOK, true
	}
	return 0, false
}

func (a *app) handleHelp() (int, bool) {
	switch a.args[0] {
	case "-h", "-help", "--help", "help":
		a.usage(a.stdout)
		return exitOK, true
	}
	return 0, false
}

func (a *app) usage(w io.Writer) {
	fmt.Fprintf(w, `%[1]s %[2]s: Clojure-style threading for Rust sources

Usage:
  %[1]s expand [-w] [-o FILE] [--pretty] [--verify] [PATH...]
                                 Expand invocations in files or directories
                                 (stdin when no path is given)
  %[1]s check [PATH...]           Report diagnostics without writing
  %[1]s -e BODY                   Expand a single macro body
  %[1]s repl                      Expand bodies interactively
  %[1]s cache stats|clear         Inspect or empty the expansion cache
  %[1]s -v                        Print the version

Flags:
  -debug                         Trace expansion stages to stderr

Settings are read from %[3]s, searched upwards from the working
directory, or from the file named by %[4]s.
`, a.name, config.Version, config.ConfigFileNames[0], config.EnvConfig)
}

func (a *app) handleCache() (int, bool) {
	if a.args[0] != "cache" {
		return 0, false
	}
	if len(a.args) != 2 {
		fmt.Fprintf(a.stderr, "usage: %s cache stats|clear\n", a.name)
		return exitUsage, true
	}
	if a.settings.Cache == "" {
		fmt.Fprintf(a.stderr, "Error: no cache configured (set `cache` in %s or %s)\n",
			config.ConfigFileNames[0], config.EnvCache)
		return exitError, true
	}
	c := a.openCache()
	if c == nil {
		return exitError, true
	}

	switch a.args[1] {
	case "stats":
		st, err := c.Stats()
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %s\n", err)
			return exitError, true
		}
		fmt.Fprintf(a.stdout, "path:    %s\n", st.Path)
		fmt.Fprintf(a.stdout, "entries: %d\n", st.Entries)
		fmt.Fprintf(a.stdout, "hits:    %d\n", st.Hits)
		fmt.Fprintf(a.stdout, "bytes:   %d\n", st.Bytes)
	case "clear":
		n, err := c.Clear()
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %s\n", err)
			return exitError, true
		}
		fmt.Fprintf(a.stdout, "removed %d entries\n", n)
	default:
		fmt.Fprintf(a.stderr, "%s cache: unknown subcommand %q\n", a.name, a.args[1])
		return exitUsage, true
	}
	return exitOK, true
}

// handleEval handles -e BODY
func (a *app) handleEval() (int, bool) {
	if a.args[0] != "-e" {
		return 0, false
	}
	if len(a.args) != 2 {
		fmt.Fprintf(a.stderr, "usage: %s -e BODY\n", a.name)
		return exitUsage, true
	}
	out, errs := a.newExpander().ExpandBody(a.args[1])
	if len(errs) > 0 {
		a.printDiagnostics(errs)
		return exitError, true
	}
	fmt.Fprintln(a.stdout, out)
	return exitOK, true
}
