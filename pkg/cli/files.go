package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/thread/internal/config"
	"github.com/funvibe/thread/internal/expander"
)

const stdinName = "<stdin>"

// fileOptions are the flags of the expand and check commands.
type fileOptions struct {
	write  bool
	output string
	paths  []string
}

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// skipDir reports directories never walked for sources: hidden ones and
// cargo build output.
func skipDir(name string) bool {
	return name == "target" || (len(name) > 1 && strings.HasPrefix(name, "."))
}

// collectFiles expands directory arguments into the source files below
// them. Explicit file arguments are kept whatever their extension.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if isSourceFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// parseFileArgs reads the flags shared by expand and check.
func (a *app) parseFileArgs(args []string, allowWrite bool) (*fileOptions, error) {
	opts := &fileOptions{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-w" && allowWrite:
			opts.write = true
		case arg == "-o" && allowWrite:
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-o requires a file")
			}
			i++
			opts.output = args[i]
		case arg == "--pretty" || arg == "-pretty":
			a.settings.Pretty = true
		case arg == "--verify" || arg == "-verify":
			a.settings.Verify = true
		case arg == "--":
			opts.paths = append(opts.paths, args[i+1:]...)
			i = len(args)
		case strings.HasPrefix(arg, "-") && arg != "-":
			return nil, fmt.Errorf("unknown flag %s", arg)
		default:
			opts.paths = append(opts.paths, arg)
		}
	}
	if opts.write && opts.output != "" {
		return nil, fmt.Errorf("-w and -o cannot be combined")
	}
	return opts, nil
}

func (a *app) handleExpand() (int, bool) {
	if a.args[0] != "expand" {
		return 0, false
	}
	opts, err := a.parseFileArgs(a.args[1:], true)
	if err != nil {
		fmt.Fprintf(a.stderr, "%s expand: %s\n", a.name, err)
		return exitUsage, true
	}
	return a.runFiles(opts, true), true
}

func (a *app) handleCheck() (int, bool) {
	if a.args[0] != "check" {
		return 0, false
	}
	opts, err := a.parseFileArgs(a.args[1:], false)
	if err != nil {
		fmt.Fprintf(a.stderr, "%s check: %s\n", a.name, err)
		return exitUsage, true
	}
	return a.runFiles(opts, false), true
}

// runFiles expands every input. With emit unset only diagnostics are
// reported.
func (a *app) runFiles(opts *fileOptions, emit bool) int {
	e := a.newExpander()

	if len(opts.paths) == 0 || (len(opts.paths) == 1 && opts.paths[0] == "-") {
		if opts.write {
			fmt.Fprintf(a.stderr, "%s: -w needs file arguments\n", a.name)
			return exitUsage
		}
		src, err := io.ReadAll(a.stdin)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error reading input: %s\n", err)
			return exitError
		}
		return a.runOne(e, stdinName, string(src), opts, emit)
	}

	files, err := collectFiles(opts.paths)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %s\n", err)
		return exitError
	}
	if opts.output != "" && len(files) != 1 {
		fmt.Fprintf(a.stderr, "%s: -o needs exactly one input file, got %d\n", a.name, len(files))
		return exitUsage
	}

	code := exitOK
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error reading input: %s\n", err)
			code = exitError
			continue
		}
		if c := a.runOne(e, file, string(src), opts, emit); c != exitOK {
			code = c
		}
	}
	return code
}

func (a *app) runOne(e *expander.Expander, path, src string, opts *fileOptions, emit bool) int {
	res, errs := e.ExpandSource(path, src)
	if len(errs) > 0 {
		a.printDiagnostics(errs)
		return exitError
	}
	if a.settings.Debug {
		fmt.Fprintf(a.stderr, "%s: %d expanded (%d cached) in %d round(s)\n",
			path, res.Expanded, res.Cached, res.Rounds)
	}
	if !emit {
		return exitOK
	}

	switch {
	case opts.write:
		if !res.Changed() {
			return exitOK
		}
		if err := writeFile(path, res.Source); err != nil {
			fmt.Fprintf(a.stderr, "Error: %s\n", err)
			return exitError
		}
	case opts.output != "":
		if err := writeFile(opts.output, res.Source); err != nil {
			fmt.Fprintf(a.stderr, "Error: %s\n", err)
			return exitError
		}
	default:
		io.WriteString(a.stdout, res.Source)
	}
	return exitOK
}

// writeFile replaces path, keeping the mode of an existing file.
func writeFile(path, content string) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, []byte(content), mode)
}
