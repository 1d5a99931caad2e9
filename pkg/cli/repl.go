package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/funvibe/thread/internal/config"
	"github.com/funvibe/thread/internal/expander"
)

const (
	historyFile = ".thread_history"
	promptMain  = "thread> "
)

func (a *app) handleRepl() (int, bool) {
	if a.args[0] != "repl" {
		return 0, false
	}
	fmt.Fprintf(a.stdout, "%s %s. Type a macro body, :pretty to toggle layout, :quit to exit.\n", a.name, config.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	e := a.newExpander()
	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(a.stdout)
			return exitOK, true
		}
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %s\n", err)
			return exitError, true
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if !a.replLine(e, line) {
			return exitOK, true
		}
	}
}

// replLine handles one REPL input and reports whether to keep going.
func (a *app) replLine(e *expander.Expander, line string) bool {
	switch strings.TrimSpace(line) {
	case ":quit", ":q":
		return false
	case ":pretty":
		a.settings.Pretty = !a.settings.Pretty
		fmt.Fprintf(a.stdout, "pretty: %t\n", a.settings.Pretty)
		return true
	}
	if strings.HasPrefix(strings.TrimSpace(line), ":") {
		fmt.Fprintln(a.stdout, "unknown command. Type :quit to exit.")
		return true
	}

	out, errs := e.ExpandBody(line)
	if len(errs) > 0 {
		a.printDiagnostics(errs)
		return true
	}
	fmt.Fprintln(a.stdout, out)
	return true
}
