package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/xyproto/env/v2"

	"github.com/funvibe/thread/internal/config"
	"github.com/funvibe/thread/internal/diagnostics"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
)

// useColor reports whether diagnostics written to w may carry ANSI colours.
func useColor(w io.Writer, s *config.Settings) bool {
	if s.NoColor || env.Str("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) paint(code, s string) string {
	if !a.color {
		return s
	}
	return code + s + ansiReset
}

// formatDiagnostic renders err like DiagnosticError.Error, colouring the
// location and the code on a terminal.
func (a *app) formatDiagnostic(err *diagnostics.DiagnosticError) string {
	loc := fmt.Sprintf("%d:%d", err.Token.Line, err.Token.Column)
	if err.File != "" {
		loc = err.File + ":" + loc
	}
	return fmt.Sprintf("%s: %s %s", a.paint(ansiBold, loc), a.paint(ansiRed, "["+string(err.Code)+"]"), err.Message)
}

func (a *app) printDiagnostics(errs []*diagnostics.DiagnosticError) {
	for _, err := range errs {
		fmt.Fprintln(a.stderr, a.formatDiagnostic(err))
	}
}
