package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/alvesvaren/trident/internal/diag"
	"github.com/alvesvaren/trident/internal/source"
)

// Pretty renders diagnostics for a terminal: a header line per diagnostic,
// the offending source line, and a caret underline over the span. The bag
// should be sorted beforehand.
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	    class A {
//	    ^~~~~~~~~
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeDiagnostic(w, fs, d.Severity, d.Code.ID(), d.Primary, d.Message, opts)
		if opts.ShowNotes {
			for _, note := range d.Notes {
				writeDiagnostic(w, fs, diag.SevInfo, "note", note.Span, note.Msg, opts)
			}
		}
	}
}

func writeDiagnostic(w io.Writer, fs *source.FileSet, sev diag.Severity, code string, span source.Span, msg string, opts PrettyOpts) {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)

	path := f.Path
	if opts.PathMode == PathModeBasename {
		path = filepath.Base(path)
	}

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		paint(sevColor(sev), sev.String(), opts.Color),
		paint(color.FgHiWhite, code, opts.Color),
		msg)

	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)

	underlineLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		underlineLen = int(end.Col - start.Col)
	} else if end.Line > start.Line {
		underlineLen = len(line) - int(start.Col) + 1
	}
	if underlineLen < 1 {
		underlineLen = 1
	}
	underline := "^" + strings.Repeat("~", underlineLen-1)
	fmt.Fprintf(w, "    %s%s\n",
		strings.Repeat(" ", int(start.Col-1)),
		paint(sevColor(sev), underline, opts.Color))
}

func sevColor(sev diag.Severity) color.Attribute {
	switch sev {
	case diag.SevError:
		return color.FgRed
	case diag.SevWarning:
		return color.FgYellow
	default:
		return color.FgCyan
	}
}

func paint(attr color.Attribute, s string, enabled bool) string {
	if !enabled {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}
