// Package patch implements the incremental source mutations: every operation
// reparses the given text, locates the target's byte span, and splices the
// minimal substring. Nothing outside the touched span is reformatted, so
// comments, blank lines, and sibling declarations survive byte-for-byte.
package patch

import (
	"sort"

	"github.com/alvesvaren/trident/internal/ast"
	"github.com/alvesvaren/trident/internal/diag"
	"github.com/alvesvaren/trident/internal/parser"
	"github.com/alvesvaren/trident/internal/source"
)

// Edit replaces the span's text with NewText. A zero-length span inserts.
type Edit struct {
	Span    source.Span
	NewText string
}

// applyEdits splices edits into text, highest offset first so earlier spans
// stay valid. Edits must not overlap.
func applyEdits(text string, edits []Edit) string {
	if len(edits) == 0 {
		return text
	}
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Span.Start == edits[j].Span.Start {
			return edits[i].Span.End > edits[j].Span.End
		}
		return edits[i].Span.Start > edits[j].Span.Start
	})
	out := text
	for _, e := range edits {
		start, end := int(e.Span.Start), int(e.Span.End)
		if start < 0 || end < start || end > len(out) {
			continue
		}
		out = out[:start] + e.NewText + out[end:]
	}
	return out
}

// parseTarget reparses source for span lookup. Operations no-op when the
// parse reports errors: splicing against a broken tree risks mangling text
// the user is mid-way through typing.
func parseTarget(text string) (*ast.Document, *source.File, bool) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("patch.tri", []byte(text))
	bag := diag.NewBag(32)
	doc := parser.Parse(fs, id, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		return nil, nil, false
	}
	return doc, fs.Get(id), true
}

// lineIndent returns the whitespace prefix of the line containing off.
func lineIndent(f *source.File, off uint32) string {
	start := off
	for start > 0 && f.Content[start-1] != '\n' {
		start--
	}
	end := start
	for end < uint32(len(f.Content)) && (f.Content[end] == ' ' || f.Content[end] == '\t') {
		end++
	}
	return string(f.Content[start:end])
}

// lineDeleteSpan widens a line span to swallow the trailing newline, or the
// leading one for the last line of the file.
func lineDeleteSpan(f *source.File, line source.Span) source.Span {
	if int(line.End) < len(f.Content) && f.Content[line.End] == '\n' {
		line.End++
		return line
	}
	if line.Start > 0 && f.Content[line.Start-1] == '\n' {
		line.Start--
	}
	return line
}
