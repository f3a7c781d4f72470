package driver

import (
	"strings"

	"github.com/alvesvaren/trident/internal/ast"
	"github.com/alvesvaren/trident/internal/diag"
	"github.com/alvesvaren/trident/internal/parser"
	"github.com/alvesvaren/trident/internal/source"
	"github.com/alvesvaren/trident/internal/symbols"
	"github.com/alvesvaren/trident/internal/token"
)

// Symbols returns every id in the source: declarations in document order,
// named groups, then implicit relation endpoints. When the parse reports
// errors it degrades to a line-scanning heuristic so completion keeps
// working while the user types.
func Symbols(text string) []string {
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.tri", []byte(text))
	bag := diag.NewBag(128)
	doc := parser.Parse(fs, id, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		return scanSymbols(text)
	}

	tbl := symbols.Resolve(doc, diag.NopReporter{})
	out := make([]string, 0, len(tbl.Nodes)+len(tbl.Groups)+len(tbl.Implicits))
	seen := make(map[string]bool)
	push := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, n := range tbl.Nodes {
		push(n.Decl.Name)
	}
	ast.WalkGroups(doc.Items, func(g *ast.Group) bool {
		push(g.Name)
		return true
	})
	for _, im := range tbl.Implicits {
		push(im.Name)
	}
	return out
}

// scanSymbols is the best-effort fallback: it looks for a kind keyword per
// line and takes the identifier that follows, plus group headers.
func scanSymbols(text string) []string {
	var out []string
	seen := make(map[string]bool)
	push := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "%%") {
			continue
		}
		words := strings.Fields(trimmed)
		if len(words) < 2 {
			continue
		}
		for i, w := range words {
			if token.IsKindKeyword(w) && i+1 < len(words) {
				push(identPrefix(words[i+1]))
				break
			}
		}
		if words[0] == "group" && words[1] != "{" {
			push(identPrefix(words[1]))
		}
	}
	return out
}

// identPrefix keeps the leading identifier characters of a word, stripping
// trailing punctuation like `{`.
func identPrefix(w string) string {
	end := 0
	for end < len(w) && token.IsIdentByte(w[end]) {
		end++
	}
	return w[:end]
}
