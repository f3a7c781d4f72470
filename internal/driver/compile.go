package driver

import (
	"github.com/alvesvaren/trident/internal/ast"
	"github.com/alvesvaren/trident/internal/diag"
	"github.com/alvesvaren/trident/internal/layout"
	"github.com/alvesvaren/trident/internal/parser"
	"github.com/alvesvaren/trident/internal/source"
	"github.com/alvesvaren/trident/internal/symbols"
)

// Compile runs the whole pipeline on one source string with default layout
// settings. The result is always non-nil; parse errors fill Error while the
// element slices still carry everything recovered from the source.
func Compile(text string) *Diagram {
	return CompileWith(text, layout.DefaultConfig())
}

// CompileWith is Compile with explicit layout configuration, used when a
// trident.toml manifest overrides spacing or sizes.
func CompileWith(text string, cfg layout.Config) *Diagram {
	return CompileWithAlgo(text, cfg, layout.Hierarchical)
}

// CompileWithAlgo additionally sets the algorithm used when the document
// carries no @layout directive. An in-document directive always wins.
func CompileWithAlgo(text string, cfg layout.Config, fallback layout.Algo) *Diagram {
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.tri", []byte(text))
	bag := diag.NewBag(128)
	reporter := diag.BagReporter{Bag: bag}

	doc := parser.Parse(fs, id, reporter)
	tbl := symbols.Resolve(doc, reporter)

	out := &Diagram{
		Groups:        []GroupOutput{},
		Nodes:         []NodeOutput{},
		Edges:         []EdgeOutput{},
		ImplicitNodes: []string{},
	}

	// Parse errors do not blank the diagram: the parser recovers line by
	// line, so the partial document still lays out. Error carries the first
	// problem for the host to surface.
	if bag.HasErrors() {
		bag.Sort()
		d, _ := bag.FirstError()
		info := errorInfo(fs, d)
		out.Error = &info
	}

	algo := fallback
	switch doc.Layout {
	case ast.LayoutGrid:
		algo = layout.Grid
	case ast.LayoutHierarchical:
		algo = layout.Hierarchical
	}
	res := layout.Compute(doc, tbl, algo, cfg)

	for _, n := range res.Nodes {
		out.Nodes = append(out.Nodes, NodeOutput{
			ID:        n.ID,
			Kind:      n.Kind,
			Modifiers: modifiers(n.Modifiers),
			Label:     n.Label,
			Bounds: layout.Rect{
				X: n.ParentOffset.X + n.Local.X,
				Y: n.ParentOffset.Y + n.Local.Y,
				W: n.Local.W,
				H: n.Local.H,
			},
			HasPos:       n.HasPos,
			ParentOffset: n.ParentOffset,
			Explicit:     n.Explicit,
		})
	}
	for _, g := range res.Groups {
		if g.Name == "" {
			continue
		}
		out.Groups = append(out.Groups, GroupOutput{
			ID: g.Name,
			Bounds: layout.Rect{
				X: g.ParentOffset.X + g.Local.X,
				Y: g.ParentOffset.Y + g.Local.Y,
				W: g.Local.W,
				H: g.Local.H,
			},
		})
	}
	ast.WalkRelations(doc.Items, func(r *ast.Relation) bool {
		out.Edges = append(out.Edges, EdgeOutput{
			From:  r.From,
			To:    r.To,
			Arrow: r.Arrow,
			Label: r.Label,
		})
		return true
	})
	for _, im := range tbl.Implicits {
		out.ImplicitNodes = append(out.ImplicitNodes, im.Name)
	}

	return out
}

// Analyze parses and resolves text registered under path, returning the raw
// diagnostic bag and file set for formatter use. The bag comes back sorted
// and deduplicated.
func Analyze(path, text string) (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(text))
	bag := diag.NewBag(128)
	reporter := diag.BagReporter{Bag: bag}

	doc := parser.Parse(fs, id, reporter)
	symbols.Resolve(doc, reporter)
	bag.Sort()
	bag.Dedup()
	return bag, fs
}

// Diagnostics reparses and resolves the source, returning every diagnostic
// (errors and implicit-node notices) with 1-based positions.
func Diagnostics(text string) []DiagnosticInfo {
	bag, fs := Analyze("input.tri", text)

	out := make([]DiagnosticInfo, 0, bag.Len())
	for _, d := range bag.Items() {
		start, end := fs.Resolve(d.Primary)
		out = append(out, DiagnosticInfo{
			Severity:  d.Severity.String(),
			Code:      d.Code.ID(),
			Message:   d.Message,
			Line:      start.Line,
			Column:    start.Col,
			EndLine:   end.Line,
			EndColumn: endColumn(start, end),
		})
	}
	return out
}

func errorInfo(fs *source.FileSet, d diag.Diagnostic) ErrorInfo {
	start, end := fs.Resolve(d.Primary)
	return ErrorInfo{
		Message:   d.Message,
		Line:      start.Line,
		Column:    start.Col,
		EndLine:   end.Line,
		EndColumn: endColumn(start, end),
	}
}

// endColumn widens zero-width spans so hosts always highlight at least one
// character.
func endColumn(start, end source.LineCol) uint32 {
	if end.Line == start.Line && end.Col <= start.Col {
		return start.Col + 1
	}
	return end.Col
}

// modifiers normalizes nil to an empty slice so the JSON stays `[]`.
func modifiers(m []string) []string {
	if m == nil {
		return []string{}
	}
	return m
}
