// Package symbols resolves the flat diagram namespace. Every declaration id
// is explicit; relation endpoints that never appear as a declaration become
// implicit nodes, recorded in first-use order.
package symbols

import (
	"fmt"

	"github.com/alvesvaren/trident/internal/ast"
	"github.com/alvesvaren/trident/internal/diag"
	"github.com/alvesvaren/trident/internal/source"
)

// Node is one resolved explicit declaration together with its group path
// (outermost first, empty for top-level declarations).
type Node struct {
	Decl *ast.Decl
	Path []*ast.Group
}

// Implicit is a relation endpoint with no matching declaration.
type Implicit struct {
	Name     string
	FirstUse source.Span
}

// Table is the resolved namespace of one document.
type Table struct {
	// Nodes holds explicit declarations in document order. Duplicates are
	// reported and dropped; the first declaration of an id wins.
	Nodes []*Node
	// Groups holds every group in document order, depth-first pre-order.
	Groups []*ast.Group
	// Implicits holds undeclared relation endpoints in first-use order.
	Implicits []Implicit

	byName     map[string]*Node
	implicitAt map[string]int
}

// Resolve builds the symbol table for a document. Duplicate declarations and
// duplicate named groups produce error diagnostics; implicit endpoints
// produce informational notices. The table is always usable.
func Resolve(doc *ast.Document, reporter diag.Reporter) *Table {
	t := &Table{
		byName:     make(map[string]*Node),
		implicitAt: make(map[string]int),
	}

	ast.WalkDecls(doc.Items, func(d *ast.Decl, path []*ast.Group) bool {
		if prev, dup := t.byName[d.Name]; dup {
			diag.ReportError(reporter, diag.SemDuplicateNode, d.NameSpan,
				fmt.Sprintf("duplicate declaration of %q; first declared as %s", d.Name, prev.Decl.Keyword))
			return true
		}
		n := &Node{Decl: d, Path: append([]*ast.Group(nil), path...)}
		t.byName[d.Name] = n
		t.Nodes = append(t.Nodes, n)
		return true
	})

	seenGroups := make(map[string]bool)
	ast.WalkGroups(doc.Items, func(g *ast.Group) bool {
		if g.Name != "" {
			if seenGroups[g.Name] {
				diag.ReportError(reporter, diag.SemDuplicateGroup, g.NameSpan,
					fmt.Sprintf("duplicate group %q", g.Name))
			}
			seenGroups[g.Name] = true
		}
		t.Groups = append(t.Groups, g)
		return true
	})

	ast.WalkRelations(doc.Items, func(r *ast.Relation) bool {
		t.noteEndpoint(reporter, r.From, r.FromSpan)
		t.noteEndpoint(reporter, r.To, r.ToSpan)
		return true
	})

	return t
}

func (t *Table) noteEndpoint(reporter diag.Reporter, name string, sp source.Span) {
	if _, declared := t.byName[name]; declared {
		return
	}
	if _, seen := t.implicitAt[name]; seen {
		return
	}
	t.implicitAt[name] = len(t.Implicits)
	t.Implicits = append(t.Implicits, Implicit{Name: name, FirstUse: sp})
	diag.ReportInfo(reporter, diag.SemImplicitNode, sp,
		fmt.Sprintf("%q is not declared; an implicit node will be created", name))
}

// Lookup returns the explicit node for an id, if declared.
func (t *Table) Lookup(name string) (*Node, bool) {
	n, ok := t.byName[name]
	return n, ok
}

// IsImplicit reports whether an id resolved to an implicit node.
func (t *Table) IsImplicit(name string) bool {
	_, ok := t.implicitAt[name]
	return ok
}

// Names returns every id in the namespace: explicit declarations in document
// order, then implicit nodes in first-use order.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.Nodes)+len(t.Implicits))
	for _, n := range t.Nodes {
		out = append(out, n.Decl.Name)
	}
	for _, im := range t.Implicits {
		out = append(out, im.Name)
	}
	return out
}
