// Package ast defines the parsed document tree. Every node keeps exact byte
// spans so diagnostics can point at source and the patcher can splice
// minimal edits.
package ast

import (
	"github.com/alvesvaren/trident/internal/arrow"
	"github.com/alvesvaren/trident/internal/source"
	"github.com/alvesvaren/trident/internal/token"
)

// LayoutAlgo names a layout algorithm selected by @layout.
type LayoutAlgo string

const (
	LayoutHierarchical LayoutAlgo = "hierarchical"
	LayoutGrid         LayoutAlgo = "grid"
)

// Document is the parse result: an ordered list of top-level items plus the
// document-level layout directive, if any.
type Document struct {
	File   source.FileID
	Items  []Item
	Layout LayoutAlgo // "" when no @layout directive is present
}

// Item is one parsed construct. Exactly one of the concrete types below.
type Item interface {
	Span() source.Span
	item()
}

// PosDirective is a parsed `@pos: (x, y)` line inside a body.
type PosDirective struct {
	X, Y int
	// LineSpan covers the whole directive line excluding the newline;
	// ValueSpan covers just "(x, y)".
	LineSpan  source.Span
	ValueSpan source.Span
}

// SizeDirective is a parsed `@width: n` or `@height: n` line.
type SizeDirective struct {
	Value     int
	LineSpan  source.Span
	ValueSpan source.Span
}

// Member is one opaque body line of a declaration (fields, methods,
// separators). The renderer interprets the text; the core only measures it.
type Member struct {
	Text string
	Span source.Span
}

// Decl is a node declaration: `[modifiers] kind IDENT ["Label"] [{ body }]`.
type Decl struct {
	Kind      token.NodeKind
	Keyword   string // kind keyword as written (enum, circle, ...)
	Modifiers []string
	Name      string
	Label     string
	HasLabel  bool

	Pos    *PosDirective
	Width  *SizeDirective
	Height *SizeDirective

	Members []Member

	NameSpan source.Span
	// HeaderSpan covers the declaration header line (modifiers through label
	// or `{`). FullSpan covers the header and body block when present.
	HeaderSpan source.Span
	FullSpan   source.Span
	// Body brace offsets; valid only when HasBody.
	HasBody bool
	LBrace  source.Span
	RBrace  source.Span
}

func (d *Decl) Span() source.Span { return d.FullSpan }
func (d *Decl) item()             {}

// Group is `group [IDENT] { items }`. Anonymous groups have Name == "".
type Group struct {
	Name     string
	Pos      *PosDirective
	Items    []Item
	NameSpan source.Span
	FullSpan source.Span
	LBrace   source.Span
	RBrace   source.Span
}

func (g *Group) Span() source.Span { return g.FullSpan }
func (g *Group) item()             {}

// Relation is `A --> B [: label]`.
type Relation struct {
	From     string
	To       string
	Arrow    arrow.Entry
	Label    string
	HasLabel bool

	FromSpan source.Span
	ToSpan   source.Span
	OpSpan   source.Span
	FullSpan source.Span
}

func (r *Relation) Span() source.Span { return r.FullSpan }
func (r *Relation) item()             {}

// Comment is a `%%` line or a blank line, preserved for round-trip fidelity.
type Comment struct {
	Text     string // text after %%, empty for blank lines
	FullSpan source.Span
}

func (c *Comment) Span() source.Span { return c.FullSpan }
func (c *Comment) item()             {}

// WalkDecls visits every declaration in document order, descending into
// groups. The visitor returns false to stop the walk.
func WalkDecls(items []Item, visit func(*Decl, []*Group) bool) {
	var path []*Group
	var walk func(items []Item) bool
	walk = func(items []Item) bool {
		for _, it := range items {
			switch n := it.(type) {
			case *Decl:
				if !visit(n, path) {
					return false
				}
			case *Group:
				path = append(path, n)
				if !walk(n.Items) {
					return false
				}
				path = path[:len(path)-1]
			}
		}
		return true
	}
	walk(items)
}

// WalkGroups visits every group in document order, depth-first pre-order.
func WalkGroups(items []Item, visit func(*Group) bool) {
	var walk func(items []Item) bool
	walk = func(items []Item) bool {
		for _, it := range items {
			if g, ok := it.(*Group); ok {
				if !visit(g) {
					return false
				}
				if !walk(g.Items) {
					return false
				}
			}
		}
		return true
	}
	walk(items)
}

// WalkRelations visits every relation in document order, descending into
// groups.
func WalkRelations(items []Item, visit func(*Relation) bool) {
	var walk func(items []Item) bool
	walk = func(items []Item) bool {
		for _, it := range items {
			switch n := it.(type) {
			case *Relation:
				if !visit(n) {
					return false
				}
			case *Group:
				if !walk(n.Items) {
					return false
				}
			}
		}
		return true
	}
	walk(items)
}

// FindDecl returns the first declaration with the given name, anywhere in
// the document.
func FindDecl(items []Item, name string) *Decl {
	var found *Decl
	WalkDecls(items, func(d *Decl, _ []*Group) bool {
		if d.Name == name {
			found = d
			return false
		}
		return true
	})
	return found
}

// FindGroup locates a group. Named lookup matches by name; anonymous lookup
// (name == "") matches the index-th anonymous group in traversal order.
func FindGroup(items []Item, name string, index int) *Group {
	var found *Group
	anon := 0
	WalkGroups(items, func(g *Group) bool {
		if name != "" {
			if g.Name == name {
				found = g
				return false
			}
			return true
		}
		if g.Name == "" {
			if anon == index {
				found = g
				return false
			}
			anon++
		}
		return true
	})
	return found
}
