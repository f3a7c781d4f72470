package parser_test

import (
	"strings"
	"testing"

	"github.com/alvesvaren/trident/internal/ast"
	"github.com/alvesvaren/trident/internal/diag"
	"github.com/alvesvaren/trident/internal/parser"
	"github.com/alvesvaren/trident/internal/source"
	"github.com/alvesvaren/trident/internal/token"
)

func parseText(t *testing.T, text string) (*ast.Document, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tri", []byte(text))
	bag := diag.NewBag(64)
	doc := parser.Parse(fs, id, diag.BagReporter{Bag: bag})
	return doc, bag, fs
}

func decls(doc *ast.Document) []*ast.Decl {
	var out []*ast.Decl
	ast.WalkDecls(doc.Items, func(d *ast.Decl, _ []*ast.Group) bool {
		out = append(out, d)
		return true
	})
	return out
}

func relations(doc *ast.Document) []*ast.Relation {
	var out []*ast.Relation
	ast.WalkRelations(doc.Items, func(r *ast.Relation) bool {
		out = append(out, r)
		return true
	})
	return out
}

func TestParseSimpleDecl(t *testing.T) {
	doc, bag, _ := parseText(t, "class User\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	ds := decls(doc)
	if len(ds) != 1 {
		t.Fatalf("got %d decls", len(ds))
	}
	d := ds[0]
	if d.Name != "User" || d.Kind != token.KindClass || d.HasBody {
		t.Errorf("decl = %+v", d)
	}
}

func TestParseDeclWithLabelAndBody(t *testing.T) {
	src := "class User \"A User\" {\n    @pos: (10, -20)\n    +name: string\n    ---\n    +login()\n}\n"
	doc, bag, _ := parseText(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	d := decls(doc)[0]
	if d.Label != "A User" || !d.HasLabel {
		t.Errorf("label = %q", d.Label)
	}
	if d.Pos == nil || d.Pos.X != 10 || d.Pos.Y != -20 {
		t.Fatalf("pos = %+v", d.Pos)
	}
	if len(d.Members) != 3 {
		t.Fatalf("members = %+v", d.Members)
	}
	if d.Members[0].Text != "+name: string" {
		t.Errorf("member[0] = %q", d.Members[0].Text)
	}
}

func TestParseKindAliases(t *testing.T) {
	tests := []struct {
		src      string
		kind     token.NodeKind
		keyword  string
		modifier string
	}{
		{"interface Shape", token.KindClass, "interface", "interface"},
		{"enum Color", token.KindClass, "enum", "enum"},
		{"circle Start", token.KindNode, "circle", "circle"},
		{"node N1", token.KindNode, "node", ""},
	}
	for _, tt := range tests {
		doc, bag, _ := parseText(t, tt.src)
		if bag.HasErrors() {
			t.Errorf("%q: errors %v", tt.src, bag.Items())
			continue
		}
		d := decls(doc)[0]
		if d.Kind != tt.kind || d.Keyword != tt.keyword {
			t.Errorf("%q: kind=%v keyword=%q", tt.src, d.Kind, d.Keyword)
		}
		if tt.modifier == "" && len(d.Modifiers) != 0 {
			t.Errorf("%q: modifiers = %v", tt.src, d.Modifiers)
		}
		if tt.modifier != "" && (len(d.Modifiers) != 1 || d.Modifiers[0] != tt.modifier) {
			t.Errorf("%q: modifiers = %v", tt.src, d.Modifiers)
		}
	}
}

func TestParseModifiers(t *testing.T) {
	doc, bag, _ := parseText(t, "abstract sealed class Base\n")
	if bag.HasErrors() {
		t.Fatalf("errors: %v", bag.Items())
	}
	d := decls(doc)[0]
	if len(d.Modifiers) != 2 || d.Modifiers[0] != "abstract" || d.Modifiers[1] != "sealed" {
		t.Errorf("modifiers = %v", d.Modifiers)
	}
}

func TestParseRelationVariants(t *testing.T) {
	tests := []struct {
		src       string
		from, to  string
		canonical string
		label     string
	}{
		{"A --> B", "A", "B", "assoc_right", ""},
		{"A-->B", "A", "B", "assoc_right", ""},
		{"A->B", "A", "B", "short_right", ""},
		{"A <|-- B", "A", "B", "extends_left", ""},
		{"Child --|> Parent", "Child", "Parent", "extends_right", ""},
		{"Impl ..|> Iface", "Impl", "Iface", "implements_right", ""},
		{"A o-- B", "A", "B", "aggregate_right", ""},
		{"Ao--B", "A", "B", "aggregate_right", ""},
		{"A --- B", "A", "B", "line", ""},
		{"A .. B", "A", "B", "dotted", ""},
		{"A --> B : owns", "A", "B", "assoc_right", "owns"},
		{"A-->B: uses", "A", "B", "assoc_right", "uses"},
	}
	for _, tt := range tests {
		doc, bag, _ := parseText(t, tt.src+"\n")
		if bag.HasErrors() {
			t.Errorf("%q: errors %v", tt.src, bag.Items())
			continue
		}
		rs := relations(doc)
		if len(rs) != 1 {
			t.Errorf("%q: %d relations", tt.src, len(rs))
			continue
		}
		r := rs[0]
		if r.From != tt.from || r.To != tt.to || r.Arrow.Canonical != tt.canonical {
			t.Errorf("%q: from=%q to=%q arrow=%q", tt.src, r.From, r.To, r.Arrow.Canonical)
		}
		if r.Label != tt.label {
			t.Errorf("%q: label = %q, want %q", tt.src, r.Label, tt.label)
		}
	}
}

func TestParseRelationSpans(t *testing.T) {
	doc, _, fsrc := parseText(t, "Alpha --> Beta\n")
	r := relations(doc)[0]
	f := fsrc.Get(doc.File)
	if got := string(f.Content[r.FromSpan.Start:r.FromSpan.End]); got != "Alpha" {
		t.Errorf("FromSpan text = %q", got)
	}
	if got := string(f.Content[r.OpSpan.Start:r.OpSpan.End]); got != "-->" {
		t.Errorf("OpSpan text = %q", got)
	}
	if got := string(f.Content[r.ToSpan.Start:r.ToSpan.End]); got != "Beta" {
		t.Errorf("ToSpan text = %q", got)
	}
}

func TestParseGroups(t *testing.T) {
	src := strings.Join([]string{
		"group Backend {",
		"    @pos: (5, 5)",
		"    class Service",
		"    group {",
		"        class Repo",
		"    }",
		"}",
		"",
	}, "\n")
	doc, bag, _ := parseText(t, src)
	if bag.HasErrors() {
		t.Fatalf("errors: %v", bag.Items())
	}

	g, ok := doc.Items[0].(*ast.Group)
	if !ok {
		t.Fatalf("item[0] = %T", doc.Items[0])
	}
	if g.Name != "Backend" {
		t.Errorf("group name = %q", g.Name)
	}
	if g.Pos == nil || g.Pos.X != 5 {
		t.Errorf("group pos = %+v", g.Pos)
	}

	inner := ast.FindGroup(doc.Items, "", 0)
	if inner == nil {
		t.Fatalf("anonymous group not found")
	}
	if len(inner.Items) != 1 {
		t.Errorf("inner items = %d", len(inner.Items))
	}
}

func TestParseGroupBraceOnNextLine(t *testing.T) {
	doc, bag, _ := parseText(t, "group G\n{\n    class A\n}\n")
	if bag.HasErrors() {
		t.Fatalf("errors: %v", bag.Items())
	}
	if g, ok := doc.Items[0].(*ast.Group); !ok || g.Name != "G" || len(g.Items) != 1 {
		t.Fatalf("group = %+v", doc.Items[0])
	}
}

func TestParseLayoutDirective(t *testing.T) {
	doc, bag, _ := parseText(t, "@layout: grid\nclass A\n")
	if bag.HasErrors() {
		t.Fatalf("errors: %v", bag.Items())
	}
	if doc.Layout != ast.LayoutGrid {
		t.Errorf("layout = %q", doc.Layout)
	}

	_, bag, _ = parseText(t, "@layout: circular\n")
	if !bag.HasErrors() {
		t.Fatalf("expected bad layout error")
	}
	if bag.Items()[0].Code != diag.SynBadLayoutAlgo {
		t.Errorf("code = %v", bag.Items()[0].Code)
	}
}

func TestParseRecoversFromBadLine(t *testing.T) {
	src := "class A\n!!! not a thing\nclass B\n"
	doc, bag, _ := parseText(t, src)
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic")
	}
	ds := decls(doc)
	if len(ds) != 2 {
		t.Fatalf("recovery lost declarations: %d", len(ds))
	}
	d, _ := bag.FirstError()
	if d.Code != diag.SynBadRelation {
		t.Errorf("code = %v", d.Code)
	}
}

func TestParseDuplicatePosReported(t *testing.T) {
	src := "class A {\n    @pos: (1, 2)\n    @pos: (3, 4)\n}\n"
	doc, bag, _ := parseText(t, src)
	if !bag.HasErrors() {
		t.Fatalf("expected duplicate @pos error")
	}
	d := decls(doc)[0]
	if d.Pos == nil || d.Pos.X != 1 || d.Pos.Y != 2 {
		t.Errorf("first @pos should win: %+v", d.Pos)
	}
}

func TestParseGeometryDirectives(t *testing.T) {
	src := "class A {\n    @width: 300\n    @height: 150\n}\n"
	doc, bag, _ := parseText(t, src)
	if bag.HasErrors() {
		t.Fatalf("errors: %v", bag.Items())
	}
	d := decls(doc)[0]
	if d.Width == nil || d.Width.Value != 300 {
		t.Errorf("width = %+v", d.Width)
	}
	if d.Height == nil || d.Height.Value != 150 {
		t.Errorf("height = %+v", d.Height)
	}

	_, bag, _ = parseText(t, "class A {\n    @width: -5\n}\n")
	if !bag.HasErrors() {
		t.Fatalf("negative width should be rejected")
	}
}

func TestParseCommentsPreserved(t *testing.T) {
	src := "%% header note\nclass A\n\nA --> B\n"
	doc, bag, _ := parseText(t, src)
	if bag.HasErrors() {
		t.Fatalf("errors: %v", bag.Items())
	}
	c, ok := doc.Items[0].(*ast.Comment)
	if !ok {
		t.Fatalf("item[0] = %T", doc.Items[0])
	}
	if c.Text != " header note" {
		t.Errorf("comment text = %q", c.Text)
	}
}

func TestParseClassDiagramHeaderIgnored(t *testing.T) {
	doc, bag, _ := parseText(t, "classDiagram\nclass A\n")
	if bag.HasErrors() {
		t.Fatalf("errors: %v", bag.Items())
	}
	if len(decls(doc)) != 1 {
		t.Fatalf("decls = %d", len(decls(doc)))
	}
}

func TestParseUnclosedBody(t *testing.T) {
	doc, bag, _ := parseText(t, "class A {\n    @pos: (1, 1)\n")
	if !bag.HasErrors() {
		t.Fatalf("expected missing brace error")
	}
	d, _ := bag.FirstError()
	if d.Code != diag.SynUnclosedBrace {
		t.Errorf("code = %v", d.Code)
	}
	// Partial document still carries the declaration.
	if len(decls(doc)) != 1 {
		t.Fatalf("decls = %d", len(decls(doc)))
	}
}

func TestParsePosValueForms(t *testing.T) {
	doc, bag, _ := parseText(t, "class A {\n    @pos: ( -3 , +4 )\n}\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	d := decls(doc)[0]
	if d.Pos == nil || d.Pos.X != -3 || d.Pos.Y != 4 {
		t.Errorf("pos = %+v", d.Pos)
	}

	rejected := []string{
		"class B {\n    @pos: (1, 2) extra\n}\n",
		"class B {\n    @pos: (1 2)\n}\n",
		"class B {\n    @pos: (oops)\n}\n",
		"class B {\n    @pos: 1, 2\n}\n",
	}
	for _, src := range rejected {
		_, bag, _ := parseText(t, src)
		if !bag.HasErrors() {
			t.Errorf("accepted malformed directive in %q", src)
		}
	}
}
