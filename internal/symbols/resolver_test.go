package symbols_test

import (
	"reflect"
	"testing"

	"github.com/alvesvaren/trident/internal/ast"
	"github.com/alvesvaren/trident/internal/diag"
	"github.com/alvesvaren/trident/internal/parser"
	"github.com/alvesvaren/trident/internal/source"
	"github.com/alvesvaren/trident/internal/symbols"
)

func resolveText(t *testing.T, text string) (*symbols.Table, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tri", []byte(text))
	bag := diag.NewBag(64)
	doc := parser.Parse(fs, id, diag.BagReporter{Bag: bag})
	return symbols.Resolve(doc, diag.BagReporter{Bag: bag}), bag
}

func TestResolveExplicitAndImplicit(t *testing.T) {
	tbl, bag := resolveText(t, "class A\nA --> B\n")
	if bag.HasErrors() {
		t.Fatalf("errors: %v", bag.Items())
	}
	if !reflect.DeepEqual(tbl.Names(), []string{"A", "B"}) {
		t.Errorf("names = %v", tbl.Names())
	}
	if tbl.IsImplicit("A") || !tbl.IsImplicit("B") {
		t.Errorf("implicit classification wrong")
	}

	// The implicit endpoint is surfaced as an informational notice.
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemImplicitNode && d.Severity == diag.SevInfo {
			found = true
		}
	}
	if !found {
		t.Errorf("missing implicit-node notice")
	}
}

func TestResolveImplicitFirstUseOrder(t *testing.T) {
	tbl, _ := resolveText(t, "X --> Y\nY --> Z\nX --> Z\n")
	want := []string{"X", "Y", "Z"}
	got := make([]string, len(tbl.Implicits))
	for i, im := range tbl.Implicits {
		got[i] = im.Name
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("implicits = %v, want %v", got, want)
	}
}

func TestResolveDuplicateDeclaration(t *testing.T) {
	tbl, bag := resolveText(t, "class A \"First\"\nclass A \"Second\"\n")
	if !bag.HasErrors() {
		t.Fatalf("expected duplicate error")
	}
	d, _ := bag.FirstError()
	if d.Code != diag.SemDuplicateNode {
		t.Errorf("code = %v", d.Code)
	}
	n, ok := tbl.Lookup("A")
	if !ok || n.Decl.Label != "First" {
		t.Errorf("first declaration should win, got %+v", n)
	}
	if len(tbl.Nodes) != 1 {
		t.Errorf("nodes = %d", len(tbl.Nodes))
	}
}

func TestResolveDuplicateGroup(t *testing.T) {
	_, bag := resolveText(t, "group G {\n}\ngroup G {\n}\n")
	d, ok := bag.FirstError()
	if !ok || d.Code != diag.SemDuplicateGroup {
		t.Errorf("expected duplicate-group error, got %v", bag.Items())
	}
}

func TestResolveGroupPath(t *testing.T) {
	tbl, bag := resolveText(t, "group Outer {\n    group Inner {\n        class Deep\n    }\n}\n")
	if bag.HasErrors() {
		t.Fatalf("errors: %v", bag.Items())
	}
	n, ok := tbl.Lookup("Deep")
	if !ok {
		t.Fatalf("Deep not resolved")
	}
	if len(n.Path) != 2 || n.Path[0].Name != "Outer" || n.Path[1].Name != "Inner" {
		t.Errorf("path = %v", groupNames(n.Path))
	}
	if len(tbl.Groups) != 2 {
		t.Errorf("groups = %d", len(tbl.Groups))
	}
}

func groupNames(gs []*ast.Group) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.Name
	}
	return out
}
