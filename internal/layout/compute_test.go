package layout_test

import (
	"reflect"
	"testing"

	"github.com/alvesvaren/trident/internal/diag"
	"github.com/alvesvaren/trident/internal/layout"
	"github.com/alvesvaren/trident/internal/parser"
	"github.com/alvesvaren/trident/internal/source"
	"github.com/alvesvaren/trident/internal/symbols"
)

func computeText(t *testing.T, text string, algo layout.Algo) *layout.Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tri", []byte(text))
	doc := parser.Parse(fs, id, diag.NopReporter{})
	tbl := symbols.Resolve(doc, diag.NopReporter{})
	return layout.Compute(doc, tbl, algo, layout.DefaultConfig())
}

func nodeByID(t *testing.T, res *layout.Result, id string) layout.NodeResult {
	t.Helper()
	for _, n := range res.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %q not in result", id)
	return layout.NodeResult{}
}

func world(n layout.NodeResult) layout.Rect {
	return layout.Rect{
		X: n.ParentOffset.X + n.Local.X,
		Y: n.ParentOffset.Y + n.Local.Y,
		W: n.Local.W,
		H: n.Local.H,
	}
}

func TestHierarchicalLayersFollowRelations(t *testing.T) {
	res := computeText(t, "class A\nclass B\nA --> B\n", layout.Hierarchical)
	a := nodeByID(t, res, "A")
	b := nodeByID(t, res, "B")
	if b.Local.Y <= a.Local.Y {
		t.Errorf("B should sit below A: A.y=%d B.y=%d", a.Local.Y, b.Local.Y)
	}
}

func TestHierarchicalExtendsPointsAtParent(t *testing.T) {
	// Child --|> Parent reads child-to-parent, so Parent is the root layer.
	res := computeText(t, "class Parent\nclass Child\nChild --|> Parent\n", layout.Hierarchical)
	p := nodeByID(t, res, "Parent")
	c := nodeByID(t, res, "Child")
	if c.Local.Y <= p.Local.Y {
		t.Errorf("Child should sit below Parent: Parent.y=%d Child.y=%d", p.Local.Y, c.Local.Y)
	}
}

func TestHierarchicalIsolatedTrailingLayer(t *testing.T) {
	res := computeText(t, "class A\nclass B\nclass Lone\nA --> B\n", layout.Hierarchical)
	b := nodeByID(t, res, "B")
	lone := nodeByID(t, res, "Lone")
	if lone.Local.Y <= b.Local.Y {
		t.Errorf("isolated node should trail the layered ones: B.y=%d Lone.y=%d", b.Local.Y, lone.Local.Y)
	}
}

func TestManualPosAnchorsEitherAlgorithm(t *testing.T) {
	src := "class X {\n    @pos: (50, 50)\n}\n"
	for _, algo := range []layout.Algo{layout.Hierarchical, layout.Grid} {
		res := computeText(t, src, algo)
		x := nodeByID(t, res, "X")
		if !x.HasPos {
			t.Errorf("%s: HasPos = false", algo)
		}
		if x.Local.X != 50 || x.Local.Y != 50 {
			t.Errorf("%s: anchored at (%d, %d)", algo, x.Local.X, x.Local.Y)
		}
	}
}

func TestAutoPlacementAvoidsAnchor(t *testing.T) {
	// The anchor sits where the first auto slot would be.
	src := "class Fixed {\n    @pos: (24, 24)\n}\nclass Auto\n"
	res := computeText(t, src, layout.Hierarchical)
	fixed := world(nodeByID(t, res, "Fixed"))
	auto := world(nodeByID(t, res, "Auto"))
	if fixed.Overlaps(auto) {
		t.Errorf("auto node overlaps anchor: fixed=%+v auto=%+v", fixed, auto)
	}
}

func TestGridScenario(t *testing.T) {
	src := "@layout: grid\nclass A\nclass B\nclass C\nA --> B\nB --> C\n"
	res := computeText(t, src, layout.Grid)
	if len(res.Nodes) != 3 {
		t.Fatalf("nodes = %d", len(res.Nodes))
	}
	a := world(nodeByID(t, res, "A"))
	b := world(nodeByID(t, res, "B"))
	c := world(nodeByID(t, res, "C"))
	if a.Overlaps(b) || a.Overlaps(c) || b.Overlaps(c) {
		t.Errorf("grid produced overlapping bounds: %+v %+v %+v", a, b, c)
	}
	// Row-major: B right of A on the first row, C wraps below.
	if b.X <= a.X || b.Y != a.Y {
		t.Errorf("B should follow A in the first row: a=%+v b=%+v", a, b)
	}
	if c.Y <= a.Y {
		t.Errorf("C should wrap to the next row: a=%+v c=%+v", a, c)
	}
}

func TestGeometryOverrides(t *testing.T) {
	src := "class Wide {\n    @width: 400\n    @height: 90\n}\n"
	res := computeText(t, src, layout.Hierarchical)
	n := nodeByID(t, res, "Wide")
	if n.Local.W != 400 || n.Local.H != 90 {
		t.Errorf("size = %dx%d", n.Local.W, n.Local.H)
	}
}

func TestContentSizing(t *testing.T) {
	// Two members: stereotype absent for a plain class, so
	// title + separator + 2 members = 4 lines.
	res := computeText(t, "class C {\n    +a: int\n    +b: int\n}\n", layout.Hierarchical)
	n := nodeByID(t, res, "C")
	cfg := layout.DefaultConfig()
	wantH := cfg.Rendering.Padding*2 + 4*cfg.Rendering.LineHeight
	if n.Local.H != wantH {
		t.Errorf("height = %d, want %d", n.Local.H, wantH)
	}
	if n.Local.W < cfg.ClassSize.W {
		t.Errorf("width %d below class minimum", n.Local.W)
	}
}

func TestImplicitNodesPlaced(t *testing.T) {
	res := computeText(t, "A --> B\n", layout.Hierarchical)
	if len(res.Nodes) != 2 {
		t.Fatalf("nodes = %d", len(res.Nodes))
	}
	for _, n := range res.Nodes {
		if n.Explicit {
			t.Errorf("%s should be implicit", n.ID)
		}
	}
}

func TestGroupBoundsWrapChildren(t *testing.T) {
	src := "group G {\n    class A\n    class B\n}\n"
	res := computeText(t, src, layout.Hierarchical)
	if len(res.Groups) != 1 {
		t.Fatalf("groups = %d", len(res.Groups))
	}
	g := res.Groups[0]
	if g.Name != "G" || g.HasPos {
		t.Errorf("group = %+v", g)
	}
	gw := layout.Rect{
		X: g.ParentOffset.X + g.Local.X,
		Y: g.ParentOffset.Y + g.Local.Y,
		W: g.Local.W, H: g.Local.H,
	}
	for _, id := range []string{"A", "B"} {
		nw := world(nodeByID(t, res, id))
		if nw.X < gw.X || nw.Y < gw.Y || nw.Right() > gw.Right() || nw.Bottom() > gw.Bottom() {
			t.Errorf("node %s %+v escapes group bounds %+v", id, nw, gw)
		}
	}
}

func TestEmptyGroupGetsMinimumSize(t *testing.T) {
	res := computeText(t, "group Empty {\n}\n", layout.Hierarchical)
	cfg := layout.DefaultConfig()
	g := res.Groups[0]
	if g.Local.W != cfg.MinGroupSize.W || g.Local.H != cfg.MinGroupSize.H {
		t.Errorf("empty group size = %dx%d", g.Local.W, g.Local.H)
	}
}

func TestDeterministicOutput(t *testing.T) {
	src := "class A\nclass B\nclass C\ngroup G {\n    class D\n}\nA --> B\nC --> D\n"
	first := computeText(t, src, layout.Hierarchical)
	for i := 0; i < 5; i++ {
		if again := computeText(t, src, layout.Hierarchical); !reflect.DeepEqual(first, again) {
			t.Fatalf("layout differs between runs")
		}
	}
}

func TestHierarchicalUndirectedLineStillLayers(t *testing.T) {
	// Every relation contributes a layering edge, undirected lines included;
	// they read from-over-to like an association.
	res := computeText(t, "class A\nclass B\nA --- B\n", layout.Hierarchical)
	a := nodeByID(t, res, "A")
	b := nodeByID(t, res, "B")
	if b.Local.Y <= a.Local.Y {
		t.Errorf("B should sit below A: A.y=%d B.y=%d", a.Local.Y, b.Local.Y)
	}
}
