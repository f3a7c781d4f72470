package driver_test

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/alvesvaren/trident/internal/driver"
)

func TestCompileBasicPipeline(t *testing.T) {
	d := driver.Compile("class A\nclass B\nA --> B : uses\n")
	if d.Error != nil {
		t.Fatalf("unexpected error: %+v", d.Error)
	}
	if len(d.Nodes) != 2 || len(d.Edges) != 1 {
		t.Fatalf("nodes=%d edges=%d", len(d.Nodes), len(d.Edges))
	}
	e := d.Edges[0]
	if e.From != "A" || e.To != "B" || e.Arrow.Canonical != "assoc_right" || e.Label != "uses" {
		t.Errorf("edge = %+v", e)
	}
	for _, n := range d.Nodes {
		if !n.Explicit {
			t.Errorf("%s should be explicit", n.ID)
		}
		if n.Bounds.W <= 0 || n.Bounds.H <= 0 {
			t.Errorf("%s has degenerate bounds %+v", n.ID, n.Bounds)
		}
	}
}

func TestCompileImplicitDetection(t *testing.T) {
	d := driver.Compile("A --> B\n")
	if d.Error != nil {
		t.Fatalf("unexpected error: %+v", d.Error)
	}
	if !reflect.DeepEqual(d.ImplicitNodes, []string{"A", "B"}) {
		t.Errorf("implicit_nodes = %v", d.ImplicitNodes)
	}
	for _, n := range d.Nodes {
		if n.Explicit {
			t.Errorf("%s reported explicit", n.ID)
		}
	}
}

func TestCompileErrorShape(t *testing.T) {
	d := driver.Compile("class A\n???\n")
	if d.Error == nil {
		t.Fatalf("expected error output")
	}
	if d.Error.Line != 2 || d.Error.Column != 1 {
		t.Errorf("position = %d:%d", d.Error.Line, d.Error.Column)
	}
	if d.Error.EndColumn <= d.Error.Column && d.Error.EndLine == d.Error.Line {
		t.Errorf("end column should extend past start: %+v", d.Error)
	}
}

func TestCompileRecoversAroundBadLine(t *testing.T) {
	d := driver.Compile("class A\n???bad line???\nclass B\nA --> B\n")
	if d.Error == nil || d.Error.Line != 2 {
		t.Fatalf("error = %+v", d.Error)
	}
	// The bad line costs one diagnostic, not the diagram.
	if len(d.Nodes) != 2 || len(d.Edges) != 1 {
		t.Fatalf("nodes=%d edges=%d, want the recovered declarations", len(d.Nodes), len(d.Edges))
	}
	for _, n := range d.Nodes {
		if n.Bounds.W <= 0 || n.Bounds.H <= 0 {
			t.Errorf("%s has degenerate bounds %+v", n.ID, n.Bounds)
		}
	}
}

func TestCompileDeterministicJSON(t *testing.T) {
	src := "group Core {\n    class A\n    class B\n}\nclass C\nA --> B\nC ..|> A\n"
	first, err := json.Marshal(driver.Compile(src))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(driver.Compile(src))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("output differs between runs:\n%s\nvs\n%s", first, again)
		}
	}
}

func TestCompileNamedGroupsOnly(t *testing.T) {
	d := driver.Compile("group Named {\n    class A\n}\ngroup {\n    class B\n}\n")
	if len(d.Groups) != 1 || d.Groups[0].ID != "Named" {
		t.Errorf("groups = %+v", d.Groups)
	}
}

func TestSymbolsHappyPath(t *testing.T) {
	got := driver.Symbols("class A\ngroup G {\n    class B\n}\nA --> C\n")
	want := []string{"A", "B", "G", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("symbols = %v, want %v", got, want)
	}
}

func TestSymbolsFallbackOnBrokenSource(t *testing.T) {
	// The stray line breaks the parse; the scanner still sees declarations.
	got := driver.Symbols("class A\n!!!\nclass B\ngroup G {\n")
	want := []string{"A", "B", "G"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("symbols = %v, want %v", got, want)
	}
}

func TestDiagnosticsIncludeNotices(t *testing.T) {
	ds := driver.Diagnostics("A --> B\n")
	if len(ds) != 2 {
		t.Fatalf("diagnostics = %+v", ds)
	}
	for _, d := range ds {
		if d.Severity != "INFO" {
			t.Errorf("implicit notice severity = %s", d.Severity)
		}
		if d.Line != 1 || d.Column == 0 {
			t.Errorf("bad position: %+v", d)
		}
	}
}

func TestCompileCached(t *testing.T) {
	cache, err := driver.NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := "group G {\n    class A\n}\nA --> B\n"
	first := driver.CompileCached(cache, src)
	second := driver.CompileCached(cache, src)
	j1, _ := json.Marshal(first)
	j2, _ := json.Marshal(second)
	if !bytes.Equal(j1, j2) {
		t.Errorf("cache round-trip altered the diagram:\n%s\nvs\n%s", j1, j2)
	}

	if d, ok, err := cache.Get(driver.HashSource(src)); err != nil || !ok || d == nil {
		t.Errorf("expected a cache hit: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := cache.Get(driver.HashSource("something else")); ok {
		t.Errorf("unexpected hit for unrelated source")
	}
}
