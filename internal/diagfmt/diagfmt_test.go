package diagfmt_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alvesvaren/trident/internal/diag"
	"github.com/alvesvaren/trident/internal/diagfmt"
	"github.com/alvesvaren/trident/internal/parser"
	"github.com/alvesvaren/trident/internal/source"
)

func diagnose(t *testing.T, text string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("diagram.tri", []byte(text))
	bag := diag.NewBag(32)
	parser.Parse(fs, id, diag.BagReporter{Bag: bag})
	bag.Sort()
	return bag, fs
}

func TestPrettyOutput(t *testing.T) {
	bag, fs := diagnose(t, "class A\n???\n")
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{})

	out := buf.String()
	if !strings.Contains(out, "diagram.tri:2:1:") {
		t.Errorf("missing position header:\n%s", out)
	}
	if !strings.Contains(out, "ERROR") || !strings.Contains(out, "SYN2011") {
		t.Errorf("missing severity or code:\n%s", out)
	}
	if !strings.Contains(out, "???") || !strings.Contains(out, "^~~") {
		t.Errorf("missing source context or underline:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("color escapes without Color option:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := diagnose(t, "???\n")
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes with Color enabled")
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := diagnose(t, "@layout: spiral\n")
	var buf bytes.Buffer
	err := diagfmt.JSON(&buf, bag, fs, diagfmt.JSONOpts{IncludePositions: true, PathMode: diagfmt.PathModeBasename})
	if err != nil {
		t.Fatal(err)
	}

	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2010" || d.Severity != "ERROR" {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Location.File != "diagram.tri" || d.Location.StartLine != 1 || d.Location.StartCol != 1 {
		t.Errorf("location = %+v", d.Location)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	bag, fs := diagnose(t, "???\n!!!\n&&&\n")
	out := diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{Max: 2})
	if out.Count != 2 || bag.Len() != 3 {
		t.Errorf("count = %d, bag = %d", out.Count, bag.Len())
	}
}
