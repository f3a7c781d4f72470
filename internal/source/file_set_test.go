package source_test

import (
	"testing"

	"github.com/alvesvaren/trident/internal/source"
)

func TestAddVirtualNormalizesCRLF(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("buffer.tri", []byte("class A\r\nclass B\r\n"))
	f := fs.Get(id)

	if string(f.Content) != "class A\nclass B\n" {
		t.Fatalf("content not normalized: %q", f.Content)
	}
	if f.Flags&source.FileNormalizedCRLF == 0 {
		t.Fatalf("expected FileNormalizedCRLF flag")
	}
	if f.Flags&source.FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("buffer.tri", []byte("class A\nclass Bee\nA --> Bee\n"))

	tests := []struct {
		name      string
		span      source.Span
		wantStart source.LineCol
		wantEnd   source.LineCol
	}{
		{
			name:      "first token",
			span:      source.Span{File: id, Start: 0, End: 5},
			wantStart: source.LineCol{Line: 1, Col: 1},
			wantEnd:   source.LineCol{Line: 1, Col: 6},
		},
		{
			name:      "second line ident",
			span:      source.Span{File: id, Start: 14, End: 17},
			wantStart: source.LineCol{Line: 2, Col: 7},
			wantEnd:   source.LineCol{Line: 2, Col: 10},
		},
		{
			name:      "third line start",
			span:      source.Span{File: id, Start: 18, End: 19},
			wantStart: source.LineCol{Line: 3, Col: 1},
			wantEnd:   source.LineCol{Line: 3, Col: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := fs.Resolve(tt.span)
			if start != tt.wantStart {
				t.Errorf("start = %+v, want %+v", start, tt.wantStart)
			}
			if end != tt.wantEnd {
				t.Errorf("end = %+v, want %+v", end, tt.wantEnd)
			}
		})
	}
}

func TestLineSpan(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("buffer.tri", []byte("class A\n\nA --> B"))
	f := fs.Get(id)

	if got := f.GetLine(1); got != "class A" {
		t.Errorf("line 1 = %q", got)
	}
	if got := f.GetLine(2); got != "" {
		t.Errorf("line 2 = %q", got)
	}
	if got := f.GetLine(3); got != "A --> B" {
		t.Errorf("line 3 = %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("line 4 = %q", got)
	}
	if got := f.LineCount(); got != 3 {
		t.Errorf("LineCount = %d, want 3", got)
	}
}

func TestGetLatest(t *testing.T) {
	fs := source.NewFileSet()
	first := fs.AddVirtual("d.tri", []byte("class A"))
	second := fs.AddVirtual("d.tri", []byte("class B"))

	if first == second {
		t.Fatalf("expected distinct ids")
	}
	latest, ok := fs.GetLatest("d.tri")
	if !ok || latest != second {
		t.Fatalf("GetLatest = %v, %v; want %v, true", latest, ok, second)
	}
}
