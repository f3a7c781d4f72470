// Package arrow holds the relation-operator registry: the fixed table of
// arrow tokens, their canonical names, and their rendering metadata. The
// registry is built once and never mutated; the parser consults it to split
// relation lines and hosts consume it verbatim for legends and autocomplete.
package arrow

import (
	"sort"
	"sync"
)

// LineStyle selects the stroke pattern of a relation line.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
)

// HeadStyle selects the marker drawn at a relation endpoint.
type HeadStyle string

const (
	HeadNone          HeadStyle = "none"
	HeadArrow         HeadStyle = "arrow"
	HeadTriangle      HeadStyle = "triangle"
	HeadDiamondFilled HeadStyle = "diamond_filled"
	HeadDiamondEmpty  HeadStyle = "diamond_empty"
)

// Direction tells which way a relation points.
type Direction string

const (
	DirRight Direction = "right"
	DirLeft  Direction = "left"
	DirNone  Direction = "none"
)

// definition is one arrow in its canonical right-pointing form. Left
// variants are derived by mirroring the token.
type definition struct {
	token     string
	name      string
	detail    string
	lineStyle LineStyle
	headStyle HeadStyle
	direction Direction
	// hierarchyReversed flips which endpoint the hierarchical layout treats
	// as the parent: extends/implements point child -> parent in source.
	hierarchyReversed bool
}

// definitions is the single source of truth. Order matters only for stable
// registry output; matching order is by token length.
var definitions = []definition{
	{
		token:     "-->",
		name:      "assoc",
		detail:    "Association arrow",
		lineStyle: LineSolid,
		headStyle: HeadArrow,
		direction: DirRight,
	},
	{
		token:     "->",
		name:      "short",
		detail:    "Short association arrow",
		lineStyle: LineSolid,
		headStyle: HeadArrow,
		direction: DirRight,
	},
	{
		token:             "--|>",
		name:              "extends",
		detail:            "Inheritance/extends arrow",
		lineStyle:         LineSolid,
		headStyle:         HeadTriangle,
		direction:         DirRight,
		hierarchyReversed: true,
	},
	{
		token:             "..|>",
		name:              "implements",
		detail:            "Implements/realizes arrow",
		lineStyle:         LineDashed,
		headStyle:         HeadTriangle,
		direction:         DirRight,
		hierarchyReversed: true,
	},
	{
		token:     "..>",
		name:      "dep",
		detail:    "Dependency arrow",
		lineStyle: LineDashed,
		headStyle: HeadArrow,
		direction: DirRight,
	},
	{
		token:     "*--",
		name:      "compose",
		detail:    "Composition (strong ownership)",
		lineStyle: LineSolid,
		headStyle: HeadDiamondFilled, // diamond sits at the "from" node
		direction: DirRight,
	},
	{
		token:     "o--",
		name:      "aggregate",
		detail:    "Aggregation (weak ownership)",
		lineStyle: LineSolid,
		headStyle: HeadDiamondEmpty, // diamond sits at the "from" node
		direction: DirRight,
	},
	{
		token:     "---",
		name:      "line",
		detail:    "Simple line (no direction)",
		lineStyle: LineSolid,
		headStyle: HeadNone,
		direction: DirNone,
	},
	{
		token:     "..",
		name:      "dotted",
		detail:    "Dotted line (no direction)",
		lineStyle: LineDashed,
		headStyle: HeadNone,
		direction: DirNone,
	},
}

// Entry is one resolved registry row, including derived left variants.
type Entry struct {
	Token     string    `json:"token"`
	Canonical string    `json:"canonical_name"`
	Name      string    `json:"name"`
	Detail    string    `json:"detail"`
	LineStyle LineStyle `json:"line_style"`
	HeadStyle HeadStyle `json:"head_style"`
	Direction Direction `json:"direction"`
	IsLeft    bool      `json:"is_left"`

	// Layout metadata, not part of the exported JSON contract.
	HierarchyReversed bool `json:"-"`
}

var (
	registryOnce sync.Once
	registry     []Entry
	byToken      map[string]*Entry
	byCanonical  map[string]*Entry
)

// mirrorToken flips the glyphs of a directional token: > and < swap and the
// byte order reverses, so "--|>" becomes "<|--". Returns "" for palindromic
// tokens that have no distinct mirror.
func mirrorToken(tok string) string {
	out := make([]byte, len(tok))
	for i := 0; i < len(tok); i++ {
		c := tok[len(tok)-1-i]
		switch c {
		case '>':
			c = '<'
		case '<':
			c = '>'
		}
		out[i] = c
	}
	mirrored := string(out)
	if mirrored == tok {
		return ""
	}
	return mirrored
}

func build() {
	entries := make([]Entry, 0, len(definitions)*2)
	for _, def := range definitions {
		switch def.direction {
		case DirRight:
			entries = append(entries, Entry{
				Token:             def.token,
				Canonical:         def.name + "_right",
				Name:              def.name,
				Detail:            def.detail,
				LineStyle:         def.lineStyle,
				HeadStyle:         def.headStyle,
				Direction:         DirRight,
				IsLeft:            false,
				HierarchyReversed: def.hierarchyReversed,
			})
			if left := mirrorToken(def.token); left != "" {
				entries = append(entries, Entry{
					Token:             left,
					Canonical:         def.name + "_left",
					Name:              def.name,
					Detail:            def.detail,
					LineStyle:         def.lineStyle,
					HeadStyle:         def.headStyle,
					Direction:         DirLeft,
					IsLeft:            true,
					HierarchyReversed: def.hierarchyReversed,
				})
			}
		default:
			entries = append(entries, Entry{
				Token:             def.token,
				Canonical:         def.name,
				Name:              def.name,
				Detail:            def.detail,
				LineStyle:         def.lineStyle,
				HeadStyle:         def.headStyle,
				Direction:         def.direction,
				IsLeft:            false,
				HierarchyReversed: def.hierarchyReversed,
			})
		}
	}

	// Longest token first so prefix-overlapping operators never mis-split.
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].Token) > len(entries[j].Token)
	})

	registry = entries
	byToken = make(map[string]*Entry, len(entries))
	byCanonical = make(map[string]*Entry, len(entries))
	for i := range registry {
		byToken[registry[i].Token] = &registry[i]
		byCanonical[registry[i].Canonical] = &registry[i]
	}
}

// Registry returns every arrow entry, longest token first. The returned
// slice is shared; callers must not modify it.
func Registry() []Entry {
	registryOnce.Do(build)
	return registry
}

// FromToken resolves a source token like "-->" or "<|--".
func FromToken(tok string) (Entry, bool) {
	registryOnce.Do(build)
	e, ok := byToken[tok]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// FromCanonical resolves a canonical name like "assoc_right" or "line".
func FromCanonical(name string) (Entry, bool) {
	registryOnce.Do(build)
	e, ok := byCanonical[name]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// BaseName strips a _left/_right suffix from a canonical name.
func BaseName(canonical string) string {
	for _, suffix := range []string{"_left", "_right"} {
		if len(canonical) > len(suffix) && canonical[len(canonical)-len(suffix):] == suffix {
			return canonical[:len(canonical)-len(suffix)]
		}
	}
	return canonical
}
