package layout

import (
	"github.com/alvesvaren/trident/internal/ast"
)

// placeHierarchical layers a scope's entities by longest path from the
// relation roots, then packs each layer left to right. Anchored entities are
// fixed obstacles: an auto candidate overlapping one shifts right past it.
func placeHierarchical(sc *scope, doc *ast.Document, cfg *Config) {
	byName := make(map[string]int, len(sc.entities))
	for i, e := range sc.entities {
		byName[e.name] = i
	}

	// Parent -> child edges between entities of this scope. Left-pointing
	// tokens flip the endpoints, and hierarchy arrows (extends, implements)
	// point child-to-parent in source; the two flips cancel when combined.
	type edge struct{ parent, child int }
	var edges []edge
	connected := make([]bool, len(sc.entities))
	ast.WalkRelations(doc.Items, func(r *ast.Relation) bool {
		fi, okF := byName[r.From]
		ti, okT := byName[r.To]
		if !okF || !okT || fi == ti {
			return true
		}
		parent, child := fi, ti
		if r.Arrow.IsLeft != r.Arrow.HierarchyReversed {
			parent, child = ti, fi
		}
		edges = append(edges, edge{parent: parent, child: child})
		connected[fi] = true
		connected[ti] = true
		return true
	})

	// Longest path from any root via bounded relaxation; the bound keeps
	// cyclic graphs from looping while staying deterministic.
	layer := make([]int, len(sc.entities))
	for pass := 0; pass < len(sc.entities); pass++ {
		changed := false
		for _, ed := range edges {
			if want := layer[ed.parent] + 1; want > layer[ed.child] && want < len(sc.entities) {
				layer[ed.child] = want
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	maxLayer := 0
	for i, e := range sc.entities {
		if e.pos != nil {
			continue
		}
		if connected[i] && layer[i] > maxLayer {
			maxLayer = layer[i]
		}
	}
	// Entities with no relations at all form their own trailing layer.
	isolatedLayer := maxLayer + 1
	hasIsolated := false
	for i, e := range sc.entities {
		if !connected[i] {
			layer[i] = isolatedLayer
			if e.pos == nil {
				hasIsolated = true
			}
		}
	}
	last := maxLayer
	if hasIsolated {
		last = isolatedLayer
	}

	obstacles := anchors(sc)
	y := cfg.GroupPadding
	for l := 0; l <= last; l++ {
		x := cfg.GroupPadding
		rowH := 0
		for i, e := range sc.entities {
			if e.pos != nil || layer[i] != l {
				continue
			}
			cand := Rect{X: x, Y: y, W: e.size.W, H: e.size.H}
			for overlapsAny(cand, obstacles) {
				cand.X = nextFreeX(cand, obstacles) + cfg.Gap
			}
			e.local = Point{X: cand.X, Y: cand.Y}
			x = cand.Right() + cfg.Gap
			rowH = max(rowH, e.size.H)
		}
		if rowH > 0 {
			y += rowH + cfg.Gap
		}
	}

	packGroups(sc, cfg, groupStartY(sc, cfg))
}

// nextFreeX returns the right edge of the rightmost obstacle overlapping the
// candidate, so the caller can retry just past it.
func nextFreeX(cand Rect, obstacles []Rect) int {
	edge := cand.X
	for _, o := range obstacles {
		if cand.Overlaps(o) && o.Right() > edge {
			edge = o.Right()
		}
	}
	return edge
}

// groupStartY is the first row below every placed entity.
func groupStartY(sc *scope, cfg *Config) int {
	y := cfg.GroupPadding
	for _, e := range sc.entities {
		if b := e.rect().Bottom(); b+cfg.Gap > y {
			y = b + cfg.Gap
		}
	}
	return y
}
