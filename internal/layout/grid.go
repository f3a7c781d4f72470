package layout

import (
	"math"

	"github.com/alvesvaren/trident/internal/ast"
)

// placeGrid fills a near-square grid row-major: the column count is the
// ceiling square root of the entity count, cells are sized to the largest
// entity. Slots overlapping an anchored entity are skipped.
func placeGrid(sc *scope, _ *ast.Document, cfg *Config) {
	total := len(sc.entities)
	if total == 0 {
		packGroups(sc, cfg, groupStartY(sc, cfg))
		return
	}

	cols := int(math.Ceil(math.Sqrt(float64(total))))
	if cols < 1 {
		cols = 1
	}

	cellW, cellH := cfg.NodeSize.W, cfg.NodeSize.H
	for _, e := range sc.entities {
		cellW = max(cellW, e.size.W)
		cellH = max(cellH, e.size.H)
	}

	obstacles := anchors(sc)
	slot := 0
	for _, e := range sc.entities {
		if e.pos != nil {
			continue
		}
		for {
			col := slot % cols
			row := slot / cols
			cand := Rect{
				X: cfg.GroupPadding + col*(cellW+cfg.Gap),
				Y: cfg.GroupPadding + row*(cellH+cfg.Gap),
				W: e.size.W,
				H: e.size.H,
			}
			slot++
			if !overlapsAny(cand, obstacles) {
				e.local = Point{X: cand.X, Y: cand.Y}
				break
			}
		}
	}

	packGroups(sc, cfg, groupStartY(sc, cfg))
}
