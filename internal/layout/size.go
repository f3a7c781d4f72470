package layout

import (
	"github.com/mattn/go-runewidth"

	"github.com/alvesvaren/trident/internal/token"
)

// nodeSize resolves an entity's box size: explicit @width/@height override,
// otherwise content-based measurement floored at the kind's minimum width.
func nodeSize(e *entity, cfg *Config) Size {
	def := cfg.ClassSize
	if e.kind == token.KindNode {
		def = cfg.NodeSize
	}

	w := contentWidth(e, cfg, def.W)
	if e.width > 0 {
		w = e.width
	}
	h := contentHeight(e, &cfg.Rendering)
	if e.height > 0 {
		h = e.height
	}
	return Size{W: w, H: h}
}

// contentWidth measures the widest rendered line (stereotype, title, members)
// in monospace cells and converts to units, never below the kind minimum.
func contentWidth(e *entity, cfg *Config, minWidth int) int {
	r := &cfg.Rendering
	widest := 0
	if s := stereotype(e); s != "" {
		widest = max(widest, runewidth.StringWidth(s))
	}
	widest = max(widest, runewidth.StringWidth(e.title()))
	for _, m := range e.members {
		widest = max(widest, runewidth.StringWidth(m))
	}
	w := r.Padding + widest*r.CharWidth + r.Padding
	return max(w, minWidth)
}

// contentHeight counts rendered lines: stereotype (when present), title,
// separator, then one line per member.
func contentHeight(e *entity, r *Rendering) int {
	lines := 2 // title + separator
	if stereotype(e) != "" {
		lines++
	}
	lines += len(e.members)
	return r.Padding + lines*r.LineHeight + r.Padding
}

// stereotype renders the «modifier» prefix line; the kind joins in for
// non-class declarations.
func stereotype(e *entity) string {
	out := ""
	for _, m := range e.modifiers {
		if out != "" {
			out += " "
		}
		out += "«" + m + "»"
	}
	if e.kind != token.KindClass {
		if out != "" {
			out += " "
		}
		out += "«" + string(e.kind) + "»"
	}
	return out
}
