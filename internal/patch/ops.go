package patch

import (
	"fmt"
	"strings"

	"github.com/alvesvaren/trident/internal/ast"
	"github.com/alvesvaren/trident/internal/source"
)

// Unset is the sentinel for UpdateClassGeometry dimensions that should stay
// untouched, so pure-move drags never spuriously add @width/@height.
const Unset = -1

// UpdateClassPos sets or inserts the @pos directive of a declaration.
// Unknown ids and sources with parse errors return the text unchanged.
func UpdateClassPos(text, id string, x, y int) string {
	return UpdateClassGeometry(text, id, x, y, Unset, Unset)
}

// UpdateClassGeometry sets position and, unless Unset, width and height in
// one splice. Missing directives are inserted; a declaration without a body
// grows a `{ }` block.
func UpdateClassGeometry(text, id string, x, y, w, h int) string {
	doc, f, ok := parseTarget(text)
	if !ok {
		return text
	}
	d := ast.FindDecl(doc.Items, id)
	if d == nil {
		return text
	}

	var edits []Edit
	var missing []string

	if d.Pos != nil {
		edits = append(edits, Edit{Span: d.Pos.ValueSpan, NewText: fmt.Sprintf("(%d, %d)", x, y)})
	} else {
		missing = append(missing, fmt.Sprintf("@pos: (%d, %d)", x, y))
	}
	if w != Unset {
		if d.Width != nil {
			edits = append(edits, Edit{Span: d.Width.ValueSpan, NewText: fmt.Sprintf("%d", w)})
		} else {
			missing = append(missing, fmt.Sprintf("@width: %d", w))
		}
	}
	if h != Unset {
		if d.Height != nil {
			edits = append(edits, Edit{Span: d.Height.ValueSpan, NewText: fmt.Sprintf("%d", h)})
		} else {
			missing = append(missing, fmt.Sprintf("@height: %d", h))
		}
	}

	if len(missing) > 0 {
		indent := lineIndent(f, d.HeaderSpan.Start)
		if d.HasBody {
			edits = append(edits, insertBodyLines(d.LBrace.End, indent, missing))
		} else {
			edits = append(edits, createBody(d.HeaderSpan.End, indent, missing))
		}
	}

	return applyEdits(string(f.Content), edits)
}

// UpdateGroupPos sets or inserts the @pos directive of a group. Anonymous
// groups (id == "") are addressed by traversal index.
func UpdateGroupPos(text, id string, groupIndex, x, y int) string {
	doc, f, ok := parseTarget(text)
	if !ok {
		return text
	}
	g := ast.FindGroup(doc.Items, id, groupIndex)
	if g == nil {
		return text
	}

	var edits []Edit
	if g.Pos != nil {
		edits = append(edits, Edit{Span: g.Pos.ValueSpan, NewText: fmt.Sprintf("(%d, %d)", x, y)})
	} else {
		indent := lineIndent(f, g.FullSpan.Start)
		edits = append(edits, insertBodyLines(g.LBrace.End, indent, []string{fmt.Sprintf("@pos: (%d, %d)", x, y)}))
	}
	return applyEdits(string(f.Content), edits)
}

// InsertImplicitNode appends a minimal declaration for an id known only from
// relation endpoints, flipping it to explicit on the next parse. No-op when
// the id is already declared.
func InsertImplicitNode(text, id string, x, y int) string {
	doc, f, ok := parseTarget(text)
	if !ok {
		return text
	}
	if ast.FindDecl(doc.Items, id) != nil {
		return text
	}
	out := string(f.Content)
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out + fmt.Sprintf("node %s {\n    @pos: (%d, %d)\n}\n", id, x, y)
}

// RemoveClassPos deletes a declaration's @pos line. A body left holding
// nothing else collapses back to a body-less declaration.
func RemoveClassPos(text, id string) string {
	doc, f, ok := parseTarget(text)
	if !ok {
		return text
	}
	d := ast.FindDecl(doc.Items, id)
	if d == nil || d.Pos == nil {
		return text
	}
	return applyEdits(string(f.Content), declPosRemoval(f, d))
}

// RemoveAllPos strips every @pos directive from declarations and groups.
func RemoveAllPos(text string) string {
	doc, f, ok := parseTarget(text)
	if !ok {
		return text
	}
	var edits []Edit
	ast.WalkDecls(doc.Items, func(d *ast.Decl, _ []*ast.Group) bool {
		if d.Pos != nil {
			edits = append(edits, declPosRemoval(f, d)...)
		}
		return true
	})
	ast.WalkGroups(doc.Items, func(g *ast.Group) bool {
		if g.Pos != nil {
			edits = append(edits, Edit{Span: lineDeleteSpan(f, g.Pos.LineSpan)})
		}
		return true
	})
	return applyEdits(string(f.Content), edits)
}

// RenameSymbol substitutes every token-boundary occurrence of old across
// declaration names, group names, and relation endpoints. Absent ids are a
// no-op; collisions with an existing name are not detected.
func RenameSymbol(text, old, new string) string {
	doc, f, ok := parseTarget(text)
	if !ok {
		return text
	}
	var edits []Edit
	ast.WalkDecls(doc.Items, func(d *ast.Decl, _ []*ast.Group) bool {
		if d.Name == old {
			edits = append(edits, Edit{Span: d.NameSpan, NewText: new})
		}
		return true
	})
	ast.WalkGroups(doc.Items, func(g *ast.Group) bool {
		if g.Name == old {
			edits = append(edits, Edit{Span: g.NameSpan, NewText: new})
		}
		return true
	})
	ast.WalkRelations(doc.Items, func(r *ast.Relation) bool {
		if r.From == old {
			edits = append(edits, Edit{Span: r.FromSpan, NewText: new})
		}
		if r.To == old {
			edits = append(edits, Edit{Span: r.ToSpan, NewText: new})
		}
		return true
	})
	if len(edits) == 0 {
		return text
	}
	return applyEdits(string(f.Content), edits)
}

// insertBodyLines builds the insert that adds directive lines right after an
// opening brace, one indent level deeper than the owning header.
func insertBodyLines(after uint32, indent string, lines []string) Edit {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString("    ")
		b.WriteString(l)
	}
	return Edit{
		Span:    source.Span{Start: after, End: after},
		NewText: b.String(),
	}
}

// createBody builds the insert that grows a `{ }` block on a body-less
// declaration header.
func createBody(headerEnd uint32, indent string, lines []string) Edit {
	var b strings.Builder
	b.WriteString(" {")
	for _, l := range lines {
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString("    ")
		b.WriteString(l)
	}
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString("}")
	return Edit{
		Span:    source.Span{Start: headerEnd, End: headerEnd},
		NewText: b.String(),
	}
}

// declPosRemoval deletes the @pos line, collapsing the whole body block when
// nothing else remains in it.
func declPosRemoval(f *source.File, d *ast.Decl) []Edit {
	del := lineDeleteSpan(f, d.Pos.LineSpan)

	rest := string(f.Content[d.LBrace.End:min(del.Start, d.RBrace.Start)]) +
		string(f.Content[max(del.End, d.LBrace.End):d.RBrace.Start])
	if strings.TrimSpace(rest) == "" {
		start := d.LBrace.Start
		for start > 0 {
			c := f.Content[start-1]
			if c != ' ' && c != '\t' && c != '\n' {
				break
			}
			start--
		}
		return []Edit{{Span: source.Span{File: del.File, Start: start, End: d.RBrace.End}}}
	}
	return []Edit{{Span: del}}
}

func min(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func max(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
