// Package parser turns diagram source text into an ast.Document. The
// grammar is line-oriented: every line is a declaration header, a group
// header, a relation, a directive, a comment, or a brace. A malformed line
// yields one positioned diagnostic and is skipped, so a single bad line
// never blanks the whole diagram.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alvesvaren/trident/internal/arrow"
	"github.com/alvesvaren/trident/internal/ast"
	"github.com/alvesvaren/trident/internal/diag"
	"github.com/alvesvaren/trident/internal/lexer"
	"github.com/alvesvaren/trident/internal/source"
	"github.com/alvesvaren/trident/internal/token"
)

// Parse parses the given file into a Document, reporting problems to the
// reporter. The result is always non-nil: unparsable lines are skipped after
// reporting, keeping the document best-effort complete.
func Parse(fileSet *source.FileSet, fileID source.FileID, reporter diag.Reporter) *ast.Document {
	p := &parser{
		f:        fileSet.Get(fileID),
		reporter: reporter,
	}
	p.total = uint32(p.f.LineCount())

	doc := &ast.Document{File: fileID}
	doc.Items = p.parseItems(doc)
	return doc
}

type parser struct {
	f        *source.File
	reporter diag.Reporter
	line     uint32 // 1-based, next line to consume
	total    uint32
}

func (p *parser) eof() bool {
	return p.line >= p.total
}

// content returns the span of the given line with any %% comment removed.
func (p *parser) content(lineNum uint32) source.Span {
	sp := p.f.LineSpan(lineNum)
	text := string(p.f.Content[sp.Start:sp.End])
	if idx := strings.Index(text, "%%"); idx >= 0 {
		sp.End = sp.Start + uint32(idx)
	}
	return sp
}

func (p *parser) text(sp source.Span) string {
	return string(p.f.Content[sp.Start:sp.End])
}

// trim shrinks a span to exclude surrounding spaces and tabs.
func (p *parser) trim(sp source.Span) source.Span {
	for sp.Start < sp.End && isSpaceByte(p.f.Content[sp.Start]) {
		sp.Start++
	}
	for sp.End > sp.Start && isSpaceByte(p.f.Content[sp.End-1]) {
		sp.End--
	}
	return sp
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t'
}

func (p *parser) errorAt(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(p.reporter, code, sp, msg)
}

// comment builds the Comment item for a blank or %%-only line.
func (p *parser) comment(lineNum uint32) *ast.Comment {
	sp := p.f.LineSpan(lineNum)
	text := string(p.f.Content[sp.Start:sp.End])
	out := &ast.Comment{FullSpan: sp}
	if idx := strings.Index(text, "%%"); idx >= 0 {
		out.Text = text[idx+2:]
	}
	return out
}

// parseItems consumes top-level lines until EOF. Group bodies are handled
// by parseGroup, which also accepts the group-only @pos directive.
func (p *parser) parseItems(doc *ast.Document) []ast.Item {
	var items []ast.Item
	for !p.eof() {
		lineNum := p.line + 1
		raw := p.content(lineNum)
		trimmed := p.trim(raw)
		text := p.text(trimmed)

		switch {
		case text == "":
			items = append(items, p.comment(lineNum))
			p.line++

		case text == "classDiagram":
			// Mermaid-compatibility header, accepted and ignored.
			p.line++

		case text == "}":
			p.errorAt(diag.SynUnexpectedRBrace, trimmed, "unexpected '}'")
			p.line++

		case strings.HasPrefix(text, "@layout:"):
			p.line++
			p.parseLayoutDirective(doc, trimmed)

		case isGroupHeader(text):
			if g := p.parseGroup(doc, trimmed); g != nil {
				items = append(items, g)
			}

		case isDeclHeader(text):
			if d := p.parseDecl(trimmed); d != nil {
				items = append(items, d)
			}

		default:
			if r := p.parseRelation(trimmed); r != nil {
				items = append(items, r)
			}
			p.line++
		}
	}
	return items
}

func isGroupHeader(text string) bool {
	return text == "group" || strings.HasPrefix(text, "group ") || strings.HasPrefix(text, "group{")
}

// isDeclHeader reports whether the line begins with a kind keyword or a
// modifier followed by more words.
func isDeclHeader(text string) bool {
	word := text
	if idx := strings.IndexFunc(text, func(r rune) bool { return r == ' ' || r == '\t' || r == '{' }); idx >= 0 {
		word = text[:idx]
	}
	return token.IsKindKeyword(word) || token.IsModifier(word)
}

func (p *parser) parseLayoutDirective(doc *ast.Document, sp source.Span) {
	value := strings.TrimSpace(strings.TrimPrefix(p.text(sp), "@layout:"))
	switch value {
	case string(ast.LayoutHierarchical):
		doc.Layout = ast.LayoutHierarchical
	case string(ast.LayoutGrid):
		doc.Layout = ast.LayoutGrid
	default:
		p.errorAt(diag.SynBadLayoutAlgo, sp,
			fmt.Sprintf("unknown layout algorithm %q; expected hierarchical or grid", value))
	}
}

// parseDecl parses `[modifiers] kind IDENT ["Label"] [{]` plus an optional
// body block. Returns nil after reporting when the header is malformed.
func (p *parser) parseDecl(header source.Span) *ast.Decl {
	c := lexer.NewLineCursor(p.f, header)

	d := &ast.Decl{HeaderSpan: header, FullSpan: header}

	// Modifiers, then the kind keyword.
	for {
		lexer.SkipSpace(&c)
		tok, ok := lexer.ScanIdent(&c)
		if !ok {
			p.errorAt(diag.SynExpectIdentifier, header, "expected declaration keyword")
			p.line++
			return nil
		}
		if kind, mod, isKind := token.LookupKind(tok.Text); isKind {
			d.Kind = kind
			d.Keyword = tok.Text
			if mod != "" {
				d.Modifiers = append(d.Modifiers, mod)
			}
			break
		}
		if token.IsModifier(tok.Text) {
			d.Modifiers = append(d.Modifiers, tok.Text)
			continue
		}
		p.errorAt(diag.SynUnexpectedLine, tok.Span,
			fmt.Sprintf("unexpected word %q in declaration header", tok.Text))
		p.line++
		return nil
	}

	lexer.SkipSpace(&c)
	name, ok := lexer.ScanIdent(&c)
	if !ok {
		p.errorAt(diag.SynExpectIdentifier, header,
			fmt.Sprintf("expected identifier after %q", d.Keyword))
		p.line++
		return nil
	}
	d.Name = name.Text
	d.NameSpan = name.Span

	lexer.SkipSpace(&c)
	if c.Peek() == '"' {
		label, _ := lexer.ScanString(&c)
		if label.Kind == token.Error {
			p.errorAt(diag.LexUnterminatedString, label.Span, "unterminated label string")
			p.line++
			return nil
		}
		d.Label = label.Text
		d.HasLabel = true
		lexer.SkipSpace(&c)
	}

	hasLBrace := false
	if tok, found := lexer.ScanByte(&c, '{', token.LBrace); found {
		hasLBrace = true
		d.LBrace = tok.Span
		lexer.SkipSpace(&c)
	}
	if !c.EOF() {
		p.errorAt(diag.SynTrailingTokens, c.SpanFrom(c.Mark()),
			fmt.Sprintf("unexpected trailing text %q after declaration header", c.Rest()))
		p.line++
		return nil
	}

	p.line++ // header consumed

	if !hasLBrace {
		if !p.nextMeaningfulIsLBrace() {
			return d
		}
		lb, ok := p.consumeLBraceLine()
		if !ok {
			return d
		}
		hasLBrace = true
		d.LBrace = lb
	}

	d.HasBody = true
	p.parseDeclBody(d)
	return d
}

// nextMeaningfulIsLBrace peeks past blank and comment lines for a lone "{".
func (p *parser) nextMeaningfulIsLBrace() bool {
	for n := p.line; n < p.total; n++ {
		text := p.text(p.trim(p.content(n + 1)))
		if text == "" {
			continue
		}
		return text == "{"
	}
	return false
}

func (p *parser) consumeLBraceLine() (source.Span, bool) {
	for !p.eof() {
		lineNum := p.line + 1
		trimmed := p.trim(p.content(lineNum))
		if p.text(trimmed) == "" {
			p.line++
			continue
		}
		if p.text(trimmed) == "{" {
			p.line++
			return trimmed, true
		}
		return source.Span{}, false
	}
	return source.Span{}, false
}

// parseDeclBody consumes directive and member lines until the closing brace.
func (p *parser) parseDeclBody(d *ast.Decl) {
	for {
		if p.eof() {
			p.errorAt(diag.SynUnclosedBrace, d.LBrace,
				fmt.Sprintf("missing '}' for %s %s", d.Keyword, d.Name))
			d.FullSpan = d.HeaderSpan.Cover(source.Span{
				File: d.HeaderSpan.File, Start: uint32(len(p.f.Content)), End: uint32(len(p.f.Content)),
			})
			return
		}
		lineNum := p.line + 1
		trimmed := p.trim(p.content(lineNum))
		text := p.text(trimmed)

		switch {
		case text == "":
			p.line++

		case text == "}":
			d.RBrace = trimmed
			d.FullSpan = d.HeaderSpan.Cover(trimmed)
			p.line++
			return

		case strings.HasPrefix(text, "@pos:"):
			pos, ok := p.parsePosLine(trimmed)
			p.line++
			if !ok {
				continue
			}
			if d.Pos != nil {
				p.errorAt(diag.SynDuplicatePos, trimmed,
					fmt.Sprintf("duplicate @pos in %s %s", d.Keyword, d.Name))
				continue
			}
			pos.LineSpan = p.f.LineSpan(lineNum)
			d.Pos = pos

		case strings.HasPrefix(text, "@width:"):
			if sd, ok := p.parseSizeLine(trimmed, lineNum, "@width:"); ok {
				if d.Width != nil {
					p.errorAt(diag.SynDuplicateSize, trimmed,
						fmt.Sprintf("duplicate @width in %s %s", d.Keyword, d.Name))
				} else {
					d.Width = sd
				}
			}
			p.line++

		case strings.HasPrefix(text, "@height:"):
			if sd, ok := p.parseSizeLine(trimmed, lineNum, "@height:"); ok {
				if d.Height != nil {
					p.errorAt(diag.SynDuplicateSize, trimmed,
						fmt.Sprintf("duplicate @height in %s %s", d.Keyword, d.Name))
				} else {
					d.Height = sd
				}
			}
			p.line++

		default:
			d.Members = append(d.Members, ast.Member{Text: text, Span: trimmed})
			p.line++
		}
	}
}

// parsePosLine parses `@pos: (x, y)`. The returned directive has ValueSpan
// set; the caller fills LineSpan.
func (p *parser) parsePosLine(sp source.Span) (*ast.PosDirective, bool) {
	rest := p.trim(source.Span{File: sp.File, Start: sp.Start + uint32(len("@pos:")), End: sp.End})
	c := lexer.NewLineCursor(p.f, rest)

	if !c.Eat('(') {
		p.errorAt(diag.SynBadPosDirective, sp, "expected @pos: (x, y)")
		return nil, false
	}
	lexer.SkipSpace(&c)
	xt, okX := lexer.ScanInt(&c)
	lexer.SkipSpace(&c)
	comma := c.Eat(',')
	lexer.SkipSpace(&c)
	yt, okY := lexer.ScanInt(&c)
	lexer.SkipSpace(&c)
	if !okX || !okY {
		p.errorAt(diag.SynBadPosDirective, sp, "@pos coordinates must be integers")
		return nil, false
	}
	if !comma || !c.Eat(')') || !c.EOF() {
		p.errorAt(diag.SynBadPosDirective, sp, "expected @pos: (x, y)")
		return nil, false
	}

	x, _ := strconv.Atoi(xt.Text)
	y, _ := strconv.Atoi(yt.Text)
	return &ast.PosDirective{X: x, Y: y, ValueSpan: rest}, true
}

// parseSizeLine parses `@width: n` / `@height: n`; n must be positive.
func (p *parser) parseSizeLine(sp source.Span, lineNum uint32, prefix string) (*ast.SizeDirective, bool) {
	rest := p.trim(source.Span{File: sp.File, Start: sp.Start + uint32(len(prefix)), End: sp.End})
	v, err := strconv.Atoi(p.text(rest))
	if err != nil || v <= 0 {
		p.errorAt(diag.SynBadSizeDirective, sp,
			fmt.Sprintf("expected %s <positive integer>", strings.TrimSuffix(prefix, ":")))
		return nil, false
	}
	return &ast.SizeDirective{
		Value:     v,
		LineSpan:  p.f.LineSpan(lineNum),
		ValueSpan: rest,
	}, true
}

// parseGroup parses `group [IDENT] {` plus the nested body. Returns nil
// after reporting when the header is malformed.
func (p *parser) parseGroup(doc *ast.Document, header source.Span) *ast.Group {
	c := lexer.NewLineCursor(p.f, header)
	g := &ast.Group{FullSpan: header}

	lexer.ScanIdent(&c) // "group", guaranteed by the caller
	lexer.SkipSpace(&c)

	if name, ok := lexer.ScanIdent(&c); ok {
		g.Name = name.Text
		g.NameSpan = name.Span
		lexer.SkipSpace(&c)
	}

	hasLBrace := false
	if tok, found := lexer.ScanByte(&c, '{', token.LBrace); found {
		hasLBrace = true
		g.LBrace = tok.Span
		lexer.SkipSpace(&c)
	}
	if !c.EOF() {
		p.errorAt(diag.SynTrailingTokens, c.SpanFrom(c.Mark()), "unexpected tokens in group header")
		p.line++
		return nil
	}

	p.line++ // header consumed

	if !hasLBrace {
		lb, ok := p.consumeLBraceLine()
		if !ok {
			p.errorAt(diag.SynExpectLBrace, header, "expected '{' to start group block")
			return nil
		}
		g.LBrace = lb
	}

	// Group bodies hold @pos, nested items, comments.
	for {
		if p.eof() {
			p.errorAt(diag.SynUnclosedBrace, g.LBrace, "missing '}' for group")
			return g
		}
		lineNum := p.line + 1
		trimmed := p.trim(p.content(lineNum))
		text := p.text(trimmed)

		switch {
		case text == "}":
			g.RBrace = trimmed
			g.FullSpan = header.Cover(trimmed)
			p.line++
			return g

		case strings.HasPrefix(text, "@pos:"):
			pos, ok := p.parsePosLine(trimmed)
			p.line++
			if !ok {
				continue
			}
			if g.Pos != nil {
				p.errorAt(diag.SynDuplicatePos, trimmed, "duplicate @pos in group block")
				continue
			}
			pos.LineSpan = p.f.LineSpan(lineNum)
			g.Pos = pos

		default:
			items := p.parseGroupStep(doc, trimmed, lineNum)
			g.Items = append(g.Items, items...)
		}
	}
}

// parseGroupStep handles one non-directive, non-brace line inside a group.
func (p *parser) parseGroupStep(doc *ast.Document, trimmed source.Span, lineNum uint32) []ast.Item {
	text := p.text(trimmed)
	switch {
	case text == "":
		item := p.comment(lineNum)
		p.line++
		return []ast.Item{item}

	case text == "classDiagram":
		p.line++
		return nil

	case strings.HasPrefix(text, "@layout:"):
		p.errorAt(diag.SynUnexpectedLine, trimmed, "@layout is a document-level directive")
		p.line++
		return nil

	case isGroupHeader(text):
		if nested := p.parseGroup(doc, trimmed); nested != nil {
			return []ast.Item{nested}
		}
		return nil

	case isDeclHeader(text):
		if d := p.parseDecl(trimmed); d != nil {
			return []ast.Item{d}
		}
		return nil

	default:
		r := p.parseRelation(trimmed)
		p.line++
		if r != nil {
			return []ast.Item{r}
		}
		return nil
	}
}

// parseRelation parses `A <op> B [: label]`, with or without whitespace
// around the operator. Operator detection walks the registry longest token
// first so overlapping operators never mis-split. Returns nil after
// reporting on failure.
func (p *parser) parseRelation(sp source.Span) *ast.Relation {
	text := p.text(sp)

	head := text
	label := ""
	hasLabel := false
	if idx := strings.Index(text, ":"); idx >= 0 {
		head = strings.TrimRight(text[:idx], " \t")
		l := strings.TrimSpace(text[idx+1:])
		if l != "" {
			label = l
			hasLabel = true
		}
	}

	from, entry, to, fromOff, opOff, toOff, ok := splitRelation(head)
	if !ok {
		p.errorAt(diag.SynBadRelation, sp, "invalid relation; expected like A-->B or A --> B")
		return nil
	}

	base := sp.Start
	return &ast.Relation{
		From:     from,
		To:       to,
		Arrow:    entry,
		Label:    label,
		HasLabel: hasLabel,
		FromSpan: source.Span{File: sp.File, Start: base + fromOff, End: base + fromOff + uint32(len(from))},
		OpSpan:   source.Span{File: sp.File, Start: base + opOff, End: base + opOff + uint32(len(entry.Token))},
		ToSpan:   source.Span{File: sp.File, Start: base + toOff, End: base + toOff + uint32(len(to))},
		FullSpan: sp,
	}
}

// splitRelation splits a relation head into endpoints and operator,
// returning byte offsets of each piece inside head.
func splitRelation(head string) (from string, entry arrow.Entry, to string, fromOff, opOff, toOff uint32, ok bool) {
	// Fast path: three whitespace-separated fields.
	fields := strings.Fields(head)
	if len(fields) == 3 && token.IsIdent(fields[0]) && token.IsIdent(fields[2]) {
		if e, found := arrow.FromToken(fields[1]); found {
			fromIdx := strings.Index(head, fields[0])
			opIdx := strings.Index(head[fromIdx+len(fields[0]):], fields[1]) + fromIdx + len(fields[0])
			toIdx := strings.Index(head[opIdx+len(fields[1]):], fields[2]) + opIdx + len(fields[1])
			return fields[0], e, fields[2], uint32(fromIdx), uint32(opIdx), uint32(toIdx), true
		}
	}

	// Compact path: locate any registry token inside the head, longest first.
	for _, e := range arrow.Registry() {
		idx := strings.Index(head, e.Token)
		if idx < 0 {
			continue
		}
		left := strings.TrimSpace(head[:idx])
		right := strings.TrimSpace(head[idx+len(e.Token):])
		if !token.IsIdent(left) || !token.IsIdent(right) {
			continue
		}
		fromIdx := strings.Index(head, left)
		toIdx := idx + len(e.Token) + strings.Index(head[idx+len(e.Token):], right)
		return left, e, right, uint32(fromIdx), uint32(idx), uint32(toIdx), true
	}
	return "", arrow.Entry{}, "", 0, 0, 0, false
}
