package lexer

import (
	"github.com/alvesvaren/trident/internal/token"
)

// The scanners below operate on a line-limited Cursor. They are the lexical
// half of the line-oriented grammar: the parser decides what a line is, the
// scanners pull typed tokens out of it with exact byte spans.

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isIdentStart(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// SkipSpace consumes spaces and tabs.
func SkipSpace(c *Cursor) {
	for !c.EOF() && isSpace(c.Peek()) {
		c.Bump()
	}
}

// ScanIdent scans [A-Za-z_][A-Za-z0-9_]* at the cursor.
func ScanIdent(c *Cursor) (token.Token, bool) {
	if c.EOF() || !isIdentStart(c.Peek()) {
		return token.Token{}, false
	}
	m := c.Mark()
	c.Bump()
	for !c.EOF() && token.IsIdentByte(c.Peek()) {
		c.Bump()
	}
	sp := c.SpanFrom(m)
	return token.Token{
		Kind: token.Ident,
		Span: sp,
		Text: string(c.File.Content[sp.Start:sp.End]),
	}, true
}

// ScanString scans a double-quoted string with no escape processing. The
// token text excludes the quotes; the span includes them.
func ScanString(c *Cursor) (token.Token, bool) {
	if c.Peek() != '"' {
		return token.Token{}, false
	}
	m := c.Mark()
	c.Bump()
	contentStart := c.Off
	for !c.EOF() && c.Peek() != '"' {
		c.Bump()
	}
	if c.EOF() {
		// Unterminated; report span to limit so diagnostics can underline it.
		sp := c.SpanFrom(m)
		return token.Token{Kind: token.Error, Span: sp, Text: "unterminated string"}, true
	}
	contentEnd := c.Off
	c.Bump() // closing quote
	sp := c.SpanFrom(m)
	return token.Token{
		Kind: token.String,
		Span: sp,
		Text: string(c.File.Content[contentStart:contentEnd]),
	}, true
}

// ScanInt scans an optionally signed integer literal.
func ScanInt(c *Cursor) (token.Token, bool) {
	m := c.Mark()
	if c.Peek() == '-' || c.Peek() == '+' {
		if b0, b1, ok := c.Peek2(); !ok || (b0 == '-' || b0 == '+') && !isDigit(b1) {
			return token.Token{}, false
		}
		c.Bump()
	}
	if c.EOF() || !isDigit(c.Peek()) {
		c.Reset(m)
		return token.Token{}, false
	}
	for !c.EOF() && isDigit(c.Peek()) {
		c.Bump()
	}
	sp := c.SpanFrom(m)
	return token.Token{
		Kind: token.Int,
		Span: sp,
		Text: string(c.File.Content[sp.Start:sp.End]),
	}, true
}

// ScanByte consumes one expected punctuation byte and returns its token.
func ScanByte(c *Cursor, b byte, kind token.Kind) (token.Token, bool) {
	if c.Peek() != b {
		return token.Token{}, false
	}
	m := c.Mark()
	c.Bump()
	return token.Token{Kind: kind, Span: c.SpanFrom(m), Text: string(b)}, true
}
