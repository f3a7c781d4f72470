// Package token defines the lexical vocabulary of the diagram DSL: token
// kinds produced by the sub-line scanners and the keyword tables that map
// declaration keywords onto node kinds and modifiers.
package token

import "github.com/alvesvaren/trident/internal/source"

// Kind enumerates lexical token kinds.
type Kind uint8

const (
	EOF Kind = iota
	Ident
	String
	Int
	LBrace
	RBrace
	LParen
	RParen
	Comma
	Colon
	At
	ArrowOp
	Comment
	Error
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case String:
		return "String"
	case Int:
		return "Int"
	case LBrace:
		return "LBrace"
	case RBrace:
		return "RBrace"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case Comma:
		return "Comma"
	case Colon:
		return "Colon"
	case At:
		return "At"
	case ArrowOp:
		return "ArrowOp"
	case Comment:
		return "Comment"
	case Error:
		return "Error"
	}
	return "Unknown"
}

// Token is one lexical unit with its originating span.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// NodeKind is the normalized kind of a declaration.
type NodeKind string

const (
	KindClass NodeKind = "class"
	KindNode  NodeKind = "node"
)

// primaryKinds are the keywords that map to themselves.
var primaryKinds = map[string]NodeKind{
	"class": KindClass,
	"node":  KindNode,
}

// classKeywords create class-kind declarations and add themselves as a
// modifier (stereotype).
var classKeywords = map[string]bool{
	"interface": true,
	"enum":      true,
	"struct":    true,
	"record":    true,
	"trait":     true,
	"object":    true,
}

// nodeKeywords create node-kind declarations (shapes) and add themselves as
// a modifier.
var nodeKeywords = map[string]bool{
	"rectangle": true,
	"circle":    true,
	"diamond":   true,
}

// declModifiers may prefix any declaration keyword.
var declModifiers = map[string]bool{
	"abstract": true,
	"static":   true,
	"sealed":   true,
	"final":    true,
}

// LookupKind resolves a declaration keyword. For aliased keywords the second
// result carries the modifier the keyword contributes ("" for class/node).
func LookupKind(word string) (kind NodeKind, modifier string, ok bool) {
	if k, isPrimary := primaryKinds[word]; isPrimary {
		return k, "", true
	}
	if classKeywords[word] {
		return KindClass, word, true
	}
	if nodeKeywords[word] {
		return KindNode, word, true
	}
	return "", "", false
}

// IsKindKeyword reports whether word begins a declaration.
func IsKindKeyword(word string) bool {
	_, _, ok := LookupKind(word)
	return ok
}

// IsModifier reports whether word is a declaration modifier.
func IsModifier(word string) bool {
	return declModifiers[word]
}

// KindKeywords returns every keyword that can begin a declaration, in a
// stable order. Used by the fallback symbol scanner.
func KindKeywords() []string {
	return []string{
		"class", "interface", "enum", "struct", "record", "trait",
		"object", "node", "rectangle", "circle", "diamond",
	}
}

// IsIdent reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func IsIdent(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// IsIdentByte reports whether c may appear inside an identifier.
func IsIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
