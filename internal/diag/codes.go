package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Syntax
	SynInfo             Code = 2000
	SynUnexpectedLine   Code = 2001
	SynExpectIdentifier Code = 2002
	SynExpectLBrace     Code = 2003
	SynUnclosedBrace    Code = 2004
	SynUnexpectedRBrace Code = 2005
	SynTrailingTokens   Code = 2006
	SynBadPosDirective  Code = 2007
	SynDuplicatePos     Code = 2008
	SynBadSizeDirective Code = 2009
	SynBadLayoutAlgo    Code = 2010
	SynBadRelation      Code = 2011
	SynDuplicateSize    Code = 2012

	// Semantic
	SemInfo           Code = 3000
	SemDuplicateNode  Code = 3001
	SemDuplicateGroup Code = 3002
	SemImplicitNode   Code = 3003

	// I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string",
	LexBadNumber:          "Bad number",
	SynInfo:               "Syntax information",
	SynUnexpectedLine:     "Unexpected line",
	SynExpectIdentifier:   "Expect identifier",
	SynExpectLBrace:       "Expect '{'",
	SynUnclosedBrace:      "Missing '}'",
	SynUnexpectedRBrace:   "Unexpected '}'",
	SynTrailingTokens:     "Unexpected trailing tokens",
	SynBadPosDirective:    "Malformed @pos directive",
	SynDuplicatePos:       "Duplicate @pos in block",
	SynBadSizeDirective:   "Malformed size directive",
	SynBadLayoutAlgo:      "Unknown layout algorithm",
	SynBadRelation:        "Malformed relation",
	SynDuplicateSize:      "Duplicate size directive in block",
	SemInfo:               "Semantic information",
	SemDuplicateNode:      "Duplicate node identifier",
	SemDuplicateGroup:     "Duplicate group identifier",
	SemImplicitNode:       "Implicit node",
	IOLoadFileError:       "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
