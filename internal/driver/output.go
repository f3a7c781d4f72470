// Package driver wires the full pipeline: parse, resolve, lay out, and
// serialize. Hosts call Compile on every keystroke, so the output shape is
// stable, JSON-friendly, and byte-deterministic for identical input.
package driver

import (
	"github.com/alvesvaren/trident/internal/arrow"
	"github.com/alvesvaren/trident/internal/layout"
	"github.com/alvesvaren/trident/internal/token"
)

// Diagram is the serialized compile result consumed by the rendering host.
type Diagram struct {
	Groups        []GroupOutput `json:"groups"`
	Nodes         []NodeOutput  `json:"nodes"`
	Edges         []EdgeOutput  `json:"edges"`
	ImplicitNodes []string      `json:"implicit_nodes"`
	Error         *ErrorInfo    `json:"error,omitempty"`
}

// NodeOutput is one laid-out node. Bounds are world coordinates;
// ParentOffset is the world origin of the enclosing group so hosts can
// recover group-local positions.
type NodeOutput struct {
	ID           string         `json:"id"`
	Kind         token.NodeKind `json:"kind"`
	Modifiers    []string       `json:"modifiers"`
	Label        string         `json:"label,omitempty"`
	Bounds       layout.Rect    `json:"bounds"`
	HasPos       bool           `json:"has_pos"`
	ParentOffset layout.Point   `json:"parent_offset"`
	Explicit     bool           `json:"explicit"`
}

// GroupOutput is one named group's world bounds. Anonymous groups are
// layout-only and do not appear here.
type GroupOutput struct {
	ID     string      `json:"id"`
	Bounds layout.Rect `json:"bounds"`
}

// EdgeOutput is one relation with its resolved arrow metadata.
type EdgeOutput struct {
	From  string      `json:"from"`
	To    string      `json:"to"`
	Arrow arrow.Entry `json:"arrow"`
	Label string      `json:"label,omitempty"`
}

// ErrorInfo is the first compile error with a 1-based line/column range.
type ErrorInfo struct {
	Message   string `json:"message"`
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
	EndLine   uint32 `json:"end_line"`
	EndColumn uint32 `json:"end_column"`
}

// DiagnosticInfo is one formatted diagnostic of any severity, including the
// informational implicit-node notices.
type DiagnosticInfo struct {
	Severity  string `json:"severity"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
	EndLine   uint32 `json:"end_line"`
	EndColumn uint32 `json:"end_column"`
}
