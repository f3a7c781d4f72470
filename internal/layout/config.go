// Package layout computes bounding boxes for every node and group in a
// resolved document. Two algorithms are available, hierarchical (default) and
// grid; both honor manual @pos/@width/@height overrides and are fully
// deterministic: no map iteration order, no time, no randomness.
package layout

// Algo selects a placement algorithm.
type Algo string

const (
	Hierarchical Algo = "hierarchical"
	Grid         Algo = "grid"
)

// Size is a width/height pair in diagram units.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Rendering carries the text-measurement constants used for content-based
// node sizing. They mirror the renderer's monospace metrics.
type Rendering struct {
	Padding    int
	LineHeight int
	CharWidth  int
}

// Config tunes spacing and default sizes.
type Config struct {
	// GroupPadding is the inset between a group's border and its children.
	GroupPadding int
	// Gap separates siblings during packing.
	Gap int
	// MaxRowWidth is the wrap width for row packing.
	MaxRowWidth int

	ClassSize    Size
	NodeSize     Size
	MinGroupSize Size

	Rendering Rendering
}

// DefaultConfig returns the renderer-aligned defaults.
func DefaultConfig() Config {
	return Config{
		GroupPadding: 24,
		Gap:          24,
		MaxRowWidth:  1000,
		ClassSize:    Size{W: 220, H: 120},
		NodeSize:     Size{W: 80, H: 80},
		MinGroupSize: Size{W: 200, H: 120},
		Rendering: Rendering{
			Padding:    8,
			LineHeight: 14,
			CharWidth:  7,
		},
	}
}
