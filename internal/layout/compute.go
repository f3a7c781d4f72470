package layout

import (
	"github.com/alvesvaren/trident/internal/ast"
	"github.com/alvesvaren/trident/internal/symbols"
	"github.com/alvesvaren/trident/internal/token"
)

// NodeResult is the computed box for one node. Local is relative to the
// enclosing group's origin; ParentOffset is that origin in world coordinates.
type NodeResult struct {
	ID           string
	Kind         token.NodeKind
	Modifiers    []string
	Label        string
	Local        Rect
	ParentOffset Point
	HasPos       bool
	Explicit     bool
}

// GroupResult is the computed box for one group. Local covers the group's
// content plus padding, in the parent's coordinate space.
type GroupResult struct {
	Name         string
	Local        Rect
	ParentOffset Point
	HasPos       bool
}

// Result carries every computed box: nodes in namespace order (explicit
// declarations first, then implicit nodes in first-use order), groups in
// document pre-order.
type Result struct {
	Nodes  []NodeResult
	Groups []GroupResult
}

// entity is one placeable node during layout.
type entity struct {
	name      string
	kind      token.NodeKind
	modifiers []string
	label     string
	members   []string
	width     int // 0 = unset
	height    int

	pos      *Point // manual anchor, nil when auto-placed
	explicit bool
	order    int // namespace order, used for the output slot

	size  Size
	local Point
}

func (e *entity) title() string {
	if e.label != "" {
		return e.label
	}
	return e.name
}

func (e *entity) rect() Rect {
	return Rect{X: e.local.X, Y: e.local.Y, W: e.size.W, H: e.size.H}
}

// scope is one nesting level: the document root or a group body.
type scope struct {
	group    *ast.Group // nil for the root
	order    int        // pre-order slot for the output, -1 for the root
	entities []*entity
	children []*scope

	pos    *Point // the group's manual anchor
	local  Point  // placement within the parent
	bounds Rect   // content bounds + padding, in this scope's coordinates
}

// Compute lays out a resolved document. The algorithm argument falls back to
// hierarchical when empty or unknown.
func Compute(doc *ast.Document, tbl *symbols.Table, algo Algo, cfg Config) *Result {
	root, nNodes, nGroups := buildScopes(doc, tbl)

	placer := placeHierarchical
	if algo == Grid {
		placer = placeGrid
	}

	layoutScope(root, doc, &cfg, placer)

	res := &Result{
		Nodes:  make([]NodeResult, nNodes),
		Groups: make([]GroupResult, nGroups),
	}
	collect(root, Point{}, res)
	return res
}

// placerFunc positions a scope's auto entities and auto child scopes.
// Anchored items already carry their manual positions.
type placerFunc func(sc *scope, doc *ast.Document, cfg *Config)

// buildScopes mirrors the document's group nesting. Implicit nodes join the
// root scope after every explicit declaration.
func buildScopes(doc *ast.Document, tbl *symbols.Table) (root *scope, nNodes, nGroups int) {
	root = &scope{order: -1}
	byGroup := map[*ast.Group]*scope{}
	groupOrder := 0

	var build func(items []ast.Item, parent *scope)
	build = func(items []ast.Item, parent *scope) {
		for _, it := range items {
			g, ok := it.(*ast.Group)
			if !ok {
				continue
			}
			sc := &scope{group: g, order: groupOrder}
			groupOrder++
			if g.Pos != nil {
				sc.pos = &Point{X: g.Pos.X, Y: g.Pos.Y}
			}
			byGroup[g] = sc
			parent.children = append(parent.children, sc)
			build(g.Items, sc)
		}
	}
	build(doc.Items, root)

	order := 0
	for _, n := range tbl.Nodes {
		e := declEntity(n.Decl, order)
		order++
		owner := root
		if len(n.Path) > 0 {
			owner = byGroup[n.Path[len(n.Path)-1]]
		}
		owner.entities = append(owner.entities, e)
	}
	for _, im := range tbl.Implicits {
		root.entities = append(root.entities, &entity{
			name:  im.Name,
			kind:  token.KindNode,
			order: order,
		})
		order++
	}

	return root, order, groupOrder
}

func declEntity(d *ast.Decl, order int) *entity {
	e := &entity{
		name:      d.Name,
		kind:      d.Kind,
		modifiers: d.Modifiers,
		label:     d.Label,
		explicit:  true,
		order:     order,
	}
	for _, m := range d.Members {
		e.members = append(e.members, m.Text)
	}
	if d.Pos != nil {
		e.pos = &Point{X: d.Pos.X, Y: d.Pos.Y}
	}
	if d.Width != nil {
		e.width = d.Width.Value
	}
	if d.Height != nil {
		e.height = d.Height.Value
	}
	return e
}

// layoutScope lays out children bottom-up: nested groups first so their
// bounds are known when the parent packs them.
func layoutScope(sc *scope, doc *ast.Document, cfg *Config, place placerFunc) {
	for _, child := range sc.children {
		layoutScope(child, doc, cfg, place)
	}

	for _, e := range sc.entities {
		e.size = nodeSize(e, cfg)
		if e.pos != nil {
			e.local = *e.pos
		}
	}
	for _, child := range sc.children {
		if child.pos != nil {
			child.local = *child.pos
		}
	}

	place(sc, doc, cfg)
	sc.bounds = contentBounds(sc, cfg)
}

// contentBounds is the union of every child box expanded by the group
// padding; an empty scope gets the minimum group size.
func contentBounds(sc *scope, cfg *Config) Rect {
	var bb Rect
	any := false
	add := func(r Rect) {
		if any {
			bb = bb.Union(r)
		} else {
			bb = r
			any = true
		}
	}
	for _, e := range sc.entities {
		add(e.rect())
	}
	for _, child := range sc.children {
		add(Rect{X: child.local.X, Y: child.local.Y, W: child.bounds.W, H: child.bounds.H})
	}
	if !any {
		return Rect{W: cfg.MinGroupSize.W, H: cfg.MinGroupSize.H}
	}
	return Rect{
		X: bb.X - cfg.GroupPadding,
		Y: bb.Y - cfg.GroupPadding,
		W: bb.W + 2*cfg.GroupPadding,
		H: bb.H + 2*cfg.GroupPadding,
	}
}

// collect accumulates world offsets top-down and fills the result slices.
func collect(sc *scope, origin Point, res *Result) {
	for _, e := range sc.entities {
		res.Nodes[e.order] = NodeResult{
			ID:           e.name,
			Kind:         e.kind,
			Modifiers:    e.modifiers,
			Label:        e.label,
			Local:        e.rect(),
			ParentOffset: origin,
			HasPos:       e.pos != nil,
			Explicit:     e.explicit,
		}
	}
	for _, child := range sc.children {
		res.Groups[child.order] = GroupResult{
			Name: child.group.Name,
			Local: Rect{
				X: child.local.X + child.bounds.X,
				Y: child.local.Y + child.bounds.Y,
				W: child.bounds.W,
				H: child.bounds.H,
			},
			ParentOffset: origin,
			HasPos:       child.pos != nil,
		}
		collect(child, Point{X: origin.X + child.local.X, Y: origin.Y + child.local.Y}, res)
	}
}

// anchors returns the boxes already fixed by manual positions in a scope.
func anchors(sc *scope) []Rect {
	var out []Rect
	for _, e := range sc.entities {
		if e.pos != nil {
			out = append(out, e.rect())
		}
	}
	for _, child := range sc.children {
		if child.pos != nil {
			out = append(out, Rect{
				X: child.local.X, Y: child.local.Y,
				W: child.bounds.W, H: child.bounds.H,
			})
		}
	}
	return out
}

func overlapsAny(r Rect, obstacles []Rect) bool {
	for _, o := range obstacles {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}

// packGroups row-packs auto child scopes starting at the given y, wrapping
// at the configured row width.
func packGroups(sc *scope, cfg *Config, startY int) {
	x := cfg.GroupPadding
	y := startY
	for _, child := range sc.children {
		if child.pos != nil {
			continue
		}
		if x+child.bounds.W > cfg.MaxRowWidth && x > cfg.GroupPadding {
			x = cfg.GroupPadding
			y += child.bounds.H + cfg.Gap
		}
		child.local = Point{X: x, Y: y}
		x += child.bounds.W + cfg.Gap
	}
}
