package diagram

import (
	"fmt"
	"maps"
	"strings"
	"unicode"

	"github.com/matzehuels/archdiagram/pkg/render"
)

// Direction is the rank direction handed to the layout engine.
type Direction string

const (
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
)

// ParseDirection parses a direction name, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q (must be TB, BT, LR or RL)", ErrInvalidDirection, s)
	}
	return d, nil
}

// Valid reports whether d is one of the four rank directions.
func (d Direction) Valid() bool {
	switch d {
	case TopToBottom, BottomToTop, LeftToRight, RightToLeft:
		return true
	}
	return false
}

// Diagram accumulates nodes, clusters and edges, then renders them once.
//
// Nodes, clusters and edges are kept in insertion order, so the same
// sequence of calls always yields the same DOT source. The zero value is
// not usable; create diagrams with [New].
//
// A Diagram is not safe for concurrent use.
type Diagram struct {
	title      string
	filename   string
	formats    []render.Format
	direction  Direction
	graphAttrs map[string]string
	engine     render.Engine

	nodes    []*Node
	byID     map[string]*Node
	clusters []*Cluster
	roots    []*Cluster
	edges    []*Edge

	finalized bool
}

// Option configures a [Diagram].
type Option func(*Diagram)

// WithDirection sets the rank direction. The default is [TopToBottom].
func WithDirection(dir Direction) Option {
	return func(d *Diagram) { d.direction = dir }
}

// WithGraphAttr sets a Graphviz graph attribute, overriding the default.
func WithGraphAttr(key, value string) Option {
	return func(d *Diagram) { d.graphAttrs[key] = value }
}

// WithGraphAttrs sets several graph attributes at once.
func WithGraphAttrs(attrs map[string]string) Option {
	return func(d *Diagram) { maps.Copy(d.graphAttrs, attrs) }
}

// WithLayout selects the Graphviz layout engine (dot, neato, fdp, circo,
// twopi). The default is dot.
func WithLayout(layout string) Option {
	return WithGraphAttr("layout", layout)
}

// WithFilename sets the output path, without extension, used when
// [Diagram.Render] is called with an empty path. The default is derived from
// the title.
func WithFilename(name string) Option {
	return func(d *Diagram) {
		if name != "" {
			d.filename = name
		}
	}
}

// WithFormats sets the formats used when [Diagram.Render] is called without
// formats. The default is PNG.
func WithFormats(formats ...render.Format) Option {
	return func(d *Diagram) {
		if len(formats) > 0 {
			d.formats = formats
		}
	}
}

// WithEngine replaces the rendering engine. The default is [render.Graphviz].
func WithEngine(e render.Engine) Option {
	return func(d *Diagram) {
		if e != nil {
			d.engine = e
		}
	}
}

// New creates an empty diagram with the given title.
func New(title string, opts ...Option) *Diagram {
	d := &Diagram{
		title:      title,
		filename:   defaultFilename(title),
		formats:    []render.Format{render.DefaultFormat},
		direction:  TopToBottom,
		graphAttrs: defaultGraphAttrs(),
		engine:     render.NewGraphviz(),
		byID:       make(map[string]*Node),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Title returns the diagram title.
func (d *Diagram) Title() string { return d.title }

// Filename returns the default output path without extension.
func (d *Diagram) Filename() string { return d.filename }

// Formats returns the default output formats.
func (d *Diagram) Formats() []render.Format { return append([]render.Format(nil), d.formats...) }

// Direction returns the rank direction.
func (d *Diagram) Direction() Direction { return d.direction }

// GraphAttrs returns a copy of the graph attributes.
func (d *Diagram) GraphAttrs() map[string]string { return maps.Clone(d.graphAttrs) }

// Finalized reports whether Render has been called.
func (d *Diagram) Finalized() bool { return d.finalized }

// Nodes returns all nodes in creation order.
func (d *Diagram) Nodes() []*Node { return append([]*Node(nil), d.nodes...) }

// Clusters returns all clusters in creation order, at every depth.
func (d *Diagram) Clusters() []*Cluster { return append([]*Cluster(nil), d.clusters...) }

// Roots returns the top-level clusters in creation order.
func (d *Diagram) Roots() []*Cluster { return append([]*Cluster(nil), d.roots...) }

// Edges returns all edges in creation order.
func (d *Diagram) Edges() []*Edge { return append([]*Edge(nil), d.edges...) }

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// Lookup returns the node with the given identity.
func (d *Diagram) Lookup(id string) (*Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// Validate re-checks the structural invariants: every edge endpoint exists,
// identities are unique, clusters form a tree, and the direction is valid.
func (d *Diagram) Validate() error {
	if !d.direction.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, d.direction)
	}

	seen := make(map[string]bool, len(d.nodes))
	for _, n := range d.nodes {
		if seen[n.id] {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.id)
		}
		seen[n.id] = true
		if n.cluster != nil && n.cluster.owner != d {
			return fmt.Errorf("node %s: %w", n.id, ErrForeignRef)
		}
	}

	for _, e := range d.edges {
		if !d.owns(e.from) {
			return &UnknownNodeError{ID: e.from.id}
		}
		if !d.owns(e.to) {
			return &UnknownNodeError{ID: e.to.id}
		}
	}

	for _, c := range d.clusters {
		steps := 0
		for p := c.parent; p != nil; p = p.parent {
			if p == c || steps > len(d.clusters) {
				return fmt.Errorf("cluster %s: %w", c.id, ErrClusterCycle)
			}
			steps++
		}
	}
	return nil
}

func (d *Diagram) owns(n *Node) bool {
	if n == nil || n.owner != d {
		return false
	}
	return d.byID[n.id] == n
}

func defaultGraphAttrs() map[string]string {
	return map[string]string{
		"pad":       "2.0",
		"splines":   "ortho",
		"nodesep":   "0.60",
		"ranksep":   "0.75",
		"fontname":  "Sans-Serif",
		"fontsize":  "15",
		"fontcolor": "#2D3436",
	}
}

func defaultFilename(title string) string {
	if s := slug(title); s != "" {
		return s
	}
	return "diagram"
}

// slug lowercases s and replaces every run of characters that are not
// letters or digits with a single underscore.
func slug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
