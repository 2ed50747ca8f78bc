package diagram

import "fmt"

// EdgeStyle is the Graphviz line style of an edge.
type EdgeStyle string

const (
	StyleSolid  EdgeStyle = "solid"
	StyleDashed EdgeStyle = "dashed"
	StyleDotted EdgeStyle = "dotted"
	StyleBold   EdgeStyle = "bold"
)

// Edge connects two nodes. It is directed (drawn with an arrowhead) unless
// created with [Undirected].
type Edge struct {
	from     *Node
	to       *Node
	color    string
	style    EdgeStyle
	label    string
	directed bool
}

// From returns the source node.
func (e *Edge) From() *Node { return e.from }

// To returns the destination node.
func (e *Edge) To() *Node { return e.to }

// Color returns the line color, or "" for the default.
func (e *Edge) Color() string { return e.color }

// Style returns the line style, or "" for the default.
func (e *Edge) Style() EdgeStyle { return e.style }

// Label returns the edge label.
func (e *Edge) Label() string { return e.label }

// Directed reports whether the edge is drawn with an arrowhead.
func (e *Edge) Directed() bool { return e.directed }

func (e *Edge) String() string {
	if e.directed {
		return fmt.Sprintf("%s -> %s", e.from.id, e.to.id)
	}
	return fmt.Sprintf("%s -- %s", e.from.id, e.to.id)
}

// EdgeOption configures an edge created by [Diagram.Connect].
type EdgeOption func(*Edge)

// WithColor sets the line color (a Graphviz color name or #RRGGBB).
func WithColor(color string) EdgeOption {
	return func(e *Edge) { e.color = color }
}

// WithStyle sets the line style.
func WithStyle(style EdgeStyle) EdgeOption {
	return func(e *Edge) { e.style = style }
}

// WithLabel sets the edge label.
func WithLabel(label string) EdgeOption {
	return func(e *Edge) { e.label = label }
}

// Undirected draws the edge as a plain line without arrowheads.
func Undirected() EdgeOption {
	return func(e *Edge) { e.directed = false }
}

// Connect adds an edge from src to dst.
//
// It returns an [*UnknownNodeError] if either endpoint was not created by
// this diagram; no edge is recorded in that case.
func (d *Diagram) Connect(src, dst *Node, opts ...EdgeOption) (*Edge, error) {
	if d.finalized {
		return nil, ErrFinalized
	}
	if err := d.checkEndpoints(src, dst); err != nil {
		return nil, err
	}
	e := newEdge(src, dst, opts)
	d.edges = append(d.edges, e)
	return e, nil
}

// ConnectAll adds an edge from every node in srcs to every node in dsts, in
// row-major order. All endpoints are checked before any edge is added.
func (d *Diagram) ConnectAll(srcs, dsts []*Node, opts ...EdgeOption) ([]*Edge, error) {
	if d.finalized {
		return nil, ErrFinalized
	}
	if err := d.checkEndpoints(append(append([]*Node(nil), srcs...), dsts...)...); err != nil {
		return nil, err
	}

	edges := make([]*Edge, 0, len(srcs)*len(dsts))
	for _, s := range srcs {
		for _, t := range dsts {
			edges = append(edges, newEdge(s, t, opts))
		}
	}
	d.edges = append(d.edges, edges...)
	return edges, nil
}

// Chain connects each node to the next: Chain(a, b, c) adds a->b and b->c.
func (d *Diagram) Chain(nodes []*Node, opts ...EdgeOption) ([]*Edge, error) {
	if d.finalized {
		return nil, ErrFinalized
	}
	if err := d.checkEndpoints(nodes...); err != nil {
		return nil, err
	}

	var edges []*Edge
	for i := 1; i < len(nodes); i++ {
		edges = append(edges, newEdge(nodes[i-1], nodes[i], opts))
	}
	d.edges = append(d.edges, edges...)
	return edges, nil
}

func (d *Diagram) checkEndpoints(nodes ...*Node) error {
	for _, n := range nodes {
		if d.owns(n) {
			continue
		}
		if n == nil {
			return &UnknownNodeError{}
		}
		return &UnknownNodeError{ID: n.id}
	}
	return nil
}

func newEdge(src, dst *Node, opts []EdgeOption) *Edge {
	e := &Edge{from: src, to: dst, directed: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
