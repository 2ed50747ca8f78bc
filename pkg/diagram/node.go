package diagram

import (
	"fmt"
	"maps"
	"strings"
	"unicode"
)

// Node is one infrastructure component in a diagram. Nodes are created with
// [Diagram.AddNode] and are immutable afterwards.
type Node struct {
	id       string
	label    string
	category Category
	attrs    map[string]string
	cluster  *Cluster
	owner    *Diagram
}

// ID returns the node's identity, unique within its diagram.
func (n *Node) ID() string { return n.id }

// Label returns the display label.
func (n *Node) Label() string { return n.label }

// Category returns the category tag.
func (n *Node) Category() Category { return n.category }

// Cluster returns the containing cluster, or nil for a top-level node.
func (n *Node) Cluster() *Cluster { return n.cluster }

// Attrs returns a copy of the extra Graphviz attributes set on the node.
func (n *Node) Attrs() map[string]string { return maps.Clone(n.attrs) }

func (n *Node) String() string { return n.id }

type nodeConfig struct {
	id       string
	explicit bool
	cluster  *Cluster
	attrs    map[string]string
}

// NodeOption configures a node created by [Diagram.AddNode].
type NodeOption func(*nodeConfig)

// WithID sets an explicit identity. Explicit identities must be unique;
// a duplicate is rejected with [ErrDuplicateNodeID].
func WithID(id string) NodeOption {
	return func(c *nodeConfig) {
		c.id = id
		c.explicit = true
	}
}

// InCluster places the node in c.
func InCluster(c *Cluster) NodeOption {
	return func(cfg *nodeConfig) { cfg.cluster = c }
}

// WithNodeAttr sets an extra Graphviz attribute on the node, overriding
// the category style.
func WithNodeAttr(key, value string) NodeOption {
	return func(c *nodeConfig) {
		if c.attrs == nil {
			c.attrs = make(map[string]string)
		}
		c.attrs[key] = value
	}
}

// AddNode creates a node with the given label and category.
//
// Without [WithID] the identity is derived from the label and suffixed with
// _2, _3, ... when already taken, so repeated labels are allowed.
func (d *Diagram) AddNode(label string, category Category, opts ...NodeOption) (*Node, error) {
	if d.finalized {
		return nil, ErrFinalized
	}

	var cfg nodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.cluster != nil && cfg.cluster.owner != d {
		return nil, ErrForeignRef
	}

	id, err := d.assignID(cfg, label)
	if err != nil {
		return nil, err
	}

	n := &Node{
		id:       id,
		label:    label,
		category: category,
		attrs:    cfg.attrs,
		cluster:  cfg.cluster,
		owner:    d,
	}
	d.nodes = append(d.nodes, n)
	d.byID[id] = n
	if n.cluster != nil {
		n.cluster.nodes = append(n.cluster.nodes, n)
	}
	return n, nil
}

// MustAddNode is like AddNode but panics on error. It is meant for
// diagrams declared in code, where an error is a programming mistake.
func (d *Diagram) MustAddNode(label string, category Category, opts ...NodeOption) *Node {
	n, err := d.AddNode(label, category, opts...)
	if err != nil {
		panic(fmt.Sprintf("diagram: add node %q: %v", label, err))
	}
	return n
}

func (d *Diagram) assignID(cfg nodeConfig, label string) (string, error) {
	if cfg.explicit {
		if err := validateID(cfg.id); err != nil {
			return "", err
		}
		if _, taken := d.byID[cfg.id]; taken {
			return "", fmt.Errorf("%w: %s", ErrDuplicateNodeID, cfg.id)
		}
		return cfg.id, nil
	}

	base := slug(label)
	if base == "" {
		base = "node"
	}
	id := base
	for i := 2; ; i++ {
		if _, taken := d.byID[id]; !taken {
			return id, nil
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidNodeID
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains control characters", ErrInvalidNodeID, id)
		}
	}
	return nil
}
