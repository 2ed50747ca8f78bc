package diagram

import (
	"fmt"
	"maps"
	"slices"
)

// Cluster is a named, purely presentational grouping of nodes and nested
// clusters. Clusters form a tree rooted at the diagram.
type Cluster struct {
	id       string
	name     string
	attrs    map[string]string
	parent   *Cluster
	children []*Cluster
	nodes    []*Node
	owner    *Diagram
}

// ID returns the cluster's identity (cluster_1, cluster_2, ...). Graphviz
// draws a subgraph as a box only when its name starts with "cluster".
func (c *Cluster) ID() string { return c.id }

// Name returns the cluster's display label.
func (c *Cluster) Name() string { return c.name }

// Parent returns the enclosing cluster, or nil for a top-level cluster.
func (c *Cluster) Parent() *Cluster { return c.parent }

// Children returns the nested clusters in creation order.
func (c *Cluster) Children() []*Cluster { return append([]*Cluster(nil), c.children...) }

// Nodes returns the nodes placed directly in c, in creation order.
func (c *Cluster) Nodes() []*Node { return append([]*Node(nil), c.nodes...) }

// Attrs returns a copy of the extra Graphviz attributes set on the cluster.
func (c *Cluster) Attrs() map[string]string { return maps.Clone(c.attrs) }

// Depth returns 0 for a top-level cluster, 1 for its children, and so on.
func (c *Cluster) Depth() int {
	depth := 0
	for p := c.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// AddNode creates a node inside c. See [Diagram.AddNode].
func (c *Cluster) AddNode(label string, category Category, opts ...NodeOption) (*Node, error) {
	return c.owner.AddNode(label, category, append(opts, InCluster(c))...)
}

// MustAddNode creates a node inside c and panics on error.
func (c *Cluster) MustAddNode(label string, category Category, opts ...NodeOption) *Node {
	return c.owner.MustAddNode(label, category, append(opts, InCluster(c))...)
}

// AddCluster creates a cluster nested in c.
func (c *Cluster) AddCluster(name string, opts ...ClusterOption) (*Cluster, error) {
	return c.owner.AddCluster(name, c, opts...)
}

// MustAddCluster creates a cluster nested in c and panics on error.
func (c *Cluster) MustAddCluster(name string, opts ...ClusterOption) *Cluster {
	return c.owner.MustAddCluster(name, c, opts...)
}

func (c *Cluster) String() string { return c.name }

// ClusterOption configures a cluster created by [Diagram.AddCluster].
type ClusterOption func(*Cluster)

// WithClusterAttr sets an extra Graphviz attribute on the cluster,
// overriding the depth-based default style.
func WithClusterAttr(key, value string) ClusterOption {
	return func(c *Cluster) {
		if c.attrs == nil {
			c.attrs = make(map[string]string)
		}
		c.attrs[key] = value
	}
}

// AddCluster creates a cluster named name inside parent, or at the top level
// when parent is nil.
func (d *Diagram) AddCluster(name string, parent *Cluster, opts ...ClusterOption) (*Cluster, error) {
	if d.finalized {
		return nil, ErrFinalized
	}
	if parent != nil && parent.owner != d {
		return nil, ErrForeignRef
	}

	c := &Cluster{
		id:     fmt.Sprintf("cluster_%d", len(d.clusters)+1),
		name:   name,
		parent: parent,
		owner:  d,
	}
	for _, opt := range opts {
		opt(c)
	}

	d.clusters = append(d.clusters, c)
	if parent == nil {
		d.roots = append(d.roots, c)
	} else {
		parent.children = append(parent.children, c)
	}
	return c, nil
}

// MustAddCluster is like AddCluster but panics on error.
func (d *Diagram) MustAddCluster(name string, parent *Cluster, opts ...ClusterOption) *Cluster {
	c, err := d.AddCluster(name, parent, opts...)
	if err != nil {
		panic(fmt.Sprintf("diagram: add cluster %q: %v", name, err))
	}
	return c
}

// MoveCluster re-parents c under parent, or to the top level when parent is
// nil. It returns [ErrClusterCycle] if parent is c or one of its descendants.
func (d *Diagram) MoveCluster(c, parent *Cluster) error {
	if d.finalized {
		return ErrFinalized
	}
	if c == nil || c.owner != d {
		return ErrForeignRef
	}
	if parent != nil && parent.owner != d {
		return ErrForeignRef
	}
	for p := parent; p != nil; p = p.parent {
		if p == c {
			return fmt.Errorf("move %s under %s: %w", c.id, parent.id, ErrClusterCycle)
		}
	}

	if c.parent == nil {
		d.roots = slices.DeleteFunc(d.roots, func(x *Cluster) bool { return x == c })
	} else {
		c.parent.children = slices.DeleteFunc(c.parent.children, func(x *Cluster) bool { return x == c })
	}

	c.parent = parent
	if parent == nil {
		d.roots = append(d.roots, c)
	} else {
		parent.children = append(parent.children, c)
	}
	return nil
}
