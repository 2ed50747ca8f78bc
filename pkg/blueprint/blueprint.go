// Package blueprint loads declarative diagram definitions and applies them
// to a [diagram.Diagram].
//
// A blueprint can be written in TOML, YAML, HCL or JSON; [Load] picks the
// decoder from the file extension. All four describe the same structure:
// a title, optional layout settings, nodes, nested clusters and edges.
// Edges refer to nodes by ID.
//
// In HCL, nodes, clusters and edges are blocks whose labels carry the node
// ID and cluster name:
//
//	title     = "Web Service"
//	direction = "LR"
//
//	node "lb" {
//	  label    = "Load Balancer"
//	  category = "aws.network.elb"
//	}
//
//	cluster "VPC" {
//	  node "web" {
//	    category = "aws.compute.ec2"
//	  }
//	}
//
//	edge {
//	  from = ["lb"]
//	  to   = ["web"]
//	}
package blueprint

import (
	"fmt"
	"strings"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render"
)

// Blueprint is a declarative diagram definition.
type Blueprint struct {
	Title      string            `json:"title" toml:"title" yaml:"title" hcl:"title,optional"`
	Filename   string            `json:"filename,omitempty" toml:"filename" yaml:"filename,omitempty" hcl:"filename,optional"`
	Direction  string            `json:"direction,omitempty" toml:"direction" yaml:"direction,omitempty" hcl:"direction,optional"`
	Layout     string            `json:"layout,omitempty" toml:"layout" yaml:"layout,omitempty" hcl:"layout,optional"`
	Formats    []string          `json:"formats,omitempty" toml:"formats" yaml:"formats,omitempty" hcl:"formats,optional"`
	GraphAttrs map[string]string `json:"graph_attrs,omitempty" toml:"graph_attrs" yaml:"graph_attrs,omitempty" hcl:"graph_attrs,optional"`

	Nodes    []Node    `json:"nodes,omitempty" toml:"nodes" yaml:"nodes,omitempty" hcl:"node,block"`
	Clusters []Cluster `json:"clusters,omitempty" toml:"clusters" yaml:"clusters,omitempty" hcl:"cluster,block"`
	Edges    []Edge    `json:"edges,omitempty" toml:"edges" yaml:"edges,omitempty" hcl:"edge,block"`
}

// Node declares a node. Label defaults to ID.
type Node struct {
	ID       string            `json:"id" toml:"id" yaml:"id" hcl:"id,label"`
	Label    string            `json:"label,omitempty" toml:"label" yaml:"label,omitempty" hcl:"label,optional"`
	Category string            `json:"category,omitempty" toml:"category" yaml:"category,omitempty" hcl:"category,optional"`
	Attrs    map[string]string `json:"attrs,omitempty" toml:"attrs" yaml:"attrs,omitempty" hcl:"attrs,optional"`
}

// Cluster declares a cluster with its nodes and nested clusters.
type Cluster struct {
	Name     string            `json:"name" toml:"name" yaml:"name" hcl:"name,label"`
	Attrs    map[string]string `json:"attrs,omitempty" toml:"attrs" yaml:"attrs,omitempty" hcl:"attrs,optional"`
	Nodes    []Node            `json:"nodes,omitempty" toml:"nodes" yaml:"nodes,omitempty" hcl:"node,block"`
	Clusters []Cluster         `json:"clusters,omitempty" toml:"clusters" yaml:"clusters,omitempty" hcl:"cluster,block"`
}

// Edge connects every node in From to every node in To.
type Edge struct {
	From       []string `json:"from" toml:"from" yaml:"from" hcl:"from"`
	To         []string `json:"to" toml:"to" yaml:"to" hcl:"to"`
	Color      string   `json:"color,omitempty" toml:"color" yaml:"color,omitempty" hcl:"color,optional"`
	Style      string   `json:"style,omitempty" toml:"style" yaml:"style,omitempty" hcl:"style,optional"`
	Label      string   `json:"label,omitempty" toml:"label" yaml:"label,omitempty" hcl:"label,optional"`
	Undirected bool     `json:"undirected,omitempty" toml:"undirected" yaml:"undirected,omitempty" hcl:"undirected,optional"`
}

// Options returns the diagram options the blueprint's settings describe.
func (b *Blueprint) Options() ([]diagram.Option, error) {
	var opts []diagram.Option

	if b.Direction != "" {
		dir, err := diagram.ParseDirection(b.Direction)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDirection, err, "blueprint %q", b.Title)
		}
		opts = append(opts, diagram.WithDirection(dir))
	}
	if len(b.GraphAttrs) > 0 {
		opts = append(opts, diagram.WithGraphAttrs(b.GraphAttrs))
	}
	if b.Layout != "" {
		opts = append(opts, diagram.WithLayout(b.Layout))
	}
	if b.Filename != "" {
		opts = append(opts, diagram.WithFilename(b.Filename))
	}
	if len(b.Formats) > 0 {
		formats, err := render.ParseFormats(strings.Join(b.Formats, ","))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "blueprint %q", b.Title)
		}
		opts = append(opts, diagram.WithFormats(formats...))
	}
	return opts, nil
}

// Build creates a diagram from the blueprint. Extra options are applied
// after the blueprint's own, so callers can override them.
func (b *Blueprint) Build(extra ...diagram.Option) (*diagram.Diagram, error) {
	opts, err := b.Options()
	if err != nil {
		return nil, err
	}
	d := diagram.New(b.Title, append(opts, extra...)...)
	if err := b.Apply(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Apply adds the blueprint's nodes, clusters and edges to d. Top-level
// nodes are added first, then clusters depth-first, then edges.
//
// An edge naming an undeclared node fails with [*diagram.UnknownNodeError].
func (b *Blueprint) Apply(d *diagram.Diagram) error {
	for _, n := range b.Nodes {
		if err := addNode(d, n, nil); err != nil {
			return err
		}
	}
	for _, c := range b.Clusters {
		if err := addCluster(d, c, nil); err != nil {
			return err
		}
	}
	for i, e := range b.Edges {
		if err := connect(d, e); err != nil {
			return fmt.Errorf("edge %d: %w", i+1, err)
		}
	}
	return nil
}

func addNode(d *diagram.Diagram, n Node, parent *diagram.Cluster) error {
	if err := errors.ValidateName(n.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidBlueprint, err, "node %q", n.Label)
	}

	label := n.Label
	if label == "" {
		label = n.ID
	}
	category := diagram.Category(n.Category)
	if category == "" {
		category = diagram.Generic
	}

	opts := []diagram.NodeOption{diagram.WithID(n.ID)}
	if parent != nil {
		opts = append(opts, diagram.InCluster(parent))
	}
	for k, v := range n.Attrs {
		opts = append(opts, diagram.WithNodeAttr(k, v))
	}

	if _, err := d.AddNode(label, category, opts...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidBlueprint, err, "node %q", n.ID)
	}
	return nil
}

func addCluster(d *diagram.Diagram, c Cluster, parent *diagram.Cluster) error {
	if err := errors.ValidateName(c.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidBlueprint, err, "cluster")
	}

	var opts []diagram.ClusterOption
	for k, v := range c.Attrs {
		opts = append(opts, diagram.WithClusterAttr(k, v))
	}
	cluster, err := d.AddCluster(c.Name, parent, opts...)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidBlueprint, err, "cluster %q", c.Name)
	}

	for _, n := range c.Nodes {
		if err := addNode(d, n, cluster); err != nil {
			return err
		}
	}
	for _, child := range c.Clusters {
		if err := addCluster(d, child, cluster); err != nil {
			return err
		}
	}
	return nil
}

func connect(d *diagram.Diagram, e Edge) error {
	if len(e.From) == 0 || len(e.To) == 0 {
		return errors.New(errors.ErrCodeInvalidBlueprint, "edge needs at least one source and one destination")
	}

	srcs, err := lookup(d, e.From)
	if err != nil {
		return err
	}
	dsts, err := lookup(d, e.To)
	if err != nil {
		return err
	}

	var opts []diagram.EdgeOption
	if e.Color != "" {
		opts = append(opts, diagram.WithColor(e.Color))
	}
	if e.Style != "" {
		style, err := parseStyle(e.Style)
		if err != nil {
			return err
		}
		opts = append(opts, diagram.WithStyle(style))
	}
	if e.Label != "" {
		opts = append(opts, diagram.WithLabel(e.Label))
	}
	if e.Undirected {
		opts = append(opts, diagram.Undirected())
	}

	_, err = d.ConnectAll(srcs, dsts, opts...)
	return err
}

func lookup(d *diagram.Diagram, ids []string) ([]*diagram.Node, error) {
	nodes := make([]*diagram.Node, len(ids))
	for i, id := range ids {
		n, ok := d.Lookup(id)
		if !ok {
			return nil, &diagram.UnknownNodeError{ID: id}
		}
		nodes[i] = n
	}
	return nodes, nil
}

func parseStyle(s string) (diagram.EdgeStyle, error) {
	switch style := diagram.EdgeStyle(strings.ToLower(s)); style {
	case diagram.StyleSolid, diagram.StyleDashed, diagram.StyleDotted, diagram.StyleBold:
		return style, nil
	}
	return "", errors.New(errors.ErrCodeInvalidBlueprint, "invalid edge style %q (must be solid, dashed, dotted or bold)", s)
}
