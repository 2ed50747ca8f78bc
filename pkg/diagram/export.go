package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Document is the JSON structure export of a diagram. It carries the graph
// description only; styles derived from categories are not included.
type Document struct {
	Title      string            `json:"title"`
	Direction  Direction         `json:"direction"`
	GraphAttrs map[string]string `json:"graph_attrs,omitempty"`
	Nodes      []DocumentNode    `json:"nodes"`
	Clusters   []DocumentCluster `json:"clusters,omitempty"`
	Edges      []DocumentEdge    `json:"edges"`
}

type DocumentNode struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Category Category          `json:"category,omitempty"`
	Cluster  string            `json:"cluster,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

type DocumentCluster struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

type DocumentEdge struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	Color      string    `json:"color,omitempty"`
	Style      EdgeStyle `json:"style,omitempty"`
	Label      string    `json:"label,omitempty"`
	Undirected bool      `json:"undirected,omitempty"`
}

// Document returns the structure export of the diagram.
func (d *Diagram) Document() Document {
	doc := Document{
		Title:      d.title,
		Direction:  d.direction,
		GraphAttrs: d.GraphAttrs(),
		Nodes:      make([]DocumentNode, len(d.nodes)),
		Edges:      make([]DocumentEdge, len(d.edges)),
	}
	for i, n := range d.nodes {
		dn := DocumentNode{ID: n.id, Label: n.label, Category: n.category, Attrs: n.Attrs()}
		if n.cluster != nil {
			dn.Cluster = n.cluster.id
		}
		doc.Nodes[i] = dn
	}
	for _, c := range d.clusters {
		dc := DocumentCluster{ID: c.id, Name: c.name}
		if c.parent != nil {
			dc.Parent = c.parent.id
		}
		doc.Clusters = append(doc.Clusters, dc)
	}
	for i, e := range d.edges {
		doc.Edges[i] = DocumentEdge{
			From:       e.from.id,
			To:         e.to.id,
			Color:      e.color,
			Style:      e.style,
			Label:      e.label,
			Undirected: !e.directed,
		}
	}
	return doc
}

// WriteJSON encodes the diagram structure as indented JSON and writes it
// to w. Map keys are sorted by the encoder, so output is deterministic.
func (d *Diagram) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.Document()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func (d *Diagram) marshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
