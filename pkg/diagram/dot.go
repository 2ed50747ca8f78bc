package diagram

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	nodeDefaults = map[string]string{
		"style":    "rounded,filled",
		"fontname": "Sans-Serif",
		"fontsize": "13",
		"margin":   "0.2,0.1",
		"penwidth": "0",
	}
	edgeDefaults = map[string]string{
		"color":    "#7B8894",
		"fontname": "Sans-Serif",
		"fontsize": "11",
	}
	clusterDefaults = map[string]string{
		"style":     "rounded,filled",
		"pencolor":  "#AEB6BE",
		"labeljust": "l",
		"fontname":  "Sans-Serif",
		"fontsize":  "12",
	}
)

// DOT returns the Graphviz source for the diagram.
//
// Attributes are written in sorted order and everything else in creation
// order, so the same sequence of builder calls always yields the same text.
func (d *Diagram) DOT() string {
	var buf strings.Builder
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [%s];\n", fmtAttrs(d.graphAttributes()))
	fmt.Fprintf(&buf, "  node [%s];\n", fmtAttrs(nodeDefaults))
	fmt.Fprintf(&buf, "  edge [%s];\n", fmtAttrs(edgeDefaults))

	var top []*Node
	for _, n := range d.nodes {
		if n.cluster == nil {
			top = append(top, n)
		}
	}
	if len(top) > 0 {
		buf.WriteString("\n")
		for _, n := range top {
			writeNode(&buf, n, "  ")
		}
	}

	for _, c := range d.roots {
		buf.WriteString("\n")
		writeCluster(&buf, c, "  ")
	}

	if len(d.edges) > 0 {
		buf.WriteString("\n")
		for _, e := range d.edges {
			writeEdge(&buf, e)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (d *Diagram) graphAttributes() map[string]string {
	attrs := maps.Clone(d.graphAttrs)
	attrs["rankdir"] = string(d.direction)
	if _, ok := attrs["label"]; !ok && d.title != "" {
		attrs["label"] = d.title
	}
	return attrs
}

func writeNode(buf *strings.Builder, n *Node, indent string) {
	style := StyleOf(n.category)
	attrs := map[string]string{
		"label":     n.label,
		"shape":     style.Shape,
		"fillcolor": style.FillColor,
		"fontcolor": style.FontColor,
	}
	maps.Copy(attrs, n.attrs)
	fmt.Fprintf(buf, "%s%s [%s];\n", indent, quote(n.id), fmtAttrs(attrs))
}

func writeCluster(buf *strings.Builder, c *Cluster, indent string) {
	fmt.Fprintf(buf, "%ssubgraph %s {\n", indent, quote(c.id))

	attrs := maps.Clone(clusterDefaults)
	attrs["label"] = c.name
	attrs["bgcolor"] = clusterFill(c.Depth())
	maps.Copy(attrs, c.attrs)
	inner := indent + "  "
	fmt.Fprintf(buf, "%sgraph [%s];\n", inner, fmtAttrs(attrs))

	for _, n := range c.nodes {
		writeNode(buf, n, inner)
	}
	for _, child := range c.children {
		writeCluster(buf, child, inner)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func writeEdge(buf *strings.Builder, e *Edge) {
	attrs := make(map[string]string)
	if e.color != "" {
		attrs["color"] = e.color
	}
	if e.style != "" {
		attrs["style"] = string(e.style)
	}
	if e.label != "" {
		attrs["label"] = e.label
	}
	if !e.directed {
		attrs["dir"] = "none"
	}

	if len(attrs) == 0 {
		fmt.Fprintf(buf, "  %s -> %s;\n", quote(e.from.id), quote(e.to.id))
		return
	}
	fmt.Fprintf(buf, "  %s -> %s [%s];\n", quote(e.from.id), quote(e.to.id), fmtAttrs(attrs))
}

func fmtAttrs(attrs map[string]string) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, k+"="+quote(attrs[k]))
	}
	return strings.Join(parts, ", ")
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")

// quote returns s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
