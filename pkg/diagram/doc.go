// Package diagram builds architecture diagrams: labeled nodes for
// infrastructure services, nested clusters that group them, and edges
// between them.
//
// A [Diagram] is built in one pass and rendered once:
//
//	d := diagram.New("Web Service", diagram.WithDirection(diagram.LeftToRight))
//	lb := d.MustAddNode("Load Balancer", diagram.AWSELB)
//	vpc := d.MustAddCluster("VPC", nil)
//	web := vpc.MustAddNode("Web", diagram.AWSEC2)
//	db := vpc.MustAddNode("Database", diagram.AWSRDS)
//	d.Chain([]*diagram.Node{lb, web, db})
//	paths, err := d.Render(ctx, "web-service", render.FormatPNG)
//
// [Diagram.Draw] wraps the same steps in a single call that produces no
// file when the build function fails.
//
// # Layout
//
// The package does not lay anything out. It emits Graphviz DOT (see
// [Diagram.DOT]) and hands it to a [render.Engine]. Categories select a
// shape and fill color per provider group; clusters are shaded by depth.
//
// # Determinism
//
// Nodes, clusters and edges are kept in creation order and identities
// derived from labels are stable, so the same sequence of calls always
// produces the same DOT and JSON output.
package diagram
