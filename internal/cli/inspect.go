package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/internal/cloudsec"
	"github.com/matzehuels/archdiagram/pkg/blueprint"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	apperrors "github.com/matzehuels/archdiagram/pkg/errors"
)

// Inspect output formats.
const (
	inspectTree = "tree"
	inspectDOT  = "dot"
	inspectJSON = "json"
)

// inspectOpts holds inspect command options.
type inspectOpts struct {
	builtin     bool
	interactive bool
	format      string
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := &inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect [blueprint]",
		Short: "Show a diagram's clusters, nodes and edges without rendering",
		Long: `Show a diagram's structure without rendering it.

The default output is a tree of clusters and nodes followed by an edge table.
Use --format dot for the Graphviz source, --format json for the structured
document, or --interactive to browse nodes and their connections.`,
		Example: `  archdiagram inspect --builtin
  archdiagram inspect platform.yaml --format dot
  archdiagram inspect infra.hcl -i`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runInspect(cmd.Context(), path, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.builtin, "builtin", false, "inspect the built-in AWS CloudSec diagram")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse nodes and edges interactively")
	cmd.Flags().StringVar(&opts.format, "format", inspectTree, "output format: tree, dot, json")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, opts *inspectOpts) error {
	d, err := loadDiagram(ctx, path, opts.builtin)
	if err != nil {
		return err
	}

	if opts.interactive {
		_, err := tea.NewProgram(newInspectModel(d), tea.WithAltScreen()).Run()
		return err
	}

	switch opts.format {
	case inspectTree:
		printInspect(d)
		return nil
	case inspectDOT:
		_, err := fmt.Fprint(os.Stdout, d.DOT())
		return err
	case inspectJSON:
		return d.WriteJSON(os.Stdout)
	default:
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown inspect format %q (use tree, dot or json)", opts.format)
	}
}

// loadDiagram builds the built-in diagram or the blueprint at path.
func loadDiagram(ctx context.Context, path string, builtin bool) (*diagram.Diagram, error) {
	switch {
	case builtin && path != "":
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "pass either a blueprint or --builtin, not both")
	case builtin:
		d := cloudsec.New()
		if err := cloudsec.Build(d); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "build %s", cloudsec.Title)
		}
		return d, nil
	case path == "":
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "a blueprint path or --builtin is required")
	}

	loggerFromContext(ctx).Debugf("Loading %s", path)
	b, err := blueprint.Load(path)
	if err != nil {
		return nil, err
	}
	d, err := b.Build()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidBlueprint, err, "build %s", path)
	}
	return d, nil
}

func printInspect(d *diagram.Diagram) {
	fmt.Println(StyleTitle.Render(d.Title()))
	printKeyValue("Direction", string(d.Direction()))
	printKeyValue("Filename", d.Filename())
	printStats(d.NodeCount(), len(d.Clusters()), d.EdgeCount())
	fmt.Println()
	fmt.Println(clusterTree(d))
	fmt.Println()
	if d.EdgeCount() > 0 {
		fmt.Println(edgeTable(d.Edges()))
	}
}

// clusterTree renders top-level nodes and the cluster hierarchy.
func clusterTree(d *diagram.Diagram) *tree.Tree {
	t := tree.Root(StyleDim.Render("(diagram)")).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, n := range d.Nodes() {
		if n.Cluster() == nil {
			t.Child(nodeItem(n))
		}
	}
	for _, c := range d.Roots() {
		t.Child(clusterItem(c))
	}
	return t
}

func clusterItem(c *diagram.Cluster) *tree.Tree {
	t := tree.Root(styleCluster.Render(c.Name())).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, n := range c.Nodes() {
		t.Child(nodeItem(n))
	}
	for _, child := range c.Children() {
		t.Child(clusterItem(child))
	}
	return t
}

func nodeItem(n *diagram.Node) string {
	return fmt.Sprintf("%s %s %s", n.Label(), styleNodeID.Render(n.ID()), StyleDim.Render(string(n.Category())))
}

// edgeTable renders edges in declaration order.
func edgeTable(edges []*diagram.Edge) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(edges))
	for i, e := range edges {
		arrow := iconArrow
		if !e.Directed() {
			arrow = "─"
		}
		rows[i] = []string{e.From().ID(), arrow, e.To().ID(), edgeStyleText(e)}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("From", "", "To", "Style").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 || col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
}

func edgeStyleText(e *diagram.Edge) string {
	var parts []string
	if e.Style() != "" && e.Style() != diagram.StyleSolid {
		parts = append(parts, string(e.Style()))
	}
	if e.Color() != "" {
		parts = append(parts, e.Color())
	}
	if e.Label() != "" {
		parts = append(parts, fmt.Sprintf("%q", e.Label()))
	}
	return strings.Join(parts, " ")
}

// clusterPath returns the cluster names from the root down to c, joined by "/".
func clusterPath(c *diagram.Cluster) string {
	var names []string
	for ; c != nil; c = c.Parent() {
		names = append([]string{c.Name()}, names...)
	}
	return strings.Join(names, "/")
}
