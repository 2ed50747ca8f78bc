package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/archdiagram/pkg/diagram"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - Interactive node browser
// =============================================================================

// InspectModel is the bubbletea model for browsing a diagram's nodes and
// the edges that touch the selected node.
type InspectModel struct {
	Title  string
	Nodes  []*diagram.Node
	Edges  []*diagram.Edge
	Cursor int
	Height int
	Offset int
}

func newInspectModel(d *diagram.Diagram) InspectModel {
	return InspectModel{
		Title:  d.Title(),
		Nodes:  d.Nodes(),
		Edges:  d.Edges(),
		Height: 15,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if len(m.Nodes) > 0 {
				m.Cursor = len(m.Nodes) - 1
				m.Offset = max(0, m.Cursor-m.Height+1)
			}
		}
	case tea.WindowSizeMsg:
		// Leave room for the header and the detail pane.
		m.Height = max(msg.Height-14, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (no nodes)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Nodes))
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-28s %s", cursor, n.Label(), listDimStyle.Render(clusterPath(n.Cluster())))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	b.WriteString("\n\n")

	b.WriteString(m.detail(m.Nodes[m.Cursor]))
	return b.String()
}

// detail renders the selected node and its incident edges.
func (m InspectModel) detail(n *diagram.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleHighlight.Render(n.Label()), styleNodeID.Render(n.ID()))
	fmt.Fprintf(&b, "%s\n", listDimStyle.Render(string(n.Category())))

	incident := m.incident(n)
	if len(incident) == 0 {
		b.WriteString(listDimStyle.Render("no connections"))
		return b.String()
	}

	rows := make([][]string, len(incident))
	for i, e := range incident {
		dir, peer := "out", e.To()
		if e.To() == n {
			dir, peer = "in", e.From()
		}
		if !e.Directed() {
			dir = "both"
		}
		rows[i] = []string{dir, peer.Label(), edgeStyleText(e)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Dir", "Peer", "Style").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())
	return b.String()
}

// incident returns the edges with n as an endpoint, in declaration order.
func (m InspectModel) incident(n *diagram.Node) []*diagram.Edge {
	var out []*diagram.Edge
	for _, e := range m.Edges {
		if e.From() == n || e.To() == n {
			out = append(out, e)
		}
	}
	return out
}
