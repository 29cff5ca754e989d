package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/deployview/pkg/deployments"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// DeploymentListModel - Interactive deployment selection
// =============================================================================

// deploymentRow is one selectable line of the picker.
type deploymentRow struct {
	dep      deployments.Deployment
	title    string
	nodes    int
	clusters int
	edges    int
}

// DeploymentListModel is the bubbletea model for interactive deployment selection.
type DeploymentListModel struct {
	rows     []deploymentRow
	Cursor   int
	Selected *deployments.Deployment
}

// NewDeploymentListModel creates a picker over the given deployments.
func NewDeploymentListModel(deps []deployments.Deployment) (DeploymentListModel, error) {
	rows := make([]deploymentRow, 0, len(deps))
	for _, dep := range deps {
		d, err := dep.Build()
		if err != nil {
			return DeploymentListModel{}, err
		}
		rows = append(rows, deploymentRow{
			dep:      dep,
			title:    d.Title,
			nodes:    d.NodeCount(),
			clusters: d.ClusterCount(),
			edges:    d.EdgeCount(),
		})
	}
	return DeploymentListModel{rows: rows}, nil
}

func (m DeploymentListModel) Init() tea.Cmd {
	return nil
}

func (m DeploymentListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.rows) == 0 {
				return m, tea.Quit
			}
			dep := m.rows[m.Cursor].dep
			m.Selected = &dep
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DeploymentListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Deployment"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ render  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.rows))
	for i, r := range m.rows {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, r.dep.Name, r.title, strconv.Itoa(r.nodes), strconv.Itoa(r.clusters), strconv.Itoa(r.edges)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Deployment", "Title", "Nodes", "Clusters", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.rows) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s", m.rows[m.Cursor].dep.Description)))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))
	}

	return b.String()
}
