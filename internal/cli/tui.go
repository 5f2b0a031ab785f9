package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mircut/mircut/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CutListModel - Interactive cut browsing
// =============================================================================

// CutListModel is the bubbletea model for browsing generated cuts.
// The table lists every cut; the pane below shows the coefficients of
// the cut under the cursor.
type CutListModel struct {
	Cuts   []pipeline.Cut
	Cursor int
	Height int
	Offset int
}

// NewCutListModel creates a new cut list model.
func NewCutListModel(cuts []pipeline.Cut) CutListModel {
	return CutListModel{
		Cuts:   cuts,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m CutListModel) Init() tea.Cmd {
	return nil
}

func (m CutListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Cuts)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m CutListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Generated Cuts"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Cuts) == 0 {
		b.WriteString(listDimStyle.Render("  no cuts"))
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Cuts) {
		end = len(m.Cuts)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, cutRow(cursor, i, m.Cuts[i]))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Family", "Param", "Sense", "RHS", "Nonzeros").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleTitle.Render("Coefficients"))
	b.WriteString("\n")
	b.WriteString(formatCutBody(m.Cuts[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Cuts))))

	return b.String()
}

// cutRow formats one table row for a cut.
func cutRow(cursor string, i int, c pipeline.Cut) []string {
	return []string{
		cursor,
		fmt.Sprintf("%d", i),
		c.Family,
		fmt.Sprintf("%g", c.Param),
		c.Sense,
		fmt.Sprintf("%.6g", c.RHS),
		fmt.Sprintf("%d", len(c.Cols)),
	}
}

// formatCutBody renders the sparse left-hand side of a cut, one
// coefficient per line.
func formatCutBody(c pipeline.Cut) string {
	var b strings.Builder
	for k, col := range c.Cols {
		fmt.Fprintf(&b, "  x%-6d %12.6g\n", col, c.Coeffs[k])
	}
	fmt.Fprintf(&b, "  %s %.6g\n", c.Sense, c.RHS)
	return b.String()
}

// renderCutTable renders a non-interactive summary table of cuts, used
// by the inspect command when no TTY session is wanted.
func renderCutTable(cuts []pipeline.Cut) string {
	rows := [][]string{}
	for i, c := range cuts {
		rows = append(rows, cutRow("", i, c))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Family", "Param", "Sense", "RHS", "Nonzeros").
		Rows(rows...)

	return t.Render()
}
