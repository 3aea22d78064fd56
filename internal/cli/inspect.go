package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/dsl"
	"github.com/matzehuels/loopline/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse the vertices and links of a loop source",
		Long: `Show the translated graph of a loop source as tables.

The interactive view switches between vertices and links with tab and
scrolls with the arrow keys. --plain prints both tables and exits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print tables instead of the interactive view")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, plain bool) error {
	src, err := readSource(input)
	if err != nil {
		return err
	}
	p, err := pipeline.Parse(ctx, src)
	if err != nil {
		return reportSourceError(input, src, err)
	}

	m := newInspectModel(input, p.Graph)
	if plain {
		fmt.Fprintln(stdout, m.renderTable(tabVertices, 0, len(m.vertices)))
		fmt.Fprintln(stdout, m.renderTable(tabLinks, 0, len(m.links)))
		return nil
	}
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// inspectModel - interactive graph browser
// =============================================================================

const (
	tabVertices = iota
	tabLinks
)

var (
	inspectHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	inspectActiveTab   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	inspectTab         = lipgloss.NewStyle().Foreground(colorDim)
	inspectCursor      = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

type inspectModel struct {
	title    string
	vertices [][]string
	links    [][]string
	polarity []dsl.Polarity // per link row

	tab    int
	cursor int
	offset int
	height int
}

func newInspectModel(title string, g *digraph.Graph) inspectModel {
	m := inspectModel{title: title, height: 15}

	in := make([]int, g.Len())
	out := make([]int, g.Len())
	for _, e := range g.Edges() {
		out[e.From]++
		in[e.To]++
	}
	for i, v := range g.Vertices {
		framed := ""
		if v.Framed {
			framed = "■"
		}
		m.vertices = append(m.vertices, []string{
			strconv.Itoa(i), v.Name, v.Text, framed,
			strconv.Itoa(in[i]), strconv.Itoa(out[i]),
		})
	}

	for _, e := range g.Edges() {
		a, _ := g.Attr(e.From, e.To)
		delayed := ""
		if a.Delayed {
			delayed = "||"
		}
		m.links = append(m.links, []string{
			g.Vertices[e.From].Name,
			dsl.ArrowString(a.Polarity, a.Delayed),
			g.Vertices[e.To].Name,
			a.Polarity.String(),
			delayed,
		})
		m.polarity = append(m.polarity, a.Polarity)
	}
	return m
}

func (m inspectModel) Init() tea.Cmd { return nil }

func (m inspectModel) rows() int {
	if m.tab == tabLinks {
		return len(m.links)
	}
	return len(m.vertices)
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l", "left", "h":
			m.tab = 1 - m.tab
			m.cursor, m.offset = 0, 0
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < m.rows()-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m inspectModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")

	names := []string{fmt.Sprintf("Vertices (%d)", len(m.vertices)), fmt.Sprintf("Links (%d)", len(m.links))}
	for i, n := range names {
		if i > 0 {
			b.WriteString(StyleDim.Render("  │  "))
		}
		if i == m.tab {
			b.WriteString(inspectActiveTab.Render(n))
		} else {
			b.WriteString(inspectTab.Render(n))
		}
	}
	b.WriteString("\n\n")

	end := min(m.offset+m.height, m.rows())
	b.WriteString(m.renderTableCursor(m.tab, m.offset, end, m.cursor))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab switch  ↑/↓ scroll  q quit"))
	return b.String()
}

func (m inspectModel) renderTable(tab, start, end int) string {
	return m.renderTableCursor(tab, start, end, -1)
}

// renderTableCursor renders rows [start, end) of a tab; the cursor row,
// if any, is highlighted.
func (m inspectModel) renderTableCursor(tab, start, end, cursor int) string {
	headers := []string{"#", "Name", "Text", "Framed", "In", "Out"}
	rows := m.vertices
	if tab == tabLinks {
		headers = []string{"From", "", "To", "Polarity", "Delay"}
		rows = m.links
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows[start:end]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return inspectHeaderStyle
			}
			idx := start + row
			s := lipgloss.NewStyle().Padding(0, 1)
			if idx == cursor {
				s = s.Inherit(inspectCursor)
			}
			if tab == tabLinks && (col == 1 || col == 3) {
				switch m.polarity[idx] {
				case dsl.PolarityPositive:
					s = s.Foreground(colorPositive)
				case dsl.PolarityNegative:
					s = s.Foreground(colorNegative)
				}
			}
			return s
		}).
		String()
}
