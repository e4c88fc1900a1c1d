package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/graphedit"
	"github.com/mhalter/nodeloom/pkg/registry"
)

var (
	browseSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	browseLayerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	browseDimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <document.json>",
		Short: "Explore a document interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			doc, err := document.ReadDocumentFile(args[0])
			if err != nil {
				return err
			}
			n := graphedit.New(doc, registry.Builtin(), graphedit.WithLogger(logger))

			model := newBrowseModel(n, args[0])
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// browseModel is the bubbletea model for document exploration: a cursor
// over the nodes of one level, with enter descending into sub-networks and
// backspace ascending.
type browseModel struct {
	n      *graphedit.NetworkInterface
	title  string
	path   graphedit.Path
	ids    []document.NodeID
	cursor int
	height int
	offset int
}

func newBrowseModel(n *graphedit.NetworkInterface, title string) browseModel {
	m := browseModel{n: n, title: title, height: 15}
	m.reload()
	return m
}

// reload refreshes the node listing after a level change.
func (m *browseModel) reload() {
	m.ids = nil
	m.cursor = 0
	m.offset = 0
	if network, ok := m.n.Network(m.path); ok {
		m.ids = network.SortedIDs()
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.ids)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter", "right", "l":
			if m.cursor < len(m.ids) {
				id := m.ids[m.cursor]
				if node, ok := m.n.Node(id, m.path); ok && node.IsNetwork() {
					m.path = m.path.Child(id)
					m.reload()
				}
			}
		case "backspace", "left", "h":
			if len(m.path) > 0 {
				m.path = m.path[:len(m.path)-1]
				m.reload()
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	location := "root"
	if len(m.path) > 0 {
		location = m.path.Key()
	}
	b.WriteString(browseSelectedStyle.Render(m.title))
	b.WriteString(browseDimStyle.Render("  " + location))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ navigate  ⏎ descend  ⌫ ascend  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.ids) {
		end = len(m.ids)
	}
	for i := m.offset; i < end; i++ {
		id := m.ids[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		label := string(id)
		mode := ""
		if meta, ok := m.n.NodeMetadata(id, m.path); ok {
			label = meta.Name()
			mode = string(meta.Position.Mode)
		}
		if m.n.IsLayer(id, m.path) {
			label = browseLayerStyle.Render(label)
		}
		if node, ok := m.n.Node(id, m.path); ok && node.IsNetwork() {
			label += browseDimStyle.Render(" ▸")
		}

		line := fmt.Sprintf("%s%s  %s", cursor, label, browseDimStyle.Render(mode))
		if i == m.cursor {
			if pos, ok := m.n.Position(id, m.path); ok {
				line += browseDimStyle.Render("  " + pos.String())
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.ids) == 0 {
		b.WriteString(browseDimStyle.Render("  (empty level)"))
		b.WriteString("\n")
	}
	return b.String()
}
