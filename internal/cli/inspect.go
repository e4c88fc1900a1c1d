package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/graphedit"
	"github.com/mhalter/nodeloom/pkg/registry"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleLayer = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

func newInspectCmd() *cobra.Command {
	var positions bool

	cmd := &cobra.Command{
		Use:   "inspect <document.json>",
		Short: "Summarize a document's levels, nodes, and layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			doc, err := document.ReadDocumentFile(args[0])
			if err != nil {
				return err
			}
			logger.Debug("loaded document", "version", doc.Version)

			n := graphedit.New(doc, registry.Builtin(), graphedit.WithLogger(logger))
			out := cmd.OutOrStdout()
			inspectLevel(out, n, nil, positions)
			return nil
		},
	}

	cmd.Flags().BoolVar(&positions, "positions", false, "show derived grid positions per node")
	return cmd
}

func inspectLevel(out interface{ Write([]byte) (int, error) }, n *graphedit.NetworkInterface, path graphedit.Path, positions bool) {
	network, ok := n.Network(path)
	if !ok {
		return
	}

	name := "root"
	if len(path) > 0 {
		name = string(path[len(path)-1])
	}
	fmt.Fprintf(out, "%s %s\n", styleTitle.Render("level"), name)

	ids := network.SortedIDs()
	layers := 0
	for _, id := range ids {
		if n.IsLayer(id, path) {
			layers++
		}
	}
	fmt.Fprintf(out, "  %s\n", styleDim.Render(fmt.Sprintf("%d nodes, %d layers, %d exports", len(ids), layers, len(network.Exports))))

	for _, id := range ids {
		m, ok := n.NodeMetadata(id, path)
		if !ok {
			continue
		}
		label := m.Name()
		if n.IsLayer(id, path) {
			label = styleLayer.Render(label)
		}
		line := fmt.Sprintf("  %s %s", label, styleDim.Render(string(m.Position.Mode)))
		if positions {
			if pos, ok := n.Position(id, path); ok {
				line += styleDim.Render(" at " + pos.String())
			}
		}
		fmt.Fprintln(out, line)
	}

	// Recurse into sub-networks, deepest paths sorted for stable output.
	var subs []document.NodeID
	for _, id := range ids {
		if node, ok := network.Node(id); ok && node.IsNetwork() {
			subs = append(subs, id)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i] < subs[j] })
	for _, id := range subs {
		fmt.Fprintln(out, strings.Repeat("-", 3))
		inspectLevel(out, n, path.Child(id), positions)
	}
}
