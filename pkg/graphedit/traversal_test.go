package graphedit_test

import (
	"slices"
	"testing"

	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/graphedit"
)

func TestUpstreamFromNodes(t *testing.T) {
	n := newStackedInterface()

	tests := []struct {
		name string
		flow graphedit.FlowType
		want []document.NodeID
	}{
		{
			name: "upstream visits everything",
			flow: graphedit.FlowUpstream,
			want: []document.NodeID{"layerA", "layerB", "chain1", "chain2"},
		},
		{
			name: "horizontal follows the chain only",
			flow: graphedit.FlowHorizontal,
			want: []document.NodeID{"layerA", "chain1", "chain2"},
		},
		{
			name: "vertical follows the stack only",
			flow: graphedit.FlowVertical,
			want: []document.NodeID{"layerA", "layerB"},
		},
		{
			name: "layer children start past the layer",
			flow: graphedit.FlowLayerChildren,
			want: []document.NodeID{"chain1", "chain2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.UpstreamFromNodes([]document.NodeID{"layerA"}, nil, tt.flow)
			if !slices.Equal(got, tt.want) {
				t.Errorf("UpstreamFromNodes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpstreamVisitsEachNodeOnce(t *testing.T) {
	n := newStackedInterface()

	// Diamond: both layerA inputs eventually reach chain2.
	node, _ := n.Node("layerB", nil)
	node.Inputs[0] = document.NodeInput("chain2", 0)
	n.Invalidate(graphedit.CacheOutwardWires, nil)

	got := n.UpstreamFromNodes([]document.NodeID{"layerA"}, nil, graphedit.FlowUpstream)
	seen := make(map[document.NodeID]int)
	for _, id := range got {
		seen[id]++
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("%s visited %d times", id, count)
		}
	}
	if len(got) != 4 {
		t.Errorf("visited %d nodes, want 4", len(got))
	}
}
