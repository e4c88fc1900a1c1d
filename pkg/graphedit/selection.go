package graphedit

import "github.com/mhalter/nodeloom/pkg/document"

// selectionHistoryCap bounds how many selection snapshots a level retains.
// The oldest snapshot is dropped when the cap is reached.
const selectionHistoryCap = 50

// selectionHistory is a per-level undo stack of selection snapshots. The
// last entry of past is the current selection; future holds snapshots
// undone by SelectionStepBack.
type selectionHistory struct {
	past   [][]document.NodeID
	future [][]document.NodeID
}

func (h *selectionHistory) current() []document.NodeID {
	if len(h.past) == 0 {
		return nil
	}
	return h.past[len(h.past)-1]
}

func (h *selectionHistory) push(snapshot []document.NodeID) {
	h.past = append(h.past, snapshot)
	if len(h.past) > selectionHistoryCap {
		h.past = h.past[1:]
	}
	h.future = nil
}

func (h *selectionHistory) stepBack() {
	if len(h.past) == 0 {
		return
	}
	h.future = append(h.future, h.past[len(h.past)-1])
	h.past = h.past[:len(h.past)-1]
}

func (h *selectionHistory) stepForward() {
	if len(h.future) == 0 {
		return
	}
	h.past = append(h.past, h.future[len(h.future)-1])
	h.future = h.future[:len(h.future)-1]
}

// SelectedNodes returns the level's current selection, filtered to nodes
// that still exist. Deleting a node never leaves a stale id in the
// selection the caller sees; the stored snapshots keep the full set so
// stepping back can restore what survives.
func (n *NetworkInterface) SelectedNodes(path Path) []document.NodeID {
	network, ok := n.Network(path)
	if !ok {
		return nil
	}
	var out []document.NodeID
	for _, id := range n.level(path).selection.current() {
		if _, exists := network.Nodes[id]; exists {
			out = append(out, id)
		}
	}
	return out
}

// SetSelectedNodes replaces the level's selection, recording the new set as
// a history snapshot and discarding any redo entries.
func (n *NetworkInterface) SetSelectedNodes(ids []document.NodeID, path Path) {
	snapshot := append([]document.NodeID(nil), ids...)
	n.level(path).selection.push(snapshot)
}

// SelectionStepBack restores the previous selection snapshot.
func (n *NetworkInterface) SelectionStepBack(path Path) {
	n.level(path).selection.stepBack()
}

// SelectionStepForward reapplies the most recently undone selection
// snapshot.
func (n *NetworkInterface) SelectionStepForward(path Path) {
	n.level(path).selection.stepForward()
}
