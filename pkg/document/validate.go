package document

import (
	"errors"
	"fmt"
)

// Sentinel errors for document validation.
var (
	// ErrGraphHasCycle is returned when a network level contains a directed
	// cycle among its node-to-node wires.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrDanglingReference is returned when a wire points at a node id that
	// does not exist at its network level.
	ErrDanglingReference = errors.New("wire references a missing node")

	// ErrMissingMetadata is returned when a node has no metadata entry.
	ErrMissingMetadata = errors.New("node has no metadata entry")

	// ErrOrphanMetadata is returned when a metadata entry has no node.
	ErrOrphanMetadata = errors.New("metadata entry has no node")
)

// Validate checks the document's structural invariants at every network
// level: wires resolve to existing nodes, each level is acyclic, every node
// has exactly one metadata entry and vice versa, and position metadata obeys
// the layer/mode pairing rules.
func (d *Document) Validate() error {
	if d.Network == nil {
		return nil
	}
	return d.validateLevel(d.Network, nil)
}

func (d *Document) validateLevel(network *NodeNetwork, path []NodeID) error {
	key := PathKey(path)

	if err := validateWires(network); err != nil {
		return fmt.Errorf("level %q: %w", key, err)
	}
	if err := detectCycle(network); err != nil {
		return fmt.Errorf("level %q: %w", key, err)
	}

	level := d.Metadata[key]
	for _, id := range network.SortedIDs() {
		var meta *NodeMetadata
		if level != nil {
			meta = level.Nodes[id]
		}
		if meta == nil {
			return fmt.Errorf("level %q node %s: %w", key, id, ErrMissingMetadata)
		}
		if err := meta.Position.Validate(); err != nil {
			return fmt.Errorf("level %q node %s: %w", key, id, err)
		}
		if sub, ok := network.Nodes[id].Subnetwork(); ok {
			if err := d.validateLevel(sub, append(path, id)); err != nil {
				return err
			}
		}
	}
	if level != nil {
		for id := range level.Nodes {
			if _, ok := network.Nodes[id]; !ok {
				return fmt.Errorf("level %q node %s: %w", key, id, ErrOrphanMetadata)
			}
		}
	}
	return nil
}

func validateWires(network *NodeNetwork) error {
	check := func(in Input) error {
		if in.Kind == InputNode {
			if _, ok := network.Nodes[in.Node]; !ok {
				return fmt.Errorf("%w: %s", ErrDanglingReference, in.Node)
			}
		}
		return nil
	}
	for _, id := range network.SortedIDs() {
		for _, in := range network.Nodes[id].Inputs {
			if err := check(in); err != nil {
				return fmt.Errorf("node %s: %w", id, err)
			}
		}
	}
	for i, in := range network.Exports {
		if err := check(in); err != nil {
			return fmt.Errorf("export %d: %w", i, err)
		}
	}
	return nil
}

// CheckAcyclic returns ErrGraphHasCycle if the network level contains a
// directed cycle among its node-to-node wires. Mutations use this for the
// attempt-validate-revert pattern.
func CheckAcyclic(network *NodeNetwork) error {
	return detectCycle(network)
}

// detectCycle runs a white/gray/black depth-first search over the level's
// node-to-node wires.
func detectCycle(network *NodeNetwork) error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int, len(network.Nodes))
	var hasCycle bool

	var dfs func(id NodeID)
	dfs = func(id NodeID) {
		color[id] = gray
		node := network.Nodes[id]
		if node != nil {
			for _, in := range node.Inputs {
				upstream, _, ok := in.AsNode()
				if !ok {
					continue
				}
				switch color[upstream] {
				case white:
					dfs(upstream)
				case gray:
					hasCycle = true
					return
				}
			}
		}
		color[id] = black
	}

	for id := range network.Nodes {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
