package graphedit

import (
	"github.com/charmbracelet/log"
	"github.com/zclconf/go-cty/cty"

	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/meta"
	"github.com/mhalter/nodeloom/pkg/registry"
)

// Path identifies one nesting level of the document: the node ids of each
// sub-network-valued node from the root down. The empty path is the root
// network.
type Path []document.NodeID

// Key returns the metadata table key for this level.
func (p Path) Key() string { return document.PathKey(p) }

// Child returns a new path descending into the given node.
func (p Path) Child(id document.NodeID) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, id)
}

// NodeKey returns the metadata table key addressing a node at this level.
func (p Path) NodeKey(id document.NodeID) string {
	return document.PathKey(append(append([]document.NodeID{}, p...), id))
}

// NodeTypes is the compiled type information for one node, produced by the
// execution engine and fed back through [NetworkInterface.SetCompiledTypes].
type NodeTypes struct {
	Inputs []cty.Type
	Output cty.Type
}

// NetworkInterface is the mutation façade over one document. All edits,
// queries, and cache management go through it. It is not safe for
// concurrent use.
type NetworkInterface struct {
	doc      *document.Document
	registry registry.Registry
	log      *log.Logger

	// levels is the transient-state arena: one entry per network level,
	// keyed by [document.PathKey]. Entries are created on first access and
	// torn down when the level's owning node is deleted.
	levels map[string]*levelState

	// compiled holds the execution engine's resolved types, keyed by the
	// path key of the node they describe.
	compiled map[string]NodeTypes
}

// levelState is the per-level transient metadata: everything derived from
// the persisted document that mutations invalidate and reads rebuild.
type levelState struct {
	// outwardWires maps every output connector to the input connectors it
	// feeds, including export slots.
	outwardWires meta.Transient[map[document.OutputConnector][]document.InputConnector]

	// stackDependents maps each node to the owner it implicitly moves with.
	stackDependents meta.Transient[map[document.NodeID]StackOwner]

	// rootConnected is the set of nodes with a live upstream path from the
	// level's exports.
	rootConnected meta.Transient[map[document.NodeID]bool]

	// edgePorts is the click-target geometry of the level's import and
	// export slots.
	edgePorts meta.Transient[EdgePorts]

	nodes map[document.NodeID]*nodeState

	selection selectionHistory

	// preview remembers the export wiring replaced by TogglePreview so the
	// next toggle can restore it.
	preview *previewState
}

// nodeState is the per-node transient metadata.
type nodeState struct {
	clickTargets meta.Transient[ClickTargets]
	layerWidth   meta.Transient[int]
}

type previewState struct {
	node     document.NodeID
	previous document.Input
}

// Option configures a NetworkInterface.
type Option func(*NetworkInterface)

// WithLogger sets the logger used for the degrade-to-no-op error policy.
func WithLogger(l *log.Logger) Option {
	return func(n *NetworkInterface) { n.log = l }
}

// New creates an interface over the document, consulting reg for catalog
// defaults during type resolution and template instantiation.
func New(doc *document.Document, reg registry.Registry, opts ...Option) *NetworkInterface {
	if doc == nil {
		doc = document.NewDocument()
	}
	n := &NetworkInterface{
		doc:      doc,
		registry: reg,
		log:      log.Default(),
		levels:   make(map[string]*levelState),
		compiled: make(map[string]NodeTypes),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Document returns the underlying document: the compilation input handed to
// the execution engine and the only state that is ever persisted.
func (n *NetworkInterface) Document() *document.Document { return n.doc }

// Network returns the network at the given nesting level.
func (n *NetworkInterface) Network(path Path) (*document.NodeNetwork, bool) {
	network := n.doc.Network
	for _, id := range path {
		node, ok := network.Nodes[id]
		if !ok {
			return nil, false
		}
		sub, ok := node.Subnetwork()
		if !ok {
			return nil, false
		}
		network = sub
	}
	return network, true
}

// Node returns the node with the given id at the given level.
func (n *NetworkInterface) Node(id document.NodeID, path Path) (*document.Node, bool) {
	network, ok := n.Network(path)
	if !ok {
		return nil, false
	}
	node, ok := network.Nodes[id]
	return node, ok
}

// NodeMetadata returns the persistent metadata entry for a node.
func (n *NetworkInterface) NodeMetadata(id document.NodeID, path Path) (*document.NodeMetadata, bool) {
	level, ok := n.doc.Metadata[path.Key()]
	if !ok {
		return nil, false
	}
	m, ok := level.Nodes[id]
	return m, ok
}

// level returns the transient state for a network level, creating it on
// first access.
func (n *NetworkInterface) level(path Path) *levelState {
	key := path.Key()
	state, ok := n.levels[key]
	if !ok {
		state = &levelState{nodes: make(map[document.NodeID]*nodeState)}
		n.levels[key] = state
	}
	return state
}

func (n *NetworkInterface) nodeState(id document.NodeID, path Path) *nodeState {
	level := n.level(path)
	state, ok := level.nodes[id]
	if !ok {
		state = &nodeState{}
		level.nodes[id] = state
	}
	return state
}

// dropLevelState tears down the transient state of a level and all levels
// nested beneath it. Called when a sub-network-valued node is deleted.
func (n *NetworkInterface) dropLevelState(prefix string) {
	for key := range n.levels {
		if key == prefix || hasPathPrefix(key, prefix) {
			delete(n.levels, key)
		}
	}
	for key := range n.doc.Metadata {
		if key == prefix || hasPathPrefix(key, prefix) {
			delete(n.doc.Metadata, key)
		}
	}
	for key := range n.compiled {
		if key == prefix || hasPathPrefix(key, prefix) {
			delete(n.compiled, key)
		}
	}
}

func hasPathPrefix(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	return len(key) > len(prefix) && key[:len(prefix)] == prefix && key[len(prefix)] == '/'
}
