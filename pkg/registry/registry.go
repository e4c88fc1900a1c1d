// Package registry defines the node catalog consulted by the editing
// interface: which primitive operations exist, their declared signatures,
// and the default inputs used when instantiating a node from a template.
//
// The registry is an external collaborator from the interface's point of
// view. It is passed explicitly to the interface constructor so tests can
// substitute a fake catalog, rather than being reached through a package
// global.
package registry

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/mhalter/nodeloom/pkg/document"
)

// ErrDuplicateDefinition is returned by [Static.Register] when a definition
// with the same identifier already exists.
var ErrDuplicateDefinition = errors.New("duplicate definition identifier")

// Signature is one registered implementation variant of a primitive:
// the declared input types and the produced output type.
type Signature struct {
	Inputs []cty.Type
	Output cty.Type
}

// Definition describes one catalog entry.
type Definition struct {
	// Identifier is the stable catalog name referenced by node metadata.
	Identifier string
	// DisplayName is the default on-canvas label.
	DisplayName string
	// Category groups definitions in catalog listings.
	Category string

	// DefaultInputs are the inputs a freshly instantiated node starts with.
	// They must not contain graph references; a template is instantiated
	// before any wiring exists.
	DefaultInputs []document.Input
	// InputNames are the displayed names per input index.
	InputNames []string
	// HasPrimaryOutput reports whether output 0 participates in horizontal
	// flow. Definitions without it can never be layers.
	HasPrimaryOutput bool

	// Signatures lists the registered implementation variants.
	Signatures []Signature
}

// Registry is the catalog queried by the editing interface.
type Registry interface {
	// Definition returns the catalog entry for the identifier.
	Definition(identifier string) (Definition, bool)
	// Signatures returns the registered implementation variants for the
	// identifier, or nil if unknown.
	Signatures(identifier string) []Signature
}

// Static is an immutable-after-setup, map-backed Registry.
type Static struct {
	defs map[string]Definition
}

// NewStatic creates a registry from the given definitions.
// It panics on duplicate identifiers; building the catalog is programmer
// territory, not user input.
func NewStatic(defs ...Definition) *Static {
	s := &Static{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := s.Register(def); err != nil {
			panic(fmt.Sprintf("registry: %v", err))
		}
	}
	return s
}

// Register adds a definition.
func (s *Static) Register(def Definition) error {
	if _, exists := s.defs[def.Identifier]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDefinition, def.Identifier)
	}
	s.defs[def.Identifier] = def
	return nil
}

// Definition returns the catalog entry for the identifier.
func (s *Static) Definition(identifier string) (Definition, bool) {
	def, ok := s.defs[identifier]
	return def, ok
}

// Signatures returns the registered implementation variants.
func (s *Static) Signatures(identifier string) []Signature {
	return s.defs[identifier].Signatures
}

// Identifiers returns all registered identifiers in arbitrary order.
func (s *Static) Identifiers() []string {
	ids := make([]string, 0, len(s.defs))
	for id := range s.defs {
		ids = append(ids, id)
	}
	return ids
}

// NodeTemplate pairs a document node with the persistent metadata it is
// instantiated with. The editing interface remaps template-internal ids to
// freshly allocated ones on insertion.
type NodeTemplate struct {
	Node     document.Node
	Metadata document.NodeMetadata
}

// Template instantiates the definition as a node template with a default
// absolute position. It panics if the definition's default inputs contain
// graph references, since that violates the catalog contract: wiring only
// ever happens after insertion.
func (d Definition) Template() NodeTemplate {
	inputs := make([]document.Input, len(d.DefaultInputs))
	for i, in := range d.DefaultInputs {
		if in.IsWire() {
			panic(fmt.Sprintf("registry: definition %s default input %d contains a graph reference", d.Identifier, i))
		}
		inputs[i] = in
	}
	return NodeTemplate{
		Node: document.Node{
			Inputs:         inputs,
			Implementation: document.ProtoImplementation(d.Identifier),
		},
		Metadata: document.NodeMetadata{
			DisplayName:      d.DisplayName,
			Reference:        d.Identifier,
			InputNames:       append([]string(nil), d.InputNames...),
			HasPrimaryOutput: d.HasPrimaryOutput,
			Position:         document.AbsoluteNodePosition(document.GridPoint{}),
		},
	}
}
