package graphedit

import (
	"hash/fnv"

	"github.com/zclconf/go-cty/cty"

	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/registry"
)

// TypeSource records where a resolved type came from, in descending order
// of confidence. Callers can surface it to distinguish engine-confirmed
// types from catalog guesses.
type TypeSource int

const (
	// TypeSourceError means resolution failed; the type is the unit type.
	TypeSourceError TypeSource = iota
	// TypeSourceCompiled is a type reported by the execution engine.
	TypeSourceCompiled
	// TypeSourceValue is the type of a stored value.
	TypeSourceValue
	// TypeSourceDefinition is the single declared signature of the node's
	// catalog definition.
	TypeSourceDefinition
	// TypeSourceHashedSignature is one of several declared signatures,
	// chosen deterministically from the node id.
	TypeSourceHashedSignature
)

func (s TypeSource) String() string {
	switch s {
	case TypeSourceCompiled:
		return "compiled"
	case TypeSourceValue:
		return "value"
	case TypeSourceDefinition:
		return "definition"
	case TypeSourceHashedSignature:
		return "hashed-signature"
	}
	return "error"
}

// ResolvedType is a type paired with the evidence behind it.
type ResolvedType struct {
	Type   cty.Type
	Source TypeSource
}

func errType() ResolvedType {
	return ResolvedType{Type: document.UnitType, Source: TypeSourceError}
}

// SetCompiledTypes installs the execution engine's resolved types, keyed by
// the path key of the node each entry describes. Compiled types take
// precedence over every other resolution source until the next call
// replaces them.
func (n *NetworkInterface) SetCompiledTypes(types map[string]NodeTypes) {
	n.compiled = make(map[string]NodeTypes, len(types))
	for key, t := range types {
		n.compiled[key] = t
	}
}

// InputType resolves the type of the input connector, trying sources in
// order: the stored value, the engine's compiled types, the wire's source
// output, then the catalog signature. A literal value is authoritative for
// its own input even when compiled types are present. When the catalog
// declares several signatures the choice is hashed from the node id so it
// is stable across sessions. Unresolvable inputs get the unit type with an
// error source.
func (n *NetworkInterface) InputType(target document.InputConnector, path Path) ResolvedType {
	in, ok := n.inputAt(target, path)
	if !ok {
		return errType()
	}

	if v, ok := in.AsValue(); ok {
		return ResolvedType{Type: v.Type(), Source: TypeSourceValue}
	}

	if !target.Export {
		if ct, ok := n.compiled[path.NodeKey(target.Node)]; ok && target.Index < len(ct.Inputs) {
			return ResolvedType{Type: ct.Inputs[target.Index], Source: TypeSourceCompiled}
		}
	}

	switch in.Kind {
	case document.InputNode:
		return n.OutputType(document.OutputAt(in.Node, in.OutputIndex), path)
	case document.InputNetwork:
		return n.importType(in.ImportIndex, path)
	}

	if target.Export {
		return errType()
	}
	return n.signatureInputType(target.Node, target.Index, path)
}

// OutputType resolves the type produced at the output connector. For
// sub-network nodes it follows the export wiring inward; for primitives it
// consults the compiled types and then the catalog.
func (n *NetworkInterface) OutputType(output document.OutputConnector, path Path) ResolvedType {
	if output.Import {
		return n.importType(output.Index, path)
	}

	node, ok := n.Node(output.Node, path)
	if !ok {
		return errType()
	}

	if ct, ok := n.compiled[path.NodeKey(output.Node)]; ok && output.Index == 0 {
		return ResolvedType{Type: ct.Output, Source: TypeSourceCompiled}
	}

	if sub, ok := node.Subnetwork(); ok {
		if output.Index < 0 || output.Index >= len(sub.Exports) {
			return errType()
		}
		return n.InputType(document.ExportAt(output.Index), path.Child(output.Node))
	}

	if output.Index != 0 {
		return errType()
	}
	return n.signatureOutputType(output.Node, path)
}

// importType resolves an import slot's type from the owning node's input at
// the same index in the enclosing level. The root network has no imports.
func (n *NetworkInterface) importType(index int, path Path) ResolvedType {
	if len(path) == 0 {
		return errType()
	}
	parentPath := path[:len(path)-1]
	ownerID := path[len(path)-1]
	return n.InputType(document.InputAt(ownerID, index), parentPath)
}

func (n *NetworkInterface) signatureInputType(id document.NodeID, index int, path Path) ResolvedType {
	sig, source, ok := n.signatureFor(id, path)
	if !ok || index < 0 || index >= len(sig.Inputs) {
		return errType()
	}
	return ResolvedType{Type: sig.Inputs[index], Source: source}
}

func (n *NetworkInterface) signatureOutputType(id document.NodeID, path Path) ResolvedType {
	sig, source, ok := n.signatureFor(id, path)
	if !ok {
		return errType()
	}
	return ResolvedType{Type: sig.Output, Source: source}
}

// signatureFor picks the catalog signature describing the node. A single
// declared signature is authoritative; among several, the node id hash
// picks one so the guess never flickers between reads.
func (n *NetworkInterface) signatureFor(id document.NodeID, path Path) (registry.Signature, TypeSource, bool) {
	m, ok := n.NodeMetadata(id, path)
	if !ok || m.Reference == "" || n.registry == nil {
		return registry.Signature{}, TypeSourceError, false
	}
	sigs := n.registry.Signatures(m.Reference)
	switch len(sigs) {
	case 0:
		return registry.Signature{}, TypeSourceError, false
	case 1:
		return sigs[0], TypeSourceDefinition, true
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return sigs[int(h.Sum32())%len(sigs)], TypeSourceHashedSignature, true
}
