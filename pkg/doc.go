// Package pkg provides the core libraries for the nodeloom node graph editor.
//
// # Overview
//
// Nodeloom models documents as nested networks of nodes connected by typed
// wires, the data model behind a layer-based visual editor. The pkg directory
// is organized into five areas:
//
//  1. [document] - Persistent data model (networks, nodes, inputs, metadata)
//  2. [graphedit] - The editing interface (mutation, layout, type resolution)
//  3. [registry] - The node catalog (definitions, signatures, templates)
//  4. [store] - Document persistence backends (memory, file, Redis, MongoDB)
//  5. [render] - Graphviz export of a network level (DOT and SVG)
//
// # Architecture
//
// The typical flow through nodeloom:
//
//	stored document (JSON)
//	         ↓
//	    [document] package (networks, inputs, metadata)
//	         ↓
//	    [graphedit] package (mutation, traversal, derived layout, types)
//	         ↓
//	    [render] package (DOT / SVG output)
//
// # Quick Start
//
// Open a document and edit it through the interface:
//
//	doc, _ := st.Load(ctx, "demo")
//	n := graphedit.New(doc, registry.Builtin())
//
//	// Wire node "blur" output 0 into input 1 of node "layer".
//	n.SetInput(document.InputAt("layer", 1), document.NodeInput("blur", 0), nil)
//
//	// Ask what type flows into that input.
//	rt := n.InputType(document.InputAt("layer", 1), nil)
//
// # Main Packages
//
// [document] - The serialized document: [document.Network] with node
// implementations (proto reference, nested network, extract), the
// [document.Input] tagged union, per-level [document.NodeMetadata] with
// absolute, chain, and stack positions, and cty-backed tagged values.
//
// [graphedit] - The only sanctioned way to read or mutate a document. Keeps
// metadata, transient state, and derived layout consistent across every
// mutation: wire edits, node insertion and deletion, import/export
// management, layer shifting with collision push, chain and stack
// restructuring, click-target hit testing, and the type resolution cascade
// (compiled types, stored values, wire following, catalog signatures).
//
// [registry] - Node definitions with one or more type signatures plus
// instantiation templates. [registry.Builtin] carries the built-in catalog.
//
// [store] - The [store.Store] contract with memory, file, Redis, and MongoDB
// backends.
//
// [render] - One level of a network as a Graphviz digraph, optionally pinned
// to the derived editor layout, plus SVG conversion.
//
// [meta] - The two-state cache cell behind all derived editor state:
// unloaded on mutation, repopulated on the next read.
//
// [buildinfo] - Version stamped at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/graphedit/...    # Specific package
//
// [document]: https://pkg.go.dev/github.com/mhalter/nodeloom/pkg/document
// [graphedit]: https://pkg.go.dev/github.com/mhalter/nodeloom/pkg/graphedit
// [registry]: https://pkg.go.dev/github.com/mhalter/nodeloom/pkg/registry
// [store]: https://pkg.go.dev/github.com/mhalter/nodeloom/pkg/store
// [render]: https://pkg.go.dev/github.com/mhalter/nodeloom/pkg/render
// [meta]: https://pkg.go.dev/github.com/mhalter/nodeloom/pkg/meta
// [buildinfo]: https://pkg.go.dev/github.com/mhalter/nodeloom/pkg/buildinfo
package pkg
