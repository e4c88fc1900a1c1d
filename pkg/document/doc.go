// Package document defines the data model for node-based visual programs:
// nodes, their inputs, nested sub-networks, and the persistent metadata that
// records how each node is named and positioned on the canvas.
//
// A [NodeNetwork] is a directed acyclic graph of [Node] values addressed by
// [NodeID]. Each node input is a tagged union ([Input]) carrying either a
// literal value, a wire to another node's output, a reference to an enclosing
// network's import, a named scope injection, or an inline/reflection marker.
// A node's implementation may itself be a NodeNetwork, so networks nest to
// arbitrary depth.
//
// The package also owns the serialized form ([Document]): the network plus a
// flat, path-keyed table of per-level persistent metadata. Derived state
// (geometry, resolved types, layout caches) is never part of a Document; it
// lives in transient caches owned by the editing interface and is rebuilt
// from persisted state on load.
//
// Use [ReadDocumentFile] / [WriteDocumentFile] for file round trips, or
// [MarshalDocument] / [UnmarshalDocument] for in-memory serialization.
// Documents written by older releases in the flat single-level format are
// upgraded transparently on read.
package document
