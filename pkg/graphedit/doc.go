// Package graphedit implements the node network interface: the mutation
// façade through which a graphical tool edits a node-based visual program
// while the wiring, inferred types, and on-screen geometry stay mutually
// consistent.
//
// A [NetworkInterface] wraps a [document.Document] together with the
// transient caches derived from it: outward-wire indices, hit-test geometry,
// stack-dependent ownership, and selection history. Every mutation goes
// through the façade, which applies the edit, enforces the graph invariants
// (acyclic wiring, metadata coherence, position-mode eligibility), and
// unloads exactly the caches the edit made stale. Caches are repopulated
// lazily on the next read; nothing is recomputed eagerly.
//
// The façade is single-threaded by design: all mutation requires exclusive
// access to one interface instance, and reads that populate caches must not
// be interleaved with a mutation in progress. Missing-entity conditions
// (unknown network path, node id, or metadata entry) are logged and degrade
// to no-ops rather than panicking; a GUI-driven edit must never crash an
// editing session. The one transactional exception is the acyclicity check,
// which applies a candidate edit, validates, and reverts on failure.
package graphedit
