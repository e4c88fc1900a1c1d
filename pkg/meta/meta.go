// Package meta provides the two-state cache cell used for derived editor
// state: geometry, resolved types, and layout caches that are expensive to
// compute and cheap to invalidate.
//
// A [Transient] is either Loaded with a value or Unloaded. Mutations never
// recompute caches eagerly; they unload exactly the cells that became stale,
// and readers repopulate on the next access. Each cell carries a generation
// counter bumped on every unload so tests can assert that an invalidating
// mutation actually reached the caches it should have.
package meta

// Transient is a lazily populated cache cell holding a value of type T.
// The zero value is unloaded.
type Transient[T any] struct {
	value      T
	loaded     bool
	generation uint64
}

// Loaded builds a cell already holding v. Mostly useful in tests.
func Loaded[T any](v T) Transient[T] {
	return Transient[T]{value: v, loaded: true}
}

// Get returns the cached value and whether the cell is loaded.
func (t *Transient[T]) Get() (T, bool) {
	return t.value, t.loaded
}

// IsLoaded reports whether the cell currently holds a value.
func (t *Transient[T]) IsLoaded() bool {
	return t.loaded
}

// Load stores v and marks the cell loaded.
func (t *Transient[T]) Load(v T) {
	t.value = v
	t.loaded = true
}

// Unload discards the cached value. Unloading an already-unloaded cell still
// bumps the generation, so over-invalidation is visible but harmless.
func (t *Transient[T]) Unload() {
	var zero T
	t.value = zero
	t.loaded = false
	t.generation++
}

// Generation returns the number of times the cell has been unloaded.
// Intended for tests that verify invalidation coverage.
func (t *Transient[T]) Generation() uint64 {
	return t.generation
}

// GetOrLoad returns the cached value, computing and storing it with fill
// when the cell is unloaded.
func (t *Transient[T]) GetOrLoad(fill func() T) T {
	if !t.loaded {
		t.Load(fill())
	}
	return t.value
}
