// Package store persists named documents. Backends share one interface so
// the server and CLI can swap between an in-memory store, flat files, Redis,
// and MongoDB through configuration alone.
package store

import (
	"context"
	"errors"

	"github.com/mhalter/nodeloom/pkg/document"
)

// ErrNotFound is returned when no document exists under the given name.
var ErrNotFound = errors.New("document not found")

// Store persists documents by name.
type Store interface {
	// Load returns the document stored under name, or ErrNotFound.
	Load(ctx context.Context, name string) (*document.Document, error)
	// Save stores the document under name, replacing any previous version.
	Save(ctx context.Context, name string, d *document.Document) error
	// Delete removes the document under name. Deleting a missing name is
	// not an error.
	Delete(ctx context.Context, name string) error
	// List returns the stored names in lexicographic order.
	List(ctx context.Context) ([]string, error)
	// Close releases backend resources.
	Close() error
}
