package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mhalter/nodeloom/pkg/document"
)

// File stores each document as a JSON file in a directory. Names map to
// file names directly, so they must not contain path separators.
type File struct {
	dir string
}

// NewFile creates a file-backed store in the given directory, creating it
// if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &File{dir: dir}, nil
}

func (f *File) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	return filepath.Join(f.dir, name+".json"), nil
}

// Load reads the document stored under name.
func (f *File) Load(ctx context.Context, name string) (*document.Document, error) {
	path, err := f.path(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return document.ReadDocumentFile(path)
}

// Save writes the document under name, replacing any previous file.
func (f *File) Save(ctx context.Context, name string, d *document.Document) error {
	path, err := f.path(name)
	if err != nil {
		return err
	}
	return document.WriteDocumentFile(d, path)
}

// Delete removes the document file under name.
func (f *File) Delete(ctx context.Context, name string) error {
	path, err := f.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// List returns the stored names in lexicographic order.
func (f *File) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	slices.Sort(names)
	return names, nil
}

// Close does nothing for the file store.
func (f *File) Close() error { return nil }

var _ Store = (*File)(nil)
