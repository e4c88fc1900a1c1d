package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// FormatVersion is the current serialized document version. Version 1 was
// the flat single-level format upgraded by upgradeLegacy.
const FormatVersion = 2

// PathSeparator joins node ids into metadata table keys.
const PathSeparator = "/"

// PathKey converts a network path (the node ids of each nesting level, outer
// first) into the metadata table key for that level. The root level is "".
func PathKey(path []NodeID) string {
	if len(path) == 0 {
		return ""
	}
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = string(id)
	}
	return strings.Join(parts, PathSeparator)
}

// Document is the persisted form of an edited network: the node graph plus a
// flat table of per-level persistent metadata keyed by [PathKey]. Transient
// caches are never serialized.
type Document struct {
	Version  int                       `json:"version" bson:"version"`
	Network  *NodeNetwork              `json:"network" bson:"network"`
	Metadata map[string]*LevelMetadata `json:"metadata" bson:"metadata"`
}

// NewDocument creates an empty document at the current format version.
func NewDocument() *Document {
	return &Document{
		Version:  FormatVersion,
		Network:  NewNetwork(),
		Metadata: map[string]*LevelMetadata{"": NewLevelMetadata()},
	}
}

// Level returns the metadata table for the given path key, creating it if
// missing.
func (d *Document) Level(key string) *LevelMetadata {
	if d.Metadata == nil {
		d.Metadata = make(map[string]*LevelMetadata)
	}
	level, ok := d.Metadata[key]
	if !ok {
		level = NewLevelMetadata()
		d.Metadata[key] = level
	}
	return level
}

// MarshalDocument converts a document to indented JSON bytes.
func MarshalDocument(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDocument decodes JSON bytes into a document, upgrading legacy
// formats when needed.
func UnmarshalDocument(data []byte) (*Document, error) {
	return ReadDocument(bytes.NewReader(data))
}

// WriteDocument writes a document as JSON to w.
func WriteDocument(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteDocumentFile writes a document to a JSON file with 0644 permissions.
func WriteDocumentFile(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(d, f)
}

// ReadDocument decodes a JSON document from r. Documents in the legacy flat
// format (version < 2) are upgraded to the current shape.
func ReadDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if probe.Version < FormatVersion {
		return upgradeLegacy(data)
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if d.Network == nil {
		d.Network = NewNetwork()
	}
	if d.Metadata == nil {
		d.Metadata = map[string]*LevelMetadata{"": NewLevelMetadata()}
	}
	return &d, nil
}

// ReadDocumentFile reads and decodes a JSON document file.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}
