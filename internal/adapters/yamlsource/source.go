package yamlsource

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/corey/riskcard/internal/ports"
)

// File is a ports.DefinitionSource backed by a YAML file on disk. The file
// is re-read on every Load.
type File struct {
	path string
}

// NewFile returns a source for the YAML file at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load implements ports.DefinitionSource.
func (f *File) Load() (*ports.SourceDocument, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read scorecard: %w", err)
	}
	return document(data)
}

// Location implements ports.DefinitionSource.
func (f *File) Location() string { return f.path }

// Bytes is a ports.DefinitionSource over an in-memory document, used for
// the embedded default scorecard.
type Bytes struct {
	name string
	data []byte
}

// NewBytes returns a source that always yields data.
func NewBytes(name string, data []byte) *Bytes {
	return &Bytes{name: name, data: data}
}

// Load implements ports.DefinitionSource.
func (b *Bytes) Load() (*ports.SourceDocument, error) { return document(b.data) }

// Location implements ports.DefinitionSource.
func (b *Bytes) Location() string { return b.name }

func document(data []byte) (*ports.SourceDocument, error) {
	def, err := Parse(data)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	return &ports.SourceDocument{
		Definition: def,
		Digest:     hex.EncodeToString(sum[:]),
		Raw:        data,
	}, nil
}
