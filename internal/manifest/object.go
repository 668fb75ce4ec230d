package manifest

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Object manifest file names.
const (
	ObjectFileName = "object.json"
)

// ObjectManifest is the typed view of a single-object manifest.
type ObjectManifest struct {
	ID      string
	Samples []string

	doc *Document
}

// LoadObject reads an object manifest from path.
func LoadObject(path string) (*ObjectManifest, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewObject(doc)
}

// NewObject builds the typed view over doc.
func NewObject(doc *Document) (*ObjectManifest, error) {
	if err := rejectDuplicateKeys(doc, gjson.ParseBytes(doc.raw), "manifest", "id", "samples"); err != nil {
		return nil, err
	}
	id, err := requireID(doc)
	if err != nil {
		return nil, err
	}
	samples, err := stringArray(doc, "samples")
	if err != nil {
		return nil, err
	}
	return &ObjectManifest{ID: id, Samples: samples, doc: doc}, nil
}

// SetSample replaces the sample at index i in both the view and the document.
func (m *ObjectManifest) SetSample(i int, value string) error {
	if i < 0 || i >= len(m.Samples) {
		return fmt.Errorf("sample index %d out of range", i)
	}
	if err := m.doc.SetString("samples."+strconv.Itoa(i), value); err != nil {
		return err
	}
	m.Samples[i] = value
	return nil
}

// Document returns the underlying document, including any edits.
func (m *ObjectManifest) Document() *Document {
	return m.doc
}
