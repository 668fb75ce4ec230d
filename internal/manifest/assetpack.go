package manifest

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"opensound/internal/services"
)

// Asset pack manifest file names.
const (
	AssetPackFileName       = "openrct2.sound.json"
	AssetPackOutputFileName = "manifest.json"
)

// AssetObject is one entry of an asset pack's objects list.
type AssetObject struct {
	Samples []string
}

// AssetPackManifest is the typed view of a multi-object asset pack manifest.
type AssetPackManifest struct {
	ID      string
	Objects []AssetObject

	doc *Document
}

// LoadAssetPack reads an asset pack manifest from path.
func LoadAssetPack(path string) (*AssetPackManifest, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewAssetPack(doc)
}

// NewAssetPack builds the typed view over doc.
func NewAssetPack(doc *Document) (*AssetPackManifest, error) {
	if err := rejectDuplicateKeys(doc, gjson.ParseBytes(doc.raw), "manifest", "id", "objects"); err != nil {
		return nil, err
	}
	id, err := requireID(doc)
	if err != nil {
		return nil, err
	}
	objects := doc.Get("objects")
	m := &AssetPackManifest{ID: id, doc: doc}
	if !objects.Exists() || objects.Type == gjson.Null {
		return m, nil
	}
	if !objects.IsArray() {
		return nil, &services.ParseError{Path: doc.path, Detail: "objects must be an array"}
	}
	for i, obj := range objects.Array() {
		if !obj.IsObject() {
			return nil, &services.ParseError{Path: doc.path, Detail: fmt.Sprintf("objects[%d] must be an object", i)}
		}
		if err := rejectDuplicateKeys(doc, obj, fmt.Sprintf("objects[%d]", i), "samples"); err != nil {
			return nil, err
		}
		samples, err := stringArray(doc, "objects."+strconv.Itoa(i)+".samples")
		if err != nil {
			return nil, err
		}
		m.Objects = append(m.Objects, AssetObject{Samples: samples})
	}
	return m, nil
}

// SetSample replaces sample i of object obj in both the view and the document.
func (m *AssetPackManifest) SetSample(obj, i int, value string) error {
	if obj < 0 || obj >= len(m.Objects) {
		return fmt.Errorf("object index %d out of range", obj)
	}
	samples := m.Objects[obj].Samples
	if i < 0 || i >= len(samples) {
		return fmt.Errorf("sample index %d out of range for object %d", i, obj)
	}
	path := "objects." + strconv.Itoa(obj) + ".samples." + strconv.Itoa(i)
	if err := m.doc.SetString(path, value); err != nil {
		return err
	}
	samples[i] = value
	return nil
}

// Document returns the underlying document, including any edits.
func (m *AssetPackManifest) Document() *Document {
	return m.doc
}
