package manifest

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"opensound/internal/services"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var saveOptions = &pretty.Options{Width: 0, Prefix: "", Indent: "    ", SortKeys: false}

// Document is a manifest held as JSON text.
type Document struct {
	path string
	raw  []byte
}

// Parse validates data as a JSON object. path is only used in error messages.
func Parse(path string, data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !gjson.ValidBytes(data) {
		return nil, &services.ParseError{Path: path, Detail: "invalid json"}
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, &services.ParseError{Path: path, Detail: "manifest root must be an object"}
	}
	return &Document{path: path, raw: append([]byte(nil), data...)}, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.NewIOError("read", path, err)
	}
	return Parse(path, data)
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Get returns the value at a gjson path.
func (d *Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.raw, path)
}

// SetString replaces the value at an sjson path, leaving the rest of the
// document untouched.
func (d *Document) SetString(path, value string) error {
	updated, err := sjson.SetBytes(d.raw, path, value)
	if err != nil {
		return fmt.Errorf("set %s in %s: %w", path, d.path, err)
	}
	d.raw = updated
	return nil
}

// Bytes returns the current document text as loaded plus any edits.
func (d *Document) Bytes() []byte {
	return append([]byte(nil), d.raw...)
}

// Format renders the document with four-space indentation and exactly one
// trailing newline.
func (d *Document) Format() []byte {
	out := pretty.PrettyOptions(d.raw, saveOptions)
	out = bytes.TrimRight(out, " \t\r\n")
	return append(out, '\n')
}

// Save writes doc to path, replacing any existing file.
func Save(path string, doc *Document) error {
	if err := os.WriteFile(path, doc.Format(), 0o644); err != nil {
		return services.NewIOError("write", path, err)
	}
	return nil
}

func stringArray(doc *Document, path string) ([]string, error) {
	value := doc.Get(path)
	if !value.Exists() || value.Type == gjson.Null {
		return nil, nil
	}
	if !value.IsArray() {
		return nil, &services.ParseError{Path: doc.path, Detail: fmt.Sprintf("%s must be an array", path)}
	}
	items := value.Array()
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, &services.ParseError{Path: doc.path, Detail: fmt.Sprintf("%s[%d] must be a string", path, i)}
		}
		out = append(out, item.String())
	}
	return out, nil
}

// rejectDuplicateKeys fails when obj repeats any of keys. Edits go through
// sjson, which targets the first occurrence, while readers of the package
// see the last.
func rejectDuplicateKeys(doc *Document, obj gjson.Result, where string, keys ...string) error {
	seen := make(map[string]bool, len(keys))
	dup := ""
	obj.ForEach(func(key, _ gjson.Result) bool {
		name := key.String()
		if !slices.Contains(keys, name) {
			return true
		}
		if seen[name] {
			dup = name
			return false
		}
		seen[name] = true
		return true
	})
	if dup != "" {
		return &services.ParseError{Path: doc.path, Detail: fmt.Sprintf("duplicate key %q in %s", dup, where)}
	}
	return nil
}

func requireID(doc *Document) (string, error) {
	id := doc.Get("id")
	if id.Type != gjson.String || id.String() == "" {
		return "", &services.ParseError{Path: doc.path, Detail: "id must be a non-empty string"}
	}
	return id.String(), nil
}
