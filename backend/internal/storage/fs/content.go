package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Content serves the static JSON documents (services, gallery, pricing)
// that the site renders as-is.
type Content struct {
	dir string
}

func NewContent(dir string) *Content {
	return &Content{dir: filepath.Clean(dir)}
}

// Document returns <dir>/<name>.json. The file must hold valid JSON.
func (c *Content) Document(name string) (json.RawMessage, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid document name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(c.dir, name+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("document %s is not valid json", name)
	}
	return json.RawMessage(data), nil
}
