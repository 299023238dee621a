// Package icons finds module icons in a local directory.
package icons

import (
	"os"
	"path/filepath"
)

// Extensions are tried in order.
var Extensions = []string{".png", ".webp", ".svg", ".jpg"}

// Dir looks up icons named "<key><ext>" in a directory. The zero value
// finds nothing.
type Dir struct {
	path string
}

// NewDir creates a lookup over path. An empty path disables icons.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Lookup returns the icon file for key. A missing icon is not an error.
func (d *Dir) Lookup(key string) (string, bool) {
	if d == nil || d.path == "" || key == "" {
		return "", false
	}
	for _, ext := range Extensions {
		p := filepath.Join(d.path, key+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}
