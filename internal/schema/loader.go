// Package schema validates client payloads against the embedded entity schemas and
// decodes them into the storage insert and patch forms.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var files embed.FS

// Schema names, matching the embedded file names without extension.
const (
	UserInsert          = "user.insert"
	UserPatch           = "user.patch"
	JobInsert           = "job.insert"
	JobPatch            = "job.patch"
	EditorProfileInsert = "editor_profile.insert"
	EditorProfilePatch  = "editor_profile.patch"
	ReviewInsert        = "review.insert"
	ApplicationInsert   = "application.insert"
	ApplicationPatch    = "application.patch"
)

// Loader compiles and caches the schemas found in a filesystem.
type Loader struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewLoader compiles every *.json file under dir in fsys.
func NewLoader(fsys fs.FS, dir string) (*Loader, error) {
	l := &Loader{cache: make(map[string]*jsonschema.Schema)}
	if err := l.Reload(fsys, dir); err != nil {
		return nil, err
	}
	return l, nil
}

// GetSchema returns the compiled schema registered under name.
func (l *Loader) GetSchema(name string) (*jsonschema.Schema, bool) {
	l.mu.RLock()
	s, ok := l.cache[name]
	l.mu.RUnlock()

	return s, ok
}

// Reload recompiles all schemas, replacing the cache only if every file compiles.
func (l *Loader) Reload(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read schemas dir: %w", err)
	}

	newCache := make(map[string]*jsonschema.Schema)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		newCache[strings.TrimSuffix(e.Name(), ".json")] = rs
	}

	l.mu.Lock()
	l.cache = newCache
	l.mu.Unlock()

	return nil
}

var defaultLoader = sync.OnceValues(func() (*Loader, error) {
	return NewLoader(files, "schemas")
})

// Default returns the loader for the built-in entity schemas.
func Default() (*Loader, error) {
	return defaultLoader()
}
