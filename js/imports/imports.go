// Package imports concatenates script context sources with the files they
// pull in through `// @import path` lines.
package imports

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// importPattern matches `// @import path` at the start of a line only, so
// mentions in ordinary comments are ignored.
var importPattern = regexp.MustCompile(`(?m)^// @import\s+(\S+)\s*$`)

// LoadFunc loads the source at path.
type LoadFunc func(path string) ([]byte, error)

type Resolved struct {
	Source string
	// Deps are every file in the dependency tree, the root first.
	Deps []string
}

// Resolver caches resolved sources, and remembers which roots depend on
// which files so a change can be mapped back to the contexts to reload.
type Resolver struct {
	mu    sync.RWMutex
	cache map[string]*Resolved
}

func NewResolver() *Resolver {
	return &Resolver{
		cache: map[string]*Resolved{},
	}
}

// Resolve returns the source of root with its imports, depth first and each
// file once, in front of it.
func (r *Resolver) Resolve(root string, load LoadFunc) (*Resolved, error) {
	r.mu.RLock()
	entry, cached := r.cache[root]
	r.mu.RUnlock()
	if cached {
		return entry, nil
	}

	rc := &resolveContext{
		inProgress: map[string]bool{},
		included:   map[string]bool{},
		load:       load,
	}
	buf := &strings.Builder{}
	if err := rc.resolve(root, buf); err != nil {
		return nil, err
	}
	entry = &Resolved{
		Source: buf.String(),
		Deps:   rc.deps,
	}

	r.mu.Lock()
	r.cache[root] = entry
	r.mu.Unlock()
	return entry, nil
}

// Dependents returns the cached roots that include path, sorted.
func (r *Resolver) Dependents(path string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []string{}
	for root, entry := range r.cache {
		if slices.Contains(entry.Deps, path) {
			result = append(result, root)
		}
	}
	slices.Sort(result)
	return result
}

// Invalidate forgets every cached root including path, and returns them.
func (r *Resolver) Invalidate(path string) []string {
	roots := r.Dependents(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, root := range roots {
		delete(r.cache, root)
	}
	return roots
}

func (r *Resolver) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

type resolveContext struct {
	inProgress map[string]bool
	included   map[string]bool
	deps       []string
	load       LoadFunc
}

func (rc *resolveContext) resolve(path string, buf *strings.Builder) error {
	if rc.inProgress[path] {
		return errors.Errorf("circular import of %s", path)
	}
	if rc.included[path] {
		return nil
	}
	rc.inProgress[path] = true
	defer delete(rc.inProgress, path)

	b, err := rc.load(path)
	if err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}
	source := string(b)
	rc.deps = append(rc.deps, path)
	for _, imp := range ParseImports(source) {
		if err := rc.resolve(ResolvePath(path, imp), buf); err != nil {
			return errors.Wrapf(err, "in %s", path)
		}
	}
	buf.WriteString(RemoveImports(source))
	rc.included[path] = true
	return nil
}

func ParseImports(source string) []string {
	result := []string{}
	for _, match := range importPattern.FindAllStringSubmatch(source, -1) {
		result = append(result, match[1])
	}
	return result
}

func RemoveImports(source string) string {
	return importPattern.ReplaceAllString(source, "")
}

// ResolvePath resolves importPath relative to the directory of fromPath,
// unless it is absolute.
func ResolvePath(fromPath, importPath string) string {
	if filepath.IsAbs(importPath) {
		return filepath.Clean(importPath)
	}
	return filepath.Join(filepath.Dir(fromPath), importPath)
}
