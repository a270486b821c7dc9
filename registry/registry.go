// Package registry stores typed script objects per kind and coordinates
// context release and swap across all kinds.
//
// A context is a named unit of loadable code. Every script registered while a
// context is current belongs to that context until the context is released.
// None of the types in this package are safe for concurrent use: mutation
// happens in load and reload windows on the simulation thread only.
package registry

import (
	"reflect"
	"slices"
)

// Script is implemented by every registrable behaviour object.
type Script interface {
	Name() string
}

// AfterLoadDatabase is implemented by scripts that must not be registered
// until the database has been loaded.
type AfterLoadDatabase interface {
	IsAfterLoadDatabase() bool
}

// Releaser is implemented by objects that own resources beyond memory. It is
// called when the delayed delete queue is drained.
type Releaser interface {
	Release()
}

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// IDSource resolves script names to externally assigned ids. Zero means
// unassigned.
type IDSource interface {
	ScriptID(name string) uint32
}

// Registry is the kind-independent face of a Bound or Unbound registry.
type Registry interface {
	Kind() string
	ReleaseContext(context string)
	SwapContext(initialize bool)
	RemoveUsedScriptsFromContainer(names map[string]bool)
	Unload()
	AddALScripts()
	Len() int
	Contexts() []string
	// ContextLen is the number of scripts context owns.
	ContextLen(context string) int
}

// View is what swap hooks may inspect of the registry they run for.
type View interface {
	Kind() string
	IDsOfContext(context string) []uint32
	RecentlyAddedIDs() []uint32
	HasContext(context string) bool
}

// Hooks run before the registry mutates its store.
type Hooks interface {
	BeforeReleaseContext(view View, context string)
	BeforeSwapContext(view View, initialize bool)
	BeforeUnload(view View)
}

type NoopHooks struct{}

func (NoopHooks) BeforeReleaseContext(View, string) {}
func (NoopHooks) BeforeSwapContext(View, bool)      {}
func (NoopHooks) BeforeUnload(View)                 {}

// UnsupportedHooks abort when a context owning scripts of the kind is
// released, for kinds that have no safe way to swap live consumers.
type UnsupportedHooks struct {
	NoopHooks
}

func (UnsupportedHooks) BeforeReleaseContext(view View, context string) {
	if view.HasContext(context) {
		abortf("Hot swapping of %s scripts is not supported, context %q owns some", view.Kind(), context)
	}
}

func isAfterLoadDatabase(s Script) bool {
	al, ok := s.(AfterLoadDatabase)
	return ok && al.IsAfterLoadDatabase()
}

// sameObject reports whether a and b are the same pointer.
func sameObject(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != reflect.Pointer || vb.Kind() != reflect.Pointer {
		return false
	}
	return va.Pointer() == vb.Pointer()
}

func sortedKeys[K interface{ ~uint32 | ~string }, V any](m map[K]V) []K {
	result := make([]K, 0, len(m))
	for k := range m {
		result = append(result, k)
	}
	slices.Sort(result)
	return result
}
