package registry

import (
	"iter"
	"slices"
)

type entry[T Script] struct {
	context string
	script  T
}

// Unbound stores scripts of a kind that is addressed by context only.
type Unbound[T Script] struct {
	kind      string
	host      *Compositum
	hooks     Hooks
	entries   []entry[T]
	afterLoad []T
}

func NewUnbound[T Script](host *Compositum, kind string, hooks Hooks) *Unbound[T] {
	if hooks == nil {
		hooks = NoopHooks{}
	}
	u := &Unbound[T]{
		kind:  kind,
		host:  host,
		hooks: hooks,
	}
	host.Register(u)
	return u
}

func (u *Unbound[T]) Kind() string {
	return u.kind
}

// AddScript takes ownership of script. Adding an object that is already
// stored is logged and the duplicate is queued for delayed delete.
func (u *Unbound[T]) AddScript(script T) {
	u.host.count++
	u.add(script, true)
}

func (u *Unbound[T]) add(script T, deferrable bool) {
	context := u.host.CurrentContext()
	if context == "" {
		abortf("Tried to register %s script %q without a current script context", u.kind, script.Name())
	}
	for _, e := range u.entries {
		if sameObject(e.script, script) {
			u.host.logger.Printf("Script %q has same memory pointer as %q.", script.Name(), e.script.Name())
			u.host.discardDuplicate()
			return
		}
	}
	if deferrable && isAfterLoadDatabase(script) {
		u.afterLoad = append(u.afterLoad, script)
		return
	}
	u.entries = append(u.entries, entry[T]{context: context, script: script})
}

func (u *Unbound[T]) AddALScripts() {
	pending := u.afterLoad
	u.afterLoad = nil
	for _, script := range pending {
		u.add(script, false)
	}
}

func (u *Unbound[T]) PendingAfterLoad() int {
	return len(u.afterLoad)
}

// All iterates the stored scripts in registration order.
func (u *Unbound[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, e := range u.entries {
			if !yield(e.script) {
				return
			}
		}
	}
}

// Entries iterates context and script pairs in registration order.
func (u *Unbound[T]) Entries() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, e := range u.entries {
			if !yield(e.context, e.script) {
				return
			}
		}
	}
}

func (u *Unbound[T]) Len() int {
	return len(u.entries)
}

func (u *Unbound[T]) IDsOfContext(string) []uint32 {
	return nil
}

func (u *Unbound[T]) RecentlyAddedIDs() []uint32 {
	return nil
}

func (u *Unbound[T]) HasContext(context string) bool {
	return slices.ContainsFunc(u.entries, func(e entry[T]) bool {
		return e.context == context
	})
}

func (u *Unbound[T]) ContextLen(context string) int {
	result := 0
	for _, e := range u.entries {
		if e.context == context {
			result++
		}
	}
	return result
}

func (u *Unbound[T]) Contexts() []string {
	seen := map[string]bool{}
	for _, e := range u.entries {
		seen[e.context] = true
	}
	return sortedKeys(seen)
}

func (u *Unbound[T]) ReleaseContext(context string) {
	u.hooks.BeforeReleaseContext(u, context)
	u.entries = slices.DeleteFunc(u.entries, func(e entry[T]) bool {
		if e.context == context {
			u.host.discard(e.script)
			return true
		}
		return false
	})
}

func (u *Unbound[T]) SwapContext(initialize bool) {
	u.hooks.BeforeSwapContext(u, initialize)
}

func (u *Unbound[T]) RemoveUsedScriptsFromContainer(names map[string]bool) {
	for _, e := range u.entries {
		delete(names, e.script.Name())
	}
}

func (u *Unbound[T]) Unload() {
	u.hooks.BeforeUnload(u)
	for _, e := range u.entries {
		u.host.discard(e.script)
	}
	for _, script := range u.afterLoad {
		u.host.discard(script)
	}
	u.entries = nil
	u.afterLoad = nil
}
