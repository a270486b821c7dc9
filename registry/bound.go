package registry

import (
	"iter"
	"slices"
)

// Bound stores scripts of a database bound kind, keyed by the id the
// IDSource assigns to their name.
type Bound[T Script] struct {
	kind          string
	host          *Compositum
	hooks         Hooks
	scripts       map[uint32]T
	order         []uint32
	idsOfContext  map[string][]uint32
	recentlyAdded map[uint32]bool
	afterLoad     []T
}

func NewBound[T Script](host *Compositum, kind string, hooks Hooks) *Bound[T] {
	if hooks == nil {
		hooks = NoopHooks{}
	}
	b := &Bound[T]{
		kind:          kind,
		host:          host,
		hooks:         hooks,
		scripts:       map[uint32]T{},
		idsOfContext:  map[string][]uint32{},
		recentlyAdded: map[uint32]bool{},
	}
	host.Register(b)
	return b
}

func (b *Bound[T]) Kind() string {
	return b.kind
}

// AddScript takes ownership of script.
//
// A name the IDSource doesn't know is logged and the script is queued for
// delayed delete. A name already stored is fatal.
func (b *Bound[T]) AddScript(script T) {
	b.host.count++
	b.add(script, true)
}

func (b *Bound[T]) add(script T, deferrable bool) {
	context := b.host.CurrentContext()
	if context == "" {
		abortf("Tried to register %s script %q without a current script context", b.kind, script.Name())
	}
	id := b.host.scriptID(script.Name())
	if id == 0 {
		b.host.logger.Printf("Script %q exists in the core, but the database does not assign it to any %s.", script.Name(), b.kind)
		b.host.noteUnreferenced(script.Name(), context)
		b.host.discard(script)
		return
	}
	if existing, found := b.scripts[id]; found {
		if existing.Name() == script.Name() {
			abortf("Script %q already assigned with the same script name, so the script can't work.", script.Name())
		}
		abortf("Script id %v of %q is already bound to %q", id, script.Name(), existing.Name())
	}
	if deferrable && isAfterLoadDatabase(script) {
		b.afterLoad = append(b.afterLoad, script)
		return
	}
	b.scripts[id] = script
	b.order = append(b.order, id)
	b.idsOfContext[context] = append(b.idsOfContext[context], id)
	b.recentlyAdded[id] = true
	b.host.SetScriptNameInContext(script.Name(), context)
}

// AddALScripts registers the scripts held back by AddScript until the
// database was loaded.
func (b *Bound[T]) AddALScripts() {
	pending := b.afterLoad
	b.afterLoad = nil
	for _, script := range pending {
		b.add(script, false)
	}
}

func (b *Bound[T]) PendingAfterLoad() int {
	return len(b.afterLoad)
}

// ScriptByID returns the script bound to id, if any.
func (b *Bound[T]) ScriptByID(id uint32) (T, bool) {
	script, found := b.scripts[id]
	return script, found
}

// All iterates the stored scripts in registration order.
func (b *Bound[T]) All() iter.Seq2[uint32, T] {
	return func(yield func(uint32, T) bool) {
		for _, id := range b.order {
			if !yield(id, b.scripts[id]) {
				return
			}
		}
	}
}

// Scripts iterates the stored scripts in registration order.
func (b *Bound[T]) Scripts() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, id := range b.order {
			if !yield(b.scripts[id]) {
				return
			}
		}
	}
}

func (b *Bound[T]) Len() int {
	return len(b.scripts)
}

func (b *Bound[T]) IDsOfContext(context string) []uint32 {
	return slices.Clone(b.idsOfContext[context])
}

func (b *Bound[T]) HasContext(context string) bool {
	return len(b.idsOfContext[context]) > 0
}

func (b *Bound[T]) RecentlyAddedIDs() []uint32 {
	return sortedKeys(b.recentlyAdded)
}

func (b *Bound[T]) ContextLen(context string) int {
	return len(b.idsOfContext[context])
}

func (b *Bound[T]) Contexts() []string {
	return sortedKeys(b.idsOfContext)
}

// ReleaseContext runs the hooks while the scripts of context are still
// stored, then removes them.
func (b *Bound[T]) ReleaseContext(context string) {
	b.hooks.BeforeReleaseContext(b, context)
	ids := b.idsOfContext[context]
	if len(ids) == 0 {
		return
	}
	removed := map[uint32]bool{}
	for _, id := range ids {
		if script, found := b.scripts[id]; found {
			b.host.discard(script)
			delete(b.scripts, id)
		}
		delete(b.recentlyAdded, id)
		removed[id] = true
	}
	b.order = slices.DeleteFunc(b.order, func(id uint32) bool {
		return removed[id]
	})
	delete(b.idsOfContext, context)
}

func (b *Bound[T]) SwapContext(initialize bool) {
	b.hooks.BeforeSwapContext(b, initialize)
	clear(b.recentlyAdded)
}

func (b *Bound[T]) RemoveUsedScriptsFromContainer(names map[string]bool) {
	for _, script := range b.scripts {
		delete(names, script.Name())
	}
}

// Unload is terminal. It aborts if a swap is still pending.
func (b *Bound[T]) Unload() {
	b.hooks.BeforeUnload(b)
	if len(b.recentlyAdded) > 0 {
		abortf("Recently added %s script ids should be empty on unload, found %v", b.kind, b.RecentlyAddedIDs())
	}
	for _, id := range b.order {
		b.host.discard(b.scripts[id])
	}
	for _, script := range b.afterLoad {
		b.host.discard(script)
	}
	clear(b.scripts)
	b.order = nil
	b.afterLoad = nil
	clear(b.idsOfContext)
}
