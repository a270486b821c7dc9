package registry

import (
	"log"

	"github.com/zond/scriptcore"
)

var abortf = scriptcore.Abortf

type delayed struct {
	object  any
	counted bool
}

// Compositum is the registry of registries. It owns the current context,
// the script name to context map, and the delayed delete queue.
type Compositum struct {
	ids        IDSource
	logger     Logger
	registries []Registry
	contexts   map[string]string
	queue      []delayed
	current    string
	count      int
	generation uint64

	// unreferenced maps names the IDSource didn't know to their context.
	unreferenced map[string]string
}

func NewCompositum(ids IDSource, logger Logger) *Compositum {
	if logger == nil {
		logger = log.Default()
	}
	return &Compositum{
		ids:      ids,
		logger:   logger,
		contexts:     map[string]string{},
		unreferenced: map[string]string{},
	}
}

// Register is called by NewBound and NewUnbound.
func (c *Compositum) Register(r Registry) {
	c.registries = append(c.registries, r)
}

func (c *Compositum) Registries() []Registry {
	return c.registries
}

func (c *Compositum) SetIDSource(ids IDSource) {
	c.ids = ids
}

func (c *Compositum) scriptID(name string) uint32 {
	if c.ids == nil {
		return 0
	}
	return c.ids.ScriptID(name)
}

func (c *Compositum) SetCurrentContext(context string) {
	c.current = context
}

func (c *Compositum) CurrentContext() string {
	return c.current
}

func (c *Compositum) SetScriptNameInContext(name string, context string) {
	if existing, found := c.contexts[name]; found {
		abortf("Script name %q was assigned to context %q already, can't assign it to %q", name, existing, context)
	}
	c.contexts[name] = context
}

func (c *Compositum) ContextOfScriptName(name string) (string, bool) {
	context, found := c.contexts[name]
	return context, found
}

// ReleaseContext runs the release of every registry and forgets the names of
// the context afterwards, so hooks can still resolve them.
func (c *Compositum) ReleaseContext(context string) {
	for _, r := range c.registries {
		r.ReleaseContext(context)
	}
	for name, owner := range c.contexts {
		if owner == context {
			delete(c.contexts, name)
		}
	}
	for name, owner := range c.unreferenced {
		if owner == context {
			delete(c.unreferenced, name)
		}
	}
}

// SwapContext bumps the generation before running the swap of every
// registry, so behaviour objects the hooks rebuild carry the new one.
func (c *Compositum) SwapContext(initialize bool) {
	if !initialize {
		c.generation++
	}
	for _, r := range c.registries {
		r.SwapContext(initialize)
	}
	c.DoDelayedDelete()
}

func (c *Compositum) RemoveUsedScriptsFromContainer(names map[string]bool) {
	for _, r := range c.registries {
		r.RemoveUsedScriptsFromContainer(names)
	}
}

func (c *Compositum) Unload() {
	for _, r := range c.registries {
		r.Unload()
	}
	clear(c.contexts)
	clear(c.unreferenced)
	c.DoDelayedDelete()
}

func (c *Compositum) AddALScripts() {
	for _, r := range c.registries {
		r.AddALScripts()
	}
}

// QueueForDelayedDelete keeps object alive until the next DoDelayedDelete.
func (c *Compositum) QueueForDelayedDelete(object any) {
	c.queue = append(c.queue, delayed{object: object})
}

func (c *Compositum) discard(s Script) {
	c.queue = append(c.queue, delayed{object: s, counted: true})
}

// discardDuplicate accounts for a second AddScript of a stored object
// without releasing it.
func (c *Compositum) discardDuplicate() {
	c.queue = append(c.queue, delayed{counted: true})
}

func (c *Compositum) DoDelayedDelete() {
	queue := c.queue
	c.queue = nil
	for _, d := range queue {
		if r, ok := d.object.(Releaser); ok {
			r.Release()
		}
		if d.counted {
			c.count--
		}
	}
}

func (c *Compositum) noteUnreferenced(name string, context string) {
	c.unreferenced[name] = context
}

// UnreferencedScriptNames returns the names of the scripts registered
// without an id in the IDSource, sorted.
func (c *Compositum) UnreferencedScriptNames() []string {
	return sortedKeys(c.unreferenced)
}

// PendingDeletes returns the length of the delayed delete queue.
func (c *Compositum) PendingDeletes() int {
	return len(c.queue)
}

// ScriptCount returns the number of script objects handed to any registry
// and not yet deleted.
func (c *Compositum) ScriptCount() int {
	return c.count
}

// Generation is incremented by every SwapContext(false).
func (c *Compositum) Generation() uint64 {
	return c.generation
}

// Contexts returns every context owning at least one script, sorted.
func (c *Compositum) Contexts() []string {
	seen := map[string]bool{}
	for _, r := range c.registries {
		for _, context := range r.Contexts() {
			seen[context] = true
		}
	}
	return sortedKeys(seen)
}
