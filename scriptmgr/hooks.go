package scriptmgr

import (
	"github.com/zond/scriptcore"
	"github.com/zond/scriptcore/registry"
	"github.com/zond/scriptcore/world"
)

func creatures(m *world.Map) []world.AIHolder {
	result := []world.AIHolder{}
	for _, h := range m.AIHolders() {
		if _, ok := h.(*world.Creature); ok {
			result = append(result, h)
		}
	}
	return result
}

func gameObjects(m *world.Map) []world.AIHolder {
	result := []world.AIHolder{}
	for _, h := range m.AIHolders() {
		if _, ok := h.(*world.GameObject); ok {
			result = append(result, h)
		}
	}
	return result
}

// entityHooks keep live creatures or gameobjects from running behaviour
// objects of released scripts.
//
// Releasing a context quiesces and destroys the AI of every entity bound to
// one of its scripts. A later non initializing swap destroys and rebuilds
// the AI of every entity bound to a released or recently added script, so
// default AIs get replaced by newly added scripts too.
type entityHooks struct {
	maps    *world.Maps
	holders func(*world.Map) []world.AIHolder
	removed map[uint32]bool
}

func newEntityHooks(maps *world.Maps, holders func(*world.Map) []world.AIHolder) *entityHooks {
	return &entityHooks{
		maps:    maps,
		holders: holders,
		removed: map[uint32]bool{},
	}
}

func (e *entityHooks) visit(m *world.Map, ids map[uint32]bool, f func(world.AIHolder)) {
	for _, h := range e.holders(m) {
		if ids[h.ScriptID()] {
			f(h)
		}
	}
}

func (e *entityHooks) destroy(ids map[uint32]bool) {
	e.maps.DoForAllMaps(func(m *world.Map) {
		toReset := []world.AIHolder{}
		e.visit(m, ids, func(h world.AIHolder) {
			if h.HasAI() && !h.GUID().IsEmpty() {
				toReset = append(toReset, h)
			}
		})
		for _, h := range toReset {
			h.UnloadReset()
		}
		e.visit(m, ids, func(h world.AIHolder) {
			scriptcore.Assert(h.AIMDestroy(), "Destroying the AI of %v should never fail", h.GUID())
			scriptcore.Assert(!h.HasAI(), "The AI of %v should be nil after destroying it", h.GUID())
		})
	})
}

func (e *entityHooks) initialize(ids map[uint32]bool) {
	e.maps.DoForAllMaps(func(m *world.Map) {
		toReset := []world.AIHolder{}
		e.visit(m, ids, func(h world.AIHolder) {
			if !h.HasAI() && !h.GUID().IsEmpty() {
				h.LoadInitialize()
				scriptcore.Assert(h.HasAI(), "Creating the AI of %v should never fail", h.GUID())
				toReset = append(toReset, h)
			}
		})
		for _, h := range toReset {
			if !h.HasAI() {
				h.LoadInitialize()
			}
			h.LoadReset()
		}
	})
}

func (e *entityHooks) BeforeReleaseContext(view registry.View, context string) {
	ids := map[uint32]bool{}
	for _, id := range view.IDsOfContext(context) {
		ids[id] = true
	}
	e.destroy(ids)
	for id := range ids {
		e.removed[id] = true
	}
}

func (e *entityHooks) BeforeSwapContext(view registry.View, initialize bool) {
	if initialize {
		return
	}
	for _, id := range view.RecentlyAddedIDs() {
		e.removed[id] = true
	}
	e.destroy(e.removed)
	e.initialize(e.removed)
	clear(e.removed)
}

func (e *entityHooks) BeforeUnload(view registry.View) {
	scriptcore.Assert(len(e.removed) == 0, "%s ids released without a following swap", view.Kind())
}

// commandHooks drop the cached command table on every transition.
type commandHooks struct {
	m *Mgr
}

func (c *commandHooks) BeforeReleaseContext(registry.View, string) {
	c.m.InvalidateCommandTable()
}

func (c *commandHooks) BeforeSwapContext(registry.View, bool) {
	c.m.InvalidateCommandTable()
}

func (c *commandHooks) BeforeUnload(registry.View) {
	c.m.InvalidateCommandTable()
}

// outdoorPvPHooks tear the zone control manager down once per batch of
// releases, and bring it back up once on the following swap.
type outdoorPvPHooks struct {
	mgr     *world.OutdoorPvPMgr
	swapped bool
}

func (o *outdoorPvPHooks) BeforeReleaseContext(view registry.View, context string) {
	if !o.swapped && view.HasContext(context) {
		o.swapped = true
		o.mgr.Die()
	}
}

func (o *outdoorPvPHooks) BeforeSwapContext(_ registry.View, initialize bool) {
	if !initialize && o.swapped {
		o.mgr.InitOutdoorPvP()
		o.swapped = false
	}
}

func (o *outdoorPvPHooks) BeforeUnload(registry.View) {
	scriptcore.Assert(!o.swapped, "OutdoorPvP scripts released without a following swap")
}

type instanceMapHooks struct {
	swapped bool
}

func (i *instanceMapHooks) BeforeReleaseContext(view registry.View, context string) {
	if view.HasContext(context) {
		i.swapped = true
	}
}

func (i *instanceMapHooks) BeforeSwapContext(registry.View, bool) {
	i.swapped = false
}

func (i *instanceMapHooks) BeforeUnload(registry.View) {
	scriptcore.Assert(!i.swapped, "InstanceMap scripts released without a following swap")
}

// spellLoaderHooks revalidate the spell script bindings after a swap that
// follows a release of spell script loaders.
type spellLoaderHooks struct {
	m       *Mgr
	swapped bool
}

func (s *spellLoaderHooks) BeforeReleaseContext(view registry.View, context string) {
	if view.HasContext(context) {
		s.swapped = true
	}
}

func (s *spellLoaderHooks) BeforeSwapContext(registry.View, bool) {
	if s.swapped {
		s.m.ValidateSpellScripts()
		s.swapped = false
	}
}

func (s *spellLoaderHooks) BeforeUnload(registry.View) {
	scriptcore.Assert(!s.swapped, "SpellScriptLoader scripts released without a following swap")
}
