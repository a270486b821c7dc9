package world

import (
	"time"

	"github.com/zond/scriptcore/events"
)

const (
	eventHotswapVisual events.EventID = iota + 1
)

type Creature struct {
	guid         GUID
	entry        uint32
	scriptID     uint32
	alive        bool
	inCombat     bool
	victim       GUID
	charmedBy    GUID
	summoner     GUID
	casting      time.Duration
	ai           CreatureAI
	aiGeneration uint64
	unitEvents   *events.Map
	casts        []uint32
	m            *Map
}

func (c *Creature) GUID() GUID {
	return c.guid
}

func (c *Creature) Entry() uint32 {
	return c.entry
}

func (c *Creature) ScriptID() uint32 {
	return c.scriptID
}

// SetScriptID rebinds the creature. The caller recreates the AI.
func (c *Creature) SetScriptID(id uint32) {
	c.scriptID = id
}

func (c *Creature) Map() *Map {
	return c.m
}

func (c *Creature) Summoner() GUID {
	return c.summoner
}

func (c *Creature) IsAlive() bool {
	return c.alive
}

func (c *Creature) AI() CreatureAI {
	return c.ai
}

func (c *Creature) HasAI() bool {
	return c.ai != nil
}

func (c *Creature) AIGeneration() uint64 {
	return c.aiGeneration
}

func (c *Creature) AIMCreate() bool {
	c.ai = c.m.maps.ais.CreatureAI(c)
	c.aiGeneration = c.m.maps.ais.Generation()
	return c.ai != nil
}

func (c *Creature) AIMDestroy() bool {
	c.ai = nil
	return true
}

func (c *Creature) AIInitializeAndEnable() {
	if c.ai == nil {
		c.AIMCreate()
	}
	c.ai.InitializeAI()
}

func (c *Creature) UnloadReset() {
	c.unitEvents.Reset()
	if c.IsCharmed() {
		c.RemoveCharmedBy()
	}
	if c.IsAlive() && c.ai != nil {
		c.ai.EnterEvadeMode()
	}
}

func (c *Creature) LoadInitialize() {
	c.AIMCreate()
}

func (c *Creature) LoadReset() {
	if !c.IsAlive() {
		return
	}
	c.AIInitializeAndEnable()
	c.ai.EnterEvadeMode()
	c.unitEvents.ScheduleEvent(eventHotswapVisual, 0)
}

func (c *Creature) IsCharmed() bool {
	return !c.charmedBy.IsEmpty()
}

func (c *Creature) SetCharmedBy(by GUID) {
	c.charmedBy = by
}

func (c *Creature) RemoveCharmedBy() {
	c.charmedBy = 0
}

func (c *Creature) IsInCombat() bool {
	return c.inCombat
}

func (c *Creature) Victim() GUID {
	return c.victim
}

// EnterCombat is a no-op for dead creatures and creatures already in combat.
func (c *Creature) EnterCombat(victim GUID) {
	if !c.alive || c.inCombat {
		return
	}
	c.inCombat = true
	c.victim = victim
	if c.ai != nil {
		c.ai.EnterCombat(victim)
	}
}

func (c *Creature) CombatStop() {
	c.inCombat = false
	c.victim = 0
	c.casting = 0
}

func (c *Creature) EnterEvadeMode() {
	if c.ai != nil {
		c.ai.EnterEvadeMode()
	} else {
		c.CombatStop()
	}
}

func (c *Creature) Kill(killer GUID) {
	if !c.alive {
		return
	}
	c.alive = false
	c.CombatStop()
	if c.ai != nil {
		c.ai.JustDied(killer)
	}
}

func (c *Creature) Respawn() {
	if c.alive {
		return
	}
	c.alive = true
	if c.ai != nil {
		c.ai.Reset()
	}
}

// StartCast marks the creature as casting for d.
func (c *Creature) StartCast(spell uint32, d time.Duration) {
	c.casts = append(c.casts, spell)
	c.casting = d
}

func (c *Creature) IsCasting() bool {
	return c.casting > 0
}

// CastSpell casts an instant spell.
func (c *Creature) CastSpell(spell uint32) {
	c.casts = append(c.casts, spell)
}

// Casts returns every spell cast so far.
func (c *Creature) Casts() []uint32 {
	return c.casts
}

func (c *Creature) Summon(entry uint32, scriptID uint32) *Creature {
	summon := c.m.SpawnCreature(entry, scriptID)
	summon.summoner = c.guid
	if c.ai != nil {
		c.ai.JustSummoned(summon)
	}
	return summon
}

// Despawn removes the creature from its map.
func (c *Creature) Despawn() {
	if c.m == nil {
		return
	}
	m := c.m
	m.removeCreature(c.guid)
	if summoner, found := m.Creature(c.summoner); found && summoner.ai != nil {
		summoner.ai.SummonedCreatureDespawn(c)
	}
}

// Update ticks the creature. A creature left without a behaviour object by
// a swap gets one here.
func (c *Creature) Update(diff time.Duration) {
	if c.casting > 0 {
		c.casting -= diff
	}
	c.unitEvents.Update(diff)
	for id := c.unitEvents.ExecuteEvent(); id != events.None; id = c.unitEvents.ExecuteEvent() {
		if id == eventHotswapVisual {
			c.CastSpell(SpellHotswapVisual)
		}
	}
	if c.ai == nil && !c.guid.IsEmpty() {
		c.LoadInitialize()
		c.LoadReset()
	}
	if c.alive && c.ai != nil {
		c.ai.UpdateAI(diff)
	}
}
