// Package content holds the scripts compiled into the server binary. They
// are registered into the static context by Register.
package content

import (
	"time"

	"github.com/zond/scriptcore/ai"
	"github.com/zond/scriptcore/events"
	"github.com/zond/scriptcore/registry"
	"github.com/zond/scriptcore/scripts"
	"github.com/zond/scriptcore/world"
)

const (
	WardenName    = "boss_warden"
	AnnouncerName = "world_announcer"
)

const (
	SpellCleave  uint32 = 15284
	SpellEnrage  uint32 = 8599
	EntryWarder  uint32 = 90001
	WardenBossID uint32 = 1
)

const (
	eventCleave events.EventID = iota + 1
	eventSummonWarders
	eventEnrage
)

const (
	phaseOne uint8 = iota + 1
	phaseTwo
)

// Adder is where Register adds the scripts.
type Adder interface {
	AddScript(s scripts.Script)
}

func Register(m Adder, logger registry.Logger) {
	m.AddScript(newWarden())
	m.AddScript(newAnnouncer(logger))
}

type warden struct {
	scripts.CreatureBase
}

func newWarden() *warden {
	result := &warden{}
	result.ScriptName = WardenName
	return result
}

func (w *warden) GetAI(c *world.Creature) world.CreatureAI {
	result := &WardenAI{}
	result.BossAI = ai.NewBossAI(c, WardenBossID, result)
	return result
}

// WardenAI cleaves its victim, calls two warders at 30 seconds into the
// fight, and enrages after three minutes.
type WardenAI struct {
	*ai.BossAI
}

func (w *WardenAI) ScheduleCombatEvents(world.GUID) {
	w.Events.SetPhase(phaseOne)
	w.Events.ScheduleEvent(eventCleave, 8*time.Second)
	w.Events.ScheduleEvent(eventSummonWarders, 30*time.Second, events.Phase(phaseOne))
	w.Events.ScheduleEvent(eventEnrage, 3*time.Minute)
}

func (w *WardenAI) ExecuteEvent(id events.EventID) {
	switch id {
	case eventCleave:
		w.Me.CastSpell(SpellCleave)
		w.Events.Repeat(eventCleave, 8*time.Second)
	case eventSummonWarders:
		w.Me.Summon(EntryWarder, 0)
		w.Me.Summon(EntryWarder, 0)
		w.Events.SetPhase(phaseTwo)
	case eventEnrage:
		w.Me.CastSpell(SpellEnrage)
	}
}

type announcer struct {
	scripts.WorldBase
	logger registry.Logger
}

func newAnnouncer(logger registry.Logger) *announcer {
	result := &announcer{logger: logger}
	result.ScriptName = AnnouncerName
	return result
}

func (a *announcer) OnStartup() {
	a.logger.Printf("World started")
}

func (a *announcer) OnShutdown() {
	a.logger.Printf("World shutting down")
}
