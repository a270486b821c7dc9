// Package ai contains the scripted behaviour objects content scripts build
// on. A ScriptedAI ticks an events.Map while its creature is in combat and
// hands due events to its EventHandler.
package ai

import (
	"time"

	"github.com/zond/scriptcore/events"
	"github.com/zond/scriptcore/world"
)

type State int

const (
	Idle State = iota
	Combat
	Dead
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Combat:
		return "combat"
	case Dead:
		return "dead"
	}
	return "unknown"
}

// EventHandler runs the events of a ScriptedAI.
type EventHandler interface {
	ExecuteEvent(id events.EventID)
}

// CombatScheduler is implemented by handlers that schedule their baseline
// events when combat starts.
type CombatScheduler interface {
	ScheduleCombatEvents(victim world.GUID)
}

type Resetter interface {
	OnReset()
}

type DeathHandler interface {
	OnJustDied(killer world.GUID)
}

type ScriptedAI struct {
	Me      *world.Creature
	Events  *events.Map
	Summons *SummonList
	handler EventHandler
	state   State
}

func NewScriptedAI(me *world.Creature, handler EventHandler) *ScriptedAI {
	return &ScriptedAI{
		Me:      me,
		Events:  events.New(),
		Summons: NewSummonList(me),
		handler: handler,
	}
}

func (s *ScriptedAI) State() State {
	return s.state
}

func (s *ScriptedAI) InitializeAI() {
	if s.Me.IsAlive() {
		s.Reset()
	}
}

// Reset returns a living creature to Idle, dropping its events and summons.
func (s *ScriptedAI) Reset() {
	if !s.Me.IsAlive() {
		return
	}
	s.Events.Reset()
	s.Summons.DespawnAll()
	s.state = Idle
	if r, ok := s.handler.(Resetter); ok {
		r.OnReset()
	}
}

func (s *ScriptedAI) EnterCombat(victim world.GUID) {
	if s.state == Combat {
		return
	}
	s.state = Combat
	if c, ok := s.handler.(CombatScheduler); ok {
		c.ScheduleCombatEvents(victim)
	}
}

func (s *ScriptedAI) EnterEvadeMode() {
	s.Me.CombatStop()
	s.Reset()
}

func (s *ScriptedAI) JustDied(killer world.GUID) {
	s.state = Dead
	s.Events.Reset()
	s.Summons.DespawnAll()
	if d, ok := s.handler.(DeathHandler); ok {
		d.OnJustDied(killer)
	}
}

func (s *ScriptedAI) JustSummoned(summon *world.Creature) {
	s.Summons.Summon(summon)
}

func (s *ScriptedAI) SummonedCreatureDespawn(summon *world.Creature) {
	s.Summons.Despawn(summon)
}

// UpdateAI runs due events until none are left or the creature starts
// casting.
func (s *ScriptedAI) UpdateAI(diff time.Duration) {
	if s.state != Combat || !s.Me.IsInCombat() {
		return
	}
	s.Events.Update(diff)
	if s.Me.IsCasting() {
		return
	}
	for id := s.Events.ExecuteEvent(); id != events.None; id = s.Events.ExecuteEvent() {
		s.handler.ExecuteEvent(id)
		if s.Me.IsCasting() {
			return
		}
	}
}
