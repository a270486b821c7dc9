package ai

import (
	"github.com/zond/scriptcore/world"
)

type EncounterState int

const (
	NotStarted EncounterState = iota
	InProgress
	Fail
	Done
)

// EncounterTracker is implemented by instance scripts that keep encounter
// progress.
type EncounterTracker interface {
	SetBossState(bossID uint32, state EncounterState)
}

// BossAI is a ScriptedAI that reports encounter progress to the instance
// script of its map, if that script tracks encounters.
type BossAI struct {
	*ScriptedAI
	BossID uint32
}

func NewBossAI(me *world.Creature, bossID uint32, handler EventHandler) *BossAI {
	return &BossAI{
		ScriptedAI: NewScriptedAI(me, handler),
		BossID:     bossID,
	}
}

func (b *BossAI) setBossState(state EncounterState) {
	if b.Me.Map() == nil {
		return
	}
	if tracker, ok := b.Me.Map().Instance().(EncounterTracker); ok {
		tracker.SetBossState(b.BossID, state)
	}
}

func (b *BossAI) InitializeAI() {
	if b.Me.IsAlive() {
		b.Reset()
	}
}

func (b *BossAI) Reset() {
	if !b.Me.IsAlive() {
		return
	}
	wasInCombat := b.State() == Combat
	b.ScriptedAI.Reset()
	if wasInCombat {
		b.setBossState(Fail)
	}
	b.setBossState(NotStarted)
}

func (b *BossAI) EnterCombat(victim world.GUID) {
	if b.State() == Combat {
		return
	}
	b.ScriptedAI.EnterCombat(victim)
	b.setBossState(InProgress)
}

func (b *BossAI) EnterEvadeMode() {
	b.Me.CombatStop()
	b.Reset()
}

func (b *BossAI) JustDied(killer world.GUID) {
	b.ScriptedAI.JustDied(killer)
	b.setBossState(Done)
}
