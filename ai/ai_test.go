package ai

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zond/scriptcore/events"
	"github.com/zond/scriptcore/world"
)

const (
	eventSlash events.EventID = iota + 1
	eventFireball
	eventSummonAdd
	eventEnrage
)

const (
	spellSlash    uint32 = 100
	spellFireball uint32 = 200
	spellEnrage   uint32 = 300
	entryAdd      uint32 = 9000
)

type testBoss struct {
	*BossAI
	executed []events.EventID
	resets   int
	deaths   int
}

func (t *testBoss) ScheduleCombatEvents(world.GUID) {
	t.Events.SetPhase(1)
	t.Events.ScheduleEvent(eventFireball, 2*time.Second)
	t.Events.ScheduleEvent(eventSlash, time.Second)
	t.Events.ScheduleEvent(eventSummonAdd, time.Second)
	t.Events.ScheduleEvent(eventEnrage, 10*time.Second, events.Phase(2))
}

func (t *testBoss) ExecuteEvent(id events.EventID) {
	t.executed = append(t.executed, id)
	switch id {
	case eventSlash:
		t.Me.CastSpell(spellSlash)
		t.Events.Repeat(eventSlash, time.Second)
	case eventFireball:
		t.Me.StartCast(spellFireball, 1500*time.Millisecond)
	case eventSummonAdd:
		t.Me.Summon(entryAdd, 0)
	case eventEnrage:
		t.Me.CastSpell(spellEnrage)
	}
}

func (t *testBoss) OnReset() {
	t.resets++
}

func (t *testBoss) OnJustDied(world.GUID) {
	t.deaths++
}

type testInstance struct {
	states []EncounterState
}

func (t *testInstance) Initialize()          {}
func (t *testInstance) Update(time.Duration) {}
func (t *testInstance) SetBossState(_ uint32, state EncounterState) {
	t.states = append(t.states, state)
}

type bossFactory struct {
	world.DefaultAIs
	bosses []*testBoss
}

func (b *bossFactory) CreatureAI(c *world.Creature) world.CreatureAI {
	if c.ScriptID() == 0 {
		return b.DefaultAIs.CreatureAI(c)
	}
	boss := &testBoss{}
	boss.BossAI = NewBossAI(c, 1, boss)
	b.bosses = append(b.bosses, boss)
	return boss
}

func withBoss(t *testing.T, f func(m *world.Map, boss *testBoss, instance *testInstance)) {
	t.Helper()
	factory := &bossFactory{}
	m := world.NewMaps(factory).CreateMap(1, 0)
	instance := &testInstance{}
	m.SetInstance(instance)
	m.SpawnCreature(1, 1)
	f(m, factory.bosses[0], instance)
}

func TestCombatLoop(t *testing.T) {
	withBoss(t, func(m *world.Map, boss *testBoss, instance *testInstance) {
		if boss.State() != Idle {
			t.Fatalf("got %v, want idle", boss.State())
		}
		boss.Me.EnterCombat(world.GUID(77))
		if boss.State() != Combat {
			t.Fatalf("got %v, want combat", boss.State())
		}
		m.Update(time.Second)
		if diff := cmp.Diff([]events.EventID{eventSlash, eventSummonAdd}, boss.executed); diff != "" {
			t.Errorf("executed mismatch (-want +got):\n%s", diff)
		}
		if boss.Summons.Len() != 1 || !boss.Summons.HasEntry(entryAdd) {
			t.Errorf("add was not tracked")
		}
		boss.executed = nil
		m.Update(time.Second)
		// The fireball cast stops the loop before the repeated slash.
		if diff := cmp.Diff([]events.EventID{eventFireball}, boss.executed); diff != "" {
			t.Errorf("executed mismatch (-want +got):\n%s", diff)
		}
		boss.executed = nil
		m.Update(time.Second)
		if len(boss.executed) != 0 {
			t.Errorf("got %v while casting, want nothing", boss.executed)
		}
		m.Update(time.Second)
		if diff := cmp.Diff([]events.EventID{eventSlash}, boss.executed); diff != "" {
			t.Errorf("executed mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]EncounterState{NotStarted, InProgress}, instance.states); diff != "" {
			t.Errorf("states mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestPhaseGatedEvent(t *testing.T) {
	withBoss(t, func(m *world.Map, boss *testBoss, _ *testInstance) {
		boss.Me.EnterCombat(world.GUID(77))
		boss.Events.CancelEvent(eventFireball)
		m.Update(10 * time.Second)
		for _, id := range boss.executed {
			if id == eventEnrage {
				t.Fatalf("enrage fired outside its phase")
			}
		}
		boss.Events.SetPhase(2)
		boss.executed = nil
		m.Update(0)
		found := false
		for _, id := range boss.executed {
			found = found || id == eventEnrage
		}
		if !found {
			t.Errorf("got %v, want enrage once in phase 2", boss.executed)
		}
	})
}

func TestEvade(t *testing.T) {
	withBoss(t, func(m *world.Map, boss *testBoss, instance *testInstance) {
		boss.Me.EnterCombat(world.GUID(77))
		m.Update(time.Second)
		add := boss.Summons.Creatures()[0]
		boss.Me.EnterEvadeMode()
		if boss.State() != Idle || boss.Me.IsInCombat() {
			t.Errorf("got %v in combat %v, want idle out of combat", boss.State(), boss.Me.IsInCombat())
		}
		if !boss.Events.Empty() {
			t.Errorf("events survived evade")
		}
		if _, found := m.Creature(add.GUID()); found {
			t.Errorf("summon survived evade")
		}
		if boss.resets != 2 {
			t.Errorf("got %v resets, want 2", boss.resets)
		}
		want := []EncounterState{NotStarted, InProgress, Fail, NotStarted}
		if diff := cmp.Diff(want, instance.states); diff != "" {
			t.Errorf("states mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDeath(t *testing.T) {
	withBoss(t, func(m *world.Map, boss *testBoss, instance *testInstance) {
		boss.Me.EnterCombat(world.GUID(77))
		m.Update(time.Second)
		boss.Me.Kill(world.GUID(77))
		if boss.State() != Dead || !boss.Events.Empty() || boss.Summons.Len() != 0 {
			t.Errorf("got %v with %v events and %v summons, want dead and empty", boss.State(), boss.Events.Len(), boss.Summons.Len())
		}
		if boss.deaths != 1 {
			t.Errorf("got %v, want 1", boss.deaths)
		}
		if got := instance.states[len(instance.states)-1]; got != Done {
			t.Errorf("got %v, want done", got)
		}
		executed := len(boss.executed)
		m.Update(time.Minute)
		if len(boss.executed) != executed {
			t.Errorf("dead boss executed events")
		}
	})
}

func TestSummonList(t *testing.T) {
	m := world.NewMaps(nil).CreateMap(1, 0)
	me := m.SpawnCreature(1, 0)
	s := NewSummonList(me)
	a := m.SpawnCreature(10, 0)
	b := m.SpawnCreature(10, 0)
	c := m.SpawnCreature(20, 0)
	for _, summon := range []*world.Creature{a, b, c} {
		s.Summon(summon)
	}
	if s.EntryCount(10) != 2 || !s.HasEntry(20) || s.HasEntry(30) {
		t.Errorf("entry counts wrong")
	}
	s.DespawnEntry(10)
	if s.Len() != 1 || s.HasEntry(10) {
		t.Errorf("got %v summons, want only entry 20", s.Len())
	}
	if !s.IsAnyCreatureAlive() {
		t.Errorf("got false, want true")
	}
	c.Kill(0)
	if s.IsAnyCreatureAlive() {
		t.Errorf("got true, want false")
	}
	s.DespawnAll()
	if s.Len() != 0 {
		t.Errorf("got %v, want 0", s.Len())
	}
}
