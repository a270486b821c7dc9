package events

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func drain(m *Map) []EventID {
	result := []EventID{}
	for id := m.ExecuteEvent(); id != None; id = m.ExecuteEvent() {
		result = append(result, id)
	}
	return result
}

const (
	evA EventID = iota + 1
	evB
	evC
	evD
)

func TestInsertionOrderTiebreak(t *testing.T) {
	m := New()
	m.ScheduleEvent(evA, 5*time.Second)
	m.ScheduleEvent(evB, 2*time.Second)
	m.ScheduleEvent(evC, 2*time.Second)
	m.Update(2 * time.Second)
	if diff := cmp.Diff([]EventID{evB, evC}, drain(m)); diff != "" {
		t.Errorf("ExecuteEvent mismatch (-want +got):\n%s", diff)
	}
	if remaining, found := m.TimeUntilEvent(evA); !found || remaining != 3*time.Second {
		t.Errorf("got %v, %v, want 3s, true", remaining, found)
	}
	if m.Len() != 1 {
		t.Errorf("got %v, want 1", m.Len())
	}
}

func TestNeverEarly(t *testing.T) {
	m := New()
	m.ScheduleEvent(evA, 1500*time.Millisecond)
	for i := 0; i < 14; i++ {
		m.Update(100 * time.Millisecond)
		if id := m.ExecuteEvent(); id != None {
			t.Fatalf("got %v at %v, want None", id, m.Now())
		}
	}
	m.Update(100 * time.Millisecond)
	if id := m.ExecuteEvent(); id != evA {
		t.Errorf("got %v, want %v", id, evA)
	}
}

func TestDueOrderAfterSingleUpdate(t *testing.T) {
	m := New()
	delays := map[EventID]time.Duration{
		evA: 400 * time.Millisecond,
		evB: 100 * time.Millisecond,
		evC: 300 * time.Millisecond,
		evD: 200 * time.Millisecond,
	}
	for _, id := range []EventID{evA, evB, evC, evD} {
		m.ScheduleEvent(id, delays[id])
	}
	m.Update(time.Second)
	if diff := cmp.Diff([]EventID{evB, evD, evC, evA}, drain(m)); diff != "" {
		t.Errorf("ExecuteEvent mismatch (-want +got):\n%s", diff)
	}
}

func TestNoSameTickRefire(t *testing.T) {
	m := New()
	m.ScheduleEvent(evA, 0)
	m.ScheduleEvent(evB, 0)
	m.Update(0)
	got := []EventID{}
	for id := m.ExecuteEvent(); id != None; id = m.ExecuteEvent() {
		got = append(got, id)
		if id == evA {
			m.Repeat(evA, 0)
		}
	}
	if diff := cmp.Diff([]EventID{evA, evB}, got); diff != "" {
		t.Errorf("ExecuteEvent mismatch (-want +got):\n%s", diff)
	}
	m.Update(0)
	if id := m.ExecuteEvent(); id != evA {
		t.Errorf("got %v, want %v", id, evA)
	}
}

func TestImmediate(t *testing.T) {
	m := New()
	m.Update(time.Second)
	m.ScheduleEvent(evA, 0, Immediate())
	m.ScheduleEvent(evB, 0)
	if diff := cmp.Diff([]EventID{evA}, drain(m)); diff != "" {
		t.Errorf("ExecuteEvent mismatch (-want +got):\n%s", diff)
	}
}

func TestZeroDelayBeforeFirstUpdate(t *testing.T) {
	m := New()
	m.ScheduleEvent(evA, 0)
	if id := m.ExecuteEvent(); id != None {
		t.Errorf("got %v, want None", id)
	}
	m.Update(0)
	if id := m.ExecuteEvent(); id != evA {
		t.Errorf("got %v, want %v", id, evA)
	}
}

func TestPhases(t *testing.T) {
	m := New()
	m.SetPhase(1)
	m.ScheduleEvent(evA, time.Second, Phase(2))
	m.ScheduleEvent(evB, time.Second, Phase(1))
	m.ScheduleEvent(evC, time.Second)
	m.Update(time.Second)
	if diff := cmp.Diff([]EventID{evB, evC}, drain(m)); diff != "" {
		t.Errorf("ExecuteEvent mismatch (-want +got):\n%s", diff)
	}
	if m.Empty() {
		t.Fatalf("out of phase event was dropped")
	}
	m.AddPhase(2)
	if !m.IsInPhase(1) || !m.IsInPhase(2) || m.IsInPhase(3) {
		t.Errorf("got phase mask %b, want 11", m.PhaseMask())
	}
	if id := m.ExecuteEvent(); id != evA {
		t.Errorf("got %v, want %v", id, evA)
	}
	m.RemovePhase(1)
	if m.IsInPhase(1) {
		t.Errorf("phase 1 still active")
	}
}

func TestMultiPhaseEvent(t *testing.T) {
	m := New()
	m.SetPhase(2)
	m.ScheduleEvent(evA, 0, Phase(1), Phase(3))
	m.Update(0)
	if id := m.ExecuteEvent(); id != None {
		t.Errorf("got %v, want None in phase 2", id)
	}
	m.SetPhase(3)
	if id := m.ExecuteEvent(); id != evA {
		t.Errorf("got %v, want %v", id, evA)
	}
}

func TestNoActivePhase(t *testing.T) {
	m := New()
	m.ScheduleEvent(evA, time.Second, Phase(2))
	m.ScheduleEvent(evB, time.Second)
	m.Update(time.Second)
	if diff := cmp.Diff([]EventID{evA, evB}, drain(m)); diff != "" {
		t.Errorf("ExecuteEvent mismatch (-want +got):\n%s", diff)
	}
	m.SetPhase(1)
	m.ScheduleEvent(evA, time.Second, Phase(2))
	m.Update(time.Second)
	if id := m.ExecuteEvent(); id != None {
		t.Errorf("got %v, want None in phase 1", id)
	}
	m.RemovePhase(1)
	if id := m.ExecuteEvent(); id != evA {
		t.Errorf("got %v, want %v once no phase is active", id, evA)
	}
}

func TestCancel(t *testing.T) {
	m := New()
	m.ScheduleEvent(evA, time.Second, Group(1))
	m.ScheduleEvent(evB, time.Second, Group(1))
	m.ScheduleEvent(evC, time.Second, Group(2))
	m.ScheduleEvent(evD, time.Second)
	m.ScheduleEvent(evD, 2*time.Second)
	m.CancelEventGroup(1)
	m.CancelEvent(evD)
	m.Update(5 * time.Second)
	if diff := cmp.Diff([]EventID{evC}, drain(m)); diff != "" {
		t.Errorf("ExecuteEvent mismatch (-want +got):\n%s", diff)
	}
}

func TestDelayAndReschedule(t *testing.T) {
	m := New()
	m.ScheduleEvent(evA, time.Second, Group(1))
	m.ScheduleEvent(evB, time.Second)
	m.DelayEventsGroup(time.Second, 1)
	m.RescheduleEvent(evB, 500*time.Millisecond)
	m.Update(time.Second)
	if diff := cmp.Diff([]EventID{evB}, drain(m)); diff != "" {
		t.Errorf("ExecuteEvent mismatch (-want +got):\n%s", diff)
	}
	m.DelayEvents(time.Second)
	if remaining, _ := m.TimeUntilEvent(evA); remaining != 2*time.Second {
		t.Errorf("got %v, want 2s", remaining)
	}
}

func TestReset(t *testing.T) {
	m := New()
	m.SetPhase(2)
	m.ScheduleEvent(evA, 0)
	m.Reset()
	m.Update(time.Second)
	if id := m.ExecuteEvent(); id != None {
		t.Errorf("got %v, want None", id)
	}
	if m.PhaseMask() != 0 {
		t.Errorf("got %b, want 0", m.PhaseMask())
	}
	if _, found := m.TimeUntilEvent(evA); found {
		t.Errorf("found cancelled event")
	}
}
