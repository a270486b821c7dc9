// Package events contains the per-entity timed event scheduler used by AI
// state machines.
//
// A Map keeps its own clock. Update advances the clock, ExecuteEvent then pops
// due events one at a time in due order, ties broken by insertion order.
// Events scheduled after the most recent Update wait for the next Update
// unless scheduled with Immediate, so a handler that reschedules itself with
// a zero delay cannot starve the other events due in the same tick.
//
// Events scheduled with phases only fire while one of them is active, or
// while no phase is active at all.
//
// A Map is owned by one entity and is not safe for concurrent use.
package events

import (
	"time"

	"github.com/zond/scriptcore/heap"
)

// EventID identifies a scheduled event. None is never scheduled.
type EventID uint32

const (
	None EventID = 0
)

const (
	// MaxPhase is the highest phase number a Map can track.
	MaxPhase = 8
	// MaxGroup is the highest group number a Map can track.
	MaxGroup = 8
)

type event struct {
	id        EventID
	due       time.Duration
	seq       uint64
	tick      uint64
	group     uint8
	phases    uint8
	immediate bool
}

func (e event) before(o event) bool {
	if e.due != o.due {
		return e.due < o.due
	}
	return e.seq < o.seq
}

type Map struct {
	now    time.Duration
	tick   uint64
	seq    uint64
	phases uint8
	queue  *heap.Heap[event]
}

func New() *Map {
	return &Map{
		queue: heap.New(event.before),
	}
}

// ScheduleOption modifies a single ScheduleEvent call.
type ScheduleOption func(*event)

// Group tags the event with group g (1..MaxGroup), for CancelEventGroup
// and DelayEventsGroup.
func Group(g uint8) ScheduleOption {
	return func(e *event) {
		if g > 0 && g <= MaxGroup {
			e.group = g
		}
	}
}

// Phase restricts the event to phase p (1..MaxPhase). Repeated Phase
// options accumulate.
func Phase(p uint8) ScheduleOption {
	return func(e *event) {
		e.phases |= phaseBit(p)
	}
}

// Immediate lets the event fire in the tick it was scheduled in.
func Immediate() ScheduleOption {
	return func(e *event) {
		e.immediate = true
	}
}

func phaseBit(p uint8) uint8 {
	if p == 0 || p > MaxPhase {
		return 0
	}
	return 1 << (p - 1)
}

func (m *Map) ScheduleEvent(id EventID, delay time.Duration, opts ...ScheduleOption) {
	if id == None {
		return
	}
	if delay < 0 {
		delay = 0
	}
	m.seq++
	ev := event{
		id:   id,
		due:  m.now + delay,
		seq:  m.seq,
		tick: m.tick,
	}
	for _, opt := range opts {
		opt(&ev)
	}
	m.queue.Push(ev)
}

// RescheduleEvent cancels every pending occurrence of id and schedules it anew.
func (m *Map) RescheduleEvent(id EventID, delay time.Duration, opts ...ScheduleOption) {
	m.CancelEvent(id)
	m.ScheduleEvent(id, delay, opts...)
}

// Repeat is meant to be called from the handler of the event that just fired.
func (m *Map) Repeat(id EventID, delay time.Duration, opts ...ScheduleOption) {
	m.ScheduleEvent(id, delay, opts...)
}

// Update advances the clock by elapsed. Nothing fires until ExecuteEvent.
func (m *Map) Update(elapsed time.Duration) {
	if elapsed > 0 {
		m.now += elapsed
	}
	m.tick++
}

func (m *Map) eligible(ev event) bool {
	if ev.due > m.now {
		return false
	}
	if ev.tick >= m.tick && !ev.immediate {
		return false
	}
	return ev.phases == 0 || m.phases == 0 || ev.phases&m.phases != 0
}

// ExecuteEvent pops and returns the earliest eligible event, or None.
// Due events outside the active phases, and events scheduled since the last
// Update, stay queued. Without an active phase no event is filtered.
func (m *Map) ExecuteEvent() EventID {
	var skipped []event
	defer func() {
		for _, ev := range skipped {
			m.queue.Push(ev)
		}
	}()
	for {
		ev, found := m.queue.Peek()
		if !found || ev.due > m.now {
			return None
		}
		m.queue.Pop()
		if m.eligible(ev) {
			return ev.id
		}
		skipped = append(skipped, ev)
	}
}

func (m *Map) Reset() {
	m.queue.Clear()
	m.phases = 0
}

// CancelEvent removes every pending occurrence of id.
func (m *Map) CancelEvent(id EventID) {
	m.queue.Filter(func(ev event) bool {
		return ev.id != id
	})
}

func (m *Map) CancelEventGroup(group uint8) {
	if group == 0 {
		return
	}
	m.queue.Filter(func(ev event) bool {
		return ev.group != group
	})
}

// DelayEvents postpones every pending event by delay.
func (m *Map) DelayEvents(delay time.Duration) {
	m.queue.Map(func(ev event) event {
		ev.due += delay
		return ev
	})
}

func (m *Map) DelayEventsGroup(delay time.Duration, group uint8) {
	if group == 0 {
		return
	}
	m.queue.Map(func(ev event) event {
		if ev.group == group {
			ev.due += delay
		}
		return ev
	})
}

// SetPhase makes p the only active phase. Zero clears all phases.
func (m *Map) SetPhase(p uint8) {
	m.phases = phaseBit(p)
}

func (m *Map) AddPhase(p uint8) {
	m.phases |= phaseBit(p)
}

func (m *Map) RemovePhase(p uint8) {
	m.phases &^= phaseBit(p)
}

func (m *Map) IsInPhase(p uint8) bool {
	bit := phaseBit(p)
	return bit != 0 && m.phases&bit != 0
}

// PhaseMask returns the active phases, bit p-1 set for phase p.
func (m *Map) PhaseMask() uint8 {
	return m.phases
}

func (m *Map) Empty() bool {
	return m.queue.Size() == 0
}

func (m *Map) Len() int {
	return m.queue.Size()
}

// Now returns the accumulated Update time.
func (m *Map) Now() time.Duration {
	return m.now
}

// TimeUntilEvent returns the remaining time of the earliest pending
// occurrence of id.
func (m *Map) TimeUntilEvent(id EventID) (time.Duration, bool) {
	var best event
	found := false
	for ev := range m.queue.All() {
		if ev.id == id && (!found || ev.before(best)) {
			best = ev
			found = true
		}
	}
	if !found {
		return 0, false
	}
	if remaining := best.due - m.now; remaining > 0 {
		return remaining, true
	}
	return 0, true
}
