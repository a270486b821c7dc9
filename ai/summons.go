package ai

import (
	"slices"

	"github.com/zond/scriptcore/world"
)

// SummonList tracks the creatures a creature has summoned.
type SummonList struct {
	me    *world.Creature
	guids []world.GUID
}

func NewSummonList(me *world.Creature) *SummonList {
	return &SummonList{me: me}
}

func (s *SummonList) Summon(summon *world.Creature) {
	s.guids = append(s.guids, summon.GUID())
}

func (s *SummonList) Despawn(summon *world.Creature) {
	s.guids = slices.DeleteFunc(s.guids, func(guid world.GUID) bool {
		return guid == summon.GUID()
	})
}

func (s *SummonList) resolve(guid world.GUID) (*world.Creature, bool) {
	if s.me.Map() == nil {
		return nil, false
	}
	return s.me.Map().Creature(guid)
}

// Creatures returns the summons still on the map.
func (s *SummonList) Creatures() []*world.Creature {
	result := []*world.Creature{}
	for _, guid := range s.guids {
		if c, found := s.resolve(guid); found {
			result = append(result, c)
		}
	}
	return result
}

func (s *SummonList) DespawnAll() {
	guids := s.guids
	s.guids = nil
	for _, guid := range guids {
		if c, found := s.resolve(guid); found {
			c.Despawn()
		}
	}
}

func (s *SummonList) DespawnEntry(entry uint32) {
	for _, c := range s.Creatures() {
		if c.Entry() == entry {
			s.Despawn(c)
			c.Despawn()
		}
	}
}

func (s *SummonList) HasEntry(entry uint32) bool {
	return s.EntryCount(entry) > 0
}

func (s *SummonList) EntryCount(entry uint32) int {
	count := 0
	for _, c := range s.Creatures() {
		if c.Entry() == entry {
			count++
		}
	}
	return count
}

func (s *SummonList) IsAnyCreatureAlive() bool {
	return slices.ContainsFunc(s.Creatures(), (*world.Creature).IsAlive)
}

func (s *SummonList) Len() int {
	return len(s.guids)
}
