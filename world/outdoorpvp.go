package world

import "time"

type OutdoorPvP interface {
	Setup() bool
	Update(diff time.Duration)
}

type OutdoorPvPFactory interface {
	CreateOutdoorPvP(scriptID uint32) OutdoorPvP
}

// OutdoorPvPMgr owns the zone control instances, one per configured script.
type OutdoorPvPMgr struct {
	factory   OutdoorPvPFactory
	scriptIDs []uint32
	active    map[uint32]OutdoorPvP
	inits     int
	deaths    int
}

func NewOutdoorPvPMgr(factory OutdoorPvPFactory, scriptIDs ...uint32) *OutdoorPvPMgr {
	return &OutdoorPvPMgr{
		factory:   factory,
		scriptIDs: scriptIDs,
		active:    map[uint32]OutdoorPvP{},
	}
}

func (o *OutdoorPvPMgr) SetFactory(factory OutdoorPvPFactory) {
	o.factory = factory
}

func (o *OutdoorPvPMgr) InitOutdoorPvP() {
	o.inits++
	if o.factory == nil {
		return
	}
	for _, id := range o.scriptIDs {
		if _, found := o.active[id]; found {
			continue
		}
		if pvp := o.factory.CreateOutdoorPvP(id); pvp != nil && pvp.Setup() {
			o.active[id] = pvp
		}
	}
}

// Die tears down every instance.
func (o *OutdoorPvPMgr) Die() {
	o.deaths++
	clear(o.active)
}

func (o *OutdoorPvPMgr) Active() int {
	return len(o.active)
}

// Inits and Deaths count InitOutdoorPvP and Die calls.
func (o *OutdoorPvPMgr) Inits() int {
	return o.inits
}

func (o *OutdoorPvPMgr) Deaths() int {
	return o.deaths
}

func (o *OutdoorPvPMgr) Update(diff time.Duration) {
	for _, id := range o.scriptIDs {
		if pvp, found := o.active[id]; found {
			pvp.Update(diff)
		}
	}
}
