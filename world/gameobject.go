package world

import "time"

type GameObject struct {
	guid         GUID
	entry        uint32
	scriptID     uint32
	ai           GameObjectAI
	aiGeneration uint64
	m            *Map
}

func (g *GameObject) GUID() GUID {
	return g.guid
}

func (g *GameObject) Entry() uint32 {
	return g.entry
}

func (g *GameObject) ScriptID() uint32 {
	return g.scriptID
}

func (g *GameObject) Map() *Map {
	return g.m
}

func (g *GameObject) IsAlive() bool {
	return true
}

func (g *GameObject) AI() GameObjectAI {
	return g.ai
}

func (g *GameObject) HasAI() bool {
	return g.ai != nil
}

func (g *GameObject) AIGeneration() uint64 {
	return g.aiGeneration
}

func (g *GameObject) AIMCreate() bool {
	g.ai = g.m.maps.ais.GameObjectAI(g)
	g.aiGeneration = g.m.maps.ais.Generation()
	return g.ai != nil
}

func (g *GameObject) AIMDestroy() bool {
	g.ai = nil
	return true
}

func (g *GameObject) AIMInitialize() {
	if g.ai == nil {
		g.AIMCreate()
	}
	g.ai.InitializeAI()
}

func (g *GameObject) UnloadReset() {
	if g.ai != nil {
		g.ai.Reset()
	}
}

func (g *GameObject) LoadInitialize() {
	g.AIMInitialize()
}

func (g *GameObject) LoadReset() {
	g.ai.Reset()
}

func (g *GameObject) Update(diff time.Duration) {
	if g.ai == nil && !g.guid.IsEmpty() {
		g.LoadInitialize()
		g.LoadReset()
	}
	g.ai.UpdateAI(diff)
}
