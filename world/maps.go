package world

import (
	"slices"
	"time"

	"github.com/zond/scriptcore/events"
)

// InstanceScript is the per map behaviour object of an instanced map.
type InstanceScript interface {
	Initialize()
	Update(diff time.Duration)
}

type Map struct {
	id          uint32
	scriptID    uint32
	maps        *Maps
	creatures   map[GUID]*Creature
	gameObjects map[GUID]*GameObject
	pending     []*Creature
	instance    InstanceScript
}

func (m *Map) ID() uint32 {
	return m.id
}

// ScriptID is the id of the InstanceMapScript bound to the map, or zero.
func (m *Map) ScriptID() uint32 {
	return m.scriptID
}

func (m *Map) Instance() InstanceScript {
	return m.instance
}

func (m *Map) SetInstance(instance InstanceScript) {
	m.instance = instance
	if instance != nil {
		instance.Initialize()
	}
}

func (m *Map) nextGUID() GUID {
	m.maps.lastGUID++
	return GUID(m.maps.lastGUID)
}

// SpawnCreature adds a living creature with an initialized AI.
func (m *Map) SpawnCreature(entry uint32, scriptID uint32) *Creature {
	c := &Creature{
		guid:       m.nextGUID(),
		entry:      entry,
		scriptID:   scriptID,
		alive:      true,
		unitEvents: events.New(),
		m:          m,
	}
	m.creatures[c.guid] = c
	c.AIInitializeAndEnable()
	return c
}

// AddCreature creates a creature that is not in the world yet. It has no
// GUID and no AI until AddToWorld.
func (m *Map) AddCreature(entry uint32, scriptID uint32) *Creature {
	c := &Creature{
		entry:      entry,
		scriptID:   scriptID,
		alive:      true,
		unitEvents: events.New(),
		m:          m,
	}
	m.pending = append(m.pending, c)
	return c
}

func (m *Map) AddToWorld(c *Creature) {
	m.pending = slices.DeleteFunc(m.pending, func(p *Creature) bool {
		return p == c
	})
	c.guid = m.nextGUID()
	m.creatures[c.guid] = c
	c.AIInitializeAndEnable()
}

func (m *Map) SpawnGameObject(entry uint32, scriptID uint32) *GameObject {
	g := &GameObject{
		guid:     m.nextGUID(),
		entry:    entry,
		scriptID: scriptID,
		m:        m,
	}
	m.gameObjects[g.guid] = g
	g.AIMInitialize()
	return g
}

func (m *Map) Creature(guid GUID) (*Creature, bool) {
	if guid.IsEmpty() {
		return nil, false
	}
	c, found := m.creatures[guid]
	return c, found
}

func (m *Map) GameObject(guid GUID) (*GameObject, bool) {
	if guid.IsEmpty() {
		return nil, false
	}
	g, found := m.gameObjects[guid]
	return g, found
}

func (m *Map) removeCreature(guid GUID) {
	if c, found := m.creatures[guid]; found {
		delete(m.creatures, guid)
		c.m = nil
	}
}

// Creatures returns the creatures of the map in GUID order.
func (m *Map) Creatures() []*Creature {
	return sortedByGUID(m.creatures)
}

func (m *Map) GameObjects() []*GameObject {
	return sortedByGUID(m.gameObjects)
}

// AIHolders returns the creatures, including those not in the world yet,
// followed by the gameobjects of the map.
func (m *Map) AIHolders() []AIHolder {
	result := []AIHolder{}
	for _, c := range m.Creatures() {
		result = append(result, c)
	}
	for _, c := range m.pending {
		result = append(result, c)
	}
	for _, g := range m.GameObjects() {
		result = append(result, g)
	}
	return result
}

func (m *Map) Update(diff time.Duration) {
	for _, c := range m.Creatures() {
		if c.m == m {
			c.Update(diff)
		}
	}
	for _, g := range m.GameObjects() {
		g.Update(diff)
	}
	if m.instance != nil {
		m.instance.Update(diff)
	}
}

func sortedByGUID[T interface{ GUID() GUID }](m map[GUID]T) []T {
	guids := make([]GUID, 0, len(m))
	for guid := range m {
		guids = append(guids, guid)
	}
	slices.Sort(guids)
	result := make([]T, 0, len(guids))
	for _, guid := range guids {
		result = append(result, m[guid])
	}
	return result
}

// Maps is the map manager.
type Maps struct {
	ais      AIFactory
	maps     map[uint32]*Map
	lastGUID uint64
}

func NewMaps(ais AIFactory) *Maps {
	if ais == nil {
		ais = DefaultAIs{}
	}
	return &Maps{
		ais:  ais,
		maps: map[uint32]*Map{},
	}
}

func (m *Maps) SetAIFactory(ais AIFactory) {
	m.ais = ais
}

// CreateMap returns the map with id, creating it if needed.
func (m *Maps) CreateMap(id uint32, scriptID uint32) *Map {
	if existing, found := m.maps[id]; found {
		return existing
	}
	result := &Map{
		id:          id,
		scriptID:    scriptID,
		maps:        m,
		creatures:   map[GUID]*Creature{},
		gameObjects: map[GUID]*GameObject{},
	}
	m.maps[id] = result
	return result
}

func (m *Maps) Map(id uint32) (*Map, bool) {
	result, found := m.maps[id]
	return result, found
}

// DoForAllMaps calls f for every map in id order.
func (m *Maps) DoForAllMaps(f func(*Map)) {
	ids := make([]uint32, 0, len(m.maps))
	for id := range m.maps {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		f(m.maps[id])
	}
}

func (m *Maps) Update(diff time.Duration) {
	m.DoForAllMaps(func(mp *Map) {
		mp.Update(diff)
	})
}
