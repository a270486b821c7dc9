// Package world is the narrow slice of the game simulation the scripting
// core talks to: maps holding creatures and gameobjects, players, and the
// few managers swap hooks need to poke.
package world

import (
	"fmt"
	"time"
)

type GUID uint64

func (g GUID) IsEmpty() bool {
	return g == 0
}

func (g GUID) String() string {
	return fmt.Sprintf("0x%016x", uint64(g))
}

// SpellHotswapVisual is cast by an entity whose AI was hot swapped.
const SpellHotswapVisual uint32 = 40162

// AIHolder is an entity whose behaviour object comes from a script.
type AIHolder interface {
	GUID() GUID
	ScriptID() uint32
	HasAI() bool
	IsAlive() bool
	AIMCreate() bool
	AIMDestroy() bool
	// AIGeneration is the script generation the current behaviour object
	// was created in.
	AIGeneration() uint64
	// UnloadReset drives the entity into a neutral state before its
	// behaviour object is destroyed.
	UnloadReset()
	// LoadInitialize creates a behaviour object for an entity without one.
	LoadInitialize()
	// LoadReset initializes a freshly created behaviour object.
	LoadReset()
}

type CreatureAI interface {
	InitializeAI()
	Reset()
	UpdateAI(diff time.Duration)
	EnterCombat(victim GUID)
	EnterEvadeMode()
	JustDied(killer GUID)
	JustSummoned(summon *Creature)
	SummonedCreatureDespawn(summon *Creature)
}

type GameObjectAI interface {
	InitializeAI()
	Reset()
	UpdateAI(diff time.Duration)
}

// AIFactory creates behaviour objects for entities, from their bound script
// or a default.
type AIFactory interface {
	CreatureAI(c *Creature) CreatureAI
	GameObjectAI(g *GameObject) GameObjectAI
	Generation() uint64
}

// NullCreatureAI is used for creatures without a script.
type NullCreatureAI struct {
	Me *Creature
}

func (n *NullCreatureAI) InitializeAI()                     {}
func (n *NullCreatureAI) Reset()                            {}
func (n *NullCreatureAI) UpdateAI(time.Duration)            {}
func (n *NullCreatureAI) EnterCombat(GUID)                  {}
func (n *NullCreatureAI) JustDied(GUID)                     {}
func (n *NullCreatureAI) JustSummoned(*Creature)            {}
func (n *NullCreatureAI) SummonedCreatureDespawn(*Creature) {}

func (n *NullCreatureAI) EnterEvadeMode() {
	n.Me.CombatStop()
}

type NullGameObjectAI struct{}

func (NullGameObjectAI) InitializeAI()          {}
func (NullGameObjectAI) Reset()                 {}
func (NullGameObjectAI) UpdateAI(time.Duration) {}

// DefaultAIs creates null behaviour objects for everything.
type DefaultAIs struct{}

func (DefaultAIs) CreatureAI(c *Creature) CreatureAI {
	return &NullCreatureAI{Me: c}
}

func (DefaultAIs) GameObjectAI(*GameObject) GameObjectAI {
	return NullGameObjectAI{}
}

func (DefaultAIs) Generation() uint64 {
	return 0
}

type Player struct {
	GUID  GUID
	Name  string
	Level uint8
	Team  uint8
	Money uint32
	XP    uint32
	MapID uint32
	Zone  uint32
}

type Item struct {
	GUID     GUID
	Entry    uint32
	ScriptID uint32
}

type Quest struct {
	ID    uint32
	Title string
	XP    uint32
	Money uint32
}

type AreaTrigger struct {
	ID       uint32
	ScriptID uint32
}

type Weather struct {
	Zone     uint32
	ScriptID uint32
	State    uint32
	Grade    float32
}

type Battleground struct {
	TypeID   uint32
	ScriptID uint32
}

// SpellEffect is one effect slot of a spell.
type SpellEffect struct {
	Effect  uint8
	TargetA uint8
}

type SpellInfo struct {
	ID      uint32
	Name    string
	Effects []SpellEffect
}

// SpellStore is the spell data the scripting core consults.
type SpellStore interface {
	Spell(id uint32) (*SpellInfo, bool)
	Spells() []*SpellInfo
}

// Spells is an in-memory SpellStore.
type Spells map[uint32]*SpellInfo

func (s Spells) Spell(id uint32) (*SpellInfo, bool) {
	info, found := s[id]
	return info, found
}

func (s Spells) Spells() []*SpellInfo {
	result := make([]*SpellInfo, 0, len(s))
	for _, info := range s {
		result = append(result, info)
	}
	return result
}
