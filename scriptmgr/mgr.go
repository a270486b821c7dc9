// Package scriptmgr is the single entry point the simulation calls into for
// scriptable events. It owns one registry per script kind and the load,
// unload and hot swap lifecycle of the scripts in them.
package scriptmgr

import (
	"log"

	"github.com/zond/scriptcore"
	"github.com/zond/scriptcore/registry"
	"github.com/zond/scriptcore/scripts"
	"github.com/zond/scriptcore/world"
)

// IDSource is the content database as seen by the script manager.
type IDSource interface {
	registry.IDSource
	// AllScriptNames returns every script name the database references.
	AllScriptNames() []string
	// SpellScriptBindings returns the spell script bindings of spellID in
	// database order.
	SpellScriptBindings(spellID uint32) []SpellScriptBinding
}

type SpellScriptBinding struct {
	ScriptID uint32
	Enabled  bool
}

// ReloadMgr loads and reloads the dynamic script contexts.
type ReloadMgr interface {
	// Initialize registers the scripts of every dynamic context.
	Initialize() error
	// Request schedules a reload of context.
	Request(context string) error
}

type Options struct {
	IDs        IDSource
	Logger     registry.Logger
	Maps       *world.Maps
	OutdoorPvP *world.OutdoorPvPMgr
	Spells     world.SpellStore
}

type Mgr struct {
	host       *registry.Compositum
	ids        IDSource
	logger     registry.Logger
	loader     func(*Mgr)
	reload     ReloadMgr
	maps       *world.Maps
	outdoorPvP *world.OutdoorPvPMgr
	spells     world.SpellStore

	spellSummary   map[uint32]SpellSummary
	disabledSpells map[spellBinding]bool
	spellChecks    int
	commandTable   []scripts.ChatCommand

	creature            *registry.Bound[scripts.CreatureScript]
	gameObject          *registry.Bound[scripts.GameObjectScript]
	item                *registry.Bound[scripts.ItemScript]
	spellLoader         *registry.Bound[scripts.SpellScriptLoader]
	instanceMap         *registry.Bound[scripts.InstanceMapScript]
	areaTrigger         *registry.Bound[scripts.AreaTriggerScript]
	battleground        *registry.Bound[scripts.BattlegroundScript]
	outdoorPvPScripts   *registry.Bound[scripts.OutdoorPvPScript]
	weather             *registry.Bound[scripts.WeatherScript]
	condition           *registry.Bound[scripts.ConditionScript]
	achievementCriteria *registry.Bound[scripts.AchievementCriteriaScript]
	server              *registry.Unbound[scripts.ServerScript]
	world               *registry.Unbound[scripts.WorldScript]
	formula             *registry.Unbound[scripts.FormulaScript]
	player              *registry.Unbound[scripts.PlayerScript]
	allCreature         *registry.Unbound[scripts.AllCreatureScript]
	command             *registry.Unbound[scripts.CommandScript]
}

func New(opts Options) *Mgr {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Maps == nil {
		opts.Maps = world.NewMaps(nil)
	}
	if opts.OutdoorPvP == nil {
		opts.OutdoorPvP = world.NewOutdoorPvPMgr(nil)
	}
	m := &Mgr{
		host:           registry.NewCompositum(opts.IDs, opts.Logger),
		ids:            opts.IDs,
		logger:         opts.Logger,
		maps:           opts.Maps,
		outdoorPvP:     opts.OutdoorPvP,
		spells:         opts.Spells,
		disabledSpells: map[spellBinding]bool{},
	}
	m.maps.SetAIFactory(m)
	m.outdoorPvP.SetFactory(m)

	m.spellLoader = registry.NewBound[scripts.SpellScriptLoader](m.host, string(scripts.KindSpellLoader), &spellLoaderHooks{m: m})
	m.instanceMap = registry.NewBound[scripts.InstanceMapScript](m.host, string(scripts.KindInstanceMap), &instanceMapHooks{})
	m.item = registry.NewBound[scripts.ItemScript](m.host, string(scripts.KindItem), nil)
	m.creature = registry.NewBound[scripts.CreatureScript](m.host, string(scripts.KindCreature), newEntityHooks(m.maps, creatures))
	m.gameObject = registry.NewBound[scripts.GameObjectScript](m.host, string(scripts.KindGameObject), newEntityHooks(m.maps, gameObjects))
	m.areaTrigger = registry.NewBound[scripts.AreaTriggerScript](m.host, string(scripts.KindAreaTrigger), nil)
	m.battleground = registry.NewBound[scripts.BattlegroundScript](m.host, string(scripts.KindBattleground), registry.UnsupportedHooks{})
	m.outdoorPvPScripts = registry.NewBound[scripts.OutdoorPvPScript](m.host, string(scripts.KindOutdoorPvP), &outdoorPvPHooks{mgr: m.outdoorPvP})
	m.weather = registry.NewBound[scripts.WeatherScript](m.host, string(scripts.KindWeather), nil)
	m.condition = registry.NewBound[scripts.ConditionScript](m.host, string(scripts.KindCondition), nil)
	m.achievementCriteria = registry.NewBound[scripts.AchievementCriteriaScript](m.host, string(scripts.KindAchievementCriteria), nil)
	m.server = registry.NewUnbound[scripts.ServerScript](m.host, string(scripts.KindServer), nil)
	m.world = registry.NewUnbound[scripts.WorldScript](m.host, string(scripts.KindWorld), nil)
	m.formula = registry.NewUnbound[scripts.FormulaScript](m.host, string(scripts.KindFormula), nil)
	m.player = registry.NewUnbound[scripts.PlayerScript](m.host, string(scripts.KindPlayer), nil)
	m.allCreature = registry.NewUnbound[scripts.AllCreatureScript](m.host, string(scripts.KindAllCreature), nil)
	m.command = registry.NewUnbound[scripts.CommandScript](m.host, string(scripts.KindCommand), &commandHooks{m: m})
	return m
}

func addAs[T scripts.Script](s scripts.Script, add func(T)) {
	typed, ok := s.(T)
	if !ok {
		scriptcore.Abortf("Script %q claims to be a %s but doesn't implement it", s.Name(), s.Kind())
	}
	add(typed)
}

// AddScript hands s to the registry of its kind, under the current script
// context.
func (m *Mgr) AddScript(s scripts.Script) {
	switch s.Kind() {
	case scripts.KindCreature:
		addAs(s, m.creature.AddScript)
	case scripts.KindGameObject:
		addAs(s, m.gameObject.AddScript)
	case scripts.KindItem:
		addAs(s, m.item.AddScript)
	case scripts.KindSpellLoader:
		addAs(s, m.spellLoader.AddScript)
	case scripts.KindInstanceMap:
		addAs(s, m.instanceMap.AddScript)
	case scripts.KindAreaTrigger:
		addAs(s, m.areaTrigger.AddScript)
	case scripts.KindBattleground:
		addAs(s, m.battleground.AddScript)
	case scripts.KindOutdoorPvP:
		addAs(s, m.outdoorPvPScripts.AddScript)
	case scripts.KindWeather:
		addAs(s, m.weather.AddScript)
	case scripts.KindCondition:
		addAs(s, m.condition.AddScript)
	case scripts.KindAchievementCriteria:
		addAs(s, m.achievementCriteria.AddScript)
	case scripts.KindServer:
		addAs(s, m.server.AddScript)
	case scripts.KindWorld:
		addAs(s, m.world.AddScript)
	case scripts.KindFormula:
		addAs(s, m.formula.AddScript)
	case scripts.KindPlayer:
		addAs(s, m.player.AddScript)
	case scripts.KindAllCreature:
		addAs(s, m.allCreature.AddScript)
	case scripts.KindCommand:
		addAs(s, m.command.AddScript)
	default:
		scriptcore.Abortf("Script %q has unknown kind %q", s.Name(), s.Kind())
	}
}

func (m *Mgr) Maps() *world.Maps {
	return m.maps
}

func (m *Mgr) OutdoorPvP() *world.OutdoorPvPMgr {
	return m.outdoorPvP
}

func (m *Mgr) SetReloadMgr(reload ReloadMgr) {
	m.reload = reload
}

func (m *Mgr) ScriptCount() int {
	return m.host.ScriptCount()
}

func (m *Mgr) Generation() uint64 {
	return m.host.Generation()
}

// PendingDeletes returns the number of released scripts waiting for the
// next swap to be deleted.
func (m *Mgr) PendingDeletes() int {
	return m.host.PendingDeletes()
}

// CurrentAIs counts the entities with a behaviour object created in the
// current generation, and the entities with one at all.
func (m *Mgr) CurrentAIs() (current int, total int) {
	generation := m.Generation()
	m.maps.DoForAllMaps(func(mp *world.Map) {
		for _, h := range mp.AIHolders() {
			if !h.HasAI() {
				continue
			}
			total++
			if h.AIGeneration() == generation {
				current++
			}
		}
	})
	return current, total
}

func (m *Mgr) ContextOfScriptName(name string) (string, bool) {
	return m.host.ContextOfScriptName(name)
}

// Contexts returns every context currently owning scripts.
func (m *Mgr) Contexts() []string {
	return m.host.Contexts()
}

// CreatureScriptByID is exposed for diagnostics.
func (m *Mgr) CreatureScriptByID(id uint32) (scripts.CreatureScript, bool) {
	return m.creature.ScriptByID(id)
}

func (m *Mgr) scriptID(name string) uint32 {
	if m.ids == nil {
		return 0
	}
	return m.ids.ScriptID(name)
}
