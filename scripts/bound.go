package scripts

import (
	"time"

	"github.com/zond/scriptcore/world"
)

type CreatureScript interface {
	Script
	// GetAI returns nil to use the default AI.
	GetAI(c *world.Creature) world.CreatureAI
	OnGossipHello(p *world.Player, c *world.Creature) bool
	OnGossipSelect(p *world.Player, c *world.Creature, sender, action uint32) bool
	OnQuestAccept(p *world.Player, c *world.Creature, q *world.Quest) bool
	OnQuestReward(p *world.Player, c *world.Creature, q *world.Quest, opt uint32) bool
	GetDialogStatus(p *world.Player, c *world.Creature) DialogStatus
	OnUpdate(c *world.Creature, diff time.Duration)
}

type CreatureBase struct {
	Base
}

func (*CreatureBase) Kind() Kind                             { return KindCreature }
func (*CreatureBase) GetAI(*world.Creature) world.CreatureAI { return nil }
func (*CreatureBase) OnGossipHello(*world.Player, *world.Creature) bool {
	return false
}
func (*CreatureBase) OnGossipSelect(*world.Player, *world.Creature, uint32, uint32) bool {
	return false
}
func (*CreatureBase) OnQuestAccept(*world.Player, *world.Creature, *world.Quest) bool {
	return false
}
func (*CreatureBase) OnQuestReward(*world.Player, *world.Creature, *world.Quest, uint32) bool {
	return false
}
func (*CreatureBase) GetDialogStatus(*world.Player, *world.Creature) DialogStatus {
	return DialogStatusScriptedNoStatus
}
func (*CreatureBase) OnUpdate(*world.Creature, time.Duration) {}

type GameObjectScript interface {
	Script
	GetAI(g *world.GameObject) world.GameObjectAI
	OnGossipHello(p *world.Player, g *world.GameObject) bool
	OnQuestAccept(p *world.Player, g *world.GameObject, q *world.Quest) bool
	GetDialogStatus(p *world.Player, g *world.GameObject) DialogStatus
	OnDestroyed(g *world.GameObject, p *world.Player)
	OnUpdate(g *world.GameObject, diff time.Duration)
}

type GameObjectBase struct {
	Base
}

func (*GameObjectBase) Kind() Kind                                 { return KindGameObject }
func (*GameObjectBase) GetAI(*world.GameObject) world.GameObjectAI { return nil }
func (*GameObjectBase) OnGossipHello(*world.Player, *world.GameObject) bool {
	return false
}
func (*GameObjectBase) OnQuestAccept(*world.Player, *world.GameObject, *world.Quest) bool {
	return false
}
func (*GameObjectBase) GetDialogStatus(*world.Player, *world.GameObject) DialogStatus {
	return DialogStatusScriptedNoStatus
}
func (*GameObjectBase) OnDestroyed(*world.GameObject, *world.Player) {}
func (*GameObjectBase) OnUpdate(*world.GameObject, time.Duration)    {}

type ItemScript interface {
	Script
	OnUse(p *world.Player, item *world.Item) bool
	OnQuestAccept(p *world.Player, item *world.Item, q *world.Quest) bool
	OnExpire(p *world.Player, item *world.Item) bool
	OnRemove(p *world.Player, item *world.Item) bool
	// OnCastItemCombatSpell returns false to prevent the cast.
	OnCastItemCombatSpell(p *world.Player, victim world.GUID, spellID uint32, item *world.Item) bool
}

type ItemBase struct {
	Base
}

func (*ItemBase) Kind() Kind                                                  { return KindItem }
func (*ItemBase) OnUse(*world.Player, *world.Item) bool                       { return false }
func (*ItemBase) OnQuestAccept(*world.Player, *world.Item, *world.Quest) bool { return false }
func (*ItemBase) OnExpire(*world.Player, *world.Item) bool                    { return false }
func (*ItemBase) OnRemove(*world.Player, *world.Item) bool                    { return false }
func (*ItemBase) OnCastItemCombatSpell(*world.Player, world.GUID, uint32, *world.Item) bool {
	return true
}

// SpellScript is created per cast by a SpellScriptLoader.
type SpellScript interface {
	Init(scriptName string, spellID uint32)
	// Load returns false to discard the script for this cast.
	Load() bool
}

// AuraScript is created per aura application by a SpellScriptLoader.
type AuraScript interface {
	Init(scriptName string, spellID uint32)
	Load() bool
}

// SpellScriptBase is embedded by SpellScript and AuraScript implementations.
type SpellScriptBase struct {
	ScriptName string
	SpellID    uint32
}

func (s *SpellScriptBase) Init(scriptName string, spellID uint32) {
	s.ScriptName = scriptName
	s.SpellID = spellID
}

func (s *SpellScriptBase) Load() bool {
	return true
}

type SpellScriptLoader interface {
	Script
	// GetSpellScript and GetAuraScript return nil if the loader has none.
	GetSpellScript() SpellScript
	GetAuraScript() AuraScript
}

type SpellLoaderBase struct {
	Base
}

func (*SpellLoaderBase) Kind() Kind                  { return KindSpellLoader }
func (*SpellLoaderBase) GetSpellScript() SpellScript { return nil }
func (*SpellLoaderBase) GetAuraScript() AuraScript   { return nil }

type InstanceMapScript interface {
	Script
	GetInstanceScript(m *world.Map) world.InstanceScript
}

type InstanceMapBase struct {
	Base
}

func (*InstanceMapBase) Kind() Kind                                        { return KindInstanceMap }
func (*InstanceMapBase) GetInstanceScript(*world.Map) world.InstanceScript { return nil }

type AreaTriggerScript interface {
	Script
	OnTrigger(p *world.Player, at *world.AreaTrigger) bool
}

type AreaTriggerBase struct {
	Base
}

func (*AreaTriggerBase) Kind() Kind                                       { return KindAreaTrigger }
func (*AreaTriggerBase) OnTrigger(*world.Player, *world.AreaTrigger) bool { return false }

type BattlegroundScript interface {
	Script
	OnStart(bg *world.Battleground)
	OnEnd(bg *world.Battleground, winner uint8)
}

type BattlegroundBase struct {
	Base
}

func (*BattlegroundBase) Kind() Kind                       { return KindBattleground }
func (*BattlegroundBase) OnStart(*world.Battleground)      {}
func (*BattlegroundBase) OnEnd(*world.Battleground, uint8) {}

type OutdoorPvPScript interface {
	Script
	GetOutdoorPvP() world.OutdoorPvP
}

type OutdoorPvPBase struct {
	Base
}

func (*OutdoorPvPBase) Kind() Kind                      { return KindOutdoorPvP }
func (*OutdoorPvPBase) GetOutdoorPvP() world.OutdoorPvP { return nil }

type WeatherScript interface {
	Script
	OnChange(w *world.Weather, state uint32, grade float32)
	OnUpdate(w *world.Weather, diff time.Duration)
}

type WeatherBase struct {
	Base
}

func (*WeatherBase) Kind() Kind                               { return KindWeather }
func (*WeatherBase) OnChange(*world.Weather, uint32, float32) {}
func (*WeatherBase) OnUpdate(*world.Weather, time.Duration)   {}

// Condition is a scripted condition row.
type Condition struct {
	ScriptID uint32
	Type     uint32
	Value    uint32
}

type ConditionSource struct {
	Player *world.Player
	Target world.GUID
}

type ConditionScript interface {
	Script
	OnConditionCheck(cond *Condition, source ConditionSource) bool
}

type ConditionBase struct {
	Base
}

func (*ConditionBase) Kind() Kind                                        { return KindCondition }
func (*ConditionBase) OnConditionCheck(*Condition, ConditionSource) bool { return true }

type AchievementCriteriaScript interface {
	Script
	OnCheck(p *world.Player, target world.GUID) bool
}

type AchievementCriteriaBase struct {
	Base
}

func (*AchievementCriteriaBase) Kind() Kind                             { return KindAchievementCriteria }
func (*AchievementCriteriaBase) OnCheck(*world.Player, world.GUID) bool { return false }
