package scriptmgr

import (
	"iter"
	"time"

	"github.com/zond/scriptcore/registry"
	"github.com/zond/scriptcore/scripts"
	"github.com/zond/scriptcore/world"
)

// broadcast calls f for every script, in registration order.
func broadcast[T any](all iter.Seq[T], f func(T)) {
	for s := range all {
		f(s)
	}
}

// firstBound calls f for the script bound to id, or returns def if there
// is none.
func firstBound[T registry.Script, R any](r *registry.Bound[T], id uint32, def R, f func(T) R) R {
	s, found := r.ScriptByID(id)
	if !found {
		return def
	}
	return f(s)
}

// withBound calls f for the script bound to id, if any.
func withBound[T registry.Script](r *registry.Bound[T], id uint32, f func(T)) {
	if s, found := r.ScriptByID(id); found {
		f(s)
	}
}

// vetoChain calls f for every script and returns false if any of them did.
// No scripts means true.
func vetoChain[T any](all iter.Seq[T], f func(T) bool) bool {
	result := true
	for s := range all {
		if !f(s) {
			result = false
		}
	}
	return result
}

// anyTrue calls f for every script and returns true if any of them did.
// No scripts means false.
func anyTrue[T any](all iter.Seq[T], f func(T) bool) bool {
	result := false
	for s := range all {
		if f(s) {
			result = true
		}
	}
	return result
}

// ServerScript

func (m *Mgr) OnNetworkStart() {
	broadcast(m.server.All(), scripts.ServerScript.OnNetworkStart)
}

func (m *Mgr) OnNetworkStop() {
	broadcast(m.server.All(), scripts.ServerScript.OnNetworkStop)
}

func (m *Mgr) OnSocketOpen(remote string) {
	broadcast(m.server.All(), func(s scripts.ServerScript) { s.OnSocketOpen(remote) })
}

func (m *Mgr) OnSocketClose(remote string) {
	broadcast(m.server.All(), func(s scripts.ServerScript) { s.OnSocketClose(remote) })
}

// WorldScript

func (m *Mgr) OnOpenStateChange(open bool) {
	broadcast(m.world.All(), func(s scripts.WorldScript) { s.OnOpenStateChange(open) })
}

func (m *Mgr) OnConfigLoad(reload bool) {
	broadcast(m.world.All(), func(s scripts.WorldScript) { s.OnConfigLoad(reload) })
}

func (m *Mgr) OnStartup() {
	broadcast(m.world.All(), scripts.WorldScript.OnStartup)
}

func (m *Mgr) OnShutdown() {
	broadcast(m.world.All(), scripts.WorldScript.OnShutdown)
}

func (m *Mgr) OnWorldUpdate(diff time.Duration) {
	broadcast(m.world.All(), func(s scripts.WorldScript) { s.OnUpdate(diff) })
}

// FormulaScript

func (m *Mgr) OnGroupRateCalculation(rate *float32, count uint32, isRaid bool) {
	broadcast(m.formula.All(), func(s scripts.FormulaScript) { s.OnGroupRateCalculation(rate, count, isRaid) })
}

func (m *Mgr) OnGainCalculation(gain *uint32, p *world.Player, victimLevel uint8) {
	broadcast(m.formula.All(), func(s scripts.FormulaScript) { s.OnGainCalculation(gain, p, victimLevel) })
}

// PlayerScript

func (m *Mgr) OnPlayerLogin(p *world.Player) {
	broadcast(m.player.All(), func(s scripts.PlayerScript) { s.OnLogin(p) })
}

func (m *Mgr) OnPlayerLogout(p *world.Player) {
	broadcast(m.player.All(), func(s scripts.PlayerScript) { s.OnLogout(p) })
}

func (m *Mgr) OnPlayerLevelChanged(p *world.Player, oldLevel uint8) {
	broadcast(m.player.All(), func(s scripts.PlayerScript) { s.OnLevelChanged(p, oldLevel) })
}

func (m *Mgr) OnPlayerMoneyChanged(p *world.Player, amount *int32) {
	broadcast(m.player.All(), func(s scripts.PlayerScript) { s.OnMoneyChanged(p, amount) })
}

func (m *Mgr) OnGivePlayerXP(p *world.Player, amount *uint32) {
	broadcast(m.player.All(), func(s scripts.PlayerScript) { s.OnGiveXP(p, amount) })
}

func (m *Mgr) OnPlayerChat(p *world.Player, msg string) {
	broadcast(m.player.All(), func(s scripts.PlayerScript) { s.OnChat(p, msg) })
}

func (m *Mgr) OnBeforePlayerTeleport(p *world.Player, mapID uint32) bool {
	return vetoChain(m.player.All(), func(s scripts.PlayerScript) bool {
		return s.OnBeforeTeleport(p, mapID)
	})
}

func (m *Mgr) CanJoinInBattlegroundQueue(p *world.Player, bgTypeID uint32) bool {
	return vetoChain(m.player.All(), func(s scripts.PlayerScript) bool {
		return s.CanJoinInBattlegroundQueue(p, bgTypeID)
	})
}

func (m *Mgr) ShouldBeRewardedWithMoneyInsteadOfExp(p *world.Player) bool {
	return anyTrue(m.player.All(), func(s scripts.PlayerScript) bool {
		return s.ShouldBeRewardedWithMoneyInsteadOfExp(p)
	})
}

// CreatureScript and AllCreatureScript

// CreatureAI creates the behaviour object of c from its bound script, or a
// null AI.
func (m *Mgr) CreatureAI(c *world.Creature) world.CreatureAI {
	if ai := firstBound(m.creature, c.ScriptID(), world.CreatureAI(nil), func(s scripts.CreatureScript) world.CreatureAI {
		return s.GetAI(c)
	}); ai != nil {
		return ai
	}
	return &world.NullCreatureAI{Me: c}
}

func (m *Mgr) OnGossipHello(p *world.Player, c *world.Creature) bool {
	return firstBound(m.creature, c.ScriptID(), false, func(s scripts.CreatureScript) bool {
		return s.OnGossipHello(p, c)
	})
}

func (m *Mgr) OnGossipSelect(p *world.Player, c *world.Creature, sender, action uint32) bool {
	return firstBound(m.creature, c.ScriptID(), false, func(s scripts.CreatureScript) bool {
		return s.OnGossipSelect(p, c, sender, action)
	})
}

func (m *Mgr) OnQuestAccept(p *world.Player, c *world.Creature, q *world.Quest) bool {
	return firstBound(m.creature, c.ScriptID(), false, func(s scripts.CreatureScript) bool {
		return s.OnQuestAccept(p, c, q)
	})
}

func (m *Mgr) OnQuestReward(p *world.Player, c *world.Creature, q *world.Quest, opt uint32) bool {
	return firstBound(m.creature, c.ScriptID(), false, func(s scripts.CreatureScript) bool {
		return s.OnQuestReward(p, c, q, opt)
	})
}

func (m *Mgr) GetDialogStatus(p *world.Player, c *world.Creature) scripts.DialogStatus {
	return firstBound(m.creature, c.ScriptID(), scripts.DialogStatusScriptedNoStatus, func(s scripts.CreatureScript) scripts.DialogStatus {
		return s.GetDialogStatus(p, c)
	})
}

func (m *Mgr) OnCreatureUpdate(c *world.Creature, diff time.Duration) {
	broadcast(m.allCreature.All(), func(s scripts.AllCreatureScript) { s.OnAllCreatureUpdate(c, diff) })
	withBound(m.creature, c.ScriptID(), func(s scripts.CreatureScript) { s.OnUpdate(c, diff) })
}

func (m *Mgr) OnCreatureAddWorld(c *world.Creature) {
	broadcast(m.allCreature.All(), func(s scripts.AllCreatureScript) { s.OnCreatureAddWorld(c) })
}

// GameObjectScript

func (m *Mgr) GameObjectAI(g *world.GameObject) world.GameObjectAI {
	if ai := firstBound(m.gameObject, g.ScriptID(), world.GameObjectAI(nil), func(s scripts.GameObjectScript) world.GameObjectAI {
		return s.GetAI(g)
	}); ai != nil {
		return ai
	}
	return world.NullGameObjectAI{}
}

func (m *Mgr) OnGameObjectGossipHello(p *world.Player, g *world.GameObject) bool {
	return firstBound(m.gameObject, g.ScriptID(), false, func(s scripts.GameObjectScript) bool {
		return s.OnGossipHello(p, g)
	})
}

func (m *Mgr) OnGameObjectQuestAccept(p *world.Player, g *world.GameObject, q *world.Quest) bool {
	return firstBound(m.gameObject, g.ScriptID(), false, func(s scripts.GameObjectScript) bool {
		return s.OnQuestAccept(p, g, q)
	})
}

func (m *Mgr) GetGameObjectDialogStatus(p *world.Player, g *world.GameObject) scripts.DialogStatus {
	return firstBound(m.gameObject, g.ScriptID(), scripts.DialogStatusScriptedNoStatus, func(s scripts.GameObjectScript) scripts.DialogStatus {
		return s.GetDialogStatus(p, g)
	})
}

func (m *Mgr) OnGameObjectDestroyed(g *world.GameObject, p *world.Player) {
	withBound(m.gameObject, g.ScriptID(), func(s scripts.GameObjectScript) { s.OnDestroyed(g, p) })
}

func (m *Mgr) OnGameObjectUpdate(g *world.GameObject, diff time.Duration) {
	withBound(m.gameObject, g.ScriptID(), func(s scripts.GameObjectScript) { s.OnUpdate(g, diff) })
}

// ItemScript

func (m *Mgr) OnItemUse(p *world.Player, item *world.Item) bool {
	return firstBound(m.item, item.ScriptID, false, func(s scripts.ItemScript) bool {
		return s.OnUse(p, item)
	})
}

func (m *Mgr) OnItemQuestAccept(p *world.Player, item *world.Item, q *world.Quest) bool {
	return firstBound(m.item, item.ScriptID, false, func(s scripts.ItemScript) bool {
		return s.OnQuestAccept(p, item, q)
	})
}

func (m *Mgr) OnItemExpire(p *world.Player, item *world.Item) bool {
	return firstBound(m.item, item.ScriptID, false, func(s scripts.ItemScript) bool {
		return s.OnExpire(p, item)
	})
}

func (m *Mgr) OnItemRemove(p *world.Player, item *world.Item) bool {
	return firstBound(m.item, item.ScriptID, false, func(s scripts.ItemScript) bool {
		return s.OnRemove(p, item)
	})
}

func (m *Mgr) OnCastItemCombatSpell(p *world.Player, victim world.GUID, spellID uint32, item *world.Item) bool {
	return firstBound(m.item, item.ScriptID, true, func(s scripts.ItemScript) bool {
		return s.OnCastItemCombatSpell(p, victim, spellID, item)
	})
}

// AreaTriggerScript

func (m *Mgr) OnAreaTrigger(p *world.Player, at *world.AreaTrigger) bool {
	return firstBound(m.areaTrigger, at.ScriptID, false, func(s scripts.AreaTriggerScript) bool {
		return s.OnTrigger(p, at)
	})
}

// BattlegroundScript

func (m *Mgr) OnBattlegroundStart(bg *world.Battleground) {
	withBound(m.battleground, bg.ScriptID, func(s scripts.BattlegroundScript) { s.OnStart(bg) })
}

func (m *Mgr) OnBattlegroundEnd(bg *world.Battleground, winner uint8) {
	withBound(m.battleground, bg.ScriptID, func(s scripts.BattlegroundScript) { s.OnEnd(bg, winner) })
}

// OutdoorPvPScript

func (m *Mgr) CreateOutdoorPvP(scriptID uint32) world.OutdoorPvP {
	return firstBound(m.outdoorPvPScripts, scriptID, world.OutdoorPvP(nil), func(s scripts.OutdoorPvPScript) world.OutdoorPvP {
		return s.GetOutdoorPvP()
	})
}

// InstanceMapScript

func (m *Mgr) CreateInstanceScript(mp *world.Map) world.InstanceScript {
	return firstBound(m.instanceMap, mp.ScriptID(), world.InstanceScript(nil), func(s scripts.InstanceMapScript) world.InstanceScript {
		return s.GetInstanceScript(mp)
	})
}

// CreateInstanceMap creates the map and gives it the instance script of
// its bound InstanceMapScript.
func (m *Mgr) CreateInstanceMap(id uint32, scriptName string) *world.Map {
	mp := m.maps.CreateMap(id, m.scriptID(scriptName))
	if mp.Instance() == nil {
		if instance := m.CreateInstanceScript(mp); instance != nil {
			mp.SetInstance(instance)
		}
	}
	return mp
}

// WeatherScript

func (m *Mgr) OnWeatherChange(w *world.Weather, state uint32, grade float32) {
	withBound(m.weather, w.ScriptID, func(s scripts.WeatherScript) { s.OnChange(w, state, grade) })
}

func (m *Mgr) OnWeatherUpdate(w *world.Weather, diff time.Duration) {
	withBound(m.weather, w.ScriptID, func(s scripts.WeatherScript) { s.OnUpdate(w, diff) })
}

// ConditionScript

func (m *Mgr) OnConditionCheck(cond *scripts.Condition, source scripts.ConditionSource) bool {
	return firstBound(m.condition, cond.ScriptID, true, func(s scripts.ConditionScript) bool {
		return s.OnConditionCheck(cond, source)
	})
}

// AchievementCriteriaScript

func (m *Mgr) OnCriteriaCheck(scriptID uint32, p *world.Player, target world.GUID) bool {
	return firstBound(m.achievementCriteria, scriptID, false, func(s scripts.AchievementCriteriaScript) bool {
		return s.OnCheck(p, target)
	})
}
