package scripts

import (
	"time"

	"github.com/zond/scriptcore/world"
)

type ServerScript interface {
	Script
	OnNetworkStart()
	OnNetworkStop()
	OnSocketOpen(remote string)
	OnSocketClose(remote string)
}

type ServerBase struct {
	Base
}

func (*ServerBase) Kind() Kind           { return KindServer }
func (*ServerBase) OnNetworkStart()      {}
func (*ServerBase) OnNetworkStop()       {}
func (*ServerBase) OnSocketOpen(string)  {}
func (*ServerBase) OnSocketClose(string) {}

type WorldScript interface {
	Script
	OnOpenStateChange(open bool)
	OnConfigLoad(reload bool)
	OnStartup()
	OnShutdown()
	OnUpdate(diff time.Duration)
}

type WorldBase struct {
	Base
}

func (*WorldBase) Kind() Kind             { return KindWorld }
func (*WorldBase) OnOpenStateChange(bool) {}
func (*WorldBase) OnConfigLoad(bool)      {}
func (*WorldBase) OnStartup()             {}
func (*WorldBase) OnShutdown()            {}
func (*WorldBase) OnUpdate(time.Duration) {}

type FormulaScript interface {
	Script
	OnGroupRateCalculation(rate *float32, count uint32, isRaid bool)
	OnGainCalculation(gain *uint32, p *world.Player, victimLevel uint8)
}

type FormulaBase struct {
	Base
}

func (*FormulaBase) Kind() Kind                                      { return KindFormula }
func (*FormulaBase) OnGroupRateCalculation(*float32, uint32, bool)   {}
func (*FormulaBase) OnGainCalculation(*uint32, *world.Player, uint8) {}

type PlayerScript interface {
	Script
	OnLogin(p *world.Player)
	OnLogout(p *world.Player)
	OnLevelChanged(p *world.Player, oldLevel uint8)
	OnMoneyChanged(p *world.Player, amount *int32)
	OnGiveXP(p *world.Player, amount *uint32)
	OnChat(p *world.Player, msg string)
	// OnBeforeTeleport returns false to veto the teleport.
	OnBeforeTeleport(p *world.Player, mapID uint32) bool
	// CanJoinInBattlegroundQueue returns false to veto queueing.
	CanJoinInBattlegroundQueue(p *world.Player, bgTypeID uint32) bool
	// ShouldBeRewardedWithMoneyInsteadOfExp returns true to convert the
	// reward.
	ShouldBeRewardedWithMoneyInsteadOfExp(p *world.Player) bool
}

type PlayerBase struct {
	Base
}

func (*PlayerBase) Kind() Kind                                            { return KindPlayer }
func (*PlayerBase) OnLogin(*world.Player)                                 {}
func (*PlayerBase) OnLogout(*world.Player)                                {}
func (*PlayerBase) OnLevelChanged(*world.Player, uint8)                   {}
func (*PlayerBase) OnMoneyChanged(*world.Player, *int32)                  {}
func (*PlayerBase) OnGiveXP(*world.Player, *uint32)                       {}
func (*PlayerBase) OnChat(*world.Player, string)                          {}
func (*PlayerBase) OnBeforeTeleport(*world.Player, uint32) bool           { return true }
func (*PlayerBase) CanJoinInBattlegroundQueue(*world.Player, uint32) bool { return true }
func (*PlayerBase) ShouldBeRewardedWithMoneyInsteadOfExp(*world.Player) bool {
	return false
}

type AllCreatureScript interface {
	Script
	OnAllCreatureUpdate(c *world.Creature, diff time.Duration)
	OnCreatureAddWorld(c *world.Creature)
}

type AllCreatureBase struct {
	Base
}

func (*AllCreatureBase) Kind() Kind                                         { return KindAllCreature }
func (*AllCreatureBase) OnAllCreatureUpdate(*world.Creature, time.Duration) {}
func (*AllCreatureBase) OnCreatureAddWorld(*world.Creature)                 {}

type CommandScript interface {
	Script
	Commands() []ChatCommand
}

type CommandBase struct {
	Base
}

func (*CommandBase) Kind() Kind              { return KindCommand }
func (*CommandBase) Commands() []ChatCommand { return nil }
