// Package scripts defines one capability interface per script kind, and a
// base for each that content scripts embed to get default hook bodies.
package scripts

import (
	"io"
)

type Kind string

const (
	KindCreature            Kind = "CreatureScript"
	KindGameObject          Kind = "GameObjectScript"
	KindItem                Kind = "ItemScript"
	KindSpellLoader         Kind = "SpellScriptLoader"
	KindInstanceMap         Kind = "InstanceMapScript"
	KindAreaTrigger         Kind = "AreaTriggerScript"
	KindBattleground        Kind = "BattlegroundScript"
	KindOutdoorPvP          Kind = "OutdoorPvPScript"
	KindWeather             Kind = "WeatherScript"
	KindCondition           Kind = "ConditionScript"
	KindAchievementCriteria Kind = "AchievementCriteriaScript"
	KindServer              Kind = "ServerScript"
	KindWorld               Kind = "WorldScript"
	KindFormula             Kind = "FormulaScript"
	KindPlayer              Kind = "PlayerScript"
	KindAllCreature         Kind = "AllCreatureScript"
	KindCommand             Kind = "CommandScript"
)

// DatabaseBound reports whether scripts of k need an id assigned by the
// database before they can be used.
func (k Kind) DatabaseBound() bool {
	switch k {
	case KindCreature, KindGameObject, KindItem, KindSpellLoader, KindInstanceMap,
		KindAreaTrigger, KindBattleground, KindOutdoorPvP, KindWeather, KindCondition,
		KindAchievementCriteria:
		return true
	}
	return false
}

// Script is implemented by the bases of every kind.
type Script interface {
	Name() string
	Kind() Kind
}

// Base carries the name of a script.
type Base struct {
	ScriptName string
	// AfterLoad holds the script back until the database is loaded.
	AfterLoad bool
}

func (b *Base) Name() string {
	return b.ScriptName
}

func (b *Base) IsAfterLoadDatabase() bool {
	return b.AfterLoad
}

type DialogStatus uint32

const (
	DialogStatusNone      DialogStatus = 0
	DialogStatusAvailable DialogStatus = 8
	DialogStatusReward    DialogStatus = 10
	// DialogStatusScriptedNoStatus means the script had no opinion.
	DialogStatusScriptedNoStatus DialogStatus = 100
)

// CommandHandler runs a chat command with its arguments, command name
// excluded.
type CommandHandler func(out io.Writer, args []string) error

type ChatCommand struct {
	Name    string
	Help    string
	Handler CommandHandler
}
