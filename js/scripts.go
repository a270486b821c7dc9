package js

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/zond/scriptcore"
	"github.com/zond/scriptcore/scripts"
	"github.com/zond/scriptcore/world"
)

const (
	KindCreature = "creature"
	KindPlayer   = "player"
)

type creatureMessage struct {
	GUID     world.GUID `json:"guid"`
	Entry    uint32     `json:"entry"`
	Alive    bool       `json:"alive"`
	InCombat bool       `json:"inCombat"`
}

func creatureMsg(c *world.Creature) creatureMessage {
	return creatureMessage{
		GUID:     c.GUID(),
		Entry:    c.Entry(),
		Alive:    c.IsAlive(),
		InCombat: c.IsInCombat(),
	}
}

type playerMessage struct {
	GUID  world.GUID `json:"guid"`
	Name  string     `json:"name"`
	Level uint8      `json:"level"`
	MapID uint32     `json:"mapID"`
}

func playerMsg(p *world.Player) playerMessage {
	return playerMessage{
		GUID:  p.GUID,
		Name:  p.Name,
		Level: p.Level,
		MapID: p.MapID,
	}
}

// NewScripts creates a script object for every script p registered.
func (p *Program) NewScripts() ([]scripts.Script, error) {
	result := []scripts.Script{}
	for _, reg := range p.scripts {
		switch reg.Kind {
		case KindCreature:
			s := &CreatureScript{p: p}
			s.ScriptName = reg.Name
			result = append(result, s)
		case KindPlayer:
			s := &PlayerScript{p: p}
			s.ScriptName = reg.Name
			result = append(result, s)
		default:
			return nil, errors.Errorf("%s: script %q has unsupported kind %q", p.Origin(), reg.Name, reg.Kind)
		}
	}
	return result, nil
}

// call runs event if the script handles it, and logs failures. It returns
// whether the callback ran.
func (p *Program) call(script, event string, message any, result any) bool {
	if !p.Handles(script, event) {
		return false
	}
	if err := p.Call(context.Background(), script, event, message, result); err != nil {
		log.Printf("%s: %s.%s: %v\n%s", p.Origin(), script, event, err, scriptcore.StackTrace(err))
		return false
	}
	return true
}

// CreatureScript is a creature script defined by a JS context.
type CreatureScript struct {
	scripts.CreatureBase
	p *Program
}

func (c *CreatureScript) GetAI(cr *world.Creature) world.CreatureAI {
	for _, event := range []string{"reset", "enterCombat", "evade", "justDied"} {
		if c.p.Handles(c.Name(), event) {
			return &CreatureAI{NullCreatureAI: world.NullCreatureAI{Me: cr}, script: c}
		}
	}
	return nil
}

func (c *CreatureScript) OnGossipHello(p *world.Player, cr *world.Creature) bool {
	result := false
	c.p.call(c.Name(), "gossipHello", map[string]any{
		"player":   playerMsg(p),
		"creature": creatureMsg(cr),
	}, &result)
	return result
}

func (c *CreatureScript) OnGossipSelect(p *world.Player, cr *world.Creature, sender, action uint32) bool {
	result := false
	c.p.call(c.Name(), "gossipSelect", map[string]any{
		"player":   playerMsg(p),
		"creature": creatureMsg(cr),
		"sender":   sender,
		"action":   action,
	}, &result)
	return result
}

func (c *CreatureScript) OnQuestAccept(p *world.Player, cr *world.Creature, q *world.Quest) bool {
	result := false
	c.p.call(c.Name(), "questAccept", map[string]any{
		"player":   playerMsg(p),
		"creature": creatureMsg(cr),
		"quest":    q.ID,
	}, &result)
	return result
}

func (c *CreatureScript) GetDialogStatus(p *world.Player, cr *world.Creature) scripts.DialogStatus {
	result := scripts.DialogStatusScriptedNoStatus
	c.p.call(c.Name(), "dialogStatus", map[string]any{
		"player":   playerMsg(p),
		"creature": creatureMsg(cr),
	}, &result)
	return result
}

// CreatureAI forwards AI events of a creature to its JS script.
type CreatureAI struct {
	world.NullCreatureAI
	script *CreatureScript
}

func (a *CreatureAI) Reset() {
	a.script.p.call(a.script.Name(), "reset", creatureMsg(a.Me), nil)
}

func (a *CreatureAI) EnterCombat(victim world.GUID) {
	a.script.p.call(a.script.Name(), "enterCombat", map[string]any{
		"creature": creatureMsg(a.Me),
		"victim":   victim,
	}, nil)
}

func (a *CreatureAI) EnterEvadeMode() {
	a.NullCreatureAI.EnterEvadeMode()
	a.script.p.call(a.script.Name(), "evade", creatureMsg(a.Me), nil)
}

func (a *CreatureAI) JustDied(killer world.GUID) {
	a.script.p.call(a.script.Name(), "justDied", map[string]any{
		"creature": creatureMsg(a.Me),
		"killer":   killer,
	}, nil)
}

// PlayerScript is a player script defined by a JS context.
type PlayerScript struct {
	scripts.PlayerBase
	p *Program
}

func (s *PlayerScript) OnLogin(p *world.Player) {
	s.p.call(s.Name(), "login", playerMsg(p), nil)
}

func (s *PlayerScript) OnLogout(p *world.Player) {
	s.p.call(s.Name(), "logout", playerMsg(p), nil)
}

func (s *PlayerScript) OnLevelChanged(p *world.Player, oldLevel uint8) {
	s.p.call(s.Name(), "levelChanged", map[string]any{
		"player":   playerMsg(p),
		"oldLevel": oldLevel,
	}, nil)
}

func (s *PlayerScript) OnChat(p *world.Player, msg string) {
	s.p.call(s.Name(), "chat", map[string]any{
		"player":  playerMsg(p),
		"message": msg,
	}, nil)
}

func (s *PlayerScript) OnBeforeTeleport(p *world.Player, mapID uint32) bool {
	result := true
	s.p.call(s.Name(), "beforeTeleport", map[string]any{
		"player": playerMsg(p),
		"mapID":  mapID,
	}, &result)
	return result
}

func (s *PlayerScript) CanJoinInBattlegroundQueue(p *world.Player, bgTypeID uint32) bool {
	result := true
	s.p.call(s.Name(), "canJoinBattlegroundQueue", map[string]any{
		"player":   playerMsg(p),
		"bgTypeID": bgTypeID,
	}, &result)
	return result
}
