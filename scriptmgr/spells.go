package scriptmgr

import (
	"reflect"

	"github.com/zond/scriptcore/scripts"
)

// Spell effect and target numbers the summary understands.
const (
	effectSchoolDamage = 2
	effectApplyAura    = 6
	effectHeal         = 10

	targetCaster          = 1
	targetSingleEnemy     = 6
	targetAreaEnemySrc    = 15
	targetAreaEnemyDst    = 16
	targetAreaParty       = 20
	targetSingleFriend    = 21
	targetAreaEnemyCaster = 22
)

// SpellTargets and SpellEffects classify spells for creature AI spell
// selection.
type SpellTargets uint8

const (
	TargetSelf SpellTargets = 1 << iota
	TargetSingleEnemy
	TargetAreaEnemy
	TargetSingleFriend
	TargetAreaFriend
)

type SpellEffects uint8

const (
	EffectDamage SpellEffects = 1 << iota
	EffectHealing
	EffectAura
)

type SpellSummary struct {
	Targets SpellTargets
	Effects SpellEffects
}

type spellBinding struct {
	spellID  uint32
	scriptID uint32
}

// FillSpellSummary classifies every spell in the spell store.
func (m *Mgr) FillSpellSummary() {
	m.spellSummary = map[uint32]SpellSummary{}
	if m.spells == nil {
		return
	}
	for _, spell := range m.spells.Spells() {
		summary := SpellSummary{}
		for _, effect := range spell.Effects {
			switch effect.TargetA {
			case targetCaster:
				summary.Targets |= TargetSelf
			case targetSingleEnemy:
				summary.Targets |= TargetSingleEnemy
			case targetAreaEnemySrc, targetAreaEnemyDst, targetAreaEnemyCaster:
				summary.Targets |= TargetAreaEnemy
			case targetSingleFriend:
				summary.Targets |= TargetSingleFriend
			case targetAreaParty:
				summary.Targets |= TargetAreaFriend
			}
			switch effect.Effect {
			case effectSchoolDamage:
				summary.Effects |= EffectDamage
			case effectHeal:
				summary.Effects |= EffectHealing
			case effectApplyAura:
				summary.Effects |= EffectAura
			}
		}
		m.spellSummary[spell.ID] = summary
	}
}

func (m *Mgr) SpellSummary(spellID uint32) (SpellSummary, bool) {
	summary, found := m.spellSummary[spellID]
	return summary, found
}

// ValidateSpellScripts disables the spell script bindings whose loader is
// missing or creates nothing, and enables the rest again.
func (m *Mgr) ValidateSpellScripts() {
	m.spellChecks++
	if m.spells == nil || m.ids == nil {
		return
	}
	for _, spell := range m.spells.Spells() {
		for _, binding := range m.ids.SpellScriptBindings(spell.ID) {
			key := spellBinding{spellID: spell.ID, scriptID: binding.ScriptID}
			loader, found := m.spellLoader.ScriptByID(binding.ScriptID)
			switch {
			case !found:
				m.disabledSpells[key] = true
			case isNil(loader.GetSpellScript()) && isNil(loader.GetAuraScript()):
				m.logger.Printf("Script %q does not create spell or aura scripts, so it will not be bound to spell %v", loader.Name(), spell.ID)
				m.disabledSpells[key] = true
			default:
				delete(m.disabledSpells, key)
			}
		}
	}
}

// SpellScriptChecks counts ValidateSpellScripts calls.
func (m *Mgr) SpellScriptChecks() int {
	return m.spellChecks
}

// isNil is true for nil, and for interfaces holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func createSpellScripts[T scripts.SpellScript](m *Mgr, spellID uint32, create func(scripts.SpellScriptLoader) T) []T {
	if m.ids == nil {
		return nil
	}
	result := []T{}
	for _, binding := range m.ids.SpellScriptBindings(spellID) {
		if !binding.Enabled || m.disabledSpells[spellBinding{spellID: spellID, scriptID: binding.ScriptID}] {
			continue
		}
		loader, found := m.spellLoader.ScriptByID(binding.ScriptID)
		if !found {
			continue
		}
		script := create(loader)
		if isNil(script) {
			continue
		}
		script.Init(loader.Name(), spellID)
		if !script.Load() {
			continue
		}
		result = append(result, script)
	}
	return result
}

// CreateSpellScripts creates one spell script per enabled binding of
// spellID, for a single cast.
func (m *Mgr) CreateSpellScripts(spellID uint32) []scripts.SpellScript {
	return createSpellScripts(m, spellID, scripts.SpellScriptLoader.GetSpellScript)
}

// CreateAuraScripts creates one aura script per enabled binding of spellID,
// for a single aura application.
func (m *Mgr) CreateAuraScripts(spellID uint32) []scripts.AuraScript {
	return createSpellScripts(m, spellID, scripts.SpellScriptLoader.GetAuraScript)
}
