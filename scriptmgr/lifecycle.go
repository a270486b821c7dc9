package scriptmgr

import (
	"slices"
	"time"

	"github.com/hako/durafmt"
	"github.com/zond/scriptcore"
	"github.com/zond/scriptcore/lang"
	"github.com/zond/scriptcore/world"
)

// SetScriptLoader sets the function that registers the statically linked
// scripts. It runs from Initialize.
func (m *Mgr) SetScriptLoader(loader func(*Mgr)) {
	m.loader = loader
}

// Initialize registers the statically linked scripts in the static context.
func (m *Mgr) Initialize() {
	scriptcore.Assert(m.loader != nil, "No script loader set")
	m.SetScriptContext(scriptcore.StaticContext)
	m.loader(m)
}

// SetScriptContext makes context the one newly added scripts belong to.
func (m *Mgr) SetScriptContext(context string) {
	m.host.SetCurrentContext(context)
}

func (m *Mgr) CurrentScriptContext() string {
	return m.host.CurrentContext()
}

// ReleaseScriptContext removes every script of context, quiescing whatever
// still runs behaviour objects created by them.
func (m *Mgr) ReleaseScriptContext(context string) {
	m.host.ReleaseContext(context)
}

// SwapScriptContext makes the scripts added since the last swap live and
// deletes the released ones. The current context is cleared afterwards.
func (m *Mgr) SwapScriptContext(initialize bool) {
	m.host.SwapContext(initialize)
	m.SetScriptContext("")
}

// Unload removes every script.
func (m *Mgr) Unload() {
	m.host.Unload()
	m.commandTable = nil
}

type LoadReport struct {
	Scripts int
	// Unused are the names the database references without a script.
	Unused []string
	// Unreferenced are the names of scripts the database assigns no id.
	Unreferenced []string
	Took         time.Duration
}

// LoadDatabase completes the startup sequence once the database and the
// spell store are available.
func (m *Mgr) LoadDatabase() LoadReport {
	start := time.Now()

	if m.spells != nil {
		_, found := m.spells.Spell(world.SpellHotswapVisual)
		scriptcore.Assert(found, "Spell %v is needed to show hot swapped entities", world.SpellHotswapVisual)
	}

	m.SetScriptContext(scriptcore.StaticContext)
	m.host.AddALScripts()
	m.FillSpellSummary()
	m.AddScript(newBuiltinCommands(m))

	scriptcore.Assert(m.loader != nil, "No script loader set")
	if m.reload != nil {
		if err := m.reload.Initialize(); err != nil {
			m.logger.Printf("Initializing the dynamic script contexts: %v", err)
		}
	}

	m.SwapScriptContext(true)
	m.ValidateSpellScripts()

	unused := m.UnusedScriptNames()
	for _, name := range unused {
		m.logger.Printf("Script %q is referenced by the database, but does not exist in the core!", name)
	}

	unreferenced := m.UnreferencedScriptNames()
	if len(unreferenced) > 0 {
		m.logger.Printf("%s registered but not referenced by the database: %s", lang.Count(len(unreferenced), "script"), lang.Enumerator{Pattern: "%q"}.Do(unreferenced...))
	}

	report := LoadReport{
		Scripts:      m.ScriptCount(),
		Unused:       unused,
		Unreferenced: unreferenced,
		Took:         time.Since(start),
	}
	m.logger.Printf("Loaded %s in %v", lang.Count(report.Scripts, "script"), durafmt.Parse(report.Took).LimitFirstN(2))
	return report
}

// UnusedScriptNames returns the names the database references that no
// script has, sorted.
func (m *Mgr) UnusedScriptNames() []string {
	if m.ids == nil {
		return nil
	}
	names := map[string]bool{}
	for _, name := range m.ids.AllScriptNames() {
		if name != "" {
			names[name] = true
		}
	}
	m.host.RemoveUsedScriptsFromContainer(names)
	result := make([]string, 0, len(names))
	for name := range names {
		result = append(result, name)
	}
	slices.Sort(result)
	return result
}

// UnreferencedScriptNames returns the names of the registered scripts the
// database assigns no id, sorted.
func (m *Mgr) UnreferencedScriptNames() []string {
	return m.host.UnreferencedScriptNames()
}
