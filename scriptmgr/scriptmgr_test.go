package scriptmgr

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zond/scriptcore"
	"github.com/zond/scriptcore/scripts"
	"github.com/zond/scriptcore/world"
)

type testIDs struct {
	names    map[string]uint32
	extra    []string
	bindings map[uint32][]SpellScriptBinding
}

func (t *testIDs) ScriptID(name string) uint32 {
	return t.names[name]
}

func (t *testIDs) AllScriptNames() []string {
	result := slices.Clone(t.extra)
	for name := range t.names {
		result = append(result, name)
	}
	slices.Sort(result)
	return result
}

func (t *testIDs) SpellScriptBindings(spellID uint32) []SpellScriptBinding {
	return t.bindings[spellID]
}

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) contains(s string) bool {
	return slices.ContainsFunc(r.lines, func(line string) bool {
		return strings.Contains(line, s)
	})
}

type labeledAI struct {
	world.NullCreatureAI
	label string
}

type testCreature struct {
	scripts.CreatureBase
	label string
}

func newCreature(name, label string) *testCreature {
	result := &testCreature{label: label}
	result.ScriptName = name
	return result
}

func (t *testCreature) GetAI(c *world.Creature) world.CreatureAI {
	return &labeledAI{NullCreatureAI: world.NullCreatureAI{Me: c}, label: t.label}
}

func label(c *world.Creature) string {
	if ai, ok := c.AI().(*labeledAI); ok {
		return ai.label
	}
	return ""
}

type labeledGameObjectAI struct {
	label       string
	initialized bool
	resets      int
}

func (l *labeledGameObjectAI) InitializeAI()          { l.initialized = true }
func (l *labeledGameObjectAI) Reset()                 { l.resets++ }
func (l *labeledGameObjectAI) UpdateAI(time.Duration) {}

type testGameObject struct {
	scripts.GameObjectBase
	label string
}

func newGameObject(name, label string) *testGameObject {
	result := &testGameObject{label: label}
	result.ScriptName = name
	return result
}

func (t *testGameObject) GetAI(*world.GameObject) world.GameObjectAI {
	return &labeledGameObjectAI{label: t.label}
}

func gameObjectAI(g *world.GameObject) *labeledGameObjectAI {
	ai, _ := g.AI().(*labeledGameObjectAI)
	return ai
}

type testPlayer struct {
	scripts.PlayerBase
	teleport bool
	money    bool
	calls    int
}

func newPlayer(name string, teleport, money bool) *testPlayer {
	result := &testPlayer{teleport: teleport, money: money}
	result.ScriptName = name
	return result
}

func (t *testPlayer) OnBeforeTeleport(*world.Player, uint32) bool {
	t.calls++
	return t.teleport
}

func (t *testPlayer) ShouldBeRewardedWithMoneyInsteadOfExp(*world.Player) bool {
	t.calls++
	return t.money
}

type testPvP struct{}

func (testPvP) Setup() bool          { return true }
func (testPvP) Update(time.Duration) {}

type testOutdoorPvP struct {
	scripts.OutdoorPvPBase
}

func (testOutdoorPvP) GetOutdoorPvP() world.OutdoorPvP {
	return testPvP{}
}

type testCommands struct {
	scripts.CommandBase
	got [][]string
}

func (t *testCommands) Commands() []scripts.ChatCommand {
	record := func(out io.Writer, args []string) error {
		t.got = append(t.got, args)
		return nil
	}
	return []scripts.ChatCommand{
		{Name: "zeta", Handler: record},
		{Name: "alpha", Handler: record},
	}
}

type testSpellScript struct {
	scripts.SpellScriptBase
	load bool
}

func (t *testSpellScript) Load() bool {
	return t.load
}

type testSpellLoader struct {
	scripts.SpellLoaderBase
	load  bool
	empty bool
}

func newSpellLoader(name string, load, empty bool) *testSpellLoader {
	result := &testSpellLoader{load: load, empty: empty}
	result.ScriptName = name
	return result
}

func (t *testSpellLoader) GetSpellScript() scripts.SpellScript {
	if t.empty {
		return nil
	}
	return &testSpellScript{load: t.load}
}

// typedNilLoader returns nil pointers wrapped in non nil interfaces.
type typedNilLoader struct {
	scripts.SpellLoaderBase
	aura bool
}

func (t *typedNilLoader) GetSpellScript() scripts.SpellScript {
	var s *testSpellScript
	return s
}

func (t *typedNilLoader) GetAuraScript() scripts.AuraScript {
	if t.aura {
		return &testSpellScript{load: true}
	}
	var s *testSpellScript
	return s
}

func hotswapSpells() world.Spells {
	return world.Spells{
		world.SpellHotswapVisual: {ID: world.SpellHotswapVisual},
	}
}

func withMgr(t *testing.T, ids *testIDs, opts Options, f func(m *Mgr, logger *recordingLogger)) {
	t.Helper()
	logger := &recordingLogger{}
	opts.IDs = ids
	opts.Logger = logger
	if opts.Spells == nil {
		opts.Spells = hotswapSpells()
	}
	m := New(opts)
	m.SetScriptLoader(func(*Mgr) {})
	m.Initialize()
	f(m, logger)
}

func TestDefaultsWithoutScripts(t *testing.T) {
	withMgr(t, &testIDs{}, Options{}, func(m *Mgr, _ *recordingLogger) {
		m.LoadDatabase()
		mp := m.Maps().CreateMap(1, 0)
		c := mp.SpawnCreature(100, 0)
		p := &world.Player{Name: "someone"}
		if got := m.GetDialogStatus(p, c); got != scripts.DialogStatusScriptedNoStatus {
			t.Errorf("got %v, want %v", got, scripts.DialogStatusScriptedNoStatus)
		}
		if m.OnGossipHello(p, c) {
			t.Errorf("got true, want false")
		}
		if !m.OnBeforePlayerTeleport(p, 1) {
			t.Errorf("veto chain without scripts should allow")
		}
		if m.ShouldBeRewardedWithMoneyInsteadOfExp(p) {
			t.Errorf("any true chain without scripts should be false")
		}
		if !m.OnCastItemCombatSpell(p, c.GUID(), 1, &world.Item{}) {
			t.Errorf("got false, want true")
		}
		if !m.OnConditionCheck(&scripts.Condition{}, scripts.ConditionSource{}) {
			t.Errorf("got false, want true")
		}
		if _, ok := c.AI().(*world.NullCreatureAI); !ok {
			t.Errorf("got %T, want *world.NullCreatureAI", c.AI())
		}
	})
}

func TestChains(t *testing.T) {
	withMgr(t, &testIDs{}, Options{}, func(m *Mgr, _ *recordingLogger) {
		allow := newPlayer("allow", true, false)
		deny := newPlayer("deny", false, true)
		m.AddScript(deny)
		m.AddScript(allow)
		p := &world.Player{}
		if m.OnBeforePlayerTeleport(p, 1) {
			t.Errorf("got true, want false")
		}
		if allow.calls != 1 || deny.calls != 1 {
			t.Errorf("got %v and %v calls, want every script invoked once", allow.calls, deny.calls)
		}
		if !m.ShouldBeRewardedWithMoneyInsteadOfExp(p) {
			t.Errorf("got false, want true")
		}
		if allow.calls != 2 {
			t.Errorf("got %v calls, want 2", allow.calls)
		}
	})
}

func TestCreatureSwap(t *testing.T) {
	ids := &testIDs{names: map[string]uint32{"npc_a": 1, "npc_b": 2}}
	withMgr(t, ids, Options{}, func(m *Mgr, _ *recordingLogger) {
		m.SetScriptContext("dyn")
		m.AddScript(newCreature("npc_a", "v1"))
		m.LoadDatabase()

		mp := m.Maps().CreateMap(1, 0)
		a := mp.SpawnCreature(100, 1)
		b := mp.SpawnCreature(101, 2)
		if got := label(a); got != "v1" {
			t.Errorf("got %q, want v1", got)
		}
		if got := label(b); got != "" {
			t.Errorf("got %q, want default AI", got)
		}

		m.ReleaseScriptContext("dyn")
		if a.HasAI() {
			t.Errorf("creature kept the AI of a released script")
		}
		if !b.HasAI() {
			t.Errorf("unrelated creature lost its AI")
		}

		m.SetScriptContext("dyn")
		m.AddScript(newCreature("npc_a", "v2"))
		m.AddScript(newCreature("npc_b", "v1"))
		m.SwapScriptContext(false)
		if got := label(a); got != "v2" {
			t.Errorf("got %q, want v2", got)
		}
		if got := label(b); got != "v1" {
			t.Errorf("got %q, want the default AI replaced", got)
		}
		if a.AIGeneration() != 1 {
			t.Errorf("got generation %v, want 1", a.AIGeneration())
		}
		if m.CurrentScriptContext() != "" {
			t.Errorf("got %q, want no current context", m.CurrentScriptContext())
		}

		mp.Update(time.Second)
		if !slices.Contains(a.Casts(), world.SpellHotswapVisual) {
			t.Errorf("got %v, want hotswap visual cast", a.Casts())
		}
	})
}

func TestGameObjectSwap(t *testing.T) {
	ids := &testIDs{names: map[string]uint32{"go_a": 1, "npc_a": 2}}
	withMgr(t, ids, Options{}, func(m *Mgr, _ *recordingLogger) {
		m.SetScriptContext("dyn")
		m.AddScript(newGameObject("go_a", "v1"))
		m.LoadDatabase()

		mp := m.Maps().CreateMap(1, 0)
		g := mp.SpawnGameObject(200, 1)
		before := gameObjectAI(g)
		if before == nil || before.label != "v1" || !before.initialized {
			t.Fatalf("got %+v, want initialized v1 AI", before)
		}
		pending := mp.AddCreature(100, 2)

		m.ReleaseScriptContext("dyn")
		if g.HasAI() {
			t.Errorf("gameobject kept the AI of a released script")
		}
		if before.resets != 1 {
			t.Errorf("got %v resets before destroying the AI, want 1", before.resets)
		}
		if m.PendingDeletes() != 1 {
			t.Errorf("got %v pending deletes, want 1", m.PendingDeletes())
		}

		m.SetScriptContext("dyn")
		m.AddScript(newGameObject("go_a", "v2"))
		m.AddScript(newCreature("npc_a", "v1"))
		m.SwapScriptContext(false)
		after := gameObjectAI(g)
		if after == nil || after.label != "v2" {
			t.Fatalf("got %+v, want v2 AI", after)
		}
		if !after.initialized || after.resets != 1 {
			t.Errorf("got initialized=%v resets=%v, want true and 1", after.initialized, after.resets)
		}
		if g.AIGeneration() != 1 {
			t.Errorf("got generation %v, want 1", g.AIGeneration())
		}
		if m.PendingDeletes() != 0 {
			t.Errorf("got %v pending deletes, want 0", m.PendingDeletes())
		}
		if pending.HasAI() {
			t.Errorf("creature not in the world got an AI from the swap")
		}

		mp.AddToWorld(pending)
		if got := label(pending); got != "v1" {
			t.Errorf("got %q, want v1", got)
		}
		if current, total := m.CurrentAIs(); current != 2 || total != 2 {
			t.Errorf("got %v of %v current AIs, want 2 of 2", current, total)
		}
	})
}

func TestCountCommand(t *testing.T) {
	ids := &testIDs{names: map[string]uint32{"npc_a": 1, "npc_b": 2}}
	withMgr(t, ids, Options{}, func(m *Mgr, _ *recordingLogger) {
		m.SetScriptContext("dyn")
		m.AddScript(newCreature("npc_a", "v1"))
		m.SetScriptContext("other")
		m.AddScript(newCreature("npc_b", "v1"))
		m.LoadDatabase()
		mp := m.Maps().CreateMap(1, 0)
		mp.SpawnCreature(100, 1)
		mp.SpawnCreature(101, 2)

		m.ReleaseScriptContext("dyn")
		buf := &bytes.Buffer{}
		if err := m.RunCommand(buf, "count"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "1 pending deletes") {
			t.Errorf("got %q, want 1 pending delete", buf.String())
		}

		m.SetScriptContext("dyn")
		m.AddScript(newCreature("npc_a", "v2"))
		m.SwapScriptContext(false)
		buf.Reset()
		if err := m.RunCommand(buf, "count"); err != nil {
			t.Fatal(err)
		}
		want := "3 scripts, generation 1\n0 pending deletes\n1 of 2 entity AIs created in generation 1\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}

		buf.Reset()
		if err := m.RunCommand(buf, "scripts"); err != nil {
			t.Fatal(err)
		}
		for _, row := range [][]string{
			{string(scripts.KindCreature), "yes", "dyn", "1"},
			{string(scripts.KindCommand), "no", scriptcore.StaticContext, "1"},
		} {
			if !slices.ContainsFunc(strings.Split(buf.String(), "\n"), func(line string) bool {
				return slices.Equal(strings.Fields(line), row)
			}) {
				t.Errorf("got %q, want a row %v", buf.String(), row)
			}
		}
	})
}

func TestOutdoorPvPSwap(t *testing.T) {
	ids := &testIDs{names: map[string]uint32{"opvp": 5}}
	withMgr(t, ids, Options{OutdoorPvP: world.NewOutdoorPvPMgr(nil, 5)}, func(m *Mgr, _ *recordingLogger) {
		pvp := &testOutdoorPvP{}
		pvp.ScriptName = "opvp"
		m.SetScriptContext("dyn")
		m.AddScript(pvp)
		m.LoadDatabase()
		m.OutdoorPvP().InitOutdoorPvP()
		if m.OutdoorPvP().Active() != 1 {
			t.Fatalf("got %v active, want 1", m.OutdoorPvP().Active())
		}

		m.ReleaseScriptContext("dyn")
		m.ReleaseScriptContext("dyn")
		if m.OutdoorPvP().Deaths() != 1 || m.OutdoorPvP().Active() != 0 {
			t.Errorf("got %v deaths and %v active, want 1 and 0", m.OutdoorPvP().Deaths(), m.OutdoorPvP().Active())
		}

		again := &testOutdoorPvP{}
		again.ScriptName = "opvp"
		m.SetScriptContext("dyn")
		m.AddScript(again)
		m.SwapScriptContext(false)
		if m.OutdoorPvP().Inits() != 2 || m.OutdoorPvP().Active() != 1 {
			t.Errorf("got %v inits and %v active, want 2 and 1", m.OutdoorPvP().Inits(), m.OutdoorPvP().Active())
		}
	})
}

func TestInitializeWithoutLoaderAborts(t *testing.T) {
	m := New(Options{Logger: &recordingLogger{}})
	if a := scriptcore.CatchAbort(m.Initialize); a == nil {
		t.Errorf("got nil, want abort")
	}
}

func TestLoadDatabaseWithoutHotswapSpellAborts(t *testing.T) {
	withMgr(t, &testIDs{}, Options{Spells: world.Spells{}}, func(m *Mgr, _ *recordingLogger) {
		if a := scriptcore.CatchAbort(func() { m.LoadDatabase() }); a == nil {
			t.Errorf("got nil, want abort")
		}
	})
}

func TestLoadDatabaseReport(t *testing.T) {
	ids := &testIDs{
		names: map[string]uint32{"npc_a": 1},
		extra: []string{"", "missing_script"},
	}
	withMgr(t, ids, Options{}, func(m *Mgr, logger *recordingLogger) {
		m.AddScript(newCreature("npc_a", "v1"))
		m.AddScript(newCreature("npc_compiled_only", "v1"))
		report := m.LoadDatabase()
		if diff := cmp.Diff([]string{"missing_script"}, report.Unused); diff != "" {
			t.Errorf("Unused mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"npc_compiled_only"}, report.Unreferenced); diff != "" {
			t.Errorf("Unreferenced mismatch (-want +got):\n%s", diff)
		}
		if !logger.contains(`1 script registered but not referenced by the database: "npc_compiled_only"`) {
			t.Errorf("missing unreferenced name log in %v", logger.lines)
		}
		// npc_a and the builtin commands.
		if report.Scripts != 2 {
			t.Errorf("got %v, want 2", report.Scripts)
		}
		if !logger.contains(`Script "missing_script" is referenced by the database, but does not exist in the core!`) {
			t.Errorf("missing unused name log in %v", logger.lines)
		}
		if !logger.contains("Loaded 2 scripts in") {
			t.Errorf("missing load log in %v", logger.lines)
		}
	})
}

func TestAfterLoadScriptsWaitForDatabase(t *testing.T) {
	ids := &testIDs{names: map[string]uint32{"npc_a": 1}}
	withMgr(t, ids, Options{}, func(m *Mgr, _ *recordingLogger) {
		s := newCreature("npc_a", "v1")
		s.AfterLoad = true
		m.AddScript(s)
		if _, found := m.CreatureScriptByID(1); found {
			t.Errorf("after load script added before the database")
		}
		m.LoadDatabase()
		if _, found := m.CreatureScriptByID(1); !found {
			t.Errorf("after load script not added by LoadDatabase")
		}
	})
}

func TestCommands(t *testing.T) {
	withMgr(t, &testIDs{}, Options{}, func(m *Mgr, _ *recordingLogger) {
		cmds := &testCommands{}
		cmds.ScriptName = "test_commands"
		m.SetScriptContext("dyn")
		m.AddScript(cmds)
		m.LoadDatabase()

		names := []string{}
		for _, cmd := range m.ChatCommands() {
			names = append(names, cmd.Name)
		}
		if diff := cmp.Diff([]string{"alpha", "contexts", "count", "help", "reload", "scripts", "unused", "zeta"}, names); diff != "" {
			t.Errorf("ChatCommands mismatch (-want +got):\n%s", diff)
		}

		buf := &bytes.Buffer{}
		if err := m.RunCommand(buf, `alpha x 'y z'`); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([][]string{{"x", "y z"}}, cmds.got); diff != "" {
			t.Errorf("args mismatch (-want +got):\n%s", diff)
		}
		if err := m.RunCommand(buf, "nonexistent"); err == nil {
			t.Errorf("got nil, want error")
		}
		if err := m.RunCommand(buf, "reload dyn"); err == nil {
			t.Errorf("got nil, want error without a reload manager")
		}

		m.ReleaseScriptContext("dyn")
		for _, cmd := range m.ChatCommands() {
			if cmd.Name == "alpha" {
				t.Errorf("released command still in the table")
			}
		}
		m.SwapScriptContext(false)
	})
}

type testReload struct {
	requested []string
}

func (t *testReload) Initialize() error {
	return nil
}

func (t *testReload) Request(context string) error {
	t.requested = append(t.requested, context)
	return nil
}

func TestReloadCommand(t *testing.T) {
	withMgr(t, &testIDs{}, Options{}, func(m *Mgr, _ *recordingLogger) {
		reload := &testReload{}
		m.SetReloadMgr(reload)
		m.LoadDatabase()
		buf := &bytes.Buffer{}
		if err := m.RunCommand(buf, "reload boss"); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"boss"}, reload.requested); diff != "" {
			t.Errorf("requested mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSpellScripts(t *testing.T) {
	ids := &testIDs{
		names: map[string]uint32{"spell_a": 10, "spell_b": 11, "spell_c": 12, "spell_d": 14},
		bindings: map[uint32][]SpellScriptBinding{
			500: {
				{ScriptID: 10, Enabled: true},
				{ScriptID: 11, Enabled: false},
				{ScriptID: 12, Enabled: true},
				{ScriptID: 13, Enabled: true},
				{ScriptID: 14, Enabled: true},
			},
		},
	}
	spells := hotswapSpells()
	spells[500] = &world.SpellInfo{ID: 500, Effects: []world.SpellEffect{{Effect: effectSchoolDamage, TargetA: targetSingleEnemy}}}
	withMgr(t, ids, Options{Spells: spells}, func(m *Mgr, logger *recordingLogger) {
		m.AddScript(newSpellLoader("spell_a", true, false))
		m.AddScript(newSpellLoader("spell_b", true, false))
		m.AddScript(newSpellLoader("spell_c", false, false))
		m.AddScript(newSpellLoader("spell_d", true, true))
		m.LoadDatabase()
		if !logger.contains(`Script "spell_d" does not create spell or aura scripts`) {
			t.Errorf("missing validation log in %v", logger.lines)
		}

		created := m.CreateSpellScripts(500)
		if len(created) != 1 {
			t.Fatalf("got %v scripts, want 1", len(created))
		}
		got := created[0].(*testSpellScript)
		if got.ScriptName != "spell_a" || got.SpellID != 500 {
			t.Errorf("got %q, %v, want spell_a, 500", got.ScriptName, got.SpellID)
		}
		if auras := m.CreateAuraScripts(500); len(auras) != 0 {
			t.Errorf("got %v aura scripts, want 0", len(auras))
		}

		summary, found := m.SpellSummary(500)
		if !found || summary.Targets != TargetSingleEnemy || summary.Effects != EffectDamage {
			t.Errorf("got %+v, %v, want single enemy damage", summary, found)
		}
	})
}

func TestTypedNilSpellScripts(t *testing.T) {
	ids := &testIDs{
		names: map[string]uint32{"spell_aura": 10, "spell_none": 11},
		bindings: map[uint32][]SpellScriptBinding{
			500: {
				{ScriptID: 10, Enabled: true},
				{ScriptID: 11, Enabled: true},
			},
		},
	}
	spells := hotswapSpells()
	spells[500] = &world.SpellInfo{ID: 500}
	withMgr(t, ids, Options{Spells: spells}, func(m *Mgr, logger *recordingLogger) {
		aura := &typedNilLoader{aura: true}
		aura.ScriptName = "spell_aura"
		none := &typedNilLoader{}
		none.ScriptName = "spell_none"
		m.AddScript(aura)
		m.AddScript(none)
		m.LoadDatabase()
		if !logger.contains(`Script "spell_none" does not create spell or aura scripts`) {
			t.Errorf("missing validation log in %v", logger.lines)
		}
		if created := m.CreateSpellScripts(500); len(created) != 0 {
			t.Errorf("got %v spell scripts, want 0", len(created))
		}
		auras := m.CreateAuraScripts(500)
		if len(auras) != 1 {
			t.Fatalf("got %v aura scripts, want 1", len(auras))
		}
		if got := auras[0].(*testSpellScript); got.ScriptName != "spell_aura" {
			t.Errorf("got %q, want spell_aura", got.ScriptName)
		}
	})
}

func TestSpellLoaderSwapRevalidates(t *testing.T) {
	ids := &testIDs{names: map[string]uint32{"spell_a": 10}}
	withMgr(t, ids, Options{}, func(m *Mgr, _ *recordingLogger) {
		m.SetScriptContext("dyn")
		m.AddScript(newSpellLoader("spell_a", true, false))
		m.LoadDatabase()
		checks := m.SpellScriptChecks()
		m.ReleaseScriptContext("dyn")
		m.SwapScriptContext(false)
		if m.SpellScriptChecks() != checks+1 {
			t.Errorf("got %v checks, want %v", m.SpellScriptChecks(), checks+1)
		}
		m.SwapScriptContext(false)
		if m.SpellScriptChecks() != checks+1 {
			t.Errorf("swap without release revalidated")
		}
	})
}

func TestBattlegroundReleaseAborts(t *testing.T) {
	ids := &testIDs{names: map[string]uint32{"bg_a": 3}}
	withMgr(t, ids, Options{}, func(m *Mgr, _ *recordingLogger) {
		bg := &scripts.BattlegroundBase{}
		bg.ScriptName = "bg_a"
		m.SetScriptContext("dyn")
		m.AddScript(bg)
		m.LoadDatabase()
		if a := scriptcore.CatchAbort(func() { m.ReleaseScriptContext("dyn") }); a == nil {
			t.Errorf("got nil, want abort")
		}
	})
}

func TestUnload(t *testing.T) {
	ids := &testIDs{names: map[string]uint32{"npc_a": 1}}
	withMgr(t, ids, Options{}, func(m *Mgr, _ *recordingLogger) {
		m.AddScript(newCreature("npc_a", "v1"))
		m.LoadDatabase()
		m.Unload()
		if m.ScriptCount() != 0 {
			t.Errorf("got %v, want 0", m.ScriptCount())
		}
		if len(m.ChatCommands()) != 0 {
			t.Errorf("got %v commands, want 0", len(m.ChatCommands()))
		}
	})
}
