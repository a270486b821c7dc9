package content

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zond/scriptcore/scriptmgr"
	"github.com/zond/scriptcore/world"
)

type testIDs map[string]uint32

func (t testIDs) ScriptID(name string) uint32 {
	return t[name]
}

func (t testIDs) AllScriptNames() []string {
	return nil
}

func (t testIDs) SpellScriptBindings(uint32) []scriptmgr.SpellScriptBinding {
	return nil
}

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func withContent(t *testing.T, f func(m *scriptmgr.Mgr, logger *recordingLogger)) {
	t.Helper()
	logger := &recordingLogger{}
	m := scriptmgr.New(scriptmgr.Options{
		IDs:    testIDs{WardenName: 1},
		Logger: logger,
		Spells: world.Spells{world.SpellHotswapVisual: {ID: world.SpellHotswapVisual}},
	})
	m.SetScriptLoader(func(m *scriptmgr.Mgr) {
		Register(m, logger)
	})
	m.Initialize()
	m.LoadDatabase()
	f(m, logger)
}

func TestWarden(t *testing.T) {
	withContent(t, func(m *scriptmgr.Mgr, _ *recordingLogger) {
		mp := m.Maps().CreateMap(1, 0)
		c := mp.SpawnCreature(100, 1)
		wardenAI, ok := c.AI().(*WardenAI)
		if !ok {
			t.Fatalf("got %T, want *WardenAI", c.AI())
		}
		c.EnterCombat(7)
		for range 180 {
			mp.Update(time.Second)
		}
		counts := map[uint32]int{}
		for _, spell := range c.Casts() {
			counts[spell]++
		}
		if diff := cmp.Diff(map[uint32]int{SpellCleave: 22, SpellEnrage: 1}, counts); diff != "" {
			t.Errorf("casts mismatch (-want +got):\n%s", diff)
		}
		if got := wardenAI.Summons.EntryCount(EntryWarder); got != 2 {
			t.Errorf("got %v warders, want 2", got)
		}

		c.EnterEvadeMode()
		if got := wardenAI.Summons.Len(); got != 0 {
			t.Errorf("got %v summons after evade, want 0", got)
		}
	})
}

func TestAnnouncer(t *testing.T) {
	withContent(t, func(m *scriptmgr.Mgr, logger *recordingLogger) {
		m.OnStartup()
		m.OnShutdown()
		want := []string{"World started", "World shutting down"}
		got := logger.lines[len(logger.lines)-2:]
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("log mismatch (-want +got):\n%s", diff)
		}
	})
}
