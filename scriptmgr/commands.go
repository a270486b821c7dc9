package scriptmgr

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/buildkite/shellwords"
	"github.com/pkg/errors"
	"github.com/rodaine/table"
	"github.com/zond/scriptcore/scripts"
)

// ChatCommands returns the commands of every CommandScript, sorted by
// name. The table is cached until the next context transition.
func (m *Mgr) ChatCommands() []scripts.ChatCommand {
	if m.commandTable != nil {
		return m.commandTable
	}
	result := []scripts.ChatCommand{}
	for s := range m.command.All() {
		result = append(result, s.Commands()...)
	}
	slices.SortStableFunc(result, func(a, b scripts.ChatCommand) int {
		return strings.Compare(a.Name, b.Name)
	})
	m.commandTable = result
	return result
}

func (m *Mgr) InvalidateCommandTable() {
	m.commandTable = nil
}

// RunCommand splits line into words and runs the command named by the
// first.
func (m *Mgr) RunCommand(out io.Writer, line string) error {
	words, err := shellwords.SplitPosix(line)
	if err != nil {
		return errors.WithStack(err)
	}
	if len(words) == 0 {
		return nil
	}
	for _, cmd := range m.ChatCommands() {
		if cmd.Name == words[0] {
			return cmd.Handler(out, words[1:])
		}
	}
	return errors.Errorf("unknown command %q", words[0])
}

type builtinCommands struct {
	scripts.CommandBase
	m *Mgr
}

func newBuiltinCommands(m *Mgr) *builtinCommands {
	result := &builtinCommands{m: m}
	result.ScriptName = "builtin_commands"
	return result
}

func (b *builtinCommands) Commands() []scripts.ChatCommand {
	return []scripts.ChatCommand{
		{
			Name:    "help",
			Help:    "List the available commands.",
			Handler: b.help,
		},
		{
			Name:    "contexts",
			Help:    "List the contexts and how many scripts each owns.",
			Handler: b.contexts,
		},
		{
			Name:    "scripts",
			Help:    "List the script kinds and how many scripts each context registered.",
			Handler: b.scripts,
		},
		{
			Name:    "unused",
			Help:    "List the script names the database references without a script.",
			Handler: b.unused,
		},
		{
			Name:    "count",
			Help:    "Show the number of live scripts, the script generation and the entity AIs created in it.",
			Handler: b.count,
		},
		{
			Name:    "reload",
			Help:    "[context] Reload a dynamic script context at the next update.",
			Handler: b.reload,
		},
	}
}

func (b *builtinCommands) help(out io.Writer, _ []string) error {
	t := table.New("Command", "Help").WithWriter(out)
	for _, cmd := range b.m.ChatCommands() {
		t.AddRow(cmd.Name, cmd.Help)
	}
	t.Print()
	return nil
}

func (b *builtinCommands) contexts(out io.Writer, _ []string) error {
	counts := map[string]int{}
	for _, r := range b.m.host.Registries() {
		for _, context := range r.Contexts() {
			counts[context] += r.ContextLen(context)
		}
	}
	t := table.New("Context", "Scripts").WithWriter(out)
	for _, context := range b.m.Contexts() {
		t.AddRow(context, counts[context])
	}
	t.Print()
	return nil
}

func (b *builtinCommands) scripts(out io.Writer, _ []string) error {
	t := table.New("Kind", "Database", "Context", "Scripts").WithWriter(out)
	for _, r := range b.m.host.Registries() {
		database := "no"
		if scripts.Kind(r.Kind()).DatabaseBound() {
			database = "yes"
		}
		for _, context := range r.Contexts() {
			if n := r.ContextLen(context); n > 0 {
				t.AddRow(r.Kind(), database, context, n)
			}
		}
	}
	t.Print()
	return nil
}

func (b *builtinCommands) unused(out io.Writer, _ []string) error {
	for _, name := range b.m.UnusedScriptNames() {
		fmt.Fprintln(out, name)
	}
	return nil
}

func (b *builtinCommands) count(out io.Writer, _ []string) error {
	fmt.Fprintf(out, "%v scripts, generation %v\n", b.m.ScriptCount(), b.m.Generation())
	fmt.Fprintf(out, "%v pending deletes\n", b.m.PendingDeletes())
	current, total := b.m.CurrentAIs()
	fmt.Fprintf(out, "%v of %v entity AIs created in generation %v\n", current, total, b.m.Generation())
	return nil
}

func (b *builtinCommands) reload(out io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: reload [context]")
	}
	if b.m.reload == nil {
		return errors.New("dynamic script contexts are disabled")
	}
	if err := b.m.reload.Request(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(out, "Reload of %q requested\n", args[0])
	return nil
}
