// Package reload loads the dynamic script contexts from a directory of JS
// files, and reloads them at the simulation safe point when asked to.
package reload

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/zond/scriptcore"
	"github.com/zond/scriptcore/js"
	"github.com/zond/scriptcore/js/imports"
	"github.com/zond/scriptcore/lang"
	"github.com/zond/scriptcore/registry"
	"github.com/zond/scriptcore/scripts"
	"github.com/zond/scriptcore/storage"
	"golang.org/x/time/rate"
)

// Host is the script manager as seen by the reload manager.
type Host interface {
	SetScriptContext(context string)
	AddScript(s scripts.Script)
	ReleaseScriptContext(context string)
	SwapScriptContext(initialize bool)
	ContextOfScriptName(name string) (string, bool)
	ScriptCount() int
	Generation() uint64
}

type Auditor interface {
	Log(event string, data storage.AuditData)
}

type Options struct {
	Dir  string
	Host Host
	// Timeout bounds every JS call.
	Timeout time.Duration
	// Console receives the output of the JS log function.
	Console io.Writer
	Audit   Auditor
	Logger  registry.Logger
	// RequestInterval is the minimum interval between accepted Request
	// calls, after an initial burst of RequestBurst.
	RequestInterval time.Duration
	RequestBurst    int
}

type Mgr struct {
	opts     Options
	resolver *imports.Resolver
	requests *scriptcore.SyncMap[string, bool]
	known    *scriptcore.SyncMap[string, bool]
	limiter  *rate.Limiter
}

func New(opts Options) *Mgr {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.RequestBurst == 0 {
		opts.RequestBurst = 1
	}
	limit := rate.Inf
	if opts.RequestInterval > 0 {
		limit = rate.Every(opts.RequestInterval)
	}
	return &Mgr{
		opts:     opts,
		resolver: imports.NewResolver(),
		requests: scriptcore.NewSyncMap[string, bool](),
		known:    scriptcore.NewSyncMap[string, bool](),
		limiter:  rate.NewLimiter(limit, opts.RequestBurst),
	}
}

func (m *Mgr) audit(event string, data storage.AuditData) {
	if m.opts.Audit != nil {
		m.opts.Audit.Log(event, data)
	}
}

func (m *Mgr) path(context string) string {
	return filepath.Join(m.opts.Dir, context+".js")
}

// contextOf returns the context whose root file is path.
func (m *Mgr) contextOf(path string) (string, bool) {
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(m.opts.Dir) || !isScriptFile(path) {
		return "", false
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), true
}

// Contexts returns the names of the contexts on disk, sorted.
func (m *Mgr) Contexts() ([]string, error) {
	entries, err := os.ReadDir(m.opts.Dir)
	if err != nil {
		return nil, scriptcore.WithStack(err)
	}
	result := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if context, ok := m.contextOf(filepath.Join(m.opts.Dir, entry.Name())); ok {
			result = append(result, context)
		}
	}
	slices.Sort(result)
	return result, nil
}

// prepare loads the scripts of the named context without registering them.
func (m *Mgr) prepare(name string) ([]scripts.Script, error) {
	root := m.path(name)
	resolved, err := m.resolver.Resolve(root, os.ReadFile)
	if err != nil {
		return nil, err
	}
	program, err := js.Load(context.Background(), resolved.Source, root, m.opts.Console, m.opts.Timeout)
	if err != nil {
		return nil, err
	}
	result, err := program.NewScripts()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, s := range result {
		if seen[s.Name()] {
			return nil, errors.Errorf("%s registers script %q twice", root, s.Name())
		}
		seen[s.Name()] = true
		if owner, found := m.opts.Host.ContextOfScriptName(s.Name()); found && owner != name {
			return nil, errors.Errorf("%s registers script %q, already registered by context %q", root, s.Name(), owner)
		}
	}
	return result, nil
}

func (m *Mgr) add(context string, created []scripts.Script) {
	m.opts.Host.SetScriptContext(context)
	for _, s := range created {
		m.opts.Host.AddScript(s)
	}
	m.known.Set(context, true)
}

// Initialize registers the scripts of every context on disk. Contexts that
// fail to load are logged and skipped.
func (m *Mgr) Initialize() error {
	contexts, err := m.Contexts()
	if err != nil {
		return err
	}
	failed := 0
	for _, context := range contexts {
		created, err := m.prepare(context)
		if err != nil {
			failed++
			m.opts.Logger.Printf("Loading script context %q: %v", context, err)
			m.audit("RELOAD_FAILED", storage.AuditReloadFailed{Context: context, Error: err.Error()})
			continue
		}
		m.add(context, created)
	}
	if failed > 0 {
		return errors.Errorf("%v of %v script contexts failed to load", failed, len(contexts))
	}
	return nil
}

// Request schedules a reload of context at the next Drain. It is safe to
// call from any goroutine.
func (m *Mgr) Request(context string) error {
	if context == "" || strings.ContainsAny(context, `/\`) {
		return errors.Errorf("invalid script context %q", context)
	}
	if _, known := m.known.GetHas(context); !known {
		if _, err := os.Stat(m.path(context)); err != nil {
			return errors.Errorf("unknown script context %q", context)
		}
	}
	if !m.limiter.Allow() {
		return errors.Errorf("too many reload requests, try again later")
	}
	m.requests.Set(context, true)
	return nil
}

// RequestPath schedules a reload of every context that includes the file
// at path, and returns them.
func (m *Mgr) RequestPath(path string) []string {
	contexts := []string{}
	for _, root := range m.resolver.Invalidate(path) {
		if context, ok := m.contextOf(root); ok {
			contexts = append(contexts, context)
		}
	}
	if context, ok := m.contextOf(path); ok && !slices.Contains(contexts, context) {
		contexts = append(contexts, context)
	}
	for _, context := range contexts {
		m.requests.Set(context, true)
	}
	return contexts
}

// Pending returns the number of requested reloads.
func (m *Mgr) Pending() int {
	return m.requests.Len()
}

// Drain reloads every requested context. It must run on the simulation
// thread, between ticks.
func (m *Mgr) Drain() []string {
	requested := m.requests.Drain()
	contexts := make([]string, 0, len(requested))
	for context := range requested {
		contexts = append(contexts, context)
	}
	slices.Sort(contexts)
	reloaded := []string{}
	for _, context := range contexts {
		if err := m.reload(context); err != nil {
			m.opts.Logger.Printf("Reloading script context %q: %v", context, err)
			m.audit("RELOAD_FAILED", storage.AuditReloadFailed{Context: context, Error: err.Error()})
			continue
		}
		reloaded = append(reloaded, context)
	}
	return reloaded
}

// reload swaps the scripts of context for freshly loaded ones. The old
// scripts are kept if the new ones can't be loaded. A context whose file is
// gone is released.
func (m *Mgr) reload(context string) error {
	m.resolver.Invalidate(m.path(context))
	var created []scripts.Script
	if _, err := os.Stat(m.path(context)); err == nil {
		if created, err = m.prepare(context); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return scriptcore.WithStack(err)
	}

	m.opts.Host.ReleaseScriptContext(context)
	m.audit("CONTEXT_RELEASED", storage.AuditContextReleased{Context: context})
	if created != nil {
		m.add(context, created)
	} else {
		m.known.Del(context)
	}
	m.opts.Host.SwapScriptContext(false)
	m.audit("CONTEXT_SWAPPED", storage.AuditContextSwapped{
		Context:    context,
		Generation: m.opts.Host.Generation(),
		Scripts:    m.opts.Host.ScriptCount(),
	})
	m.opts.Logger.Printf("Reloaded script context %q with %v scripts", context, len(created))
	return nil
}

// Watch requests reloads of the contexts affected by file changes until
// ctx is done.
func (m *Mgr) Watch(ctx context.Context, debounce time.Duration) error {
	w, err := NewWatcher(m.opts.Dir, debounce)
	if err != nil {
		return err
	}
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			if contexts := m.RequestPath(path); len(contexts) > 0 {
				m.opts.Logger.Printf("%s changed, reloading %s", path, lang.Enumerator{Pattern: "%q"}.Do(contexts...))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.opts.Logger.Printf("Watching %s: %v", m.opts.Dir, err)
		}
	}
}
