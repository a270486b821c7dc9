package js

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/zond/scriptcore"
)

const (
	defaultTimeout = 200 * time.Millisecond
)

// Program is a loaded script context. Its state survives between calls.
type Program struct {
	mu      sync.Mutex
	target  Target
	timeout time.Duration
	scripts []Registration
	events  map[string]bool
}

// Load runs source once to learn which scripts it registers and which
// events they handle.
func Load(ctx context.Context, source, origin string, console io.Writer, timeout time.Duration) (*Program, error) {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	p := &Program{
		target: Target{
			Source:  source,
			Origin:  origin,
			Console: console,
		},
		timeout: timeout,
	}
	res, err := p.target.Call(ctx, "", "", timeout)
	if err != nil {
		return nil, err
	}
	p.target.State = res.State
	p.scripts = res.Scripts
	p.events = map[string]bool{}
	for _, name := range res.Callbacks {
		p.events[name] = true
	}
	return p, nil
}

func (p *Program) Origin() string {
	return p.target.Origin
}

// Scripts returns the scripts the program registered, in order.
func (p *Program) Scripts() []Registration {
	return slices.Clone(p.scripts)
}

// Handles reports whether script registered a callback for event.
func (p *Program) Handles(script, event string) bool {
	return p.events[CallbackName(script, event)]
}

// Events returns the events script handles, sorted.
func (p *Program) Events(script string) []string {
	prefix := CallbackName(script, "")
	result := []string{}
	for name := range p.events {
		if strings.HasPrefix(name, prefix) {
			result = append(result, strings.TrimPrefix(name, prefix))
		}
	}
	slices.Sort(result)
	return result
}

// Call runs the event callback of script with message as argument, and
// decodes the return value into result unless it is nil.
func (p *Program) Call(ctx context.Context, script, event string, message any, result any) error {
	b, err := json.Marshal(message)
	if err != nil {
		return scriptcore.WithStack(err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	res, err := p.target.Call(ctx, CallbackName(script, event), string(b), p.timeout)
	if err != nil {
		return err
	}
	p.target.State = res.State
	if result != nil && res.Value != "null" {
		if err := json.Unmarshal([]byte(res.Value), result); err != nil {
			return scriptcore.WithStack(err)
		}
	}
	return nil
}

// State returns the JSON state of the program.
func (p *Program) State() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target.State
}
