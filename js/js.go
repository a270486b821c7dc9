// Package js runs script contexts written in JavaScript.
//
// A context source is run from scratch on every call, on one of a pool of
// V8 isolates. Anything it wants to keep between calls goes in the global
// `state` object, which is round tripped as JSON.
package js

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/zond/scriptcore"
	"rogchap.com/v8go"
)

const (
	stateName = "state"
)

var (
	machines chan *machine
)

func init() {
	machines = make(chan *machine, runtime.NumCPU())
	for i := 0; i < runtime.NumCPU(); i++ {
		m, err := newMachine()
		if err != nil {
			log.Panic(err)
		}
		machines <- m
	}
}

type machine struct {
	iso                    *v8go.Isolate
	unableToGenerateString *v8go.Value
}

func newMachine() (*machine, error) {
	m := &machine{
		iso: v8go.NewIsolate(),
	}
	var err error
	if m.unableToGenerateString, err = v8go.NewValue(m.iso, "unable to generate exception"); err != nil {
		return nil, scriptcore.WithStack(err)
	}
	return m, nil
}

type Callbacks map[string]func(rc *RunContext, info *v8go.FunctionCallbackInfo) *v8go.Value

// Registration is a script a context declared with registerScript.
type Registration struct {
	Kind string
	Name string
}

type Target struct {
	Source    string
	Origin    string
	State     string
	Callbacks Callbacks
	Console   io.Writer
}

type Result struct {
	State string
	// Callbacks are the names of the registered callbacks, script name
	// and event joined by a dot.
	Callbacks []string
	Scripts   []Registration
	Value     string
}

type RunContext struct {
	m             *machine
	vctx          *v8go.Context
	t             *Target
	script        string
	callbacks     map[string]*v8go.Function
	registrations []Registration
}

// CallbackName is the name a callback for event, registered after
// registerScript(kind, script), is known by.
func CallbackName(script, event string) string {
	if script == "" {
		return event
	}
	return script + "." + event
}

func (rc *RunContext) Context() *v8go.Context {
	return rc.vctx
}

func (rc *RunContext) log(format string, args ...any) {
	if rc.t.Console != nil {
		log.New(rc.t.Console, "", 0).Printf(format, args...)
	}
}

func (rc *RunContext) String(s string) *v8go.Value {
	if res, err := v8go.NewValue(rc.m.iso, s); err == nil {
		return res
	}
	return rc.m.unableToGenerateString
}

func (rc *RunContext) Throw(format string, args ...any) *v8go.Value {
	return rc.m.iso.ThrowException(rc.String(fmt.Sprintf(format, args...)))
}

func registerJSScript(rc *RunContext, info *v8go.FunctionCallbackInfo) *v8go.Value {
	args := info.Args()
	if len(args) == 2 && args[0].IsString() && args[1].IsString() {
		rc.script = args[1].String()
		rc.registrations = append(rc.registrations, Registration{
			Kind: args[0].String(),
			Name: rc.script,
		})
		return nil
	}
	return rc.Throw("registerScript takes [string, string] arguments")
}

func addJSCallback(rc *RunContext, info *v8go.FunctionCallbackInfo) *v8go.Value {
	args := info.Args()
	if len(args) == 2 && args[0].IsString() && args[1].IsFunction() {
		fun, err := args[1].AsFunction()
		if err != nil {
			return rc.Throw("trying to cast %v to *v8go.Function: %v", args[1], err)
		}
		rc.callbacks[CallbackName(rc.script, args[0].String())] = fun
		return nil
	}
	return rc.Throw("addCallback takes [string, function] arguments")
}

func removeJSCallback(rc *RunContext, info *v8go.FunctionCallbackInfo) *v8go.Value {
	args := info.Args()
	if len(args) == 1 && args[0].IsString() {
		delete(rc.callbacks, CallbackName(rc.script, args[0].String()))
		return nil
	}
	return rc.Throw("removeCallback takes [string] arguments")
}

func logFunc(w io.Writer) func(*RunContext, *v8go.FunctionCallbackInfo) *v8go.Value {
	return func(ctx *RunContext, info *v8go.FunctionCallbackInfo) *v8go.Value {
		anyArgs := []any{}
		for _, arg := range info.Args() {
			stringArg := arg.String()
			if stringArg == "[object Object]" {
				jsonArg, err := v8go.JSONStringify(ctx.Context(), arg)
				if err == nil {
					stringArg = jsonArg
				}
			}
			anyArgs = append(anyArgs, stringArg)
		}
		log.New(w, "", 0).Println(anyArgs...)
		return nil
	}
}

func (rc *RunContext) addCallback(
	name string,
	f func(*RunContext, *v8go.FunctionCallbackInfo) *v8go.Value,
) error {
	return scriptcore.WithStack(
		rc.vctx.Global().Set(
			name,
			v8go.NewFunctionTemplate(
				rc.m.iso,
				func(info *v8go.FunctionCallbackInfo) *v8go.Value {
					return f(rc, info)
				},
			).GetFunction(rc.vctx),
		),
	)
}

func (rc *RunContext) prepareV8Context(timeout *time.Duration) error {
	for name, fun := range rc.t.Callbacks {
		if err := rc.addCallback(
			name,
			fun,
		); err != nil {
			return scriptcore.WithStack(err)
		}
	}
	for _, cb := range []struct {
		name string
		fun  func(*RunContext, *v8go.FunctionCallbackInfo) *v8go.Value
	}{
		{
			name: "registerScript",
			fun:  registerJSScript,
		},
		{
			name: "addCallback",
			fun:  addJSCallback,
		},
		{
			name: "removeCallback",
			fun:  removeJSCallback,
		},
	} {
		if err := rc.addCallback(cb.name, cb.fun); err != nil {
			return scriptcore.WithStack(err)
		}
	}
	if rc.t.Console != nil {
		if err := rc.addCallback("log", logFunc(rc.t.Console)); err != nil {
			return scriptcore.WithStack(err)
		}
	}

	stateJSON := rc.t.State
	if stateJSON == "" {
		stateJSON = "{}"
	}
	startTime := time.Now()
	stateValue, err := v8go.JSONParse(rc.vctx, stateJSON)
	*timeout -= time.Since(startTime)
	if err != nil {
		return scriptcore.WithStack(err)
	}
	if err := rc.vctx.Global().Set(stateName, stateValue); err != nil {
		return scriptcore.WithStack(err)
	}
	return nil
}

var (
	ErrTimeout = errors.New("Timeout")
)

type result struct {
	value *v8go.Value
	err   error
}

func (rc *RunContext) withTimeout(ctx context.Context, f func() (*v8go.Value, error), timeout *time.Duration) (*v8go.Value, error) {
	results := make(chan result, 1)
	go func() {
		t := time.Now()
		val, err := f()
		*timeout -= time.Since(t)
		results <- result{value: val, err: err}
	}()

	select {
	case res := <-results:
		if res.err != nil {
			rc.log("-- error in %q --\n%v\n", rc.t.Origin, res.err)
		}
		return res.value, scriptcore.WithStack(res.err)
	case <-ctx.Done():
		rc.m.iso.TerminateExecution()
		<-results
		return nil, scriptcore.WithStack(ctx.Err())
	case <-time.After(*timeout):
		rc.m.iso.TerminateExecution()
		<-results
		return nil, scriptcore.WithStack(ErrTimeout)
	}
}

// Call runs the source, then the callback named callbackName with message
// parsed as JSON as its argument. An empty callbackName only runs the
// source.
func (t Target) Call(ctx context.Context, callbackName string, message string, timeout time.Duration) (*Result, error) {
	m := <-machines
	defer func() { machines <- m }()

	rc := &RunContext{
		m:         m,
		vctx:      v8go.NewContext(m.iso),
		t:         &t,
		callbacks: map[string]*v8go.Function{},
	}
	defer rc.vctx.Close()

	if err := rc.prepareV8Context(&timeout); err != nil {
		return nil, scriptcore.WithStack(err)
	}

	if _, err := rc.withTimeout(ctx, func() (*v8go.Value, error) {
		return rc.vctx.RunScript(t.Source, t.Origin)
	}, &timeout); err != nil {
		return nil, scriptcore.WithStack(err)
	}

	jsCB, found := rc.callbacks[callbackName]
	if !found {
		return collectResult(rc, nil)
	}

	var val *v8go.Value
	if message != "" {
		var err error
		start := time.Now()
		if val, err = v8go.JSONParse(rc.vctx, message); err != nil {
			return nil, scriptcore.WithStack(err)
		}
		timeout -= time.Since(start)
	}

	if val, err := rc.withTimeout(ctx, func() (*v8go.Value, error) {
		if val != nil {
			return jsCB.Call(rc.vctx.Global(), val)
		} else {
			return jsCB.Call(rc.vctx.Global())
		}
	}, &timeout); err != nil {
		return nil, scriptcore.WithStack(err)
	} else {
		return collectResult(rc, val)
	}
}

func collectResult(rc *RunContext, value *v8go.Value) (*Result, error) {
	valueJSON := "null"
	if value != nil && !value.IsUndefined() && !value.IsNull() {
		var err error
		valueJSON, err = v8go.JSONStringify(rc.vctx, value)
		if err != nil {
			return nil, scriptcore.WithStack(err)
		}
	}
	result := &Result{
		Value:   valueJSON,
		Scripts: rc.registrations,
	}
	stateValue, err := rc.vctx.Global().Get(stateName)
	if err != nil {
		return nil, scriptcore.WithStack(err)
	}
	if result.State, err = v8go.JSONStringify(rc.vctx, stateValue); err != nil {
		return nil, scriptcore.WithStack(err)
	}
	for name := range rc.callbacks {
		result.Callbacks = append(result.Callbacks, name)
	}
	return result, nil
}
