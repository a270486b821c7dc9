package scriptcore

import (
	"bytes"
	"fmt"
	"iter"
	"log"
	"sync"

	"github.com/pkg/errors"

	goccy "github.com/goccy/go-json"
)

const (
	// StaticContext owns every script registered by the built-in loader.
	StaticContext = "___static___"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func WithStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(stackTracer); !ok {
		return errors.WithStack(err)
	}
	return err
}

func StackTrace(err error) string {
	buf := &bytes.Buffer{}
	if err, ok := err.(stackTracer); ok {
		for _, f := range err.StackTrace() {
			fmt.Fprintf(buf, "%+v\n", f)
		}
	}
	return buf.String()
}

// AbortError is the panic value of Abortf. It signals a configuration or
// programming defect that the process must not continue past.
type AbortError struct {
	Message string
	err     error
}

func (a *AbortError) Error() string {
	return a.Message
}

func (a *AbortError) StackTrace() errors.StackTrace {
	if st, ok := a.err.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

func Abortf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	err := &AbortError{Message: msg, err: errors.New(msg)}
	log.Printf("ABORT: %s\n%s", msg, StackTrace(err))
	panic(err)
}

func Assert(cond bool, format string, args ...any) {
	if !cond {
		Abortf(format, args...)
	}
}

// CatchAbort runs f and returns the AbortError it panicked with, if any.
// Other panics are propagated.
func CatchAbort(f func()) (result *AbortError) {
	defer func() {
		if r := recover(); r != nil {
			if a, ok := r.(*AbortError); ok {
				result = a
				return
			}
			panic(r)
		}
	}()
	f()
	return nil
}

type SyncMap[K comparable, V any] struct {
	m     map[K]V
	mutex sync.RWMutex
}

func NewSyncMap[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{
		m: map[K]V{},
	}
}

func (s *SyncMap[K, V]) Clone() map[K]V {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	result := map[K]V{}
	for k, v := range s.m {
		result[k] = v
	}
	return result
}

func (s *SyncMap[K, V]) MarshalJSON() ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return goccy.Marshal(s.m)
}

func (s *SyncMap[K, V]) Each() iter.Seq2[K, V] {
	return func(yield func(k K, v V) bool) {
		for k, v := range s.Clone() {
			if !yield(k, v) {
				return
			}
		}
	}
}

func (s *SyncMap[K, V]) GetHas(key K) (V, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	v, found := s.m[key]
	return v, found
}

func (s *SyncMap[K, V]) Set(key K, value V) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.m[key] = value
}

func (s *SyncMap[K, V]) Del(key K) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.m, key)
}

func (s *SyncMap[K, V]) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.m)
}

// Drain removes and returns every entry.
func (s *SyncMap[K, V]) Drain() map[K]V {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	result := s.m
	s.m = map[K]V{}
	return result
}
