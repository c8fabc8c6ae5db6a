// Package observe provides ready-made observers for instrumented patterns:
// fan-out helpers that dispatch one match event to several callbacks, and a
// Recorder that collects events for inspection in tests and tooling.
package observe

import (
	"github.com/bundletools/contextspy/pkg/instrument"
	"github.com/bundletools/contextspy/pkg/pattern"
)

// EventKind distinguishes context notifications from module notifications.
type EventKind string

// Event kinds recorded by Recorder.
const (
	KindContext EventKind = "context"
	KindModule  EventKind = "module"
)

// Event is one recorded notification. Module is empty for context events.
type Event struct {
	Kind    EventKind
	Context string
	Module  string
}

// Recorder collects notifications in arrival order. Like the Instrumenter
// that feeds it, a Recorder is NOT safe for concurrent use.
type Recorder struct {
	events []Event
}

// OnContext is a ContextFunc that records the event.
func (r *Recorder) OnContext(contextPath string, _, _ pattern.Pattern) {
	r.events = append(r.events, Event{Kind: KindContext, Context: contextPath})
}

// OnModule is a ModuleFunc that records the event.
func (r *Recorder) OnModule(modulePath, contextPath string, _, _ pattern.Pattern) {
	r.events = append(r.events, Event{Kind: KindModule, Context: contextPath, Module: modulePath})
}

// Events returns the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	return r.events
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.events = nil
}

// MultiContext combines several context observers into one that invokes each
// in order. Nil entries are skipped; combining zero non-nil observers yields
// nil, which the instrumenter treats as "no callback".
func MultiContext(fns ...instrument.ContextFunc) instrument.ContextFunc {
	active := make([]instrument.ContextFunc, 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			active = append(active, fn)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(contextPath string, contextPattern, modulePattern pattern.Pattern) {
		for _, fn := range active {
			fn(contextPath, contextPattern, modulePattern)
		}
	}
}

// MultiModule combines several module observers into one, mirroring
// MultiContext.
func MultiModule(fns ...instrument.ModuleFunc) instrument.ModuleFunc {
	active := make([]instrument.ModuleFunc, 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			active = append(active, fn)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(modulePath, contextPath string, contextPattern, modulePattern pattern.Pattern) {
		for _, fn := range active {
			fn(modulePath, contextPath, contextPattern, modulePattern)
		}
	}
}
