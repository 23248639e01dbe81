package viewmodel

import "github.com/DoyleJ11/sheet-sync/pkg/event"

// Subscriber registers handlers for one event kind. pkg/client's Conn is the
// usual implementation.
type Subscriber interface {
	On(kind event.Kind, fn func(event.Event)) (off func())
}

// Applier is anything that folds events: a Reducer or a Roster.
type Applier interface {
	Schema() Schema
	Apply(ev event.Event) bool
}

// Bind subscribes v to every kind in its schema. The returned func removes
// exactly the handlers Bind added.
func Bind(sub Subscriber, v Applier) (unbind func()) {
	kinds := v.Schema().Kinds
	offs := make([]func(), 0, len(kinds))
	for _, k := range kinds {
		offs = append(offs, sub.On(k, func(ev event.Event) { v.Apply(ev) }))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}
