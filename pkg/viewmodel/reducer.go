// Package viewmodel folds pushed events into an immutable local copy of a
// character sheet.
//
// Each change produces a new *types.Sheet. Collections that were not touched
// keep their backing slice, and inside a touched collection only the changed
// entry gets a new pointer, so a renderer can compare by identity.
package viewmodel

import (
	"sync"
	"sync/atomic"

	"github.com/DoyleJ11/sheet-sync/pkg/event"
	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

// Reducer holds the state of one view focused on one character. Events for
// any other character, or of kinds outside the schema, are ignored.
//
// State may be read from any goroutine. Apply and Reset serialize.
type Reducer struct {
	schema   Schema
	mu       sync.Mutex
	state    atomic.Pointer[types.Sheet]
	onChange func(prev, next *types.Sheet)
}

type Option func(*Reducer)

// WithOnChange registers fn to run after every applied change, on the
// goroutine that called Apply or Reset.
func WithOnChange(fn func(prev, next *types.Sheet)) Option {
	return func(r *Reducer) { r.onChange = fn }
}

func New(schema Schema, opts ...Option) *Reducer {
	r := &Reducer{schema: schema}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Reducer) Schema() Schema { return r.schema }

// State returns the current sheet, or nil before the first Reset. The result
// must be treated as read-only.
func (r *Reducer) State() *types.Sheet { return r.state.Load() }

// Focus returns the character id the reducer is bound to.
func (r *Reducer) Focus() (int, bool) {
	s := r.state.Load()
	if s == nil {
		return 0, false
	}
	return s.ID, true
}

// Reset installs a new baseline, typically a freshly fetched snapshot.
// The reducer keeps its own copy. A nil snapshot clears the focus.
func (r *Reducer) Reset(snapshot *types.Sheet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.state.Load()
	next := snapshot.Clone()
	r.state.Store(next)
	if r.onChange != nil {
		r.onChange(prev, next)
	}
}

// Apply folds ev into the state and reports whether anything changed.
// Events that are malformed, irrelevant or refer to entries not present are
// dropped without error.
func (r *Reducer) Apply(ev event.Event) bool {
	if !r.schema.Handles(ev.Kind) {
		return false
	}
	fn, ok := reducers[ev.Kind]
	if !ok {
		return false
	}
	id, ok := ev.CharacterID()
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.state.Load()
	if cur == nil || cur.ID != id {
		return false
	}
	next := *cur
	if !fn(&next, &args{ev: ev, ok: true}) {
		return false
	}
	r.state.Store(&next)
	if r.onChange != nil {
		r.onChange(cur, &next)
	}
	return true
}

// args reads positional arguments and remembers whether any read failed.
type args struct {
	ev event.Event
	ok bool
}

func (a *args) int(i int) int {
	v, ok := a.ev.Int(i)
	a.ok = a.ok && ok
	return v
}

// intOr reads an optional trailing argument. Missing or non-positive values
// fall back to def.
func (a *args) intOr(i, def int) int {
	if v, ok := a.ev.Int(i); ok && v > 0 {
		return v
	}
	return def
}

func (a *args) float(i int) float64 {
	v, ok := a.ev.Float(i)
	a.ok = a.ok && ok
	return v
}

func (a *args) str(i int) string {
	v, ok := a.ev.Str(i)
	a.ok = a.ok && ok
	return v
}

func (a *args) bool(i int) bool {
	v, ok := a.ev.Bool(i)
	a.ok = a.ok && ok
	return v
}

// reduceFunc edits a shallow copy of the sheet. It replaces, never mutates,
// the slices it touches.
type reduceFunc func(s *types.Sheet, a *args) bool

func replace[T comparable, P interface {
	*T
	Entry
}](list *[]P, id int, fn func(*T)) bool {
	out, ok := Replace(*list, id, func(p P) (P, bool) {
		c := *p
		fn(&c)
		if c == *p {
			return p, false
		}
		return P(&c), true
	})
	*list = out
	return ok
}

func appendTo[P Entry](list *[]P, e P) bool {
	out, ok := Append(*list, e)
	*list = out
	return ok
}

func removeFrom[P Entry](list *[]P, id int) bool {
	out, ok := Remove(*list, id)
	*list = out
	return ok
}

var reducers = map[event.Kind]reduceFunc{
	event.KindNameChange: func(s *types.Sheet, a *args) bool {
		name := a.str(1)
		if !a.ok || name == s.Name {
			return false
		}
		s.Name = name
		return true
	},
	event.KindAttributeChange: func(s *types.Sheet, a *args) bool {
		id, v, mx, ex := a.int(1), a.int(2), a.int(3), a.int(4)
		if !a.ok {
			return false
		}
		return replace(&s.Attributes, id, func(e *types.AttributeValue) {
			e.Value, e.MaxValue, e.ExtraValue = v, mx, ex
		})
	},
	event.KindAttributeStatusChange: func(s *types.Sheet, a *args) bool {
		id, v := a.int(1), a.bool(2)
		if !a.ok {
			return false
		}
		return replace(&s.Statuses, id, func(e *types.AttributeStatus) { e.Value = v })
	},
	event.KindInfoChange: func(s *types.Sheet, a *args) bool {
		id, v := a.int(1), a.str(2)
		if !a.ok {
			return false
		}
		return replace(&s.Info, id, func(e *types.Info) { e.Value = v })
	},
	event.KindCharacteristicChange: func(s *types.Sheet, a *args) bool {
		id, v, mod := a.int(1), a.int(2), a.int(3)
		if !a.ok {
			return false
		}
		return replace(&s.Characteristics, id, func(e *types.Characteristic) {
			e.Value, e.Modifier = v, mod
		})
	},
	event.KindCurrencyChange: func(s *types.Sheet, a *args) bool {
		id, v := a.int(1), a.int(2)
		if !a.ok {
			return false
		}
		return replace(&s.Currencies, id, func(e *types.Currency) { e.Value = v })
	},
	event.KindSkillChange: func(s *types.Sheet, a *args) bool {
		id, v := a.int(1), a.int(2)
		if !a.ok {
			return false
		}
		return replace(&s.Skills, id, func(e *types.Skill) { e.Value = v })
	},
	event.KindSpecChange: func(s *types.Sheet, a *args) bool {
		id, v := a.int(1), a.str(2)
		if !a.ok {
			return false
		}
		return replace(&s.Specs, id, func(e *types.Spec) { e.Value = v })
	},

	event.KindItemAdd: func(s *types.Sheet, a *args) bool {
		it := &types.Item{ID: a.int(1), Name: a.str(2), Description: a.str(3), Weight: a.float(4), Quantity: a.intOr(5, 1)}
		return a.ok && appendTo(&s.Items, it)
	},
	event.KindItemRemove: func(s *types.Sheet, a *args) bool {
		id := a.int(1)
		return a.ok && removeFrom(&s.Items, id)
	},
	event.KindItemChange: func(s *types.Sheet, a *args) bool {
		id, desc, qty := a.int(1), a.str(2), a.int(3)
		if !a.ok {
			return false
		}
		return replace(&s.Items, id, func(e *types.Item) { e.Description, e.Quantity = desc, qty })
	},
	event.KindWeaponAdd: func(s *types.Sheet, a *args) bool {
		w := &types.Weapon{ID: a.int(1), Name: a.str(2), Description: a.str(3), Damage: a.str(4), Weight: a.float(5)}
		return a.ok && appendTo(&s.Weapons, w)
	},
	event.KindWeaponRemove: func(s *types.Sheet, a *args) bool {
		id := a.int(1)
		return a.ok && removeFrom(&s.Weapons, id)
	},
	event.KindWeaponChange: func(s *types.Sheet, a *args) bool {
		id, desc := a.int(1), a.str(2)
		if !a.ok {
			return false
		}
		return replace(&s.Weapons, id, func(e *types.Weapon) { e.Description = desc })
	},
	event.KindArmorAdd: func(s *types.Sheet, a *args) bool {
		ar := &types.Armor{ID: a.int(1), Name: a.str(2), Description: a.str(3), Weight: a.float(4)}
		return a.ok && appendTo(&s.Armors, ar)
	},
	event.KindArmorRemove: func(s *types.Sheet, a *args) bool {
		id := a.int(1)
		return a.ok && removeFrom(&s.Armors, id)
	},
	event.KindArmorChange: func(s *types.Sheet, a *args) bool {
		id, desc := a.int(1), a.str(2)
		if !a.ok {
			return false
		}
		return replace(&s.Armors, id, func(e *types.Armor) { e.Description = desc })
	},
	event.KindSpellAdd: func(s *types.Sheet, a *args) bool {
		sp := &types.Spell{ID: a.int(1), Name: a.str(2), Description: a.str(3), Slots: a.int(4)}
		return a.ok && appendTo(&s.Spells, sp)
	},
	event.KindSpellRemove: func(s *types.Sheet, a *args) bool {
		id := a.int(1)
		return a.ok && removeFrom(&s.Spells, id)
	},
	event.KindSpellChange: func(s *types.Sheet, a *args) bool {
		id, desc := a.int(1), a.str(2)
		if !a.ok {
			return false
		}
		return replace(&s.Spells, id, func(e *types.Spell) { e.Description = desc })
	},

	event.KindMaxLoadChange: func(s *types.Sheet, a *args) bool {
		v := a.int(1)
		if !a.ok || v == s.MaxLoad {
			return false
		}
		s.MaxLoad = v
		return true
	},
	event.KindSpellSlotsChange: func(s *types.Sheet, a *args) bool {
		v := a.int(1)
		if !a.ok || v == s.SpellSlots {
			return false
		}
		s.SpellSlots = v
		return true
	},
}
