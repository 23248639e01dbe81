package viewmodel

import (
	"slices"
	"sync"

	"github.com/DoyleJ11/sheet-sync/pkg/event"
	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

// RosterSchema is the admin dashboard: every sheet kind plus NPC lifecycle.
var RosterSchema = Schema{
	Name:  "roster",
	Kinds: append(slices.Clone(sheetKinds), event.KindNPCAdd, event.KindNPCRemove),
}

// Roster keeps the admin's character list and a details reducer for every
// sheet the caller chose to track.
type Roster struct {
	mu         sync.RWMutex
	characters []types.Character
	sheets     map[int]*Reducer
}

func NewRoster() *Roster {
	return &Roster{sheets: make(map[int]*Reducer)}
}

func (r *Roster) Schema() Schema { return RosterSchema }

// Reset replaces the character list. Tracked sheets of characters that are
// no longer listed are dropped.
func (r *Roster) Reset(characters []types.Character) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.characters = slices.Clone(characters)
	for id := range r.sheets {
		if !r.listed(id) {
			delete(r.sheets, id)
		}
	}
}

// Characters returns the current list. The slice is replaced, never
// modified, on change.
func (r *Roster) Characters() []types.Character {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.characters
}

// Track starts following a sheet and returns its reducer.
func (r *Roster) Track(sheet *types.Sheet, opts ...Option) *Reducer {
	red := New(DetailsSchema, opts...)
	red.Reset(sheet)
	r.mu.Lock()
	r.sheets[sheet.ID] = red
	r.mu.Unlock()
	return red
}

func (r *Roster) Untrack(id int) {
	r.mu.Lock()
	delete(r.sheets, id)
	r.mu.Unlock()
}

func (r *Roster) Sheet(id int) (*Reducer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	red, ok := r.sheets[id]
	return red, ok
}

func (r *Roster) Apply(ev event.Event) bool {
	id, ok := ev.CharacterID()
	if !ok || !RosterSchema.Handles(ev.Kind) {
		return false
	}

	switch ev.Kind {
	case event.KindNPCAdd:
		name, ok := ev.Str(1)
		if !ok {
			return false
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.listed(id) {
			return false
		}
		next := make([]types.Character, len(r.characters), len(r.characters)+1)
		copy(next, r.characters)
		r.characters = append(next, types.Character{ID: id, Name: name, Role: types.RoleNPC})
		return true

	case event.KindNPCRemove:
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.sheets, id)
		i := r.position(id)
		if i < 0 {
			return false
		}
		r.characters = slices.Concat(r.characters[:i], r.characters[i+1:])
		return true
	}

	changed := false
	if ev.Kind == event.KindNameChange {
		changed = r.rename(id, ev)
	}
	if red, ok := r.Sheet(id); ok && red.Apply(ev) {
		changed = true
	}
	return changed
}

func (r *Roster) rename(id int, ev event.Event) bool {
	name, ok := ev.Str(1)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.position(id)
	if i < 0 || r.characters[i].Name == name {
		return false
	}
	next := slices.Clone(r.characters)
	next[i].Name = name
	r.characters = next
	return true
}

func (r *Roster) position(id int) int {
	return slices.IndexFunc(r.characters, func(c types.Character) bool { return c.ID == id })
}

func (r *Roster) listed(id int) bool { return r.position(id) >= 0 }
