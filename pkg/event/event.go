// Package event defines the typed events pushed to browser and Go clients
// and their positional wire encoding.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
)

var ErrMalformed = errors.New("malformed event")

type Kind string

const (
	KindNameChange            Kind = "nameChange"
	KindAttributeChange       Kind = "attributeChange"
	KindAttributeStatusChange Kind = "attributeStatusChange"
	KindInfoChange            Kind = "infoChange"
	KindCharacteristicChange  Kind = "characteristicChange"
	KindCurrencyChange        Kind = "currencyChange"
	KindSkillChange           Kind = "skillChange"
	KindSpecChange            Kind = "specChange"

	KindItemAdd      Kind = "itemAdd"
	KindItemRemove   Kind = "itemRemove"
	KindItemChange   Kind = "itemChange"
	KindWeaponAdd    Kind = "weaponAdd"
	KindWeaponRemove Kind = "weaponRemove"
	KindWeaponChange Kind = "weaponChange"
	KindArmorAdd     Kind = "armorAdd"
	KindArmorRemove  Kind = "armorRemove"
	KindArmorChange  Kind = "armorChange"
	KindSpellAdd     Kind = "spellAdd"
	KindSpellRemove  Kind = "spellRemove"
	KindSpellChange  Kind = "spellChange"

	KindMaxLoadChange    Kind = "maxLoadChange"
	KindSpellSlotsChange Kind = "spellSlotsChange"

	KindNPCAdd    Kind = "npcAdd"
	KindNPCRemove Kind = "npcRemove"
)

var allKinds = []Kind{
	KindNameChange, KindAttributeChange, KindAttributeStatusChange,
	KindInfoChange, KindCharacteristicChange, KindCurrencyChange, KindSkillChange, KindSpecChange,
	KindItemAdd, KindItemRemove, KindItemChange,
	KindWeaponAdd, KindWeaponRemove, KindWeaponChange,
	KindArmorAdd, KindArmorRemove, KindArmorChange,
	KindSpellAdd, KindSpellRemove, KindSpellChange,
	KindMaxLoadChange, KindSpellSlotsChange,
	KindNPCAdd, KindNPCRemove,
}

// Kinds returns every known event kind.
func Kinds() []Kind { return slices.Clone(allKinds) }

func (k Kind) Known() bool { return slices.Contains(allKinds, k) }

// Event is an immutable named tuple. Args[0] is always the owning character id.
type Event struct {
	Kind Kind
	args []any
}

func New(kind Kind, args ...any) Event {
	return Event{Kind: kind, args: slices.Clone(args)}
}

func (e Event) Len() int { return len(e.args) }

// Args returns a copy of the positional arguments.
func (e Event) Args() []any { return slices.Clone(e.args) }

func (e Event) CharacterID() (int, bool) { return e.Int(0) }

func (e Event) String() string {
	return fmt.Sprintf("%s%v", e.Kind, e.args)
}

// Int reads argument i as an integer. Decoded JSON numbers arrive as float64.
func (e Event) Int(i int) (int, bool) {
	if i < 0 || i >= len(e.args) {
		return 0, false
	}
	switch v := e.args[i].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func (e Event) Float(i int) (float64, bool) {
	if i < 0 || i >= len(e.args) {
		return 0, false
	}
	switch v := e.args[i].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func (e Event) Str(i int) (string, bool) {
	if i < 0 || i >= len(e.args) {
		return "", false
	}
	s, ok := e.args[i].(string)
	return s, ok
}

func (e Event) Bool(i int) (bool, bool) {
	if i < 0 || i >= len(e.args) {
		return false, false
	}
	b, ok := e.args[i].(bool)
	return b, ok
}

type wireEvent struct {
	Event Kind  `json:"event"`
	Args  []any `json:"args"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	args := e.args
	if args == nil {
		args = []any{}
	}
	return json.Marshal(wireEvent{Event: e.Kind, Args: args})
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if w.Event == "" {
		return fmt.Errorf("%w: missing event name", ErrMalformed)
	}
	e.Kind = w.Event
	e.args = w.Args
	return nil
}

// Decode parses one wire frame.
func Decode(data []byte) (Event, error) {
	var e Event
	if err := e.UnmarshalJSON(data); err != nil {
		return Event{}, err
	}
	return e, nil
}
