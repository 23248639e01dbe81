package viewmodel

import (
	"slices"

	"github.com/DoyleJ11/sheet-sync/pkg/event"
)

// Schema names the event kinds a view consumes. A reducer only subscribes to
// and applies these.
type Schema struct {
	Name  string
	Kinds []event.Kind
}

func (s Schema) Handles(k event.Kind) bool { return slices.Contains(s.Kinds, k) }

var sheetKinds = []event.Kind{
	event.KindNameChange,
	event.KindAttributeChange,
	event.KindAttributeStatusChange,
	event.KindInfoChange,
	event.KindCharacteristicChange,
	event.KindCurrencyChange,
	event.KindSkillChange,
	event.KindSpecChange,
	event.KindItemAdd, event.KindItemRemove, event.KindItemChange,
	event.KindWeaponAdd, event.KindWeaponRemove, event.KindWeaponChange,
	event.KindArmorAdd, event.KindArmorRemove, event.KindArmorChange,
	event.KindSpellAdd, event.KindSpellRemove, event.KindSpellChange,
	event.KindMaxLoadChange,
	event.KindSpellSlotsChange,
}

var (
	// SheetSchema is the player's own sheet.
	SheetSchema = Schema{Name: "sheet", Kinds: sheetKinds}

	// DetailsSchema is the admin panel showing one character at a time.
	DetailsSchema = Schema{Name: "details", Kinds: sheetKinds}

	// PortraitSchema drives the avatar overlay: the name and the status flags
	// that pick the avatar image.
	PortraitSchema = Schema{Name: "portrait", Kinds: []event.Kind{
		event.KindNameChange,
		event.KindAttributeStatusChange,
	}}
)
