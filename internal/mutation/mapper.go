// Package mutation turns committed writes into typed events. Callers invoke
// it only after the store has returned successfully.
package mutation

import (
	"fmt"

	"github.com/DoyleJ11/sheet-sync/internal/room"
	"github.com/DoyleJ11/sheet-sync/internal/store"
	"github.com/DoyleJ11/sheet-sync/pkg/event"
	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

// Publisher is satisfied by *hub.Hub.
type Publisher interface {
	Publish(r room.Room, ev event.Event)
}

// Rooms returns the rooms an event for characterID goes to. Portrait rooms
// only see the name and status flags, which is all the avatar needs.
func Rooms(kind event.Kind, characterID int) []room.Room {
	switch kind {
	case event.KindNPCAdd, event.KindNPCRemove:
		return []room.Room{room.Admin()}
	case event.KindNameChange, event.KindAttributeStatusChange:
		return []room.Room{room.Player(characterID), room.Portrait(characterID), room.Admin()}
	default:
		return []room.Room{room.Player(characterID), room.Admin()}
	}
}

type Mapper struct {
	pub Publisher
}

func NewMapper(pub Publisher) *Mapper { return &Mapper{pub: pub} }

func (m *Mapper) emit(ev event.Event) event.Event {
	id, _ := ev.CharacterID()
	for _, r := range Rooms(ev.Kind, id) {
		m.pub.Publish(r, ev)
	}
	return ev
}

// CharacterUpdated emits one event per field present in the patch, carrying
// the committed value.
func (m *Mapper) CharacterUpdated(p store.CharacterPatch, st store.CharacterState) []event.Event {
	var out []event.Event
	if p.Name != nil {
		out = append(out, m.emit(event.NameChange(st.ID, st.Name)))
	}
	if p.MaxLoad != nil {
		out = append(out, m.emit(event.MaxLoadChange(st.ID, st.MaxLoad)))
	}
	if p.SpellSlots != nil {
		out = append(out, m.emit(event.SpellSlotsChange(st.ID, st.SpellSlots)))
	}
	return out
}

func (m *Mapper) AttributeChanged(characterID int, a types.AttributeValue) event.Event {
	return m.emit(event.AttributeChange(characterID, a.ID, a.Value, a.MaxValue, a.ExtraValue))
}

func (m *Mapper) StatusChanged(characterID int, s types.AttributeStatus) event.Event {
	return m.emit(event.AttributeStatusChange(characterID, s.ID, s.Value))
}

func (m *Mapper) InfoChanged(characterID int, i types.Info) event.Event {
	return m.emit(event.InfoChange(characterID, i.ID, i.Value))
}

func (m *Mapper) CharacteristicChanged(characterID int, c types.Characteristic) event.Event {
	return m.emit(event.CharacteristicChange(characterID, c.ID, c.Value, c.Modifier))
}

func (m *Mapper) CurrencyChanged(characterID int, c types.Currency) event.Event {
	return m.emit(event.CurrencyChange(characterID, c.ID, c.Value))
}

func (m *Mapper) SkillChanged(characterID int, s types.Skill) event.Event {
	return m.emit(event.SkillChange(characterID, s.ID, s.Value))
}

func (m *Mapper) SpecChanged(characterID int, s types.Spec) event.Event {
	return m.emit(event.SpecChange(characterID, s.ID, s.Value))
}

func (m *Mapper) ItemAdded(characterID int, it types.Item) event.Event {
	return m.emit(event.ItemAdd(characterID, it.ID, it.Name, it.Description, it.Weight, it.Quantity))
}

func (m *Mapper) ItemChanged(characterID int, it types.Item) event.Event {
	return m.emit(event.ItemChange(characterID, it.ID, it.Description, it.Quantity))
}

func (m *Mapper) WeaponAdded(characterID int, w types.Weapon) event.Event {
	return m.emit(event.WeaponAdd(characterID, w.ID, w.Name, w.Description, w.Damage, w.Weight))
}

func (m *Mapper) WeaponChanged(characterID int, w types.Weapon) event.Event {
	return m.emit(event.WeaponChange(characterID, w.ID, w.Description))
}

func (m *Mapper) ArmorAdded(characterID int, a types.Armor) event.Event {
	return m.emit(event.ArmorAdd(characterID, a.ID, a.Name, a.Description, a.Weight))
}

func (m *Mapper) ArmorChanged(characterID int, a types.Armor) event.Event {
	return m.emit(event.ArmorChange(characterID, a.ID, a.Description))
}

func (m *Mapper) SpellAdded(characterID int, s types.Spell) event.Event {
	return m.emit(event.SpellAdd(characterID, s.ID, s.Name, s.Description, s.Slots))
}

func (m *Mapper) SpellChanged(characterID int, s types.Spell) event.Event {
	return m.emit(event.SpellChange(characterID, s.ID, s.Description))
}

func (m *Mapper) EntryRemoved(c types.Collection, characterID, entryID int) (event.Event, error) {
	var ev event.Event
	switch c {
	case types.Items:
		ev = event.ItemRemove(characterID, entryID)
	case types.Weapons:
		ev = event.WeaponRemove(characterID, entryID)
	case types.Armors:
		ev = event.ArmorRemove(characterID, entryID)
	case types.Spells:
		ev = event.SpellRemove(characterID, entryID)
	default:
		return event.Event{}, fmt.Errorf("no remove event for %s", c)
	}
	return m.emit(ev), nil
}

func (m *Mapper) NPCAdded(c types.Character) event.Event {
	return m.emit(event.NPCAdd(c.ID, c.Name))
}

func (m *Mapper) NPCRemoved(characterID int) event.Event {
	return m.emit(event.NPCRemove(characterID))
}
