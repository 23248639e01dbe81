// Package store is the persistence boundary. Every write returns the values
// that were committed; nothing is published before that.
package store

import (
	"context"
	"errors"

	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid value")
)

type CharacterPatch struct {
	Name       *string
	MaxLoad    *int
	SpellSlots *int
}

func (p CharacterPatch) Empty() bool {
	return p.Name == nil && p.MaxLoad == nil && p.SpellSlots == nil
}

// CharacterState is the committed scalar state of a character.
type CharacterState struct {
	types.Character
	MaxLoad    int
	SpellSlots int
}

type AttributePatch struct {
	Value      *int
	MaxValue   *int
	ExtraValue *int
}

type CharacteristicPatch struct {
	Value    *int
	Modifier *int
}

type ItemPatch struct {
	Description *string
	Quantity    *int
}

type Store interface {
	Sheet(ctx context.Context, characterID int) (*types.Sheet, error)
	Characters(ctx context.Context) ([]types.Character, error)
	CreateCharacter(ctx context.Context, name string, role types.Role) (types.Character, error)
	DeleteCharacter(ctx context.Context, characterID int) error
	UpdateCharacter(ctx context.Context, characterID int, p CharacterPatch) (CharacterState, error)

	UpdateAttribute(ctx context.Context, characterID, attrID int, p AttributePatch) (types.AttributeValue, error)
	UpdateStatus(ctx context.Context, characterID, flagID int, value bool) (types.AttributeStatus, error)
	UpdateInfo(ctx context.Context, characterID, infoID int, value string) (types.Info, error)
	UpdateCharacteristic(ctx context.Context, characterID, characteristicID int, p CharacteristicPatch) (types.Characteristic, error)
	UpdateCurrency(ctx context.Context, characterID, currencyID, value int) (types.Currency, error)
	UpdateSkill(ctx context.Context, characterID, skillID, value int) (types.Skill, error)
	UpdateSpec(ctx context.Context, characterID, specID int, value string) (types.Spec, error)

	AddItem(ctx context.Context, characterID, itemID, quantity int) (types.Item, error)
	UpdateItem(ctx context.Context, characterID, itemID int, p ItemPatch) (types.Item, error)
	AddWeapon(ctx context.Context, characterID, weaponID int) (types.Weapon, error)
	UpdateWeapon(ctx context.Context, characterID, weaponID int, description string) (types.Weapon, error)
	AddArmor(ctx context.Context, characterID, armorID int) (types.Armor, error)
	UpdateArmor(ctx context.Context, characterID, armorID int, description string) (types.Armor, error)
	AddSpell(ctx context.Context, characterID, spellID int) (types.Spell, error)
	UpdateSpell(ctx context.Context, characterID, spellID int, description string) (types.Spell, error)
	RemoveEntry(ctx context.Context, c types.Collection, characterID, entryID int) error
}
