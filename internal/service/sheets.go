// Package service is the write path. A write is committed to the store and
// only then handed to the mutation mapper, one character at a time, so events
// for a character are published in commit order.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/sheet-sync/internal/mutation"
	"github.com/DoyleJ11/sheet-sync/internal/store"
	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

var ErrUnsupported = errors.New("unsupported collection")

type Sheets struct {
	store  store.Store
	mapper *mutation.Mapper
	locks  *keyedMutex
	log    *zap.Logger
}

func New(st store.Store, pub mutation.Publisher, log *zap.Logger) *Sheets {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sheets{
		store:  st,
		mapper: mutation.NewMapper(pub),
		locks:  newKeyedMutex(),
		log:    log.Named("service"),
	}
}

// commit runs write under the character's lock and calls emit only when the
// write succeeded.
func commit[T any](s *Sheets, characterID int, op string, write func() (T, error), emit func(T)) (T, error) {
	unlock := s.locks.lock(characterID)
	defer unlock()

	v, err := write()
	if err != nil {
		s.log.Debug("write rejected", zap.String("op", op), zap.Int("character_id", characterID), zap.Error(err))
		var zero T
		return zero, err
	}
	emit(v)
	return v, nil
}

func (s *Sheets) Sheet(ctx context.Context, characterID int) (*types.Sheet, error) {
	return s.store.Sheet(ctx, characterID)
}

func (s *Sheets) Characters(ctx context.Context) ([]types.Character, error) {
	return s.store.Characters(ctx)
}

func (s *Sheets) CreateNPC(ctx context.Context, name string) (types.Character, error) {
	c, err := s.store.CreateCharacter(ctx, name, types.RoleNPC)
	if err != nil {
		return types.Character{}, err
	}
	s.mapper.NPCAdded(c)
	return c, nil
}

func (s *Sheets) DeleteNPC(ctx context.Context, characterID int) error {
	_, err := commit(s, characterID, "delete_npc", func() (struct{}, error) {
		sh, err := s.store.Sheet(ctx, characterID)
		if err != nil {
			return struct{}{}, err
		}
		if sh.Role != types.RoleNPC {
			return struct{}{}, fmt.Errorf("character %d is not an npc: %w", characterID, store.ErrInvalid)
		}
		return struct{}{}, s.store.DeleteCharacter(ctx, characterID)
	}, func(struct{}) { s.mapper.NPCRemoved(characterID) })
	return err
}

func (s *Sheets) UpdateCharacter(ctx context.Context, characterID int, p store.CharacterPatch) (store.CharacterState, error) {
	return commit(s, characterID, "update_character", func() (store.CharacterState, error) {
		return s.store.UpdateCharacter(ctx, characterID, p)
	}, func(st store.CharacterState) { s.mapper.CharacterUpdated(p, st) })
}

func (s *Sheets) UpdateAttribute(ctx context.Context, characterID, attrID int, p store.AttributePatch) (types.AttributeValue, error) {
	return commit(s, characterID, "update_attribute", func() (types.AttributeValue, error) {
		return s.store.UpdateAttribute(ctx, characterID, attrID, p)
	}, func(a types.AttributeValue) { s.mapper.AttributeChanged(characterID, a) })
}

func (s *Sheets) UpdateStatus(ctx context.Context, characterID, flagID int, value bool) (types.AttributeStatus, error) {
	return commit(s, characterID, "update_status", func() (types.AttributeStatus, error) {
		return s.store.UpdateStatus(ctx, characterID, flagID, value)
	}, func(st types.AttributeStatus) { s.mapper.StatusChanged(characterID, st) })
}

func (s *Sheets) UpdateInfo(ctx context.Context, characterID, infoID int, value string) (types.Info, error) {
	return commit(s, characterID, "update_info", func() (types.Info, error) {
		return s.store.UpdateInfo(ctx, characterID, infoID, value)
	}, func(i types.Info) { s.mapper.InfoChanged(characterID, i) })
}

func (s *Sheets) UpdateCharacteristic(ctx context.Context, characterID, characteristicID int, p store.CharacteristicPatch) (types.Characteristic, error) {
	return commit(s, characterID, "update_characteristic", func() (types.Characteristic, error) {
		return s.store.UpdateCharacteristic(ctx, characterID, characteristicID, p)
	}, func(c types.Characteristic) { s.mapper.CharacteristicChanged(characterID, c) })
}

func (s *Sheets) UpdateCurrency(ctx context.Context, characterID, currencyID, value int) (types.Currency, error) {
	return commit(s, characterID, "update_currency", func() (types.Currency, error) {
		return s.store.UpdateCurrency(ctx, characterID, currencyID, value)
	}, func(c types.Currency) { s.mapper.CurrencyChanged(characterID, c) })
}

func (s *Sheets) UpdateSkill(ctx context.Context, characterID, skillID, value int) (types.Skill, error) {
	return commit(s, characterID, "update_skill", func() (types.Skill, error) {
		return s.store.UpdateSkill(ctx, characterID, skillID, value)
	}, func(k types.Skill) { s.mapper.SkillChanged(characterID, k) })
}

func (s *Sheets) UpdateSpec(ctx context.Context, characterID, specID int, value string) (types.Spec, error) {
	return commit(s, characterID, "update_spec", func() (types.Spec, error) {
		return s.store.UpdateSpec(ctx, characterID, specID, value)
	}, func(k types.Spec) { s.mapper.SpecChanged(characterID, k) })
}

// AddEntry adds a catalog entry to one of the inventory collections. The
// returned value is the committed entry of the matching type.
func (s *Sheets) AddEntry(ctx context.Context, c types.Collection, characterID, entryID, quantity int) (any, error) {
	switch c {
	case types.Items:
		return commit(s, characterID, "add_item", func() (types.Item, error) {
			return s.store.AddItem(ctx, characterID, entryID, quantity)
		}, func(it types.Item) { s.mapper.ItemAdded(characterID, it) })
	case types.Weapons:
		return commit(s, characterID, "add_weapon", func() (types.Weapon, error) {
			return s.store.AddWeapon(ctx, characterID, entryID)
		}, func(w types.Weapon) { s.mapper.WeaponAdded(characterID, w) })
	case types.Armors:
		return commit(s, characterID, "add_armor", func() (types.Armor, error) {
			return s.store.AddArmor(ctx, characterID, entryID)
		}, func(a types.Armor) { s.mapper.ArmorAdded(characterID, a) })
	case types.Spells:
		return commit(s, characterID, "add_spell", func() (types.Spell, error) {
			return s.store.AddSpell(ctx, characterID, entryID)
		}, func(sp types.Spell) { s.mapper.SpellAdded(characterID, sp) })
	}
	return nil, fmt.Errorf("add to %s: %w", c, ErrUnsupported)
}

// ChangeEntry edits the per-instance overrides of an inventory entry.
// Quantity only applies to items.
func (s *Sheets) ChangeEntry(ctx context.Context, c types.Collection, characterID, entryID int, p store.ItemPatch) (any, error) {
	if c != types.Items && p.Quantity != nil {
		return nil, fmt.Errorf("quantity on %s: %w", c, store.ErrInvalid)
	}
	if c != types.Items && p.Description == nil {
		return nil, fmt.Errorf("description is required: %w", store.ErrInvalid)
	}
	switch c {
	case types.Items:
		return commit(s, characterID, "change_item", func() (types.Item, error) {
			return s.store.UpdateItem(ctx, characterID, entryID, p)
		}, func(it types.Item) { s.mapper.ItemChanged(characterID, it) })
	case types.Weapons:
		return commit(s, characterID, "change_weapon", func() (types.Weapon, error) {
			return s.store.UpdateWeapon(ctx, characterID, entryID, *p.Description)
		}, func(w types.Weapon) { s.mapper.WeaponChanged(characterID, w) })
	case types.Armors:
		return commit(s, characterID, "change_armor", func() (types.Armor, error) {
			return s.store.UpdateArmor(ctx, characterID, entryID, *p.Description)
		}, func(a types.Armor) { s.mapper.ArmorChanged(characterID, a) })
	case types.Spells:
		return commit(s, characterID, "change_spell", func() (types.Spell, error) {
			return s.store.UpdateSpell(ctx, characterID, entryID, *p.Description)
		}, func(sp types.Spell) { s.mapper.SpellChanged(characterID, sp) })
	}
	return nil, fmt.Errorf("change %s: %w", c, ErrUnsupported)
}

func (s *Sheets) RemoveEntry(ctx context.Context, c types.Collection, characterID, entryID int) error {
	if !c.Inventory() {
		return fmt.Errorf("remove from %s: %w", c, ErrUnsupported)
	}
	_, err := commit(s, characterID, "remove_"+string(c), func() (struct{}, error) {
		return struct{}{}, s.store.RemoveEntry(ctx, c, characterID, entryID)
	}, func(struct{}) {
		// c is an inventory collection, so this cannot fail
		_, _ = s.mapper.EntryRemoved(c, characterID, entryID)
	})
	return err
}
