package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

type keyed interface{ EntryID() int }

func find[T keyed](list []T, id int) (T, bool) {
	for _, e := range list {
		if e.EntryID() == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

func without[T keyed](list []T, id int) ([]T, bool) {
	i := slices.IndexFunc(list, func(e T) bool { return e.EntryID() == id })
	if i < 0 {
		return list, false
	}
	return slices.Delete(list, i, i+1), true
}

// MemoryStore keeps everything in process. It backs tests and runs without a
// database URL.
type MemoryStore struct {
	mu      sync.Mutex
	catalog map[int]CatalogEntry
	order   []int
	sheets  map[int]*types.Sheet
	nextID  int
}

func NewMemoryStore(catalog []CatalogEntry) *MemoryStore {
	s := &MemoryStore{
		catalog: make(map[int]CatalogEntry, len(catalog)),
		sheets:  make(map[int]*types.Sheet),
		nextID:  1,
	}
	for _, e := range catalog {
		s.catalog[e.ID] = e
		s.order = append(s.order, e.ID)
	}
	slices.Sort(s.order)
	return s
}

func (s *MemoryStore) sheet(id int) (*types.Sheet, error) {
	sh := s.sheets[id]
	if sh == nil {
		return nil, fmt.Errorf("character %d: %w", id, ErrNotFound)
	}
	return sh, nil
}

func (s *MemoryStore) entry(c types.Collection, id int) (CatalogEntry, error) {
	e, ok := s.catalog[id]
	if !ok || e.Collection != c {
		return CatalogEntry{}, fmt.Errorf("%s %d: %w", c, id, ErrNotFound)
	}
	return e, nil
}

func (s *MemoryStore) Sheet(_ context.Context, characterID int) (*types.Sheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, err := s.sheet(characterID)
	if err != nil {
		return nil, err
	}
	return sh.Clone(), nil
}

func (s *MemoryStore) Characters(_ context.Context) ([]types.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Character, 0, len(s.sheets))
	for _, sh := range s.sheets {
		out = append(out, sh.Character)
	}
	slices.SortFunc(out, func(a, b types.Character) int { return a.ID - b.ID })
	return out, nil
}

func validRole(r types.Role) bool {
	return r == types.RolePlayer || r == types.RoleNPC || r == types.RoleAdmin
}

func (s *MemoryStore) CreateCharacter(_ context.Context, name string, role types.Role) (types.Character, error) {
	name = strings.TrimSpace(name)
	if name == "" || !validRole(role) {
		return types.Character{}, fmt.Errorf("create character: %w", ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sh := &types.Sheet{Character: types.Character{ID: s.nextID, Name: name, Role: role}}
	s.nextID++
	for _, id := range s.order {
		e := s.catalog[id]
		switch e.Collection {
		case types.Attributes:
			sh.Attributes = append(sh.Attributes, &types.AttributeValue{ID: e.ID, Name: e.Name, Color: e.Color})
		case types.Statuses:
			sh.Statuses = append(sh.Statuses, &types.AttributeStatus{ID: e.ID, Name: e.Name})
		case types.InfoEntries:
			sh.Info = append(sh.Info, &types.Info{ID: e.ID, Name: e.Name})
		case types.Characteristics:
			sh.Characteristics = append(sh.Characteristics, &types.Characteristic{ID: e.ID, Name: e.Name})
		case types.Currencies:
			sh.Currencies = append(sh.Currencies, &types.Currency{ID: e.ID, Name: e.Name})
		case types.Skills:
			sh.Skills = append(sh.Skills, &types.Skill{ID: e.ID, Name: e.Name})
		case types.Specs:
			sh.Specs = append(sh.Specs, &types.Spec{ID: e.ID, Name: e.Name})
		}
	}
	s.sheets[sh.ID] = sh
	return sh.Character, nil
}

func (s *MemoryStore) DeleteCharacter(_ context.Context, characterID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.sheet(characterID); err != nil {
		return err
	}
	delete(s.sheets, characterID)
	return nil
}

func (s *MemoryStore) UpdateCharacter(_ context.Context, characterID int, p CharacterPatch) (CharacterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, err := s.sheet(characterID)
	if err != nil {
		return CharacterState{}, err
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return CharacterState{}, fmt.Errorf("name: %w", ErrInvalid)
	}
	if p.Name != nil {
		sh.Name = strings.TrimSpace(*p.Name)
	}
	if p.MaxLoad != nil {
		sh.MaxLoad = *p.MaxLoad
	}
	if p.SpellSlots != nil {
		sh.SpellSlots = *p.SpellSlots
	}
	return CharacterState{Character: sh.Character, MaxLoad: sh.MaxLoad, SpellSlots: sh.SpellSlots}, nil
}

// update locates one entry of a character's collection and applies fn to it
// under the lock. It returns a copy of the committed entry.
func update[T any, P interface {
	*T
	keyed
}](s *MemoryStore, characterID, entryID int, c types.Collection, list func(*types.Sheet) []P, fn func(P) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	sh, err := s.sheet(characterID)
	if err != nil {
		return zero, err
	}
	e, ok := find(list(sh), entryID)
	if !ok {
		return zero, fmt.Errorf("character %d %s %d: %w", characterID, c, entryID, ErrNotFound)
	}
	if err := fn(e); err != nil {
		return zero, err
	}
	return *e, nil
}

func (s *MemoryStore) UpdateAttribute(_ context.Context, characterID, attrID int, p AttributePatch) (types.AttributeValue, error) {
	return update(s, characterID, attrID, types.Attributes,
		func(sh *types.Sheet) []*types.AttributeValue { return sh.Attributes },
		func(a *types.AttributeValue) error {
			if p.Value != nil {
				a.Value = *p.Value
			}
			if p.MaxValue != nil {
				a.MaxValue = *p.MaxValue
			}
			if p.ExtraValue != nil {
				a.ExtraValue = *p.ExtraValue
			}
			return nil
		})
}

func (s *MemoryStore) UpdateStatus(_ context.Context, characterID, flagID int, value bool) (types.AttributeStatus, error) {
	return update(s, characterID, flagID, types.Statuses,
		func(sh *types.Sheet) []*types.AttributeStatus { return sh.Statuses },
		func(a *types.AttributeStatus) error { a.Value = value; return nil })
}

func (s *MemoryStore) UpdateInfo(_ context.Context, characterID, infoID int, value string) (types.Info, error) {
	return update(s, characterID, infoID, types.InfoEntries,
		func(sh *types.Sheet) []*types.Info { return sh.Info },
		func(i *types.Info) error { i.Value = value; return nil })
}

func (s *MemoryStore) UpdateCharacteristic(_ context.Context, characterID, characteristicID int, p CharacteristicPatch) (types.Characteristic, error) {
	return update(s, characterID, characteristicID, types.Characteristics,
		func(sh *types.Sheet) []*types.Characteristic { return sh.Characteristics },
		func(c *types.Characteristic) error {
			if p.Value != nil {
				c.Value = *p.Value
			}
			if p.Modifier != nil {
				c.Modifier = *p.Modifier
			}
			return nil
		})
}

func (s *MemoryStore) UpdateCurrency(_ context.Context, characterID, currencyID, value int) (types.Currency, error) {
	return update(s, characterID, currencyID, types.Currencies,
		func(sh *types.Sheet) []*types.Currency { return sh.Currencies },
		func(c *types.Currency) error { c.Value = value; return nil })
}

func (s *MemoryStore) UpdateSkill(_ context.Context, characterID, skillID, value int) (types.Skill, error) {
	return update(s, characterID, skillID, types.Skills,
		func(sh *types.Sheet) []*types.Skill { return sh.Skills },
		func(k *types.Skill) error { k.Value = value; return nil })
}

func (s *MemoryStore) UpdateSpec(_ context.Context, characterID, specID int, value string) (types.Spec, error) {
	return update(s, characterID, specID, types.Specs,
		func(sh *types.Sheet) []*types.Spec { return sh.Specs },
		func(k *types.Spec) error { k.Value = value; return nil })
}

// add appends a catalog entry to an inventory collection. Adding the same
// catalog entry twice is a conflict.
func add[T any, P interface {
	*T
	keyed
}](s *MemoryStore, characterID, entryID int, c types.Collection, list func(*types.Sheet) *[]P, build func(CatalogEntry) P) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	sh, err := s.sheet(characterID)
	if err != nil {
		return zero, err
	}
	e, err := s.entry(c, entryID)
	if err != nil {
		return zero, err
	}
	l := list(sh)
	if _, ok := find(*l, entryID); ok {
		return zero, fmt.Errorf("character %d already has %s %d: %w", characterID, c, entryID, ErrConflict)
	}
	p := build(e)
	*l = append(*l, p)
	return *p, nil
}

func (s *MemoryStore) AddItem(_ context.Context, characterID, itemID, quantity int) (types.Item, error) {
	if quantity <= 0 {
		quantity = 1
	}
	return add(s, characterID, itemID, types.Items,
		func(sh *types.Sheet) *[]*types.Item { return &sh.Items },
		func(e CatalogEntry) *types.Item {
			return &types.Item{ID: e.ID, Name: e.Name, Description: e.Description, Weight: e.Weight, Quantity: quantity}
		})
}

func (s *MemoryStore) UpdateItem(_ context.Context, characterID, itemID int, p ItemPatch) (types.Item, error) {
	if p.Quantity != nil && *p.Quantity < 0 {
		return types.Item{}, fmt.Errorf("quantity: %w", ErrInvalid)
	}
	return update(s, characterID, itemID, types.Items,
		func(sh *types.Sheet) []*types.Item { return sh.Items },
		func(it *types.Item) error {
			if p.Description != nil {
				it.Description = *p.Description
			}
			if p.Quantity != nil {
				it.Quantity = *p.Quantity
			}
			return nil
		})
}

func (s *MemoryStore) AddWeapon(_ context.Context, characterID, weaponID int) (types.Weapon, error) {
	return add(s, characterID, weaponID, types.Weapons,
		func(sh *types.Sheet) *[]*types.Weapon { return &sh.Weapons },
		func(e CatalogEntry) *types.Weapon {
			return &types.Weapon{ID: e.ID, Name: e.Name, Description: e.Description, Damage: e.Damage, Weight: e.Weight}
		})
}

func (s *MemoryStore) UpdateWeapon(_ context.Context, characterID, weaponID int, description string) (types.Weapon, error) {
	return update(s, characterID, weaponID, types.Weapons,
		func(sh *types.Sheet) []*types.Weapon { return sh.Weapons },
		func(w *types.Weapon) error { w.Description = description; return nil })
}

func (s *MemoryStore) AddArmor(_ context.Context, characterID, armorID int) (types.Armor, error) {
	return add(s, characterID, armorID, types.Armors,
		func(sh *types.Sheet) *[]*types.Armor { return &sh.Armors },
		func(e CatalogEntry) *types.Armor {
			return &types.Armor{ID: e.ID, Name: e.Name, Description: e.Description, Weight: e.Weight}
		})
}

func (s *MemoryStore) UpdateArmor(_ context.Context, characterID, armorID int, description string) (types.Armor, error) {
	return update(s, characterID, armorID, types.Armors,
		func(sh *types.Sheet) []*types.Armor { return sh.Armors },
		func(a *types.Armor) error { a.Description = description; return nil })
}

func (s *MemoryStore) AddSpell(_ context.Context, characterID, spellID int) (types.Spell, error) {
	return add(s, characterID, spellID, types.Spells,
		func(sh *types.Sheet) *[]*types.Spell { return &sh.Spells },
		func(e CatalogEntry) *types.Spell {
			return &types.Spell{ID: e.ID, Name: e.Name, Description: e.Description, Slots: e.Slots}
		})
}

func (s *MemoryStore) UpdateSpell(_ context.Context, characterID, spellID int, description string) (types.Spell, error) {
	return update(s, characterID, spellID, types.Spells,
		func(sh *types.Sheet) []*types.Spell { return sh.Spells },
		func(sp *types.Spell) error { sp.Description = description; return nil })
}

func (s *MemoryStore) RemoveEntry(_ context.Context, c types.Collection, characterID, entryID int) error {
	if !c.Inventory() {
		return fmt.Errorf("remove from %s: %w", c, ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, err := s.sheet(characterID)
	if err != nil {
		return err
	}
	var ok bool
	switch c {
	case types.Items:
		sh.Items, ok = without(sh.Items, entryID)
	case types.Weapons:
		sh.Weapons, ok = without(sh.Weapons, entryID)
	case types.Armors:
		sh.Armors, ok = without(sh.Armors, entryID)
	case types.Spells:
		sh.Spells, ok = without(sh.Spells, entryID)
	}
	if !ok {
		return fmt.Errorf("character %d %s %d: %w", characterID, c, entryID, ErrNotFound)
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
