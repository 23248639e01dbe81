package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

type characterRow struct {
	ID         int    `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Role       string `gorm:"not null"`
	MaxLoad    int    `gorm:"not null;default:0"`
	SpellSlots int    `gorm:"not null;default:0"`
}

func (characterRow) TableName() string { return "characters" }

type catalogRow struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false"`
	Collection  string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Color       string
	Description string
	Damage      string
	Weight      float64
	Slots       int
}

func (catalogRow) TableName() string { return "catalog" }

// entryRow is one character-owned entry of any collection. Which value
// columns are used depends on the collection.
type entryRow struct {
	CharacterID int    `gorm:"primaryKey;autoIncrement:false"`
	Collection  string `gorm:"primaryKey"`
	EntryID     int    `gorm:"primaryKey;autoIncrement:false"`
	Seq         int64  `gorm:"not null;index"` // insertion order within a character

	Value       int
	MaxValue    int
	ExtraValue  int
	Modifier    int
	Flag        bool
	Text        string
	Description string
	Quantity    int

	Character characterRow `gorm:"foreignKey:CharacterID;constraint:OnDelete:CASCADE"`
	Entry     catalogRow   `gorm:"foreignKey:EntryID;constraint:OnDelete:RESTRICT"`
}

func (entryRow) TableName() string { return "character_entries" }

// GormStore persists sheets in PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

func OpenGorm(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return NewGormStore(db), nil
}

// NewGormStore wraps an already opened connection.
func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates the schema and upserts the catalog.
func (s *GormStore) Migrate(ctx context.Context, catalog []CatalogEntry) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&characterRow{}, &catalogRow{}, &entryRow{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if len(catalog) == 0 {
		return nil
	}
	rows := make([]catalogRow, 0, len(catalog))
	for _, e := range catalog {
		rows = append(rows, catalogRow{
			ID: e.ID, Collection: string(e.Collection), Name: e.Name, Color: e.Color,
			Description: e.Description, Damage: e.Damage, Weight: e.Weight, Slots: e.Slots,
		})
	}
	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seed catalog: %w", classify(err))
	}
	return nil
}

// classify maps driver errors onto the package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Message)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.Message)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.InvalidTextRepresentation:
			return fmt.Errorf("%w: %s", ErrInvalid, pgErr.Message)
		}
	}
	return err
}

func (s *GormStore) Sheet(ctx context.Context, characterID int) (*types.Sheet, error) {
	db := s.db.WithContext(ctx)
	var c characterRow
	if err := db.First(&c, characterID).Error; err != nil {
		return nil, fmt.Errorf("character %d: %w", characterID, classify(err))
	}
	var rows []entryRow
	err := db.Preload("Entry").Where("character_id = ?", characterID).Order("seq, collection, entry_id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("character %d entries: %w", characterID, classify(err))
	}

	sh := &types.Sheet{
		Character:  types.Character{ID: c.ID, Name: c.Name, Role: types.Role(c.Role)},
		MaxLoad:    c.MaxLoad,
		SpellSlots: c.SpellSlots,
	}
	for i := range rows {
		appendEntry(sh, &rows[i])
	}
	return sh, nil
}

func appendEntry(sh *types.Sheet, r *entryRow) {
	e := r.Entry
	switch types.Collection(r.Collection) {
	case types.Attributes:
		v := attributeOf(r)
		sh.Attributes = append(sh.Attributes, &v)
	case types.Statuses:
		sh.Statuses = append(sh.Statuses, &types.AttributeStatus{ID: r.EntryID, Name: e.Name, Value: r.Flag})
	case types.InfoEntries:
		sh.Info = append(sh.Info, &types.Info{ID: r.EntryID, Name: e.Name, Value: r.Text})
	case types.Characteristics:
		sh.Characteristics = append(sh.Characteristics, &types.Characteristic{ID: r.EntryID, Name: e.Name, Value: r.Value, Modifier: r.Modifier})
	case types.Currencies:
		sh.Currencies = append(sh.Currencies, &types.Currency{ID: r.EntryID, Name: e.Name, Value: r.Value})
	case types.Skills:
		sh.Skills = append(sh.Skills, &types.Skill{ID: r.EntryID, Name: e.Name, Value: r.Value})
	case types.Specs:
		sh.Specs = append(sh.Specs, &types.Spec{ID: r.EntryID, Name: e.Name, Value: r.Text})
	case types.Items:
		v := itemOf(r)
		sh.Items = append(sh.Items, &v)
	case types.Weapons:
		v := weaponOf(r)
		sh.Weapons = append(sh.Weapons, &v)
	case types.Armors:
		v := armorOf(r)
		sh.Armors = append(sh.Armors, &v)
	case types.Spells:
		v := spellOf(r)
		sh.Spells = append(sh.Spells, &v)
	}
}

func attributeOf(r *entryRow) types.AttributeValue {
	return types.AttributeValue{ID: r.EntryID, Name: r.Entry.Name, Color: r.Entry.Color,
		Value: r.Value, MaxValue: r.MaxValue, ExtraValue: r.ExtraValue}
}

func itemOf(r *entryRow) types.Item {
	return types.Item{ID: r.EntryID, Name: r.Entry.Name, Description: r.Description,
		Weight: r.Entry.Weight, Quantity: r.Quantity}
}

func weaponOf(r *entryRow) types.Weapon {
	return types.Weapon{ID: r.EntryID, Name: r.Entry.Name, Description: r.Description,
		Damage: r.Entry.Damage, Weight: r.Entry.Weight}
}

func armorOf(r *entryRow) types.Armor {
	return types.Armor{ID: r.EntryID, Name: r.Entry.Name, Description: r.Description, Weight: r.Entry.Weight}
}

func spellOf(r *entryRow) types.Spell {
	return types.Spell{ID: r.EntryID, Name: r.Entry.Name, Description: r.Description, Slots: r.Entry.Slots}
}

func (s *GormStore) Characters(ctx context.Context) ([]types.Character, error) {
	var rows []characterRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list characters: %w", classify(err))
	}
	out := make([]types.Character, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.Character{ID: r.ID, Name: r.Name, Role: types.Role(r.Role)})
	}
	return out, nil
}

func (s *GormStore) CreateCharacter(ctx context.Context, name string, role types.Role) (types.Character, error) {
	name = strings.TrimSpace(name)
	if name == "" || !validRole(role) {
		return types.Character{}, fmt.Errorf("create character: %w", ErrInvalid)
	}
	row := characterRow{Name: name, Role: string(role)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		var defs []catalogRow
		err := tx.Where("collection NOT IN ?", []string{
			string(types.Items), string(types.Weapons), string(types.Armors), string(types.Spells),
		}).Order("id").Find(&defs).Error
		if err != nil {
			return err
		}
		if len(defs) == 0 {
			return nil
		}
		entries := make([]entryRow, 0, len(defs))
		for i, d := range defs {
			entries = append(entries, entryRow{CharacterID: row.ID, Collection: d.Collection, EntryID: d.ID, Seq: int64(i + 1)})
		}
		return tx.Omit(clause.Associations).Create(&entries).Error
	})
	if err != nil {
		return types.Character{}, fmt.Errorf("create character: %w", classify(err))
	}
	return types.Character{ID: row.ID, Name: row.Name, Role: role}, nil
}

func (s *GormStore) DeleteCharacter(ctx context.Context, characterID int) error {
	res := s.db.WithContext(ctx).Delete(&characterRow{}, characterID)
	if res.Error != nil {
		return fmt.Errorf("delete character %d: %w", characterID, classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("character %d: %w", characterID, ErrNotFound)
	}
	return nil
}

func (s *GormStore) UpdateCharacter(ctx context.Context, characterID int, p CharacterPatch) (CharacterState, error) {
	updates := map[string]any{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return CharacterState{}, fmt.Errorf("name: %w", ErrInvalid)
		}
		updates["name"] = name
	}
	if p.MaxLoad != nil {
		updates["max_load"] = *p.MaxLoad
	}
	if p.SpellSlots != nil {
		updates["spell_slots"] = *p.SpellSlots
	}

	var row characterRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, characterID).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&row, characterID).Error
	})
	if err != nil {
		return CharacterState{}, fmt.Errorf("update character %d: %w", characterID, classify(err))
	}
	return CharacterState{
		Character:  types.Character{ID: row.ID, Name: row.Name, Role: types.Role(row.Role)},
		MaxLoad:    row.MaxLoad,
		SpellSlots: row.SpellSlots,
	}, nil
}

// updateEntry applies column updates to one existing entry and reloads it
// with its catalog definition in the same transaction.
func (s *GormStore) updateEntry(ctx context.Context, c types.Collection, characterID, entryID int, updates map[string]any) (entryRow, error) {
	var row entryRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&entryRow{}).
			Where("character_id = ? AND collection = ? AND entry_id = ?", characterID, string(c), entryID)
		if len(updates) > 0 {
			res := q.Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.Preload("Entry").
			Where("character_id = ? AND collection = ? AND entry_id = ?", characterID, string(c), entryID).
			First(&row).Error
	})
	if err != nil {
		return entryRow{}, fmt.Errorf("character %d %s %d: %w", characterID, c, entryID, classify(err))
	}
	return row, nil
}

func (s *GormStore) UpdateAttribute(ctx context.Context, characterID, attrID int, p AttributePatch) (types.AttributeValue, error) {
	updates := map[string]any{}
	if p.Value != nil {
		updates["value"] = *p.Value
	}
	if p.MaxValue != nil {
		updates["max_value"] = *p.MaxValue
	}
	if p.ExtraValue != nil {
		updates["extra_value"] = *p.ExtraValue
	}
	row, err := s.updateEntry(ctx, types.Attributes, characterID, attrID, updates)
	if err != nil {
		return types.AttributeValue{}, err
	}
	return attributeOf(&row), nil
}

func (s *GormStore) UpdateStatus(ctx context.Context, characterID, flagID int, value bool) (types.AttributeStatus, error) {
	row, err := s.updateEntry(ctx, types.Statuses, characterID, flagID, map[string]any{"flag": value})
	if err != nil {
		return types.AttributeStatus{}, err
	}
	return types.AttributeStatus{ID: row.EntryID, Name: row.Entry.Name, Value: row.Flag}, nil
}

func (s *GormStore) UpdateInfo(ctx context.Context, characterID, infoID int, value string) (types.Info, error) {
	row, err := s.updateEntry(ctx, types.InfoEntries, characterID, infoID, map[string]any{"text": value})
	if err != nil {
		return types.Info{}, err
	}
	return types.Info{ID: row.EntryID, Name: row.Entry.Name, Value: row.Text}, nil
}

func (s *GormStore) UpdateCharacteristic(ctx context.Context, characterID, characteristicID int, p CharacteristicPatch) (types.Characteristic, error) {
	updates := map[string]any{}
	if p.Value != nil {
		updates["value"] = *p.Value
	}
	if p.Modifier != nil {
		updates["modifier"] = *p.Modifier
	}
	row, err := s.updateEntry(ctx, types.Characteristics, characterID, characteristicID, updates)
	if err != nil {
		return types.Characteristic{}, err
	}
	return types.Characteristic{ID: row.EntryID, Name: row.Entry.Name, Value: row.Value, Modifier: row.Modifier}, nil
}

func (s *GormStore) UpdateCurrency(ctx context.Context, characterID, currencyID, value int) (types.Currency, error) {
	row, err := s.updateEntry(ctx, types.Currencies, characterID, currencyID, map[string]any{"value": value})
	if err != nil {
		return types.Currency{}, err
	}
	return types.Currency{ID: row.EntryID, Name: row.Entry.Name, Value: row.Value}, nil
}

func (s *GormStore) UpdateSkill(ctx context.Context, characterID, skillID, value int) (types.Skill, error) {
	row, err := s.updateEntry(ctx, types.Skills, characterID, skillID, map[string]any{"value": value})
	if err != nil {
		return types.Skill{}, err
	}
	return types.Skill{ID: row.EntryID, Name: row.Entry.Name, Value: row.Value}, nil
}

func (s *GormStore) UpdateSpec(ctx context.Context, characterID, specID int, value string) (types.Spec, error) {
	row, err := s.updateEntry(ctx, types.Specs, characterID, specID, map[string]any{"text": value})
	if err != nil {
		return types.Spec{}, err
	}
	return types.Spec{ID: row.EntryID, Name: row.Entry.Name, Value: row.Text}, nil
}

func nextSeq(tx *gorm.DB, characterID int) (int64, error) {
	var last int64
	err := tx.Model(&entryRow{}).
		Where("character_id = ?", characterID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&last).Error
	return last + 1, err
}

// addEntry inserts an inventory entry whose description starts as the
// catalog default.
func (s *GormStore) addEntry(ctx context.Context, c types.Collection, characterID, entryID, quantity int) (entryRow, error) {
	var row entryRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var def catalogRow
		if err := tx.Where("id = ? AND collection = ?", entryID, string(c)).First(&def).Error; err != nil {
			return err
		}
		seq, err := nextSeq(tx, characterID)
		if err != nil {
			return err
		}
		row = entryRow{
			CharacterID: characterID,
			Collection:  string(c),
			EntryID:     entryID,
			Seq:         seq,
			Description: def.Description,
			Quantity:    quantity,
		}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		row.Entry = def
		return nil
	})
	if err != nil {
		return entryRow{}, fmt.Errorf("character %d add %s %d: %w", characterID, c, entryID, classify(err))
	}
	return row, nil
}

func (s *GormStore) AddItem(ctx context.Context, characterID, itemID, quantity int) (types.Item, error) {
	if quantity <= 0 {
		quantity = 1
	}
	row, err := s.addEntry(ctx, types.Items, characterID, itemID, quantity)
	if err != nil {
		return types.Item{}, err
	}
	return itemOf(&row), nil
}

func (s *GormStore) UpdateItem(ctx context.Context, characterID, itemID int, p ItemPatch) (types.Item, error) {
	updates := map[string]any{}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Quantity != nil {
		if *p.Quantity < 0 {
			return types.Item{}, fmt.Errorf("quantity: %w", ErrInvalid)
		}
		updates["quantity"] = *p.Quantity
	}
	row, err := s.updateEntry(ctx, types.Items, characterID, itemID, updates)
	if err != nil {
		return types.Item{}, err
	}
	return itemOf(&row), nil
}

func (s *GormStore) AddWeapon(ctx context.Context, characterID, weaponID int) (types.Weapon, error) {
	row, err := s.addEntry(ctx, types.Weapons, characterID, weaponID, 0)
	if err != nil {
		return types.Weapon{}, err
	}
	return weaponOf(&row), nil
}

func (s *GormStore) UpdateWeapon(ctx context.Context, characterID, weaponID int, description string) (types.Weapon, error) {
	row, err := s.updateEntry(ctx, types.Weapons, characterID, weaponID, map[string]any{"description": description})
	if err != nil {
		return types.Weapon{}, err
	}
	return weaponOf(&row), nil
}

func (s *GormStore) AddArmor(ctx context.Context, characterID, armorID int) (types.Armor, error) {
	row, err := s.addEntry(ctx, types.Armors, characterID, armorID, 0)
	if err != nil {
		return types.Armor{}, err
	}
	return armorOf(&row), nil
}

func (s *GormStore) UpdateArmor(ctx context.Context, characterID, armorID int, description string) (types.Armor, error) {
	row, err := s.updateEntry(ctx, types.Armors, characterID, armorID, map[string]any{"description": description})
	if err != nil {
		return types.Armor{}, err
	}
	return armorOf(&row), nil
}

func (s *GormStore) AddSpell(ctx context.Context, characterID, spellID int) (types.Spell, error) {
	row, err := s.addEntry(ctx, types.Spells, characterID, spellID, 0)
	if err != nil {
		return types.Spell{}, err
	}
	return spellOf(&row), nil
}

func (s *GormStore) UpdateSpell(ctx context.Context, characterID, spellID int, description string) (types.Spell, error) {
	row, err := s.updateEntry(ctx, types.Spells, characterID, spellID, map[string]any{"description": description})
	if err != nil {
		return types.Spell{}, err
	}
	return spellOf(&row), nil
}

func (s *GormStore) RemoveEntry(ctx context.Context, c types.Collection, characterID, entryID int) error {
	if !c.Inventory() {
		return fmt.Errorf("remove from %s: %w", c, ErrInvalid)
	}
	res := s.db.WithContext(ctx).
		Where("character_id = ? AND collection = ? AND entry_id = ?", characterID, string(c), entryID).
		Delete(&entryRow{})
	if res.Error != nil {
		return fmt.Errorf("character %d remove %s %d: %w", characterID, c, entryID, classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("character %d %s %d: %w", characterID, c, entryID, ErrNotFound)
	}
	return nil
}

var _ Store = (*GormStore)(nil)
