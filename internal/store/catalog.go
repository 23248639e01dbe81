package store

import "github.com/DoyleJ11/sheet-sync/pkg/types"

// CatalogEntry is a definition shared by all characters. Which fields matter
// depends on the collection.
type CatalogEntry struct {
	ID          int
	Collection  types.Collection
	Name        string
	Color       string
	Description string
	Damage      string
	Weight      float64
	Slots       int
}

// DefaultCatalog seeds a fresh database and the in-memory store.
func DefaultCatalog() []CatalogEntry {
	return []CatalogEntry{
		{ID: 1, Collection: types.Attributes, Name: "Health", Color: "#d32f2f"},
		{ID: 2, Collection: types.Attributes, Name: "Sanity", Color: "#1976d2"},
		{ID: 3, Collection: types.Attributes, Name: "Mana", Color: "#7b1fa2"},

		{ID: 10, Collection: types.Statuses, Name: "Unconscious"},
		{ID: 11, Collection: types.Statuses, Name: "Insane"},
		{ID: 12, Collection: types.Statuses, Name: "Wounded"},

		{ID: 20, Collection: types.InfoEntries, Name: "Background"},
		{ID: 21, Collection: types.InfoEntries, Name: "Notes"},

		{ID: 30, Collection: types.Characteristics, Name: "Strength"},
		{ID: 31, Collection: types.Characteristics, Name: "Dexterity"},
		{ID: 32, Collection: types.Characteristics, Name: "Intelligence"},

		{ID: 40, Collection: types.Currencies, Name: "Gold"},
		{ID: 41, Collection: types.Currencies, Name: "Silver"},

		{ID: 50, Collection: types.Skills, Name: "Stealth"},
		{ID: 51, Collection: types.Skills, Name: "Perception"},

		{ID: 60, Collection: types.Specs, Name: "Height"},
		{ID: 61, Collection: types.Specs, Name: "Age"},

		{ID: 100, Collection: types.Items, Name: "Rope", Description: "Ten meters of hemp rope.", Weight: 1.5},
		{ID: 101, Collection: types.Items, Name: "Torch", Description: "Burns for an hour.", Weight: 0.5},
		{ID: 102, Collection: types.Items, Name: "Ration", Description: "One day of food.", Weight: 0.5},

		{ID: 200, Collection: types.Weapons, Name: "Dagger", Description: "A short blade.", Damage: "1d4", Weight: 0.5},
		{ID: 201, Collection: types.Weapons, Name: "Longsword", Description: "Versatile.", Damage: "1d8", Weight: 1.5},

		{ID: 300, Collection: types.Armors, Name: "Leather", Description: "Light armor.", Weight: 5},
		{ID: 301, Collection: types.Armors, Name: "Chain mail", Description: "Heavy armor.", Weight: 20},

		{ID: 400, Collection: types.Spells, Name: "Light", Description: "Makes an object glow.", Slots: 1},
		{ID: 401, Collection: types.Spells, Name: "Fireball", Description: "A burst of flame.", Slots: 3},
	}
}
