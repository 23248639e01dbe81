package types

import "slices"

// Collection names one keyed sequence of a sheet. The values double as URL
// path segments.
type Collection string

const (
	Attributes      Collection = "attributes"
	Statuses        Collection = "statuses"
	InfoEntries     Collection = "info"
	Characteristics Collection = "characteristics"
	Currencies      Collection = "currencies"
	Skills          Collection = "skills"
	Specs           Collection = "specs"
	Items           Collection = "items"
	Weapons         Collection = "weapons"
	Armors          Collection = "armors"
	Spells          Collection = "spells"
)

var collections = []Collection{
	Attributes, Statuses, InfoEntries, Characteristics, Currencies, Skills, Specs,
	Items, Weapons, Armors, Spells,
}

func (c Collection) Valid() bool { return slices.Contains(collections, c) }

// Inventory collections are added and removed per entry; the others exist
// for every character from creation on.
func (c Collection) Inventory() bool {
	switch c {
	case Items, Weapons, Armors, Spells:
		return true
	}
	return false
}

func cloneAll[T any](in []*T) []*T {
	if in == nil {
		return nil
	}
	out := make([]*T, len(in))
	for i, p := range in {
		if p != nil {
			v := *p
			out[i] = &v
		}
	}
	return out
}

// Clone returns a deep copy that shares no entries with s.
func (s *Sheet) Clone() *Sheet {
	if s == nil {
		return nil
	}
	c := *s
	c.Attributes = cloneAll(s.Attributes)
	c.Statuses = cloneAll(s.Statuses)
	c.Info = cloneAll(s.Info)
	c.Characteristics = cloneAll(s.Characteristics)
	c.Currencies = cloneAll(s.Currencies)
	c.Skills = cloneAll(s.Skills)
	c.Specs = cloneAll(s.Specs)
	c.Items = cloneAll(s.Items)
	c.Weapons = cloneAll(s.Weapons)
	c.Armors = cloneAll(s.Armors)
	c.Spells = cloneAll(s.Spells)
	return &c
}
