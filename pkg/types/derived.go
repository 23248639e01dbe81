package types

// Aggregates below are recomputed from the current collections on every call.
// Nothing caches them.

// ActiveStatus returns the first status flag that is set, in listed order.
// ok is false when none is set and the default avatar applies.
func ActiveStatus(statuses []*AttributeStatus) (status *AttributeStatus, ok bool) {
	for _, s := range statuses {
		if s != nil && s.Value {
			return s, true
		}
	}
	return nil, false
}

// CarriedWeight sums items (weight times quantity), weapons and armor.
func CarriedWeight(s *Sheet) float64 {
	if s == nil {
		return 0
	}
	var total float64
	for _, it := range s.Items {
		total += it.Weight * float64(it.Quantity)
	}
	for _, w := range s.Weapons {
		total += w.Weight
	}
	for _, a := range s.Armors {
		total += a.Weight
	}
	return total
}

func Overloaded(s *Sheet) bool {
	return s != nil && CarriedWeight(s) > float64(s.MaxLoad)
}

func SpellSlotsUsed(s *Sheet) int {
	if s == nil {
		return 0
	}
	used := 0
	for _, sp := range s.Spells {
		used += sp.Slots
	}
	return used
}
