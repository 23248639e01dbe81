package event

// Constructors fix the positional layout of every event kind. Keep them in
// step with the table in pkg/types/messages.go.

func NameChange(characterID int, name string) Event {
	return New(KindNameChange, characterID, name)
}

func AttributeChange(characterID, attrID, value, maxValue, extraValue int) Event {
	return New(KindAttributeChange, characterID, attrID, value, maxValue, extraValue)
}

func AttributeStatusChange(characterID, flagID int, value bool) Event {
	return New(KindAttributeStatusChange, characterID, flagID, value)
}

func InfoChange(characterID, infoID int, value string) Event {
	return New(KindInfoChange, characterID, infoID, value)
}

func CharacteristicChange(characterID, characteristicID, value, modifier int) Event {
	return New(KindCharacteristicChange, characterID, characteristicID, value, modifier)
}

func CurrencyChange(characterID, currencyID, value int) Event {
	return New(KindCurrencyChange, characterID, currencyID, value)
}

func SkillChange(characterID, skillID, value int) Event {
	return New(KindSkillChange, characterID, skillID, value)
}

func SpecChange(characterID, specID int, value string) Event {
	return New(KindSpecChange, characterID, specID, value)
}

func ItemAdd(characterID, itemID int, name, description string, weight float64, quantity int) Event {
	return New(KindItemAdd, characterID, itemID, name, description, weight, quantity)
}

func ItemRemove(characterID, itemID int) Event {
	return New(KindItemRemove, characterID, itemID)
}

func ItemChange(characterID, itemID int, description string, quantity int) Event {
	return New(KindItemChange, characterID, itemID, description, quantity)
}

func WeaponAdd(characterID, weaponID int, name, description, damage string, weight float64) Event {
	return New(KindWeaponAdd, characterID, weaponID, name, description, damage, weight)
}

func WeaponRemove(characterID, weaponID int) Event {
	return New(KindWeaponRemove, characterID, weaponID)
}

func WeaponChange(characterID, weaponID int, description string) Event {
	return New(KindWeaponChange, characterID, weaponID, description)
}

func ArmorAdd(characterID, armorID int, name, description string, weight float64) Event {
	return New(KindArmorAdd, characterID, armorID, name, description, weight)
}

func ArmorRemove(characterID, armorID int) Event {
	return New(KindArmorRemove, characterID, armorID)
}

func ArmorChange(characterID, armorID int, description string) Event {
	return New(KindArmorChange, characterID, armorID, description)
}

func SpellAdd(characterID, spellID int, name, description string, slots int) Event {
	return New(KindSpellAdd, characterID, spellID, name, description, slots)
}

func SpellRemove(characterID, spellID int) Event {
	return New(KindSpellRemove, characterID, spellID)
}

func SpellChange(characterID, spellID int, description string) Event {
	return New(KindSpellChange, characterID, spellID, description)
}

func MaxLoadChange(characterID, maxLoad int) Event {
	return New(KindMaxLoadChange, characterID, maxLoad)
}

func SpellSlotsChange(characterID, spellSlots int) Event {
	return New(KindSpellSlotsChange, characterID, spellSlots)
}

func NPCAdd(characterID int, name string) Event {
	return New(KindNPCAdd, characterID, name)
}

func NPCRemove(characterID int) Event {
	return New(KindNPCRemove, characterID)
}
