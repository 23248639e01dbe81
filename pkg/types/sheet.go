package types

type Role string

const (
	RolePlayer Role = "PLAYER"
	RoleNPC    Role = "NPC"
	RoleAdmin  Role = "ADMIN"
)

type Character struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// AttributeValue is a numeric gauge such as health. Value is never clamped to
// MaxValue; ExtraValue is a bonus on top of it.
type AttributeValue struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Value      int    `json:"value"`
	MaxValue   int    `json:"maxValue"`
	ExtraValue int    `json:"extraValue"`
}

type AttributeStatus struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

type Info struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Characteristic struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Value    int    `json:"value"`
	Modifier int    `json:"modifier"`
}

type Currency struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Skill struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Spec struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Item is a character's copy of a catalog item. Description and Quantity are
// per-instance overrides.
type Item struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
	Quantity    int     `json:"quantity"`
}

type Weapon struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Damage      string  `json:"damage"`
	Weight      float64 `json:"weight"`
}

type Armor struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}

type Spell struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Slots       int    `json:"slots"`
}

func (a *AttributeValue) EntryID() int  { return a.ID }
func (a *AttributeStatus) EntryID() int { return a.ID }
func (i *Info) EntryID() int            { return i.ID }
func (c *Characteristic) EntryID() int  { return c.ID }
func (c *Currency) EntryID() int        { return c.ID }
func (s *Skill) EntryID() int           { return s.ID }
func (s *Spec) EntryID() int            { return s.ID }
func (i *Item) EntryID() int            { return i.ID }
func (w *Weapon) EntryID() int          { return w.ID }
func (a *Armor) EntryID() int           { return a.ID }
func (s *Spell) EntryID() int           { return s.ID }

// Sheet is the full authoritative snapshot of one character, served for the
// initial load and every resync.
type Sheet struct {
	Character
	MaxLoad    int `json:"maxLoad"`
	SpellSlots int `json:"spellSlots"`

	Attributes      []*AttributeValue  `json:"attributes"`
	Statuses        []*AttributeStatus `json:"statuses"`
	Info            []*Info            `json:"info"`
	Characteristics []*Characteristic  `json:"characteristics"`
	Currencies      []*Currency        `json:"currencies"`
	Skills          []*Skill           `json:"skills"`
	Specs           []*Spec            `json:"specs"`
	Items           []*Item            `json:"items"`
	Weapons         []*Weapon          `json:"weapons"`
	Armors          []*Armor           `json:"armors"`
	Spells          []*Spell           `json:"spells"`
}
