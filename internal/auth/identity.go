package auth

type Role string

const (
	RoleNone      Role = ""
	RoleAdmin     Role = "admin"
	RolePlayer    Role = "player"
	RoleNPC       Role = "npc"
	RoleAnonymous Role = "anonymous" // portrait display, keyed only by character id
)

// Identity is what the session layer resolved for a connection or request.
type Identity struct {
	Role        Role `json:"role"`
	CharacterID int  `json:"characterId,omitempty"`
}

var Unauthenticated = Identity{}

func Admin() Identity { return Identity{Role: RoleAdmin} }

func Player(characterID int) Identity { return Identity{Role: RolePlayer, CharacterID: characterID} }

func NPC(characterID int) Identity { return Identity{Role: RoleNPC, CharacterID: characterID} }

func Portrait(characterID int) Identity {
	return Identity{Role: RoleAnonymous, CharacterID: characterID}
}

func (id Identity) Authenticated() bool {
	switch id.Role {
	case RoleAdmin:
		return true
	case RolePlayer, RoleNPC:
		return id.CharacterID > 0
	}
	return false
}

// CanWrite reports whether id may mutate the given character.
func (id Identity) CanWrite(characterID int) bool {
	switch id.Role {
	case RoleAdmin:
		return true
	case RolePlayer, RoleNPC:
		return id.CharacterID > 0 && id.CharacterID == characterID
	}
	return false
}

// CanRead is the same as CanWrite today. Portrait clients never read through
// the HTTP API.
func (id Identity) CanRead(characterID int) bool { return id.CanWrite(characterID) }
