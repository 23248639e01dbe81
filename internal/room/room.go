// Package room names the subscription groups of the event channel and decides
// which of them a connection joins.
package room

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/DoyleJ11/sheet-sync/internal/auth"
)

var ErrUnknownRoom = errors.New("unknown room")

type Kind uint8

const (
	KindAdmin Kind = iota + 1
	KindPlayer
	KindPortrait
)

// Room is comparable and safe to use as a map key. Wire strings only exist at
// the transport boundary.
type Room struct {
	Kind        Kind
	CharacterID int
}

func Admin() Room { return Room{Kind: KindAdmin} }

func Player(characterID int) Room { return Room{Kind: KindPlayer, CharacterID: characterID} }

func Portrait(characterID int) Room { return Room{Kind: KindPortrait, CharacterID: characterID} }

func (r Room) String() string {
	switch r.Kind {
	case KindAdmin:
		return "admin"
	case KindPlayer:
		return "player" + strconv.Itoa(r.CharacterID)
	case KindPortrait:
		return "portrait" + strconv.Itoa(r.CharacterID)
	default:
		return "unknown"
	}
}

func Parse(s string) (Room, error) {
	if s == "admin" {
		return Admin(), nil
	}
	for prefix, kind := range map[string]Kind{"player": KindPlayer, "portrait": KindPortrait} {
		rest, ok := strings.CutPrefix(s, prefix)
		if !ok {
			continue
		}
		id, err := strconv.Atoi(rest)
		if err != nil || id <= 0 {
			return Room{}, fmt.Errorf("%w: %q", ErrUnknownRoom, s)
		}
		return Room{Kind: kind, CharacterID: id}, nil
	}
	return Room{}, fmt.Errorf("%w: %q", ErrUnknownRoom, s)
}

// ForIdentity computes the rooms a connecting socket joins. An identity that
// resolves to nothing gets no rooms and stays connected but inert.
func ForIdentity(id auth.Identity) []Room {
	switch id.Role {
	case auth.RoleAdmin:
		return []Room{Admin()}
	case auth.RolePlayer, auth.RoleNPC:
		if id.CharacterID > 0 {
			return []Room{Player(id.CharacterID)}
		}
	case auth.RoleAnonymous:
		if id.CharacterID > 0 {
			return []Room{Portrait(id.CharacterID)}
		}
	}
	return nil
}
