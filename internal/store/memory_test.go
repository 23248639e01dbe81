package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore(DefaultCatalog()))
}

func TestMemoryStore_SheetIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultCatalog())
	c, err := s.CreateCharacter(ctx, "Ayla", types.RolePlayer)
	require.NoError(t, err)

	sh, err := s.Sheet(ctx, c.ID)
	require.NoError(t, err)
	sh.Attributes[0].Value = 99

	again, err := s.Sheet(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, again.Attributes[0].Value)
}

func TestMemoryStore_CharactersSortedByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	for _, n := range []string{"c", "a", "b"} {
		_, err := s.CreateCharacter(ctx, n, types.RoleNPC)
		require.NoError(t, err)
	}
	list, err := s.Characters(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{list[0].ID, list[1].ID, list[2].ID})
}
