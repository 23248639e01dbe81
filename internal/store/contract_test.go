package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

func ptr[T any](v T) *T { return &v }

// runStoreContract exercises behaviour every Store implementation shares.
// The store must be seeded with DefaultCatalog.
func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("create seeds fixed collections", func(t *testing.T) {
		c, err := s.CreateCharacter(ctx, " Ayla ", types.RolePlayer)
		require.NoError(t, err)
		assert.Equal(t, "Ayla", c.Name)

		sh, err := s.Sheet(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, sh.Attributes, 3)
		assert.Len(t, sh.Statuses, 3)
		assert.Len(t, sh.Skills, 2)
		assert.Empty(t, sh.Items)
		assert.Equal(t, "Health", sh.Attributes[0].Name)
	})

	t.Run("create rejects blank name and bad role", func(t *testing.T) {
		_, err := s.CreateCharacter(ctx, "  ", types.RolePlayer)
		assert.ErrorIs(t, err, ErrInvalid)
		_, err = s.CreateCharacter(ctx, "Bob", types.Role("GOD"))
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("attribute fields are independent and unclamped", func(t *testing.T) {
		c, err := s.CreateCharacter(ctx, "Bram", types.RolePlayer)
		require.NoError(t, err)

		a, err := s.UpdateAttribute(ctx, c.ID, 1, AttributePatch{Value: ptr(10), MaxValue: ptr(10)})
		require.NoError(t, err)
		assert.Equal(t, 10, a.Value)

		a, err = s.UpdateAttribute(ctx, c.ID, 1, AttributePatch{Value: ptr(14)})
		require.NoError(t, err)
		assert.Equal(t, types.AttributeValue{ID: 1, Name: "Health", Color: "#d32f2f", Value: 14, MaxValue: 10}, a)

		_, err = s.UpdateAttribute(ctx, c.ID, 999, AttributePatch{Value: ptr(1)})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.UpdateAttribute(ctx, 424242, 1, AttributePatch{Value: ptr(1)})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("scalar values", func(t *testing.T) {
		c, err := s.CreateCharacter(ctx, "Cid", types.RoleNPC)
		require.NoError(t, err)

		st, err := s.UpdateStatus(ctx, c.ID, 11, true)
		require.NoError(t, err)
		assert.True(t, st.Value)

		info, err := s.UpdateInfo(ctx, c.ID, 20, "Raised by wolves")
		require.NoError(t, err)
		assert.Equal(t, "Raised by wolves", info.Value)

		ch, err := s.UpdateCharacteristic(ctx, c.ID, 30, CharacteristicPatch{Value: ptr(16), Modifier: ptr(3)})
		require.NoError(t, err)
		assert.Equal(t, 3, ch.Modifier)

		cur, err := s.UpdateCurrency(ctx, c.ID, 40, 25)
		require.NoError(t, err)
		assert.Equal(t, 25, cur.Value)

		sk, err := s.UpdateSkill(ctx, c.ID, 51, 60)
		require.NoError(t, err)
		assert.Equal(t, 60, sk.Value)

		sp, err := s.UpdateSpec(ctx, c.ID, 61, "31")
		require.NoError(t, err)
		assert.Equal(t, "31", sp.Value)

		st2, err := s.UpdateCharacter(ctx, c.ID, CharacterPatch{MaxLoad: ptr(40)})
		require.NoError(t, err)
		assert.Equal(t, 40, st2.MaxLoad)
		assert.Equal(t, "Cid", st2.Name)

		_, err = s.UpdateCharacter(ctx, c.ID, CharacterPatch{Name: ptr("")})
		assert.ErrorIs(t, err, ErrInvalid)

		sh, err := s.Sheet(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, sh.Statuses[1].Value)
		assert.Equal(t, 40, sh.MaxLoad)
	})

	t.Run("inventory add change remove", func(t *testing.T) {
		c, err := s.CreateCharacter(ctx, "Dara", types.RolePlayer)
		require.NoError(t, err)

		it, err := s.AddItem(ctx, c.ID, 100, 0)
		require.NoError(t, err)
		assert.Equal(t, types.Item{ID: 100, Name: "Rope", Description: "Ten meters of hemp rope.", Weight: 1.5, Quantity: 1}, it)

		_, err = s.AddItem(ctx, c.ID, 100, 1)
		assert.ErrorIs(t, err, ErrConflict)
		_, err = s.AddItem(ctx, c.ID, 200, 1)
		assert.ErrorIs(t, err, ErrNotFound, "weapon id is not an item")

		it, err = s.UpdateItem(ctx, c.ID, 100, ItemPatch{Quantity: ptr(3)})
		require.NoError(t, err)
		assert.Equal(t, 3, it.Quantity)
		assert.Equal(t, "Ten meters of hemp rope.", it.Description)

		w, err := s.AddWeapon(ctx, c.ID, 200)
		require.NoError(t, err)
		assert.Equal(t, "1d4", w.Damage)
		w, err = s.UpdateWeapon(ctx, c.ID, 200, "Notched")
		require.NoError(t, err)
		assert.Equal(t, "Notched", w.Description)

		_, err = s.AddArmor(ctx, c.ID, 300)
		require.NoError(t, err)
		sp, err := s.AddSpell(ctx, c.ID, 401)
		require.NoError(t, err)
		assert.Equal(t, 3, sp.Slots)
		_, err = s.UpdateSpell(ctx, c.ID, 401, "Big boom")
		require.NoError(t, err)
		_, err = s.UpdateArmor(ctx, c.ID, 300, "Patched")
		require.NoError(t, err)

		require.NoError(t, s.RemoveEntry(ctx, types.Items, c.ID, 100))
		assert.ErrorIs(t, s.RemoveEntry(ctx, types.Items, c.ID, 100), ErrNotFound)
		assert.ErrorIs(t, s.RemoveEntry(ctx, types.Attributes, c.ID, 1), ErrInvalid)

		sh, err := s.Sheet(ctx, c.ID)
		require.NoError(t, err)
		assert.Empty(t, sh.Items)
		require.Len(t, sh.Weapons, 1)
		assert.Equal(t, "Notched", sh.Weapons[0].Description)
		assert.Equal(t, "Patched", sh.Armors[0].Description)
		assert.Equal(t, "Big boom", sh.Spells[0].Description)
	})

	t.Run("delete", func(t *testing.T) {
		c, err := s.CreateCharacter(ctx, "Goblin", types.RoleNPC)
		require.NoError(t, err)
		_, err = s.AddItem(ctx, c.ID, 101, 2)
		require.NoError(t, err)

		require.NoError(t, s.DeleteCharacter(ctx, c.ID))
		_, err = s.Sheet(ctx, c.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteCharacter(ctx, c.ID), ErrNotFound)

		list, err := s.Characters(ctx)
		require.NoError(t, err)
		for _, ch := range list {
			assert.NotEqual(t, c.ID, ch.ID)
		}
	})
}
