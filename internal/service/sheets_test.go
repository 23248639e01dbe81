package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/sheet-sync/internal/room"
	"github.com/DoyleJ11/sheet-sync/internal/store"
	"github.com/DoyleJ11/sheet-sync/pkg/event"
	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

type published struct {
	Room  room.Room
	Event event.Event
}

type recorder struct {
	mu  sync.Mutex
	got []published
}

func (r *recorder) Publish(rm room.Room, ev event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, published{Room: rm, Event: ev})
}

func (r *recorder) events(rm room.Room) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, p := range r.got {
		if p.Room == rm {
			out = append(out, p.Event)
		}
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

var errDiskFull = errors.New("disk full")

// failingStore rejects every write it overrides.
type failingStore struct {
	*store.MemoryStore
}

func (failingStore) UpdateAttribute(context.Context, int, int, store.AttributePatch) (types.AttributeValue, error) {
	return types.AttributeValue{}, errDiskFull
}

func (failingStore) AddItem(context.Context, int, int, int) (types.Item, error) {
	return types.Item{}, errDiskFull
}

func (failingStore) RemoveEntry(context.Context, types.Collection, int, int) error {
	return errDiskFull
}

func (failingStore) UpdateCharacter(context.Context, int, store.CharacterPatch) (store.CharacterState, error) {
	return store.CharacterState{}, errDiskFull
}

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T, st store.Store, name string) types.Character {
	t.Helper()
	c, err := st.CreateCharacter(context.Background(), name, types.RolePlayer)
	require.NoError(t, err)
	return c
}

func TestSheets_FailedWritePublishesNothing(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore(store.DefaultCatalog())
	c := seed(t, mem, "Ayla")

	rec := &recorder{}
	svc := New(failingStore{mem}, rec, nil)

	_, err := svc.UpdateAttribute(ctx, c.ID, 1, store.AttributePatch{Value: ptr(3)})
	assert.ErrorIs(t, err, errDiskFull)
	_, err = svc.AddEntry(ctx, types.Items, c.ID, 100, 1)
	assert.ErrorIs(t, err, errDiskFull)
	assert.ErrorIs(t, svc.RemoveEntry(ctx, types.Items, c.ID, 100), errDiskFull)
	_, err = svc.UpdateCharacter(ctx, c.ID, store.CharacterPatch{Name: ptr("B")})
	assert.ErrorIs(t, err, errDiskFull)

	// rejected by the real store too
	_, err = svc.UpdateStatus(ctx, c.ID, 999, true)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.UpdateSkill(ctx, 4242, 50, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Zero(t, rec.count())
}

func TestSheets_AttributeWriteEmitsCommittedTriple(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore(store.DefaultCatalog())
	c := seed(t, mem, "Ayla")
	_, err := mem.UpdateAttribute(ctx, c.ID, 1, store.AttributePatch{Value: ptr(10), MaxValue: ptr(10)})
	require.NoError(t, err)

	rec := &recorder{}
	svc := New(mem, rec, nil)

	a, err := svc.UpdateAttribute(ctx, c.ID, 1, store.AttributePatch{Value: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, a.Value)

	want := []event.Event{event.AttributeChange(c.ID, 1, 7, 10, 0)}
	assert.Equal(t, want, rec.events(room.Player(c.ID)))
	assert.Equal(t, want, rec.events(room.Admin()))
	assert.Empty(t, rec.events(room.Portrait(c.ID)))
}

func TestSheets_WritesEmitOnlyTheirField(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore(store.DefaultCatalog())
	c := seed(t, mem, "Ayla")
	rec := &recorder{}
	svc := New(mem, rec, nil)

	_, err := svc.UpdateCharacteristic(ctx, c.ID, 30, store.CharacteristicPatch{Value: ptr(15)})
	require.NoError(t, err)
	_, err = svc.UpdateCurrency(ctx, c.ID, 40, 12)
	require.NoError(t, err)
	_, err = svc.UpdateInfo(ctx, c.ID, 20, "Orphan")
	require.NoError(t, err)
	_, err = svc.UpdateSpec(ctx, c.ID, 60, "1.80m")
	require.NoError(t, err)
	_, err = svc.UpdateCharacter(ctx, c.ID, store.CharacterPatch{SpellSlots: ptr(4)})
	require.NoError(t, err)

	assert.Equal(t, []event.Event{
		event.CharacteristicChange(c.ID, 30, 15, 0),
		event.CurrencyChange(c.ID, 40, 12),
		event.InfoChange(c.ID, 20, "Orphan"),
		event.SpecChange(c.ID, 60, "1.80m"),
		event.SpellSlotsChange(c.ID, 4),
	}, rec.events(room.Player(c.ID)))
}

func TestSheets_InventoryLifecycle(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore(store.DefaultCatalog())
	c := seed(t, mem, "Ayla")
	rec := &recorder{}
	svc := New(mem, rec, nil)

	v, err := svc.AddEntry(ctx, types.Items, c.ID, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, v.(types.Item).Quantity)

	_, err = svc.ChangeEntry(ctx, types.Items, c.ID, 100, store.ItemPatch{Quantity: ptr(4)})
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, types.Weapons, c.ID, 200, 0)
	require.NoError(t, err)
	_, err = svc.ChangeEntry(ctx, types.Weapons, c.ID, 200, store.ItemPatch{Description: ptr("Rusty")})
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, types.Armors, c.ID, 300, 0)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, types.Spells, c.ID, 400, 0)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveEntry(ctx, types.Items, c.ID, 100))

	kinds := []event.Kind{}
	for _, ev := range rec.events(room.Admin()) {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []event.Kind{
		event.KindItemAdd, event.KindItemChange, event.KindWeaponAdd, event.KindWeaponChange,
		event.KindArmorAdd, event.KindSpellAdd, event.KindItemRemove,
	}, kinds)

	_, err = svc.ChangeEntry(ctx, types.Weapons, c.ID, 200, store.ItemPatch{Quantity: ptr(2)})
	assert.ErrorIs(t, err, store.ErrInvalid)
	_, err = svc.ChangeEntry(ctx, types.Spells, c.ID, 400, store.ItemPatch{})
	assert.ErrorIs(t, err, store.ErrInvalid)
	_, err = svc.AddEntry(ctx, types.Skills, c.ID, 50, 0)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, svc.RemoveEntry(ctx, types.Attributes, c.ID, 1), ErrUnsupported)
	assert.Len(t, rec.events(room.Admin()), 7)
}

func TestSheets_NPCLifecycle(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore(store.DefaultCatalog())
	player := seed(t, mem, "Ayla")
	rec := &recorder{}
	svc := New(mem, rec, nil)

	npc, err := svc.CreateNPC(ctx, "Goblin")
	require.NoError(t, err)
	assert.Equal(t, types.RoleNPC, npc.Role)

	assert.ErrorIs(t, svc.DeleteNPC(ctx, player.ID), store.ErrInvalid)
	require.NoError(t, svc.DeleteNPC(ctx, npc.ID))
	assert.ErrorIs(t, svc.DeleteNPC(ctx, npc.ID), store.ErrNotFound)

	assert.Equal(t, []event.Event{
		event.NPCAdd(npc.ID, "Goblin"),
		event.NPCRemove(npc.ID),
	}, rec.events(room.Admin()))
}

// commitOrder wraps a store and records the value of every committed
// attribute write, in commit order.
type commitOrder struct {
	store.Store
	mu     sync.Mutex
	values []int
}

func (c *commitOrder) UpdateAttribute(ctx context.Context, characterID, attrID int, p store.AttributePatch) (types.AttributeValue, error) {
	a, err := c.Store.UpdateAttribute(ctx, characterID, attrID, p)
	if err == nil {
		c.mu.Lock()
		c.values = append(c.values, a.Value)
		c.mu.Unlock()
	}
	return a, err
}

func TestSheets_PublishOrderMatchesCommitOrder(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore(store.DefaultCatalog())
	c := seed(t, mem, "Ayla")
	wrapped := &commitOrder{Store: mem}
	rec := &recorder{}
	svc := New(wrapped, rec, nil)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_, err := svc.UpdateAttribute(ctx, c.ID, 1, store.AttributePatch{Value: ptr(v)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var published []int
	for _, ev := range rec.events(room.Player(c.ID)) {
		v, _ := ev.Int(2)
		published = append(published, v)
	}
	assert.Equal(t, wrapped.values, published)
	assert.Zero(t, svc.locks.len(), "lock entries are released")
}
