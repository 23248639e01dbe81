//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

// setupGormStore starts a PostgreSQL container and migrates it.
func setupGormStore(t *testing.T) *GormStore {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("sheets_test"),
		postgres.WithUsername("sheets"),
		postgres.WithPassword("sheets"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := OpenGorm(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(ctx, DefaultCatalog()))
	return s
}

func TestGormStore_Contract(t *testing.T) {
	runStoreContract(t, setupGormStore(t))
}

func TestGormStore_MigrateIsRepeatable(t *testing.T) {
	ctx := context.Background()
	s := setupGormStore(t)
	require.NoError(t, s.Migrate(ctx, DefaultCatalog()))
	require.NoError(t, s.Migrate(ctx, DefaultCatalog()))

	c, err := s.CreateCharacter(ctx, "Aria", types.RolePlayer)
	require.NoError(t, err)
	_, err = s.AddWeapon(ctx, c.ID, 200)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, c.ID, 100, 2)
	require.NoError(t, err)

	sh, err := s.Sheet(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, sh.Items, 1)
	require.Len(t, sh.Weapons, 1)
	assert.Equal(t, 2, sh.Items[0].Quantity)
}
