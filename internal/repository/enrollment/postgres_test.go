package enrollment

import (
	"context"
	"os"
	"testing"

	"coursemarket/internal/domain"
	"coursemarket/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_Lifecycle(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	require.NoError(t, migrate.Apply(ctx, pool))
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	_, err = repo.Create(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrConflict)

	e, err := repo.UpdateProgress(ctx, 4, 10, 25)
	require.NoError(t, err)
	e, err = repo.UpdateProgress(ctx, 4, 10, 25)
	require.NoError(t, err)
	assert.Equal(t, []int{10}, e.CompletedLessons.IDs())
	assert.Equal(t, 25, e.Progress)

	progress := 100
	got, err := repo.Update(ctx, created.ID, domain.EnrollmentPatch{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE enrollments, cart_items, courses`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
