package course

import (
	"context"
	"os"
	"testing"

	"coursemarket/internal/domain"
	"coursemarket/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_UpsertListGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	require.NoError(t, migrate.Apply(ctx, pool))
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	_, err := repo.Upsert(ctx, domain.Course{
		ID:         1,
		Title:      "Go",
		Category:   "Development",
		Price:      decimal.RequireFromString("49.99"),
		Rating:     4.7,
		Instructor: domain.Instructor{Name: "Ada"},
		Sections: []domain.Section{{ID: 1, Title: "Intro", Lessons: []domain.Lesson{
			{ID: 1, Title: "Hello", Duration: "05:00"},
		}}},
	})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, domain.Course{ID: 2, Title: "SQL", Price: decimal.NewFromInt(30)})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("49.99")))
	assert.Equal(t, "Ada", got.Instructor.Name)
	assert.Equal(t, 1, got.TotalLessons())

	_, err = repo.GetByID(ctx, 77)
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
