package course

import (
	"context"
	"testing"

	"coursemarket/internal/domain"
	"coursemarket/internal/latency"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCourses() []domain.Course {
	return []domain.Course{
		{ID: 2, Title: "SQL", Price: decimal.NewFromInt(30), Sections: []domain.Section{{ID: 1, Lessons: []domain.Lesson{{ID: 1}}}}},
		{ID: 1, Title: "Go", Price: decimal.NewFromInt(50)},
	}
}

func TestMemory_ListKeepsSeedOrderAndCopies(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemory(sampleCourses(), latency.None, nil)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].ID)
	assert.Equal(t, 1, list[1].ID)

	list[1].Title = "mutated"
	list[0].Sections[0].Lessons[0].Title = "mutated"

	again, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Go", again[1].Title)
	assert.Empty(t, again[0].Sections[0].Lessons[0].Title)
}

func TestMemory_GetByID(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemory(sampleCourses(), latency.None, nil)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "SQL", got.Title)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemory_EmptyCatalog(t *testing.T) {
	repo, err := NewMemory(nil, latency.None, nil)
	require.NoError(t, err)
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemory_RejectsInvalidSeed(t *testing.T) {
	_, err := NewMemory([]domain.Course{{ID: 1, Title: "A"}, {ID: 1, Title: "B"}}, latency.None, nil)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = NewMemory([]domain.Course{{ID: 1, Title: "A", Price: decimal.NewFromInt(-5)}}, latency.None, nil)
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestMemory_Upsert(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemory(sampleCourses(), latency.None, nil)
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, domain.Course{ID: 1, Title: "Go 2", Price: decimal.NewFromInt(60)})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, domain.Course{ID: 3, Title: "Rust", Price: decimal.NewFromInt(70)})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{2, 1, 3}, []int{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, "Go 2", list[1].Title)
}
