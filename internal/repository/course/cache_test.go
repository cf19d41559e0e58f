package course

import (
	"context"
	"testing"
	"time"

	"coursemarket/internal/domain"
	"coursemarket/internal/latency"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis points at a closed port so every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCached_FallsThroughWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	inner, err := NewMemory(sampleCourses(), latency.None, nil)
	require.NoError(t, err)
	repo := NewCached(inner, unreachableRedis(t), time.Minute, nil)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Title)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Upsert(ctx, domain.Course{ID: 5, Title: "New", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestDetailKey(t *testing.T) {
	assert.Equal(t, "course:detail:12", detailKey(12))
}

// countingRepo counts reads that reach the wrapped repository.
type countingRepo struct {
	Repository
	lists, gets int
}

func (r *countingRepo) List(ctx context.Context) ([]domain.Course, error) {
	r.lists++
	return r.Repository.List(ctx)
}

func (r *countingRepo) GetByID(ctx context.Context, id int) (*domain.Course, error) {
	r.gets++
	return r.Repository.GetByID(ctx, id)
}

func newCachedRepo(t *testing.T) (*Cached, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	inner, err := NewMemory(sampleCourses(), latency.None, nil)
	require.NoError(t, err)
	counting := &countingRepo{Repository: inner}
	return NewCached(counting, rdb, time.Minute, nil), counting, mr
}

func TestCached_ListServedFromRedis(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedRepo(t)

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.lists)
	assert.Equal(t, len(first), len(second))
	assert.Equal(t, first[0].Title, second[0].Title)
	assert.True(t, first[0].Price.Equal(second[0].Price))
	assert.True(t, mr.Exists(listCacheKey))
	assert.Equal(t, time.Minute, mr.TTL(listCacheKey))
}

func TestCached_GetByIDServedFromRedis(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedRepo(t)

	_, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	got, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.gets)
	assert.Equal(t, "SQL", got.Title)
	assert.Equal(t, 1, got.TotalLessons())
	assert.Equal(t, time.Minute, mr.TTL(detailKey(2)))
}

func TestCached_MissIsNotCached(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedRepo(t)

	_, err := repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 2, inner.gets)
	assert.False(t, mr.Exists(detailKey(99)))
}

func TestCached_UpsertInvalidates(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedRepo(t)

	_, err := repo.List(ctx)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, mr.Exists(listCacheKey))
	require.True(t, mr.Exists(detailKey(1)))

	_, err = repo.Upsert(ctx, domain.Course{ID: 1, Title: "Go 2", Price: decimal.NewFromInt(60)})
	require.NoError(t, err)
	assert.False(t, mr.Exists(listCacheKey))
	assert.False(t, mr.Exists(detailKey(1)))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Go 2", got.Title)
	assert.Equal(t, 2, inner.gets)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.lists)
	assert.Len(t, list, 2)
}

func TestCached_CorruptEntryFallsThrough(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedRepo(t)
	require.NoError(t, mr.Set(detailKey(1), "not json"))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Title)
	assert.Equal(t, 1, inner.gets)
}
