package course

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"coursemarket/internal/domain"
	"coursemarket/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	listCacheKey      = "courses:list"
	detailCachePrefix = "course:detail:"
)

// Cached is a read-through redis cache in front of another Repository.
// Redis failures are logged and fall through to the wrapped repository.
type Cached struct {
	next   Repository
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *logger.Logger
}

func NewCached(next Repository, rdb redis.Cmdable, ttl time.Duration, log *logger.Logger) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl, logger: logger.OrNop(log)}
}

func detailKey(id int) string {
	return detailCachePrefix + strconv.Itoa(id)
}

func (c *Cached) List(ctx context.Context) ([]domain.Course, error) {
	var cached []domain.Course
	if c.read(ctx, listCacheKey, &cached) {
		return cached, nil
	}
	courses, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.write(ctx, listCacheKey, courses)
	return courses, nil
}

func (c *Cached) GetByID(ctx context.Context, id int) (*domain.Course, error) {
	var cached domain.Course
	if c.read(ctx, detailKey(id), &cached) {
		return &cached, nil
	}
	course, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.write(ctx, detailKey(id), course)
	return course, nil
}

func (c *Cached) Upsert(ctx context.Context, course domain.Course) (*domain.Course, error) {
	out, err := c.next.Upsert(ctx, course)
	if err != nil {
		return nil, err
	}
	if err := c.rdb.Del(ctx, listCacheKey, detailKey(course.ID)).Err(); err != nil {
		c.logger.Warn("course cache: invalidate", "id", course.ID, "error", err)
	}
	return out, nil
}

func (c *Cached) read(ctx context.Context, key string, dst interface{}) bool {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("course cache: get", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		c.logger.Warn("course cache: decode", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cached) write(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("course cache: set", "key", key, "error", err)
	}
}
