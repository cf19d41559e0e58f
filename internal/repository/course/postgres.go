package course

import (
	"context"
	"errors"

	"coursemarket/internal/domain"
	"coursemarket/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *logger.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

const selectCourse = `
SELECT id, title, description, category, level, duration, thumbnail, price::text, rating,
       students_count, last_updated, instructor, sections
FROM courses
`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.pool.Query(ctx, selectCourse+`ORDER BY id ASC`)
	if err != nil {
		r.logger.Error("course repo: list", "error", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("course repo: list rows", "error", err)
		return nil, err
	}
	r.logger.Debug("course repo: list", "count", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int) (*domain.Course, error) {
	c, err := scanCourse(r.pool.QueryRow(ctx, selectCourse+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("course repo: get", "id", id, "error", err)
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Course) (*domain.Course, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sections := c.Sections
	if sections == nil {
		sections = []domain.Section{}
	}
	const q = `
INSERT INTO courses (id, title, description, category, level, duration, thumbnail, price, rating,
                     students_count, last_updated, instructor, sections)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    level = EXCLUDED.level,
    duration = EXCLUDED.duration,
    thumbnail = EXCLUDED.thumbnail,
    price = EXCLUDED.price,
    rating = EXCLUDED.rating,
    students_count = EXCLUDED.students_count,
    last_updated = EXCLUDED.last_updated,
    instructor = EXCLUDED.instructor,
    sections = EXCLUDED.sections
`
	_, err := r.pool.Exec(ctx, q,
		c.ID, c.Title, c.Description, c.Category, c.Level, c.Duration, c.Thumbnail,
		c.Price.StringFixed(2), c.Rating, c.StudentsCount, c.LastUpdated, c.Instructor, sections,
	)
	if err != nil {
		r.logger.Error("course repo: upsert", "id", c.ID, "error", err)
		return nil, err
	}
	r.logger.Debug("course repo: upserted", "id", c.ID, "title", c.Title)
	out := c.Clone()
	out.Sections = sections
	return &out, nil
}

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var (
		c     domain.Course
		price string
	)
	if err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.Level, &c.Duration, &c.Thumbnail,
		&price, &c.Rating, &c.StudentsCount, &c.LastUpdated, &c.Instructor, &c.Sections,
	); err != nil {
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	c.Price = p
	return &c, nil
}
