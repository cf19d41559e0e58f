package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursemarket/internal/domain"
	"coursemarket/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *logger.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

const enrollmentColumns = `id, course_id, progress, completed_lessons, enrolled_date, last_accessed`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Enrollment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+enrollmentColumns+` FROM enrollments ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int) (*domain.Enrollment, error) {
	return r.fetch(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id)
}

func (r *postgresRepo) GetByCourse(ctx context.Context, courseID int) (*domain.Enrollment, error) {
	return r.fetch(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE course_id = $1`, courseID)
}

func (r *postgresRepo) fetch(ctx context.Context, q string, args ...interface{}) (*domain.Enrollment, error) {
	e, err := scanEnrollment(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *postgresRepo) Create(ctx context.Context, courseID int) (*domain.Enrollment, error) {
	fresh, err := domain.NewEnrollment(courseID, time.Now())
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE enrollments IN EXCLUSIVE MODE`); err != nil {
		return nil, err
	}

	e, err := scanEnrollment(tx.QueryRow(ctx, `
INSERT INTO enrollments (id, course_id, progress, completed_lessons, enrolled_date, last_accessed)
SELECT COALESCE(MAX(id), 0) + 1, $1, 0, '{}', $2, $2 FROM enrollments
RETURNING `+enrollmentColumns, fresh.CourseID, fresh.EnrolledDate))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: course %d already enrolled", domain.ErrConflict, courseID)
		}
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Debug("enrollment repo: created", "id", e.ID, "course_id", courseID)
	return e, nil
}

func (r *postgresRepo) Update(ctx context.Context, id int, patch domain.EnrollmentPatch) (*domain.Enrollment, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := scanEnrollment(tx.QueryRow(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	next := patch.Apply(*current)
	if _, err := tx.Exec(ctx, `
UPDATE enrollments
SET progress = $1, completed_lessons = $2::int[], last_accessed = $3
WHERE id = $4
`, next.Progress, next.CompletedLessons.IDs(), next.LastAccessed, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &next, nil
}

func (r *postgresRepo) UpdateProgress(ctx context.Context, courseID, lessonID, progress int) (*domain.Enrollment, error) {
	if err := domain.ValidateProgress(progress); err != nil {
		return nil, err
	}
	const q = `
UPDATE enrollments
SET completed_lessons = CASE
        WHEN $2 = ANY(completed_lessons) THEN completed_lessons
        ELSE array_append(completed_lessons, $2)
    END,
    progress = $3,
    last_accessed = $4
WHERE course_id = $1
RETURNING ` + enrollmentColumns
	e, err := scanEnrollment(r.pool.QueryRow(ctx, q, courseID, lessonID, progress, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanEnrollment(row pgx.Row) (*domain.Enrollment, error) {
	var (
		e       domain.Enrollment
		lessons []int
	)
	if err := row.Scan(&e.ID, &e.CourseID, &e.Progress, &lessons, &e.EnrolledDate, &e.LastAccessed); err != nil {
		return nil, err
	}
	e.CompletedLessons = domain.NewLessonSet(lessons...)
	e.EnrolledDate = e.EnrolledDate.UTC()
	e.LastAccessed = e.LastAccessed.UTC()
	return &e, nil
}
