package cart

import (
	"context"
	"errors"
	"time"

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.CartItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, course_id, price::text, added_date
FROM cart_items
ORDER BY id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) Add(ctx context.Context, courseID int, price decimal.Decimal) (domain.CartItem, bool, error) {
	item, err := domain.NewCartItem(courseID, price, time.Now())
	if err != nil {
		return domain.CartItem{}, false, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.CartItem{}, false, err
	}
	defer tx.Rollback(ctx)

	// Serializes id allocation with concurrent writers.
	if _, err := tx.Exec(ctx, `LOCK TABLE cart_items IN EXCLUSIVE MODE`); err != nil {
		return domain.CartItem{}, false, err
	}

	existing, err := scanItem(tx.QueryRow(ctx, `
SELECT id, course_id, price::text, added_date
FROM cart_items
WHERE course_id = $1
`, courseID))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.CartItem{}, false, err
	}

	created, err := scanItem(tx.QueryRow(ctx, `
INSERT INTO cart_items (id, course_id, price, added_date)
SELECT COALESCE(MAX(id), 0) + 1, $1, $2::numeric, $3 FROM cart_items
RETURNING id, course_id, price::text, added_date
`, item.CourseID, item.Price.StringFixed(2), item.AddedDate))
	if err != nil {
		return domain.CartItem{}, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.CartItem{}, false, err
	}
	r.logger.Debug("cart repo: added", "id", created.ID, "course_id", courseID)
	return created, true, nil
}

func (r *postgresRepo) Remove(ctx context.Context, courseID int) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE course_id = $1`, courseID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepo) Clear(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items`)
	return err
}

func (r *postgresRepo) Total(ctx context.Context) (decimal.Decimal, error) {
	var raw string
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(price), 0)::text FROM cart_items`).Scan(&raw); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

func scanItem(row pgx.Row) (domain.CartItem, error) {
	var (
		it    domain.CartItem
		price string
	)
	if err := row.Scan(&it.ID, &it.CourseID, &price, &it.AddedDate); err != nil {
		return domain.CartItem{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return domain.CartItem{}, err
	}
	it.Price = p
	it.AddedDate = it.AddedDate.UTC()
	return it, nil
}
