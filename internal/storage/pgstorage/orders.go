package pgstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/storage"
	"github.com/Kayszu18/yandex-market-bot/internal/storage/dbmodels"
	"github.com/lib/pq"
)

func (s *Storage) CreateOrder(ctx context.Context, order *orders.Order) error {
	err := WithRetry(func() error {
		query := `INSERT INTO orders (user_id, product_url, screenshot_id, status, created_at, revision)` +
			` VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

		var orderID int64

		if err := s.db.QueryRowContext(ctx, query,
			order.UserID(), order.ProductURL(), order.ScreenshotID(),
			order.Status().String(), order.CreatedAt(), order.Revision(),
		).Scan(&orderID); err != nil {
			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		order.SetID(orderID)

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) GetOrder(ctx context.Context, orderID int64) (*orders.Order, error) {
	dbOrder := new(dbmodels.Order)

	err := WithRetry(func() error {
		query := `SELECT id, user_id, product_url, screenshot_id, status, created_at, decided_at, decided_by, revision` +
			` FROM orders WHERE id = $1`

		row := s.db.QueryRowContext(ctx, query, orderID)

		if err := scanOrder(row, dbOrder); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrOrderNotFound
			}

			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return restoreOrder(dbOrder)
}

func (s *Storage) GetOrdersByUser(ctx context.Context, userID int64) ([]*orders.Order, error) {
	query := `SELECT id, user_id, product_url, screenshot_id, status, created_at, decided_at, decided_by, revision` +
		` FROM orders WHERE user_id = $1 ORDER BY created_at`

	return s.queryOrders(ctx, query, userID)
}

func (s *Storage) GetOrdersByStatus(ctx context.Context, statuses ...orders.OrderStatus) ([]*orders.Order, error) {
	strStatuses := make([]string, 0, len(statuses))
	for _, status := range statuses {
		strStatuses = append(strStatuses, status.String())
	}

	query := `SELECT id, user_id, product_url, screenshot_id, status, created_at, decided_at, decided_by, revision` +
		` FROM orders WHERE status = ANY($1) ORDER BY created_at`

	return s.queryOrders(ctx, query, pq.Array(strStatuses))
}

// UpdateOrder replaces the order row, guarded by the revision counter.
// A concurrent decision that committed first makes the revision check
// fail and surfaces as ErrConflict instead of a silent overwrite.
func (s *Storage) UpdateOrder(ctx context.Context, order *orders.Order) error {
	err := WithRetry(func() error {
		query := `UPDATE orders SET status = $1, decided_at = $2, decided_by = $3, revision = revision + 1` +
			` WHERE id = $4 AND revision = $5`

		res, err := s.db.ExecContext(ctx, query,
			order.Status().String(), nullTime(order.DecidedAt()), nullInt64(order.DecidedBy()),
			order.ID(), order.Revision(),
		)
		if err != nil {
			return fmt.Errorf("db.ExecContext: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("res.RowsAffected: %w", err)
		}

		if rows == 0 {
			var exists bool
			if err := s.db.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, order.ID(),
			).Scan(&exists); err != nil {
				return fmt.Errorf("db.QueryRowContext: %w", err)
			}

			if !exists {
				return storage.ErrOrderNotFound
			}

			return storage.ErrConflict
		}

		order.SetRevision(order.Revision() + 1)

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) queryOrders(ctx context.Context, query string, args ...any) ([]*orders.Order, error) {
	dbOrders := make([]*dbmodels.Order, 0)

	err := WithRetry(func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("db.QueryContext: %w", err)
		}

		defer rows.Close()

		for rows.Next() {
			dbOrder := new(dbmodels.Order)

			if err := scanOrder(rows, dbOrder); err != nil {
				return fmt.Errorf("rows.Scan: %w", err)
			}

			dbOrders = append(dbOrders, dbOrder)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows.Err: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	ords := make([]*orders.Order, 0, len(dbOrders))

	for _, dbOrder := range dbOrders {
		order, err := restoreOrder(dbOrder)
		if err != nil {
			return nil, err
		}

		ords = append(ords, order)
	}

	return ords, nil
}

func scanOrder(row rowScanner, dbOrder *dbmodels.Order) error {
	return row.Scan(
		&dbOrder.ID, &dbOrder.UserID, &dbOrder.ProductURL, &dbOrder.ScreenshotID,
		&dbOrder.Status, &dbOrder.CreatedAt, &dbOrder.DecidedAt, &dbOrder.DecidedBy,
		&dbOrder.Revision,
	)
}

func restoreOrder(dbOrder *dbmodels.Order) (*orders.Order, error) {
	order, err := orders.RestoreOrder(
		dbOrder.ID,
		dbOrder.UserID,
		dbOrder.ProductURL,
		dbOrder.ScreenshotID,
		dbOrder.Status,
		dbOrder.CreatedAt,
		dbOrder.DecidedAt.Time,
		dbOrder.DecidedBy.Int64,
		dbOrder.Revision,
	)
	if err != nil {
		return nil, fmt.Errorf("orders.RestoreOrder: %w", err)
	}

	return order, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
