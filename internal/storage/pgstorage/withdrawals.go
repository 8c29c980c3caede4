package pgstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
	"github.com/Kayszu18/yandex-market-bot/internal/storage"
	"github.com/Kayszu18/yandex-market-bot/internal/storage/dbmodels"
	"github.com/lib/pq"
)

func (s *Storage) CreateWithdrawal(ctx context.Context, withdrawal *withdrawals.Withdrawal) error {
	err := WithRetry(func() error {
		query := `INSERT INTO withdrawals (user_id, amount, dest_type, destination, status, created_at, revision)` +
			` VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

		var withdrawalID int64

		if err := s.db.QueryRowContext(ctx, query,
			withdrawal.UserID(), withdrawal.Amount(), string(withdrawal.DestinationType()),
			withdrawal.Destination(), withdrawal.Status().String(), withdrawal.CreatedAt(),
			withdrawal.Revision(),
		).Scan(&withdrawalID); err != nil {
			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		withdrawal.SetID(withdrawalID)

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) GetWithdrawal(ctx context.Context, withdrawalID int64) (*withdrawals.Withdrawal, error) {
	dbWithdrawal := new(dbmodels.Withdrawal)

	err := WithRetry(func() error {
		query := `SELECT id, user_id, amount, dest_type, destination, status, proof_id, created_at,` +
			` decided_at, decided_by, revision FROM withdrawals WHERE id = $1`

		row := s.db.QueryRowContext(ctx, query, withdrawalID)

		if err := scanWithdrawal(row, dbWithdrawal); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrWithdrawalNotFound
			}

			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return restoreWithdrawal(dbWithdrawal)
}

func (s *Storage) GetWithdrawalsByUser(ctx context.Context, userID int64) ([]*withdrawals.Withdrawal, error) {
	query := `SELECT id, user_id, amount, dest_type, destination, status, proof_id, created_at,` +
		` decided_at, decided_by, revision FROM withdrawals WHERE user_id = $1 ORDER BY created_at`

	return s.queryWithdrawals(ctx, query, userID)
}

func (s *Storage) GetWithdrawalsByStatus(ctx context.Context, statuses ...withdrawals.WithdrawalStatus) ([]*withdrawals.Withdrawal, error) {
	strStatuses := make([]string, 0, len(statuses))
	for _, status := range statuses {
		strStatuses = append(strStatuses, status.String())
	}

	query := `SELECT id, user_id, amount, dest_type, destination, status, proof_id, created_at,` +
		` decided_at, decided_by, revision FROM withdrawals WHERE status = ANY($1) ORDER BY created_at`

	return s.queryWithdrawals(ctx, query, pq.Array(strStatuses))
}

// UpdateWithdrawal replaces the withdrawal row, guarded by the revision
// counter, reporting a concurrent decision as ErrConflict.
func (s *Storage) UpdateWithdrawal(ctx context.Context, withdrawal *withdrawals.Withdrawal) error {
	err := WithRetry(func() error {
		query := `UPDATE withdrawals SET status = $1, proof_id = $2, decided_at = $3, decided_by = $4,` +
			` revision = revision + 1 WHERE id = $5 AND revision = $6`

		res, err := s.db.ExecContext(ctx, query,
			withdrawal.Status().String(), nullString(withdrawal.ProofID()),
			nullTime(withdrawal.DecidedAt()), nullInt64(withdrawal.DecidedBy()),
			withdrawal.ID(), withdrawal.Revision(),
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
				`SELECT EXISTS (SELECT 1 FROM withdrawals WHERE id = $1)`, withdrawal.ID(),
			).Scan(&exists); err != nil {
				return fmt.Errorf("db.QueryRowContext: %w", err)
			}

			if !exists {
				return storage.ErrWithdrawalNotFound
			}

			return storage.ErrConflict
		}

		withdrawal.SetRevision(withdrawal.Revision() + 1)

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) queryWithdrawals(ctx context.Context, query string, args ...any) ([]*withdrawals.Withdrawal, error) {
	dbWithdrawals := make([]*dbmodels.Withdrawal, 0)

	err := WithRetry(func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("db.QueryContext: %w", err)
		}

		defer rows.Close()

		for rows.Next() {
			dbWithdrawal := new(dbmodels.Withdrawal)

			if err := scanWithdrawal(rows, dbWithdrawal); err != nil {
				return fmt.Errorf("rows.Scan: %w", err)
			}

			dbWithdrawals = append(dbWithdrawals, dbWithdrawal)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows.Err: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	wds := make([]*withdrawals.Withdrawal, 0, len(dbWithdrawals))

	for _, dbWithdrawal := range dbWithdrawals {
		withdrawal, err := restoreWithdrawal(dbWithdrawal)
		if err != nil {
			return nil, err
		}

		wds = append(wds, withdrawal)
	}

	return wds, nil
}

func scanWithdrawal(row rowScanner, dbWithdrawal *dbmodels.Withdrawal) error {
	return row.Scan(
		&dbWithdrawal.ID, &dbWithdrawal.UserID, &dbWithdrawal.Amount, &dbWithdrawal.DestType,
		&dbWithdrawal.Destination, &dbWithdrawal.Status, &dbWithdrawal.ProofID,
		&dbWithdrawal.CreatedAt, &dbWithdrawal.DecidedAt, &dbWithdrawal.DecidedBy,
		&dbWithdrawal.Revision,
	)
}

func restoreWithdrawal(dbWithdrawal *dbmodels.Withdrawal) (*withdrawals.Withdrawal, error) {
	withdrawal, err := withdrawals.RestoreWithdrawal(
		dbWithdrawal.ID,
		dbWithdrawal.UserID,
		dbWithdrawal.Amount,
		dbWithdrawal.DestType,
		dbWithdrawal.Destination,
		dbWithdrawal.Status,
		dbWithdrawal.ProofID.String,
		dbWithdrawal.CreatedAt,
		dbWithdrawal.DecidedAt.Time,
		dbWithdrawal.DecidedBy.Int64,
		dbWithdrawal.Revision,
	)
	if err != nil {
		return nil, fmt.Errorf("withdrawals.RestoreWithdrawal: %w", err)
	}

	return withdrawal, nil
}
