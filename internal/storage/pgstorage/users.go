package pgstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/users"
	"github.com/Kayszu18/yandex-market-bot/internal/storage"
	"github.com/Kayszu18/yandex-market-bot/internal/storage/dbmodels"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func (s *Storage) CreateUser(ctx context.Context, usr *users.User) error {
	err := WithRetry(func() error {
		query := `INSERT INTO users (id, username, phone, referrer_id, balance, blocked, created_at)` +
			` VALUES ($1, $2, $3, $4, $5, $6, $7)`

		if _, err := s.db.ExecContext(ctx, query,
			usr.ID, usr.Username, nullString(usr.Phone), nullInt64(usr.ReferrerID),
			usr.Balance, usr.Blocked, usr.CreatedAt,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
				return storage.ErrUserAlreadyExists
			}

			return fmt.Errorf("db.ExecContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) GetUser(ctx context.Context, userID int64) (*users.User, error) {
	dbUser := new(dbmodels.User)

	err := WithRetry(func() error {
		query := `SELECT id, username, phone, referrer_id, balance, blocked, created_at FROM users WHERE id = $1`

		row := s.db.QueryRowContext(ctx, query, userID)

		if err := scanUser(row, dbUser); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrUserNotFound
			}

			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return restoreUser(dbUser), nil
}

func (s *Storage) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool

	err := WithRetry(func() error {
		query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

		if err := s.db.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (s *Storage) UpdateUser(ctx context.Context, usr *users.User) error {
	err := WithRetry(func() error {
		query := `UPDATE users SET username = $1, phone = $2, balance = $3, blocked = $4 WHERE id = $5`

		res, err := s.db.ExecContext(ctx, query,
			usr.Username, nullString(usr.Phone), usr.Balance, usr.Blocked, usr.ID,
		)
		if err != nil {
			return fmt.Errorf("db.ExecContext: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("res.RowsAffected: %w", err)
		}

		if rows == 0 {
			return storage.ErrUserNotFound
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) GetUsers(ctx context.Context) ([]*users.User, error) {
	dbUsers := make([]*dbmodels.User, 0)

	err := WithRetry(func() error {
		query := `SELECT id, username, phone, referrer_id, balance, blocked, created_at FROM users` +
			` ORDER BY created_at`

		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("db.QueryContext: %w", err)
		}

		defer rows.Close()

		for rows.Next() {
			dbUser := new(dbmodels.User)

			if err := scanUser(rows, dbUser); err != nil {
				return fmt.Errorf("rows.Scan: %w", err)
			}

			dbUsers = append(dbUsers, dbUser)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows.Err: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	usrs := make([]*users.User, 0, len(dbUsers))

	for _, dbUser := range dbUsers {
		usrs = append(usrs, restoreUser(dbUser))
	}

	return usrs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, dbUser *dbmodels.User) error {
	return row.Scan(
		&dbUser.ID, &dbUser.Username, &dbUser.Phone, &dbUser.ReferrerID,
		&dbUser.Balance, &dbUser.Blocked, &dbUser.CreatedAt,
	)
}

func restoreUser(dbUser *dbmodels.User) *users.User {
	return &users.User{
		ID:         dbUser.ID,
		Username:   dbUser.Username,
		Phone:      dbUser.Phone.String,
		ReferrerID: dbUser.ReferrerID.Int64,
		Balance:    dbUser.Balance,
		Blocked:    dbUser.Blocked,
		CreatedAt:  dbUser.CreatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(i int64) sql.NullInt64 {
	return sql.NullInt64{Int64: i, Valid: i != 0}
}
