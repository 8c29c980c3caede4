package storage

import (
	"context"
	"errors"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/users"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrConflict           = errors.New("entity was modified concurrently")
)

type UserStorage interface {
	CreateUser(ctx context.Context, usr *users.User) error
	GetUser(ctx context.Context, userID int64) (*users.User, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	UpdateUser(ctx context.Context, usr *users.User) error
	GetUsers(ctx context.Context) ([]*users.User, error)
}

type OrderStorage interface {
	// CreateOrder persists a new order and assigns its id.
	CreateOrder(ctx context.Context, order *orders.Order) error
	GetOrder(ctx context.Context, orderID int64) (*orders.Order, error)
	GetOrdersByUser(ctx context.Context, userID int64) ([]*orders.Order, error)
	GetOrdersByStatus(ctx context.Context, statuses ...orders.OrderStatus) ([]*orders.Order, error)
	// UpdateOrder replaces the stored row if the revision matches,
	// bumping it by one. A mismatch yields ErrConflict.
	UpdateOrder(ctx context.Context, order *orders.Order) error
}

type WithdrawalStorage interface {
	// CreateWithdrawal persists a new withdrawal and assigns its id.
	CreateWithdrawal(ctx context.Context, withdrawal *withdrawals.Withdrawal) error
	GetWithdrawal(ctx context.Context, withdrawalID int64) (*withdrawals.Withdrawal, error)
	GetWithdrawalsByUser(ctx context.Context, userID int64) ([]*withdrawals.Withdrawal, error)
	GetWithdrawalsByStatus(ctx context.Context, statuses ...withdrawals.WithdrawalStatus) ([]*withdrawals.Withdrawal, error)
	// UpdateWithdrawal replaces the stored row if the revision matches,
	// bumping it by one. A mismatch yields ErrConflict.
	UpdateWithdrawal(ctx context.Context, withdrawal *withdrawals.Withdrawal) error
}

type Storage interface {
	UserStorage
	OrderStorage
	WithdrawalStorage
	Close() error
	Ping(ctx context.Context) error
}

func NewStorage(store Storage) Storage {
	return store
}
