package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/users"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
	"github.com/Kayszu18/yandex-market-bot/internal/storage"
	"github.com/shopspring/decimal"
)

// RegisterUser returns the existing user or creates one on first contact.
// The referrer is recorded only at creation time; a referrer pointing to
// an unknown user is dropped.
func (s *Service) RegisterUser(ctx context.Context, userID int64, username string, referrerID int64) (*users.User, error) {
	usr, err := s.storage.GetUser(ctx, userID)
	if err == nil {
		if username != "" && usr.Username != username {
			usr.Username = username
			if err := s.storage.UpdateUser(ctx, usr); err != nil {
				return nil, fmt.Errorf("storage.UpdateUser: %w", err)
			}
		}

		return usr, nil
	}

	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("storage.GetUser: %w", err)
	}

	if referrerID != 0 {
		exists, err := s.storage.UserExists(ctx, referrerID)
		if err != nil {
			return nil, fmt.Errorf("storage.UserExists: %w", err)
		}

		if !exists {
			referrerID = 0
		}
	}

	usr, err = users.NewUser(userID, username, referrerID)
	if err != nil {
		return nil, fmt.Errorf("users.NewUser: %w", err)
	}

	if err := s.storage.CreateUser(ctx, usr); err != nil {
		// Lost a creation race; the user is there now.
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return s.GetUser(ctx, userID)
		}

		return nil, fmt.Errorf("storage.CreateUser: %w", err)
	}

	return usr, nil
}

// GetUser loads a single user by id.
func (s *Service) GetUser(ctx context.Context, userID int64) (*users.User, error) {
	usr, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetUser: %w", err)
	}

	return usr, nil
}

// SetUserBlocked flips a user's blocked flag.
func (s *Service) SetUserBlocked(ctx context.Context, userID int64, blocked bool) (*users.User, error) {
	usr, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetUser: %w", err)
	}

	usr.Blocked = blocked

	if err := s.storage.UpdateUser(ctx, usr); err != nil {
		return nil, fmt.Errorf("storage.UpdateUser: %w", err)
	}

	return usr, nil
}

// SavePhone stores a user's contact phone number.
func (s *Service) SavePhone(ctx context.Context, userID int64, phone string) error {
	usr, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("storage.GetUser: %w", err)
	}

	usr.Phone = phone

	if err := s.storage.UpdateUser(ctx, usr); err != nil {
		return fmt.Errorf("storage.UpdateUser: %w", err)
	}

	return nil
}

// Referrals lists the users referred by the given user.
func (s *Service) Referrals(ctx context.Context, userID int64) ([]*users.User, error) {
	usrs, err := s.storage.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.GetUsers: %w", err)
	}

	var referred []*users.User

	for _, usr := range usrs {
		if usr.ReferrerID == userID {
			referred = append(referred, usr)
		}
	}

	return referred, nil
}

// Users lists all registered users.
func (s *Service) Users(ctx context.Context) ([]*users.User, error) {
	usrs, err := s.storage.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.GetUsers: %w", err)
	}

	return usrs, nil
}

// Stats is an aggregate summary for the admin panel.
type Stats struct {
	Users              int
	BlockedUsers       int
	PendingOrders      int
	DecidedOrders      int
	PendingWithdrawals int
	PaidWithdrawals    int
	TotalBalance       decimal.Decimal
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	usrs, err := s.storage.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.GetUsers: %w", err)
	}

	stats := &Stats{
		Users:        len(usrs),
		TotalBalance: decimal.Zero,
	}

	for _, usr := range usrs {
		if usr.Blocked {
			stats.BlockedUsers++
		}

		stats.TotalBalance = stats.TotalBalance.Add(usr.Balance)
	}

	pending, err := s.storage.GetOrdersByStatus(ctx, orders.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("storage.GetOrdersByStatus: %w", err)
	}

	stats.PendingOrders = len(pending)

	decided, err := s.storage.GetOrdersByStatus(ctx, orders.OrderStatusApproved, orders.OrderStatusRejected)
	if err != nil {
		return nil, fmt.Errorf("storage.GetOrdersByStatus: %w", err)
	}

	stats.DecidedOrders = len(decided)

	pendingWds, err := s.storage.GetWithdrawalsByStatus(ctx,
		withdrawals.WithdrawalStatusRequested, withdrawals.WithdrawalStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("storage.GetWithdrawalsByStatus: %w", err)
	}

	stats.PendingWithdrawals = len(pendingWds)

	paidWds, err := s.storage.GetWithdrawalsByStatus(ctx, withdrawals.WithdrawalStatusPaid)
	if err != nil {
		return nil, fmt.Errorf("storage.GetWithdrawalsByStatus: %w", err)
	}

	stats.PaidWithdrawals = len(paidWds)

	return stats, nil
}
