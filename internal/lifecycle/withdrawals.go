package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
	"github.com/shopspring/decimal"
)

// RequestWithdrawal creates a withdrawal request and holds the amount on
// the user's balance. The hold is refunded if the request is rejected.
func (s *Service) RequestWithdrawal(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
	destType withdrawals.DestinationType,
	destination string,
) (*withdrawals.Withdrawal, error) {
	if amount.LessThan(s.minWithdrawal) {
		return nil, ErrAmountBelowMinimum
	}

	usr, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetUser: %w", err)
	}

	if usr.Balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	withdrawal, err := withdrawals.NewWithdrawal(userID, amount, destType, destination)
	if err != nil {
		return nil, fmt.Errorf("withdrawals.NewWithdrawal: %w", err)
	}

	usr.SubBalance(amount)

	if err := s.storage.UpdateUser(ctx, usr); err != nil {
		return nil, fmt.Errorf("storage.UpdateUser: %w", err)
	}

	if err := s.storage.CreateWithdrawal(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("storage.CreateWithdrawal: %w", err)
	}

	return withdrawal, nil
}

// DecideWithdrawal applies an admin decision to a withdrawal. Reject
// refunds the held amount to the user's balance; Pay requires a payment
// proof media reference.
func (s *Service) DecideWithdrawal(
	ctx context.Context,
	withdrawalID, adminID int64,
	decision Decision,
	proofID string,
) (*withdrawals.Withdrawal, error) {
	withdrawal, err := s.storage.GetWithdrawal(ctx, withdrawalID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetWithdrawal: %w", err)
	}

	switch decision {
	case DecisionApprove:
		err = withdrawal.Approve(adminID)
	case DecisionReject:
		err = withdrawal.Reject(adminID)
	case DecisionPay:
		err = withdrawal.Pay(adminID, proofID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDecision, decision)
	}

	if err != nil {
		return nil, fmt.Errorf("withdrawal decision: %w", err)
	}

	if err := s.storage.UpdateWithdrawal(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("storage.UpdateWithdrawal: %w", err)
	}

	if decision == DecisionReject {
		if err := s.refundHold(ctx, withdrawal); err != nil {
			s.log.Error("withdrawal refund failed",
				slog.Int64("withdrawalID", withdrawal.ID()),
				slog.Int64("userID", withdrawal.UserID()),
				slog.Any("error", err),
			)
		}
	}

	return withdrawal, nil
}

func (s *Service) refundHold(ctx context.Context, withdrawal *withdrawals.Withdrawal) error {
	usr, err := s.storage.GetUser(ctx, withdrawal.UserID())
	if err != nil {
		return fmt.Errorf("storage.GetUser: %w", err)
	}

	usr.AddBalance(withdrawal.Amount())

	if err := s.storage.UpdateUser(ctx, usr); err != nil {
		return fmt.Errorf("storage.UpdateUser: %w", err)
	}

	return nil
}

// PendingWithdrawals lists withdrawals awaiting an admin decision,
// requested and approved but not yet paid.
func (s *Service) PendingWithdrawals(ctx context.Context) ([]*withdrawals.Withdrawal, error) {
	wds, err := s.storage.GetWithdrawalsByStatus(ctx,
		withdrawals.WithdrawalStatusRequested,
		withdrawals.WithdrawalStatusApproved,
	)
	if err != nil {
		return nil, fmt.Errorf("storage.GetWithdrawalsByStatus: %w", err)
	}

	return wds, nil
}

// UserWithdrawals lists all withdrawals requested by the given user.
func (s *Service) UserWithdrawals(ctx context.Context, userID int64) ([]*withdrawals.Withdrawal, error) {
	wds, err := s.storage.GetWithdrawalsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetWithdrawalsByUser: %w", err)
	}

	return wds, nil
}

// AllWithdrawals lists every withdrawal regardless of status, for exports.
func (s *Service) AllWithdrawals(ctx context.Context) ([]*withdrawals.Withdrawal, error) {
	wds, err := s.storage.GetWithdrawalsByStatus(ctx,
		withdrawals.WithdrawalStatusRequested,
		withdrawals.WithdrawalStatusApproved,
		withdrawals.WithdrawalStatusRejected,
		withdrawals.WithdrawalStatusPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("storage.GetWithdrawalsByStatus: %w", err)
	}

	return wds, nil
}

// GetWithdrawal loads a single withdrawal by id.
func (s *Service) GetWithdrawal(ctx context.Context, withdrawalID int64) (*withdrawals.Withdrawal, error) {
	withdrawal, err := s.storage.GetWithdrawal(ctx, withdrawalID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetWithdrawal: %w", err)
	}

	return withdrawal, nil
}
