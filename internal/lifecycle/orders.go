package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/shopspring/decimal"
)

// SubmitOrder records a new pending order for the given user.
func (s *Service) SubmitOrder(ctx context.Context, userID int64, productURL, screenshotID string) (*orders.Order, error) {
	if _, err := s.storage.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("storage.GetUser: %w", err)
	}

	order, err := orders.NewOrder(userID, productURL, screenshotID)
	if err != nil {
		return nil, fmt.Errorf("orders.NewOrder: %w", err)
	}

	if err := s.storage.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("storage.CreateOrder: %w", err)
	}

	return order, nil
}

// DecideOrder applies an admin decision to a pending order. Approval
// credits the submitter with the order reward and, best effort, the
// submitter's referrer with the referral share. A failed referral credit
// is logged and does not roll the approval back.
func (s *Service) DecideOrder(ctx context.Context, orderID, adminID int64, decision Decision) (*orders.Order, error) {
	order, err := s.storage.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetOrder: %w", err)
	}

	switch decision {
	case DecisionApprove:
		err = order.Approve(adminID)
	case DecisionReject:
		err = order.Reject(adminID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDecision, decision)
	}

	if err != nil {
		return nil, fmt.Errorf("order decision: %w", err)
	}

	if err := s.storage.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("storage.UpdateOrder: %w", err)
	}

	if decision == DecisionApprove {
		if err := s.rewardSubmitter(ctx, order.UserID()); err != nil {
			s.log.Error("order reward credit failed",
				slog.Int64("orderID", order.ID()),
				slog.Int64("userID", order.UserID()),
				slog.Any("error", err),
			)
		}
	}

	return order, nil
}

// rewardSubmitter credits the order reward to the submitter and the
// referral share to the submitter's referrer, if any.
func (s *Service) rewardSubmitter(ctx context.Context, userID int64) error {
	usr, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("storage.GetUser: %w", err)
	}

	usr.AddBalance(s.orderReward)

	if err := s.storage.UpdateUser(ctx, usr); err != nil {
		return fmt.Errorf("storage.UpdateUser: %w", err)
	}

	if !usr.HasReferrer() {
		return nil
	}

	referralBonus := s.orderReward.Mul(s.referralPercent)

	if err := s.CreditReferrer(ctx, usr.ReferrerID, referralBonus); err != nil {
		return fmt.Errorf("CreditReferrer: %w", err)
	}

	return nil
}

// CreditReferrer adds amount to the referrer's accumulated balance.
// Credit is purely additive; there is no reversal.
func (s *Service) CreditReferrer(ctx context.Context, referrerID int64, amount decimal.Decimal) error {
	referrer, err := s.storage.GetUser(ctx, referrerID)
	if err != nil {
		return fmt.Errorf("storage.GetUser: %w", err)
	}

	referrer.AddBalance(amount)

	if err := s.storage.UpdateUser(ctx, referrer); err != nil {
		return fmt.Errorf("storage.UpdateUser: %w", err)
	}

	return nil
}

// PendingOrders lists orders awaiting an admin decision.
func (s *Service) PendingOrders(ctx context.Context) ([]*orders.Order, error) {
	ords, err := s.storage.GetOrdersByStatus(ctx, orders.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("storage.GetOrdersByStatus: %w", err)
	}

	return ords, nil
}

// UserOrders lists all orders submitted by the given user.
func (s *Service) UserOrders(ctx context.Context, userID int64) ([]*orders.Order, error) {
	ords, err := s.storage.GetOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetOrdersByUser: %w", err)
	}

	return ords, nil
}

// AllOrders lists every order regardless of status, for exports.
func (s *Service) AllOrders(ctx context.Context) ([]*orders.Order, error) {
	ords, err := s.storage.GetOrdersByStatus(ctx,
		orders.OrderStatusPending,
		orders.OrderStatusApproved,
		orders.OrderStatusRejected,
	)
	if err != nil {
		return nil, fmt.Errorf("storage.GetOrdersByStatus: %w", err)
	}

	return ords, nil
}

// GetOrder loads a single order by id.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*orders.Order, error) {
	order, err := s.storage.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetOrder: %w", err)
	}

	return order, nil
}
