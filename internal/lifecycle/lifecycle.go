// Package lifecycle implements the decision workflows around orders,
// withdrawals and referral credit. All mutations of user, order and
// withdrawal rows go through this service.
package lifecycle

import (
	"errors"
	"log/slog"

	"github.com/Kayszu18/yandex-market-bot/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownDecision    = errors.New("unknown decision")
	ErrAmountBelowMinimum = errors.New("withdrawal amount is below the minimum")
	ErrInsufficientFunds  = errors.New("user balance not enough funds")
)

// Decision is an administrator action advancing an order's or
// withdrawal's status.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
	DecisionPay     Decision = "pay"
)

type Service struct {
	storage         storage.Storage
	log             *slog.Logger
	orderReward     decimal.Decimal
	referralPercent decimal.Decimal
	minWithdrawal   decimal.Decimal
}

// NewService returns a new lifecycle Service instance.
func NewService(store storage.Storage, opts ...Option) *Service {
	svc := &Service{
		storage:         store,
		log:             slog.New(&slog.JSONHandler{}),
		orderReward:     decimal.NewFromInt(10000),
		referralPercent: decimal.NewFromFloat(0.10),
		minWithdrawal:   decimal.NewFromInt(1000),
	}

	// Apply options
	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

// Option is a functional option for Service.
type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.log = logger
	}
}

// WithOrderReward sets the amount credited to a user for an approved order.
func WithOrderReward(reward decimal.Decimal) Option {
	return func(s *Service) {
		s.orderReward = reward
	}
}

// WithReferralPercent sets the share of the order reward credited to the
// submitter's referrer on approval.
func WithReferralPercent(percent decimal.Decimal) Option {
	return func(s *Service) {
		s.referralPercent = percent
	}
}

// WithMinWithdrawal sets the minimum accepted withdrawal amount.
func WithMinWithdrawal(minAmount decimal.Decimal) Option {
	return func(s *Service) {
		s.minWithdrawal = minAmount
	}
}

func (s *Service) OrderReward() decimal.Decimal {
	return s.orderReward
}

func (s *Service) MinWithdrawal() decimal.Decimal {
	return s.minWithdrawal
}
