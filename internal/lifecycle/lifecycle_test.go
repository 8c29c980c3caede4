package lifecycle

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
	"github.com/Kayszu18/yandex-market-bot/internal/storage"
	"github.com/Kayszu18/yandex-market-bot/internal/storage/inmemory"
)

const (
	userID     int64 = 100
	referrerID int64 = 200
	adminID    int64 = 555

	productURL   = "https://market.example.com/product/42"
	screenshotID = "AgACAgIAAxkBAAI"
	cardNumber   = "4276120035461234"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	return NewService(storage.NewStorage(inmemory.NewStorage()),
		WithOrderReward(decimal.NewFromInt(10000)),
		WithReferralPercent(decimal.NewFromFloat(0.10)),
		WithMinWithdrawal(decimal.NewFromInt(1000)),
	)
}

func registerUsers(ctx context.Context, t *testing.T, svc *Service) {
	t.Helper()

	_, err := svc.RegisterUser(ctx, referrerID, "bob", 0)
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, userID, "alice", referrerID)
	require.NoError(t, err)
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	t.Run("unknown referrer dropped", func(t *testing.T) {
		usr, err := svc.RegisterUser(ctx, userID, "alice", 99999)
		require.NoError(t, err)
		assert.False(t, usr.HasReferrer())
	})

	t.Run("repeat registration keeps user", func(t *testing.T) {
		usr, err := svc.RegisterUser(ctx, userID, "alice_renamed", referrerID)
		require.NoError(t, err)

		// Registration is idempotent; the late referrer is not recorded.
		assert.False(t, usr.HasReferrer())
		assert.Equal(t, "alice_renamed", usr.Username)
	})
}

func TestOrderApprovalRewards(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	registerUsers(ctx, t, svc)

	order, err := svc.SubmitOrder(ctx, userID, productURL, screenshotID)
	require.NoError(t, err)
	require.Equal(t, orders.OrderStatusPending, order.Status())

	decided, err := svc.DecideOrder(ctx, order.ID(), adminID, DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, orders.OrderStatusApproved, decided.Status())

	submitter, err := svc.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, submitter.Balance.Equal(decimal.NewFromInt(10000)),
		"submitter balance: %s", submitter.Balance)

	referrer, err := svc.GetUser(ctx, referrerID)
	require.NoError(t, err)
	assert.True(t, referrer.Balance.Equal(decimal.NewFromInt(1000)),
		"referrer balance: %s", referrer.Balance)

	// A second decision on the same order must fail and credit nothing.
	_, err = svc.DecideOrder(ctx, order.ID(), adminID, DecisionApprove)
	require.ErrorIs(t, err, orders.ErrInvalidTransition)

	submitter, err = svc.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, submitter.Balance.Equal(decimal.NewFromInt(10000)))
}

func TestOrderRejection(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	registerUsers(ctx, t, svc)

	order, err := svc.SubmitOrder(ctx, userID, productURL, screenshotID)
	require.NoError(t, err)

	decided, err := svc.DecideOrder(ctx, order.ID(), adminID, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, orders.OrderStatusRejected, decided.Status())

	submitter, err := svc.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, submitter.Balance.IsZero())

	_, err = svc.DecideOrder(ctx, order.ID(), adminID, DecisionApprove)
	require.ErrorIs(t, err, orders.ErrInvalidTransition)
}

func TestOrderRewardWithoutReferrer(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.RegisterUser(ctx, userID, "alice", 0)
	require.NoError(t, err)

	order, err := svc.SubmitOrder(ctx, userID, productURL, screenshotID)
	require.NoError(t, err)

	_, err = svc.DecideOrder(ctx, order.ID(), adminID, DecisionApprove)
	require.NoError(t, err)

	submitter, err := svc.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, submitter.Balance.Equal(decimal.NewFromInt(10000)))
}

func TestSubmitOrderUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.SubmitOrder(ctx, userID, productURL, screenshotID)
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestDecideOrderErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	registerUsers(ctx, t, svc)

	_, err := svc.DecideOrder(ctx, 99999, adminID, DecisionApprove)
	require.ErrorIs(t, err, storage.ErrOrderNotFound)

	order, err := svc.SubmitOrder(ctx, userID, productURL, screenshotID)
	require.NoError(t, err)

	_, err = svc.DecideOrder(ctx, order.ID(), adminID, DecisionPay)
	require.ErrorIs(t, err, ErrUnknownDecision)
}

func TestRequestWithdrawal(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	registerUsers(ctx, t, svc)

	fundUser(ctx, t, svc, userID)

	t.Run("below minimum", func(t *testing.T) {
		_, err := svc.RequestWithdrawal(ctx, userID, decimal.NewFromInt(500), withdrawals.DestinationCard, cardNumber)
		require.ErrorIs(t, err, ErrAmountBelowMinimum)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		_, err := svc.RequestWithdrawal(ctx, userID, decimal.NewFromInt(50000), withdrawals.DestinationCard, cardNumber)
		require.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("holds the amount", func(t *testing.T) {
		withdrawal, err := svc.RequestWithdrawal(ctx, userID, decimal.NewFromInt(4000), withdrawals.DestinationCard, cardNumber)
		require.NoError(t, err)
		assert.Equal(t, withdrawals.WithdrawalStatusRequested, withdrawal.Status())

		usr, err := svc.GetUser(ctx, userID)
		require.NoError(t, err)
		assert.True(t, usr.Balance.Equal(decimal.NewFromInt(6000)), "balance: %s", usr.Balance)
	})
}

func TestWithdrawalLifecycle(t *testing.T) {
	const proofID = "AgACAgIAAxkBAAProof"

	ctx := context.Background()

	t.Run("approve then pay", func(t *testing.T) {
		svc := newTestService(t)
		registerUsers(ctx, t, svc)
		fundUser(ctx, t, svc, userID)

		withdrawal, err := svc.RequestWithdrawal(ctx, userID, decimal.NewFromInt(4000), withdrawals.DestinationCard, cardNumber)
		require.NoError(t, err)

		approved, err := svc.DecideWithdrawal(ctx, withdrawal.ID(), adminID, DecisionApprove, "")
		require.NoError(t, err)
		assert.Equal(t, withdrawals.WithdrawalStatusApproved, approved.Status())

		paid, err := svc.DecideWithdrawal(ctx, withdrawal.ID(), adminID, DecisionPay, proofID)
		require.NoError(t, err)
		assert.Equal(t, withdrawals.WithdrawalStatusPaid, paid.Status())
		assert.Equal(t, proofID, paid.ProofID())

		// The hold is not refunded on payout.
		usr, err := svc.GetUser(ctx, userID)
		require.NoError(t, err)
		assert.True(t, usr.Balance.Equal(decimal.NewFromInt(6000)))
	})

	t.Run("reject refunds the hold", func(t *testing.T) {
		svc := newTestService(t)
		registerUsers(ctx, t, svc)
		fundUser(ctx, t, svc, userID)

		withdrawal, err := svc.RequestWithdrawal(ctx, userID, decimal.NewFromInt(4000), withdrawals.DestinationCard, cardNumber)
		require.NoError(t, err)

		_, err = svc.DecideWithdrawal(ctx, withdrawal.ID(), adminID, DecisionReject, "")
		require.NoError(t, err)

		usr, err := svc.GetUser(ctx, userID)
		require.NoError(t, err)
		assert.True(t, usr.Balance.Equal(decimal.NewFromInt(10000)), "balance: %s", usr.Balance)

		// Rejecting again must not refund twice.
		_, err = svc.DecideWithdrawal(ctx, withdrawal.ID(), adminID, DecisionReject, "")
		require.ErrorIs(t, err, withdrawals.ErrInvalidTransition)

		usr, err = svc.GetUser(ctx, userID)
		require.NoError(t, err)
		assert.True(t, usr.Balance.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("pay requires approval", func(t *testing.T) {
		svc := newTestService(t)
		registerUsers(ctx, t, svc)
		fundUser(ctx, t, svc, userID)

		withdrawal, err := svc.RequestWithdrawal(ctx, userID, decimal.NewFromInt(4000), withdrawals.DestinationCard, cardNumber)
		require.NoError(t, err)

		_, err = svc.DecideWithdrawal(ctx, withdrawal.ID(), adminID, DecisionPay, proofID)
		require.ErrorIs(t, err, withdrawals.ErrInvalidTransition)
	})

	t.Run("pay requires proof", func(t *testing.T) {
		svc := newTestService(t)
		registerUsers(ctx, t, svc)
		fundUser(ctx, t, svc, userID)

		withdrawal, err := svc.RequestWithdrawal(ctx, userID, decimal.NewFromInt(4000), withdrawals.DestinationCard, cardNumber)
		require.NoError(t, err)

		_, err = svc.DecideWithdrawal(ctx, withdrawal.ID(), adminID, DecisionApprove, "")
		require.NoError(t, err)

		_, err = svc.DecideWithdrawal(ctx, withdrawal.ID(), adminID, DecisionPay, "")
		require.ErrorIs(t, err, withdrawals.ErrMissingProof)
	})
}

func TestSetUserBlocked(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	registerUsers(ctx, t, svc)

	usr, err := svc.SetUserBlocked(ctx, userID, true)
	require.NoError(t, err)
	assert.True(t, usr.Blocked)

	usr, err = svc.SetUserBlocked(ctx, userID, false)
	require.NoError(t, err)
	assert.False(t, usr.Blocked)

	_, err = svc.SetUserBlocked(ctx, 99999, true)
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestReferrals(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	registerUsers(ctx, t, svc)

	_, err := svc.RegisterUser(ctx, 300, "carol", referrerID)
	require.NoError(t, err)

	referred, err := svc.Referrals(ctx, referrerID)
	require.NoError(t, err)
	assert.Len(t, referred, 2)

	referred, err = svc.Referrals(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, referred)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	registerUsers(ctx, t, svc)

	order, err := svc.SubmitOrder(ctx, userID, productURL, screenshotID)
	require.NoError(t, err)

	_, err = svc.DecideOrder(ctx, order.ID(), adminID, DecisionApprove)
	require.NoError(t, err)

	_, err = svc.SubmitOrder(ctx, userID, productURL, screenshotID)
	require.NoError(t, err)

	_, err = svc.RequestWithdrawal(ctx, userID, decimal.NewFromInt(1500), withdrawals.DestinationCard, cardNumber)
	require.NoError(t, err)

	_, err = svc.SetUserBlocked(ctx, referrerID, true)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Users)
	assert.Equal(t, 1, stats.BlockedUsers)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 1, stats.DecidedOrders)
	assert.Equal(t, 1, stats.PendingWithdrawals)
	assert.Equal(t, 0, stats.PaidWithdrawals)

	// 10000 reward + 1000 referral share - 1500 held.
	assert.True(t, stats.TotalBalance.Equal(decimal.NewFromInt(9500)), "total: %s", stats.TotalBalance)
}

// fundUser credits the user through an approved order, 10000 plus the
// referral share to the referrer.
func fundUser(ctx context.Context, t *testing.T, svc *Service, id int64) {
	t.Helper()

	order, err := svc.SubmitOrder(ctx, id, productURL, screenshotID)
	require.NoError(t, err)

	_, err = svc.DecideOrder(ctx, order.ID(), adminID, DecisionApprove)
	require.NoError(t, err)
}
