package bot

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
)

func TestFormatOrderList(t *testing.T) {
	assert.Contains(t, formatOrderList(nil), "no orders")

	createdAt := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)

	order, err := orders.RestoreOrder(7, 100, "https://market.example/item/1", "photo-1",
		"APPROVED", createdAt, createdAt.Add(time.Hour), 555, 1)
	require.NoError(t, err)

	got := formatOrderList([]*orders.Order{order})

	assert.Contains(t, got, "#7 | APPROVED | 2026-08-01 12:30")
	assert.NotContains(t, got, "—")
}

func TestFormatWithdrawalList(t *testing.T) {
	assert.Contains(t, formatWithdrawalList(nil), "no withdrawal requests")

	createdAt := time.Date(2026, 8, 2, 9, 15, 0, 0, time.UTC)

	withdrawal, err := withdrawals.RestoreWithdrawal(3, 100, decimal.NewFromInt(4000),
		"card", "4276120035461234", "REQUESTED", "", createdAt, time.Time{}, 0, 0)
	require.NoError(t, err)

	got := formatWithdrawalList([]*withdrawals.Withdrawal{withdrawal})

	assert.Contains(t, got, "#3 | 4000 | REQUESTED | 2026-08-02 09:15")
	assert.NotContains(t, got, "—")
}
