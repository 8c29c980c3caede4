package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/users"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
)

func TestWriteOrders(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	decidedAt := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)

	decided, err := orders.RestoreOrder(
		1, 100,
		"https://market.example.com/product/42", "file1", "APPROVED",
		createdAt, decidedAt,
		555, 1,
	)
	require.NoError(t, err)

	pending, err := orders.RestoreOrder(
		2, 100,
		"https://market.example.com/product/43", "file2", "PENDING",
		createdAt, time.Time{},
		0, 0,
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, []*orders.Order{decided, pending}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"id", "user_id", "product_url", "status", "created_at", "decided_at", "decided_by"}, records[0])
	assert.Equal(t, []string{
		"1", "100", "https://market.example.com/product/42", "APPROVED",
		"2025-03-01T12:00:00Z", "2025-03-02T09:30:00Z", "555",
	}, records[1])

	// Undecided orders leave the decision columns empty.
	assert.Equal(t, "", records[2][5])
	assert.Equal(t, "", records[2][6])
}

func TestWriteWithdrawals(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	withdrawal, err := withdrawals.RestoreWithdrawal(
		1, 100,
		decimal.NewFromInt(1500),
		"card", "4276120035461234", "REQUESTED", "",
		createdAt, time.Time{},
		0, 0,
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteWithdrawals(&buf, []*withdrawals.Withdrawal{withdrawal}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"1", "100", "1500", "card", "4276120035461234", "REQUESTED",
		"2025-03-01T12:00:00Z", "", "",
	}, records[1])
}

func TestWriteUsers(t *testing.T) {
	usr := &users.User{
		ID:         100,
		Username:   "alice",
		ReferrerID: 200,
		Balance:    decimal.NewFromInt(8500),
		Blocked:    false,
		CreatedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	noReferrer := &users.User{
		ID:        200,
		Username:  "bob",
		Balance:   decimal.Zero,
		Blocked:   true,
		CreatedAt: time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteUsers(&buf, []*users.User{usr, noReferrer}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"100", "alice", "", "200", "8500", "false", "2025-03-01T12:00:00Z"}, records[1])
	assert.Equal(t, []string{"200", "bob", "", "", "0", "true", "2025-02-01T12:00:00Z"}, records[2])
}
