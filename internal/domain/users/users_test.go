package users

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		usr, err := NewUser(100, "alice", 200)
		require.NoError(t, err)

		assert.Equal(t, int64(100), usr.ID)
		assert.Equal(t, "alice", usr.Username)
		assert.Equal(t, int64(200), usr.ReferrerID)
		assert.True(t, usr.HasReferrer())
		assert.True(t, usr.Balance.IsZero())
		assert.False(t, usr.Blocked)
	})

	t.Run("no referrer", func(t *testing.T) {
		usr, err := NewUser(100, "alice", 0)
		require.NoError(t, err)

		assert.False(t, usr.HasReferrer())
	})

	t.Run("self referral dropped", func(t *testing.T) {
		usr, err := NewUser(100, "alice", 100)
		require.NoError(t, err)

		assert.False(t, usr.HasReferrer())
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := NewUser(0, "alice", 0)
		require.ErrorIs(t, err, ErrUserIDInvalid)

		_, err = NewUser(-5, "alice", 0)
		require.ErrorIs(t, err, ErrUserIDInvalid)
	})
}

func TestUserBalance(t *testing.T) {
	usr, err := NewUser(100, "alice", 0)
	require.NoError(t, err)

	usr.AddBalance(decimal.NewFromInt(10000))
	assert.True(t, usr.Balance.Equal(decimal.NewFromInt(10000)))

	usr.SubBalance(decimal.NewFromInt(1500))
	assert.True(t, usr.Balance.Equal(decimal.NewFromInt(8500)))
}
