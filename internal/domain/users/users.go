package users

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUserIDInvalid = errors.New("user id is invalid")

// User is a bot participant keyed by their platform user id.
// Users are created on first contact and never deleted.
type User struct {
	ID         int64
	Username   string
	Phone      string
	ReferrerID int64 // 0 means no referrer
	Balance    decimal.Decimal
	Blocked    bool
	CreatedAt  time.Time
}

func NewUser(id int64, username string, referrerID int64) (*User, error) {
	if err := ValidateUserID(id); err != nil {
		return nil, err
	}

	// Self-referral is silently dropped.
	if referrerID == id {
		referrerID = 0
	}

	return &User{
		ID:         id,
		Username:   username,
		ReferrerID: referrerID,
		Balance:    decimal.Zero,
		CreatedAt:  time.Now(),
	}, nil
}

func (u *User) HasReferrer() bool {
	return u.ReferrerID != 0
}

func (u *User) AddBalance(amount decimal.Decimal) {
	u.Balance = u.Balance.Add(amount)
}

func (u *User) SubBalance(amount decimal.Decimal) {
	u.Balance = u.Balance.Sub(amount)
}

func ValidateUserID(id int64) error {
	if id <= 0 {
		return ErrUserIDInvalid
	}

	return nil
}
