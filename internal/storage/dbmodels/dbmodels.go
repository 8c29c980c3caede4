package dbmodels

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID         int64
	Username   string
	Phone      sql.NullString
	ReferrerID sql.NullInt64
	Balance    decimal.Decimal
	Blocked    bool
	CreatedAt  time.Time
}

type Order struct {
	ID           int64
	UserID       int64
	ProductURL   string
	ScreenshotID string
	Status       string
	CreatedAt    time.Time
	DecidedAt    sql.NullTime
	DecidedBy    sql.NullInt64
	Revision     int64
}

type Withdrawal struct {
	ID          int64
	UserID      int64
	Amount      decimal.Decimal
	DestType    string
	Destination string
	Status      string
	ProofID     sql.NullString
	CreatedAt   time.Time
	DecidedAt   sql.NullTime
	DecidedBy   sql.NullInt64
	Revision    int64
}
