//nolint:wrapcheck
package withdrawals

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/users"
	"github.com/shopspring/decimal"
)

var (
	ErrAmountNotPositive       = errors.New("withdrawal amount must be positive")
	ErrDestinationInvalid      = errors.New("withdrawal destination is invalid")
	ErrDestinationTypeUnknown  = errors.New("unknown withdrawal destination type")
	ErrInvalidTransition       = errors.New("withdrawal status transition is not allowed")
	ErrMissingProof            = errors.New("payment proof is required")
	ErrWithdrawalStatusUnknown = errors.New("unknown withdrawal status")
)

type WithdrawalStatus string

const (
	WithdrawalStatusRequested WithdrawalStatus = "REQUESTED"
	WithdrawalStatusApproved  WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected  WithdrawalStatus = "REJECTED"
	WithdrawalStatusPaid      WithdrawalStatus = "PAID"
)

func (s WithdrawalStatus) String() string {
	return string(s)
}

func ParseWithdrawalStatus(status string) (WithdrawalStatus, error) {
	switch WithdrawalStatus(status) {
	case WithdrawalStatusRequested, WithdrawalStatusApproved,
		WithdrawalStatusRejected, WithdrawalStatusPaid:
		return WithdrawalStatus(status), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrWithdrawalStatusUnknown, status)
	}
}

type DestinationType string

const (
	DestinationCard  DestinationType = "card"
	DestinationPhone DestinationType = "phone"
)

var (
	cardNumberRegexp  = regexp.MustCompile(`^\d{16}$`)
	phoneNumberRegexp = regexp.MustCompile(`^\+?\d{9,15}$`)
)

// Withdrawal is a cash-out request for accumulated balance. It advances
// Requested -> Approved -> Paid, or to Rejected from any pre-paid state.
// Paid and Rejected are terminal.
type Withdrawal struct {
	id          int64
	userID      int64
	amount      decimal.Decimal
	destType    DestinationType
	destination string
	status      WithdrawalStatus
	proofID     string
	createdAt   time.Time
	decidedAt   time.Time
	decidedBy   int64
	revision    int64
}

func NewWithdrawal(userID int64, amount decimal.Decimal, destType DestinationType, destination string) (*Withdrawal, error) {
	if err := users.ValidateUserID(userID); err != nil {
		return nil, err
	}

	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}

	if err := ValidateDestination(destType, destination); err != nil {
		return nil, err
	}

	return &Withdrawal{
		userID:      userID,
		amount:      amount,
		destType:    destType,
		destination: destination,
		status:      WithdrawalStatusRequested,
		createdAt:   time.Now(),
	}, nil
}

// RestoreWithdrawal rebuilds a withdrawal from stored row data.
func RestoreWithdrawal(
	id, userID int64,
	amount decimal.Decimal,
	destType, destination, status, proofID string,
	createdAt, decidedAt time.Time,
	decidedBy, revision int64,
) (*Withdrawal, error) {
	wdStatus, err := ParseWithdrawalStatus(status)
	if err != nil {
		return nil, err
	}

	return &Withdrawal{
		id:          id,
		userID:      userID,
		amount:      amount,
		destType:    DestinationType(destType),
		destination: destination,
		status:      wdStatus,
		proofID:     proofID,
		createdAt:   createdAt,
		decidedAt:   decidedAt,
		decidedBy:   decidedBy,
		revision:    revision,
	}, nil
}

func (w *Withdrawal) ID() int64 {
	return w.id
}

func (w *Withdrawal) UserID() int64 {
	return w.userID
}

func (w *Withdrawal) Amount() decimal.Decimal {
	return w.amount
}

func (w *Withdrawal) DestinationType() DestinationType {
	return w.destType
}

func (w *Withdrawal) Destination() string {
	return w.destination
}

func (w *Withdrawal) Status() WithdrawalStatus {
	return w.status
}

func (w *Withdrawal) ProofID() string {
	return w.proofID
}

func (w *Withdrawal) CreatedAt() time.Time {
	return w.createdAt
}

func (w *Withdrawal) DecidedAt() time.Time {
	return w.decidedAt
}

func (w *Withdrawal) DecidedBy() int64 {
	return w.decidedBy
}

func (w *Withdrawal) Revision() int64 {
	return w.revision
}

func (w *Withdrawal) SetID(id int64) {
	w.id = id
}

func (w *Withdrawal) SetRevision(revision int64) {
	w.revision = revision
}

// Approve moves a requested withdrawal to Approved.
func (w *Withdrawal) Approve(adminID int64) error {
	if w.status != WithdrawalStatusRequested {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, w.status, WithdrawalStatusApproved)
	}

	w.status = WithdrawalStatusApproved
	w.decidedAt = time.Now()
	w.decidedBy = adminID

	return nil
}

// Reject terminates a withdrawal from Requested or Approved.
func (w *Withdrawal) Reject(adminID int64) error {
	if w.status != WithdrawalStatusRequested && w.status != WithdrawalStatusApproved {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, w.status, WithdrawalStatusRejected)
	}

	w.status = WithdrawalStatusRejected
	w.decidedAt = time.Now()
	w.decidedBy = adminID

	return nil
}

// Pay marks an approved withdrawal as paid out. A payment proof media
// reference is mandatory.
func (w *Withdrawal) Pay(adminID int64, proofID string) error {
	if w.status != WithdrawalStatusApproved {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, w.status, WithdrawalStatusPaid)
	}

	if proofID == "" {
		return ErrMissingProof
	}

	w.status = WithdrawalStatusPaid
	w.proofID = proofID
	w.decidedAt = time.Now()
	w.decidedBy = adminID

	return nil
}

func ValidateDestination(destType DestinationType, destination string) error {
	switch destType {
	case DestinationCard:
		if !cardNumberRegexp.MatchString(destination) {
			return ErrDestinationInvalid
		}
	case DestinationPhone:
		if !phoneNumberRegexp.MatchString(destination) {
			return ErrDestinationInvalid
		}
	default:
		return ErrDestinationTypeUnknown
	}

	return nil
}
