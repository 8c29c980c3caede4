//nolint:wrapcheck
package orders

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/users"
)

var (
	ErrProductURLEmpty    = errors.New("product url is empty")
	ErrProductURLInvalid  = errors.New("product url is invalid")
	ErrScreenshotEmpty    = errors.New("screenshot is empty")
	ErrInvalidTransition  = errors.New("order status transition is not allowed")
	ErrOrderStatusUnknown = errors.New("unknown order status")
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusApproved OrderStatus = "APPROVED"
	OrderStatusRejected OrderStatus = "REJECTED"
)

func (s OrderStatus) String() string {
	return string(s)
}

func ParseOrderStatus(status string) (OrderStatus, error) {
	switch OrderStatus(status) {
	case OrderStatusPending, OrderStatusApproved, OrderStatusRejected:
		return OrderStatus(status), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrOrderStatusUnknown, status)
	}
}

// Order is a submitted purchase proof awaiting a reimbursement decision.
// The status advances exactly once, Pending to Approved or Rejected, and
// is terminal afterwards.
type Order struct {
	id           int64
	userID       int64
	productURL   string
	screenshotID string
	status       OrderStatus
	createdAt    time.Time
	decidedAt    time.Time
	decidedBy    int64
	revision     int64
}

func NewOrder(userID int64, productURL, screenshotID string) (*Order, error) {
	if err := users.ValidateUserID(userID); err != nil {
		return nil, err
	}

	if err := ValidateProductURL(productURL); err != nil {
		return nil, err
	}

	if screenshotID == "" {
		return nil, ErrScreenshotEmpty
	}

	return &Order{
		userID:       userID,
		productURL:   productURL,
		screenshotID: screenshotID,
		status:       OrderStatusPending,
		createdAt:    time.Now(),
	}, nil
}

// RestoreOrder rebuilds an order from stored row data.
func RestoreOrder(
	id, userID int64,
	productURL, screenshotID, status string,
	createdAt, decidedAt time.Time,
	decidedBy, revision int64,
) (*Order, error) {
	orderStatus, err := ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	return &Order{
		id:           id,
		userID:       userID,
		productURL:   productURL,
		screenshotID: screenshotID,
		status:       orderStatus,
		createdAt:    createdAt,
		decidedAt:    decidedAt,
		decidedBy:    decidedBy,
		revision:     revision,
	}, nil
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) UserID() int64 {
	return o.userID
}

func (o *Order) ProductURL() string {
	return o.productURL
}

func (o *Order) ScreenshotID() string {
	return o.screenshotID
}

func (o *Order) Status() OrderStatus {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) DecidedAt() time.Time {
	return o.decidedAt
}

func (o *Order) DecidedBy() int64 {
	return o.decidedBy
}

func (o *Order) Revision() int64 {
	return o.revision
}

func (o *Order) SetID(id int64) {
	o.id = id
}

func (o *Order) SetRevision(revision int64) {
	o.revision = revision
}

// Approve moves a pending order to Approved, stamping the deciding admin.
func (o *Order) Approve(adminID int64) error {
	return o.decide(OrderStatusApproved, adminID)
}

// Reject moves a pending order to Rejected, stamping the deciding admin.
func (o *Order) Reject(adminID int64) error {
	return o.decide(OrderStatusRejected, adminID)
}

func (o *Order) decide(status OrderStatus, adminID int64) error {
	if o.status != OrderStatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.status, status)
	}

	o.status = status
	o.decidedAt = time.Now()
	o.decidedBy = adminID

	return nil
}

func ValidateProductURL(productURL string) error {
	if productURL == "" {
		return ErrProductURLEmpty
	}

	u, err := url.Parse(productURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrProductURLInvalid
	}

	return nil
}
