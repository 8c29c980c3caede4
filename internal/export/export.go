// Package export renders entity listings as CSV for the admin panel and
// the ops API.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/users"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
)

const timeLayout = time.RFC3339

// WriteOrders writes an order listing as CSV.
func WriteOrders(w io.Writer, ords []*orders.Order) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "user_id", "product_url", "status", "created_at", "decided_at", "decided_by"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv.Write: %w", err)
	}

	for _, order := range ords {
		record := []string{
			strconv.FormatInt(order.ID(), 10),
			strconv.FormatInt(order.UserID(), 10),
			order.ProductURL(),
			order.Status().String(),
			order.CreatedAt().Format(timeLayout),
			formatTime(order.DecidedAt()),
			formatID(order.DecidedBy()),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv.Write: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv.Flush: %w", err)
	}

	return nil
}

// WriteWithdrawals writes a withdrawal listing as CSV.
func WriteWithdrawals(w io.Writer, wds []*withdrawals.Withdrawal) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "user_id", "amount", "dest_type", "destination", "status", "created_at", "decided_at", "decided_by"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv.Write: %w", err)
	}

	for _, withdrawal := range wds {
		record := []string{
			strconv.FormatInt(withdrawal.ID(), 10),
			strconv.FormatInt(withdrawal.UserID(), 10),
			withdrawal.Amount().String(),
			string(withdrawal.DestinationType()),
			withdrawal.Destination(),
			withdrawal.Status().String(),
			withdrawal.CreatedAt().Format(timeLayout),
			formatTime(withdrawal.DecidedAt()),
			formatID(withdrawal.DecidedBy()),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv.Write: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv.Flush: %w", err)
	}

	return nil
}

// WriteUsers writes a user listing as CSV.
func WriteUsers(w io.Writer, usrs []*users.User) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "username", "phone", "referrer_id", "balance", "blocked", "created_at"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv.Write: %w", err)
	}

	for _, usr := range usrs {
		record := []string{
			strconv.FormatInt(usr.ID, 10),
			usr.Username,
			usr.Phone,
			formatID(usr.ReferrerID),
			usr.Balance.String(),
			strconv.FormatBool(usr.Blocked),
			usr.CreatedAt.Format(timeLayout),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv.Write: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv.Flush: %w", err)
	}

	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(timeLayout)
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}

	return strconv.FormatInt(id, 10)
}
