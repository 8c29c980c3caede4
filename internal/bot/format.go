package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/users"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
	"github.com/Kayszu18/yandex-market-bot/internal/lifecycle"
)

const displayTimeLayout = "2006-01-02 15:04"

func formatOrderButton(orderID int64) string {
	return fmt.Sprintf("📋 Order #%d", orderID)
}

func formatWithdrawalButton(withdrawalID int64) string {
	return fmt.Sprintf("📋 Request #%d", withdrawalID)
}

func formatOrderCard(order *orders.Order, usr *users.User) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📋 Order #%d\n\n", order.ID())
	fmt.Fprintf(&sb, "👤 User: %s (ID: %d)\n", displayName(usr), order.UserID())
	fmt.Fprintf(&sb, "🔗 URL: %s\n", order.ProductURL())
	fmt.Fprintf(&sb, "📅 Created: %s\n", order.CreatedAt().Format(displayTimeLayout))
	fmt.Fprintf(&sb, "📊 Status: %s", order.Status())

	return sb.String()
}

func formatWithdrawalCard(withdrawal *withdrawals.Withdrawal, usr *users.User) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📋 Withdrawal request #%d\n\n", withdrawal.ID())
	fmt.Fprintf(&sb, "👤 User: %s (ID: %d)\n", displayName(usr), withdrawal.UserID())
	fmt.Fprintf(&sb, "💰 Amount: %s\n", withdrawal.Amount())
	fmt.Fprintf(&sb, "💳 Method: %s\n", withdrawal.DestinationType())
	fmt.Fprintf(&sb, "📝 Destination: %s\n", withdrawal.Destination())
	fmt.Fprintf(&sb, "📅 Created: %s\n", withdrawal.CreatedAt().Format(displayTimeLayout))
	fmt.Fprintf(&sb, "📊 Status: %s", withdrawal.Status())

	return sb.String()
}

func formatUserCard(usr *users.User, referrals int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "👤 User %s (ID: %d)\n\n", displayName(usr), usr.ID)
	fmt.Fprintf(&sb, "💰 Balance: %s\n", usr.Balance)
	fmt.Fprintf(&sb, "👥 Referrals: %d\n", referrals)
	fmt.Fprintf(&sb, "📅 Joined: %s\n", usr.CreatedAt.Format(displayTimeLayout))
	fmt.Fprintf(&sb, "🚫 Blocked: %t", usr.Blocked)

	return sb.String()
}

func formatOrderList(ords []*orders.Order) string {
	if len(ords) == 0 {
		return "🧾 You have no orders yet."
	}

	var sb strings.Builder

	sb.WriteString("🧾 Your orders:\n")

	for _, order := range ords {
		fmt.Fprintf(&sb, "\n#%d | %s | %s",
			order.ID(), order.Status(), order.CreatedAt().Format(displayTimeLayout))
	}

	return sb.String()
}

func formatWithdrawalList(wds []*withdrawals.Withdrawal) string {
	if len(wds) == 0 {
		return "📜 You have no withdrawal requests yet."
	}

	var sb strings.Builder

	sb.WriteString("📜 Your withdrawal requests:\n")

	for _, withdrawal := range wds {
		fmt.Fprintf(&sb, "\n#%d | %s | %s | %s",
			withdrawal.ID(), withdrawal.Amount(), withdrawal.Status(),
			withdrawal.CreatedAt().Format(displayTimeLayout))
	}

	return sb.String()
}

func formatStats(stats *lifecycle.Stats) string {
	var sb strings.Builder

	sb.WriteString("📊 Stats\n\n")
	fmt.Fprintf(&sb, "👤 Users: %d (blocked: %d)\n", stats.Users, stats.BlockedUsers)
	fmt.Fprintf(&sb, "📦 Orders: %d pending, %d decided\n", stats.PendingOrders, stats.DecidedOrders)
	fmt.Fprintf(&sb, "💸 Withdrawals: %d pending, %d paid\n", stats.PendingWithdrawals, stats.PaidWithdrawals)
	fmt.Fprintf(&sb, "💰 Total balance: %s", stats.TotalBalance)

	return sb.String()
}

func displayName(usr *users.User) string {
	if usr == nil {
		return "unknown"
	}

	if usr.Username != "" {
		return "@" + usr.Username
	}

	return fmt.Sprintf("user %d", usr.ID)
}

func exportFilename(kind string) string {
	return fmt.Sprintf("%s_%s.csv", kind, time.Now().Format("20060102_150405"))
}
