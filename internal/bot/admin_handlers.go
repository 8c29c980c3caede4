package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
	"github.com/Kayszu18/yandex-market-bot/internal/export"
	"github.com/Kayszu18/yandex-market-bot/internal/lifecycle"
	"github.com/Kayszu18/yandex-market-bot/internal/storage"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleAdminMessage reacts to admin menu buttons. It reports whether
// the message was consumed so regular handling can take over otherwise.
func (b *Bot) handleAdminMessage(ctx context.Context, msg *tgbotapi.Message) bool {
	switch msg.Text {
	case btnAdminOrders:
		b.listPendingOrders(ctx, msg.Chat.ID)

	case btnAdminWithdrawals:
		b.listPendingWithdrawals(ctx, msg.Chat.ID)

	case btnAdminBroadcast:
		session := b.sessions.Get(msg.Chat.ID)
		session.Step = StepBroadcastText

		b.reply(msg.Chat.ID, "📣 Send the broadcast text.", cancelKeyboard())

	case btnAdminManageUser:
		session := b.sessions.Get(msg.Chat.ID)
		session.Step = StepManageUserID

		b.reply(msg.Chat.ID, "👤 Send the user ID.", cancelKeyboard())

	case btnAdminStats:
		b.showStats(ctx, msg.Chat.ID)

	case btnAdminExport:
		b.sendExports(ctx, msg.Chat.ID)

	default:
		return false
	}

	return true
}

func (b *Bot) listPendingOrders(ctx context.Context, chatID int64) {
	ords, err := b.svc.PendingOrders(ctx)
	if err != nil {
		b.log.Error("svc.PendingOrders", slog.Any("error", err))
		b.reply(chatID, "Something went wrong, please try again later.", nil)

		return
	}

	if len(ords) == 0 {
		b.reply(chatID, "No pending orders. 🎉", nil)

		return
	}

	ids := make([]int64, 0, len(ords))
	for _, order := range ords {
		ids = append(ids, order.ID())
	}

	b.reply(chatID, fmt.Sprintf("📦 %d order(s) awaiting review:", len(ords)), ordersListKeyboard(ids))
}

// viewOrder sends the order screenshot with a caption card and the
// approve/reject actions.
func (b *Bot) viewOrder(ctx context.Context, cb *tgbotapi.CallbackQuery, orderID int64) {
	order, err := b.svc.GetOrder(ctx, orderID)
	if err != nil {
		b.log.Error("svc.GetOrder", slog.Int64("orderID", orderID), slog.Any("error", err))
		b.answerCallback(cb, "Order not found")

		return
	}

	usr, err := b.svc.GetUser(ctx, order.UserID())
	if err != nil {
		b.log.Error("svc.GetUser", slog.Int64("userID", order.UserID()), slog.Any("error", err))
	}

	photo := tgbotapi.NewPhoto(cb.Message.Chat.ID, tgbotapi.FileID(order.ScreenshotID()))
	photo.Caption = formatOrderCard(order, usr)
	photo.ReplyMarkup = orderReviewKeyboard(order.ID())

	if _, err := b.send.Send(photo); err != nil {
		b.log.Error("send.Send", slog.Any("error", err))
	}

	b.answerCallback(cb, "")
}

func (b *Bot) decideOrder(ctx context.Context, cb *tgbotapi.CallbackQuery, orderID int64, decision lifecycle.Decision) {
	order, err := b.svc.DecideOrder(ctx, orderID, cb.From.ID, decision)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidTransition):
			b.answerCallback(cb, "Order is already decided")
		case errors.Is(err, storage.ErrConflict):
			b.answerCallback(cb, "Order changed under you, reopen it")
		case errors.Is(err, storage.ErrOrderNotFound):
			b.answerCallback(cb, "Order not found")
		default:
			b.log.Error("svc.DecideOrder", slog.Int64("orderID", orderID), slog.Any("error", err))
			b.answerCallback(cb, "Something went wrong")
		}

		return
	}

	switch decision {
	case lifecycle.DecisionApprove:
		b.answerCallback(cb, "Approved ✅")
		b.notify(order.UserID(), fmt.Sprintf(
			"✅ Your order #%d was approved. %s credited to your balance.",
			order.ID(), b.svc.OrderReward(),
		))
	case lifecycle.DecisionReject:
		b.answerCallback(cb, "Rejected ❌")
		b.notify(order.UserID(), fmt.Sprintf("❌ Your order #%d was rejected.", order.ID()))
	}
}

func (b *Bot) listPendingWithdrawals(ctx context.Context, chatID int64) {
	wds, err := b.svc.PendingWithdrawals(ctx)
	if err != nil {
		b.log.Error("svc.PendingWithdrawals", slog.Any("error", err))
		b.reply(chatID, "Something went wrong, please try again later.", nil)

		return
	}

	if len(wds) == 0 {
		b.reply(chatID, "No withdrawal requests. 🎉", nil)

		return
	}

	ids := make([]int64, 0, len(wds))
	for _, withdrawal := range wds {
		ids = append(ids, withdrawal.ID())
	}

	b.reply(chatID, fmt.Sprintf("💸 %d withdrawal(s) awaiting processing:", len(wds)), withdrawalsListKeyboard(ids))
}

func (b *Bot) viewWithdrawal(ctx context.Context, cb *tgbotapi.CallbackQuery, withdrawalID int64) {
	withdrawal, err := b.svc.GetWithdrawal(ctx, withdrawalID)
	if err != nil {
		b.log.Error("svc.GetWithdrawal", slog.Int64("withdrawalID", withdrawalID), slog.Any("error", err))
		b.answerCallback(cb, "Withdrawal not found")

		return
	}

	usr, err := b.svc.GetUser(ctx, withdrawal.UserID())
	if err != nil {
		b.log.Error("svc.GetUser", slog.Int64("userID", withdrawal.UserID()), slog.Any("error", err))
	}

	b.reply(cb.Message.Chat.ID, formatWithdrawalCard(withdrawal, usr), withdrawalReviewKeyboard(withdrawal))
	b.answerCallback(cb, "")
}

func (b *Bot) decideWithdrawal(
	ctx context.Context,
	cb *tgbotapi.CallbackQuery,
	withdrawalID int64,
	decision lifecycle.Decision,
) {
	withdrawal, err := b.svc.DecideWithdrawal(ctx, withdrawalID, cb.From.ID, decision, "")
	if err != nil {
		switch {
		case errors.Is(err, withdrawals.ErrInvalidTransition):
			b.answerCallback(cb, "Withdrawal is already processed")
		case errors.Is(err, storage.ErrConflict):
			b.answerCallback(cb, "Withdrawal changed under you, reopen it")
		case errors.Is(err, storage.ErrWithdrawalNotFound):
			b.answerCallback(cb, "Withdrawal not found")
		default:
			b.log.Error("svc.DecideWithdrawal", slog.Int64("withdrawalID", withdrawalID), slog.Any("error", err))
			b.answerCallback(cb, "Something went wrong")
		}

		return
	}

	switch decision {
	case lifecycle.DecisionApprove:
		b.answerCallback(cb, "Approved ✅")
		b.notify(withdrawal.UserID(), fmt.Sprintf(
			"✅ Your withdrawal request #%d was approved and will be paid out shortly.", withdrawal.ID(),
		))
	case lifecycle.DecisionReject:
		b.answerCallback(cb, "Rejected ❌")
		b.notify(withdrawal.UserID(), fmt.Sprintf(
			"❌ Your withdrawal request #%d was rejected. %s returned to your balance.",
			withdrawal.ID(), withdrawal.Amount(),
		))
	}
}

// askPaymentProof puts the admin into the proof-photo step. Marking a
// withdrawal paid requires a proof attachment.
func (b *Bot) askPaymentProof(cb *tgbotapi.CallbackQuery, withdrawalID int64) {
	session := b.sessions.Get(cb.Message.Chat.ID)
	session.Step = StepProofPhoto
	session.WithdrawalID = withdrawalID

	b.answerCallback(cb, "")
	b.reply(cb.Message.Chat.ID,
		fmt.Sprintf("📸 Send the payment proof photo for withdrawal #%d.", withdrawalID),
		cancelKeyboard(),
	)
}

func (b *Bot) handlePaymentProof(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	if len(msg.Photo) == 0 {
		b.reply(msg.Chat.ID, "⚠️ Please send the payment proof as a photo.", nil)

		return
	}

	proofID := msg.Photo[len(msg.Photo)-1].FileID
	withdrawalID := session.WithdrawalID

	withdrawal, err := b.svc.DecideWithdrawal(ctx, withdrawalID, msg.From.ID, lifecycle.DecisionPay, proofID)
	if err != nil {
		b.sessions.Reset(msg.Chat.ID)

		switch {
		case errors.Is(err, withdrawals.ErrInvalidTransition):
			b.reply(msg.Chat.ID, "⚠️ This withdrawal is not approved for payout.", b.menuFor(msg.From.ID))
		case errors.Is(err, storage.ErrWithdrawalNotFound):
			b.reply(msg.Chat.ID, "⚠️ Withdrawal not found.", b.menuFor(msg.From.ID))
		default:
			b.log.Error("svc.DecideWithdrawal", slog.Int64("withdrawalID", withdrawalID), slog.Any("error", err))
			b.reply(msg.Chat.ID, "Something went wrong, please try again later.", b.menuFor(msg.From.ID))
		}

		return
	}

	b.sessions.Reset(msg.Chat.ID)
	b.reply(msg.Chat.ID,
		fmt.Sprintf("✅ Withdrawal #%d marked as paid.", withdrawal.ID()),
		b.menuFor(msg.From.ID),
	)

	// Forward the proof to the user along with the payout notice.
	photo := tgbotapi.NewPhoto(withdrawal.UserID(), tgbotapi.FileID(proofID))
	photo.Caption = fmt.Sprintf("💸 Your withdrawal #%d for %s has been paid.", withdrawal.ID(), withdrawal.Amount())

	if _, err := b.send.Send(photo); err != nil {
		b.log.Warn("payment proof delivery failed",
			slog.Int64("userID", withdrawal.UserID()), slog.Any("error", err))
	}
}

func (b *Bot) handleManageUserID(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	userID, err := strconv.ParseInt(strings.TrimSpace(msg.Text), 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "⚠️ Send a numeric user ID.", nil)

		return
	}

	usr, err := b.svc.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			b.reply(msg.Chat.ID, "⚠️ No such user.", nil)

			return
		}

		b.log.Error("svc.GetUser", slog.Int64("userID", userID), slog.Any("error", err))
		b.reply(msg.Chat.ID, "Something went wrong, please try again later.", nil)

		return
	}

	referred, err := b.svc.Referrals(ctx, userID)
	if err != nil {
		b.log.Error("svc.Referrals", slog.Int64("userID", userID), slog.Any("error", err))
	}

	b.sessions.Reset(msg.Chat.ID)
	b.reply(msg.Chat.ID, formatUserCard(usr, len(referred)), userManageKeyboard(usr))
}

func (b *Bot) setUserBlocked(ctx context.Context, cb *tgbotapi.CallbackQuery, userID int64, blocked bool) {
	usr, err := b.svc.SetUserBlocked(ctx, userID, blocked)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			b.answerCallback(cb, "No such user")

			return
		}

		b.log.Error("svc.SetUserBlocked", slog.Int64("userID", userID), slog.Any("error", err))
		b.answerCallback(cb, "Something went wrong")

		return
	}

	if blocked {
		b.answerCallback(cb, "User blocked 🚫")
	} else {
		b.answerCallback(cb, "User unblocked 🔓")
	}

	referred, err := b.svc.Referrals(ctx, userID)
	if err != nil {
		b.log.Error("svc.Referrals", slog.Int64("userID", userID), slog.Any("error", err))
	}

	b.reply(cb.Message.Chat.ID, formatUserCard(usr, len(referred)), userManageKeyboard(usr))
}

func (b *Bot) handleBroadcastText(msg *tgbotapi.Message, session *Session) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		b.reply(msg.Chat.ID, "⚠️ Send the broadcast as plain text.", nil)

		return
	}

	session.BroadcastText = text
	session.Step = StepIdle

	b.reply(msg.Chat.ID, "📣 Broadcast preview:\n\n"+text, broadcastPreviewKeyboard())
}

func (b *Bot) confirmBroadcast(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	session := b.sessions.Get(cb.Message.Chat.ID)

	text := session.BroadcastText
	if text == "" {
		b.answerCallback(cb, "Nothing to send")

		return
	}

	b.sessions.Reset(cb.Message.Chat.ID)
	b.answerCallback(cb, "Sending…")

	sent, failed, err := b.Broadcast(ctx, text)
	if err != nil {
		b.log.Error("bot.Broadcast", slog.Any("error", err))
		b.reply(cb.Message.Chat.ID, "Something went wrong, please try again later.", nil)

		return
	}

	b.reply(cb.Message.Chat.ID, fmt.Sprintf("📣 Broadcast delivered to %d user(s), %d failed.", sent, failed), nil)
}

func (b *Bot) showStats(ctx context.Context, chatID int64) {
	stats, err := b.svc.Stats(ctx)
	if err != nil {
		b.log.Error("svc.Stats", slog.Any("error", err))
		b.reply(chatID, "Something went wrong, please try again later.", nil)

		return
	}

	b.reply(chatID, formatStats(stats), nil)
}

// sendExports delivers orders, withdrawals and users as CSV documents.
func (b *Bot) sendExports(ctx context.Context, chatID int64) {
	var buf bytes.Buffer

	ords, err := b.svc.AllOrders(ctx)
	if err == nil {
		err = export.WriteOrders(&buf, ords)
	}

	if err != nil {
		b.log.Error("orders export failed", slog.Any("error", err))
		b.reply(chatID, "Something went wrong, please try again later.", nil)

		return
	}

	b.sendDocument(chatID, exportFilename("orders"), buf.Bytes())
	buf.Reset()

	wds, err := b.svc.AllWithdrawals(ctx)
	if err == nil {
		err = export.WriteWithdrawals(&buf, wds)
	}

	if err != nil {
		b.log.Error("withdrawals export failed", slog.Any("error", err))
		b.reply(chatID, "Something went wrong, please try again later.", nil)

		return
	}

	b.sendDocument(chatID, exportFilename("withdrawals"), buf.Bytes())
	buf.Reset()

	usrs, err := b.svc.Users(ctx)
	if err == nil {
		err = export.WriteUsers(&buf, usrs)
	}

	if err != nil {
		b.log.Error("users export failed", slog.Any("error", err))
		b.reply(chatID, "Something went wrong, please try again later.", nil)

		return
	}

	b.sendDocument(chatID, exportFilename("users"), buf.Bytes())
}

func (b *Bot) sendDocument(chatID int64, name string, data []byte) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})

	if _, err := b.send.Send(doc); err != nil {
		b.log.Error("send.Send", slog.String("document", name), slog.Any("error", err))
	}
}
