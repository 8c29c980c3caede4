package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
	"github.com/Kayszu18/yandex-market-bot/internal/lifecycle"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

const referralArgPrefix = "ref_"

// handleStart registers the user, capturing the referrer from a
// ref_<id> deep link argument on first contact.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	var referrerID int64

	if args := msg.CommandArguments(); strings.HasPrefix(args, referralArgPrefix) {
		id, err := strconv.ParseInt(strings.TrimPrefix(args, referralArgPrefix), 10, 64)
		if err == nil {
			referrerID = id
		}
	}

	usr, err := b.svc.RegisterUser(ctx, msg.From.ID, msg.From.UserName, referrerID)
	if err != nil {
		b.log.Error("svc.RegisterUser", slog.Int64("userID", msg.From.ID), slog.Any("error", err))
		b.reply(msg.Chat.ID, "Something went wrong, please try again later.", nil)

		return
	}

	if usr.Blocked && !b.isAdmin(usr.ID) {
		return
	}

	welcome := fmt.Sprintf(
		"Welcome, %s! 🎉\n\nSubmit your marketplace purchase proof to get reimbursed, "+
			"and invite friends to earn referral credit.",
		displayName(usr),
	)

	b.reply(msg.Chat.ID, welcome, b.menuFor(msg.From.ID))
}

func (b *Bot) handleUserMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Text {
	case btnSubmitOrder:
		session := b.sessions.Get(msg.Chat.ID)
		session.Step = StepOrderURL

		b.reply(msg.Chat.ID, "🔗 Send the product URL of your purchase.", cancelKeyboard())

	case btnBalance:
		b.showBalance(ctx, msg)

	case btnMyOrders:
		ords, err := b.svc.UserOrders(ctx, msg.From.ID)
		if err != nil {
			b.log.Error("svc.UserOrders", slog.Any("error", err))
			b.reply(msg.Chat.ID, "Something went wrong, please try again later.", nil)

			return
		}

		b.reply(msg.Chat.ID, formatOrderList(ords), nil)

	case btnReferrals:
		b.showReferrals(ctx, msg)

	case btnWithdraw:
		session := b.sessions.Get(msg.Chat.ID)
		session.Step = StepWithdrawDestType

		b.reply(msg.Chat.ID, "💳 Choose how you want to receive the payout.", destTypeKeyboard())

	case btnWithdrawHistory:
		wds, err := b.svc.UserWithdrawals(ctx, msg.From.ID)
		if err != nil {
			b.log.Error("svc.UserWithdrawals", slog.Any("error", err))
			b.reply(msg.Chat.ID, "Something went wrong, please try again later.", nil)

			return
		}

		b.reply(msg.Chat.ID, formatWithdrawalList(wds), nil)

	default:
		b.reply(msg.Chat.ID, "Choose an action from the menu below.", b.menuFor(msg.From.ID))
	}
}

func (b *Bot) showBalance(ctx context.Context, msg *tgbotapi.Message) {
	usr, err := b.svc.GetUser(ctx, msg.From.ID)
	if err != nil {
		b.log.Error("svc.GetUser", slog.Any("error", err))
		b.reply(msg.Chat.ID, "Something went wrong, please try again later.", nil)

		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("💰 Your balance: %s", usr.Balance), nil)
}

func (b *Bot) showReferrals(ctx context.Context, msg *tgbotapi.Message) {
	referred, err := b.svc.Referrals(ctx, msg.From.ID)
	if err != nil {
		b.log.Error("svc.Referrals", slog.Any("error", err))
		b.reply(msg.Chat.ID, "Something went wrong, please try again later.", nil)

		return
	}

	link := fmt.Sprintf("https://t.me/%s?start=%s%d", b.selfName, referralArgPrefix, msg.From.ID)

	text := fmt.Sprintf(
		"👥 You invited %d user(s).\n\nYour referral link:\n%s\n\n"+
			"You earn a share of the order reward every time an invited user's order is approved.",
		len(referred), link,
	)

	b.reply(msg.Chat.ID, text, nil)
}

func (b *Bot) handleContact(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.svc.SavePhone(ctx, msg.From.ID, msg.Contact.PhoneNumber); err != nil {
		b.log.Error("svc.SavePhone", slog.Int64("userID", msg.From.ID), slog.Any("error", err))
		b.reply(msg.Chat.ID, "Something went wrong, please try again later.", nil)

		return
	}

	b.reply(msg.Chat.ID, "📱 Phone number saved.", b.menuFor(msg.From.ID))
}

func (b *Bot) handleOrderURL(msg *tgbotapi.Message, session *Session) {
	productURL := strings.TrimSpace(msg.Text)

	if err := orders.ValidateProductURL(productURL); err != nil {
		b.reply(msg.Chat.ID, "⚠️ That does not look like a valid product URL. Send an http(s) link.", nil)

		return
	}

	session.ProductURL = productURL
	session.Step = StepOrderScreenshot

	b.reply(msg.Chat.ID, "📸 Now send a screenshot of the purchase.", cancelKeyboard())
}

func (b *Bot) handleOrderScreenshot(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	if len(msg.Photo) == 0 {
		b.reply(msg.Chat.ID, "⚠️ Please send the screenshot as a photo.", nil)

		return
	}

	// The last photo size is the largest one.
	screenshotID := msg.Photo[len(msg.Photo)-1].FileID

	order, err := b.svc.SubmitOrder(ctx, msg.From.ID, session.ProductURL, screenshotID)
	if err != nil {
		b.log.Error("svc.SubmitOrder", slog.Any("error", err))
		b.sessions.Reset(msg.Chat.ID)
		b.reply(msg.Chat.ID, "Something went wrong, please try again later.", b.menuFor(msg.From.ID))

		return
	}

	b.sessions.Reset(msg.Chat.ID)
	b.reply(msg.Chat.ID,
		fmt.Sprintf("✅ Order #%d submitted. You will be notified once it is reviewed.", order.ID()),
		b.menuFor(msg.From.ID),
	)

	b.notifyAdmins(fmt.Sprintf("📦 New order #%d from user %d awaits review.", order.ID(), order.UserID()))
}

func (b *Bot) handleWithdrawDestType(msg *tgbotapi.Message, session *Session) {
	switch msg.Text {
	case btnDestCard:
		session.DestType = withdrawals.DestinationCard
		session.Step = StepWithdrawDestination

		b.reply(msg.Chat.ID, "💳 Send your 16-digit card number.", cancelKeyboard())

	case btnDestPhone:
		session.DestType = withdrawals.DestinationPhone
		session.Step = StepWithdrawDestination

		b.reply(msg.Chat.ID, "📱 Send your phone number.", cancelKeyboard())

	default:
		b.reply(msg.Chat.ID, "Choose a payout method from the keyboard.", destTypeKeyboard())
	}
}

func (b *Bot) handleWithdrawDestination(msg *tgbotapi.Message, session *Session) {
	destination := strings.TrimSpace(msg.Text)

	if err := withdrawals.ValidateDestination(session.DestType, destination); err != nil {
		b.reply(msg.Chat.ID, "⚠️ That destination does not look valid, try again.", nil)

		return
	}

	session.Destination = destination
	session.Step = StepWithdrawAmount

	b.reply(msg.Chat.ID, fmt.Sprintf("💰 Send the amount to withdraw (minimum %s).", b.svc.MinWithdrawal()), cancelKeyboard())
}

func (b *Bot) handleWithdrawAmount(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	amount, err := decimal.NewFromString(strings.TrimSpace(msg.Text))
	if err != nil {
		b.reply(msg.Chat.ID, "⚠️ Send the amount as a number.", nil)

		return
	}

	withdrawal, err := b.svc.RequestWithdrawal(ctx, msg.From.ID, amount, session.DestType, session.Destination)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrAmountBelowMinimum):
			b.reply(msg.Chat.ID, fmt.Sprintf("⚠️ The minimum withdrawal amount is %s.", b.svc.MinWithdrawal()), nil)
		case errors.Is(err, lifecycle.ErrInsufficientFunds):
			b.reply(msg.Chat.ID, "⚠️ Your balance is not enough for that amount.", nil)
		case errors.Is(err, withdrawals.ErrAmountNotPositive):
			b.reply(msg.Chat.ID, "⚠️ The amount must be positive.", nil)
		default:
			b.log.Error("svc.RequestWithdrawal", slog.Any("error", err))
			b.sessions.Reset(msg.Chat.ID)
			b.reply(msg.Chat.ID, "Something went wrong, please try again later.", b.menuFor(msg.From.ID))
		}

		return
	}

	b.sessions.Reset(msg.Chat.ID)
	b.reply(msg.Chat.ID,
		fmt.Sprintf("✅ Withdrawal request #%d for %s created. The amount is held until it is processed.",
			withdrawal.ID(), withdrawal.Amount()),
		b.menuFor(msg.From.ID),
	)

	b.notifyAdmins(fmt.Sprintf("💸 New withdrawal request #%d from user %d awaits review.",
		withdrawal.ID(), withdrawal.UserID()))
}

func (b *Bot) notifyAdmins(text string) {
	for _, adminID := range b.admins {
		b.notify(adminID, text)
	}
}
