// Package bot routes incoming chat updates to the lifecycle service and
// renders the results back as messages and keyboards.
package bot

import (
	"context"
	"log/slog"

	"github.com/Kayszu18/yandex-market-bot/internal/lifecycle"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the outbound surface of the chat API used by handlers.
// *tgbotapi.BotAPI satisfies it; tests substitute a fake.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api      *tgbotapi.BotAPI
	send     sender
	svc      *lifecycle.Service
	log      *slog.Logger
	admins   []int64
	sessions *Sessions
	selfName string
}

// NewBot returns a new Bot instance.
func NewBot(api *tgbotapi.BotAPI, svc *lifecycle.Service, opts ...Option) *Bot {
	b := &Bot{
		api:      api,
		send:     api,
		svc:      svc,
		log:      slog.New(&slog.JSONHandler{}),
		sessions: NewSessions(),
	}

	if api != nil {
		b.selfName = api.Self.UserName
	}

	// Apply options
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Option is a functional option for Bot.
type Option func(b *Bot)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.log = logger
	}
}

func WithAdminIDs(admins []int64) Option {
	return func(b *Bot) {
		b.admins = admins
	}
}

// Run receives updates over long polling until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 60

	updates := b.api.GetUpdatesChan(updateCfg)

	b.log.Info("Bot started polling", slog.String("username", b.selfName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()

			b.log.Info("Bot stopped polling")

			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}

			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)

	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || !msg.Chat.IsPrivate() {
		return
	}

	if msg.IsCommand() && msg.Command() == "start" {
		b.handleStart(ctx, msg)

		return
	}

	usr, err := b.svc.RegisterUser(ctx, msg.From.ID, msg.From.UserName, 0)
	if err != nil {
		b.log.Error("svc.RegisterUser", slog.Int64("userID", msg.From.ID), slog.Any("error", err))

		return
	}

	// Blocked users are dropped silently.
	if usr.Blocked && !b.isAdmin(msg.From.ID) {
		return
	}

	if msg.Text == btnCancel {
		b.sessions.Reset(msg.Chat.ID)
		b.reply(msg.Chat.ID, "Cancelled.", b.menuFor(msg.From.ID))

		return
	}

	// Only the sender's own shared contact updates the stored phone.
	if msg.Contact != nil && msg.Contact.UserID == msg.From.ID {
		b.handleContact(ctx, msg)

		return
	}

	session := b.sessions.Get(msg.Chat.ID)
	if session.Step != StepIdle {
		b.continueFlow(ctx, msg, session)

		return
	}

	if b.isAdmin(msg.From.ID) && b.handleAdminMessage(ctx, msg) {
		return
	}

	b.handleUserMessage(ctx, msg)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	cmd, err := ParseCallback(cb.Data)
	if err != nil {
		b.log.Warn("ParseCallback", slog.String("data", cb.Data), slog.Any("error", err))
		b.answerCallback(cb, "Unknown action")

		return
	}

	// Every inline action is an admin decision surface.
	if !b.isAdmin(cb.From.ID) {
		b.answerCallback(cb, "Not allowed")

		return
	}

	switch cmd.Kind {
	case CallbackOrderView:
		b.viewOrder(ctx, cb, cmd.ID)
	case CallbackOrderApprove:
		b.decideOrder(ctx, cb, cmd.ID, lifecycle.DecisionApprove)
	case CallbackOrderReject:
		b.decideOrder(ctx, cb, cmd.ID, lifecycle.DecisionReject)
	case CallbackOrdersBack:
		b.listPendingOrders(ctx, cb.Message.Chat.ID)
		b.answerCallback(cb, "")
	case CallbackWithdrawalView:
		b.viewWithdrawal(ctx, cb, cmd.ID)
	case CallbackWithdrawalApprove:
		b.decideWithdrawal(ctx, cb, cmd.ID, lifecycle.DecisionApprove)
	case CallbackWithdrawalReject:
		b.decideWithdrawal(ctx, cb, cmd.ID, lifecycle.DecisionReject)
	case CallbackWithdrawalPay:
		b.askPaymentProof(cb, cmd.ID)
	case CallbackWithdrawalsBack:
		b.listPendingWithdrawals(ctx, cb.Message.Chat.ID)
		b.answerCallback(cb, "")
	case CallbackUserBlock:
		b.setUserBlocked(ctx, cb, cmd.ID, true)
	case CallbackUserUnblock:
		b.setUserBlocked(ctx, cb, cmd.ID, false)
	case CallbackBroadcastSend:
		b.confirmBroadcast(ctx, cb)
	case CallbackBroadcastCancel:
		b.sessions.Reset(cb.Message.Chat.ID)
		b.answerCallback(cb, "Broadcast cancelled")
	}
}

func (b *Bot) continueFlow(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	switch session.Step {
	case StepOrderURL:
		b.handleOrderURL(msg, session)
	case StepOrderScreenshot:
		b.handleOrderScreenshot(ctx, msg, session)
	case StepWithdrawDestType:
		b.handleWithdrawDestType(msg, session)
	case StepWithdrawDestination:
		b.handleWithdrawDestination(msg, session)
	case StepWithdrawAmount:
		b.handleWithdrawAmount(ctx, msg, session)
	case StepBroadcastText:
		if b.isAdmin(msg.From.ID) {
			b.handleBroadcastText(msg, session)
		}
	case StepManageUserID:
		if b.isAdmin(msg.From.ID) {
			b.handleManageUserID(ctx, msg, session)
		}
	case StepProofPhoto:
		if b.isAdmin(msg.From.ID) {
			b.handlePaymentProof(ctx, msg, session)
		}
	case StepIdle:
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	for _, id := range b.admins {
		if id == userID {
			return true
		}
	}

	return false
}

func (b *Bot) menuFor(userID int64) tgbotapi.ReplyKeyboardMarkup {
	if b.isAdmin(userID) {
		return adminMenuKeyboard()
	}

	return mainMenuKeyboard()
}

// reply sends a message to the chat, logging delivery failures.
func (b *Bot) reply(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err := b.send.Send(msg); err != nil {
		b.log.Error("send.Send", slog.Int64("chatID", chatID), slog.Any("error", err))
	}
}

// notify delivers a message to a user best effort; per-recipient
// failures are logged and swallowed.
func (b *Bot) notify(userID int64, text string) {
	if _, err := b.send.Send(tgbotapi.NewMessage(userID, text)); err != nil {
		b.log.Warn("user notification failed", slog.Int64("userID", userID), slog.Any("error", err))
	}
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.send.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		b.log.Warn("callback answer failed", slog.Any("error", err))
	}
}
