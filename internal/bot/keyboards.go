package bot

import (
	"github.com/Kayszu18/yandex-market-bot/internal/domain/users"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Reply keyboard button labels. Incoming messages are matched against
// these verbatim.
const (
	btnSubmitOrder     = "📦 Submit order"
	btnBalance         = "💰 Balance"
	btnMyOrders        = "🧾 My orders"
	btnReferrals       = "👥 Referrals"
	btnWithdraw        = "💸 Withdraw"
	btnWithdrawHistory = "📜 Withdrawal history"
	btnCancel          = "❌ Cancel"

	btnDestCard  = "💳 Card"
	btnDestPhone = "📱 Phone"

	btnAdminOrders      = "📦 Pending orders"
	btnAdminWithdrawals = "💸 Withdrawal requests"
	btnAdminBroadcast   = "📣 Broadcast"
	btnAdminManageUser  = "👤 Manage user"
	btnAdminStats       = "📊 Stats"
	btnAdminExport      = "📤 Export"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSubmitOrder),
			tgbotapi.NewKeyboardButton(btnBalance),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMyOrders),
			tgbotapi.NewKeyboardButton(btnReferrals),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnWithdraw),
			tgbotapi.NewKeyboardButton(btnWithdrawHistory),
		),
	)
	kb.ResizeKeyboard = true

	return kb
}

func adminMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminOrders),
			tgbotapi.NewKeyboardButton(btnAdminWithdrawals),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminBroadcast),
			tgbotapi.NewKeyboardButton(btnAdminManageUser),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminStats),
			tgbotapi.NewKeyboardButton(btnAdminExport),
		),
	)
	kb.ResizeKeyboard = true

	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true

	return kb
}

func destTypeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnDestCard),
			tgbotapi.NewKeyboardButton(btnDestPhone),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true

	return kb
}

func orderReviewKeyboard(orderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", FormatCallback(CallbackOrderApprove, orderID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", FormatCallback(CallbackOrderReject, orderID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", FormatCallback(CallbackOrdersBack, 0)),
		),
	)
}

func ordersListKeyboard(ords []int64) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(ords))

	for _, orderID := range ords {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				formatOrderButton(orderID),
				FormatCallback(CallbackOrderView, orderID),
			),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func withdrawalReviewKeyboard(withdrawal *withdrawals.Withdrawal) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	// Terminal withdrawals get no action row.
	switch withdrawal.Status() {
	case withdrawals.WithdrawalStatusRequested:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", FormatCallback(CallbackWithdrawalApprove, withdrawal.ID())),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", FormatCallback(CallbackWithdrawalReject, withdrawal.ID())),
		))
	case withdrawals.WithdrawalStatusApproved:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💸 Pay", FormatCallback(CallbackWithdrawalPay, withdrawal.ID())),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", FormatCallback(CallbackWithdrawalReject, withdrawal.ID())),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Back", FormatCallback(CallbackWithdrawalsBack, 0)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func withdrawalsListKeyboard(wds []int64) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(wds))

	for _, withdrawalID := range wds {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				formatWithdrawalButton(withdrawalID),
				FormatCallback(CallbackWithdrawalView, withdrawalID),
			),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func userManageKeyboard(usr *users.User) tgbotapi.InlineKeyboardMarkup {
	var action tgbotapi.InlineKeyboardButton

	if usr.Blocked {
		action = tgbotapi.NewInlineKeyboardButtonData("🔓 Unblock", FormatCallback(CallbackUserUnblock, usr.ID))
	} else {
		action = tgbotapi.NewInlineKeyboardButtonData("🚫 Block", FormatCallback(CallbackUserBlock, usr.ID))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(action),
	)
}

func broadcastPreviewKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Send", FormatCallback(CallbackBroadcastSend, 0)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", FormatCallback(CallbackBroadcastCancel, 0)),
		),
	)
}
