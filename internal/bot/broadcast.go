package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Broadcast sends the text to every registered user. Per-recipient
// delivery failures are counted, not propagated.
func (b *Bot) Broadcast(ctx context.Context, text string) (sent, failed int, err error) {
	usrs, err := b.svc.Users(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("svc.Users: %w", err)
	}

	for _, usr := range usrs {
		if usr.Blocked {
			continue
		}

		if _, err := b.send.Send(tgbotapi.NewMessage(usr.ID, text)); err != nil {
			b.log.Warn("broadcast delivery failed", slog.Int64("userID", usr.ID), slog.Any("error", err))

			failed++

			continue
		}

		sent++
	}

	return sent, failed, nil
}
