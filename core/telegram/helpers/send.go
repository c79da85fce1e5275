package helpers

import (
	"log/slog"

	"github.com/wanderquest/questbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Send delivers a message to the update's chat, logging failures with the
// request context. Sends are synchronous: the conversation advances only
// after Telegram accepts the message.
func Send(c tele.Context, what any, opts ...any) error {
	if err := c.Send(what, opts...); err != nil {
		ctx := BuildContext(c)
		logger.Error(ctx, "tg", "send.failed",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return err
	}
	return nil
}

// EditOrSend edits the message the current callback points at; when the
// edit is rejected (message too old, identical content) it falls back to
// sending a fresh message.
func EditOrSend(c tele.Context, what any, opts ...any) error {
	if c.Callback() == nil {
		return Send(c, what, opts...)
	}
	if err := c.Edit(what, opts...); err != nil {
		ctx := BuildContext(c)
		logger.Debug(ctx, "tg", "edit.fallback",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return Send(c, what, opts...)
	}
	return nil
}

// Respond acknowledges a callback so the client stops the spinner.
func Respond(c tele.Context, resp ...*tele.CallbackResponse) {
	if c.Callback() == nil {
		return
	}
	if err := c.Respond(resp...); err != nil {
		ctx := BuildContext(c)
		logger.Debug(ctx, "tg", "respond.failed",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
}
