package router

import (
	"time"

	tg "github.com/wanderquest/questbot/core/telegram"
	"github.com/wanderquest/questbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextRoute builds the OnText route. Slash commands are dispatched by
// telebot before OnText fires, so handle only sees plain messages.
func TextRoute(handle func(c tele.Context, text string) error) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()
		return handleWithSummary(c, "text", start, func() error {
			return handle(c, text)
		})
	}
	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
