package router

import (
	"strings"
	"time"

	tg "github.com/wanderquest/questbot/core/telegram"
	tghelpers "github.com/wanderquest/questbot/core/telegram/helpers"
	"github.com/wanderquest/questbot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute returns the single OnCallback route. The raw callback data
// is stripped of telebot's "\f" framing and handed to handle untouched;
// the callback is acknowledged before the handler runs so clients stop
// their spinner even when the handler is slow.
func CallbackRoute(handle func(c tele.Context, data string) error) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		data := strings.TrimSpace(strings.TrimPrefix(cb.Data, "\f"))
		name := "callback." + normalizeHandlerName(tokenHead(data))

		tghelpers.Respond(c)

		return handleWithSummary(c, name, start, func() error {
			return handle(c, data)
		}, slog.String("cb_key", data))
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// tokenHead trims a trailing numeric or value suffix so handler names
// group by action rather than by entity id.
func tokenHead(data string) string {
	if i := strings.LastIndexByte(data, '_'); i > 0 {
		tail := data[i+1:]
		if tail != "" && tail[0] >= '0' && tail[0] <= '9' {
			return data[:i]
		}
	}
	return data
}
