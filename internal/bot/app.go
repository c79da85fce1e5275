// Package bot adapts Telegram updates to the conversation state machine:
// it parses tokens into events, runs the session turn, and renders the
// resulting views back to the chat.
package bot

import (
	"context"

	coreconfig "github.com/wanderquest/questbot/core/config"
	"github.com/wanderquest/questbot/core/logger"
	tg "github.com/wanderquest/questbot/core/telegram"
	tghelpers "github.com/wanderquest/questbot/core/telegram/helpers"
	"github.com/wanderquest/questbot/core/telegram/router"
	"github.com/wanderquest/questbot/internal/flow"
	"github.com/wanderquest/questbot/internal/gateway"
	"github.com/wanderquest/questbot/internal/session"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

const helpText = "Этот бот помогает выбрать квест:\n" +
	"🏙️ Города — города и их описания\n" +
	"🔍 Квесты — квесты с записью\n" +
	"📍 Локации — интересные места\n" +
	"👤 Гиды — наши гиды\n" +
	"📝 Отзывы — отзывы участников\n" +
	"🆘 Поддержка — задать вопрос\n\n" +
	"/start — начать, /menu — главное меню"

// App is the assembled bot: parsing, session turns, rendering.
type App struct {
	cfg        *coreconfig.Config
	dispatcher *Dispatcher
}

// New wires the bot over a session store and the content gateway.
func New(cfg *coreconfig.Config, store session.Store, content gateway.Content) *App {
	machine := flow.NewMachine()
	exec := NewExecutor(content)
	return &App{
		cfg:        cfg,
		dispatcher: NewDispatcher(store, machine, exec),
	}
}

// Registry declares the slash commands.
func (a *App) Registry() *tg.Registry {
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", tg.Command{
		Description: "Начать работу с ботом",
		Handler:     a.handleStart,
	})
	reg.RegisterCommand("/menu", tg.Command{
		Description: "Вернуться в главное меню",
		Handler:     a.handleMenu,
	})
	reg.RegisterCommand("/help", tg.Command{
		Description: "Что умеет этот бот",
		Handler:     a.handleHelp,
	})
	return reg
}

// Routes binds commands, text messages and callbacks.
func (a *App) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg)
	routes = append(routes, router.TextRoute(a.handleText))
	routes = append(routes, router.CallbackRoute(a.handleCallback))
	return routes
}

// Run starts the Telegram loop and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	reg := a.Registry()
	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      a.Routes(reg),
	})
}

func (a *App) handleStart(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	return a.dispatcher.Dispatch(c, flow.Start{
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

func (a *App) handleMenu(c tele.Context) error {
	return a.dispatcher.Dispatch(c, flow.Home{})
}

func (a *App) handleHelp(c tele.Context) error {
	return tghelpers.Send(c, helpText)
}

func (a *App) handleText(c tele.Context, text string) error {
	return a.dispatcher.Dispatch(c, ParseMessage(text))
}

func (a *App) handleCallback(c tele.Context, data string) error {
	ev, ok := ParseCallback(data)
	if !ok {
		ctx := tghelpers.BuildContext(c)
		logger.Warn(ctx, "tg", "callback.unknown",
			slog.String("cb_key", logger.SanitizeLimit(data, 128)),
		)
		return nil
	}
	return a.dispatcher.Dispatch(c, ev)
}
