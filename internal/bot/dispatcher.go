package bot

import (
	"fmt"
	"strings"

	tghelpers "github.com/wanderquest/questbot/core/telegram/helpers"
	"github.com/wanderquest/questbot/core/logger"
	"github.com/wanderquest/questbot/internal/flow"
	"github.com/wanderquest/questbot/internal/session"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// maxEffectRounds caps the event/effect loop per update. A turn needs at
// most a handful of rounds (fetch, feed result back, render); the cap
// only guards against a cycle slipping into the machine.
const maxEffectRounds = 8

// Dispatcher ties one Telegram update to one session turn: it loads the
// session under the user's lock, steps the machine, executes gateway
// effects, feeds the results back in, and delivers renders along the way.
type Dispatcher struct {
	store   session.Store
	machine *flow.Machine
	exec    *Executor
}

// NewDispatcher wires the conversation loop.
func NewDispatcher(store session.Store, machine *flow.Machine, exec *Executor) *Dispatcher {
	return &Dispatcher{store: store, machine: machine, exec: exec}
}

// Dispatch runs one event through the user's session. The whole turn
// happens under the session lock, so two updates from the same user can
// never interleave their effects.
func (d *Dispatcher) Dispatch(c tele.Context, ev flow.Event) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	return d.store.Do(ctx, user.ID, func(s *flow.Session) error {
		cur := *s
		queue := []flow.Event{ev}

		for round := 0; round < maxEffectRounds && len(queue) > 0; round++ {
			event := queue[0]
			queue = queue[1:]

			next, effects := d.machine.Step(cur, event)
			if next.State != cur.State {
				logger.Debug(ctx, "flow", "transition",
					slog.String("from_state", string(cur.State)),
					slog.String("to_state", string(next.State)),
					slog.String("kind", eventName(event)),
				)
			}
			cur = next

			for _, eff := range effects {
				if r, ok := eff.(flow.Render); ok {
					d.deliver(c, r.View)
					continue
				}
				if result, ok := d.exec.Resolve(ctx, user.ID, eff); ok {
					queue = append(queue, result)
				}
			}
		}

		*s = cur
		return nil
	})
}

func (d *Dispatcher) deliver(c tele.Context, v flow.View) {
	out := renderView(v)
	var opts []any
	if out.markup != nil {
		opts = append(opts, out.markup)
	}
	if out.edit {
		_ = tghelpers.EditOrSend(c, out.text, opts...)
		return
	}
	_ = tghelpers.Send(c, out.text, opts...)
}

func eventName(ev flow.Event) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", ev), "flow.")
}
