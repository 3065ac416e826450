// internal/infra/telegram/completion_handlers.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"routine_bot/internal/app"
	idb "routine_bot/internal/infra/database"

	"gopkg.in/telebot.v3"
)

// RegisterCompletionHandlers handles the "complete_<id>" inline-button
// callbacks emitted by /today.
func RegisterCompletionHandlers(ctx context.Context, b *telebot.Bot, planner *app.PlannerService) {
	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := strings.TrimSpace(c.Callback().Data)

		if !strings.HasPrefix(data, "complete_") {
			// Fallback for callbacks this handler does not own.
			c.Bot().OnError(fmt.Errorf("unhandled callback data: %s", data), c)
			return c.Respond(&telebot.CallbackResponse{Text: "Unknown action."})
		}

		idStr := strings.TrimPrefix(data, "complete_")
		activityID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			c.Bot().OnError(fmt.Errorf("invalid activity id %q in callback: %w", idStr, err), c)
			return c.Respond(&telebot.CallbackResponse{Text: "Invalid activity id."})
		}

		err = planner.Complete(ctx, activityID, c.Sender().ID)
		if err != nil {
			if errors.Is(err, idb.ErrActivityNotFound) {
				return c.Respond(&telebot.CallbackResponse{Text: "Activity not found."})
			}
			c.Bot().OnError(fmt.Errorf("error completing activity %d: %w", activityID, err), c)
			return c.Respond(&telebot.CallbackResponse{Text: "Something went wrong."})
		}

		if err := c.Respond(&telebot.CallbackResponse{Text: "Marked as done!"}); err != nil {
			return err
		}
		return c.Send(fmt.Sprintf("💬 %s", app.Motivate()))
	})
}
