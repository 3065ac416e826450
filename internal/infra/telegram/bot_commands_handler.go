// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"routine_bot/internal/app"
	"routine_bot/internal/domain/activity"
	"routine_bot/internal/domain/user"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Reconciler triggers a full rebuild of the reminder job set. Invoked on
// every user-state change, not just at startup.
type Reconciler interface {
	Reconcile(users []*user.User) error
}

// RegisterBotCommands wires the routine commands: registration, today's
// schedule, weekly report, next-week preview, notification toggle.
func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	planner *app.PlannerService,
	reports *app.ReportService,
	userRepo user.Repository,
	reconciler Reconciler,
	loc *time.Location,
	baseLogger *logrus.Entry,
) {
	reconcile := func(logCtx *logrus.Entry) {
		users, err := userRepo.ListEnabled(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to list enabled users for reconciliation")
			return
		}
		if err := reconciler.Reconcile(users); err != nil {
			logCtx.WithError(err).Error("Failed to reconcile reminder jobs")
		}
	}

	b.Handle("/start", func(c telebot.Context) error {
		logCtx := baseLogger.WithField("handler", "/start").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Command received")

		u := &user.User{
			TelegramID:           c.Sender().ID,
			ChatID:               c.Chat().ID,
			FirstName:            c.Sender().FirstName,
			NotificationsEnabled: true,
		}
		if err := userRepo.Upsert(ctx, u); err != nil {
			logCtx.WithError(err).Error("Failed to register user")
			return c.Send("Something went wrong during registration. Please try again later.")
		}
		reconcile(logCtx)

		welcome := fmt.Sprintf(
			"Hi %s! 👋\n\n"+
				"🤖 *Daily Routine Bot* at your service!\n\n"+
				"📋 *Available commands:*\n"+
				"✅ /today — today's schedule\n"+
				"✅ /report — weekly progress report\n"+
				"✅ /nextweek — plan for next week\n"+
				"✅ /motivate — a motivational message\n"+
				"✅ /notifications on|off — toggle reminders\n"+
				"✅ /help — help\n\n"+
				"Start with /today!",
			c.Sender().FirstName)
		return c.Send(welcome, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/today", func(c telebot.Context) error {
		logCtx := baseLogger.WithField("handler", "/today").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Command received")

		instances, err := planner.GenerateToday(ctx, c.Sender().ID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to generate today's schedule")
			return c.Send("Could not build today's schedule. Please try again later.")
		}

		today := time.Now().In(loc)
		message, markup := renderDay(instances, today)
		return c.Send(message, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown, ReplyMarkup: markup})
	})

	b.Handle("/report", func(c telebot.Context) error {
		logCtx := baseLogger.WithField("handler", "/report").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Command received")

		text, err := reports.RenderWeeklyReport(ctx, c.Sender().ID, time.Now().In(loc))
		if err != nil {
			logCtx.WithError(err).Error("Failed to render weekly report")
			return c.Send("Could not build the weekly report. Please try again later.")
		}
		return c.Send(text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/nextweek", func(c telebot.Context) error {
		baseLogger.WithField("handler", "/nextweek").WithField("sender_id", c.Sender().ID).Info("Command received")
		text := reports.RenderNextWeekPlan(time.Now().In(loc))
		return c.Send(text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/motivate", func(c telebot.Context) error {
		return c.Send(fmt.Sprintf("💬 *Motivation:*\n\n%s", app.Motivate()),
			&telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/notifications", func(c telebot.Context) error {
		logCtx := baseLogger.WithField("handler", "/notifications").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Command received")

		args := c.Args()
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return c.Send("Usage: /notifications on|off")
		}
		enabled := args[0] == "on"

		if err := userRepo.SetNotificationsEnabled(ctx, c.Sender().ID, enabled); err != nil {
			logCtx.WithError(err).Error("Failed to toggle notifications")
			return c.Send("Could not update your notification settings. Have you run /start?")
		}
		reconcile(logCtx)

		if enabled {
			return c.Send("🔔 Reminders are on.")
		}
		return c.Send("🔕 Reminders are off. Turn them back on with /notifications on.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		var help strings.Builder
		help.WriteString("🆘 *Daily Routine Bot help*\n\n")
		help.WriteString("📋 *Commands:*\n")
		help.WriteString("✅ /start — register and enable reminders\n")
		help.WriteString("✅ /today — today's full schedule with done-buttons\n")
		help.WriteString("✅ /report — weekly progress report\n")
		help.WriteString("✅ /nextweek — suggested plan for next week\n")
		help.WriteString("✅ /motivate — a motivational message\n")
		help.WriteString("✅ /notifications on|off — toggle reminders\n\n")
		help.WriteString("🔔 *Automatic reminders:*\n")
		help.WriteString("The bot reminds you before school, taekwondo sessions, coding, workout and the night skincare routine.\n\n")
		help.WriteString("📊 *Reporting:*\n")
		help.WriteString("The weekly report is pushed every Sunday evening.")
		return c.Send(help.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}

// renderDay builds the schedule message and a button per incomplete activity.
func renderDay(instances []*activity.Instance, day time.Time) (string, *telebot.ReplyMarkup) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 *Schedule for %s %s*\n\n", day.Weekday(), day.Format("2006/01/02")))

	markup := &telebot.ReplyMarkup{}
	var rows []telebot.Row

	for i, inst := range instances {
		status := "⏳"
		if inst.Completed {
			status = "✅"
		}
		b.WriteString(fmt.Sprintf("%d. %s *%s*\n   ⏰ %s\n   📝 %s\n\n",
			i+1, status, inst.Name, inst.ScheduledTime, inst.Notes))

		if !inst.Completed {
			btn := markup.Data(fmt.Sprintf("✅ Done: %s", truncate(inst.Name, 20)),
				fmt.Sprintf("complete_%d", inst.ID))
			rows = append(rows, markup.Row(btn))
		}
	}

	if len(rows) == 0 {
		return b.String(), nil
	}
	markup.Inline(rows...)
	return b.String(), markup
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
