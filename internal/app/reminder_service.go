package app

import (
	"context"
	"fmt"
	"time"

	"routine_bot/internal/domain/reminder"
	domainTelegram "routine_bot/internal/domain/telegram"
	"routine_bot/internal/domain/user"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// ReminderService resolves reminder payloads to message content at fire time
// and dispatches them through the messaging gateway. It is the scheduler's
// Dispatcher.
type ReminderService struct {
	telegramClient domainTelegram.Client
	reports        *ReportService
	logger         *logrus.Entry
}

func NewReminderService(
	tc domainTelegram.Client,
	reports *ReportService,
	logger *logrus.Entry,
) *ReminderService {
	return &ReminderService{
		telegramClient: tc,
		reports:        reports,
		logger:         logger,
	}
}

// Dispatch sends the reminder of the given kind to the user. Message content
// is resolved here, not baked into the job, so the weekly report always
// reflects the state at fire time.
func (s *ReminderService) Dispatch(ctx context.Context, u *user.User, kind reminder.Kind) error {
	var text string
	switch kind {
	case reminder.KindWeeklyReport:
		rendered, err := s.reports.RenderWeeklyReport(ctx, u.TelegramID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to render weekly report for user %d: %w", u.TelegramID, err)
		}
		text = rendered
	default:
		text = reminderText(kind)
	}

	opts := &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}
	if err := s.telegramClient.SendMessage(u.ChatID, text, opts); err != nil {
		return fmt.Errorf("failed to send %s reminder to user %d: %w", kind, u.TelegramID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": u.TelegramID,
		"kind":    kind,
	}).Info("Reminder dispatched")
	return nil
}

func reminderText(kind reminder.Kind) string {
	switch kind {
	case reminder.KindSchool:
		return "⏰ *School reminder*\n\nClasses start at 07:30!\nHave breakfast and check your bag.\n\nHave a good day! 📚✨"
	case reminder.KindTaekwondoFitness:
		return "🥋 *Taekwondo reminder*\n\nFitness session today!\nGet your training gear ready.\n\nHave an energetic workout! 💪"
	case reminder.KindTaekwondoForms:
		return "🥋 *Taekwondo reminder*\n\nForms session today!\nGet your training gear ready.\n\nHave an energetic workout! 💪"
	case reminder.KindTaekwondoSparring:
		return "🥋 *Taekwondo reminder*\n\nSparring session today!\nGet your training gear ready.\n\nHave an energetic workout! 💪"
	case reminder.KindCoding:
		return "💻 *Coding reminder*\n\nTime for your daily programming practice!\nAt least one hour.\n\nLevel up your skills! 🚀"
	case reminder.KindHomeWorkout:
		return "🏋️ *Home workout reminder*\n\nToday: stretching, cardio, plank, squats, push-ups.\n45 minutes of exercise.\n\nStay strong and healthy! 💪"
	case reminder.KindSkincareNight:
		return "🧴 *Night skincare reminder*\n\nTonight: moisturizer, eye cream.\nTake care of your skin before bed.\n\nGood night! 🌙✨"
	default:
		return fmt.Sprintf("🔔 Reminder: %s", kind)
	}
}
