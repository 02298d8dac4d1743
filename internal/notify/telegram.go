// Package notify sends booking notifications to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Sender is the part of *bot.Bot the notifier needs
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TeacherNamer resolves teacher names for message text
type TeacherNamer interface {
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
}

type TelegramNotifier struct {
	sender   Sender
	chatID   int64
	teachers TeacherNamer
	logger   *zap.Logger
}

// NewTelegramBot creates a bot client used only for outgoing messages
func NewTelegramBot(token string) (*bot.Bot, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return b, nil
}

func NewTelegramNotifier(sender Sender, chatID int64, teachers TeacherNamer, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender:   sender,
		chatID:   chatID,
		teachers: teachers,
		logger:   logger,
	}
}

func (n *TelegramNotifier) BookingCommitted(ctx context.Context, b model.Booking, edited bool) error {
	header := "✅ <b>Новое занятие</b>"
	if edited {
		header = "✏️ <b>Занятие изменено</b>"
	}
	return n.send(ctx, header+"\n\n"+n.describe(ctx, b))
}

func (n *TelegramNotifier) BookingDeleted(ctx context.Context, b model.Booking) error {
	return n.send(ctx, "❌ <b>Занятие удалено</b>\n\n"+n.describe(ctx, b))
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// describe форматирует бронь для сообщения
func (n *TelegramNotifier) describe(ctx context.Context, b model.Booking) string {
	teacher := fmt.Sprintf("#%d", b.TeacherID)
	if n.teachers != nil {
		t, err := n.teachers.GetByID(ctx, b.TeacherID)
		if err != nil {
			n.logger.Warn("Failed to resolve teacher name", zap.Int64("teacher_id", b.TeacherID), zap.Error(err))
		} else if t != nil {
			teacher = t.Name
		}
	}

	room := "не назначена"
	if b.HasRoom() {
		room = b.RoomID
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 %s\n", html.EscapeString(b.Subject))
	fmt.Fprintf(&sb, "👤 %s\n", html.EscapeString(teacher))
	fmt.Fprintf(&sb, "📅 %s %s–%s\n", b.Date, b.StartTime, b.EndTime)
	fmt.Fprintf(&sb, "🚪 %s", html.EscapeString(room))
	if len(b.Students) > 0 {
		fmt.Fprintf(&sb, "\n👥 %s", html.EscapeString(strings.Join(b.Students, ", ")))
	}
	return sb.String()
}
