package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/port"
)

const msgNoStatistics = "⚠️ Ни один кадр не оценён, статистики нет."

// sender — часть tgbotapi.BotAPI, которая нужна уведомителю
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier отправляет сводку прогона в Telegram-чат
type Notifier struct {
	api    sender
	chatID int64
}

// NewNotifier авторизуется в Telegram и создаёт уведомитель
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Notifier{
		api:    api,
		chatID: chatID,
	}, nil
}

// Notify отправляет сводку прогона
func (n *Notifier) Notify(ctx context.Context, run *entity.EvaluationRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatSummary(run))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	return nil
}

// FormatSummary собирает текст сводки прогона
func FormatSummary(run *entity.EvaluationRun) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Прогон %s (%s)\n", run.Prefix, run.ID)
	fmt.Fprintf(&b, "Кадров: %d, линия найдена: %d\n", len(run.Results), run.DetectedCount())

	if run.Statistics == nil {
		b.WriteString(msgNoStatistics)
		return b.String()
	}

	mean, std := run.Statistics.Mean, run.Statistics.StdDev
	fmt.Fprintf(&b, "\nPositional error: %.2f ± %.2f px\n", mean.Pos, std.Pos)
	fmt.Fprintf(&b, "Normalized error: %.6f ± %.6f\n", mean.NormPos, std.NormPos)
	fmt.Fprintf(&b, "Angular error: %.2f ± %.2f°\n", mean.Angle, std.Angle)
	fmt.Fprintf(&b, "Composite error: %.2f ± %.2f\n", mean.CompositeError, std.CompositeError)
	fmt.Fprintf(&b, "Time: %.6f ± %.6f s", mean.Time, std.Time)
	return b.String()
}

// Проверка реализации интерфейса
var _ port.RunNotifier = (*Notifier)(nil)
