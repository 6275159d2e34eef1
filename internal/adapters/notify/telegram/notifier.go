package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"pill-dispenser/internal/domain/alerts"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier reenvía cada alerta a un chat de Telegram (canal extra además de SMS/llamada).
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

type Options struct {
	Token    string
	ChatID   int64
	Endpoint string // opcional; default tgbotapi.APIEndpoint
	Client   *http.Client
}

func New(opts Options) (*Notifier, error) {
	if opts.Token == "" || opts.ChatID == 0 {
		return nil, errors.New("telegram: token and chat id are required")
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	bot, err := tgbotapi.NewBotAPIWithClient(opts.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Notifier{bot: bot, chatID: opts.ChatID}, nil
}

func (n *Notifier) Name() string { return "telegram" }

// Notify no acepta ctx en la librería; se corre aparte y se corta por ctx.
func (n *Notifier) Notify(ctx context.Context, a alerts.Alert) error {
	msg := tgbotapi.NewMessage(n.chatID, formatAlert(a))

	done := make(chan error, 1)
	go func() {
		_, err := n.bot.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func formatAlert(a alerts.Alert) string {
	prefix := "⚠️"
	if a.Kind == alerts.KindMissedDose {
		prefix = "🔔"
	}
	return fmt.Sprintf("%s %s\n%s", prefix, a.Message, a.CreatedAt.Format("2006-01-02 15:04:05 MST"))
}
