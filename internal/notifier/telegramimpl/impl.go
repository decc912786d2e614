package telegramimpl

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/planloop/content-planner/internal/notifier"
	"github.com/planloop/content-planner/pkg/config"
	"github.com/planloop/content-planner/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// TelegramNotifier pushes operational notifications to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger logger.Logger
}

// New builds the Telegram notifier. When no token is configured it returns
// a Noop notifier so the rest of the app does not need to care.
func New(opts Opts) (notifier.Notifier, error) {
	if opts.Config.Telegram.Token == "" {
		opts.Logger.Info("No Telegram token configured, notifications disabled")
		return notifier.NewNoop(), nil
	}

	bot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		opts.Logger.Error("Error creating Telegram bot", "error", err)
		return nil, err
	}

	return &TelegramNotifier{
		bot:    bot,
		chatID: opts.Config.Telegram.ChatID,
		logger: opts.Logger,
	}, nil
}

var _ notifier.Notifier = (*TelegramNotifier)(nil)

func (n *TelegramNotifier) Notify(ctx context.Context, message string) {
	msg := tgbotapi.NewMessage(n.chatID, message)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("Failed to deliver notification", "error", err)
	}
}
