package app

import (
	"context"

	"go.uber.org/zap"

	"collabhub/internal/common"
	"collabhub/internal/domain/notification"
	"collabhub/internal/domain/telegram"
)

// Pusher delivers a message to a Telegram chat.
type Pusher interface {
	Push(ctx context.Context, chatID int64, text string) error
}

// Notifier records user notifications and forwards them to a linked chat.
// Failures are logged and never returned to the caller.
type Notifier struct {
	repo   notification.Repository
	links  telegram.LinkRepository
	pusher Pusher
	logger *zap.Logger
}

func NewNotifier(repo notification.Repository, links telegram.LinkRepository, pusher Pusher, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{repo: repo, links: links, pusher: pusher, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, userID common.UUID, kind notification.Kind, message string) {
	if n == nil {
		return
	}
	if _, err := n.repo.Create(ctx, notification.Notification{UserID: userID, Kind: kind, Message: message}); err != nil {
		n.logger.Warn("notification store failed", zap.String("user_id", userID.String()), zap.String("kind", string(kind)), zap.Error(err))
	}
	if n.pusher == nil || n.links == nil {
		return
	}
	link, err := n.links.GetByUserID(ctx, userID)
	if err != nil {
		if !common.Is(err, common.CodeNotFound) {
			n.logger.Warn("telegram link lookup failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
		return
	}
	if err := n.pusher.Push(ctx, link.ChatID, message); err != nil {
		n.logger.Warn("telegram push failed", zap.String("user_id", userID.String()), zap.Int64("chat_id", link.ChatID), zap.Error(err))
	}
}

func (n *Notifier) List(ctx context.Context, userID common.UUID, limit int) ([]notification.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return n.repo.ListByUser(ctx, userID, limit)
}
