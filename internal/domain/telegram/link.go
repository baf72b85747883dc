package telegram

import (
	"context"
	"time"

	"collabhub/internal/common"
)

// Link ties a platform user to the Telegram chat that receives their
// notifications.
type Link struct {
	UserID     common.UUID
	ChatID     int64
	VerifiedAt time.Time
}

type LinkRepository interface {
	GetByUserID(ctx context.Context, userID common.UUID) (*Link, error)
}
