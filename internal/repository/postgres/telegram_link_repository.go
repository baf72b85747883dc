package postgres

import (
	"context"
	"database/sql"
	"time"

	"collabhub/internal/common"
	"collabhub/internal/domain/telegram"
)

type TelegramLinkRepository struct {
	db *sql.DB
}

func NewTelegramLinkRepository(db *sql.DB) *TelegramLinkRepository {
	return &TelegramLinkRepository{db: db}
}

func (r *TelegramLinkRepository) GetByUserID(ctx context.Context, userID common.UUID) (*telegram.Link, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, chat_id, verified_at FROM telegram_links WHERE user_id = $1`, userID)
	var link telegram.Link
	if err := row.Scan(&link.UserID, &link.ChatID, &link.VerifiedAt); err != nil {
		return nil, notFoundOr(err, "telegram link not found", "failed to load telegram link")
	}
	return &link, nil
}

func (r *TelegramLinkRepository) Link(ctx context.Context, link telegram.Link) error {
	if link.VerifiedAt.IsZero() {
		link.VerifiedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO telegram_links (user_id, chat_id, verified_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET chat_id = EXCLUDED.chat_id, verified_at = EXCLUDED.verified_at`,
		link.UserID, link.ChatID, link.VerifiedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewError(common.CodeConflict, "chat already linked to another user", err)
		}
		return common.NewError(common.CodeInternal, "failed to link telegram chat", err)
	}
	return nil
}
