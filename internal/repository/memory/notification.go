package memory

import (
	"context"

	"collabhub/internal/common"
	"collabhub/internal/domain/notification"
	"collabhub/internal/domain/telegram"
)

type NotificationRepository struct {
	store *Store
}

func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func (r *NotificationRepository) Create(_ context.Context, n notification.Notification) (*notification.Notification, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = common.NewUUID()
	n.CreatedAt = s.now()
	s.notifications = append(s.notifications, n)
	return &n, nil
}

// ListByUser returns the newest notifications first.
func (r *NotificationRepository) ListByUser(_ context.Context, userID common.UUID, limit int) ([]notification.Notification, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []notification.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID != userID {
			continue
		}
		items = append(items, s.notifications[i])
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

type TelegramLinkRepository struct {
	store *Store
}

func NewTelegramLinkRepository(store *Store) *TelegramLinkRepository {
	return &TelegramLinkRepository{store: store}
}

func (r *TelegramLinkRepository) GetByUserID(_ context.Context, userID common.UUID) (*telegram.Link, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, link := range s.links {
		if link.UserID == userID {
			return &link, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "telegram link not found", nil)
}

// Link stores or replaces the chat for a user.
func (r *TelegramLinkRepository) Link(_ context.Context, link telegram.Link) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if link.VerifiedAt.IsZero() {
		link.VerifiedAt = s.now()
	}
	for i := range s.links {
		if s.links[i].UserID == link.UserID {
			s.links[i] = link
			return nil
		}
	}
	s.links = append(s.links, link)
	return nil
}
