// Package memory implements the repositories in process. It backs local
// runs without DATABASE_URL and the service tests, and keeps the same
// uniqueness and transition rules as the postgres repositories.
package memory

import (
	"sync"
	"time"

	"collabhub/internal/domain/application"
	"collabhub/internal/domain/invitation"
	"collabhub/internal/domain/notification"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
	"collabhub/internal/domain/telegram"
)

// Store holds every collection behind one lock so that cross-entity reads
// (applications by project owner) see a consistent view.
type Store struct {
	mu            sync.RWMutex
	people        []profile.Person
	projects      []project.Project
	roles         []project.Role
	invitations   []invitation.Invitation
	applications  []application.Application
	notifications []notification.Notification
	links         []telegram.Link
	now           func() time.Time
}

func NewStore() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
