package project

import (
	"context"
	"time"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
)

// Role is an open position on a project. Role names are unique per project,
// compared case-insensitively.
type Role struct {
	ID             common.UUID            `json:"id"`
	ProjectID      common.UUID            `json:"projectId"`
	Name           string                 `json:"roleName"`
	ExpertiseLevel profile.ExpertiseLevel `json:"expertiseLevel"`
	Technologies   []string               `json:"technologies"`
	CreatedAt      time.Time              `json:"createdAt"`
}

type RoleRepository interface {
	// Create stores a role; a second role with the same name on the same
	// project is reported as CodeConflict.
	Create(ctx context.Context, role Role) (*Role, error)
	GetByID(ctx context.Context, id common.UUID) (*Role, error)
	ListByProject(ctx context.Context, projectID common.UUID) ([]Role, error)
	// ListByProjects returns roles grouped by project id.
	ListByProjects(ctx context.Context, projectIDs []common.UUID) (map[common.UUID][]Role, error)
}
