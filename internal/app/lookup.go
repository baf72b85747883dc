package app

import (
	"context"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
)

// directory resolves the names used in notifications and list views.
type directory struct {
	profiles profile.Repository
	projects project.Repository
	roles    project.RoleRepository
}

func (d directory) role(ctx context.Context, roleID common.UUID) (*project.Role, *project.Project, error) {
	role, err := d.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, nil, err
	}
	p, err := d.projects.GetByID(ctx, role.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return role, p, nil
}

func (d directory) name(ctx context.Context, userID common.UUID) string {
	person, err := d.profiles.GetByID(ctx, userID)
	if err != nil || person.FullName == "" {
		return "Someone"
	}
	return person.FullName
}

func roleLabel(role *project.Role, p *project.Project) string {
	if role == nil {
		return "a role"
	}
	if p == nil || p.Title == "" {
		return role.Name
	}
	return role.Name + " on " + p.Title
}
