package app

import (
	"context"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
	"collabhub/internal/wizard"
)

type ProjectService struct {
	projects project.Repository
	roles    project.RoleRepository
}

func NewProjectService(projects project.Repository, roles project.RoleRepository) *ProjectService {
	return &ProjectService{projects: projects, roles: roles}
}

func (s *ProjectService) Create(ctx context.Context, ownerID common.UUID, p project.Project) (*project.Project, error) {
	p.OwnerID = ownerID
	p.Title = common.Sanitize(p.Title)
	p.Description = common.Sanitize(p.Description)
	fields := map[string]string{}
	if p.Title == "" {
		fields["title"] = "title is required"
	}
	if p.Description == "" {
		fields["description"] = "description is required"
	}
	if size, ok := project.ParseTeamSize(string(p.TeamSize)); ok {
		p.TeamSize = size
	} else {
		fields["teamSize"] = "team size must be 1-3, 4-6 or 7+"
	}
	if kind, ok := project.ParseType(string(p.ProjectType)); ok {
		p.ProjectType = kind
	} else {
		fields["projectType"] = "unknown project type"
	}
	if level, err := profile.ParseExpertiseLevel(string(p.ExperienceLevel)); err == nil {
		p.ExperienceLevel = level
	} else {
		fields["experienceLevel"] = "unknown experience level"
	}
	if commitment, ok := project.ParseCommitmentType(string(p.CommitmentType)); ok {
		p.CommitmentType = commitment
	} else {
		fields["commitmentType"] = "unknown commitment type"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid project", fields)
	}
	return s.projects.Create(ctx, p)
}

func (s *ProjectService) Get(ctx context.Context, id common.UUID) (*project.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *ProjectService) ListByOwner(ctx context.Context, ownerID common.UUID) ([]project.Project, error) {
	return s.projects.ListByOwner(ctx, ownerID)
}

func (s *ProjectService) ListRoles(ctx context.Context, projectID common.UUID) ([]project.Role, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.roles.ListByProject(ctx, projectID)
}

// CreateRole adds a role to a project owned by ownerID. A second role with
// the same name (ignoring case) is a conflict.
func (s *ProjectService) CreateRole(ctx context.Context, ownerID, projectID common.UUID, role project.Role) (*project.Role, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, common.NewError(common.CodeForbidden, "project belongs to another user", nil)
	}
	role.ProjectID = projectID
	role.Name = common.Sanitize(role.Name)
	role.Technologies = common.NormalizeSet(role.Technologies)
	fields := map[string]string{}
	if role.Name == "" {
		fields["roleName"] = "role name is required"
	}
	if len(role.Technologies) == 0 {
		fields["technologies"] = "at least one technology is required"
	}
	if level, err := profile.ParseExpertiseLevel(string(role.ExpertiseLevel)); err == nil {
		role.ExpertiseLevel = level
	} else {
		fields["expertiseLevel"] = "unknown expertise level"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid role", fields)
	}
	existing, err := s.roles.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if common.FoldKey(other.Name) == common.FoldKey(role.Name) {
			return nil, common.NewError(common.CodeConflict, "a role with this name already exists on the project", nil)
		}
	}
	return s.roles.Create(ctx, role)
}

// RequireOwner loads a project and checks that ownerID owns it.
func (s *ProjectService) RequireOwner(ctx context.Context, ownerID, projectID common.UUID) (*project.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, common.NewError(common.CodeForbidden, "project belongs to another user", nil)
	}
	return p, nil
}

// Provisioner returns the wizard provisioner acting on behalf of ownerID.
func (s *ProjectService) Provisioner(ownerID common.UUID) wizard.Provisioner {
	return ownerProvisioner{service: s, ownerID: ownerID}
}

type ownerProvisioner struct {
	service *ProjectService
	ownerID common.UUID
}

func (p ownerProvisioner) CreateProject(ctx context.Context, draft project.Project) (*project.Project, error) {
	return p.service.Create(ctx, p.ownerID, draft)
}

func (p ownerProvisioner) CreateRole(ctx context.Context, projectID common.UUID, role project.Role) (*project.Role, error) {
	return p.service.CreateRole(ctx, p.ownerID, projectID, role)
}
