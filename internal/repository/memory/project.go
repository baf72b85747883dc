package memory

import (
	"context"

	"collabhub/internal/common"
	"collabhub/internal/domain/project"
)

type ProjectRepository struct {
	store *Store
}

func NewProjectRepository(store *Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

func (r *ProjectRepository) Create(_ context.Context, p project.Project) (*project.Project, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = common.NewUUID()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.projects = append(s.projects, p)
	return &p, nil
}

func (r *ProjectRepository) GetByID(_ context.Context, id common.UUID) (*project.Project, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "project not found", nil)
}

func (r *ProjectRepository) ListByOwner(_ context.Context, ownerID common.UUID) ([]project.Project, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []project.Project{}
	for _, p := range s.projects {
		if p.OwnerID == ownerID {
			items = append(items, p)
		}
	}
	return items, nil
}

func (r *ProjectRepository) ListAll(_ context.Context) ([]project.Project, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]project.Project{}, s.projects...), nil
}

type RoleRepository struct {
	store *Store
}

func NewRoleRepository(store *Store) *RoleRepository {
	return &RoleRepository{store: store}
}

func (r *RoleRepository) Create(_ context.Context, role project.Role) (*project.Role, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := common.FoldKey(role.Name)
	for _, existing := range s.roles {
		if existing.ProjectID == role.ProjectID && common.FoldKey(existing.Name) == key {
			return nil, common.NewError(common.CodeConflict, "a role with this name already exists on the project", nil)
		}
	}
	role.ID = common.NewUUID()
	role.CreatedAt = s.now()
	role = cloneRole(role)
	s.roles = append(s.roles, role)
	out := cloneRole(role)
	return &out, nil
}

func (r *RoleRepository) GetByID(_ context.Context, id common.UUID) (*project.Role, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, role := range s.roles {
		if role.ID == id {
			out := cloneRole(role)
			return &out, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "role not found", nil)
}

func (r *RoleRepository) ListByProject(_ context.Context, projectID common.UUID) ([]project.Role, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []project.Role{}
	for _, role := range s.roles {
		if role.ProjectID == projectID {
			items = append(items, cloneRole(role))
		}
	}
	return items, nil
}

func (r *RoleRepository) ListByProjects(_ context.Context, projectIDs []common.UUID) (map[common.UUID][]project.Role, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[common.UUID]struct{}, len(projectIDs))
	for _, id := range projectIDs {
		wanted[id] = struct{}{}
	}
	out := make(map[common.UUID][]project.Role, len(projectIDs))
	for _, role := range s.roles {
		if _, ok := wanted[role.ProjectID]; ok {
			out[role.ProjectID] = append(out[role.ProjectID], cloneRole(role))
		}
	}
	return out, nil
}

// cloneRole detaches the technology slice from the stored record.
func cloneRole(role project.Role) project.Role {
	role.Technologies = append([]string(nil), role.Technologies...)
	return role
}
