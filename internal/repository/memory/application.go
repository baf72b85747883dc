package memory

import (
	"context"
	"time"

	"collabhub/internal/common"
	"collabhub/internal/domain/application"
)

type ApplicationRepository struct {
	store *Store
}

func NewApplicationRepository(store *Store) *ApplicationRepository {
	return &ApplicationRepository{store: store}
}

func (r *ApplicationRepository) Create(_ context.Context, app application.Application) (*application.Application, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.applications {
		if existing.ApplicantID == app.ApplicantID && existing.ProjectRoleID == app.ProjectRoleID {
			return nil, common.NewError(common.CodeConflict, "an application for this user and role already exists", nil)
		}
	}
	app.ID = common.NewUUID()
	app.Status = application.StatusPending
	app.AppliedAt = s.now()
	app.RespondedAt = nil
	s.applications = append(s.applications, app)
	return &app, nil
}

func (r *ApplicationRepository) GetByID(_ context.Context, id common.UUID) (*application.Application, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		app := s.applications[i]
		return &app, nil
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *ApplicationRepository) FindByApplicantAndRole(_ context.Context, applicantID, roleID common.UUID) (*application.Application, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, app := range s.applications {
		if app.ApplicantID == applicantID && app.ProjectRoleID == roleID {
			return &app, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *ApplicationRepository) ListByApplicant(_ context.Context, applicantID common.UUID) ([]application.Application, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []application.Application{}
	for _, app := range s.applications {
		if app.ApplicantID == applicantID {
			items = append(items, app)
		}
	}
	return items, nil
}

func (r *ApplicationRepository) ListByOwner(_ context.Context, ownerID common.UUID) ([]application.Application, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	owned := map[common.UUID]struct{}{}
	for _, p := range s.projects {
		if p.OwnerID == ownerID {
			owned[p.ID] = struct{}{}
		}
	}
	roles := map[common.UUID]struct{}{}
	for _, role := range s.roles {
		if _, ok := owned[role.ProjectID]; ok {
			roles[role.ID] = struct{}{}
		}
	}
	items := []application.Application{}
	for _, app := range s.applications {
		if _, ok := roles[app.ProjectRoleID]; ok {
			items = append(items, app)
		}
	}
	return items, nil
}

func (r *ApplicationRepository) Respond(_ context.Context, id common.UUID, status application.Status, respondedAt time.Time) (*application.Application, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app := s.applications[i]
	if err := app.Respond(status, respondedAt); err != nil {
		return nil, common.NewError(common.CodeInvalidTransition, "application already answered", err)
	}
	s.applications[i] = app
	return &app, nil
}

func (r *ApplicationRepository) Delete(_ context.Context, id common.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	s.applications = append(s.applications[:i], s.applications[i+1:]...)
	return nil
}

func (r *ApplicationRepository) indexOf(id common.UUID) int {
	for i, app := range r.store.applications {
		if app.ID == id {
			return i
		}
	}
	return -1
}
