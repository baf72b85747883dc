package app

import (
	"context"
	"time"

	"collabhub/internal/common"
	"collabhub/internal/domain/application"
	"collabhub/internal/domain/notification"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
)

type ApplicationView struct {
	application.Application
	RoleName      string      `json:"roleName"`
	ProjectID     common.UUID `json:"projectId"`
	ProjectTitle  string      `json:"projectTitle"`
	ApplicantName string      `json:"applicantName"`
}

type ApplicationService struct {
	repo     application.Repository
	dir      directory
	notifier *Notifier
	now      func() time.Time
}

func NewApplicationService(repo application.Repository, roles project.RoleRepository, projects project.Repository, profiles profile.Repository, notifier *Notifier) *ApplicationService {
	return &ApplicationService{
		repo:     repo,
		dir:      directory{profiles: profiles, projects: projects, roles: roles},
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ApplicationService) Apply(ctx context.Context, applicantID, roleID common.UUID) (*ApplicationView, error) {
	if roleID == "" {
		return nil, common.NewValidationError("invalid application", map[string]string{"projectRoleId": "project role is required"})
	}
	if _, err := s.dir.profiles.GetByID(ctx, applicantID); err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeValidation, "profile is required", nil)
		}
		return nil, err
	}
	role, p, err := s.dir.role(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID == applicantID {
		return nil, common.NewError(common.CodeForbidden, "you cannot apply to your own project", nil)
	}
	if _, err := s.repo.FindByApplicantAndRole(ctx, applicantID, roleID); err == nil {
		return nil, common.NewError(common.CodeConflict, "an application for this user and role already exists", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	created, err := s.repo.Create(ctx, application.Application{
		ProjectRoleID: roleID,
		ApplicantID:   applicantID,
		Status:        application.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	view := s.view(ctx, *created, role, p)
	s.notifier.Notify(ctx, p.OwnerID, notification.KindApplicationSubmitted,
		view.ApplicantName+" applied for "+roleLabel(role, p))
	return &view, nil
}

// Respond applies the project owner's decision to a PENDING application.
func (s *ApplicationService) Respond(ctx context.Context, ownerID, id common.UUID, decision application.Status) (*ApplicationView, error) {
	if !decision.IsTerminal() {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be ACCEPTED or REJECTED"})
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	role, p, err := s.dir.role(ctx, current.ProjectRoleID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another project owner", nil)
	}
	if current.Status.IsTerminal() {
		return nil, common.NewError(common.CodeInvalidTransition, "application already answered", application.ErrTerminal)
	}
	updated, err := s.repo.Respond(ctx, id, decision, s.now())
	if err != nil {
		return nil, err
	}
	kind, verb := notification.KindApplicationAccepted, " accepted "
	if decision == application.StatusRejected {
		kind, verb = notification.KindApplicationRejected, " declined "
	}
	s.notifier.Notify(ctx, updated.ApplicantID, kind, s.dir.name(ctx, ownerID)+verb+"your application for "+roleLabel(role, p))
	view := s.view(ctx, *updated, role, p)
	return &view, nil
}

// Delete removes the application in any state. The applicant and the project
// owner may both delete it.
func (s *ApplicationService) Delete(ctx context.Context, actorID, id common.UUID) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	role, p, err := s.dir.role(ctx, current.ProjectRoleID)
	if err != nil && !common.Is(err, common.CodeNotFound) {
		return err
	}
	var counterparty common.UUID
	switch {
	case actorID == current.ApplicantID:
		if p != nil {
			counterparty = p.OwnerID
		}
	case p != nil && actorID == p.OwnerID:
		counterparty = current.ApplicantID
	default:
		return common.NewError(common.CodeForbidden, "application belongs to other users", nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if counterparty != "" {
		s.notifier.Notify(ctx, counterparty, notification.KindApplicationDeleted,
			s.dir.name(ctx, actorID)+" removed the application for "+roleLabel(role, p))
	}
	return nil
}

func (s *ApplicationService) ListMine(ctx context.Context, applicantID common.UUID) ([]ApplicationView, error) {
	items, err := s.repo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items), nil
}

func (s *ApplicationService) ListReceived(ctx context.Context, ownerID common.UUID) ([]ApplicationView, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items), nil
}

func (s *ApplicationService) views(ctx context.Context, items []application.Application) []ApplicationView {
	out := make([]ApplicationView, 0, len(items))
	for _, item := range items {
		role, p, _ := s.dir.role(ctx, item.ProjectRoleID)
		out = append(out, s.view(ctx, item, role, p))
	}
	return out
}

func (s *ApplicationService) view(ctx context.Context, app application.Application, role *project.Role, p *project.Project) ApplicationView {
	view := ApplicationView{Application: app, ApplicantName: s.dir.name(ctx, app.ApplicantID)}
	if role != nil {
		view.RoleName = role.Name
		view.ProjectID = role.ProjectID
	}
	if p != nil {
		view.ProjectTitle = p.Title
	}
	return view
}
