package app

import (
	"context"
	"time"

	"collabhub/internal/common"
	"collabhub/internal/domain/invitation"
	"collabhub/internal/domain/notification"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
)

// InvitationView is an invitation with the names a list row shows.
type InvitationView struct {
	invitation.Invitation
	RoleName      string      `json:"roleName"`
	ProjectID     common.UUID `json:"projectId"`
	ProjectTitle  string      `json:"projectTitle"`
	SenderName    string      `json:"senderName"`
	RecipientName string      `json:"recipientName"`
}

type InvitationService struct {
	repo     invitation.Repository
	dir      directory
	notifier *Notifier
	now      func() time.Time
}

func NewInvitationService(repo invitation.Repository, roles project.RoleRepository, projects project.Repository, profiles profile.Repository, notifier *Notifier) *InvitationService {
	return &InvitationService{
		repo:     repo,
		dir:      directory{profiles: profiles, projects: projects, roles: roles},
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Invite creates an INVITED record from the owner of the role's project to
// recipientID. A second invitation for the same recipient and role is a
// conflict and leaves the first one untouched.
func (s *InvitationService) Invite(ctx context.Context, senderID, recipientID, roleID common.UUID) (*InvitationView, error) {
	fields := map[string]string{}
	if roleID == "" {
		fields["projectRoleId"] = "project role is required"
	}
	if recipientID == "" {
		fields["recipientId"] = "recipient is required"
	} else if recipientID == senderID {
		fields["recipientId"] = "you cannot invite yourself"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid invitation", fields)
	}
	role, p, err := s.dir.role(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != senderID {
		return nil, common.NewError(common.CodeForbidden, "only the project owner can invite", nil)
	}
	if _, err := s.dir.profiles.GetByID(ctx, recipientID); err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "recipient not found", err)
		}
		return nil, err
	}
	if _, err := s.repo.FindByRecipientAndRole(ctx, recipientID, roleID); err == nil {
		return nil, common.NewError(common.CodeConflict, "an invitation for this user and role already exists", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	created, err := s.repo.Create(ctx, invitation.Invitation{
		ProjectRoleID: roleID,
		SenderID:      senderID,
		RecipientID:   recipientID,
		Status:        invitation.StatusInvited,
	})
	if err != nil {
		return nil, err
	}
	view := s.view(ctx, *created, role, p)
	s.notifier.Notify(ctx, recipientID, notification.KindInvitationSent,
		view.SenderName+" invited you to join as "+roleLabel(role, p))
	return &view, nil
}

// Respond applies the recipient's decision. Only ACCEPTED and REJECTED are
// accepted, and only while the invitation is still INVITED.
func (s *InvitationService) Respond(ctx context.Context, actorID, id common.UUID, decision invitation.Status) (*InvitationView, error) {
	if !decision.IsTerminal() {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be ACCEPTED or REJECTED"})
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.RecipientID != actorID {
		return nil, common.NewError(common.CodeForbidden, "only the recipient can answer an invitation", nil)
	}
	if current.Status.IsTerminal() {
		return nil, common.NewError(common.CodeInvalidTransition, "invitation already answered", invitation.ErrTerminal)
	}
	updated, err := s.repo.Respond(ctx, id, decision, s.now())
	if err != nil {
		return nil, err
	}
	role, p, _ := s.dir.role(ctx, updated.ProjectRoleID)
	view := s.view(ctx, *updated, role, p)
	kind, verb := notification.KindInvitationAccepted, " accepted "
	if decision == invitation.StatusRejected {
		kind, verb = notification.KindInvitationRejected, " declined "
	}
	s.notifier.Notify(ctx, updated.SenderID, kind, view.RecipientName+verb+"your invitation for "+roleLabel(role, p))
	return &view, nil
}

// Delete removes the invitation in any state. Either party may delete it.
func (s *InvitationService) Delete(ctx context.Context, actorID, id common.UUID) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	var counterparty common.UUID
	switch actorID {
	case current.SenderID:
		counterparty = current.RecipientID
	case current.RecipientID:
		counterparty = current.SenderID
	default:
		return common.NewError(common.CodeForbidden, "invitation belongs to other users", nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	role, p, _ := s.dir.role(ctx, current.ProjectRoleID)
	s.notifier.Notify(ctx, counterparty, notification.KindInvitationDeleted,
		s.dir.name(ctx, actorID)+" removed the invitation for "+roleLabel(role, p))
	return nil
}

func (s *InvitationService) ListSent(ctx context.Context, senderID common.UUID) ([]InvitationView, error) {
	items, err := s.repo.ListBySender(ctx, senderID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items), nil
}

func (s *InvitationService) ListReceived(ctx context.Context, recipientID common.UUID) ([]InvitationView, error) {
	items, err := s.repo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items), nil
}

func (s *InvitationService) views(ctx context.Context, items []invitation.Invitation) []InvitationView {
	out := make([]InvitationView, 0, len(items))
	for _, item := range items {
		role, p, _ := s.dir.role(ctx, item.ProjectRoleID)
		out = append(out, s.view(ctx, item, role, p))
	}
	return out
}

func (s *InvitationService) view(ctx context.Context, inv invitation.Invitation, role *project.Role, p *project.Project) InvitationView {
	view := InvitationView{
		Invitation:    inv,
		SenderName:    s.dir.name(ctx, inv.SenderID),
		RecipientName: s.dir.name(ctx, inv.RecipientID),
	}
	if role != nil {
		view.RoleName = role.Name
		view.ProjectID = role.ProjectID
	}
	if p != nil {
		view.ProjectTitle = p.Title
	}
	return view
}
