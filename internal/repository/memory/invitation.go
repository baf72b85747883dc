package memory

import (
	"context"
	"time"

	"collabhub/internal/common"
	"collabhub/internal/domain/invitation"
)

type InvitationRepository struct {
	store *Store
}

func NewInvitationRepository(store *Store) *InvitationRepository {
	return &InvitationRepository{store: store}
}

func (r *InvitationRepository) Create(_ context.Context, inv invitation.Invitation) (*invitation.Invitation, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.invitations {
		if existing.RecipientID == inv.RecipientID && existing.ProjectRoleID == inv.ProjectRoleID {
			return nil, common.NewError(common.CodeConflict, "an invitation for this user and role already exists", nil)
		}
	}
	inv.ID = common.NewUUID()
	inv.Status = invitation.StatusInvited
	inv.SentAt = s.now()
	inv.RespondedAt = nil
	s.invitations = append(s.invitations, inv)
	return &inv, nil
}

func (r *InvitationRepository) GetByID(_ context.Context, id common.UUID) (*invitation.Invitation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		inv := s.invitations[i]
		return &inv, nil
	}
	return nil, common.NewError(common.CodeNotFound, "invitation not found", nil)
}

func (r *InvitationRepository) FindByRecipientAndRole(_ context.Context, recipientID, roleID common.UUID) (*invitation.Invitation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invitations {
		if inv.RecipientID == recipientID && inv.ProjectRoleID == roleID {
			return &inv, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "invitation not found", nil)
}

func (r *InvitationRepository) ListBySender(_ context.Context, senderID common.UUID) ([]invitation.Invitation, error) {
	return r.list(func(inv invitation.Invitation) bool { return inv.SenderID == senderID }), nil
}

func (r *InvitationRepository) ListByRecipient(_ context.Context, recipientID common.UUID) ([]invitation.Invitation, error) {
	return r.list(func(inv invitation.Invitation) bool { return inv.RecipientID == recipientID }), nil
}

// Respond moves an INVITED record to status. Any other current status is
// reported as an invalid transition and the record is left as it was.
func (r *InvitationRepository) Respond(_ context.Context, id common.UUID, status invitation.Status, respondedAt time.Time) (*invitation.Invitation, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, common.NewError(common.CodeNotFound, "invitation not found", nil)
	}
	inv := s.invitations[i]
	if err := inv.Respond(status, respondedAt); err != nil {
		return nil, common.NewError(common.CodeInvalidTransition, "invitation already answered", err)
	}
	s.invitations[i] = inv
	return &inv, nil
}

func (r *InvitationRepository) Delete(_ context.Context, id common.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return common.NewError(common.CodeNotFound, "invitation not found", nil)
	}
	s.invitations = append(s.invitations[:i], s.invitations[i+1:]...)
	return nil
}

func (r *InvitationRepository) indexOf(id common.UUID) int {
	for i, inv := range r.store.invitations {
		if inv.ID == id {
			return i
		}
	}
	return -1
}

func (r *InvitationRepository) list(keep func(invitation.Invitation) bool) []invitation.Invitation {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []invitation.Invitation{}
	for _, inv := range s.invitations {
		if keep(inv) {
			items = append(items, inv)
		}
	}
	return items
}
