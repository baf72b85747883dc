package dashboard

import (
	"context"

	"go.uber.org/zap"

	"collabhub/internal/app"
	"collabhub/internal/common"
	"collabhub/internal/domain/invitation"
)

type InvitationAPI interface {
	SentInvitations(ctx context.Context) ([]app.InvitationView, error)
	ReceivedInvitations(ctx context.Context) ([]app.InvitationView, error)
	Invite(ctx context.Context, recipientID, roleID common.UUID) (*app.InvitationView, error)
	RespondInvitation(ctx context.Context, id common.UUID, status invitation.Status) (*app.InvitationView, error)
	DeleteInvitation(ctx context.Context, id common.UUID) error
}

// Direction selects which side of the invitations a board shows.
type Direction int

const (
	Sent Direction = iota
	Received
)

type InvitationBoard struct {
	api       InvitationAPI
	direction Direction
	list      localList[app.InvitationView]
	logger    *zap.Logger
}

func NewInvitationBoard(api InvitationAPI, direction Direction, logger *zap.Logger) *InvitationBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvitationBoard{
		api:       api,
		direction: direction,
		list:      localList[app.InvitationView]{id: func(v app.InvitationView) common.UUID { return v.ID }},
		logger:    logger,
	}
}

func (b *InvitationBoard) Load(ctx context.Context) error {
	var (
		items []app.InvitationView
		err   error
	)
	if b.direction == Sent {
		items, err = b.api.SentInvitations(ctx)
	} else {
		items, err = b.api.ReceivedInvitations(ctx)
	}
	if err != nil {
		b.logger.Error("load invitations failed", zap.Error(err))
		return err
	}
	b.list.reset(items)
	return nil
}

func (b *InvitationBoard) Items() []app.InvitationView {
	return b.list.snapshot()
}

// Send invites recipientName to roleName. Nothing is added locally until the
// server confirms; a conflict leaves the list unchanged.
func (b *InvitationBoard) Send(ctx context.Context, recipientID common.UUID, recipientName string, roleID common.UUID, roleName string) Toast {
	created, err := b.api.Invite(ctx, recipientID, roleID)
	if err != nil {
		if common.Is(err, common.CodeConflict) {
			return Toast{Level: LevelInfo, Message: "An invitation for this user and role already exists"}
		}
		b.logger.Error("send invitation failed",
			zap.String("recipient_id", recipientID.String()),
			zap.String("role_id", roleID.String()),
			zap.Error(err),
		)
		return Toast{Level: LevelError, Message: "Failed to send invitation"}
	}
	if b.direction == Sent {
		b.list.apply(*created)
	}
	if created.RecipientName != "" {
		recipientName = created.RecipientName
	}
	if created.RoleName != "" {
		roleName = created.RoleName
	}
	return Toast{Level: LevelSuccess, Message: "Invitation sent to " + orSomeone(recipientName) + " for " + orRole(roleName)}
}

func (b *InvitationBoard) Accept(ctx context.Context, id common.UUID) Toast {
	return b.respond(ctx, id, invitation.StatusAccepted)
}

func (b *InvitationBoard) Reject(ctx context.Context, id common.UUID) Toast {
	return b.respond(ctx, id, invitation.StatusRejected)
}

func (b *InvitationBoard) respond(ctx context.Context, id common.UUID, decision invitation.Status) Toast {
	current, ok := b.list.find(id)
	if !ok {
		return Toast{Level: LevelError, Message: "Invitation not found"}
	}
	if current.Status.IsTerminal() {
		return Toast{Level: LevelError, Message: "Invitation has already been answered"}
	}
	updated, err := b.api.RespondInvitation(ctx, id, decision)
	if err != nil {
		b.logger.Error("update invitation failed", zap.String("invitation_id", id.String()), zap.Error(err))
		return Toast{Level: LevelError, Message: "Failed to update invitation"}
	}
	b.list.apply(*updated)
	verb := "Accepted"
	if decision == invitation.StatusRejected {
		verb = "Declined"
	}
	return Toast{Level: LevelSuccess, Message: verb + " invitation from " + orSomeone(updated.SenderName) + " for " + orRole(updated.RoleName)}
}

func (b *InvitationBoard) Delete(ctx context.Context, id common.UUID) Toast {
	current, ok := b.list.find(id)
	if !ok {
		return Toast{Level: LevelError, Message: "Invitation not found"}
	}
	if err := b.api.DeleteInvitation(ctx, id); err != nil {
		b.logger.Error("delete invitation failed", zap.String("invitation_id", id.String()), zap.Error(err))
		return Toast{Level: LevelError, Message: "Failed to delete invitation"}
	}
	b.list.remove(id)
	counterparty := current.RecipientName
	if b.direction == Received {
		counterparty = current.SenderName
	}
	return Toast{Level: LevelSuccess, Message: "Deleted invitation with " + orSomeone(counterparty) + " for " + orRole(current.RoleName)}
}
