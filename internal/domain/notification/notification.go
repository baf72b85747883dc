package notification

import (
	"context"
	"time"

	"collabhub/internal/common"
)

type Kind string

const (
	KindInvitationSent       Kind = "invitation.sent"
	KindInvitationAccepted   Kind = "invitation.accepted"
	KindInvitationRejected   Kind = "invitation.rejected"
	KindInvitationDeleted    Kind = "invitation.deleted"
	KindApplicationSubmitted Kind = "application.submitted"
	KindApplicationAccepted  Kind = "application.accepted"
	KindApplicationRejected  Kind = "application.rejected"
	KindApplicationDeleted   Kind = "application.deleted"
	KindProjectRolesMissing  Kind = "project.roles_incomplete"
)

type Notification struct {
	ID        common.UUID `json:"id"`
	UserID    common.UUID `json:"userId"`
	Kind      Kind        `json:"kind"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"createdAt"`
}

type Repository interface {
	Create(ctx context.Context, n Notification) (*Notification, error)
	ListByUser(ctx context.Context, userID common.UUID, limit int) ([]Notification, error)
}
