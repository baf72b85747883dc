package dashboard

import (
	"context"

	"go.uber.org/zap"

	"collabhub/internal/app"
	"collabhub/internal/common"
	"collabhub/internal/domain/application"
)

type ApplicationAPI interface {
	MyApplications(ctx context.Context) ([]app.ApplicationView, error)
	ReceivedApplications(ctx context.Context) ([]app.ApplicationView, error)
	Apply(ctx context.Context, roleID common.UUID) (*app.ApplicationView, error)
	RespondApplication(ctx context.Context, id common.UUID, status application.Status) (*app.ApplicationView, error)
	DeleteApplication(ctx context.Context, id common.UUID) error
}

// ApplicationBoard shows the caller's own applications (Sent) or those to
// their projects (Received).
type ApplicationBoard struct {
	api       ApplicationAPI
	direction Direction
	list      localList[app.ApplicationView]
	logger    *zap.Logger
}

func NewApplicationBoard(api ApplicationAPI, direction Direction, logger *zap.Logger) *ApplicationBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationBoard{
		api:       api,
		direction: direction,
		list:      localList[app.ApplicationView]{id: func(v app.ApplicationView) common.UUID { return v.ID }},
		logger:    logger,
	}
}

func (b *ApplicationBoard) Load(ctx context.Context) error {
	var (
		items []app.ApplicationView
		err   error
	)
	if b.direction == Sent {
		items, err = b.api.MyApplications(ctx)
	} else {
		items, err = b.api.ReceivedApplications(ctx)
	}
	if err != nil {
		b.logger.Error("load applications failed", zap.Error(err))
		return err
	}
	b.list.reset(items)
	return nil
}

func (b *ApplicationBoard) Items() []app.ApplicationView {
	return b.list.snapshot()
}

func (b *ApplicationBoard) Apply(ctx context.Context, roleID common.UUID, roleName string) Toast {
	created, err := b.api.Apply(ctx, roleID)
	if err != nil {
		if common.Is(err, common.CodeConflict) {
			return Toast{Level: LevelInfo, Message: "An application for this user and role already exists"}
		}
		b.logger.Error("submit application failed", zap.String("role_id", roleID.String()), zap.Error(err))
		return Toast{Level: LevelError, Message: "Failed to submit application"}
	}
	if b.direction == Sent {
		b.list.apply(*created)
	}
	if created.RoleName != "" {
		roleName = created.RoleName
	}
	message := "Applied for " + orRole(roleName)
	if created.ProjectTitle != "" {
		message += " on " + created.ProjectTitle
	}
	return Toast{Level: LevelSuccess, Message: message}
}

func (b *ApplicationBoard) Accept(ctx context.Context, id common.UUID) Toast {
	return b.respond(ctx, id, application.StatusAccepted)
}

func (b *ApplicationBoard) Reject(ctx context.Context, id common.UUID) Toast {
	return b.respond(ctx, id, application.StatusRejected)
}

func (b *ApplicationBoard) respond(ctx context.Context, id common.UUID, decision application.Status) Toast {
	current, ok := b.list.find(id)
	if !ok {
		return Toast{Level: LevelError, Message: "Application not found"}
	}
	if current.Status.IsTerminal() {
		return Toast{Level: LevelError, Message: "Application has already been answered"}
	}
	updated, err := b.api.RespondApplication(ctx, id, decision)
	if err != nil {
		b.logger.Error("update application failed", zap.String("application_id", id.String()), zap.Error(err))
		return Toast{Level: LevelError, Message: "Failed to update application"}
	}
	b.list.apply(*updated)
	verb := "Accepted"
	if decision == application.StatusRejected {
		verb = "Rejected"
	}
	return Toast{Level: LevelSuccess, Message: verb + " " + orSomeone(updated.ApplicantName) + " for " + orRole(updated.RoleName)}
}

func (b *ApplicationBoard) Delete(ctx context.Context, id common.UUID) Toast {
	current, ok := b.list.find(id)
	if !ok {
		return Toast{Level: LevelError, Message: "Application not found"}
	}
	if err := b.api.DeleteApplication(ctx, id); err != nil {
		b.logger.Error("delete application failed", zap.String("application_id", id.String()), zap.Error(err))
		return Toast{Level: LevelError, Message: "Failed to delete application"}
	}
	b.list.remove(id)
	return Toast{Level: LevelSuccess, Message: "Deleted application for " + orRole(current.RoleName)}
}
