package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"collabhub/internal/common"
	"collabhub/internal/domain/invitation"
)

const invitationColumns = `id, project_role_id, sender_id, recipient_id, status, sent_at, responded_at`

type InvitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, inv invitation.Invitation) (*invitation.Invitation, error) {
	inv.ID = common.NewUUID()
	inv.Status = invitation.StatusInvited
	inv.SentAt = time.Now().UTC()
	inv.RespondedAt = nil
	_, err := r.db.ExecContext(ctx, `INSERT INTO invitations (`+invitationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, NULL)`,
		inv.ID, inv.ProjectRoleID, inv.SenderID, inv.RecipientID, inv.Status.String(), inv.SentAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "an invitation for this user and role already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create invitation", err)
	}
	return &inv, nil
}

func (r *InvitationRepository) GetByID(ctx context.Context, id common.UUID) (*invitation.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id)
	inv, err := scanInvitation(row)
	if err != nil {
		return nil, notFoundOr(err, "invitation not found", "failed to load invitation")
	}
	return inv, nil
}

func (r *InvitationRepository) FindByRecipientAndRole(ctx context.Context, recipientID, roleID common.UUID) (*invitation.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE recipient_id = $1 AND project_role_id = $2`, recipientID, roleID)
	inv, err := scanInvitation(row)
	if err != nil {
		return nil, notFoundOr(err, "invitation not found", "failed to load invitation")
	}
	return inv, nil
}

func (r *InvitationRepository) ListBySender(ctx context.Context, senderID common.UUID) ([]invitation.Invitation, error) {
	return r.list(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE sender_id = $1 ORDER BY sent_at DESC, id`, senderID)
}

func (r *InvitationRepository) ListByRecipient(ctx context.Context, recipientID common.UUID) ([]invitation.Invitation, error) {
	return r.list(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE recipient_id = $1 ORDER BY sent_at DESC, id`, recipientID)
}

// Respond updates the row only while it is still INVITED.
func (r *InvitationRepository) Respond(ctx context.Context, id common.UUID, status invitation.Status, respondedAt time.Time) (*invitation.Invitation, error) {
	if !status.IsTerminal() {
		return nil, common.NewError(common.CodeValidation, "invalid invitation status", invitation.ErrInvalidDecision)
	}
	row := r.db.QueryRowContext(ctx, `UPDATE invitations SET status = $1, responded_at = $2
		WHERE id = $3 AND status = $4
		RETURNING `+invitationColumns,
		status.String(), respondedAt.UTC(), id, invitation.StatusInvited.String())
	inv, err := scanInvitation(row)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewError(common.CodeInternal, "failed to update invitation", err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, common.NewError(common.CodeInvalidTransition, "invitation already answered", invitation.ErrTerminal)
}

func (r *InvitationRepository) Delete(ctx context.Context, id common.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete invitation", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NewError(common.CodeNotFound, "invitation not found", nil)
	}
	return nil
}

func (r *InvitationRepository) list(ctx context.Context, query string, args ...any) ([]invitation.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list invitations", err)
	}
	defer rows.Close()
	items := []invitation.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan invitation", err)
		}
		items = append(items, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list invitations", err)
	}
	return items, nil
}

func scanInvitation(row scanner) (*invitation.Invitation, error) {
	var inv invitation.Invitation
	var status string
	var respondedAt sql.NullTime
	if err := row.Scan(&inv.ID, &inv.ProjectRoleID, &inv.SenderID, &inv.RecipientID, &status, &inv.SentAt, &respondedAt); err != nil {
		return nil, err
	}
	parsed, err := invitation.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	inv.Status = parsed
	if respondedAt.Valid {
		t := respondedAt.Time.UTC()
		inv.RespondedAt = &t
	}
	return &inv, nil
}
