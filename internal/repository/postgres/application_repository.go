package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"collabhub/internal/common"
	"collabhub/internal/domain/application"
)

const applicationColumns = `a.id, a.project_role_id, a.applicant_id, a.status, a.applied_at, a.responded_at`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	app.Status = application.StatusPending
	app.AppliedAt = time.Now().UTC()
	app.RespondedAt = nil
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (id, project_role_id, applicant_id, status, applied_at)
		VALUES ($1, $2, $3, $4, $5)`,
		app.ID, app.ProjectRoleID, app.ApplicantID, app.Status.String(), app.AppliedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "an application for this user and role already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		return nil, notFoundOr(err, "application not found", "failed to load application")
	}
	return app, nil
}

func (r *ApplicationRepository) FindByApplicantAndRole(ctx context.Context, applicantID, roleID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.applicant_id = $1 AND a.project_role_id = $2`, applicantID, roleID)
	app, err := scanApplication(row)
	if err != nil {
		return nil, notFoundOr(err, "application not found", "failed to load application")
	}
	return app, nil
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.applicant_id = $1 ORDER BY a.applied_at DESC, a.id`, applicantID)
}

func (r *ApplicationRepository) ListByOwner(ctx context.Context, ownerID common.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+`
		FROM applications a
		JOIN project_roles pr ON pr.id = a.project_role_id
		JOIN projects p ON p.id = pr.project_id
		WHERE p.owner_id = $1
		ORDER BY a.applied_at DESC, a.id`, ownerID)
}

// Respond updates the row only while it is still PENDING.
func (r *ApplicationRepository) Respond(ctx context.Context, id common.UUID, status application.Status, respondedAt time.Time) (*application.Application, error) {
	if !status.IsTerminal() {
		return nil, common.NewError(common.CodeValidation, "invalid application status", application.ErrInvalidDecision)
	}
	row := r.db.QueryRowContext(ctx, `UPDATE applications a SET status = $1, responded_at = $2
		WHERE a.id = $3 AND a.status = $4
		RETURNING `+applicationColumns,
		status.String(), respondedAt.UTC(), id, application.StatusPending.String())
	app, err := scanApplication(row)
	if err == nil {
		return app, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewError(common.CodeInternal, "failed to update application", err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, common.NewError(common.CodeInvalidTransition, "application already answered", application.ErrTerminal)
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete application", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return nil
}

func (r *ApplicationRepository) list(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	items := []application.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	return items, nil
}

func scanApplication(row scanner) (*application.Application, error) {
	var app application.Application
	var status string
	var respondedAt sql.NullTime
	if err := row.Scan(&app.ID, &app.ProjectRoleID, &app.ApplicantID, &status, &app.AppliedAt, &respondedAt); err != nil {
		return nil, err
	}
	parsed, err := application.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	app.Status = parsed
	if respondedAt.Valid {
		t := respondedAt.Time.UTC()
		app.RespondedAt = &t
	}
	return &app, nil
}
