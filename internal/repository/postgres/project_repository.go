package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"collabhub/internal/common"
	"collabhub/internal/domain/project"
)

const projectColumns = `id, owner_id, title, description, team_size, project_type, experience_level, commitment_type, created_at, updated_at`

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p project.Project) (*project.Project, error) {
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.OwnerID, p.Title, p.Description, p.TeamSize, p.ProjectType, p.ExperienceLevel, p.CommitmentType, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create project", err)
	}
	return &p, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id common.UUID) (*project.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFoundOr(err, "project not found", "failed to load project")
	}
	return p, nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID common.UUID) ([]project.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects WHERE owner_id = $1 ORDER BY created_at, id`, ownerID)
}

func (r *ProjectRepository) ListAll(ctx context.Context) ([]project.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at, id`)
}

func (r *ProjectRepository) list(ctx context.Context, query string, args ...any) ([]project.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list projects", err)
	}
	defer rows.Close()
	items := []project.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan project", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list projects", err)
	}
	return items, nil
}

func scanProject(row scanner) (*project.Project, error) {
	var p project.Project
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.TeamSize, &p.ProjectType, &p.ExperienceLevel, &p.CommitmentType, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

const roleColumns = `id, project_id, role_name, expertise_level, technologies, created_at`

type RoleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create relies on the (project_id, lower(role_name)) unique index.
func (r *RoleRepository) Create(ctx context.Context, role project.Role) (*project.Role, error) {
	role.ID = common.NewUUID()
	role.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO project_roles (`+roleColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		role.ID, role.ProjectID, role.Name, role.ExpertiseLevel, pq.Array(role.Technologies), role.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "a role with this name already exists on the project", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create role", err)
	}
	return &role, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id common.UUID) (*project.Role, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM project_roles WHERE id = $1`, id)
	role, err := scanRole(row)
	if err != nil {
		return nil, notFoundOr(err, "role not found", "failed to load role")
	}
	return role, nil
}

func (r *RoleRepository) ListByProject(ctx context.Context, projectID common.UUID) ([]project.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roleColumns+` FROM project_roles WHERE project_id = $1 ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list roles", err)
	}
	defer rows.Close()
	items := []project.Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan role", err)
		}
		items = append(items, *role)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list roles", err)
	}
	return items, nil
}

func (r *RoleRepository) ListByProjects(ctx context.Context, projectIDs []common.UUID) (map[common.UUID][]project.Role, error) {
	out := make(map[common.UUID][]project.Role, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(projectIDs))
	for _, id := range projectIDs {
		ids = append(ids, id.String())
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+roleColumns+` FROM project_roles WHERE project_id = ANY($1::uuid[]) ORDER BY created_at, id`, pq.Array(ids))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list roles", err)
	}
	defer rows.Close()
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan role", err)
		}
		out[role.ProjectID] = append(out[role.ProjectID], *role)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list roles", err)
	}
	return out, nil
}

func scanRole(row scanner) (*project.Role, error) {
	var role project.Role
	var technologies pq.StringArray
	if err := row.Scan(&role.ID, &role.ProjectID, &role.Name, &role.ExpertiseLevel, &technologies, &role.CreatedAt); err != nil {
		return nil, err
	}
	role.Technologies = []string(technologies)
	return &role, nil
}
