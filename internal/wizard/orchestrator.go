package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"collabhub/internal/common"
	"collabhub/internal/domain/project"
)

const (
	NextStepQuickMatch = "quick-match"
	NextStepDone       = "done"

	defaultRoleTimeout = 10 * time.Second
)

// ErrIncompleteRoles is returned with an Outcome when the project exists but
// at least one role could not be created.
var ErrIncompleteRoles = errors.New("project created with missing roles")

// Provisioner creates the resources a draft describes.
type Provisioner interface {
	CreateProject(ctx context.Context, p project.Project) (*project.Project, error)
	CreateRole(ctx context.Context, projectID common.UUID, role project.Role) (*project.Role, error)
}

type RoleFailure struct {
	Detail    RoleDetail `json:"detail"`
	Err       error      `json:"-"`
	Message   string     `json:"message"`
	Retryable bool       `json:"retryable"`
}

type Outcome struct {
	Project  *project.Project `json:"project"`
	Created  []project.Role   `json:"created"`
	Failed   []RoleFailure    `json:"failed"`
	NextStep string           `json:"nextStep"`
}

// FailedDetails returns the details to pass to Resume.
func (o *Outcome) FailedDetails() []RoleDetail {
	out := make([]RoleDetail, 0, len(o.Failed))
	for _, failure := range o.Failed {
		out = append(out, failure.Detail)
	}
	return out
}

type Orchestrator struct {
	provisioner   Provisioner
	roleTimeout   time.Duration
	maxConcurrent int
	logger        *zap.Logger
}

func NewOrchestrator(provisioner Provisioner, roleTimeout time.Duration, maxConcurrent int, logger *zap.Logger) *Orchestrator {
	if roleTimeout <= 0 {
		roleTimeout = defaultRoleTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		provisioner:   provisioner,
		roleTimeout:   roleTimeout,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// Submit validates the draft, creates the project and then all of its roles
// concurrently. A failed project creation attempts no roles. Failed roles are
// reported one by one next to ErrIncompleteRoles; nothing is rolled back.
func (o *Orchestrator) Submit(ctx context.Context, ownerID common.UUID, draft Draft) (*Outcome, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	created, err := o.provisioner.CreateProject(ctx, draft.Project(ownerID))
	if err != nil {
		o.logger.Warn("project creation failed", zap.String("title", draft.Title), zap.Error(err))
		return nil, fmt.Errorf("create project: %w", err)
	}

	outcome := o.provisionRoles(ctx, created.ID, orderByPositions(draft.Positions, draft.Roles))
	outcome.Project = created
	if len(outcome.Failed) > 0 {
		return outcome, ErrIncompleteRoles
	}
	if draft.QuickMatch {
		outcome.NextStep = NextStepQuickMatch
	}
	return outcome, nil
}

// Resume creates only the given role details on an existing project.
func (o *Orchestrator) Resume(ctx context.Context, projectID common.UUID, details []RoleDetail) (*Outcome, error) {
	normalized := make([]RoleDetail, 0, len(details))
	fields := map[string]string{}
	for i, detail := range details {
		detail = detail.Normalize()
		key := fmt.Sprintf("roles[%d]", i)
		if detail.Position == "" {
			fields[key+".position"] = "position is required"
		}
		validateDetail(key, detail, fields)
		normalized = append(normalized, detail)
	}
	if len(normalized) == 0 {
		fields["roles"] = "at least one role detail is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid role details", fields)
	}

	outcome := o.provisionRoles(ctx, projectID, normalized)
	if len(outcome.Failed) > 0 {
		return outcome, ErrIncompleteRoles
	}
	return outcome, nil
}

type roleResult struct {
	role *project.Role
	err  error
}

func (o *Orchestrator) provisionRoles(ctx context.Context, projectID common.UUID, details []RoleDetail) *Outcome {
	results := make([]roleResult, len(details))
	var group errgroup.Group
	if o.maxConcurrent > 0 {
		group.SetLimit(o.maxConcurrent)
	}
	for i, detail := range details {
		group.Go(func() error {
			roleCtx, cancel := context.WithTimeout(ctx, o.roleTimeout)
			defer cancel()
			role, err := o.provisioner.CreateRole(roleCtx, projectID, detail.Role(projectID))
			if err == nil && role == nil {
				err = errors.New("provisioner returned no role")
			}
			results[i] = roleResult{role: role, err: err}
			// Each role reports its own outcome; one failure must not cancel the others.
			return nil
		})
	}
	_ = group.Wait()

	outcome := &Outcome{Created: []project.Role{}, Failed: []RoleFailure{}, NextStep: NextStepDone}
	for i, result := range results {
		if result.err == nil {
			outcome.Created = append(outcome.Created, *result.role)
			continue
		}
		o.logger.Warn("role creation failed",
			zap.String("project_id", projectID.String()),
			zap.String("position", details[i].Position),
			zap.Error(result.err),
		)
		outcome.Failed = append(outcome.Failed, RoleFailure{
			Detail:    details[i],
			Err:       result.err,
			Message:   failureMessage(result.err),
			Retryable: retryable(result.err),
		})
	}
	return outcome
}

// orderByPositions returns role details in the order positions were declared.
func orderByPositions(positions []string, roles []RoleDetail) []RoleDetail {
	byPosition := make(map[string]RoleDetail, len(roles))
	for _, role := range roles {
		byPosition[role.Position] = role
	}
	out := make([]RoleDetail, 0, len(positions))
	for _, position := range positions {
		out = append(out, byPosition[position])
	}
	return out
}

func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch common.CodeOf(err) {
	case common.CodeValidation, common.CodeConflict, common.CodeForbidden, common.CodeNotFound, common.CodeUnauthorized:
		return false
	default:
		return true
	}
}

func failureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "role creation timed out"
	}
	var appErr *common.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "role creation failed"
}
