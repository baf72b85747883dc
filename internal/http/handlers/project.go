package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"collabhub/internal/app"
	"collabhub/internal/common"
	"collabhub/internal/domain/notification"
	"collabhub/internal/domain/project"
	"collabhub/internal/http/metrics"
	"collabhub/internal/http/response"
	"collabhub/internal/observability"
	"collabhub/internal/wizard"
)

type WizardSettings struct {
	RoleTimeout   time.Duration
	MaxConcurrent int
}

type ProjectHandler struct {
	projects *app.ProjectService
	notifier *app.Notifier
	metrics  *metrics.Collector
	wizard   WizardSettings
	logger   *zap.Logger
}

func NewProjectHandler(projects *app.ProjectService, notifier *app.Notifier, collector *metrics.Collector, settings WizardSettings, logger *zap.Logger) *ProjectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectHandler{projects: projects, notifier: notifier, metrics: collector, wizard: settings, logger: logger}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req project.Project
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.projects.Create(r.Context(), userID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ProjectHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.projects.ListByOwner(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	p, err := h.projects.Get(r.Context(), projectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	roles, err := h.projects.ListRoles(r.Context(), projectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, roles)
}

func (h *ProjectHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	projectID, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req project.Role
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.projects.CreateRole(r.Context(), userID, projectID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// Submit runs the two-phase creation wizard. A project whose roles were only
// partly created is answered with 207 and the per-role outcome.
func (h *ProjectHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var draft wizard.Draft
	if err := decodeJSON(r, &draft); err != nil {
		response.Error(w, err)
		return
	}
	outcome, err := h.orchestrator(r, userID).Submit(r.Context(), userID, draft)
	h.writeOutcome(w, r, userID, outcome, err, http.StatusCreated)
}

type resumeRequest struct {
	Roles []wizard.RoleDetail `json:"roles"`
}

func (h *ProjectHandler) Resume(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	projectID, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req resumeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	p, err := h.projects.RequireOwner(r.Context(), userID, projectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	outcome, err := h.orchestrator(r, userID).Resume(r.Context(), projectID, req.Roles)
	if outcome != nil {
		outcome.Project = p
	}
	h.writeOutcome(w, r, userID, outcome, err, http.StatusOK)
}

func (h *ProjectHandler) orchestrator(r *http.Request, ownerID common.UUID) *wizard.Orchestrator {
	logger := observability.For(r.Context(), h.logger)
	return wizard.NewOrchestrator(h.projects.Provisioner(ownerID), h.wizard.RoleTimeout, h.wizard.MaxConcurrent, logger)
}

func (h *ProjectHandler) writeOutcome(w http.ResponseWriter, r *http.Request, ownerID common.UUID, outcome *wizard.Outcome, err error, okStatus int) {
	if outcome != nil {
		h.metrics.RecordProvisioning(len(outcome.Created), len(outcome.Failed))
	}
	switch {
	case err == nil:
		response.JSON(w, okStatus, outcome)
	case errors.Is(err, wizard.ErrIncompleteRoles) && outcome != nil:
		h.notifier.Notify(r.Context(), ownerID, notification.KindProjectRolesMissing, missingRolesMessage(outcome))
		response.JSON(w, http.StatusMultiStatus, outcome)
	default:
		response.Error(w, err)
	}
}

func missingRolesMessage(outcome *wizard.Outcome) string {
	positions := make([]string, 0, len(outcome.Failed))
	for _, failure := range outcome.Failed {
		positions = append(positions, failure.Detail.Position)
	}
	title := "Your project"
	if outcome.Project != nil && outcome.Project.Title != "" {
		title = outcome.Project.Title
	}
	return fmt.Sprintf("%s was created without the roles %s. You can retry them from the project page.", title, strings.Join(positions, ", "))
}
