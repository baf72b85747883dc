package handlers

import (
	"net/http"

	"collabhub/internal/app"
	"collabhub/internal/common"
	"collabhub/internal/domain/application"
	"collabhub/internal/http/metrics"
	"collabhub/internal/http/middleware"
	"collabhub/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
	limit        Limit
	metrics      *metrics.Collector
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter, limit Limit, collector *metrics.Collector) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter, limit: limit, metrics: collector}
}

type applyRequest struct {
	ProjectRoleID string `json:"projectRoleId"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	applicantID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	roleID, err := requiredUUID("projectRoleId", req.ProjectRoleID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "apply:" + roleID.String() + ":" + applicantID.String()
		if !h.limiter.Allow(key, h.limit.Count, h.limit.Window) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Apply(r.Context(), applicantID, roleID)
	h.metrics.RecordApplication("apply", err)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, created)
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.applications.ListMine(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ApplicationHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.applications.ListReceived(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	status, err := application.ParseStatus(r.URL.Query().Get("status"))
	if err != nil || !status.IsTerminal() {
		response.Error(w, common.NewValidationError("invalid status", map[string]string{"status": "status must be ACCEPTED or REJECTED"}))
		return
	}
	updated, err := h.applications.Respond(r.Context(), ownerID, id, status)
	h.metrics.RecordApplication("respond", err)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	err = h.applications.Delete(r.Context(), userID, id)
	h.metrics.RecordApplication("delete", err)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
