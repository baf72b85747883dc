package handlers

import (
	"net/http"
	"time"

	"collabhub/internal/app"
	"collabhub/internal/common"
	"collabhub/internal/domain/invitation"
	"collabhub/internal/http/metrics"
	"collabhub/internal/http/middleware"
	"collabhub/internal/http/response"
)

// Limit is a rate allowance: Count events per Window.
type Limit struct {
	Count  int
	Window time.Duration
}

type InvitationHandler struct {
	invitations *app.InvitationService
	limiter     middleware.Limiter
	limit       Limit
	metrics     *metrics.Collector
}

func NewInvitationHandler(invitations *app.InvitationService, limiter middleware.Limiter, limit Limit, collector *metrics.Collector) *InvitationHandler {
	return &InvitationHandler{invitations: invitations, limiter: limiter, limit: limit, metrics: collector}
}

type inviteRequest struct {
	ProjectRoleID string `json:"projectRoleId"`
	RecipientID   string `json:"recipientId"`
}

func (h *InvitationHandler) Send(w http.ResponseWriter, r *http.Request) {
	senderID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	roleID, err := requiredUUID("projectRoleId", req.ProjectRoleID)
	if err != nil {
		response.Error(w, err)
		return
	}
	recipientID, err := requiredUUID("recipientId", req.RecipientID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow("invite:"+senderID.String(), h.limit.Count, h.limit.Window) {
		response.Error(w, common.NewError(common.CodeRateLimited, "invitation rate limit exceeded", nil))
		return
	}
	created, err := h.invitations.Invite(r.Context(), senderID, recipientID, roleID)
	h.metrics.RecordInvitation("send", err)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, created)
}

func (h *InvitationHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.invitations.ListSent(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *InvitationHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.invitations.ListReceived(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// UpdateStatus accepts or rejects an invitation: PATCH ?status=ACCEPTED|REJECTED.
func (h *InvitationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	status, err := invitation.ParseStatus(r.URL.Query().Get("status"))
	if err != nil || !status.IsTerminal() {
		response.Error(w, common.NewValidationError("invalid status", map[string]string{"status": "status must be ACCEPTED or REJECTED"}))
		return
	}
	updated, err := h.invitations.Respond(r.Context(), userID, id, status)
	h.metrics.RecordInvitation("respond", err)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *InvitationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	err = h.invitations.Delete(r.Context(), userID, id)
	h.metrics.RecordInvitation("delete", err)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
