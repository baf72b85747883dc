package handlers

import (
	"net/http"

	"collabhub/internal/app"
	"collabhub/internal/http/metrics"
	"collabhub/internal/http/response"
)

type QuickSyncHandler struct {
	quicksync *app.QuickSyncService
	metrics   *metrics.Collector
}

func NewQuickSyncHandler(quicksync *app.QuickSyncService, collector *metrics.Collector) *QuickSyncHandler {
	return &QuickSyncHandler{quicksync: quicksync, metrics: collector}
}

func (h *QuickSyncHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	projectID, err := idParam(r, "projectId")
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.quicksync.Recommend(r.Context(), ownerID, projectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type contactRequest struct {
	MemberID string `json:"memberId"`
}

func (h *QuickSyncHandler) Contact(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	projectID, err := idParam(r, "projectId")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	memberID, err := requiredUUID("memberId", req.MemberID)
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.quicksync.Contact(r.Context(), ownerID, projectID, memberID)
	h.metrics.RecordInvitation("quicksync", err)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, created)
}
