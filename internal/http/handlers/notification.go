package handlers

import (
	"net/http"

	"collabhub/internal/app"
	"collabhub/internal/http/response"
)

type NotificationHandler struct {
	notifier *app.Notifier
}

func NewNotificationHandler(notifier *app.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.notifier.List(r.Context(), userID, intQuery(r, "limit", 50))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
