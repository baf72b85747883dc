package handlers

import (
	"net/http"

	"collabhub/internal/app"
	"collabhub/internal/http/response"
)

type ProfileHandler struct {
	profiles *app.ProfileService
}

func NewProfileHandler(profiles *app.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	person, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, person)
}

func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req app.ProfileInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	person, err := h.profiles.Upsert(r.Context(), userID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, person)
}

func (h *ProfileHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	people, err := h.profiles.ListAll(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, people)
}
