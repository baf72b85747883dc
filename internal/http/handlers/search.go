package handlers

import (
	"net/http"

	"collabhub/internal/app"
	"collabhub/internal/http/response"
	"collabhub/internal/search"
)

type SearchHandler struct {
	search *app.SearchService
}

func NewSearchHandler(search *app.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

func (h *SearchHandler) Talents(w http.ResponseWriter, r *http.Request) {
	people, err := h.search.Talents(r.Context(), search.ParseTalentCriteria(r.URL.Query()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, people)
}

func (h *SearchHandler) Projects(w http.ResponseWriter, r *http.Request) {
	listings, err := h.search.Projects(r.Context(), search.ParseProjectCriteria(r.URL.Query()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, listings)
}
