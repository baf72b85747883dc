package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"collabhub/internal/common"
	"collabhub/internal/http/middleware"
	"collabhub/internal/http/response"
)

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "unauthorized", nil)
}

// currentUser writes 401 and returns false when the request carries no user.
func currentUser(w http.ResponseWriter, r *http.Request) (common.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
	}
	return userID, ok
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return common.NewError(common.CodeValidation, "request body is required", nil)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return common.NewError(common.CodeValidation, "request body too large", err)
		case errors.Is(err, io.EOF):
			return common.NewError(common.CodeValidation, "request body is required", err)
		default:
			return common.NewError(common.CodeValidation, "invalid json", err)
		}
	}
	return nil
}

// idParam reads a UUID route parameter.
func idParam(r *http.Request, name string) (common.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return "", common.NewValidationError("invalid request", map[string]string{name: name + " is required"})
	}
	id, err := common.ParseUUID(raw)
	if err != nil {
		return "", common.NewValidationError("invalid request", map[string]string{name: "invalid uuid"})
	}
	return id, nil
}

func requiredUUID(field, value string) (common.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return "", common.NewValidationError("invalid request", map[string]string{field: field + " is required"})
	}
	id, err := common.ParseUUID(strings.TrimSpace(value))
	if err != nil {
		return "", common.NewValidationError("invalid request", map[string]string{field: "invalid uuid"})
	}
	return id, nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
