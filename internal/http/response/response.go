package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"collabhub/internal/common"
)

type ErrorBody struct {
	Error   common.Code       `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorRecorder observes every error response, e.g. for metrics.
type ErrorRecorder interface {
	RecordError(code common.Code)
}

var errorRecorder ErrorRecorder

func SetErrorRecorder(recorder ErrorRecorder) {
	errorRecorder = recorder
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes err as {"error","message","fields"}. Errors without a code are
// reported as internal and their text is not exposed.
func Error(w http.ResponseWriter, err error) {
	code := common.CodeOf(err)
	body := ErrorBody{Error: code, Message: "internal error"}
	if appErr := asError(err); appErr != nil {
		body.Message = appErr.Message
		body.Fields = appErr.Fields
	}
	if errorRecorder != nil {
		errorRecorder.RecordError(code)
	}
	JSON(w, common.HTTPStatus(code), body)
}

func asError(err error) *common.Error {
	var appErr *common.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
