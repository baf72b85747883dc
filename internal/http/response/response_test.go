package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"collabhub/internal/common"
)

type recorder struct{ codes []common.Code }

func (r *recorder) RecordError(code common.Code) { r.codes = append(r.codes, code) }

func TestErrorWritesCodeMessageAndFields(t *testing.T) {
	rec := &recorder{}
	SetErrorRecorder(rec)
	defer SetErrorRecorder(nil)

	w := httptest.NewRecorder()
	Error(w, common.NewValidationError("invalid project", map[string]string{"title": "required"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != common.CodeValidation || body.Message != "invalid project" || body.Fields["title"] != "required" {
		t.Fatalf("unexpected body %+v", body)
	}
	if len(rec.codes) != 1 || rec.codes[0] != common.CodeValidation {
		t.Fatalf("expected validation to be recorded, got %v", rec.codes)
	}
}

func TestErrorHidesUntypedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, errors.New("pq: connection refused"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "internal error" {
		t.Fatalf("expected generic message, got %q", body.Message)
	}
}

func TestInvalidTransitionIs422(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, common.NewError(common.CodeInvalidTransition, "invitation already answered", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}
