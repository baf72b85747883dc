package common

import (
	"errors"
	"net/http"
	"testing"
)

func TestNormalizeSetDropsDuplicatesAndBlanks(t *testing.T) {
	got := NormalizeSet([]string{" Go ", "go", "", "SQL", "<b>React</b>", "react"})
	want := []string{"Go", "SQL", "React"}
	if len(got) != len(want) {
		t.Fatalf("unexpected set: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected set: %v", got)
		}
	}
}

func TestFoldKeyIsCaseInsensitive(t *testing.T) {
	if FoldKey("Backend Dev") != FoldKey("  backend dev") {
		t.Fatalf("expected keys to match")
	}
	if FoldKey("   ") != "" {
		t.Fatalf("expected blank key")
	}
}

func TestFoldKeyFoldsCompatibilityForms(t *testing.T) {
	if got, want := FoldKey("Ｇｏ"), FoldKey("go"); got != want {
		t.Fatalf("full-width key %q, want %q", got, want)
	}
	if got, want := FoldKey("Café"), FoldKey("cafe\u0301"); got != want {
		t.Fatalf("decomposed key %q, want %q", got, want)
	}
}

func TestErrorCodeThroughWrapping(t *testing.T) {
	base := NewError(CodeConflict, "already exists", nil)
	wrapped := errors.Join(errors.New("context"), base)
	if !Is(wrapped, CodeConflict) {
		t.Fatalf("expected conflict code in chain")
	}
	if CodeOf(errors.New("plain")) != CodeInternal {
		t.Fatalf("expected internal code for plain errors")
	}
	if HTTPStatus(CodeConflict) != http.StatusConflict {
		t.Fatalf("conflict must map to 409")
	}
	if HTTPStatus(CodeInvalidTransition) != http.StatusUnprocessableEntity {
		t.Fatalf("invalid transition must map to 422")
	}
}

func TestSanitizeKeepsPlainEntities(t *testing.T) {
	if got := Sanitize(" R&D <script>alert(1)</script>"); got != "R&D" {
		t.Fatalf("unexpected sanitized value: %q", got)
	}
}
