package application

import (
	"errors"
	"testing"
	"time"
)

func TestParseStatusLegacyLabels(t *testing.T) {
	for _, raw := range []string{"pending", "PENDING", "applied", "in_review"} {
		status, err := ParseStatus(raw)
		if err != nil || status != StatusPending {
			t.Fatalf("%q must read as PENDING, got %s (%v)", raw, status, err)
		}
	}
	if status, _ := ParseStatus("rejected"); status.String() != "REJECTED" {
		t.Fatalf("unexpected wire value %s", status)
	}
}

func TestApplicationRespondOnce(t *testing.T) {
	app := Application{Status: StatusPending}
	now := time.Now()
	if err := app.Respond(StatusRejected, now); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := app.Respond(StatusAccepted, now.Add(time.Minute)); !errors.Is(err, ErrTerminal) {
		t.Fatalf("expected terminal error, got %v", err)
	}
	if app.Status != StatusRejected {
		t.Fatalf("status changed after terminal state: %s", app.Status)
	}
}
