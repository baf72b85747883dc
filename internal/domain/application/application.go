package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"collabhub/internal/common"
)

var (
	ErrTerminal        = errors.New("application already answered")
	ErrInvalidDecision = errors.New("application can only be accepted or rejected")
)

type Status int

const (
	StatusPending Status = iota + 1
	StatusAccepted
	StatusRejected
)

// ParseStatus maps the wire representation to a Status. Older labels
// ("applied", "in_review") are read as PENDING.
func ParseStatus(value string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "PENDING", "APPLIED", "IN_REVIEW", "REVIEW":
		return StatusPending, nil
	case "ACCEPTED":
		return StatusAccepted, nil
	case "REJECTED":
		return StatusRejected, nil
	default:
		return 0, fmt.Errorf("unknown application status %q", value)
	}
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusAccepted:
		return "ACCEPTED"
	case StatusRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

func (s Status) CanTransition(to Status) bool {
	return s == StatusPending && to.IsTerminal()
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Application is a candidate's request to fill a role.
type Application struct {
	ID            common.UUID `json:"id"`
	ProjectRoleID common.UUID `json:"projectRoleId"`
	ApplicantID   common.UUID `json:"applicantId"`
	Status        Status      `json:"status"`
	AppliedAt     time.Time   `json:"appliedAt"`
	RespondedAt   *time.Time  `json:"respondedAt"`
}

func (a *Application) Respond(decision Status, now time.Time) error {
	if a.Status.IsTerminal() {
		return ErrTerminal
	}
	if !a.Status.CanTransition(decision) {
		return ErrInvalidDecision
	}
	responded := now.UTC()
	a.Status = decision
	a.RespondedAt = &responded
	return nil
}

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByApplicantAndRole(ctx context.Context, applicantID, roleID common.UUID) (*Application, error)
	ListByApplicant(ctx context.Context, applicantID common.UUID) ([]Application, error)
	// ListByOwner returns applications to roles of projects owned by ownerID.
	ListByOwner(ctx context.Context, ownerID common.UUID) ([]Application, error)
	Respond(ctx context.Context, id common.UUID, status Status, respondedAt time.Time) (*Application, error)
	Delete(ctx context.Context, id common.UUID) error
}
