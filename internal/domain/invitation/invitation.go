package invitation

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
	ErrTerminal        = errors.New("invitation already answered")
	ErrInvalidDecision = errors.New("invitation can only be accepted or rejected")
)

// Status is the lifecycle state of an invitation. INVITED is the only
// non-terminal state.
type Status int

const (
	StatusInvited Status = iota + 1
	StatusAccepted
	StatusRejected
)

// ParseStatus maps the wire representation to a Status. The legacy
// "pending" label is read as INVITED.
func ParseStatus(value string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "INVITED", "PENDING":
		return StatusInvited, nil
	case "ACCEPTED":
		return StatusAccepted, nil
	case "REJECTED":
		return StatusRejected, nil
	default:
		return 0, fmt.Errorf("unknown invitation status %q", value)
	}
}

func (s Status) String() string {
	switch s {
	case StatusInvited:
		return "INVITED"
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
	return s == StatusInvited && to.IsTerminal()
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

// Invitation is a directed edge from a project owner to a person for one role.
type Invitation struct {
	ID            common.UUID `json:"id"`
	ProjectRoleID common.UUID `json:"projectRoleId"`
	SenderID      common.UUID `json:"senderId"`
	RecipientID   common.UUID `json:"recipientId"`
	Status        Status      `json:"status"`
	SentAt        time.Time   `json:"sentAt"`
	RespondedAt   *time.Time  `json:"respondedAt"`
}

// Respond applies a terminal decision. The invitation is left untouched when
// it is already terminal or the decision is not terminal.
func (i *Invitation) Respond(decision Status, now time.Time) error {
	if i.Status.IsTerminal() {
		return ErrTerminal
	}
	if !i.Status.CanTransition(decision) {
		return ErrInvalidDecision
	}
	responded := now.UTC()
	i.Status = decision
	i.RespondedAt = &responded
	return nil
}

type Repository interface {
	// Create stores a new INVITED record; an existing record for the same
	// (recipient, role) pair is reported as CodeConflict.
	Create(ctx context.Context, inv Invitation) (*Invitation, error)
	GetByID(ctx context.Context, id common.UUID) (*Invitation, error)
	FindByRecipientAndRole(ctx context.Context, recipientID, roleID common.UUID) (*Invitation, error)
	ListBySender(ctx context.Context, senderID common.UUID) ([]Invitation, error)
	ListByRecipient(ctx context.Context, recipientID common.UUID) ([]Invitation, error)
	// Respond moves an INVITED record to a terminal status. Records in any
	// other state are left unchanged and CodeInvalidTransition is returned.
	Respond(ctx context.Context, id common.UUID, status Status, respondedAt time.Time) (*Invitation, error)
	Delete(ctx context.Context, id common.UUID) error
}
