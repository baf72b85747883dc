package project

import (
	"context"
	"time"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
)

type TeamSize string

const (
	TeamSizeSmall  TeamSize = "1-3"
	TeamSizeMedium TeamSize = "4-6"
	TeamSizeLarge  TeamSize = "7+"
)

// Bounds returns the position count range implied by the band. bounded is
// false for the open-ended 7+ band.
func (t TeamSize) Bounds() (minCount, maxCount int, bounded bool) {
	switch t {
	case TeamSizeSmall:
		return 1, 3, true
	case TeamSizeMedium:
		return 4, 6, true
	case TeamSizeLarge:
		return 7, 0, false
	default:
		return 0, 0, false
	}
}

// Allows reports whether count positions fit the band.
func (t TeamSize) Allows(count int) bool {
	minCount, maxCount, bounded := t.Bounds()
	if minCount == 0 || count < minCount {
		return false
	}
	return !bounded || count <= maxCount
}

func ParseTeamSize(value string) (TeamSize, bool) {
	switch common.FoldKey(value) {
	case "1-3", "1–3":
		return TeamSizeSmall, true
	case "4-6", "4–6":
		return TeamSizeMedium, true
	case "7+", "7-plus":
		return TeamSizeLarge, true
	default:
		return "", false
	}
}

type Type string

const (
	TypeFreelance Type = "Freelance"
	TypeResearch  Type = "Research"
	TypeAcademic  Type = "Academic"
	TypeHackathon Type = "Hackathon"
)

func ParseType(value string) (Type, bool) {
	for _, t := range []Type{TypeFreelance, TypeResearch, TypeAcademic, TypeHackathon} {
		if common.FoldKey(string(t)) == common.FoldKey(value) {
			return t, true
		}
	}
	return "", false
}

// CommitmentType is the employment type offered by a project.
type CommitmentType string

const (
	CommitmentFullTime  CommitmentType = "Full-time"
	CommitmentPartTime  CommitmentType = "Part-time"
	CommitmentContract  CommitmentType = "Contract"
	CommitmentVolunteer CommitmentType = "Volunteer"
	CommitmentFlexible  CommitmentType = "Flexible"
)

func ParseCommitmentType(value string) (CommitmentType, bool) {
	for _, c := range []CommitmentType{CommitmentFullTime, CommitmentPartTime, CommitmentContract, CommitmentVolunteer, CommitmentFlexible} {
		if common.FoldKey(string(c)) == common.FoldKey(value) {
			return c, true
		}
	}
	return "", false
}

type Project struct {
	ID              common.UUID            `json:"id"`
	OwnerID         common.UUID            `json:"ownerId"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	TeamSize        TeamSize               `json:"teamSize"`
	ProjectType     Type                   `json:"projectType"`
	ExperienceLevel profile.ExpertiseLevel `json:"experienceLevel"`
	CommitmentType  CommitmentType         `json:"commitmentType"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

type Repository interface {
	Create(ctx context.Context, p Project) (*Project, error)
	GetByID(ctx context.Context, id common.UUID) (*Project, error)
	ListByOwner(ctx context.Context, ownerID common.UUID) ([]Project, error)
	ListAll(ctx context.Context) ([]Project, error)
}
