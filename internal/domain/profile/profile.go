package profile

import (
	"context"
	"strings"
	"time"

	"collabhub/internal/common"
)

type Education string

const (
	EducationHighSchool Education = "High School"
	EducationAssociate  Education = "Associate"
	EducationBachelor   Education = "Bachelor"
	EducationMaster     Education = "Master"
	EducationPhD        Education = "PhD"
	EducationOther      Education = "Other"
)

var educations = []Education{EducationHighSchool, EducationAssociate, EducationBachelor, EducationMaster, EducationPhD, EducationOther}

func ParseEducation(value string) (Education, bool) {
	key := common.FoldKey(value)
	for _, e := range educations {
		if common.FoldKey(string(e)) == key {
			return e, true
		}
	}
	return "", false
}

// Person is a talent profile. ExperienceYears holds the stored enumeration
// (or a raw number of years); use ExperienceBand to compare it.
type Person struct {
	ID              common.UUID    `json:"id"`
	FullName        string         `json:"fullName"`
	Email           string         `json:"email"`
	Position        string         `json:"position"`
	Positions       []string       `json:"positions,omitempty"`
	Education       Education      `json:"education"`
	ExpertiseLevel  ExpertiseLevel `json:"expertise_level"`
	ExperienceYears string         `json:"experience_years"`
	Technologies    []string       `json:"technologies"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// DeclaredPositions returns the primary position followed by any extra
// ones, trimmed and without case-insensitive duplicates.
func (p Person) DeclaredPositions() []string {
	all := make([]string, 0, len(p.Positions)+1)
	all = append(all, p.Position)
	all = append(all, p.Positions...)
	out := make([]string, 0, len(all))
	seen := make(map[string]struct{}, len(all))
	for _, position := range all {
		key := common.FoldKey(position)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(position))
	}
	return out
}

type Repository interface {
	Upsert(ctx context.Context, person Person) (*Person, error)
	GetByID(ctx context.Context, id common.UUID) (*Person, error)
	ListAll(ctx context.Context) ([]Person, error)
}
