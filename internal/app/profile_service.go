package app

import (
	"context"
	"net/mail"
	"strings"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
)

type ProfileService struct {
	repo profile.Repository
}

func NewProfileService(repo profile.Repository) *ProfileService {
	return &ProfileService{repo: repo}
}

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	FullName        string   `json:"fullName"`
	Email           string   `json:"email"`
	Position        string   `json:"position"`
	Positions       []string `json:"positions"`
	Education       string   `json:"education"`
	ExpertiseLevel  string   `json:"expertise_level"`
	ExperienceYears string   `json:"experience_years"`
	Technologies    []string `json:"technologies"`
}

// Upsert writes the caller's own profile. The profile id is always the
// authenticated user id.
func (s *ProfileService) Upsert(ctx context.Context, userID common.UUID, input ProfileInput) (*profile.Person, error) {
	person := profile.Person{
		ID:              userID,
		FullName:        common.Sanitize(input.FullName),
		Email:           strings.TrimSpace(input.Email),
		Position:        common.Sanitize(input.Position),
		Positions:       common.NormalizeSet(input.Positions),
		ExperienceYears: strings.TrimSpace(input.ExperienceYears),
		Technologies:    common.NormalizeSet(input.Technologies),
	}
	fields := map[string]string{}
	if person.FullName == "" {
		fields["fullName"] = "full name is required"
	}
	if _, err := mail.ParseAddress(person.Email); err != nil {
		fields["email"] = "email is invalid"
	}
	if person.Position == "" {
		fields["position"] = "position is required"
	}
	if education, ok := profile.ParseEducation(input.Education); ok {
		person.Education = education
	} else {
		fields["education"] = "unknown education"
	}
	if level, err := profile.ParseExpertiseLevel(input.ExpertiseLevel); err == nil {
		person.ExpertiseLevel = level
	} else {
		fields["expertise_level"] = "unknown expertise level"
	}
	if profile.ExperienceBand(person.ExperienceYears) == "" {
		fields["experience_years"] = "experience must be one of <1, 1-2, 3-5, 5+ or a number of years"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid profile", fields)
	}
	return s.repo.Upsert(ctx, person)
}

func (s *ProfileService) Get(ctx context.Context, userID common.UUID) (*profile.Person, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *ProfileService) ListAll(ctx context.Context) ([]profile.Person, error) {
	return s.repo.ListAll(ctx)
}
