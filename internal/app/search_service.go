package app

import (
	"context"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
	"collabhub/internal/search"
)

type SearchService struct {
	profiles profile.Repository
	projects project.Repository
	roles    project.RoleRepository
}

func NewSearchService(profiles profile.Repository, projects project.Repository, roles project.RoleRepository) *SearchService {
	return &SearchService{profiles: profiles, projects: projects, roles: roles}
}

func (s *SearchService) Talents(ctx context.Context, criteria search.TalentCriteria) ([]profile.Person, error) {
	people, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return search.FilterTalents(people, criteria), nil
}

func (s *SearchService) Projects(ctx context.Context, criteria search.ProjectCriteria) ([]search.ProjectListing, error) {
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]common.UUID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	roles, err := s.roles.ListByProjects(ctx, ids)
	if err != nil {
		return nil, err
	}
	listings := make([]search.ProjectListing, 0, len(projects))
	for _, p := range projects {
		projectRoles := roles[p.ID]
		if projectRoles == nil {
			projectRoles = []project.Role{}
		}
		listings = append(listings, search.ProjectListing{Project: p, Roles: projectRoles})
	}
	return search.FilterProjects(listings, criteria), nil
}
