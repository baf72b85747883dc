package search

import (
	"net/url"

	"collabhub/internal/domain/project"
)

// ProjectListing is a project together with its open roles, the unit the
// "find project" search works on.
type ProjectListing struct {
	Project project.Project `json:"project"`
	Roles   []project.Role  `json:"roles"`
}

func (l ProjectListing) Skills() []string {
	var out []string
	for _, role := range l.Roles {
		out = append(out, role.Technologies...)
	}
	return out
}

type ProjectCriteria struct {
	Skills         []string `json:"skills"`
	Experience     []string `json:"experience"`
	Expertise      []string `json:"expertise"`
	TeamSize       []string `json:"teamSize"`
	ProjectType    []string `json:"projectType"`
	EmploymentType []string `json:"employmentType"`
}

func teamSizeKey(value string) string {
	if size, ok := project.ParseTeamSize(value); ok {
		return string(size)
	}
	return value
}

func (c ProjectCriteria) Facets() []Facet[ProjectListing] {
	return []Facet[ProjectListing]{
		{
			Name:     "skills",
			Selected: c.Skills,
			Mode:     MatchAll,
			Values:   ProjectListing.Skills,
		},
		{
			Name:     "experience",
			Selected: c.Experience,
			Key:      expertiseKey,
			Values: func(l ProjectListing) []string {
				return []string{string(l.Project.ExperienceLevel)}
			},
		},
		{
			Name:     "expertise",
			Selected: c.Expertise,
			Key:      expertiseKey,
			Values: func(l ProjectListing) []string {
				out := []string{string(l.Project.ExperienceLevel)}
				for _, role := range l.Roles {
					out = append(out, string(role.ExpertiseLevel))
				}
				return out
			},
		},
		{
			Name:     "teamSize",
			Selected: c.TeamSize,
			Key:      teamSizeKey,
			Values:   func(l ProjectListing) []string { return []string{string(l.Project.TeamSize)} },
		},
		{
			Name:     "projectType",
			Selected: c.ProjectType,
			Values:   func(l ProjectListing) []string { return []string{string(l.Project.ProjectType)} },
		},
		{
			Name:     "employmentType",
			Selected: c.EmploymentType,
			Values:   func(l ProjectListing) []string { return []string{string(l.Project.CommitmentType)} },
		},
	}
}

func FilterProjects(listings []ProjectListing, criteria ProjectCriteria) []ProjectListing {
	return Filter(listings, criteria.Facets()...)
}

func ParseProjectCriteria(values url.Values) ProjectCriteria {
	return ProjectCriteria{
		Skills:         listParam(values, "skills"),
		Experience:     listParam(values, "experience"),
		Expertise:      listParam(values, "expertise"),
		TeamSize:       listParam(values, "teamSize"),
		ProjectType:    listParam(values, "projectType"),
		EmploymentType: listParam(values, "employmentType"),
	}
}
