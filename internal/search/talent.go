package search

import (
	"net/url"
	"strings"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
)

// TalentCriteria is the "find talent" filter state.
type TalentCriteria struct {
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	Expertise  []string `json:"expertise"`
}

// experienceKey compares experience values by band, so "1–2", "1-2" and
// "ONE_TO_TWO" select the same people.
func experienceKey(value string) string {
	return profile.ExperienceBand(value)
}

// expertiseKey folds aliases such as "mid-level" onto their level.
func expertiseKey(value string) string {
	if level, err := profile.ParseExpertiseLevel(value); err == nil {
		return string(level)
	}
	return common.FoldKey(value)
}

func (c TalentCriteria) Facets() []Facet[profile.Person] {
	return []Facet[profile.Person]{
		{
			Name:     "skills",
			Selected: c.Skills,
			Mode:     MatchAll,
			Values:   func(p profile.Person) []string { return p.Technologies },
		},
		{
			Name:     "experience",
			Selected: c.Experience,
			Key:      experienceKey,
			Values:   func(p profile.Person) []string { return []string{p.ExperienceYears} },
		},
		{
			Name:     "education",
			Selected: c.Education,
			Values:   func(p profile.Person) []string { return []string{string(p.Education)} },
		},
		{
			Name:     "expertise",
			Selected: c.Expertise,
			Key:      expertiseKey,
			Values:   func(p profile.Person) []string { return []string{string(p.ExpertiseLevel)} },
		},
	}
}

func FilterTalents(people []profile.Person, criteria TalentCriteria) []profile.Person {
	return Filter(people, criteria.Facets()...)
}

func ParseTalentCriteria(values url.Values) TalentCriteria {
	return TalentCriteria{
		Skills:     listParam(values, "skills"),
		Experience: listParam(values, "experience"),
		Education:  listParam(values, "education"),
		Expertise:  listParam(values, "expertise"),
	}
}

// listParam reads a facet selection given either as repeated parameters or
// as one comma-separated value.
func listParam(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
