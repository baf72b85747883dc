package matching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
	"collabhub/internal/integration/recommender"
)

func TestMatchRoleSharedSkillIsEnough(t *testing.T) {
	person := profile.Person{Position: "UX Designer", Technologies: []string{"Figma", "UX"}}
	roles := []project.Role{{ID: "r1", Name: "UX Designer", Technologies: []string{"Figma", "Research"}}}

	role, err := MatchRole(FromPerson(person), roles)
	require.NoError(t, err)
	assert.Equal(t, "r1", role.ID.String())
}

func TestMatchRoleAmbiguousFails(t *testing.T) {
	candidate := Candidate{Positions: []string{"Backend Dev"}, Skills: []string{"Go", "SQL"}}
	roles := []project.Role{
		{ID: "r1", Name: "Backend Dev", Technologies: []string{"Go"}},
		{ID: "r2", Name: "Backend Dev", Technologies: []string{"SQL"}},
	}

	role, err := MatchRole(candidate, roles)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatchingRole)
	assert.Empty(t, role.ID)

	var ambiguous *AmbiguousMatchError
	require.True(t, errors.As(err, &ambiguous))
	assert.Len(t, ambiguous.RoleIDs, 2)
}

func TestMatchRoleNeedsNameAndSkill(t *testing.T) {
	candidate := Candidate{Positions: []string{"Data Scientist"}, Skills: []string{"Python"}}

	_, err := MatchRole(candidate, []project.Role{{ID: "r1", Name: "Data Scientist", Technologies: []string{"R"}}})
	assert.ErrorIs(t, err, ErrNoMatchingRole)

	_, err = MatchRole(candidate, []project.Role{{ID: "r2", Name: "ML Engineer", Technologies: []string{"Python"}}})
	assert.ErrorIs(t, err, ErrNoMatchingRole)

	_, err = MatchRole(candidate, nil)
	assert.ErrorIs(t, err, ErrNoMatchingRole)
}

func TestMatchRoleIgnoresCaseAndWhitespace(t *testing.T) {
	candidate := Candidate{Positions: []string{"  frontend developer "}, Skills: []string{"react"}}
	roles := []project.Role{
		{ID: "r1", Name: "Backend Developer", Technologies: []string{"React"}},
		{ID: "r2", Name: "Frontend Developer", Technologies: []string{"React", "CSS"}},
	}

	role, err := MatchRole(candidate, roles)
	require.NoError(t, err)
	assert.Equal(t, "r2", role.ID.String())
}

func TestMatchRoleUsesAllDeclaredPositions(t *testing.T) {
	person := profile.Person{Position: "Designer", Positions: []string{"Researcher"}, Technologies: []string{"Interviews"}}
	roles := []project.Role{{ID: "r9", Name: "researcher", Technologies: []string{"interviews"}}}

	role, err := MatchRole(FromPerson(person), roles)
	require.NoError(t, err)
	assert.Equal(t, "r9", role.ID.String())
}

func TestFromMember(t *testing.T) {
	candidate := FromMember(recommender.Member{ID: "u1", Position: "QA", Skills: []string{"Cypress"}})
	assert.Equal(t, []string{"QA"}, candidate.Positions)
	assert.Equal(t, []string{"Cypress"}, candidate.Skills)
}
