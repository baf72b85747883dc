// Package matching resolves which open role of a project a candidate can be
// contacted for. It works on already fetched data and does no I/O.
package matching

import (
	"errors"
	"fmt"
	"strings"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
	"collabhub/internal/integration/recommender"
)

var ErrNoMatchingRole = errors.New("no matching role")

// AmbiguousMatchError is returned when more than one role qualifies. It is
// treated as a failed match.
type AmbiguousMatchError struct {
	RoleIDs []common.UUID
}

func (e *AmbiguousMatchError) Error() string {
	ids := make([]string, 0, len(e.RoleIDs))
	for _, id := range e.RoleIDs {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("%s: %d roles qualify (%s)", ErrNoMatchingRole, len(e.RoleIDs), strings.Join(ids, ", "))
}

func (e *AmbiguousMatchError) Is(target error) bool {
	return target == ErrNoMatchingRole
}

type Candidate struct {
	Positions []string
	Skills    []string
}

func FromPerson(p profile.Person) Candidate {
	return Candidate{Positions: p.DeclaredPositions(), Skills: p.Technologies}
}

// FromMember builds a candidate from a recommended team member, who carries
// a single position.
func FromMember(m recommender.Member) Candidate {
	return Candidate{Positions: []string{m.Position}, Skills: m.Skills}
}

// MatchRole returns the single role whose name equals one of the candidate's
// positions and which shares at least one technology with the candidate.
func MatchRole(candidate Candidate, roles []project.Role) (project.Role, error) {
	positions := keySet(candidate.Positions)
	skills := keySet(candidate.Skills)

	var matched []project.Role
	for _, role := range roles {
		if _, ok := positions[common.FoldKey(role.Name)]; !ok {
			continue
		}
		if !sharesAny(skills, role.Technologies) {
			continue
		}
		matched = append(matched, role)
	}

	switch len(matched) {
	case 0:
		return project.Role{}, ErrNoMatchingRole
	case 1:
		return matched[0], nil
	default:
		ids := make([]common.UUID, 0, len(matched))
		for _, role := range matched {
			ids = append(ids, role.ID)
		}
		return project.Role{}, &AmbiguousMatchError{RoleIDs: ids}
	}
}

func keySet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if k := common.FoldKey(v); k != "" {
			out[k] = struct{}{}
		}
	}
	return out
}

func sharesAny(set map[string]struct{}, values []string) bool {
	for _, v := range values {
		if _, ok := set[common.FoldKey(v)]; ok {
			return true
		}
	}
	return false
}
