package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
	"collabhub/internal/integration/recommender"
	"collabhub/internal/matching"
)

type Recommender interface {
	RecommendTeam(ctx context.Context, projectID string) (*recommender.Recommendation, error)
}

// MemberMatch is a recommended member with the role they would be invited to.
type MemberMatch struct {
	Member     recommender.Member `json:"member"`
	RoleID     common.UUID        `json:"roleId,omitempty"`
	RoleName   string             `json:"roleName,omitempty"`
	MatchError string             `json:"matchError,omitempty"`
}

type QuickSyncResult struct {
	Recommendation *recommender.Recommendation `json:"recommendation"`
	Matches        []MemberMatch               `json:"matches"`
}

// QuickSyncService turns a team recommendation into invitations.
type QuickSyncService struct {
	recommender Recommender
	projects    *ProjectService
	roles       project.RoleRepository
	profiles    profile.Repository
	invitations *InvitationService
	logger      *zap.Logger
}

func NewQuickSyncService(rec Recommender, projects *ProjectService, roles project.RoleRepository, profiles profile.Repository, invitations *InvitationService, logger *zap.Logger) *QuickSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuickSyncService{
		recommender: rec,
		projects:    projects,
		roles:       roles,
		profiles:    profiles,
		invitations: invitations,
		logger:      logger,
	}
}

func (s *QuickSyncService) Recommend(ctx context.Context, ownerID, projectID common.UUID) (*QuickSyncResult, error) {
	if _, err := s.projects.RequireOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	if s.recommender == nil {
		return nil, common.NewError(common.CodeUnavailable, "recommendations are not configured", nil)
	}
	rec, err := s.recommender.RecommendTeam(ctx, projectID.String())
	if err != nil {
		if errors.Is(err, recommender.ErrNoTalentMatch) {
			return nil, common.NewError(common.CodeNoMatch, "no talent match for desired roles", err)
		}
		s.logger.Error("team recommendation failed", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, common.NewError(common.CodeUnavailable, "recommendation service unavailable", err)
	}
	roles, err := s.roles.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	result := &QuickSyncResult{Recommendation: rec, Matches: make([]MemberMatch, 0, len(rec.Members))}
	for _, member := range rec.Members {
		match := MemberMatch{Member: member}
		role, err := matching.MatchRole(matching.FromMember(member), roles)
		if err != nil {
			match.MatchError = matching.ErrNoMatchingRole.Error()
		} else {
			match.RoleID = role.ID
			match.RoleName = role.Name
		}
		result.Matches = append(result.Matches, match)
	}
	return result, nil
}

// Contact invites memberID to the one project role their profile qualifies
// for. No invitation is created when the match fails or is ambiguous.
func (s *QuickSyncService) Contact(ctx context.Context, ownerID, projectID, memberID common.UUID) (*InvitationView, error) {
	if _, err := s.projects.RequireOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	person, err := s.profiles.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	roles, err := s.roles.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	role, err := matching.MatchRole(matching.FromPerson(*person), roles)
	if err != nil {
		return nil, common.NewError(common.CodeNoMatch, "no matching role", err)
	}
	return s.invitations.Invite(ctx, ownerID, memberID, role.ID)
}
