package collabapi

import (
	"context"
	"net/http"
	"net/url"

	"collabhub/internal/app"
	"collabhub/internal/common"
	"collabhub/internal/domain/application"
	"collabhub/internal/domain/invitation"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
	"collabhub/internal/search"
)

func (c *Client) Profiles(ctx context.Context) ([]profile.Person, error) {
	var out []profile.Person
	err := c.do(ctx, http.MethodGet, "/api/profile/all", nil, nil, &out)
	return out, err
}

// SearchTalents runs the facet filter on the server.
func (c *Client) SearchTalents(ctx context.Context, criteria search.TalentCriteria) ([]profile.Person, error) {
	query := url.Values{}
	addList(query, "skills", criteria.Skills)
	addList(query, "experience", criteria.Experience)
	addList(query, "education", criteria.Education)
	addList(query, "expertise", criteria.Expertise)
	var out []profile.Person
	err := c.do(ctx, http.MethodGet, "/api/talents/search", query, nil, &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, p project.Project) (*project.Project, error) {
	var out project.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRole(ctx context.Context, projectID common.UUID, role project.Role) (*project.Role, error) {
	var out project.Role
	if err := c.do(ctx, http.MethodPost, "/api/projects/"+url.PathEscape(projectID.String())+"/roles", nil, role, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Roles(ctx context.Context, projectID common.UUID) ([]project.Role, error) {
	var out []project.Role
	err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(projectID.String())+"/roles", nil, nil, &out)
	return out, err
}

type inviteRequest struct {
	ProjectRoleID common.UUID `json:"projectRoleId"`
	RecipientID   common.UUID `json:"recipientId"`
}

// Invite returns the stored invitation. A duplicate is reported as a
// *common.Error with CodeConflict.
func (c *Client) Invite(ctx context.Context, recipientID, roleID common.UUID) (*app.InvitationView, error) {
	var out app.InvitationView
	if err := c.do(ctx, http.MethodPost, "/api/invitations", nil, inviteRequest{ProjectRoleID: roleID, RecipientID: recipientID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SentInvitations(ctx context.Context) ([]app.InvitationView, error) {
	var out []app.InvitationView
	err := c.do(ctx, http.MethodGet, "/api/invitations/sent", nil, nil, &out)
	return out, err
}

func (c *Client) ReceivedInvitations(ctx context.Context) ([]app.InvitationView, error) {
	var out []app.InvitationView
	err := c.do(ctx, http.MethodGet, "/api/invitations/received", nil, nil, &out)
	return out, err
}

func (c *Client) RespondInvitation(ctx context.Context, id common.UUID, status invitation.Status) (*app.InvitationView, error) {
	var out app.InvitationView
	query := url.Values{"status": []string{status.String()}}
	if err := c.do(ctx, http.MethodPatch, "/api/invitations/"+url.PathEscape(id.String())+"/status", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteInvitation(ctx context.Context, id common.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/invitations/"+url.PathEscape(id.String()), nil, nil, nil)
}

type applyRequest struct {
	ProjectRoleID common.UUID `json:"projectRoleId"`
}

func (c *Client) Apply(ctx context.Context, roleID common.UUID) (*app.ApplicationView, error) {
	var out app.ApplicationView
	if err := c.do(ctx, http.MethodPost, "/api/applications", nil, applyRequest{ProjectRoleID: roleID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyApplications(ctx context.Context) ([]app.ApplicationView, error) {
	var out []app.ApplicationView
	err := c.do(ctx, http.MethodGet, "/api/applications/mine", nil, nil, &out)
	return out, err
}

func (c *Client) ReceivedApplications(ctx context.Context) ([]app.ApplicationView, error) {
	var out []app.ApplicationView
	err := c.do(ctx, http.MethodGet, "/api/applications/received", nil, nil, &out)
	return out, err
}

func (c *Client) RespondApplication(ctx context.Context, id common.UUID, status application.Status) (*app.ApplicationView, error) {
	var out app.ApplicationView
	query := url.Values{"status": []string{status.String()}}
	if err := c.do(ctx, http.MethodPatch, "/api/applications/"+url.PathEscape(id.String())+"/status", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteApplication(ctx context.Context, id common.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/applications/"+url.PathEscape(id.String()), nil, nil, nil)
}

type contactRequest struct {
	MemberID common.UUID `json:"memberId"`
}

func (c *Client) Recommend(ctx context.Context, projectID common.UUID) (*app.QuickSyncResult, error) {
	var out app.QuickSyncResult
	if err := c.do(ctx, http.MethodPost, "/api/quicksync/"+url.PathEscape(projectID.String())+"/recommend", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Contact(ctx context.Context, projectID, memberID common.UUID) (*app.InvitationView, error) {
	var out app.InvitationView
	if err := c.do(ctx, http.MethodPost, "/api/quicksync/"+url.PathEscape(projectID.String())+"/contact", nil, contactRequest{MemberID: memberID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func addList(query url.Values, key string, values []string) {
	for _, v := range values {
		query.Add(key, v)
	}
}
