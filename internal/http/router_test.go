package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"collabhub/internal/app"
	"collabhub/internal/common"
	"collabhub/internal/domain/notification"
	"collabhub/internal/domain/project"
	"collabhub/internal/http/handlers"
	"collabhub/internal/http/metrics"
	httpmw "collabhub/internal/http/middleware"
	"collabhub/internal/http/response"
	"collabhub/internal/repository/memory"
	"collabhub/internal/security"
	"collabhub/internal/wizard"
)

type testServer struct {
	t        *testing.T
	handler  http.Handler
	jwt      *security.JWTProvider
	notifier *app.Notifier
	roles    *flakyRoles
}

// flakyRoles fails role creation for the listed names until they are cleared.
type flakyRoles struct {
	*memory.RoleRepository
	mu   sync.Mutex
	fail map[string]bool
}

func (f *flakyRoles) failOn(names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = map[string]bool{}
	for _, name := range names {
		f.fail[name] = true
	}
}

func (f *flakyRoles) Create(ctx context.Context, role project.Role) (*project.Role, error) {
	f.mu.Lock()
	failing := f.fail[role.Name]
	f.mu.Unlock()
	if failing {
		return nil, common.NewError(common.CodeUnavailable, "role storage unavailable", nil)
	}
	return f.RoleRepository.Create(ctx, role)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	profiles := memory.NewProfileRepository(store)
	projectsDB := memory.NewProjectRepository(store)
	roles := &flakyRoles{RoleRepository: memory.NewRoleRepository(store)}
	notifier := app.NewNotifier(memory.NewNotificationRepository(store), memory.NewTelegramLinkRepository(store), nil, nil)
	projects := app.NewProjectService(projectsDB, roles)
	invitations := app.NewInvitationService(memory.NewInvitationRepository(store), roles, projectsDB, profiles, notifier)
	applications := app.NewApplicationService(memory.NewApplicationRepository(store), roles, projectsDB, profiles, notifier)
	quicksync := app.NewQuickSyncService(nil, projects, roles, profiles, invitations, nil)
	collector := metrics.NewCollector()
	limiter := httpmw.NewRateLimiter()
	jwt := security.NewJWTProvider("test-secret", "")

	handler := NewRouter(RouterDependencies{
		ProfileHandler:      handlers.NewProfileHandler(app.NewProfileService(profiles)),
		SearchHandler:       handlers.NewSearchHandler(app.NewSearchService(profiles, projectsDB, roles)),
		ProjectHandler:      handlers.NewProjectHandler(projects, notifier, collector, handlers.WizardSettings{RoleTimeout: time.Second}, nil),
		InvitationHandler:   handlers.NewInvitationHandler(invitations, limiter, handlers.Limit{Count: 3, Window: time.Minute}, collector),
		ApplicationHandler:  handlers.NewApplicationHandler(applications, limiter, handlers.Limit{Count: 3, Window: time.Minute}, collector),
		QuickSyncHandler:    handlers.NewQuickSyncHandler(quicksync, collector),
		NotificationHandler: handlers.NewNotificationHandler(notifier),
		AuthMiddleware:      httpmw.NewAuthMiddleware(jwt),
		Metrics:             collector,
		RequestTimeout:      5 * time.Second,
	})
	return &testServer{t: t, handler: handler, jwt: jwt, notifier: notifier, roles: roles}
}

func (s *testServer) do(userID common.UUID, method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			s.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, _, err := s.jwt.Issue(userID, time.Hour)
		if err != nil {
			s.t.Fatalf("issue: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func (s *testServer) profile(userID common.UUID, name, position string, skills ...string) {
	s.t.Helper()
	w := s.do(userID, http.MethodPut, "/api/profile", map[string]any{
		"fullName":         name,
		"email":            strings.ToLower(name) + "@example.com",
		"position":         position,
		"education":        "Master",
		"expertise_level":  "Senior",
		"experience_years": "3-5",
		"technologies":     skills,
	})
	if w.Code != http.StatusOK {
		s.t.Fatalf("profile: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func (s *testServer) projectWithRole(ownerID common.UUID, roleName string, skills ...string) (project.Project, project.Role) {
	s.t.Helper()
	w := s.do(ownerID, http.MethodPost, "/api/projects", map[string]any{
		"title":           "Atlas",
		"description":     "Maps for hikers",
		"teamSize":        "1-3",
		"projectType":     "Hackathon",
		"experienceLevel": "Junior",
		"commitmentType":  "Part-time",
	})
	if w.Code != http.StatusCreated {
		s.t.Fatalf("create project: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	p := decode[project.Project](s.t, w)
	w = s.do(ownerID, http.MethodPost, "/api/projects/"+p.ID.String()+"/roles", map[string]any{
		"roleName":       roleName,
		"expertiseLevel": "Mid",
		"technologies":   skills,
	})
	if w.Code != http.StatusCreated {
		s.t.Fatalf("create role: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return p, decode[project.Role](s.t, w)
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	s := newTestServer(t)
	if w := s.do("", http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}
	if w := s.do("", http.MethodGet, "/metrics", nil); w.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", w.Code)
	}
}

func TestAPIRequiresBearerToken(t *testing.T) {
	s := newTestServer(t)
	w := s.do("", http.MethodGet, "/api/profile/all", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if body := decode[response.ErrorBody](t, w); body.Error != common.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %+v", body)
	}
}

func TestInvitationLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	owner, talent := common.NewUUID(), common.NewUUID()
	s.profile(owner, "Olga", "Founder", "Go")
	s.profile(talent, "Tom", "Backend Developer", "Go")
	_, role := s.projectWithRole(owner, "Backend Developer", "Go")

	invite := map[string]string{"projectRoleId": role.ID.String(), "recipientId": talent.String()}
	first := s.do(owner, http.MethodPost, "/api/invitations", invite)
	if first.Code != http.StatusOK {
		t.Fatalf("invite: expected 200, got %d: %s", first.Code, first.Body.String())
	}
	created := decode[app.InvitationView](t, first)

	second := s.do(owner, http.MethodPost, "/api/invitations", invite)
	if second.Code != http.StatusConflict {
		t.Fatalf("duplicate invite: expected 409, got %d", second.Code)
	}
	if body := decode[response.ErrorBody](t, second); body.Message != "an invitation for this user and role already exists" {
		t.Fatalf("unexpected conflict message %q", body.Message)
	}

	sent := decode[[]app.InvitationView](t, s.do(owner, http.MethodGet, "/api/invitations/sent", nil))
	if len(sent) != 1 {
		t.Fatalf("expected one sent invitation, got %d", len(sent))
	}

	path := "/api/invitations/" + created.ID.String() + "/status?status=ACCEPTED"
	if w := s.do(owner, http.MethodPatch, path, nil); w.Code != http.StatusForbidden {
		t.Fatalf("sender answering: expected 403, got %d", w.Code)
	}
	accepted := s.do(talent, http.MethodPatch, path, nil)
	if accepted.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d: %s", accepted.Code, accepted.Body.String())
	}
	view := decode[app.InvitationView](t, accepted)
	if view.Status.String() != "ACCEPTED" || view.RespondedAt == nil {
		t.Fatalf("unexpected accepted view %+v", view)
	}

	again := s.do(talent, http.MethodPatch, "/api/invitations/"+created.ID.String()+"/status?status=REJECTED", nil)
	if again.Code != http.StatusUnprocessableEntity {
		t.Fatalf("terminal transition: expected 422, got %d", again.Code)
	}

	notes := decode[[]notification.Notification](t, s.do(owner, http.MethodGet, "/api/notifications", nil))
	if len(notes) == 0 || notes[0].Kind != notification.KindInvitationAccepted {
		t.Fatalf("expected an acceptance notification, got %+v", notes)
	}

	if w := s.do(talent, http.MethodDelete, "/api/invitations/"+created.ID.String(), nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
}

func TestInvalidStatusIsRejected(t *testing.T) {
	s := newTestServer(t)
	w := s.do(common.NewUUID(), http.MethodPatch, "/api/invitations/"+common.NewUUID().String()+"/status?status=INVITED", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestApplicationLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	owner, talent := common.NewUUID(), common.NewUUID()
	s.profile(owner, "Olga", "Founder", "Go")
	s.profile(talent, "Uma", "Designer", "Figma")
	_, role := s.projectWithRole(owner, "UX Designer", "Figma")

	w := s.do(talent, http.MethodPost, "/api/applications", map[string]string{"projectRoleId": role.ID.String()})
	if w.Code != http.StatusOK {
		t.Fatalf("apply: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	created := decode[app.ApplicationView](t, w)
	if w := s.do(talent, http.MethodPost, "/api/applications", map[string]string{"projectRoleId": role.ID.String()}); w.Code != http.StatusConflict {
		t.Fatalf("duplicate apply: expected 409, got %d", w.Code)
	}

	received := decode[[]app.ApplicationView](t, s.do(owner, http.MethodGet, "/api/applications/received", nil))
	if len(received) != 1 || received[0].ID != created.ID {
		t.Fatalf("expected the application in the owner's inbox, got %+v", received)
	}

	w = s.do(owner, http.MethodPatch, "/api/applications/"+created.ID.String()+"/status?status=REJECTED", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reject: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := s.do(owner, http.MethodPatch, "/api/applications/"+created.ID.String()+"/status?status=ACCEPTED", nil); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("terminal transition: expected 422, got %d", w.Code)
	}
}

func TestInviteRateLimit(t *testing.T) {
	s := newTestServer(t)
	owner := common.NewUUID()
	body := map[string]string{"projectRoleId": common.NewUUID().String(), "recipientId": common.NewUUID().String()}
	for i := 0; i < 3; i++ {
		if w := s.do(owner, http.MethodPost, "/api/invitations", body); w.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d limited too early", i)
		}
	}
	if w := s.do(owner, http.MethodPost, "/api/invitations", body); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestWizardReportsPartialFailure(t *testing.T) {
	s := newTestServer(t)
	owner := common.NewUUID()
	s.roles.failOn("Designer")
	w := s.do(owner, http.MethodPost, "/api/projects/wizard", wizardDraft("Backend", "Frontend", "Designer"))
	if w.Code != http.StatusMultiStatus {
		t.Fatalf("expected 207, got %d: %s", w.Code, w.Body.String())
	}
	outcome := decode[wizard.Outcome](t, w)
	if len(outcome.Created) != 2 || len(outcome.Failed) != 1 {
		t.Fatalf("expected 2 created and 1 failed, got %d and %d", len(outcome.Created), len(outcome.Failed))
	}
	if !outcome.Failed[0].Retryable || outcome.Failed[0].Detail.Position != "Designer" {
		t.Fatalf("expected a retryable Designer failure, got %+v", outcome.Failed[0])
	}
	s.roles.failOn()

	notes, err := s.notifier.List(context.Background(), owner, 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 1 || notes[0].Kind != notification.KindProjectRolesMissing {
		t.Fatalf("expected a roles-missing notification, got %+v", notes)
	}

	resume := s.do(owner, http.MethodPost, "/api/projects/"+outcome.Project.ID.String()+"/roles/resume", map[string]any{
		"roles": []map[string]any{{"position": "Designer", "technologies": []string{"Figma"}, "expertiseLevel": "Junior"}},
	})
	if resume.Code != http.StatusOK {
		t.Fatalf("resume: expected 200, got %d: %s", resume.Code, resume.Body.String())
	}
	roles := decode[[]project.Role](t, s.do(owner, http.MethodGet, "/api/projects/"+outcome.Project.ID.String()+"/roles", nil))
	if len(roles) != 3 {
		t.Fatalf("expected 3 roles after resume, got %d", len(roles))
	}
}

func TestWizardRejectsPositionsDifferingOnlyByCase(t *testing.T) {
	s := newTestServer(t)
	owner := common.NewUUID()
	w := s.do(owner, http.MethodPost, "/api/projects/wizard", wizardDraft("Backend Dev", "backend dev"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if body := decode[response.ErrorBody](t, w); body.Fields["positions"] == "" {
		t.Fatalf("expected a positions field error, got %+v", body)
	}
	projects := decode[[]project.Project](t, s.do(owner, http.MethodGet, "/api/projects", nil))
	if len(projects) != 0 {
		t.Fatalf("expected no projects, got %d", len(projects))
	}
}

func wizardDraft(positions ...string) map[string]any {
	roles := make([]map[string]any, 0, len(positions))
	for _, position := range positions {
		roles = append(roles, map[string]any{"position": position, "technologies": []string{"Go"}, "expertiseLevel": "Mid"})
	}
	return map[string]any{
		"title":           "Atlas",
		"description":     "Maps for hikers",
		"projectType":     "Hackathon",
		"teamSize":        "1-3",
		"positions":       positions,
		"experienceLevel": "Junior",
		"commitmentType":  "Part-time",
		"roles":           roles,
	}
}

func TestWizardValidationNeverCreatesProject(t *testing.T) {
	s := newTestServer(t)
	owner := common.NewUUID()
	w := s.do(owner, http.MethodPost, "/api/projects/wizard", map[string]any{
		"title": "Atlas", "description": "d", "projectType": "Hackathon", "teamSize": "7+",
		"positions": []string{"A"}, "experienceLevel": "Junior", "commitmentType": "Part-time",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	projects := decode[[]project.Project](t, s.do(owner, http.MethodGet, "/api/projects", nil))
	if len(projects) != 0 {
		t.Fatalf("expected no projects, got %d", len(projects))
	}
}

func TestTalentSearchOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.profile(common.NewUUID(), "Ana", "Frontend", "React")
	s.profile(common.NewUUID(), "Ben", "Backend", "Go", "React")
	w := s.do(common.NewUUID(), http.MethodGet, "/api/talents/search?skills=react,go", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	type person struct {
		FullName string `json:"fullName"`
	}
	people := decode[[]person](t, w)
	if len(people) != 1 || people[0].FullName != "Ben" {
		t.Fatalf("expected Ben only, got %+v", people)
	}
}

func TestQuickSyncWithoutRecommenderIsUnavailable(t *testing.T) {
	s := newTestServer(t)
	owner := common.NewUUID()
	s.profile(owner, "Olga", "Founder", "Go")
	p, _ := s.projectWithRole(owner, "Backend", "Go")
	w := s.do(owner, http.MethodPost, "/api/quicksync/"+p.ID.String()+"/recommend", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	s := newTestServer(t)
	w := s.do("", http.MethodGet, "/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
