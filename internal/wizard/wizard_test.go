package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabhub/internal/common"
	"collabhub/internal/domain/project"
)

type fakeProvisioner struct {
	mu          sync.Mutex
	projectErr  error
	failRoles   map[string]error
	hangRoles   map[string]bool
	arrived     chan string
	release     chan struct{}
	projects    []project.Project
	roles       []project.Role
	roleAttempt int
}

func (f *fakeProvisioner) CreateProject(_ context.Context, p project.Project) (*project.Project, error) {
	if f.projectErr != nil {
		return nil, f.projectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = common.NewUUID()
	f.projects = append(f.projects, p)
	return &p, nil
}

func (f *fakeProvisioner) CreateRole(ctx context.Context, projectID common.UUID, role project.Role) (*project.Role, error) {
	f.mu.Lock()
	f.roleAttempt++
	f.mu.Unlock()

	if f.arrived != nil {
		f.arrived <- role.Name
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.hangRoles[role.Name] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := f.failRoles[role.Name]; err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	role.ID = common.NewUUID()
	role.ProjectID = projectID
	f.roles = append(f.roles, role)
	return &role, nil
}

func metadata(teamSize string, positions ...string) Metadata {
	return Metadata{
		Title:           "Atlas",
		Description:     "Open data explorer",
		ProjectType:     "Research",
		TeamSize:        teamSize,
		Positions:       positions,
		ExperienceLevel: "Mid",
		CommitmentType:  "Part-time",
	}
}

func draftFor(m Metadata) Draft {
	d := Draft{Metadata: m}
	for _, position := range m.Positions {
		d.Roles = append(d.Roles, RoleDetail{Position: position, Technologies: []string{"Go"}, ExpertiseLevel: "Junior"})
	}
	return d
}

func positions(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "Role " + string(rune('A'+i%26)) + string(rune('a'+i/26%26)) + string(rune('a'+i/676))
	}
	return out
}

func TestTeamSizeBoundaries(t *testing.T) {
	cases := []struct {
		teamSize string
		count    int
		ok       bool
	}{
		{"1-3", 0, false},
		{"1-3", 1, true},
		{"1-3", 3, true},
		{"1-3", 4, false},
		{"4-6", 3, false},
		{"4-6", 4, true},
		{"4-6", 6, true},
		{"4-6", 7, false},
		{"7+", 6, false},
		{"7+", 7, true},
		{"7+", 1000, true},
	}
	for _, tc := range cases {
		err := ValidateMetadata(metadata(tc.teamSize, positions(tc.count)...).Normalize())
		if tc.ok {
			assert.NoError(t, err, "%s with %d", tc.teamSize, tc.count)
			continue
		}
		require.Error(t, err, "%s with %d", tc.teamSize, tc.count)
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.CodeValidation, appErr.Code)
		assert.Contains(t, appErr.Fields["positions"], "team size "+tc.teamSize)
	}
}

func TestPositionCountMessage(t *testing.T) {
	err := ValidateMetadata(metadata("1-3", positions(4)...).Normalize())
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "team size 1-3 requires between 1 and 3 positions", appErr.Fields["positions"])
}

func TestNormalizeDedupesPositionsExactly(t *testing.T) {
	m := metadata("1-3", " Backend ", "Backend", "", "backend").Normalize()
	assert.Equal(t, []string{"Backend", "backend"}, m.Positions)
}

func TestValidateMetadataRejectsPositionsDifferingOnlyByCase(t *testing.T) {
	m := metadata("1-3", "Backend Dev", "backend dev").Normalize()
	require.Len(t, m.Positions, 2)
	err := ValidateMetadata(m)
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields["positions"], "backend dev")
}

func TestSubmitWithCaseClashingPositionsMakesNoCalls(t *testing.T) {
	fake := &fakeProvisioner{}
	o := NewOrchestrator(fake, time.Second, 0, nil)

	_, err := o.Submit(context.Background(), "owner", draftFor(metadata("1-3", "Backend Dev", "backend dev")))
	assert.True(t, common.Is(err, common.CodeValidation))
	assert.Empty(t, fake.projects)
	assert.Zero(t, fake.roleAttempt)
}

func TestValidateMetadataRequiresFields(t *testing.T) {
	err := ValidateMetadata(Metadata{TeamSize: "huge"})
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	for _, field := range []string{"title", "description", "projectType", "experienceLevel", "commitmentType", "teamSize", "positions"} {
		assert.Contains(t, appErr.Fields, field)
	}
}

func TestValidateRoles(t *testing.T) {
	err := ValidateRoles([]string{"Backend", "Design"}, []RoleDetail{
		{Position: "Backend", Technologies: []string{"Go"}, ExpertiseLevel: "Senior"},
		{Position: "Ops", Technologies: []string{"k8s"}, ExpertiseLevel: "Senior"},
	})
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "roles[1].position")
	assert.Contains(t, appErr.Fields, "roles.Design")

	err = ValidateRoles([]string{"Backend"}, []RoleDetail{{Position: "Backend", ExpertiseLevel: "guru"}})
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "roles[0].technologies")
	assert.Contains(t, appErr.Fields, "roles[0].expertiseLevel")
}

func TestSubmitRejectsInvalidDraftWithoutCalls(t *testing.T) {
	fake := &fakeProvisioner{}
	o := NewOrchestrator(fake, time.Second, 0, nil)

	_, err := o.Submit(context.Background(), "owner", draftFor(metadata("1-3", positions(4)...)))
	assert.True(t, common.Is(err, common.CodeValidation))
	assert.Empty(t, fake.projects)
	assert.Zero(t, fake.roleAttempt)
}

func TestSubmitProjectFailureAttemptsNoRoles(t *testing.T) {
	fake := &fakeProvisioner{projectErr: common.NewError(common.CodeUnavailable, "down", nil)}
	o := NewOrchestrator(fake, time.Second, 0, nil)

	outcome, err := o.Submit(context.Background(), "owner", draftFor(metadata("1-3", "A", "B")))
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.True(t, common.Is(err, common.CodeUnavailable))
	assert.Zero(t, fake.roleAttempt)
}

func TestSubmitCreatesRolesConcurrently(t *testing.T) {
	fake := &fakeProvisioner{arrived: make(chan string, 3), release: make(chan struct{})}
	go func() {
		for i := 0; i < 3; i++ {
			<-fake.arrived
		}
		close(fake.release)
	}()
	o := NewOrchestrator(fake, 2*time.Second, 0, nil)

	d := draftFor(metadata("1-3", "A", "B", "C"))
	d.QuickMatch = true
	outcome, err := o.Submit(context.Background(), "owner", d)
	require.NoError(t, err)
	require.Len(t, outcome.Created, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{outcome.Created[0].Name, outcome.Created[1].Name, outcome.Created[2].Name})
	assert.Empty(t, outcome.Failed)
	assert.Equal(t, NextStepQuickMatch, outcome.NextStep)
	assert.Equal(t, common.UUID("owner"), fake.projects[0].OwnerID)
	for _, role := range outcome.Created {
		assert.Equal(t, outcome.Project.ID, role.ProjectID)
	}
}

func TestSubmitReportsPartialFailureAndResumeRetriesOnlyFailed(t *testing.T) {
	fake := &fakeProvisioner{
		failRoles: map[string]error{"B": errors.New("connection reset")},
		hangRoles: map[string]bool{"C": true},
	}
	o := NewOrchestrator(fake, 50*time.Millisecond, 0, nil)

	outcome, err := o.Submit(context.Background(), "owner", draftFor(metadata("1-3", "A", "B", "C")))
	require.ErrorIs(t, err, ErrIncompleteRoles)
	require.NotNil(t, outcome)
	require.NotNil(t, outcome.Project)
	require.Len(t, outcome.Created, 1)
	assert.Equal(t, "A", outcome.Created[0].Name)
	require.Len(t, outcome.Failed, 2)
	assert.Equal(t, "B", outcome.Failed[0].Detail.Position)
	assert.True(t, outcome.Failed[0].Retryable)
	assert.Equal(t, "C", outcome.Failed[1].Detail.Position)
	assert.ErrorIs(t, outcome.Failed[1].Err, context.DeadlineExceeded)
	assert.True(t, outcome.Failed[1].Retryable)
	assert.Equal(t, NextStepDone, outcome.NextStep)

	fake.failRoles = nil
	fake.hangRoles = nil
	resumed, err := o.Resume(context.Background(), outcome.Project.ID, outcome.FailedDetails())
	require.NoError(t, err)
	assert.Len(t, resumed.Created, 2)
	assert.Len(t, fake.roles, 3)
	assert.Len(t, fake.projects, 1)
}

func TestConflictIsNotRetryable(t *testing.T) {
	fake := &fakeProvisioner{failRoles: map[string]error{"A": common.NewError(common.CodeConflict, "role name already used", nil)}}
	o := NewOrchestrator(fake, time.Second, 1, nil)

	outcome, err := o.Submit(context.Background(), "owner", draftFor(metadata("1-3", "A")))
	require.ErrorIs(t, err, ErrIncompleteRoles)
	require.Len(t, outcome.Failed, 1)
	assert.False(t, outcome.Failed[0].Retryable)
	assert.Equal(t, "role name already used", outcome.Failed[0].Message)
}

func TestResumeValidatesDetails(t *testing.T) {
	o := NewOrchestrator(&fakeProvisioner{}, time.Second, 0, nil)
	_, err := o.Resume(context.Background(), "p1", nil)
	assert.True(t, common.Is(err, common.CodeValidation))
}
