package memory

import (
	"context"
	"testing"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
)

func TestRoleReadsDoNotShareStoredSlices(t *testing.T) {
	ctx := context.Background()
	roles := NewRoleRepository(NewStore())
	projectID := common.NewUUID()
	created, err := roles.Create(ctx, project.Role{ProjectID: projectID, Name: "Backend", Technologies: []string{"Go", "SQL"}})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	created.Technologies[0] = "changed"

	got, err := roles.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	got.Technologies[0] = "changed"

	listed, err := roles.ListByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	listed[0].Technologies[1] = "changed"

	byProject, err := roles.ListByProjects(ctx, []common.UUID{projectID})
	if err != nil {
		t.Fatalf("list roles by projects: %v", err)
	}
	byProject[projectID][0].Technologies = append(byProject[projectID][0].Technologies[:0], "changed")

	stored, err := roles.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if stored.Technologies[0] != "Go" || stored.Technologies[1] != "SQL" {
		t.Fatalf("stored technologies changed through a returned role: %v", stored.Technologies)
	}
}

func TestRoleNamesAreUniquePerProjectIgnoringCase(t *testing.T) {
	ctx := context.Background()
	roles := NewRoleRepository(NewStore())
	projectID := common.NewUUID()
	if _, err := roles.Create(ctx, project.Role{ProjectID: projectID, Name: "Backend Dev"}); err != nil {
		t.Fatalf("create role: %v", err)
	}
	if _, err := roles.Create(ctx, project.Role{ProjectID: projectID, Name: "backend dev"}); !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := roles.Create(ctx, project.Role{ProjectID: common.NewUUID(), Name: "backend dev"}); err != nil {
		t.Fatalf("same name on another project: %v", err)
	}
}

func TestProfileReadsDoNotShareStoredSlices(t *testing.T) {
	ctx := context.Background()
	profiles := NewProfileRepository(NewStore())
	saved, err := profiles.Upsert(ctx, profile.Person{FullName: "Ana", Technologies: []string{"React"}, Positions: []string{"Frontend"}})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	saved.Technologies[0] = "changed"

	all, err := profiles.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	all[0].Positions[0] = "changed"

	got, err := profiles.GetByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Technologies[0] != "React" || got.Positions[0] != "Frontend" {
		t.Fatalf("stored profile changed through a returned value: %+v", got)
	}
}
