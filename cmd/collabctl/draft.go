package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"collabhub/internal/common"
	"collabhub/internal/domain/project"
	"collabhub/internal/wizard"
)

func readDraft(path string) (wizard.Draft, error) {
	var draft wizard.Draft
	if err := decodeYAML(path, &draft); err != nil {
		return wizard.Draft{}, err
	}
	return draft, nil
}

// resumeState is what "wizard resume" needs to retry missing roles.
type resumeState struct {
	ProjectID    common.UUID         `yaml:"projectId"`
	ProjectTitle string              `yaml:"projectTitle,omitempty"`
	Roles        []wizard.RoleDetail `yaml:"roles"`
}

func (s resumeState) project() *project.Project {
	return &project.Project{ID: s.ProjectID, Title: s.ProjectTitle}
}

func readResume(path string) (resumeState, error) {
	var state resumeState
	if err := decodeYAML(path, &state); err != nil {
		return resumeState{}, err
	}
	if state.ProjectID == "" {
		return resumeState{}, fmt.Errorf("%s: projectId is required", path)
	}
	return state, nil
}

func writeResume(path string, outcome *wizard.Outcome) error {
	state := resumeState{
		ProjectID:    outcome.Project.ID,
		ProjectTitle: outcome.Project.Title,
		Roles:        outcome.FailedDetails(),
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func resumePath(path string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(path, ".yml"), ".yaml")
	base = strings.TrimSuffix(base, ".resume")
	return base + ".resume.yaml"
}

func decodeYAML(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
