// Package wizard validates a two-phase project draft and provisions the
// project and its roles through a Provisioner.
package wizard

import (
	"fmt"
	"strings"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
)

// Metadata is the first wizard step.
type Metadata struct {
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description" yaml:"description"`
	ProjectType     string   `json:"projectType" yaml:"projectType"`
	TeamSize        string   `json:"teamSize" yaml:"teamSize"`
	Positions       []string `json:"positions" yaml:"positions"`
	ExperienceLevel string   `json:"experienceLevel" yaml:"experienceLevel"`
	CommitmentType  string   `json:"commitmentType" yaml:"commitmentType"`
	QuickMatch      bool     `json:"quickMatch" yaml:"quickMatch"`
}

// RoleDetail is the second step entry for one position.
type RoleDetail struct {
	Position       string   `json:"position" yaml:"position"`
	Technologies   []string `json:"technologies" yaml:"technologies"`
	ExpertiseLevel string   `json:"expertiseLevel" yaml:"expertiseLevel"`
}

type Draft struct {
	Metadata `yaml:",inline"`
	Roles    []RoleDetail `json:"roles" yaml:"roles"`
}

// Normalize cleans free text and drops blank or repeated positions. Positions
// are compared by exact string after trimming.
func (m Metadata) Normalize() Metadata {
	m.Title = common.Sanitize(m.Title)
	m.Description = common.Sanitize(m.Description)
	m.ProjectType = strings.TrimSpace(m.ProjectType)
	m.TeamSize = strings.TrimSpace(m.TeamSize)
	m.ExperienceLevel = strings.TrimSpace(m.ExperienceLevel)
	m.CommitmentType = strings.TrimSpace(m.CommitmentType)

	positions := make([]string, 0, len(m.Positions))
	seen := make(map[string]struct{}, len(m.Positions))
	for _, position := range m.Positions {
		clean := common.Sanitize(position)
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		positions = append(positions, clean)
	}
	m.Positions = positions
	return m
}

func (d RoleDetail) Normalize() RoleDetail {
	d.Position = common.Sanitize(d.Position)
	d.Technologies = common.NormalizeSet(d.Technologies)
	d.ExpertiseLevel = strings.TrimSpace(d.ExpertiseLevel)
	return d
}

func (d Draft) Normalize() Draft {
	d.Metadata = d.Metadata.Normalize()
	roles := make([]RoleDetail, 0, len(d.Roles))
	for _, role := range d.Roles {
		roles = append(roles, role.Normalize())
	}
	d.Roles = roles
	return d
}

// ValidateMetadata checks the first step. The position count must fit the
// chosen team size band.
func ValidateMetadata(m Metadata) error {
	fields := map[string]string{}
	if m.Title == "" {
		fields["title"] = "title is required"
	}
	if m.Description == "" {
		fields["description"] = "description is required"
	}
	if m.ProjectType == "" {
		fields["projectType"] = "project type is required"
	} else if _, ok := project.ParseType(m.ProjectType); !ok {
		fields["projectType"] = "unknown project type"
	}
	if m.ExperienceLevel == "" {
		fields["experienceLevel"] = "experience level is required"
	} else if _, err := profile.ParseExpertiseLevel(m.ExperienceLevel); err != nil {
		fields["experienceLevel"] = "unknown experience level"
	}
	if m.CommitmentType == "" {
		fields["commitmentType"] = "commitment type is required"
	} else if _, ok := project.ParseCommitmentType(m.CommitmentType); !ok {
		fields["commitmentType"] = "unknown commitment type"
	}

	size, sizeOK := project.ParseTeamSize(m.TeamSize)
	switch {
	case m.TeamSize == "":
		fields["teamSize"] = "team size is required"
	case !sizeOK:
		fields["teamSize"] = "unknown team size"
	}
	switch {
	case len(m.Positions) == 0 && !sizeOK:
		fields["positions"] = "at least one position is required"
	case sizeOK && !size.Allows(len(m.Positions)):
		fields["positions"] = positionCountMessage(size)
	}

	if _, taken := fields["positions"]; !taken {
		if clash := caseClash(m.Positions); clash != "" {
			fields["positions"] = fmt.Sprintf("positions must differ by more than letter case: %q", clash)
		}
	}

	if len(fields) > 0 {
		return common.NewValidationError("invalid project details", fields)
	}
	return nil
}

// caseClash returns the first position whose name folds onto an earlier one.
// Role names are unique per project ignoring case.
func caseClash(positions []string) string {
	seen := make(map[string]struct{}, len(positions))
	for _, position := range positions {
		key := common.FoldKey(position)
		if _, ok := seen[key]; ok {
			return position
		}
		seen[key] = struct{}{}
	}
	return ""
}

func positionCountMessage(size project.TeamSize) string {
	minCount, maxCount, bounded := size.Bounds()
	if !bounded {
		return fmt.Sprintf("team size %s requires at least %d positions", size, minCount)
	}
	return fmt.Sprintf("team size %s requires between %d and %d positions", size, minCount, maxCount)
}

// ValidateRoles checks the second step: exactly one detail per position,
// each with technologies and a known expertise level.
func ValidateRoles(positions []string, roles []RoleDetail) error {
	fields := map[string]string{}
	wanted := make(map[string]bool, len(positions))
	for _, position := range positions {
		wanted[position] = false
	}
	for i, role := range roles {
		key := fmt.Sprintf("roles[%d]", i)
		done, ok := wanted[role.Position]
		switch {
		case !ok:
			fields[key+".position"] = fmt.Sprintf("%q is not one of the project positions", role.Position)
			continue
		case done:
			fields[key+".position"] = fmt.Sprintf("%q has more than one role detail", role.Position)
			continue
		}
		wanted[role.Position] = true
		validateDetail(key, role, fields)
	}
	for _, position := range positions {
		if !wanted[position] {
			fields["roles."+position] = "role details are required"
		}
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid role details", fields)
	}
	return nil
}

func validateDetail(key string, role RoleDetail, fields map[string]string) {
	if len(role.Technologies) == 0 {
		fields[key+".technologies"] = "at least one technology is required"
	}
	if role.ExpertiseLevel == "" {
		fields[key+".expertiseLevel"] = "expertise level is required"
	} else if _, err := profile.ParseExpertiseLevel(role.ExpertiseLevel); err != nil {
		fields[key+".expertiseLevel"] = "unknown expertise level"
	}
}

// Validate runs both steps in order; role details are only checked once the
// metadata is valid.
func (d Draft) Validate() error {
	if err := ValidateMetadata(d.Metadata); err != nil {
		return err
	}
	return ValidateRoles(d.Positions, d.Roles)
}

// Project converts validated metadata into a project record.
func (m Metadata) Project(ownerID common.UUID) project.Project {
	size, _ := project.ParseTeamSize(m.TeamSize)
	kind, _ := project.ParseType(m.ProjectType)
	level, _ := profile.ParseExpertiseLevel(m.ExperienceLevel)
	commitment, _ := project.ParseCommitmentType(m.CommitmentType)
	return project.Project{
		OwnerID:         ownerID,
		Title:           m.Title,
		Description:     m.Description,
		TeamSize:        size,
		ProjectType:     kind,
		ExperienceLevel: level,
		CommitmentType:  commitment,
	}
}

// Role converts a validated detail into a role record named after its position.
func (d RoleDetail) Role(projectID common.UUID) project.Role {
	level, _ := profile.ParseExpertiseLevel(d.ExpertiseLevel)
	return project.Role{
		ProjectID:      projectID,
		Name:           d.Position,
		ExpertiseLevel: level,
		Technologies:   d.Technologies,
	}
}
