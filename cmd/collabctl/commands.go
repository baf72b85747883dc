package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"collabhub/internal/common"
	"collabhub/internal/dashboard"
	"collabhub/internal/search"
	"collabhub/internal/wizard"
)

func (c *cli) talentsCommand() *cobra.Command {
	var criteria search.TalentCriteria
	cmd := &cobra.Command{
		Use:   "talents",
		Short: "Search talent by skills, experience, education and expertise",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			people, err := client.SearchTalents(cmd.Context(), criteria)
			if err != nil {
				return err
			}
			return c.printJSON(people)
		},
	}
	cmd.Flags().StringSliceVar(&criteria.Skills, "skills", nil, "required skills, all must match")
	cmd.Flags().StringSliceVar(&criteria.Experience, "experience", nil, "experience bands: <1, 1-2, 3-5, 5+")
	cmd.Flags().StringSliceVar(&criteria.Education, "education", nil, "education levels")
	cmd.Flags().StringSliceVar(&criteria.Expertise, "expertise", nil, "expertise levels")
	return cmd
}

func (c *cli) wizardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Create a project and its roles from a YAML draft",
	}
	var roleTimeout time.Duration
	submit := &cobra.Command{
		Use:   "submit <draft.yaml>",
		Short: "Validate the draft, create the project, then create every role concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := readDraft(args[0])
			if err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			orchestrator := wizard.NewOrchestrator(client, roleTimeout, 0, c.logger)
			// The owner is whoever the token belongs to; the server ignores ownerId.
			outcome, err := orchestrator.Submit(cmd.Context(), "", draft)
			return c.finishWizard(args[0], outcome, err)
		},
	}
	submit.Flags().DurationVar(&roleTimeout, "role-timeout", 10*time.Second, "time allowed for each role")

	resume := &cobra.Command{
		Use:   "resume <resume.yaml>",
		Short: "Retry the roles a previous submit could not create",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := readResume(args[0])
			if err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			orchestrator := wizard.NewOrchestrator(client, roleTimeout, 0, c.logger)
			outcome, err := orchestrator.Resume(cmd.Context(), state.ProjectID, state.Roles)
			if outcome != nil && outcome.Project == nil {
				outcome.Project = state.project()
			}
			return c.finishWizard(args[0], outcome, err)
		},
	}
	resume.Flags().DurationVar(&roleTimeout, "role-timeout", 10*time.Second, "time allowed for each role")

	cmd.AddCommand(submit, resume)
	return cmd
}

// finishWizard prints the outcome and, when roles are missing, writes the
// failed details next to path so that "wizard resume" can retry them.
func (c *cli) finishWizard(path string, outcome *wizard.Outcome, err error) error {
	if outcome != nil {
		if printErr := c.printJSON(outcome); printErr != nil {
			return printErr
		}
	}
	if errors.Is(err, wizard.ErrIncompleteRoles) && outcome != nil && outcome.Project != nil {
		target := resumePath(path)
		if writeErr := writeResume(target, outcome); writeErr != nil {
			return fmt.Errorf("%w (could not save resume file: %v)", err, writeErr)
		}
		return fmt.Errorf("%w: retry with \"collabctl wizard resume %s\"", err, target)
	}
	return err
}

func (c *cli) inviteCommand() *cobra.Command {
	var recipientName, roleName string
	cmd := &cobra.Command{
		Use:   "invite <recipient-id> <role-id>",
		Short: "Invite a person to a project role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipientID, err := common.ParseUUID(args[0])
			if err != nil {
				return fmt.Errorf("invalid recipient id: %w", err)
			}
			roleID, err := common.ParseUUID(args[1])
			if err != nil {
				return fmt.Errorf("invalid role id: %w", err)
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			board := dashboard.NewInvitationBoard(client, dashboard.Sent, c.logger)
			return c.toast(board.Send(cmd.Context(), recipientID, recipientName, roleID, roleName))
		},
	}
	cmd.Flags().StringVar(&recipientName, "name", "", "recipient name shown in the result")
	cmd.Flags().StringVar(&roleName, "role", "", "role name shown in the result")
	return cmd
}

func (c *cli) respondCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "respond <invitation-id> accept|reject",
		Short:     "Accept or reject an invitation you received",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"accept", "reject"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := common.ParseUUID(args[0])
			if err != nil {
				return fmt.Errorf("invalid invitation id: %w", err)
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			board := dashboard.NewInvitationBoard(client, dashboard.Received, c.logger)
			if err := board.Load(cmd.Context()); err != nil {
				return err
			}
			switch strings.ToLower(args[1]) {
			case "accept":
				return c.toast(board.Accept(cmd.Context(), id))
			case "reject":
				return c.toast(board.Reject(cmd.Context(), id))
			default:
				return fmt.Errorf("decision must be accept or reject, got %q", args[1])
			}
		},
	}
}

func (c *cli) invitationsCommand() *cobra.Command {
	var sent bool
	cmd := &cobra.Command{
		Use:   "invitations",
		Short: "List received (default) or sent invitations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			direction := dashboard.Received
			if sent {
				direction = dashboard.Sent
			}
			board := dashboard.NewInvitationBoard(client, direction, c.logger)
			if err := board.Load(cmd.Context()); err != nil {
				return err
			}
			return c.printJSON(board.Items())
		},
	}
	cmd.Flags().BoolVar(&sent, "sent", false, "list invitations you sent")
	return cmd
}

func (c *cli) toast(t dashboard.Toast) error {
	fmt.Fprintf(c.out, "[%s] %s\n", t.Level, t.Message)
	if t.Level == dashboard.LevelError {
		return errors.New(t.Message)
	}
	return nil
}
