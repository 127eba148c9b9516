package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"taskhub/internal/db/repository"
	"taskhub/internal/domain"
)

// seedFixture is the YAML shape the seed command consumes. Tasks reference
// users by email so fixtures stay readable.
type seedFixture struct {
	Users []seedUser `yaml:"users"`
	Tasks []seedTask `yaml:"tasks"`
}

type seedUser struct {
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
	Password    string `yaml:"password"`
	IsAdmin     bool   `yaml:"is_admin"`
}

type seedTask struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Status      string    `yaml:"status"`
	Priority    string    `yaml:"priority"`
	StartDate   time.Time `yaml:"start_date"`
	EndDate     time.Time `yaml:"end_date"`
	Creator     string    `yaml:"creator"`
	Assignee    string    `yaml:"assignee"`
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users and tasks from a YAML fixture",
		Long: "Loads accounts and tasks from a YAML fixture into the store. " +
			"Users already present (by email) are skipped, so reseeding is safe.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			fixture, err := parseFixture(raw)
			if err != nil {
				return err
			}

			db, closeDB, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			return applyFixture(cmd.Context(), cmd, fixture,
				repository.NewUserRepo(db), repository.NewTaskRepo(db))
		},
	}

	cmd.Flags().StringVar(&file, "file", "seed.yaml", "path to the fixture file")

	return cmd
}

// parseFixture decodes and validates a fixture document.
func parseFixture(raw []byte) (*seedFixture, error) {
	var fixture seedFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	for i, u := range fixture.Users {
		req := domain.CreateUserRequest{
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Password:    u.Password,
			IsAdmin:     u.IsAdmin,
		}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("fixture user %d (%s): %w", i, u.Email, err)
		}
	}
	for i, t := range fixture.Tasks {
		if t.Creator == "" || t.Assignee == "" {
			return nil, fmt.Errorf("fixture task %d (%s): creator and assignee are required", i, t.Title)
		}
		if t.Status != "" {
			if _, err := domain.ParseTaskStatus(t.Status); err != nil {
				return nil, fmt.Errorf("fixture task %d (%s): %w", i, t.Title, err)
			}
		}
		if t.Priority != "" {
			if _, err := domain.ParseTaskPriority(t.Priority); err != nil {
				return nil, fmt.Errorf("fixture task %d (%s): %w", i, t.Title, err)
			}
		}
	}

	return &fixture, nil
}

func applyFixture(ctx context.Context, cmd *cobra.Command, fixture *seedFixture, users *repository.UserRepo, tasks *repository.TaskRepo) error {
	// Users first: tasks reference them by email.
	idByEmail := make(map[string]int64, len(fixture.Users))
	for _, u := range fixture.Users {
		existing, err := users.GetByEmail(ctx, u.Email)
		if err == nil {
			idByEmail[u.Email] = existing.ID
			continue
		}
		var notFound *domain.NotFoundError
		if !errors.As(err, &notFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		created, err := users.Create(ctx, &domain.User{
			Email:        u.Email,
			DisplayName:  u.DisplayName,
			PasswordHash: string(hash),
			IsActive:     true,
			IsAdmin:      u.IsAdmin,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", u.Email, err)
		}
		idByEmail[u.Email] = created.ID
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s\n", u.Email)
	}

	for _, t := range fixture.Tasks {
		creatorID, ok := idByEmail[t.Creator]
		if !ok {
			return fmt.Errorf("task %q: creator %s is not in the fixture", t.Title, t.Creator)
		}
		assigneeID, ok := idByEmail[t.Assignee]
		if !ok {
			return fmt.Errorf("task %q: assignee %s is not in the fixture", t.Title, t.Assignee)
		}

		req := domain.CreateTaskRequest{
			Title:       t.Title,
			Description: t.Description,
			Status:      domain.TaskStatus(t.Status),
			Priority:    domain.TaskPriority(t.Priority),
			StartDate:   t.StartDate,
			EndDate:     t.EndDate,
			AssigneeID:  assigneeID,
		}
		if err := req.Validate(); err != nil {
			return fmt.Errorf("task %q: %w", t.Title, err)
		}

		if _, err := tasks.Create(ctx, &domain.Task{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
			Priority:    req.Priority,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			CreatorID:   creatorID,
			AssigneeID:  assigneeID,
		}); err != nil {
			return fmt.Errorf("create task %q: %w", t.Title, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created task %q\n", t.Title)
	}

	return nil
}
