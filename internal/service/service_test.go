//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	internaldb "taskhub/internal/db"
	"taskhub/internal/db/repository"
	"taskhub/internal/domain"
)

const testSecret = "test-secret-32-bytes-long-xxxxx"

type fixture struct {
	auth     *AuthService
	users    *UserService
	tasks    *TaskService
	userRepo *repository.UserRepo
	taskRepo *repository.TaskRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)
	userRepo := repository.NewUserRepo(db)
	taskRepo := repository.NewTaskRepo(db)
	return &fixture{
		auth:     NewAuthService(userRepo, testSecret, 7*24*time.Hour),
		users:    NewUserService(userRepo),
		tasks:    NewTaskService(taskRepo),
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// seedUser inserts an account directly, bypassing the service layer.
func (f *fixture) seedUser(t *testing.T, email, password string, admin bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := f.userRepo.Create(context.Background(), &domain.User{
		Email:        email,
		DisplayName:  "Seeded User",
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      admin,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) seedTask(t *testing.T, creator, assignee int64) *domain.Task {
	t.Helper()
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	task, err := f.taskRepo.Create(context.Background(), &domain.Task{
		Title:      "seeded task",
		Status:     domain.StatusPending,
		Priority:   domain.PriorityMedium,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 7),
		CreatorID:  creator,
		AssigneeID: assignee,
	})
	require.NoError(t, err)
	return task
}

// as returns a context carrying u as the authenticated principal, the way
// the authenticator middleware would after re-reading the row.
func as(u *domain.User) context.Context {
	return domain.WithPrincipal(context.Background(), domain.ContextPrincipal{
		ID:      u.ID,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	})
}
