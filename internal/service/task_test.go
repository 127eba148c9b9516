//go:build integration

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/domain"
)

func TestTaskService_List_Scoping(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", "password123", true)
	worker := f.seedUser(t, "worker@example.com", "password123", false)
	other := f.seedUser(t, "other@example.com", "password123", false)

	f.seedTask(t, admin.ID, worker.ID)
	f.seedTask(t, admin.ID, worker.ID)
	f.seedTask(t, admin.ID, other.ID)

	// Admin sees everything.
	tasks, total, err := f.tasks.List(as(admin), domain.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	// A non-admin only ever sees tasks assigned to them.
	tasks, total, err = f.tasks.List(as(worker), domain.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, task := range tasks {
		assert.Equal(t, worker.ID, task.AssigneeID)
	}

	// Asking for someone else's tasks yields an empty page, not an error.
	tasks, total, err = f.tasks.List(as(worker), domain.TaskFilter{AssigneeID: &other.ID})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, total)

	// Admins can filter by any assignee.
	_, total, err = f.tasks.List(as(admin), domain.TaskFilter{AssigneeID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestTaskService_Get(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", "password123", true)
	worker := f.seedUser(t, "worker@example.com", "password123", false)
	other := f.seedUser(t, "other@example.com", "password123", false)
	task := f.seedTask(t, admin.ID, worker.ID)

	got, err := f.tasks.Get(as(worker), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = f.tasks.Get(as(admin), task.ID)
	require.NoError(t, err)

	_, err = f.tasks.Get(as(other), task.ID)
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, err, &denied)

	// Existence beats authorization: a missing id is 404 for everyone.
	_, err = f.tasks.Get(as(other), 9999)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestTaskService_Create(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", "password123", true)
	worker := f.seedUser(t, "worker@example.com", "password123", false)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	req := &domain.CreateTaskRequest{
		Title:      "ship release",
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 14),
		AssigneeID: worker.ID,
	}

	created, err := f.tasks.Create(as(admin), req)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, created.CreatorID, "creator comes from the principal")
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, domain.PriorityMedium, created.Priority)

	_, err = f.tasks.Create(as(worker), req)
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestTaskService_Create_Invalid(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", "password123", true)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.tasks.Create(as(admin), &domain.CreateTaskRequest{
		Title:      "backwards",
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, -1),
		AssigneeID: admin.ID,
	})
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestTaskService_Update_StatusOnlyForAssignee(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", "password123", true)
	worker := f.seedUser(t, "worker@example.com", "password123", false)
	task := f.seedTask(t, admin.ID, worker.ID)

	// {status} alone is allowed; only status changes and updatedAt is set.
	completed := domain.StatusCompleted
	updated, err := f.tasks.Update(as(worker), task.ID, &domain.UpdateTaskRequest{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, task.Title, updated.Title)
	assert.NotNil(t, updated.UpdatedAt)

	// {status, title} is rejected entirely; nothing is applied.
	title := "hijacked"
	pending := domain.StatusPending
	_, err = f.tasks.Update(as(worker), task.ID, &domain.UpdateTaskRequest{Status: &pending, Title: &title})
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	got, err := f.taskRepo.GetByID(as(worker), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status, "denied update must not mutate")
	assert.Equal(t, task.Title, got.Title)

	// Admins may update any field.
	updated, err = f.tasks.Update(as(admin), task.ID, &domain.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "hijacked", updated.Title)
}

func TestTaskService_Update_ForeignTaskDenied(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", "password123", true)
	worker := f.seedUser(t, "worker@example.com", "password123", false)
	other := f.seedUser(t, "other@example.com", "password123", false)
	task := f.seedTask(t, admin.ID, worker.ID)

	completed := domain.StatusCompleted
	_, err := f.tasks.Update(as(other), task.ID, &domain.UpdateTaskRequest{Status: &completed})
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestTaskService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", "password123", true)
	worker := f.seedUser(t, "worker@example.com", "password123", false)
	other := f.seedUser(t, "other@example.com", "password123", false)
	task := f.seedTask(t, admin.ID, worker.ID)

	updated, err := f.tasks.UpdateStatus(as(worker), task.ID, domain.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)

	_, err = f.tasks.UpdateStatus(as(other), task.ID, domain.StatusCompleted)
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestTaskService_Delete(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", "password123", true)
	worker := f.seedUser(t, "worker@example.com", "password123", false)
	task := f.seedTask(t, admin.ID, worker.ID)

	// Assignees cannot delete even their own tasks.
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, f.tasks.Delete(as(worker), task.ID), &denied)

	// The admin-only rule needs no row, so a non-admin is denied before the
	// lookup even when the id does not exist.
	assert.ErrorAs(t, f.tasks.Delete(as(worker), 9999), &denied)

	require.NoError(t, f.tasks.Delete(as(admin), task.ID))

	var notFound *domain.NotFoundError
	assert.ErrorAs(t, f.tasks.Delete(as(admin), task.ID), &notFound)
}
