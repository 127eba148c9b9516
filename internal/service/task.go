package service

import (
	"context"

	"taskhub/internal/domain"
	"taskhub/internal/policy"
)

// TaskService implements task management with per-action authorization.
type TaskService struct {
	tasks domain.TaskRepository
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks domain.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// List returns tasks matching the filter. A scoped decision pins the
// assignee filter to the principal; a non-admin asking for someone else's
// tasks gets an empty page, not an error.
func (s *TaskService) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int64, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, 0, err
	}

	d := policy.Authorize(p, policy.ActionTaskList, policy.Resource{})
	if err := d.Err(); err != nil {
		return nil, 0, err
	}
	if d.Scope != nil {
		if filter.AssigneeID != nil && *filter.AssigneeID != d.Scope.AssigneeID {
			return []domain.Task{}, 0, nil
		}
		filter.AssigneeID = &d.Scope.AssigneeID
	}

	return s.tasks.List(ctx, filter)
}

// Get returns a single task. Existence is checked before authorization, so
// a missing id is 404 for everyone.
func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ActionTaskRead, policy.TaskResource(task)).Err(); err != nil {
		return nil, err
	}
	return task, nil
}

// Create creates a task. Admin only. The creator is recorded from the
// principal, never from the request body.
func (s *TaskService) Create(ctx context.Context, req *domain.CreateTaskRequest) (*domain.Task, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ActionTaskCreate, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.tasks.Create(ctx, &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatorID:   p.ID,
		AssigneeID:  req.AssigneeID,
	})
}

// Update applies the present fields of req to the task. Existence first,
// then authorization: the assignee may submit only the status field, and
// any other present field rejects the whole update.
func (s *TaskService) Update(ctx context.Context, id int64, req *domain.UpdateTaskRequest) (*domain.Task, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, domain.ErrValidation("update contains no fields")
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := policy.TaskResource(task)
	res.Fields = req.PresentFields()
	if err := policy.Authorize(p, policy.ActionTaskUpdate, res).Err(); err != nil {
		return nil, err
	}

	if err := req.Validate(task); err != nil {
		return nil, err
	}

	return s.tasks.Update(ctx, id, req)
}

// UpdateStatus is the narrow status-only transition the assignee is allowed
// to make on their own tasks.
func (s *TaskService) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ActionTaskUpdateStatus, policy.TaskResource(task)).Err(); err != nil {
		return nil, err
	}
	return s.tasks.UpdateStatus(ctx, id, status)
}

// Delete removes a task. Admin only. The rule depends only on the principal,
// so it runs before the existence lookup and a non-admin gets 403 even for a
// missing id; the 404-before-403 ordering applies to reads and updates,
// whose rules need the row.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	p, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	if err := policy.Authorize(p, policy.ActionTaskDelete, policy.Resource{}).Err(); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}
