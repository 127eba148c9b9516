package domain

import "time"

// TaskStatus is the closed set of task lifecycle states.
type TaskStatus string

// TaskPriority is the closed set of task priorities.
type TaskPriority string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusOverdue    TaskStatus = "overdue"

	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ParseTaskStatus validates a wire value against the closed enum.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return TaskStatus(s), nil
	default:
		return "", ErrValidation("unknown task status %q", s)
	}
}

// ParseTaskPriority validates a wire value against the closed enum.
func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(s), nil
	default:
		return "", ErrValidation("unknown task priority %q", s)
	}
}

// Task represents a unit of work assigned by one user to another.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	StartDate   time.Time
	EndDate     time.Time
	CreatorID   int64
	AssigneeID  int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// CreateTaskRequest holds parameters for creating a new task.
// Status and Priority default to pending/medium when empty.
type CreateTaskRequest struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	StartDate   time.Time
	EndDate     time.Time
	AssigneeID  int64
}

// Validate checks that the request is well-formed and applies defaults.
func (r *CreateTaskRequest) Validate() error {
	if r.Title == "" {
		return ErrValidation("task title is required")
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if _, err := ParseTaskStatus(string(r.Status)); err != nil {
		return err
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if _, err := ParseTaskPriority(string(r.Priority)); err != nil {
		return err
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return ErrValidation("start_date and end_date are required")
	}
	if r.EndDate.Before(r.StartDate) {
		return ErrValidation("end_date must not be before start_date")
	}
	if r.AssigneeID == 0 {
		return ErrValidation("assignee_id is required")
	}
	return nil
}

// UpdateTaskRequest holds a partial task update. Nil fields were omitted and
// are left untouched; non-nil fields are applied after the mutation guard
// approves the present set.
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	StartDate   *time.Time
	EndDate     *time.Time
	AssigneeID  *int64
}

// Validate checks the fields that are present. Date ordering is checked
// against the current task state so an update cannot invert the range.
func (r *UpdateTaskRequest) Validate(current *Task) error {
	if r.Title != nil && *r.Title == "" {
		return ErrValidation("task title cannot be empty")
	}
	if r.Status != nil {
		if _, err := ParseTaskStatus(string(*r.Status)); err != nil {
			return err
		}
	}
	if r.Priority != nil {
		if _, err := ParseTaskPriority(string(*r.Priority)); err != nil {
			return err
		}
	}
	start := current.StartDate
	end := current.EndDate
	if r.StartDate != nil {
		start = *r.StartDate
	}
	if r.EndDate != nil {
		end = *r.EndDate
	}
	if end.Before(start) {
		return ErrValidation("end_date must not be before start_date")
	}
	return nil
}

// PresentFields lists the names of fields explicitly set in the update.
func (r *UpdateTaskRequest) PresentFields() []string {
	var fields []string
	if r.Title != nil {
		fields = append(fields, "title")
	}
	if r.Description != nil {
		fields = append(fields, "description")
	}
	if r.Status != nil {
		fields = append(fields, "status")
	}
	if r.Priority != nil {
		fields = append(fields, "priority")
	}
	if r.StartDate != nil {
		fields = append(fields, "start_date")
	}
	if r.EndDate != nil {
		fields = append(fields, "end_date")
	}
	if r.AssigneeID != nil {
		fields = append(fields, "assignee_id")
	}
	return fields
}

// IsEmpty reports whether no field is present in the update.
func (r *UpdateTaskRequest) IsEmpty() bool {
	return len(r.PresentFields()) == 0
}

// TaskFilter holds optional listing filters. The policy scope is merged in
// by the service before the filter reaches the repository, so a non-admin
// caller cannot widen AssigneeID past their own id.
type TaskFilter struct {
	Status     *TaskStatus
	AssigneeID *int64
	Search     string     // matches title or description, case-insensitive
	From       *time.Time // with To: tasks whose date range overlaps [From, To]
	To         *time.Time
	Page       PageRequest
}
