package domain

import (
	"context"
	"time"
)

// UserRepository provides CRUD operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, page PageRequest) ([]User, int64, error)
	// Update applies the present fields of the request. passwordHash carries
	// the already-hashed replacement when req.Password is present.
	Update(ctx context.Context, id int64, req *UpdateUserRequest, passwordHash string) (*User, error)
	Delete(ctx context.Context, id int64) error
}

// TaskRepository provides CRUD operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *Task) (*Task, error)
	GetByID(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
	Update(ctx context.Context, id int64, req *UpdateTaskRequest) (*Task, error)
	UpdateStatus(ctx context.Context, id int64, status TaskStatus) (*Task, error)
	Delete(ctx context.Context, id int64) error
	// MarkOverdue flips pending/in_progress tasks whose end date has passed
	// to overdue. Returns the number of rows changed.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}
