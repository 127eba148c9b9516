package api

import (
	"time"

	"taskhub/internal/domain"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      userResponse `json:"user"`
}

// userResponse is the public view of an account. The password hash never
// appears on the wire.
type userResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	IsActive    bool       `json:"is_active"`
	IsAdmin     bool       `json:"is_admin"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsActive:    u.IsActive,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type userListResponse struct {
	Items []userResponse `json:"items"`
	Total int64          `json:"total"`
}

type createUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	IsAdmin     bool   `json:"is_admin"`
}

// updateUserRequest distinguishes omitted fields (nil) from explicitly set
// ones, preserving partial-update semantics through JSON decoding.
type updateUserRequest struct {
	Email       *string `json:"email"`
	DisplayName *string `json:"display_name"`
	Password    *string `json:"password"`
	IsActive    *bool   `json:"is_active"`
	IsAdmin     *bool   `json:"is_admin"`
}

func (r *updateUserRequest) toDomain() *domain.UpdateUserRequest {
	return &domain.UpdateUserRequest{
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Password:    r.Password,
		IsActive:    r.IsActive,
		IsAdmin:     r.IsAdmin,
	}
}

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	CreatorID   int64      `json:"creator_id"`
	AssigneeID  int64      `json:"assignee_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		CreatorID:   t.CreatorID,
		AssigneeID:  t.AssigneeID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type taskListResponse struct {
	Items []taskResponse `json:"items"`
	Total int64          `json:"total"`
}

type createTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	AssigneeID  int64     `json:"assignee_id"`
}

// toDomain rejects unknown enum values at the boundary.
func (r *createTaskRequest) toDomain() (*domain.CreateTaskRequest, error) {
	req := &domain.CreateTaskRequest{
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		AssigneeID:  r.AssigneeID,
	}
	if r.Status != "" {
		status, err := domain.ParseTaskStatus(r.Status)
		if err != nil {
			return nil, err
		}
		req.Status = status
	}
	if r.Priority != "" {
		priority, err := domain.ParseTaskPriority(r.Priority)
		if err != nil {
			return nil, err
		}
		req.Priority = priority
	}
	return req, nil
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	AssigneeID  *int64     `json:"assignee_id"`
}

func (r *updateTaskRequest) toDomain() (*domain.UpdateTaskRequest, error) {
	req := &domain.UpdateTaskRequest{
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		AssigneeID:  r.AssigneeID,
	}
	if r.Status != nil {
		status, err := domain.ParseTaskStatus(*r.Status)
		if err != nil {
			return nil, err
		}
		req.Status = &status
	}
	if r.Priority != nil {
		priority, err := domain.ParseTaskPriority(*r.Priority)
		if err != nil {
			return nil, err
		}
		req.Priority = &priority
	}
	return req, nil
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}
