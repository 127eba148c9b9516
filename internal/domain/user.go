package domain

import (
	"strings"
	"time"
)

// User represents a registered account. PasswordHash is a bcrypt digest and
// never leaves the service layer.
type User struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	IsActive     bool
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// CreateUserRequest holds parameters for registering a new user.
type CreateUserRequest struct {
	Email       string
	DisplayName string
	Password    string
	IsAdmin     bool
}

// Validate checks that the request is well-formed.
func (r *CreateUserRequest) Validate() error {
	if r.Email == "" {
		return ErrValidation("email is required")
	}
	if !looksLikeEmail(r.Email) {
		return ErrValidation("email %q is not a valid address", r.Email)
	}
	if r.DisplayName == "" {
		return ErrValidation("display name is required")
	}
	if len(r.Password) < 8 {
		return ErrValidation("password must be at least 8 characters")
	}
	return nil
}

// UpdateUserRequest holds a partial update. Nil fields were omitted from the
// request and are left untouched; non-nil fields are applied. Presence is the
// unit the mutation guard reasons about, including IsAdmin=false.
type UpdateUserRequest struct {
	Email       *string
	DisplayName *string
	Password    *string
	IsActive    *bool
	IsAdmin     *bool
}

// Validate checks the fields that are present.
func (r *UpdateUserRequest) Validate() error {
	if r.Email != nil && !looksLikeEmail(*r.Email) {
		return ErrValidation("email %q is not a valid address", *r.Email)
	}
	if r.DisplayName != nil && *r.DisplayName == "" {
		return ErrValidation("display name cannot be empty")
	}
	if r.Password != nil && len(*r.Password) < 8 {
		return ErrValidation("password must be at least 8 characters")
	}
	return nil
}

// PresentFields lists the names of fields explicitly set in the update.
func (r *UpdateUserRequest) PresentFields() []string {
	var fields []string
	if r.Email != nil {
		fields = append(fields, "email")
	}
	if r.DisplayName != nil {
		fields = append(fields, "display_name")
	}
	if r.Password != nil {
		fields = append(fields, "password")
	}
	if r.IsActive != nil {
		fields = append(fields, "is_active")
	}
	if r.IsAdmin != nil {
		fields = append(fields, "is_admin")
	}
	return fields
}

// IsEmpty reports whether no field is present in the update.
func (r *UpdateUserRequest) IsEmpty() bool {
	return len(r.PresentFields()) == 0
}

// Credentials holds a login attempt.
type Credentials struct {
	Email    string
	Password string
}

// Validate checks that the credentials are well-formed.
func (c *Credentials) Validate() error {
	if c.Email == "" || c.Password == "" {
		return ErrValidation("email and password are required")
	}
	return nil
}

// looksLikeEmail applies a minimal structural check. Deliverability is not
// the API's problem; catching obvious garbage at the boundary is.
func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	return strings.Contains(s[at+1:], ".")
}
