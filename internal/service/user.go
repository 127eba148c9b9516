package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"taskhub/internal/domain"
	"taskhub/internal/policy"
)

// UserService implements account management with per-action authorization.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a UserService.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns a page of accounts. Admin only.
func (s *UserService) List(ctx context.Context, page domain.PageRequest) ([]domain.User, int64, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, 0, err
	}
	if err := policy.Authorize(p, policy.ActionUserList, policy.Resource{}).Err(); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, page)
}

// Get returns a single account. The existence check runs before the
// authorization check, so a missing id is 404 for everyone.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ActionUserRead, policy.UserResource(id)).Err(); err != nil {
		return nil, err
	}
	return user, nil
}

// Create provisions an account on behalf of an admin, optionally with the
// admin flag set. Self-service signup goes through AuthService.Register.
func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ActionUserCreate, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrConflict("email %s is already registered", req.Email)
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, &domain.User{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      req.IsAdmin,
	})
}

// Update applies the present fields of req to the account. Check order:
// validation, then email uniqueness (request-only), then existence, then
// authorization including the field guard.
func (s *UserService) Update(ctx context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, domain.ErrValidation("update contains no fields")
	}

	if req.Email != nil {
		existing, err := s.users.GetByEmail(ctx, *req.Email)
		if err == nil && existing.ID != id {
			return nil, domain.ErrConflict("email %s is already registered", *req.Email)
		}
		if err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("check email uniqueness: %w", err)
		}
	}

	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}

	res := policy.UserResource(id)
	res.Fields = req.PresentFields()
	if err := policy.Authorize(p, policy.ActionUserUpdate, res).Err(); err != nil {
		return nil, err
	}

	var passwordHash string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		passwordHash = string(hash)
	}

	return s.users.Update(ctx, id, req, passwordHash)
}

// Delete removes an account. Admin only, and admins cannot delete
// themselves; both checks depend only on the request and run before the
// existence lookup.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	p, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	if err := policy.Authorize(p, policy.ActionUserDelete, policy.UserResource(id)).Err(); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
