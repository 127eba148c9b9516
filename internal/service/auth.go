package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"taskhub/internal/domain"
)

// AuthService handles self-service registration, credential login, and
// token issuance.
type AuthService struct {
	users  domain.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService creates an AuthService issuing HS256 tokens signed with
// secret and valid for ttl.
func NewAuthService(users domain.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// LoginResult is what a successful login returns.
type LoginResult struct {
	Token     string
	TokenType string
	User      *domain.User
}

// Register creates a new non-admin account. Self-service registration never
// grants admin, whatever the request claims.
func (s *AuthService) Register(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The uniqueness check depends only on the request, so it runs before
	// anything is written. The UNIQUE index backstops races.
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
		IsAdmin:      false,
	})
}

// Login verifies the credentials and returns a signed token plus the user.
// Unknown email, wrong password, and a deactivated account all fail the same
// way so the response does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, creds *domain.Credentials) (*LoginResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrInvalidCredential("invalid email or password")
		}
		return nil, fmt.Errorf("look up account: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredential("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return nil, domain.ErrInvalidCredential("invalid email or password")
	}

	token, err := s.IssueToken(user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, TokenType: "bearer", User: user}, nil
}

// IssueToken signs an HS256 access token whose subject is the account email.
func (s *AuthService) IssueToken(email string) (string, error) {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"iss": "taskhub",
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func isNotFound(err error) bool {
	var notFound *domain.NotFoundError
	return errors.As(err, &notFound)
}
