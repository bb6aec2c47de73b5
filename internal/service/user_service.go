package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"parkwise/internal/auth"
	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
	"parkwise/internal/repository"
)

type UserService struct {
	repo      repository.Store
	jwtSecret string
}

func NewUserService(repo repository.Store, jwtSecret string) *UserService {
	return &UserService{repo: repo, jwtSecret: jwtSecret}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*db.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || len(in.Password) < 6 {
		return nil, apperrors.New(apperrors.KindInvalidInput, "name, email and a password of at least 6 characters are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &db.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Role:         db.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks the credentials and returns a signed token plus the user.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *db.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
	}
	token, err := auth.IssueToken(s.jwtSecret, u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *UserService) GetProfile(ctx context.Context, actor auth.Identity) (*db.User, error) {
	return s.repo.GetUser(ctx, actor.UserID)
}

type UpdateProfileInput struct {
	Name     string
	Phone    string
	Password string // empty keeps the current password
}

func (s *UserService) UpdateProfile(ctx context.Context, actor auth.Identity, in UpdateProfileInput) (*db.User, error) {
	u, err := s.repo.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	u.Phone = strings.TrimSpace(in.Phone)
	if in.Password != "" {
		if len(in.Password) < 6 {
			return nil, apperrors.New(apperrors.KindInvalidInput, "password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context, actor auth.Identity, page repository.Page) ([]db.User, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperrors.New(apperrors.KindForbidden, "administrator role required")
	}
	return s.repo.ListUsers(ctx, page)
}

// EnsureAdmin creates the bootstrap administrator account if it does not
// exist yet. Called once at startup when ADMIN_EMAIL is configured.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return s.repo.CreateUser(ctx, &db.User{
		ID:           uuid.NewString(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         db.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
