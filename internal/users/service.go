package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"schoolapp/internal/apperr"
	"schoolapp/internal/auth"
)

// PendingSalaries reports whether a teacher still has unpaid salary records.
type PendingSalaries interface {
	HasPending(ctx context.Context, teacherID int) (bool, error)
}

// Service handles registration, credential checks and guarded deletion.
type Service struct {
	repo     *Repository
	salaries PendingSalaries
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository, salaries PendingSalaries) *Service {
	return &Service{repo: repo, salaries: salaries}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (User, error) {
	if name == "" || email == "" || password == "" || role == "" {
		return User{}, apperr.Invalidf("all fields are required")
	}
	if !auth.ValidRole(role) {
		return User{}, apperr.Invalidf("unknown role %q", role)
	}
	taken, err := s.repo.EmailTaken(ctx, email)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, apperr.Invalidf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, User{Name: name, Email: email, Password: string(hash), Role: role})
}

// Authenticate verifies email and password. Unknown accounts and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return User{}, apperr.ErrUnauthenticated
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, apperr.ErrUnauthenticated
	}
	return u, nil
}

// List returns accounts, optionally filtered by role.
func (s *Service) List(ctx context.Context, role string) ([]User, error) {
	return s.repo.List(ctx, role)
}

// DeleteTeacher removes a teacher account unless salary records are still
// pending. Other roles are not deletable through this path.
func (s *Service) DeleteTeacher(ctx context.Context, id int) error {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.Role != auth.RoleTeacher {
		return apperr.Invalidf("only teachers can be deleted here")
	}
	pending, err := s.salaries.HasPending(ctx, id)
	if err != nil {
		return err
	}
	if pending {
		return apperr.Invalidf("cannot delete teacher: salary records are still pending")
	}
	return s.repo.Delete(ctx, id)
}
