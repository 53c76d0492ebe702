package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"ludus-server/internal/domain"
	"ludus-server/internal/repository"
)

// UserPatch carries optional profile updates; nil fields are untouched.
type UserPatch struct {
	Email    *string
	Name     *string
	Password *string
}

// UserService describes account lifecycle operations.
type UserService interface {
	Create(ctx context.Context, email, name, password string) (*domain.User, error)
	// FindByEmail returns the account regardless of active status so
	// the authenticator can distinguish inactive from unknown.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// LoadActiveByEmail resolves a token subject to a live principal;
	// unknown and soft-deleted accounts both come back as not found.
	LoadActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, page int, name string) ([]domain.User, PageInfo, error)
	Update(ctx context.Context, id int64, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	// EnsureAdmin creates the ADMIN account at startup when no row
	// exists for the given email. Reports whether it created one.
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	var details []string
	if email == "" {
		details = append(details, "Email cannot be blank")
	} else if !emailShape.MatchString(email) {
		details = append(details, "Invalid email format")
	}
	if len(name) < 5 || len(name) > 100 {
		details = append(details, "Name must be between 5 and 100 characters")
	}
	if len(password) < 5 || len(password) > 30 {
		details = append(details, "Password must be between 5 and 30 characters")
	}
	if email != "" {
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			details = append(details, "Email already registered")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Active:       true,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ValidationError{Details: []string{"Email already registered"}}
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *userService) LoadActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if id < 1 {
		return nil, ErrInvalidID
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, page int, name string) ([]domain.User, PageInfo, error) {
	if page < 1 {
		return nil, PageInfo{}, ErrInvalidPage
	}
	users, total, err := s.users.ListActive(ctx, name, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return users, pageInfo(page, total), nil
}

func (s *userService) Update(ctx context.Context, id int64, patch UserPatch) (*domain.User, error) {
	if id < 1 {
		return nil, ErrInvalidID
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var details []string
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if !emailShape.MatchString(email) {
			details = append(details, "Invalid email format")
		} else {
			existing, err := s.users.GetByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != id:
				details = append(details, "Email already registered")
			case err != nil && !errors.Is(err, repository.ErrNotFound):
				return nil, err
			default:
				user.Email = email
			}
		}
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if len(name) < 5 || len(name) > 100 {
			details = append(details, "Name must be between 5 and 100 characters")
		} else {
			user.Name = name
		}
	}
	if patch.Password != nil {
		if len(*patch.Password) < 5 || len(*patch.Password) > 30 {
			details = append(details, "Password must be between 5 and 30 characters")
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = string(hash)
		}
	}
	if len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete soft-deletes: the row survives for purchase history, the
// account stops logging in and disappears from reads.
func (s *userService) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrInvalidID
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.Active = false
	return s.users.Update(ctx, user)
}

func (s *userService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	admin := &domain.User{
		Email:        email,
		Name:         "Admin",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	if _, err := s.users.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}
