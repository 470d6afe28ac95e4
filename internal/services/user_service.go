package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/repository"
)

// UserService manages user accounts.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     models.UserRole
	Avatar   *string
}

// UpdateUserInput represents a partial user update
type UpdateUserInput struct {
	Username *string
	Password *string
	Name     *string
	Email    *string
	Role     *models.UserRole
	Avatar   *string
}

// ListUsers returns every user
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUser hashes the password and stores a new user.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username: strings.TrimSpace(input.Username),
		Name:     input.Name,
		Email:    strings.TrimSpace(input.Email),
		Role:     role,
		Avatar:   input.Avatar,
	}
	if err := s.checkUnique(user); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUser applies a partial update to a user.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}
	if err := s.checkUnique(user); err != nil {
		return nil, err
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.UpdateUser(user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user. Tickets and comments that reference the user
// are kept and render without it.
func (s *UserService) DeleteUser(id uint64) error {
	if err := s.userRepo.DeleteUser(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *UserService) checkUnique(user *models.User) error {
	if existing, err := s.userRepo.FindUserByUsername(user.Username); err == nil && existing.ID != user.ID {
		return ErrUsernameTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if existing, err := s.userRepo.FindUserByEmail(user.Email); err == nil && existing.ID != user.ID {
		return ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}
