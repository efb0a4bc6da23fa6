package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"relocare/database/repository"
	"relocare/models"
	"relocare/utils"
)

// GetAllUsers retrieves all users for the admin area.
func (s *DefaultUserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("User")
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	return u, nil
}

func (s *DefaultUserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("User")
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", email, err)
	}
	return u, nil
}

// CreateUser registers an identity handed over by the external sign-in provider.
func (s *DefaultUserService) CreateUser(ctx context.Context, u *models.User) error {
	u.Name = strings.TrimSpace(u.Name)
	if strings.TrimSpace(u.Email) == "" {
		return utils.NewValidationError("invalid or missing fields: email", "email")
	}
	if u.Role != "" && !u.Role.IsValid() {
		return utils.NewValidationError("invalid role", "role")
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return utils.NewConflictError("A user with this email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *DefaultUserService) UpdateRole(ctx context.Context, actorID, targetID string, role models.Role) (*models.User, error) {
	role = models.Role(strings.ToLower(strings.TrimSpace(string(role))))
	if !role.IsValid() {
		return nil, utils.NewValidationError("role must be user or admin", "role")
	}
	if actorID == targetID && role != models.RoleAdmin {
		return nil, utils.NewValidationError("you cannot remove your own admin role", "role")
	}

	updated, err := s.Repo.UpdateRole(ctx, targetID, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("User")
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	if s.Roles != nil {
		s.Roles.Invalidate(ctx, targetID)
	}
	return updated, nil
}
