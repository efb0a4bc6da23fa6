package userRepo

import (
	"context"

	"relocare/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by their unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by their email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetAll returns every user, newest first.
	GetAll(ctx context.Context) ([]models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// UpdateRole changes the role of a user and returns the updated record.
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
}
