package user

import (
	"context"

	userRepo "relocare/database/repository/user"
	"relocare/models"
	"relocare/utils"
)

type UserService interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	// UpdateRole changes targetID's role on behalf of actorID. An admin may
	// not demote themself.
	UpdateRole(ctx context.Context, actorID, targetID string, role models.Role) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo  userRepo.UserRepository
	Roles utils.RoleCache
}

func NewDefaultUserService(repo userRepo.UserRepository, roles utils.RoleCache) *DefaultUserService {
	return &DefaultUserService{Repo: repo, Roles: roles}
}
