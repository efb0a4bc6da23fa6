package memoryRepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"relocare/database/repository"
	userRepo "relocare/database/repository/user"
	"relocare/models"
)

// UserStore is a mutex-guarded UserRepository.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	// Lookups counts GetByID calls so tests can observe cache hits.
	Lookups int
}

var _ userRepo.UserRepository = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Lookups++
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
}

func (s *UserStore) GetAll(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("user %s: %w", user.Email, repository.ErrDuplicate)
		}
	}
	now := stamp()
	user.ID = newID()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) UpdateRole(_ context.Context, id string, role models.Role) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	u.Role = role
	u.UpdatedAt = stamp()
	s.users[id] = u
	return &u, nil
}
