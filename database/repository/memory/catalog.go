package memoryRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"relocare/database/repository"
	catalogRepo "relocare/database/repository/catalog"
	"relocare/models"
)

// CatalogStore is a mutex-guarded CatalogRepository. Cascade deletes happen
// under a single lock, so they are atomic here.
type CatalogStore struct {
	mu          sync.RWMutex
	services    map[string]models.Service
	subServices map[string]models.SubService
}

var _ catalogRepo.CatalogRepository = (*CatalogStore)(nil)

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		services:    make(map[string]models.Service),
		subServices: make(map[string]models.SubService),
	}
}

// PutSubService stores sub as given, even when its parent is missing.
func (s *CatalogStore) PutSubService(sub models.SubService) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = newID()
	}
	s.subServices[sub.ID] = sub
	return sub.ID
}

func (s *CatalogStore) CreateService(_ context.Context, service *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.services {
		if existing.NameKey == service.NameKey {
			return fmt.Errorf("service %q: %w", service.Name, repository.ErrDuplicate)
		}
	}
	now := stamp()
	service.ID = newID()
	service.CreatedAt, service.UpdatedAt = now, now
	stored := *service
	stored.SubServices = nil
	s.services[service.ID] = stored
	return nil
}

func (s *CatalogStore) GetService(_ context.Context, id string) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, fmt.Errorf("service %s: %w", id, repository.ErrNotFound)
	}
	return &svc, nil
}

func (s *CatalogStore) ListServices(_ context.Context, activeOnly bool) ([]models.Service, error) {
	s.mu.RLock()
	out := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		if activeOnly && !svc.IsActive {
			continue
		}
		out = append(out, svc)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].NameKey < out[j].NameKey })
	return out, nil
}

func (s *CatalogStore) UpdateService(_ context.Context, service *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.services[service.ID]
	if !ok {
		return fmt.Errorf("service %s: %w", service.ID, repository.ErrNotFound)
	}
	for id, existing := range s.services {
		if id != service.ID && existing.NameKey == service.NameKey {
			return fmt.Errorf("service %q: %w", service.Name, repository.ErrDuplicate)
		}
	}
	service.CreatedAt = current.CreatedAt
	service.UpdatedAt = stamp()
	stored := *service
	stored.SubServices = nil
	s.services[service.ID] = stored
	return nil
}

func (s *CatalogStore) ServiceNameExists(_ context.Context, nameKey, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, svc := range s.services {
		if id != excludeID && svc.NameKey == nameKey {
			return true, nil
		}
	}
	return false, nil
}

func (s *CatalogStore) DeleteServiceCascade(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[id]; !ok {
		return 0, fmt.Errorf("service %s: %w", id, repository.ErrNotFound)
	}
	delete(s.services, id)

	var removed int64
	for subID, sub := range s.subServices {
		if sub.ServiceID == id {
			delete(s.subServices, subID)
			removed++
		}
	}
	return removed, nil
}

func (s *CatalogStore) CreateSubService(_ context.Context, sub *models.SubService) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := stamp()
	sub.ID = newID()
	sub.CreatedAt, sub.UpdatedAt = now, now
	s.subServices[sub.ID] = *sub
	return nil
}

func (s *CatalogStore) GetSubService(_ context.Context, id string) (*models.SubService, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subServices[id]
	if !ok {
		return nil, fmt.Errorf("sub-service %s: %w", id, repository.ErrNotFound)
	}
	return &sub, nil
}

func (s *CatalogStore) ListSubServices(_ context.Context, serviceID string, activeOnly bool) ([]models.SubService, error) {
	s.mu.RLock()
	out := make([]models.SubService, 0)
	for _, sub := range s.subServices {
		if serviceID != "" && sub.ServiceID != serviceID {
			continue
		}
		if activeOnly && !sub.IsActive {
			continue
		}
		out = append(out, sub)
	}
	s.mu.RUnlock()

	sortSubServices(out)
	return out, nil
}

func sortSubServices(subs []models.SubService) {
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Price != subs[j].Price {
			return subs[i].Price < subs[j].Price
		}
		if subs[i].Name != subs[j].Name {
			return subs[i].Name < subs[j].Name
		}
		return subs[i].ID < subs[j].ID
	})
}

func (s *CatalogStore) UpdateSubService(_ context.Context, sub *models.SubService) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.subServices[sub.ID]
	if !ok {
		return fmt.Errorf("sub-service %s: %w", sub.ID, repository.ErrNotFound)
	}
	sub.ServiceID = current.ServiceID
	sub.CreatedAt = current.CreatedAt
	sub.UpdatedAt = stamp()
	s.subServices[sub.ID] = *sub
	return nil
}

func (s *CatalogStore) DeleteSubService(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subServices[id]; !ok {
		return fmt.Errorf("sub-service %s: %w", id, repository.ErrNotFound)
	}
	delete(s.subServices, id)
	return nil
}

func (s *CatalogStore) FindOrphanSubServices(_ context.Context) ([]models.SubService, error) {
	s.mu.RLock()
	out := make([]models.SubService, 0)
	for _, sub := range s.subServices {
		if _, ok := s.services[sub.ServiceID]; !ok {
			out = append(out, sub)
		}
	}
	s.mu.RUnlock()

	sortSubServices(out)
	return out, nil
}

func (s *CatalogStore) DeleteSubServices(_ context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for _, id := range ids {
		if _, ok := s.subServices[id]; ok {
			delete(s.subServices, id)
			removed++
		}
	}
	return removed, nil
}
