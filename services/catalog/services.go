package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"relocare/database/repository"
	"relocare/models"
	"relocare/services/notification"
	"relocare/utils"
)

// NameKey is the case-insensitive uniqueness key of a service name.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func translate(err error, entity string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return utils.NewNotFoundError(entity)
	case errors.Is(err, repository.ErrDuplicate):
		return utils.NewConflictError("A service with this name already exists")
	default:
		return err
	}
}

// withSubServices attaches sub-services to each service in one store call.
func (s *DefaultCatalogService) withSubServices(ctx context.Context, services []models.Service, activeOnly bool) ([]models.Service, error) {
	subs, err := s.Repo.ListSubServices(ctx, "", activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to load sub-services: %w", err)
	}
	byService := make(map[string][]models.SubService)
	for _, sub := range subs {
		byService[sub.ServiceID] = append(byService[sub.ServiceID], sub)
	}
	for i := range services {
		services[i].SubServices = byService[services[i].ID]
		if services[i].SubServices == nil {
			services[i].SubServices = []models.SubService{}
		}
	}
	return services, nil
}

func (s *DefaultCatalogService) ListPublicServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.Repo.ListServices(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return s.withSubServices(ctx, services, true)
}

func (s *DefaultCatalogService) GetPublicService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.Repo.GetService(ctx, id)
	if err != nil {
		return nil, translate(err, "Service")
	}
	if !svc.IsActive {
		return nil, utils.NewNotFoundError("Service")
	}
	subs, err := s.Repo.ListSubServices(ctx, svc.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load sub-services: %w", err)
	}
	svc.SubServices = subs
	return svc, nil
}

func (s *DefaultCatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.Repo.ListServices(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return s.withSubServices(ctx, services, false)
}

func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.Repo.GetService(ctx, id)
	if err != nil {
		return nil, translate(err, "Service")
	}
	subs, err := s.Repo.ListSubServices(ctx, svc.ID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load sub-services: %w", err)
	}
	svc.SubServices = subs
	return svc, nil
}

func (s *DefaultCatalogService) ensureUniqueName(ctx context.Context, nameKey, excludeID string) error {
	exists, err := s.Repo.ServiceNameExists(ctx, nameKey, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check service name: %w", err)
	}
	if exists {
		return utils.NewConflictError("A service with this name already exists")
	}
	return nil
}

// CreateService validates and stores a new service. Title falls back to the name.
func (s *DefaultCatalogService) CreateService(ctx context.Context, input models.ServiceInput) (*models.Service, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	key := NameKey(input.Name)
	if err := s.ensureUniqueName(ctx, key, ""); err != nil {
		return nil, err
	}

	svc := &models.Service{
		Name:        input.Name,
		NameKey:     key,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		BasePrice:   input.BasePrice,
		PriceType:   input.PriceType,
		IsActive:    true,
	}
	if svc.Title == "" {
		svc.Title = svc.Name
	}
	if svc.PriceType == "" {
		svc.PriceType = models.PriceFixed
	}
	if input.IsActive != nil {
		svc.IsActive = *input.IsActive
	}

	if err := s.Repo.CreateService(ctx, svc); err != nil {
		return nil, translate(err, "Service")
	}
	svc.SubServices = []models.SubService{}
	s.Notifier.Notify(fmt.Sprintf("Service %q created", svc.Name), notification.KindSuccess)
	return svc, nil
}

// UpdateService merges patch onto the stored service, re-checking name
// uniqueness against every other service.
func (s *DefaultCatalogService) UpdateService(ctx context.Context, id string, patch models.ServicePatch) (*models.Service, error) {
	if err := utils.ValidateStruct(patch); err != nil {
		return nil, err
	}
	svc, err := s.Repo.GetService(ctx, id)
	if err != nil {
		return nil, translate(err, "Service")
	}

	var bad []string
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		bad = append(bad, "name")
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		bad = append(bad, "description")
	}
	if len(bad) > 0 {
		return nil, utils.NewValidationError(
			fmt.Sprintf("invalid or missing fields: %s", strings.Join(bad, ", ")), bad...)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		key := NameKey(name)
		if key != svc.NameKey {
			if err := s.ensureUniqueName(ctx, key, svc.ID); err != nil {
				return nil, err
			}
		}
		// A title that merely mirrored the old name follows the rename.
		if patch.Title == nil && (svc.Title == "" || svc.Title == svc.Name) {
			svc.Title = name
		}
		svc.Name, svc.NameKey = name, key
	}
	if patch.Title != nil {
		svc.Title = strings.TrimSpace(*patch.Title)
		if svc.Title == "" {
			svc.Title = svc.Name
		}
	}
	if patch.Description != nil {
		svc.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		svc.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.BasePrice != nil {
		p := *patch.BasePrice
		svc.BasePrice = &p
	}
	if patch.PriceType != nil && *patch.PriceType != "" {
		svc.PriceType = *patch.PriceType
	}
	if patch.IsActive != nil {
		svc.IsActive = *patch.IsActive
	}

	if err := s.Repo.UpdateService(ctx, svc); err != nil {
		return nil, translate(err, "Service")
	}
	return svc, nil
}

// DeleteService removes a service and its sub-services, returning how many
// sub-services were removed with it.
func (s *DefaultCatalogService) DeleteService(ctx context.Context, id string) (int64, error) {
	removed, err := s.Repo.DeleteServiceCascade(ctx, id)
	if err != nil {
		return 0, translate(err, "Service")
	}
	s.Notifier.Notify(fmt.Sprintf("Service %s deleted with %d sub-services", id, removed), notification.KindWarning)
	return removed, nil
}

// SweepOrphanSubServices deletes sub-services whose parent service is gone.
func (s *DefaultCatalogService) SweepOrphanSubServices(ctx context.Context) (int64, error) {
	orphans, err := s.Repo.FindOrphanSubServices(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to find orphan sub-services: %w", err)
	}
	if len(orphans) == 0 {
		return 0, nil
	}
	ids := make([]string, 0, len(orphans))
	for _, o := range orphans {
		ids = append(ids, o.ID)
	}
	removed, err := s.Repo.DeleteSubServices(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphan sub-services: %w", err)
	}
	s.Notifier.Notify(fmt.Sprintf("Removed %d orphan sub-services", removed), notification.KindWarning)
	return removed, nil
}
