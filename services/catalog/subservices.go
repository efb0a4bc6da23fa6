package catalog

import (
	"context"
	"fmt"
	"strings"

	"relocare/models"
	"relocare/utils"
)

func (s *DefaultCatalogService) parent(ctx context.Context, serviceID string) (*models.Service, error) {
	svc, err := s.Repo.GetService(ctx, serviceID)
	if err != nil {
		return nil, translate(err, "Service")
	}
	return svc, nil
}

// scoped loads a sub-service and checks it belongs to serviceID.
func (s *DefaultCatalogService) scoped(ctx context.Context, serviceID, subID string) (*models.SubService, error) {
	sub, err := s.Repo.GetSubService(ctx, subID)
	if err != nil {
		return nil, translate(err, "Sub-service")
	}
	if sub.ServiceID != serviceID {
		return nil, utils.NewNotFoundError("Sub-service")
	}
	return sub, nil
}

func cleanFeatures(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (s *DefaultCatalogService) ListSubServices(ctx context.Context, serviceID string) ([]models.SubService, error) {
	if _, err := s.parent(ctx, serviceID); err != nil {
		return nil, err
	}
	subs, err := s.Repo.ListSubServices(ctx, serviceID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-services: %w", err)
	}
	return subs, nil
}

func (s *DefaultCatalogService) GetSubService(ctx context.Context, serviceID, subID string) (*models.SubService, error) {
	return s.scoped(ctx, serviceID, subID)
}

func (s *DefaultCatalogService) CreateSubService(ctx context.Context, serviceID string, input models.SubServiceInput) (*models.SubService, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.EstimatedDuration = strings.TrimSpace(input.EstimatedDuration)
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	svc, err := s.parent(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	sub := &models.SubService{
		ServiceID:         svc.ID,
		Name:              input.Name,
		Description:       input.Description,
		Price:             *input.Price,
		PriceType:         input.PriceType,
		EstimatedDuration: input.EstimatedDuration,
		Features:          cleanFeatures(input.Features),
		IsActive:          true,
	}
	if sub.PriceType == "" {
		sub.PriceType = models.PriceFixed
	}
	if input.IsActive != nil {
		sub.IsActive = *input.IsActive
	}

	if err := s.Repo.CreateSubService(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create sub-service: %w", err)
	}
	return sub, nil
}

func (s *DefaultCatalogService) UpdateSubService(ctx context.Context, serviceID, subID string, patch models.SubServicePatch) (*models.SubService, error) {
	if err := utils.ValidateStruct(patch); err != nil {
		return nil, err
	}
	sub, err := s.scoped(ctx, serviceID, subID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, utils.NewValidationError("invalid or missing fields: name", "name")
		}
		sub.Name = name
	}
	if patch.Description != nil {
		sub.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		sub.Price = *patch.Price
	}
	if patch.PriceType != nil && *patch.PriceType != "" {
		sub.PriceType = *patch.PriceType
	}
	if patch.EstimatedDuration != nil {
		sub.EstimatedDuration = strings.TrimSpace(*patch.EstimatedDuration)
	}
	if patch.Features != nil {
		sub.Features = cleanFeatures(*patch.Features)
	}
	if patch.IsActive != nil {
		sub.IsActive = *patch.IsActive
	}

	if err := s.Repo.UpdateSubService(ctx, sub); err != nil {
		return nil, translate(err, "Sub-service")
	}
	return sub, nil
}

func (s *DefaultCatalogService) DeleteSubService(ctx context.Context, serviceID, subID string) error {
	if _, err := s.scoped(ctx, serviceID, subID); err != nil {
		return err
	}
	if err := s.Repo.DeleteSubService(ctx, subID); err != nil {
		return translate(err, "Sub-service")
	}
	return nil
}
