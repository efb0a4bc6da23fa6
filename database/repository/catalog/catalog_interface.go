package catalogRepo

import (
	"context"

	"relocare/models"
)

// CatalogRepository defines methods for service and sub-service data access.
type CatalogRepository interface {
	// CreateService inserts a service; a clashing NameKey yields repository.ErrDuplicate.
	CreateService(ctx context.Context, service *models.Service) error
	// GetService retrieves a service by ID.
	GetService(ctx context.Context, id string) (*models.Service, error)
	// ListServices returns services ordered by name.
	ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error)
	// UpdateService overwrites the mutable fields of a service.
	UpdateService(ctx context.Context, service *models.Service) error
	// ServiceNameExists reports whether another service (not excludeID) uses nameKey.
	ServiceNameExists(ctx context.Context, nameKey, excludeID string) (bool, error)
	// DeleteServiceCascade removes a service and all of its sub-services,
	// returning how many sub-services went with it.
	DeleteServiceCascade(ctx context.Context, id string) (int64, error)

	// CreateSubService inserts a sub-service.
	CreateSubService(ctx context.Context, sub *models.SubService) error
	// GetSubService retrieves a sub-service by ID.
	GetSubService(ctx context.Context, id string) (*models.SubService, error)
	// ListSubServices returns sub-services of serviceID, or of every service when serviceID is empty.
	ListSubServices(ctx context.Context, serviceID string, activeOnly bool) ([]models.SubService, error)
	// UpdateSubService overwrites the mutable fields of a sub-service.
	UpdateSubService(ctx context.Context, sub *models.SubService) error
	// DeleteSubService removes one sub-service.
	DeleteSubService(ctx context.Context, id string) error
	// FindOrphanSubServices lists sub-services whose parent service no longer exists.
	FindOrphanSubServices(ctx context.Context) ([]models.SubService, error)
	// DeleteSubServices removes the given sub-services and reports how many were deleted.
	DeleteSubServices(ctx context.Context, ids []string) (int64, error)
}
