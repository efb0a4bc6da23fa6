package catalog

import (
	"context"

	catalogRepo "relocare/database/repository/catalog"
	"relocare/models"
	"relocare/services/notification"
)

// CatalogService manages services and their priced sub-services.
type CatalogService interface {
	// Public catalogue: active services with their active sub-services.
	ListPublicServices(ctx context.Context) ([]models.Service, error)
	GetPublicService(ctx context.Context, id string) (*models.Service, error)

	// Admin
	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	CreateService(ctx context.Context, input models.ServiceInput) (*models.Service, error)
	UpdateService(ctx context.Context, id string, patch models.ServicePatch) (*models.Service, error)
	DeleteService(ctx context.Context, id string) (int64, error)

	ListSubServices(ctx context.Context, serviceID string) ([]models.SubService, error)
	GetSubService(ctx context.Context, serviceID, subID string) (*models.SubService, error)
	CreateSubService(ctx context.Context, serviceID string, input models.SubServiceInput) (*models.SubService, error)
	UpdateSubService(ctx context.Context, serviceID, subID string, patch models.SubServicePatch) (*models.SubService, error)
	DeleteSubService(ctx context.Context, serviceID, subID string) error

	// Maintenance
	SweepOrphanSubServices(ctx context.Context) (int64, error)
}

// DefaultCatalogService is the production implementation.
type DefaultCatalogService struct {
	Repo     catalogRepo.CatalogRepository
	Notifier notification.Sink
}

func NewDefaultCatalogService(repo catalogRepo.CatalogRepository, sink notification.Sink) *DefaultCatalogService {
	if sink == nil {
		sink = notification.NopSink{}
	}
	return &DefaultCatalogService{Repo: repo, Notifier: sink}
}
