package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"relocare/database/repository"
	"relocare/models"
	"relocare/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type serviceDocument struct {
	ObjectID       primitive.ObjectID `bson:"_id,omitempty"`
	models.Service `bson:",inline"`
	CreatedAt      interface{} `bson:"createdAt"`
	UpdatedAt      interface{} `bson:"updatedAt"`
}

func (d serviceDocument) toModel() models.Service {
	s := d.Service
	s.ID = d.ObjectID.Hex()
	s.CreatedAt = utils.ToCanonicalTime(d.CreatedAt)
	s.UpdatedAt = utils.ToCanonicalTime(d.UpdatedAt)
	return s
}

type subServiceDocument struct {
	ObjectID          primitive.ObjectID `bson:"_id,omitempty"`
	models.SubService `bson:",inline"`
	CreatedAt         interface{} `bson:"createdAt"`
	UpdatedAt         interface{} `bson:"updatedAt"`
}

func (d subServiceDocument) toModel() models.SubService {
	s := d.SubService
	s.ID = d.ObjectID.Hex()
	s.CreatedAt = utils.ToCanonicalTime(d.CreatedAt)
	s.UpdatedAt = utils.ToCanonicalTime(d.UpdatedAt)
	if s.Features == nil {
		s.Features = []string{}
	}
	return s
}

// MongoCatalogRepo implements CatalogRepository over the services and
// sub_services collections.
type MongoCatalogRepo struct {
	services     *mongo.Collection
	subServices  *mongo.Collection
	transactions bool
}

// NewMongoCatalogRepo creates the catalog repository. With transactions
// enabled the cascade delete runs inside a multi-document transaction, which
// requires a replica set.
func NewMongoCatalogRepo(db *mongo.Database, transactions bool) CatalogRepository {
	repo := &MongoCatalogRepo{
		services:     db.Collection("services"),
		subServices:  db.Collection("sub_services"),
		transactions: transactions,
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create catalog indexes", zap.Error(err))
	}
	return repo
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func objectID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s %s: %w", kind, id, repository.ErrNotFound)
	}
	return oid, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// --- Services ---

func (r *MongoCatalogRepo) CreateService(ctx context.Context, service *models.Service) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	ts := now()
	service.CreatedAt, service.UpdatedAt = ts, ts
	doc := serviceDocument{ObjectID: primitive.NewObjectID(), Service: *service, CreatedAt: ts, UpdatedAt: ts}
	if _, err := r.services.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("service %q: %w", service.Name, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create service: %w", err)
	}
	service.ID = doc.ObjectID.Hex()
	return nil
}

func (r *MongoCatalogRepo) GetService(ctx context.Context, id string) (*models.Service, error) {
	oid, err := objectID("service", id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc serviceDocument
	if err := r.services.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("service %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, err)
	}
	s := doc.toModel()
	return &s, nil
}

func (r *MongoCatalogRepo) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	cursor, err := r.services.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "nameKey", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve services: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []serviceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	services := make([]models.Service, 0, len(docs))
	for _, d := range docs {
		services = append(services, d.toModel())
	}
	return services, nil
}

func (r *MongoCatalogRepo) UpdateService(ctx context.Context, service *models.Service) error {
	oid, err := objectID("service", service.ID)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	service.UpdatedAt = now()
	update := bson.M{"$set": bson.M{
		"name":        service.Name,
		"nameKey":     service.NameKey,
		"title":       service.Title,
		"description": service.Description,
		"category":    service.Category,
		"basePrice":   service.BasePrice,
		"priceType":   service.PriceType,
		"isActive":    service.IsActive,
		"updatedAt":   service.UpdatedAt,
	}}
	result, err := r.services.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("service %q: %w", service.Name, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to update service %s: %w", service.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("service %s: %w", service.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoCatalogRepo) ServiceNameExists(ctx context.Context, nameKey, excludeID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"nameKey": nameKey}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}
	n, err := r.services.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check service name: %w", err)
	}
	return n > 0, nil
}

func (r *MongoCatalogRepo) DeleteServiceCascade(ctx context.Context, id string) (int64, error) {
	oid, err := objectID("service", id)
	if err != nil {
		return 0, err
	}
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	if !r.transactions {
		return r.deleteServiceAndChildren(ctx, oid, id)
	}

	sess, err := r.services.Database().Client().StartSession()
	if err != nil {
		return 0, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	removed, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.deleteServiceAndChildren(sc, oid, id)
	})
	if err != nil {
		return 0, err
	}
	n, _ := removed.(int64)
	return n, nil
}

// deleteServiceAndChildren runs the two deletes back to back. Outside a
// transaction a crash between them leaves orphans for the sweep to collect.
func (r *MongoCatalogRepo) deleteServiceAndChildren(ctx context.Context, oid primitive.ObjectID, id string) (int64, error) {
	result, err := r.services.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to delete service %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return 0, fmt.Errorf("service %s: %w", id, repository.ErrNotFound)
	}

	subs, err := r.subServices.DeleteMany(ctx, bson.M{"serviceId": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete sub-services of %s: %w", id, err)
	}
	return subs.DeletedCount, nil
}

// --- Sub-services ---

func (r *MongoCatalogRepo) CreateSubService(ctx context.Context, sub *models.SubService) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	ts := now()
	sub.CreatedAt, sub.UpdatedAt = ts, ts
	doc := subServiceDocument{ObjectID: primitive.NewObjectID(), SubService: *sub, CreatedAt: ts, UpdatedAt: ts}
	if _, err := r.subServices.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create sub-service: %w", err)
	}
	sub.ID = doc.ObjectID.Hex()
	return nil
}

func (r *MongoCatalogRepo) GetSubService(ctx context.Context, id string) (*models.SubService, error) {
	oid, err := objectID("sub-service", id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc subServiceDocument
	if err := r.subServices.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("sub-service %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch sub-service %s: %w", id, err)
	}
	s := doc.toModel()
	return &s, nil
}

func (r *MongoCatalogRepo) ListSubServices(ctx context.Context, serviceID string, activeOnly bool) ([]models.SubService, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if serviceID != "" {
		filter["serviceId"] = serviceID
	}
	if activeOnly {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.subServices.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sub-services: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []subServiceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode sub-services: %w", err)
	}
	subs := make([]models.SubService, 0, len(docs))
	for _, d := range docs {
		subs = append(subs, d.toModel())
	}
	return subs, nil
}

func (r *MongoCatalogRepo) UpdateSubService(ctx context.Context, sub *models.SubService) error {
	oid, err := objectID("sub-service", sub.ID)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	sub.UpdatedAt = now()
	update := bson.M{"$set": bson.M{
		"name":              sub.Name,
		"description":       sub.Description,
		"price":             sub.Price,
		"priceType":         sub.PriceType,
		"estimatedDuration": sub.EstimatedDuration,
		"features":          sub.Features,
		"isActive":          sub.IsActive,
		"updatedAt":         sub.UpdatedAt,
	}}
	result, err := r.subServices.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update sub-service %s: %w", sub.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("sub-service %s: %w", sub.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoCatalogRepo) DeleteSubService(ctx context.Context, id string) error {
	oid, err := objectID("sub-service", id)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.subServices.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete sub-service %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("sub-service %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

// orphanGrace covers clock skew between instances that mint ObjectIDs.
const orphanGrace = time.Minute

// orphanFilter matches sub-services whose parent is not in live. Only
// documents minted before cutoff qualify: a sub-service created after the
// service snapshot was read may belong to a service the snapshot missed.
func orphanFilter(live []string, cutoff time.Time) bson.M {
	return bson.M{
		"serviceId": bson.M{"$nin": live},
		"_id":       bson.M{"$lt": primitive.NewObjectIDFromTimestamp(cutoff)},
	}
}

func (r *MongoCatalogRepo) FindOrphanSubServices(ctx context.Context) ([]models.SubService, error) {
	ctx, cancel := withTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-orphanGrace)
	cursor, err := r.services.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list service ids: %w", err)
	}
	var ids []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode service ids: %w", err)
	}
	known := make([]string, 0, len(ids))
	for _, id := range ids {
		known = append(known, id.ID.Hex())
	}

	subCursor, err := r.subServices.Find(ctx, orphanFilter(known, cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to find orphan sub-services: %w", err)
	}
	var docs []subServiceDocument
	if err := subCursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orphan sub-services: %w", err)
	}
	orphans := make([]models.SubService, 0, len(docs))
	for _, d := range docs {
		orphans = append(orphans, d.toModel())
	}
	return orphans, nil
}

func (r *MongoCatalogRepo) DeleteSubServices(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.subServices.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete sub-services: %w", err)
	}
	return result.DeletedCount, nil
}
