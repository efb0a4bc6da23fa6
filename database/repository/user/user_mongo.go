package userRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

type userDocument struct {
	ObjectID    primitive.ObjectID `bson:"_id,omitempty"`
	models.User `bson:",inline"`
	CreatedAt   interface{} `bson:"createdAt"`
	UpdatedAt   interface{} `bson:"updatedAt"`
}

func (d userDocument) toModel() *models.User {
	u := d.User
	u.ID = d.ObjectID.Hex()
	u.CreatedAt = utils.ToCanonicalTime(d.CreatedAt)
	u.UpdatedAt = utils.ToCanonicalTime(d.UpdatedAt)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	return &u
}

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database) UserRepository {
	repo := &MongoUserRepo{coll: db.Collection("users")}

	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create user indexes", zap.Error(err))
	}
	return repo
}

// newContext derives a bounded context for a single query.
func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M, label string) (*models.User, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", label, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", label, err)
	}
	return doc.toModel(), nil
}

// GetByID retrieves a user by its hex object id.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": oid}, id)
}

// GetByEmail retrieves a user by email address, case-insensitively.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *MongoUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, *doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	doc := userDocument{ObjectID: primitive.NewObjectID(), User: *user, CreatedAt: now, UpdatedAt: now}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", user.Email, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = doc.ObjectID.Hex()
	return nil
}

// UpdateRole sets the role of a user.
func (r *MongoUserRepo) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"role":      role,
		"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update role of user %s: %w", id, err)
	}
	return doc.toModel(), nil
}

func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
