package bookingRepo

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

// bookingDocument is the stored shape. Date fields are left untyped because
// older documents carry ISO strings or extended-JSON wrappers instead of
// BSON dates.
type bookingDocument struct {
	ObjectID       primitive.ObjectID `bson:"_id,omitempty"`
	models.Booking `bson:",inline"`
	SubmittedAt    interface{} `bson:"submittedAt"`
	CreatedAt      interface{} `bson:"createdAt"`
	UpdatedAt      interface{} `bson:"updatedAt"`
}

func (d bookingDocument) toModel() models.Booking {
	b := d.Booking
	b.ID = d.ObjectID.Hex()
	b.SubmittedAt = utils.ToCanonicalTime(d.SubmittedAt)
	b.CreatedAt = utils.ToCanonicalTime(d.CreatedAt)
	b.UpdatedAt = utils.ToCanonicalTime(d.UpdatedAt)
	return b
}

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	repo := &MongoBookingRepo{coll: db.Collection("bookings")}

	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create booking indexes", zap.Error(err))
	}
	return repo
}

// withTimeout bounds a single store round trip.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	doc := bookingDocument{
		ObjectID:    primitive.NewObjectID(),
		Booking:     *booking,
		SubmittedAt: booking.SubmittedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("booking %s: %w", booking.BookingID, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	booking.ID = doc.ObjectID.Hex()
	return nil
}

// GetByBookingID retrieves a booking by its public identifier.
func (r *MongoBookingRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc bookingDocument
	if err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	b := doc.toModel()
	return &b, nil
}

// Update modifies the mutable fields of an existing booking. Concurrent
// updates are last-write-wins.
func (r *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"fullName":        booking.FullName,
		"emailAddress":    booking.EmailAddress,
		"phoneNumber":     booking.PhoneNumber,
		"serviceId":       booking.ServiceID,
		"serviceName":     booking.ServiceName,
		"subServiceId":    booking.SubServiceID,
		"subServiceName":  booking.SubServiceName,
		"subServicePrice": booking.SubServicePrice,
		"details":         booking.Details,
		"notes":           booking.Notes,
		"status":          booking.Status,
		"updatedAt":       time.Now().UTC().Truncate(time.Millisecond),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bookingDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"bookingId": booking.BookingID}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking %s: %w", booking.BookingID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update booking %s: %w", booking.BookingID, err)
	}
	updated := doc.toModel()
	return &updated, nil
}

// Delete removes a booking document by its public identifier.
func (r *MongoBookingRepo) Delete(ctx context.Context, bookingID string) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"bookingId": bookingID})
	if err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", bookingID, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("booking %s: %w", bookingID, repository.ErrNotFound)
	}
	return nil
}

// List retrieves bookings matching the store-level filter, newest first.
func (r *MongoBookingRepo) List(ctx context.Context, filter models.BookingStoreFilter) ([]models.Booking, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}
