package bookingRepo

import (
	"context"

	"relocare/models"
)

// BookingRepository defines methods for booking data access. Bookings are
// addressed by their public bookingId; the storage identity is only echoed
// back in Booking.ID.
type BookingRepository interface {
	// Create inserts a booking and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByBookingID retrieves a booking by its public identifier.
	GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error)
	// Update overwrites the mutable fields of an existing booking and returns the stored result.
	Update(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	// Delete removes a booking permanently.
	Delete(ctx context.Context, bookingID string) error
	// List returns bookings matching filter, most recent first.
	List(ctx context.Context, filter models.BookingStoreFilter) ([]models.Booking, error)
}
