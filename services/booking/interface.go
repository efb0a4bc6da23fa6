package booking

import (
	"context"
	"time"

	bookingRepo "relocare/database/repository/booking"
	"relocare/models"
	"relocare/services/notification"
)

// BookingService covers the booking lifecycle used by the public form and the admin area.
type BookingService interface {
	CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, bookingID string, patch models.BookingPatch) (*models.Booking, error)
	DeleteBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingStoreFilter) ([]models.Booking, error)
	SearchBookings(ctx context.Context, spec FilterSpec, page, limit int) ([]models.Booking, models.Pagination, error)
	GetStats(ctx context.Context) (*models.BookingStats, error)
}

// Options tunes validation and aggregation.
type Options struct {
	// MinDetailsLength applies to comprehensive-form submissions.
	MinDetailsLength int
	// StrictTransitions enables the lifecycle edge check on status changes.
	StrictTransitions bool
	// RecentWindow is the trailing window for the recentBookings count.
	RecentWindow time.Duration
	// Location decides calendar month and day boundaries.
	Location *time.Location
	// PageSize is the default admin listing page size.
	PageSize int
}

const (
	defaultMinDetailsLength = 10
	defaultRecentWindow     = 7 * 24 * time.Hour
	defaultPageSize         = 20
	maxPageSize             = 100
)

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Notifier notification.Sink
	Opts     Options
	// Now is swapped in tests.
	Now func() time.Time
}

func NewDefaultBookingService(repo bookingRepo.BookingRepository, sink notification.Sink, opts Options) *DefaultBookingService {
	if sink == nil {
		sink = notification.NopSink{}
	}
	if opts.MinDetailsLength <= 0 {
		opts.MinDetailsLength = defaultMinDetailsLength
	}
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = defaultRecentWindow
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}
	return &DefaultBookingService{
		Repo:     repo,
		Notifier: sink,
		Opts:     opts,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *DefaultBookingService) now() time.Time {
	return s.Now().UTC().Truncate(time.Millisecond)
}
