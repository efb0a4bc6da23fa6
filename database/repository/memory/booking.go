// Package memoryRepo keeps bookings, the catalog and users in process memory.
// It backs DATABASE_DRIVER=memory for local runs and doubles as the store
// fake in service and handler tests.
package memoryRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"relocare/database/repository"
	bookingRepo "relocare/database/repository/booking"
	"relocare/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stamp() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

// cloneBooking copies b so the store never shares a price pointer with callers.
func cloneBooking(b models.Booking) models.Booking {
	if b.SubServicePrice != nil {
		p := *b.SubServicePrice
		b.SubServicePrice = &p
	}
	return b
}

// BookingStore is a mutex-guarded BookingRepository.
type BookingStore struct {
	mu       sync.RWMutex
	bookings []models.Booking
}

var _ bookingRepo.BookingRepository = (*BookingStore)(nil)

// NewBookingStore returns an empty store.
func NewBookingStore() *BookingStore {
	return &BookingStore{}
}

// Put stores b exactly as given, timestamps included. Used to load fixtures.
func (s *BookingStore) Put(b models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = newID()
	}
	s.bookings = append(s.bookings, cloneBooking(b))
}

// Len reports how many bookings are stored.
func (s *BookingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

func (s *BookingStore) indexOf(bookingID string) int {
	for i := range s.bookings {
		if s.bookings[i].BookingID == bookingID {
			return i
		}
	}
	return -1
}

func (s *BookingStore) Create(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(booking.BookingID) >= 0 {
		return fmt.Errorf("booking %s: %w", booking.BookingID, repository.ErrDuplicate)
	}
	now := stamp()
	booking.ID = newID()
	booking.CreatedAt, booking.UpdatedAt = now, now
	s.bookings = append(s.bookings, cloneBooking(*booking))
	return nil
}

func (s *BookingStore) GetByBookingID(_ context.Context, bookingID string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(bookingID)
	if i < 0 {
		return nil, fmt.Errorf("booking %s: %w", bookingID, repository.ErrNotFound)
	}
	b := cloneBooking(s.bookings[i])
	return &b, nil
}

func (s *BookingStore) Update(_ context.Context, booking *models.Booking) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(booking.BookingID)
	if i < 0 {
		return nil, fmt.Errorf("booking %s: %w", booking.BookingID, repository.ErrNotFound)
	}
	current := s.bookings[i]
	updated := cloneBooking(*booking)
	updated.ID = current.ID
	updated.FormType = current.FormType
	updated.SubmittedAt = current.SubmittedAt
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = stamp()
	s.bookings[i] = updated

	out := cloneBooking(updated)
	return &out, nil
}

func (s *BookingStore) Delete(_ context.Context, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(bookingID)
	if i < 0 {
		return fmt.Errorf("booking %s: %w", bookingID, repository.ErrNotFound)
	}
	s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
	return nil
}

// List returns matching bookings newest first; ties keep insertion order.
func (s *BookingStore) List(_ context.Context, filter models.BookingStoreFilter) ([]models.Booking, error) {
	s.mu.RLock()
	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
