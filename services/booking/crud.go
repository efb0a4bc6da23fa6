package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"relocare/database/repository"
	"relocare/models"
	"relocare/services/notification"
	"relocare/utils"
)

// generatedIDAttempts bounds retries when a generated id collides.
const generatedIDAttempts = 3

func trimInput(in *models.BookingInput) {
	in.BookingID = strings.TrimSpace(in.BookingID)
	in.FullName = strings.TrimSpace(in.FullName)
	in.EmailAddress = strings.TrimSpace(in.EmailAddress)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.ServiceID = strings.TrimSpace(in.ServiceID)
	in.ServiceName = strings.TrimSpace(in.ServiceName)
	in.SubServiceID = strings.TrimSpace(in.SubServiceID)
	in.SubServiceName = strings.TrimSpace(in.SubServiceName)
	in.Details = strings.TrimSpace(in.Details)
	in.FormType = strings.ToLower(strings.TrimSpace(in.FormType))
}

// CreateBooking validates a form submission and stores it as pending.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error) {
	trimInput(&input)
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if input.FormType == "" {
		input.FormType = models.FormQuick
	}
	if input.FormType == models.FormComprehensive && utf8.RuneCountInString(input.Details) < s.Opts.MinDetailsLength {
		return nil, utils.NewValidationError(
			fmt.Sprintf("details must be at least %d characters", s.Opts.MinDetailsLength), "details")
	}

	now := s.now()
	submittedAt := now
	if !utils.IsAbsentTimestamp(input.SubmittedAt) {
		t, ok := utils.ParseTimestamp(input.SubmittedAt)
		if !ok {
			return nil, utils.NewValidationError("submittedAt is not a valid timestamp", "submittedAt")
		}
		submittedAt = t.UTC().Truncate(time.Millisecond)
	}

	booking := &models.Booking{
		BookingID:       input.BookingID,
		FullName:        input.FullName,
		EmailAddress:    input.EmailAddress,
		PhoneNumber:     input.PhoneNumber,
		ServiceID:       input.ServiceID,
		ServiceName:     input.ServiceName,
		SubServiceID:    input.SubServiceID,
		SubServiceName:  input.SubServiceName,
		SubServicePrice: input.SubServicePrice,
		Details:         input.Details,
		FormType:        input.FormType,
		Status:          models.BookingPending,
		SubmittedAt:     submittedAt,
	}

	if err := s.insert(ctx, booking, input.BookingID == ""); err != nil {
		return nil, err
	}

	s.Notifier.Notify(fmt.Sprintf("New booking %s received", booking.BookingID), notification.KindInfo)
	return booking, nil
}

func (s *DefaultBookingService) insert(ctx context.Context, booking *models.Booking, generate bool) error {
	attempts := 1
	if generate {
		attempts = generatedIDAttempts
	}
	for i := 0; i < attempts; i++ {
		if generate {
			booking.BookingID = NewBookingID(s.Now())
		}
		err := s.Repo.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("failed to store booking: %w", err)
		}
	}
	return utils.NewConflictError(fmt.Sprintf("booking %s already exists", booking.BookingID))
}

// GetBooking returns one booking by its public id.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByBookingID(ctx, strings.TrimSpace(bookingID))
	if err != nil {
		return nil, translate(err, "booking")
	}
	return b, nil
}

// UpdateBooking merges patch onto the stored booking. Only supplied fields
// change; an unknown status is rejected before the store is touched.
func (s *DefaultBookingService) UpdateBooking(ctx context.Context, bookingID string, patch models.BookingPatch) (*models.Booking, error) {
	if patch.IsEmpty() {
		return nil, utils.NewValidationError("no fields to update")
	}

	var next models.BookingStatus
	if patch.Status != nil {
		next = models.BookingStatus(strings.TrimSpace(*patch.Status))
		if !next.IsValid() {
			return nil, utils.NewInvalidStatusError(*patch.Status)
		}
	}

	current, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		if !s.checkTransition(current.Status, next) {
			return nil, utils.NewInvalidTransitionError(string(current.Status), string(next))
		}
		current.Status = next
	}
	if err := applyPatch(current, patch); err != nil {
		return nil, err
	}

	updated, err := s.Repo.Update(ctx, current)
	if err != nil {
		return nil, translate(err, "booking")
	}
	return updated, nil
}

func applyPatch(b *models.Booking, p models.BookingPatch) error {
	var bad []string
	required := func(dst *string, v *string, field string) {
		if v == nil {
			return
		}
		trimmed := strings.TrimSpace(*v)
		if trimmed == "" {
			bad = append(bad, field)
			return
		}
		*dst = trimmed
	}
	required(&b.FullName, p.FullName, "fullName")
	required(&b.EmailAddress, p.EmailAddress, "emailAddress")
	required(&b.PhoneNumber, p.PhoneNumber, "phoneNumber")
	required(&b.ServiceID, p.ServiceID, "serviceId")

	if p.EmailAddress != nil && b.EmailAddress != "" && utils.Validator().Var(b.EmailAddress, "email") != nil {
		bad = append(bad, "emailAddress")
	}
	if p.PhoneNumber != nil && b.PhoneNumber != "" && !utils.IsValidPhone(b.PhoneNumber) {
		bad = append(bad, "phoneNumber")
	}
	if p.SubServicePrice != nil && *p.SubServicePrice < 0 {
		bad = append(bad, "subServicePrice")
	}
	if len(bad) > 0 {
		return utils.NewValidationError(
			fmt.Sprintf("invalid or missing fields: %s", strings.Join(bad, ", ")), bad...)
	}

	if p.ServiceName != nil {
		b.ServiceName = strings.TrimSpace(*p.ServiceName)
	}
	if p.SubServiceID != nil {
		b.SubServiceID = strings.TrimSpace(*p.SubServiceID)
	}
	if p.SubServiceName != nil {
		b.SubServiceName = strings.TrimSpace(*p.SubServiceName)
	}
	if p.SubServicePrice != nil {
		price := *p.SubServicePrice
		b.SubServicePrice = &price
	}
	if p.Details != nil {
		b.Details = strings.TrimSpace(*p.Details)
	}
	if p.Notes != nil {
		b.Notes = strings.TrimSpace(*p.Notes)
	}
	return nil
}

// DeleteBooking removes a booking permanently and returns what was removed.
func (s *DefaultBookingService) DeleteBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	existing, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Delete(ctx, existing.BookingID); err != nil {
		return nil, translate(err, "booking")
	}
	return existing, nil
}

// ListBookings returns bookings matching a store-level filter, newest first.
func (s *DefaultBookingService) ListBookings(ctx context.Context, filter models.BookingStoreFilter) ([]models.Booking, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, utils.NewInvalidStatusError(string(filter.Status))
	}
	bookings, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// SearchBookings backs the admin listing: the status stage is pushed down to
// the store, the rest runs through Apply, then one page is cut out.
func (s *DefaultBookingService) SearchBookings(ctx context.Context, spec FilterSpec, page, limit int) ([]models.Booking, models.Pagination, error) {
	var storeFilter models.BookingStoreFilter
	if spec.Status != "" && spec.Status != StatusAll {
		storeFilter.Status = models.BookingStatus(spec.Status)
	}
	all, err := s.ListBookings(ctx, storeFilter)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.Opts.PageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	bookings, meta := paginate(Apply(all, spec), page, limit)
	return bookings, meta, nil
}

// GetStats recomputes the dashboard aggregate from the full booking list.
func (s *DefaultBookingService) GetStats(ctx context.Context) (*models.BookingStats, error) {
	all, err := s.Repo.List(ctx, models.BookingStoreFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for stats: %w", err)
	}
	stats := ComputeStats(all, s.Now(), s.Opts.Location, s.Opts.RecentWindow)
	return &stats, nil
}

func translate(err error, entity string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return utils.NewNotFoundError(strings.ToUpper(entity[:1]) + entity[1:])
	case errors.Is(err, repository.ErrDuplicate):
		return utils.NewConflictError(entity + " already exists")
	default:
		return err
	}
}
