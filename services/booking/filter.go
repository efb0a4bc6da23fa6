package booking

import (
	"strings"
	"time"

	"relocare/models"
	"relocare/utils"
)

// StatusAll disables the status stage of a filter.
const StatusAll = "all"

const dateLayout = "2006-01-02"

// FilterSpec is a parsed admin listing filter. All predicates are conjunctive.
type FilterSpec struct {
	Status string
	// Search is lower-cased and trimmed.
	Search string
	// DateFrom and DateTo are local midnights; zero means unset. DateTo is
	// inclusive through the end of that day.
	DateFrom time.Time
	DateTo   time.Time
}

// IsEmpty reports whether the spec keeps every booking.
func (f FilterSpec) IsEmpty() bool {
	return (f.Status == "" || f.Status == StatusAll) && f.Search == "" &&
		f.DateFrom.IsZero() && f.DateTo.IsZero()
}

// ParseFilterSpec validates raw query values. Dates are YYYY-MM-DD in loc.
func ParseFilterSpec(status, search, dateFrom, dateTo string, loc *time.Location) (FilterSpec, error) {
	if loc == nil {
		loc = time.UTC
	}
	spec := FilterSpec{
		Status: strings.TrimSpace(status),
		Search: strings.ToLower(strings.TrimSpace(search)),
	}
	if spec.Status == "" {
		spec.Status = StatusAll
	}
	if spec.Status != StatusAll && !models.BookingStatus(spec.Status).IsValid() {
		return FilterSpec{}, utils.NewInvalidStatusError(spec.Status)
	}

	var err error
	if spec.DateFrom, err = parseDay(dateFrom, loc); err != nil {
		return FilterSpec{}, utils.NewValidationError("dateFrom must be a YYYY-MM-DD date", "dateFrom")
	}
	if spec.DateTo, err = parseDay(dateTo, loc); err != nil {
		return FilterSpec{}, utils.NewValidationError("dateTo must be a YYYY-MM-DD date", "dateTo")
	}
	return spec, nil
}

func parseDay(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if len(raw) > len(dateLayout) {
		// Accept full timestamps by keeping only their calendar day.
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
		}
	}
	return time.ParseInLocation(dateLayout, raw, loc)
}

// Apply narrows bookings to those matching spec, keeping their relative order.
// It never mutates its input.
func Apply(bookings []models.Booking, spec FilterSpec) []models.Booking {
	out := make([]models.Booking, 0, len(bookings))
	var end time.Time
	if !spec.DateTo.IsZero() {
		end = spec.DateTo.AddDate(0, 0, 1)
	}
	needle := strings.ToLower(strings.TrimSpace(spec.Search))

	for _, b := range bookings {
		if spec.Status != "" && spec.Status != StatusAll && string(b.Status) != spec.Status {
			continue
		}
		if needle != "" && !matchesSearch(b, needle) {
			continue
		}
		if !spec.DateFrom.IsZero() && b.SubmittedAt.Before(spec.DateFrom) {
			continue
		}
		if !end.IsZero() && !b.SubmittedAt.Before(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesSearch(b models.Booking, needle string) bool {
	for _, field := range []string{b.FullName, b.EmailAddress, b.BookingID, b.ServiceName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// paginate slices one page out of bookings. page is 1-based.
func paginate(bookings []models.Booking, page, limit int) ([]models.Booking, models.Pagination) {
	total := len(bookings)
	totalPages := (total + limit - 1) / limit
	meta := models.Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}

	start := (page - 1) * limit
	if start >= total {
		return []models.Booking{}, meta
	}
	end := start + limit
	if end > total {
		end = total
	}
	return bookings[start:end], meta
}
