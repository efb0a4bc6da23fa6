package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// BookingStatuses lists every valid status in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
}

// IsValid reports whether s is one of the five known statuses.
func (s BookingStatus) IsValid() bool {
	for _, st := range BookingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Booking form variants. The comprehensive form enforces a minimum details length.
const (
	FormQuick         = "quick"
	FormComprehensive = "comprehensive"
)

// Booking is one customer service request. Timestamps are carried by the
// repository layer, which normalises whatever shape the store hands back.
type Booking struct {
	ID              string        `bson:"-" json:"id"`
	BookingID       string        `bson:"bookingId" json:"bookingId"`
	FullName        string        `bson:"fullName" json:"fullName"`
	EmailAddress    string        `bson:"emailAddress" json:"emailAddress"`
	PhoneNumber     string        `bson:"phoneNumber" json:"phoneNumber"`
	ServiceID       string        `bson:"serviceId" json:"serviceId"`
	ServiceName     string        `bson:"serviceName" json:"serviceName"`
	SubServiceID    string        `bson:"subServiceId,omitempty" json:"subServiceId,omitempty"`
	SubServiceName  string        `bson:"subServiceName,omitempty" json:"subServiceName,omitempty"`
	SubServicePrice *float64      `bson:"subServicePrice,omitempty" json:"subServicePrice,omitempty"`
	Details         string        `bson:"details" json:"details"`
	Notes           string        `bson:"notes,omitempty" json:"notes,omitempty"`
	FormType        string        `bson:"formType,omitempty" json:"formType,omitempty"`
	Status          BookingStatus `bson:"status" json:"status"`
	SubmittedAt     time.Time     `bson:"-" json:"submittedAt"`
	CreatedAt       time.Time     `bson:"-" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"-" json:"updatedAt"`
}

// BookingInput is the public booking-form submission.
type BookingInput struct {
	BookingID       string   `json:"bookingId"`
	FullName        string   `json:"fullName" validate:"required,max=120"`
	EmailAddress    string   `json:"emailAddress" validate:"required,email"`
	PhoneNumber     string   `json:"phoneNumber" validate:"required,phone"`
	ServiceID       string   `json:"serviceId" validate:"required"`
	ServiceName     string   `json:"serviceName"`
	SubServiceID    string   `json:"subServiceId"`
	SubServiceName  string   `json:"subServiceName"`
	SubServicePrice *float64 `json:"subServicePrice" validate:"omitempty,gte=0"`
	Details         string   `json:"details" validate:"max=5000"`
	FormType        string   `json:"formType" validate:"omitempty,oneof=quick comprehensive"`
	// Status is accepted on the wire but always overridden to pending.
	Status string `json:"status,omitempty"`
	// SubmittedAt may be an ISO string, epoch millis or absent.
	SubmittedAt any `json:"submittedAt,omitempty"`
}

// BookingPatch is a partial update. Nil fields are left unchanged.
type BookingPatch struct {
	Status          *string  `json:"status"`
	Notes           *string  `json:"notes"`
	Details         *string  `json:"details"`
	FullName        *string  `json:"fullName"`
	EmailAddress    *string  `json:"emailAddress"`
	PhoneNumber     *string  `json:"phoneNumber"`
	ServiceID       *string  `json:"serviceId"`
	ServiceName     *string  `json:"serviceName"`
	SubServiceID    *string  `json:"subServiceId"`
	SubServiceName  *string  `json:"subServiceName"`
	SubServicePrice *float64 `json:"subServicePrice"`
}

// StatusPatch narrows a BookingPatch to the fields the status endpoint accepts.
func (p BookingPatch) StatusPatch() BookingPatch {
	return BookingPatch{Status: p.Status, Notes: p.Notes, Details: p.Details}
}

// IsEmpty reports whether no field is set.
func (p BookingPatch) IsEmpty() bool {
	return p.Status == nil && p.Notes == nil && p.Details == nil &&
		p.FullName == nil && p.EmailAddress == nil && p.PhoneNumber == nil &&
		p.ServiceID == nil && p.ServiceName == nil && p.SubServiceID == nil &&
		p.SubServiceName == nil && p.SubServicePrice == nil
}

// BookingStoreFilter is the store-level equality filter for listings.
type BookingStoreFilter struct {
	Status BookingStatus
}
