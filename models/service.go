package models

import "time"

// Price types shared by services and sub-services.
const (
	PriceFixed        = "fixed"
	PriceHourly       = "hourly"
	PriceStartingFrom = "starting_from"
	PriceQuote        = "quote"
)

// Service is a top-level offering, e.g. "House Removals" or "Termite Inspection".
type Service struct {
	ID          string       `bson:"-" json:"id"`
	Name        string       `bson:"name" json:"name"`
	NameKey     string       `bson:"nameKey" json:"-"`
	Title       string       `bson:"title" json:"title"`
	Description string       `bson:"description" json:"description"`
	Category    string       `bson:"category" json:"category"`
	BasePrice   *float64     `bson:"basePrice,omitempty" json:"basePrice,omitempty"`
	PriceType   string       `bson:"priceType,omitempty" json:"priceType,omitempty"`
	IsActive    bool         `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time    `bson:"-" json:"createdAt"`
	UpdatedAt   time.Time    `bson:"-" json:"updatedAt"`
	SubServices []SubService `bson:"-" json:"subServices,omitempty"`
}

// ServiceInput is the create payload for a service.
type ServiceInput struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Title       string   `json:"title" validate:"max=160"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"max=60"`
	BasePrice   *float64 `json:"basePrice" validate:"omitempty,gte=0"`
	PriceType   string   `json:"priceType" validate:"omitempty,oneof=fixed hourly starting_from quote"`
	IsActive    *bool    `json:"isActive"`
}

// ServicePatch is a partial service update.
type ServicePatch struct {
	Name        *string  `json:"name"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	BasePrice   *float64 `json:"basePrice" validate:"omitempty,gte=0"`
	PriceType   *string  `json:"priceType" validate:"omitempty,oneof=fixed hourly starting_from quote"`
	IsActive    *bool    `json:"isActive"`
}

// SubService is a priced variant of a service.
type SubService struct {
	ID                string    `bson:"-" json:"id"`
	ServiceID         string    `bson:"serviceId" json:"serviceId"`
	Name              string    `bson:"name" json:"name"`
	Description       string    `bson:"description" json:"description"`
	Price             float64   `bson:"price" json:"price"`
	PriceType         string    `bson:"priceType" json:"priceType"`
	EstimatedDuration string    `bson:"estimatedDuration,omitempty" json:"estimatedDuration,omitempty"`
	Features          []string  `bson:"features" json:"features"`
	IsActive          bool      `bson:"isActive" json:"isActive"`
	CreatedAt         time.Time `bson:"-" json:"createdAt"`
	UpdatedAt         time.Time `bson:"-" json:"updatedAt"`
}

// SubServiceInput is the create payload for a sub-service.
type SubServiceInput struct {
	Name              string   `json:"name" validate:"required,max=120"`
	Description       string   `json:"description"`
	Price             *float64 `json:"price" validate:"required,gte=0"`
	PriceType         string   `json:"priceType" validate:"omitempty,oneof=fixed hourly starting_from quote"`
	EstimatedDuration string   `json:"estimatedDuration" validate:"max=60"`
	Features          []string `json:"features"`
	IsActive          *bool    `json:"isActive"`
}

// SubServicePatch is a partial sub-service update.
type SubServicePatch struct {
	Name              *string   `json:"name"`
	Description       *string   `json:"description"`
	Price             *float64  `json:"price" validate:"omitempty,gte=0"`
	PriceType         *string   `json:"priceType" validate:"omitempty,oneof=fixed hourly starting_from quote"`
	EstimatedDuration *string   `json:"estimatedDuration"`
	Features          *[]string `json:"features"`
	IsActive          *bool     `json:"isActive"`
}
