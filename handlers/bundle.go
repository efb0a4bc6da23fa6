package handlers

import (
	userRepoPkg "relocare/database/repository/user"
	"relocare/utils"
)

// HandlerBundle groups the endpoint handlers and what the auth middleware needs.
type HandlerBundle struct {
	UserRepo  userRepoPkg.UserRepository
	RoleCache utils.RoleCache
	JWTSecret string
	// MaxRequestsPerMin bounds public booking submissions per client IP.
	MaxRequestsPerMin int
	// AllowedOrigins feeds CORS; "*" allows any origin.
	AllowedOrigins []string

	Bookings *BookingHandler
	Admin    *AdminHandler
	Catalog  *CatalogHandler
	Session  *SessionHandler
}
