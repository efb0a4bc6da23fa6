package models

import "time"

// Role is the capability claim attached to a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account known to the back-office.
type User struct {
	ID        string    `bson:"-" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"-" json:"createdAt"`
	UpdatedAt time.Time `bson:"-" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin capability.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
