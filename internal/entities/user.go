package entities

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleEditor UserRole = "editor"
	UserRoleViewer UserRole = "viewer"
)

// Capability is a named permission checked by route guards.
type Capability string

const (
	CapabilityManageOptions Capability = "manage_options" // Run imports, change settings
	CapabilityEditProducts  Capability = "edit_products"
	CapabilityReadProducts  Capability = "read_products"
)

var roleCapabilities = map[UserRole][]Capability{
	UserRoleAdmin:  {CapabilityManageOptions, CapabilityEditProducts, CapabilityReadProducts},
	UserRoleEditor: {CapabilityEditProducts, CapabilityReadProducts},
	UserRoleViewer: {CapabilityReadProducts},
}

// Can reports whether the role grants the capability.
func (r UserRole) Can(capability Capability) bool {
	for _, c := range roleCapabilities[r] {
		if c == capability {
			return true
		}
	}
	return false
}

type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Username         string     `gorm:"uniqueIndex;size:64" json:"username"`
	PasswordHash     string     `gorm:"size:255" json:"-"`
	Role             UserRole   `gorm:"size:20;default:'viewer'" json:"role"`
	FailedLoginCount int        `json:"-"`
	LockedUntil      *time.Time `json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
