package model

import (
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// Profile is the application-side record of an authenticated user
type Profile struct {
	ID              types.UserID
	Email           string
	FullName        string
	Role            types.Role
	CompanyName     string
	AdminSecretHash string `masq:"secret"` // bcrypt
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdmin reports whether the profile has the admin role
func (p *Profile) IsAdmin() bool {
	return p.Role == types.RoleAdmin
}

// CanPublish reports whether the profile may create opportunities
func (p *Profile) CanPublish() bool {
	return p.Role == types.RoleCompany || p.Role == types.RoleAdmin
}
