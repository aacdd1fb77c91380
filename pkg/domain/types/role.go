package types

// Role is the portal a profile belongs to
type Role string

const (
	RoleUser    Role = "user"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleCompany, RoleAdmin:
		return true
	default:
		return false
	}
}

// Normalize treats empty and unknown roles as RoleUser
func (r Role) Normalize() Role {
	if !r.IsValid() {
		return RoleUser
	}
	return r
}

func (r Role) String() string {
	return string(r)
}
