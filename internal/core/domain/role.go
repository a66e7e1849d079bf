package domain

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// RegistrationRole returns the role a self-registering user receives.
// Only editor and viewer may be requested; anything else, admin included,
// becomes viewer.
func RegistrationRole(requested string) Role {
	switch Role(requested) {
	case RoleEditor:
		return RoleEditor
	default:
		return RoleViewer
	}
}

// Identity is the caller as described by a verified access token.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
