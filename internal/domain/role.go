package domain

// Role is a coarse capability label. Route permissions are expressed as
// allow-sets of roles, never as ad hoc string comparisons.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// KnownRoles lists every role the API assigns permissions to.
var KnownRoles = []Role{RoleAdmin, RoleUser}

func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

func (r Role) Valid() bool {
	return r.In(KnownRoles...)
}

func (r Role) String() string { return string(r) }
