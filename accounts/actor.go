package accounts

// Permission names carried by an Actor
const (
	PermViewUser   = "user.view"
	PermChangeUser = "user.change"
)

// Actor is the authenticated caller of a flow
type Actor struct {
	Name        string
	Permissions []string
}

// Has reports whether the actor holds perm
func (a Actor) Has(perm string) bool {
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// CanViewUsers reports whether the actor may read user records
func (a Actor) CanViewUsers() bool {
	return a.Has(PermViewUser) || a.Has(PermChangeUser)
}

// CanChangeUsers reports whether the actor may modify user records
func (a Actor) CanChangeUsers() bool {
	return a.Has(PermChangeUser)
}
