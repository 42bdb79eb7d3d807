// Package actor describes the identity the engine acts on behalf of. The
// authentication decision itself is external; this package only carries the
// resulting identity and its visibility scope.
package actor

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleAccueil Role = "ACCUEIL"
	RoleUser    Role = "USER"
)

// Actor is the current session identity. A nil *Actor means the anonymous
// public view.
type Actor struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// IsFrontDesk reports the reception role, which refreshes the calendar
// collections but never the inbox ones.
func (a *Actor) IsFrontDesk() bool {
	return a != nil && a.Role == RoleAccueil
}
