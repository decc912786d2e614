package domain

// Scope is the persistence partition key under which a record collection is
// stored: a guest session identifier or an authenticated user id.
type Scope string

const (
	guestScopePrefix = "guest:"
	userScopePrefix  = "user:"
)

// GuestScope builds the scope for a locally persisted guest session.
func GuestScope(guestID string) Scope {
	return Scope(guestScopePrefix + guestID)
}

// UserScope builds the scope for an authenticated user's remote collection.
func UserScope(userID string) Scope {
	return Scope(userScopePrefix + userID)
}

// Identity describes a signed-in user as resolved by the identity provider.
type Identity struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

// SessionState is the coordinator's position in the auth state machine.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthenticating
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Session is the process-wide session snapshot. Identity is nil unless the
// state is StateAuthenticated. Scope is empty until a guest or authenticated
// session has been entered.
type Session struct {
	State    SessionState
	Identity *Identity
	Scope    Scope
}
