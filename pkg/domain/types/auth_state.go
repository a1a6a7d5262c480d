package types

// AuthState classifies a user by their stored credential.
//
// Transitions are monotonic within a session:
// Unregistered -> (Declined | Registered); neither reverts automatically.
type AuthState string

const (
	// AuthStateUnregistered: no credential stored. Status mutation is
	// skipped and the user is offered an authorization prompt.
	AuthStateUnregistered AuthState = "UNREGISTERED"
	// AuthStateDeclined: the user opted out. Never prompted again,
	// status is never mutated.
	AuthStateDeclined AuthState = "DECLINED"
	// AuthStateRegistered: a real token is stored and used silently.
	AuthStateRegistered AuthState = "REGISTERED"
)

// String returns the string representation of the auth state
func (s AuthState) String() string {
	return string(s)
}
