package state

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies which side of the platform a session acts on.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// AuthStatus describes the lifecycle of a session's credential.
type AuthStatus string

const (
	AuthStatusAnonymous      AuthStatus = "anonymous"
	AuthStatusAuthenticating AuthStatus = "authenticating"
	AuthStatusAuthenticated  AuthStatus = "authenticated"
)

// Identity is the authenticated user as the platform reports it.
type Identity struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthState holds the session sub-state. Token is non-empty exactly
// when Status is AuthStatusAuthenticated; the container's reducers are
// the only writers and keep that pairing.
type AuthState struct {
	Identity  *Identity  `json:"identity"`
	Token     string     `json:"token"`
	Status    AuthStatus `json:"status"`
	IsLoading bool       `json:"is_loading"`
	Error     string     `json:"error"`
}

// EmptyAuthState returns the anonymous session.
func EmptyAuthState() AuthState {
	return AuthState{Status: AuthStatusAnonymous}
}

// Authenticated reports whether the session currently holds a credential.
func (s AuthState) Authenticated() bool {
	return s.Status == AuthStatusAuthenticated
}

// Clone returns a deep copy; callers may mutate the result freely.
func (s AuthState) Clone() AuthState {
	out := s
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	return out
}

// AuthPatch is a partial update pushed by the platform. Present fields
// replace the current value whole; absent fields are untouched. A
// patch can never clear Identity or Token, that only happens through
// the sign-out reducers.
type AuthPatch struct {
	Identity *Identity   `json:"identity,omitempty"`
	Token    *string     `json:"token,omitempty"`
	Status   *AuthStatus `json:"status,omitempty"`
}

// Merge folds the patch over the state and returns the result.
func (s AuthState) Merge(p AuthPatch) AuthState {
	out := s.Clone()
	if p.Identity != nil {
		id := *p.Identity
		out.Identity = &id
	}
	if p.Token != nil {
		out.Token = *p.Token
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	return out
}
