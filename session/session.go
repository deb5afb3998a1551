package session

import "time"

// Role is the fixed personnel role enumeration used by the back office.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleAgent      Role = "AGENT"
	RoleConsul     Role = "CONSUL"
)

// UserKind distinguishes personnel accounts from applicant accounts.
type UserKind string

const (
	KindPersonnel UserKind = "PERSONNEL"
	KindApplicant UserKind = "DEMANDEUR"
)

// TokenPair holds the backend credentials for one session. The access token
// authorizes backend API calls; the refresh token is used solely to mint a
// new pair and is never sent as a bearer credential.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExpiry time.Time // exp claim of the access token, zero when unknown
}

// ExpiresWithin reports whether the access token lapses before now+leeway.
// An unknown expiry never triggers a refresh; the backend rejects the stale
// token and the caller refreshes reactively instead.
func (p TokenPair) ExpiresWithin(now time.Time, leeway time.Duration) bool {
	if p.AccessExpiry.IsZero() {
		return false
	}
	return p.AccessExpiry.Before(now.Add(leeway))
}

// Session is the authenticated state for one browsing context.
type Session struct {
	UserID    string
	Email     string
	Name      string
	Kind      UserKind
	Role      Role
	Tokens    TokenPair
	CreatedAt time.Time
}
