package guest

// Package guest contains domain-level types for share guests and their
// sessions. A guest is a principal created solely to represent share-based
// access, as opposed to a fully registered account.

import "time"

// AuthMode describes how a guest authenticates.
// Keep string form for easy persistence and logging.
type AuthMode string

const (
	// AuthAnonymous grants access without any credentials.
	AuthAnonymous AuthMode = "anonymous"
	// AuthAnonymousPassword requires the link password but no account.
	AuthAnonymousPassword AuthMode = "anonymous_password"
	// AuthGuest is a named guest without a password.
	AuthGuest AuthMode = "guest"
	// AuthGuestPassword is a named guest with a password.
	AuthGuestPassword AuthMode = "guest_password"
)

// RequiresPassword reports whether the mode demands a credential check
// before a session may be created.
func (m AuthMode) RequiresPassword() bool {
	return m == AuthAnonymousPassword || m == AuthGuestPassword
}

// Guest is the resolved guest principal behind a share token.
type Guest struct {
	ID        string
	ContextID string
	AuthMode  AuthMode
	Email     string // login-name hint for password guests; empty for anonymous
	Locale    string // BCP 47 tag configured for the guest, e.g. "de-DE"
	CreatedBy string // user ID of the sharer inside the same context
}

// Context is the owning tenant context of a guest.
type Context struct {
	ID   string
	Name string
}

// User is the guest's user record inside its context.
type User struct {
	ID           string
	ContextID    string
	DisplayName  string
	LoginName    string
	PasswordHash string // bcrypt hash; empty when no password is set
	Locale       string
}

// Session is the server-side record for an authenticated guest.
// ID is an opaque session identifier. Parameters holds the session
// enhancement payload applied at creation time; it is never mutated after.
type Session struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	ContextID  string            `json:"context_id"`
	Transient  bool              `json:"transient"`
	Parameters map[string]string `json:"parameters,omitempty"`
	ExpiresAt  time.Time         `json:"expires_at"`
}

// IsTransient reports whether the session is torn down after the request
// that created it.
func (s Session) IsTransient() bool { return s.Transient }
