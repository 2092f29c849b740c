package ports

// Package ports defines interfaces (hexagonal ports) for share resolution
// and guest session behavior. Implementations live in internal/adapters;
// orchestration in internal/service.

import (
	"context"
	"net/url"

	"github.com/target/sharelink-gateway/internal/domain/guest"
	"github.com/target/sharelink-gateway/internal/domain/share"
)

// Reference identifies the share an inbound request points at: the opaque
// token, the remainder of the request path, and the raw query values
// (the source of target-path additionals).
type Reference struct {
	Token string
	Path  string
	Query url.Values
}

// ShareResolver turns a share reference into an AccessRequest, or fails with
// an unknown-share error.
type ShareResolver interface {
	Resolve(ctx context.Context, ref Reference) (share.AccessRequest, error)
}

// GuestDirectory looks up the records backing a guest principal.
type GuestDirectory interface {
	// ContextByID resolves the guest's owning context.
	ContextByID(ctx context.Context, id string) (guest.Context, error)
	// UserByID resolves the guest's user record inside a context.
	UserByID(ctx context.Context, userID, contextID string) (guest.User, error)
}

// SessionStore persists and retrieves guest sessions.
type SessionStore interface {
	Save(ctx context.Context, sess guest.Session) error
	Get(ctx context.Context, id string) (guest.Session, error)
	Delete(ctx context.Context, id string) error
}
