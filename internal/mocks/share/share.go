package share

// Package share contains simple hand-written test doubles for the share
// ports. These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"

	"github.com/target/sharelink-gateway/internal/domain/guest"
	domainshare "github.com/target/sharelink-gateway/internal/domain/share"
	apperrors "github.com/target/sharelink-gateway/internal/errors"
	"github.com/target/sharelink-gateway/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.ShareResolver  = (*StubResolver)(nil)
	_ ports.GuestDirectory = (*StubDirectory)(nil)
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
)

// StubResolver resolves tokens from a fixed map.
type StubResolver struct {
	Requests map[string]domainshare.AccessRequest
	// ResolveFunc overrides the map lookup when set.
	ResolveFunc func(ctx context.Context, ref ports.Reference) (domainshare.AccessRequest, error)
}

func (s *StubResolver) Resolve(ctx context.Context, ref ports.Reference) (domainshare.AccessRequest, error) {
	if s.ResolveFunc != nil {
		return s.ResolveFunc(ctx, ref)
	}
	req, ok := s.Requests[ref.Token]
	if !ok {
		return domainshare.AccessRequest{}, apperrors.UnknownShare(ref.Token)
	}
	return req, nil
}

// StubDirectory serves context and user records from fixed maps.
type StubDirectory struct {
	Contexts map[string]guest.Context
	Users    map[string]guest.User // keyed by contextID + "/" + userID
}

// NewStubDirectory creates an empty StubDirectory.
func NewStubDirectory() *StubDirectory {
	return &StubDirectory{
		Contexts: make(map[string]guest.Context),
		Users:    make(map[string]guest.User),
	}
}

// AddContext registers a context record.
func (d *StubDirectory) AddContext(c guest.Context) {
	d.Contexts[c.ID] = c
}

// AddUser registers a user record under its context.
func (d *StubDirectory) AddUser(u guest.User) {
	d.Users[u.ContextID+"/"+u.ID] = u
}

func (d *StubDirectory) ContextByID(_ context.Context, id string) (guest.Context, error) {
	c, ok := d.Contexts[id]
	if !ok {
		return guest.Context{}, apperrors.NotFoundf("context %q not found", id)
	}
	return c, nil
}

func (d *StubDirectory) UserByID(_ context.Context, userID, contextID string) (guest.User, error) {
	u, ok := d.Users[contextID+"/"+userID]
	if !ok {
		return guest.User{}, apperrors.NotFoundf("user %q in context %q not found", userID, contextID)
	}
	return u, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	Sessions map[string]guest.Session
	// Deletes counts Delete calls per session ID.
	Deletes map[string]int
	// SaveErr forces Save to fail when set.
	SaveErr error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		Sessions: make(map[string]guest.Session),
		Deletes:  make(map[string]int),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess guest.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.Sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (guest.Session, error) {
	sess, ok := m.Sessions[id]
	if !ok {
		return guest.Session{}, apperrors.NotFound("session not found")
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.Deletes[id]++
	delete(m.Sessions, id)
	return nil
}
