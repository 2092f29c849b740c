package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/target/sharelink-gateway/internal/domain/guest"
	"github.com/target/sharelink-gateway/internal/domain/share"
	apperrors "github.com/target/sharelink-gateway/internal/errors"
	"github.com/target/sharelink-gateway/internal/ports"
)

// SessionParamPrefix is the namespace under which target-path additionals
// are copied into the session's parameter map.
const SessionParamPrefix = "share."

const defaultSessionTTL = 30 * time.Minute

// LoginServiceOptions groups dependencies for LoginService.
type LoginServiceOptions struct {
	Directory  ports.GuestDirectory
	Sessions   ports.SessionStore
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// LoginService performs guest logins for share access: it primes a login
// method from the resolved guest, creates sessions (silent or
// credential-checked), and tears them down again.
type LoginService struct {
	directory ports.GuestDirectory
	sessions  ports.SessionStore
	ttl       time.Duration
	logger    *slog.Logger
}

// NewLoginService constructs a new LoginService.
func NewLoginService(opts LoginServiceOptions) *LoginService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginService{
		directory: opts.Directory,
		sessions:  opts.Sessions,
		ttl:       ttl,
		logger:    logger,
	}
}

// LoginMethod bundles the resolved context, user, and pending session
// enhancement for one guest login. The enhancement is applied by Login at
// session creation time; nothing mutates a live session from outside.
type LoginMethod struct {
	Context     guest.Context
	User        guest.User
	Enhancement map[string]string
}

// Credentials carry an optional login name and password for
// credential-checked logins.
type Credentials struct {
	Login    string
	Password string
}

// ShareLoginMethod resolves the guest's owning context and user records and
// builds the session-enhancement payload from the request's target-path
// additionals. Fails with an unknown-guest error when either lookup misses.
func (s *LoginService) ShareLoginMethod(ctx context.Context, req share.AccessRequest) (LoginMethod, error) {
	gctx, err := s.directory.ContextByID(ctx, req.Guest.ContextID)
	if err != nil {
		return LoginMethod{}, apperrors.Wrapf(err, apperrors.ErrCodeUnknownGuest,
			"context %q for guest %q not found", req.Guest.ContextID, req.Guest.ID)
	}
	user, err := s.directory.UserByID(ctx, req.Guest.ID, req.Guest.ContextID)
	if err != nil {
		return LoginMethod{}, apperrors.Wrapf(err, apperrors.ErrCodeUnknownGuest,
			"guest user %q in context %q not found", req.Guest.ID, req.Guest.ContextID)
	}

	var enhancement map[string]string
	if req.Target != nil && len(req.Target.Additionals) > 0 {
		enhancement = make(map[string]string, len(req.Target.Additionals))
		for k, v := range req.Target.Additionals {
			enhancement[SessionParamPrefix+k] = v
		}
	}

	return LoginMethod{Context: gctx, User: user, Enhancement: enhancement}, nil
}

// Login establishes a guest session. When the guest's user record carries a
// password hash, credentials are required and checked; otherwise the login
// is silent and creds are ignored.
func (s *LoginService) Login(ctx context.Context, method LoginMethod, cfg share.LoginConfig, creds *Credentials) (guest.Session, error) {
	if method.User.PasswordHash != "" {
		if creds == nil {
			return guest.Session{}, apperrors.InvalidCredentials("credentials required")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(method.User.PasswordHash), []byte(creds.Password)); err != nil {
			return guest.Session{}, apperrors.InvalidCredentials("invalid credentials")
		}
	}

	sess := guest.Session{
		ID:         uuid.New().String(),
		UserID:     method.User.ID,
		ContextID:  method.Context.ID,
		Transient:  cfg.Transient,
		Parameters: method.Enhancement,
		ExpiresAt:  time.Now().Add(s.ttl),
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return guest.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a session by ID, cleaning up expired entries.
func (s *LoginService) GetSession(ctx context.Context, sessionID string) (guest.Session, error) {
	if sessionID == "" {
		return guest.Session{}, apperrors.NotFound("session ID is required")
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return guest.Session{}, fmt.Errorf("get session: %w", err)
	}
	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			s.logger.WarnContext(ctx, "delete expired session failed", "error", deleteErr)
		}
		return guest.Session{}, apperrors.NotFound("session expired")
	}
	return sess, nil
}

// Logout removes a session. A missing ID is not an error.
func (s *LoginService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
