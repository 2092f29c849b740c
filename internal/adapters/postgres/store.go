package postgres

// Package postgres backs the share resolver and guest directory with the
// groupware database.

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/target/sharelink-gateway/internal/domain/guest"
	"github.com/target/sharelink-gateway/internal/domain/share"
	apperrors "github.com/target/sharelink-gateway/internal/errors"
	"github.com/target/sharelink-gateway/internal/ports"
)

// reservedQueryKeys are transport parameters that never become session
// additionals.
var reservedQueryKeys = map[string]struct{}{
	"delivery": {},
	"dl":       {},
	"session":  {},
}

// Store implements ports.ShareResolver and ports.GuestDirectory on top of a
// pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store over the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Resolve looks up the share token and assembles the access request. A share
// whose target row is gone resolves with InvalidTarget set instead of
// failing, so handlers can still offer a login page.
func (s *Store) Resolve(ctx context.Context, ref ports.Reference) (share.AccessRequest, error) {
	if ref.Token == "" {
		return share.AccessRequest{}, apperrors.New(apperrors.ErrCodeInvalidToken, "empty share token")
	}

	const q = `
		SELECT g.id, g.context_id, g.auth_mode, g.email, g.locale, g.created_by,
		       s.module, s.folder_id, s.item_id,
		       t.kind, t.title
		FROM shares s
		JOIN guests g ON g.id = s.guest_id AND g.context_id = s.context_id
		LEFT JOIN share_targets t
		       ON t.context_id = s.context_id AND t.folder_id = s.folder_id
		WHERE s.token = $1`

	var (
		g           guest.Guest
		authMode    string
		module      int
		folderID    string
		itemID      *string
		targetKind  *string
		targetTitle *string
	)
	row := s.pool.QueryRow(ctx, q, ref.Token)
	err := row.Scan(&g.ID, &g.ContextID, &authMode, &g.Email, &g.Locale, &g.CreatedBy,
		&module, &folderID, &itemID, &targetKind, &targetTitle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return share.AccessRequest{}, apperrors.UnknownShare(ref.Token)
		}
		return share.AccessRequest{}, classify(err, "resolve share")
	}
	g.AuthMode = guest.AuthMode(authMode)

	target := &share.TargetPath{
		Module:      share.Module(module),
		Folder:      folderID,
		Additionals: additionalsFrom(ref),
	}
	if itemID != nil {
		target.Item = *itemID
	}

	var proxy *share.TargetProxy
	invalid := targetKind == nil
	if !invalid {
		proxy = &share.TargetProxy{Kind: share.TargetKind(*targetKind)}
		if targetTitle != nil {
			proxy.Title = *targetTitle
		}
	}

	return share.NewAccessRequest(g, target, proxy, invalid), nil
}

// ContextByID implements ports.GuestDirectory.
func (s *Store) ContextByID(ctx context.Context, id string) (guest.Context, error) {
	const q = `SELECT id, name FROM contexts WHERE id = $1`

	var c guest.Context
	if err := s.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return guest.Context{}, apperrors.NotFoundf("context %q not found", id)
		}
		return guest.Context{}, classify(err, "load context")
	}
	return c, nil
}

// UserByID implements ports.GuestDirectory.
func (s *Store) UserByID(ctx context.Context, userID, contextID string) (guest.User, error) {
	const q = `
		SELECT id, context_id, display_name, login_name,
		       COALESCE(password_hash, ''), COALESCE(locale, '')
		FROM users
		WHERE id = $1 AND context_id = $2`

	var u guest.User
	err := s.pool.QueryRow(ctx, q, userID, contextID).
		Scan(&u.ID, &u.ContextID, &u.DisplayName, &u.LoginName, &u.PasswordHash, &u.Locale)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return guest.User{}, apperrors.NotFoundf("user %q in context %q not found", userID, contextID)
		}
		return guest.User{}, classify(err, "load user")
	}
	return u, nil
}

// additionalsFrom extracts the free-form query additionals carried through
// the login step into the session.
func additionalsFrom(ref ports.Reference) map[string]string {
	if len(ref.Query) == 0 {
		return nil
	}
	out := make(map[string]string, len(ref.Query))
	for key, values := range ref.Query {
		if _, reserved := reservedQueryKeys[key]; reserved {
			continue
		}
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// classify maps database failures into the application error taxonomy.
func classify(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsConnectionException(pgErr.Code):
			return apperrors.Wrap(err, apperrors.ErrCodeServiceDown, op+" failed: database unavailable")
		case pgErr.Code == pgerrcode.UniqueViolation:
			return apperrors.Wrap(err, apperrors.ErrCodeConflict, op+" failed: conflict")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
