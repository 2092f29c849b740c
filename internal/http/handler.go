package httpx

import (
	"context"
	"math"
	"net/http"

	"github.com/target/sharelink-gateway/internal/domain/guest"
	"github.com/target/sharelink-gateway/internal/domain/share"
	"github.com/target/sharelink-gateway/internal/service"
)

// Reply is the three-valued outcome of handling a share request.
type Reply int

const (
	// ReplyNeutral means the handler has no opinion; the chain continues.
	ReplyNeutral Reply = iota
	// ReplyDeny means the handler owns the request and rejected it.
	ReplyDeny
	// ReplyAccept means the handler owns the request and wrote the response.
	ReplyAccept
)

func (r Reply) String() string {
	switch r {
	case ReplyDeny:
		return "DENY"
	case ReplyAccept:
		return "ACCEPT"
	default:
		return "NEUTRAL"
	}
}

// Rank ordering weights. Higher ranks are tried first; ties keep
// registration order.
const (
	// RankMin is almost certain to lose.
	RankMin = math.MinInt
	// RankCatchAll is the rank of the generic redirect and web UI handlers.
	RankCatchAll = 0
	// RankLoginScreen is tried before the catch-all handlers.
	RankLoginScreen = 10
	// RankCalendarDownload intercepts calendar clients before any web handler.
	RankCalendarDownload = 20
	// RankMax is almost certain to win.
	RankMax = math.MaxInt
)

// Handler decides whether it owns a resolved share request and, if so,
// authenticates the guest and writes the response.
type Handler interface {
	// Rank is the ordering weight of the handler in the chain.
	Rank() int
	// Handle processes the request. A ReplyNeutral result means the next
	// handler in the chain is tried; any error stops the chain and is
	// translated to an HTTP status at the dispatcher boundary.
	Handle(w http.ResponseWriter, r *http.Request, req share.AccessRequest) (Reply, error)
	// HandleNotFound is invoked when no handler claimed the request and the
	// target could not be resolved.
	HandleNotFound(w http.ResponseWriter, r *http.Request, status int) (Reply, error)
}

// NoNotFoundHandling provides the default no-opinion not-found response.
// Embed it in handlers that only care about resolvable shares.
type NoNotFoundHandling struct{}

// HandleNotFound returns ReplyNeutral without side effects.
func (NoNotFoundHandling) HandleNotFound(http.ResponseWriter, *http.Request, int) (Reply, error) {
	return ReplyNeutral, nil
}

// GuestLoginService is the slice of the login service the handlers need.
type GuestLoginService interface {
	ShareLoginMethod(ctx context.Context, req share.AccessRequest) (service.LoginMethod, error)
	Login(ctx context.Context, method service.LoginMethod, cfg share.LoginConfig, creds *service.Credentials) (guest.Session, error)
	GetSession(ctx context.Context, sessionID string) (guest.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// browserAgentPrefixes are the user-agent prefixes treated as browsers.
var browserAgentPrefixes = []string{"Mozilla/", "Opera/"}

// isBrowserAgent reports whether the user agent looks like an interactive
// browser rather than a sync client.
func isBrowserAgent(userAgent string) bool {
	for _, prefix := range browserAgentPrefixes {
		if len(userAgent) >= len(prefix) && userAgent[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
