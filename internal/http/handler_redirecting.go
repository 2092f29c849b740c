package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/sharelink-gateway/internal/domain/share"
	apperrors "github.com/target/sharelink-gateway/internal/errors"
)

// RedirectingOptions groups dependencies for NewRedirectingHandler.
type RedirectingOptions struct {
	Login        GuestLoginService
	Template     string // legacy web client URL template
	UIWebPath    string
	AutoLogin    bool
	CookieDomain string
	Logger       *slog.Logger
}

// RedirectingHandler is the catch-all: it unconditionally claims the
// request, logs the guest in silently, and redirects the browser into the
// legacy web client with the share parameters embedded in the URL. Sessions
// opened this way persist beyond the request.
type RedirectingHandler struct {
	NoNotFoundHandling
	login        GuestLoginService
	template     string
	uiWebPath    string
	autoLogin    bool
	cookieDomain string
	logger       *slog.Logger
}

// NewRedirectingHandler constructs a RedirectingHandler.
func NewRedirectingHandler(opts RedirectingOptions) *RedirectingHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RedirectingHandler{
		login:        opts.Login,
		template:     opts.Template,
		uiWebPath:    opts.UIWebPath,
		autoLogin:    opts.AutoLogin,
		cookieDomain: opts.CookieDomain,
		logger:       logger,
	}
}

// Rank implements Handler.
func (h *RedirectingHandler) Rank() int { return RankCatchAll }

// Handle implements Handler.
func (h *RedirectingHandler) Handle(w http.ResponseWriter, r *http.Request, req share.AccessRequest) (Reply, error) {
	ctx := r.Context()
	method, err := h.login.ShareLoginMethod(ctx, req)
	if err != nil {
		return ReplyDeny, err
	}

	cfg := share.LoginConfig{
		Transient: false,
		AutoLogin: h.autoLogin,
		UIWebPath: h.uiWebPath,
	}

	if sess, ok := reusableSession(r, h.login, req); ok {
		location := BuildRedirectURL(h.template, RedirectValuesFor(req, sess, cfg, method.User))
		http.Redirect(w, r, location, http.StatusFound)
		return ReplyAccept, nil
	}

	sess, err := h.login.Login(ctx, method, cfg, nil)
	if err != nil {
		return ReplyDeny, apperrors.WrapUnexpected(err)
	}

	setSessionCookie(w, r, sess, h.cookieDomain)
	location := BuildRedirectURL(h.template, RedirectValuesFor(req, sess, cfg, method.User))
	http.Redirect(w, r, location, http.StatusFound)
	return ReplyAccept, nil
}
