package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/target/sharelink-gateway/internal/domain/guest"
	"github.com/target/sharelink-gateway/internal/domain/share"
	apperrors "github.com/target/sharelink-gateway/internal/errors"
	"github.com/target/sharelink-gateway/internal/i18n"
	"github.com/target/sharelink-gateway/internal/ports"
)

// Translator is the slice of the localization service the web UI handler
// needs for composing user-visible messages.
type Translator interface {
	Translate(locale string, key i18n.Key, args ...any) string
	ShareMessage(locale, sharer string, proxy *share.TargetProxy) string
}

// WebUIOptions groups dependencies for NewWebUIHandler.
type WebUIOptions struct {
	Login          GuestLoginService
	Directory      ports.GuestDirectory
	Translator     Translator
	TargetTemplate string // URL template pointing into the resolved target
	LoginTemplate  string // URL template of the credential-entry page
	UIWebPath      string
	AutoLogin      bool
	CookieDomain   string
	Logger         *slog.Logger
}

// WebUIHandler implements the web UI decision: guests that need no password
// get a silent session and land directly in the target; password-protected
// guests are always sent to the credential page with a localized message
// explaining who shared what with them.
type WebUIHandler struct {
	NoNotFoundHandling
	login          GuestLoginService
	directory      ports.GuestDirectory
	translator     Translator
	targetTemplate string
	loginTemplate  string
	uiWebPath      string
	autoLogin      bool
	cookieDomain   string
	logger         *slog.Logger
}

// NewWebUIHandler constructs a WebUIHandler.
func NewWebUIHandler(opts WebUIOptions) *WebUIHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WebUIHandler{
		login:          opts.Login,
		directory:      opts.Directory,
		translator:     opts.Translator,
		targetTemplate: opts.TargetTemplate,
		loginTemplate:  opts.LoginTemplate,
		uiWebPath:      opts.UIWebPath,
		autoLogin:      opts.AutoLogin,
		cookieDomain:   opts.CookieDomain,
		logger:         logger,
	}
}

// Rank implements Handler.
func (h *WebUIHandler) Rank() int { return RankCatchAll }

// Handle implements Handler.
func (h *WebUIHandler) Handle(w http.ResponseWriter, r *http.Request, req share.AccessRequest) (Reply, error) {
	switch {
	case req.Guest.AuthMode.RequiresPassword():
		return h.handleCredentialPage(w, r, req)
	case req.Guest.AuthMode == guest.AuthAnonymous || req.Guest.AuthMode == guest.AuthGuest:
		return h.handleSilent(w, r, req)
	default:
		return ReplyNeutral, nil
	}
}

// handleSilent establishes a session without credentials and redirects into
// the target. An invalid target still yields a usable login page so the
// guest is not stranded on a bare 404.
func (h *WebUIHandler) handleSilent(w http.ResponseWriter, r *http.Request, req share.AccessRequest) (Reply, error) {
	ctx := r.Context()
	if req.InvalidTarget {
		message := h.translator.Translate(req.Guest.Locale, i18n.KeyShareGone)
		http.Redirect(w, r, h.loginPageURL(req, message, ""), http.StatusFound)
		return ReplyAccept, nil
	}

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
		location := BuildRedirectURL(h.targetTemplate, RedirectValuesFor(req, sess, cfg, method.User))
		http.Redirect(w, r, location, http.StatusFound)
		return ReplyAccept, nil
	}

	sess, err := h.login.Login(ctx, method, cfg, nil)
	if err != nil {
		h.logger.ErrorContext(ctx, "silent guest login failed",
			slog.Any("error", err),
			slog.String("guest", req.Guest.ID),
		)
		WriteError(w, ErrorParams{
			Code:    apperrors.StatusCode(err),
			ErrCode: "login_failed",
			Err:     errors.New(apperrors.UserMessage(err)),
		})
		return ReplyDeny, nil
	}

	setSessionCookie(w, r, sess, h.cookieDomain)
	location := BuildRedirectURL(h.targetTemplate, RedirectValuesFor(req, sess, cfg, method.User))
	http.Redirect(w, r, location, http.StatusFound)
	return ReplyAccept, nil
}

// handleCredentialPage never authenticates silently: it always redirects to
// the credential page, pre-filling a localized explanatory message and, for
// password guests, a login-name hint.
func (h *WebUIHandler) handleCredentialPage(w http.ResponseWriter, r *http.Request, req share.AccessRequest) (Reply, error) {
	locale := req.Guest.Locale
	message := h.translator.ShareMessage(locale, h.sharerName(r, req), req.Proxy)
	if req.InvalidTarget {
		message += " " + h.translator.Translate(locale, i18n.KeyShareGone)
	}

	loginHint := ""
	if req.Guest.AuthMode == guest.AuthGuestPassword {
		loginHint = req.Guest.Email
	}
	http.Redirect(w, r, h.loginPageURL(req, message, loginHint), http.StatusFound)
	return ReplyAccept, nil
}

// sharerName resolves the display name of the user who created the share.
func (h *WebUIHandler) sharerName(r *http.Request, req share.AccessRequest) string {
	sharer, err := h.directory.UserByID(r.Context(), req.Guest.CreatedBy, req.Guest.ContextID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "sharer lookup failed",
			slog.Any("error", err),
			slog.String("sharer", req.Guest.CreatedBy),
		)
		return h.translator.Translate(req.Guest.Locale, i18n.KeySomeone)
	}
	return sharer.DisplayName
}

// loginPageURL builds the credential page URL with the status message and
// optional login-name hint carried as query parameters.
func (h *WebUIHandler) loginPageURL(req share.AccessRequest, message, loginHint string) string {
	base := BuildRedirectURL(h.loginTemplate, RedirectValues{
		UIWebPath: h.uiWebPath,
		Language:  req.Guest.Locale,
	})
	q := url.Values{}
	if message != "" {
		q.Set("message", message)
	}
	if loginHint != "" {
		q.Set("login_name", loginHint)
	}
	if len(q) == 0 {
		return base
	}
	sep := "?"
	if strings.ContainsAny(base, "?&") {
		sep = "&"
	}
	return base + sep + q.Encode()
}
