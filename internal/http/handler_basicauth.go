package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/target/sharelink-gateway/internal/domain/guest"
	"github.com/target/sharelink-gateway/internal/domain/share"
	apperrors "github.com/target/sharelink-gateway/internal/errors"
	"github.com/target/sharelink-gateway/internal/service"
)

// basicAuthGate implements the Basic-Auth gated handling template: an
// applicability predicate, credential-checked login, a response hook on the
// resolved share, and a keep-session policy. Handlers built on it differ
// only in predicate and hook.
type basicAuthGate struct {
	login       GuestLoginService
	logger      *slog.Logger
	realm       string
	keepSession bool
	handles     func(r *http.Request, req share.AccessRequest) bool
	respond     func(w http.ResponseWriter, r *http.Request, resolved share.Resolved) error
}

// run executes the gate for one request. On bad or missing credentials it
// challenges for Basic auth and denies without creating a session. When the
// gate does not keep sessions, the session created here is logged out after
// the response has been fully written, success or failure.
func (g *basicAuthGate) run(w http.ResponseWriter, r *http.Request, req share.AccessRequest, cfg share.LoginConfig) (Reply, error) {
	if !g.handles(r, req) {
		return ReplyNeutral, nil
	}

	ctx := r.Context()
	method, err := g.login.ShareLoginMethod(ctx, req)
	if err != nil {
		return ReplyDeny, err
	}

	var creds *service.Credentials
	if user, pass, ok := r.BasicAuth(); ok {
		creds = &service.Credentials{Login: user, Password: pass}
	}

	sess, err := g.login.Login(ctx, method, cfg, creds)
	if err != nil {
		if apperrors.IsInvalidCredentials(err) {
			g.challenge(w)
			return ReplyDeny, nil
		}
		return ReplyDeny, apperrors.WrapUnexpected(err)
	}

	if !g.keepSession {
		// Logout must not depend on a writable response or a live request
		// context; it runs after respond returns, best-effort.
		defer g.teardown(context.WithoutCancel(ctx), sess)
	}

	if respondErr := g.respond(w, r, share.NewResolved(req, sess, cfg)); respondErr != nil {
		return ReplyDeny, apperrors.WrapIO(respondErr)
	}
	return ReplyAccept, nil
}

func (g *basicAuthGate) teardown(ctx context.Context, sess guest.Session) {
	if err := g.login.Logout(ctx, sess.ID); err != nil {
		g.logger.WarnContext(ctx, "share session logout failed",
			slog.Any("error", err),
			slog.String("session", sess.ID),
		)
	}
}

// challenge triggers the transport's credential prompt.
func (g *basicAuthGate) challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", g.realm))
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

// notFound writes a transport error when the gate would have handled a
// request for the now-invalid target, and stays neutral otherwise.
func (g *basicAuthGate) notFound(w http.ResponseWriter, r *http.Request, status int) (Reply, error) {
	synthetic := share.NewAccessRequest(guest.Guest{}, nil, nil, true)
	if !g.handles(r, synthetic) {
		return ReplyNeutral, nil
	}
	WriteError(w, ErrorParams{
		Code:    status,
		ErrCode: string(apperrors.ErrCodeUnknownShare),
		Err:     errors.New("share not found"),
	})
	return ReplyAccept, nil
}

// indicatesDownload reports whether the request asks for the resolved
// content as an attachment, via delivery=download or dl=1|true.
func indicatesDownload(r *http.Request) bool {
	q := r.URL.Query()
	if strings.EqualFold(q.Get("delivery"), "download") {
		return true
	}
	switch strings.ToLower(q.Get("dl")) {
	case "1", "true":
		return true
	}
	return false
}

// CalendarDownloadOptions groups dependencies for NewCalendarDownloadHandler.
type CalendarDownloadOptions struct {
	Login     GuestLoginService
	Template  string // ICS endpoint URL template
	UIWebPath string
	Realm     string
	Logger    *slog.Logger
}

// CalendarDownloadHandler intercepts calendar shares accessed by non-browser
// clients (Outlook and other ICS consumers) and authenticates them via HTTP
// Basic auth before redirecting to the ICS endpoint. Sessions opened this way
// are transient and torn down after the request.
type CalendarDownloadHandler struct {
	gate      basicAuthGate
	template  string
	uiWebPath string
}

// NewCalendarDownloadHandler constructs a CalendarDownloadHandler.
func NewCalendarDownloadHandler(opts CalendarDownloadOptions) *CalendarDownloadHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	realm := opts.Realm
	if realm == "" {
		realm = "share"
	}
	h := &CalendarDownloadHandler{
		template:  opts.Template,
		uiWebPath: opts.UIWebPath,
	}
	h.gate = basicAuthGate{
		login:       opts.Login,
		logger:      logger,
		realm:       realm,
		keepSession: false,
		handles:     h.handles,
		respond:     h.respond,
	}
	return h
}

// Rank implements Handler.
func (h *CalendarDownloadHandler) Rank() int { return RankCalendarDownload }

// Handle implements Handler.
func (h *CalendarDownloadHandler) Handle(w http.ResponseWriter, r *http.Request, req share.AccessRequest) (Reply, error) {
	cfg := share.LoginConfig{Transient: true, UIWebPath: h.uiWebPath}
	return h.gate.run(w, r, req, cfg)
}

// HandleNotFound implements Handler.
func (h *CalendarDownloadHandler) HandleNotFound(w http.ResponseWriter, r *http.Request, status int) (Reply, error) {
	return h.gate.notFound(w, r, status)
}

// handles claims calendar targets requested by non-browser agents, and any
// invalid-target request from such agents.
func (h *CalendarDownloadHandler) handles(r *http.Request, req share.AccessRequest) bool {
	if isBrowserAgent(r.UserAgent()) {
		return false
	}
	if req.InvalidTarget {
		return true
	}
	return req.Target != nil && req.Target.Module == share.ModuleCalendar
}

func (h *CalendarDownloadHandler) respond(w http.ResponseWriter, r *http.Request, resolved share.Resolved) error {
	values := RedirectValues{
		Session:   resolved.Session.ID,
		UserID:    resolved.UserID,
		UIWebPath: resolved.Config.UIWebPath,
	}
	if target := resolved.Request.Target; target != nil {
		values.Module = target.Module.Name()
		values.Folder = target.Folder
		if target.HasItem() {
			values.Item = target.Item
			values.ItemSet = true
		}
	}
	location := BuildRedirectURL(h.template, values)
	if indicatesDownload(r) {
		location = appendQueryParam(location, "delivery", "download")
	}
	http.Redirect(w, r, location, http.StatusFound)
	return nil
}

// appendQueryParam adds one query parameter to a URL that may already carry
// a query or fragment-style parameter list.
func appendQueryParam(rawURL, key, value string) string {
	sep := "?"
	if strings.ContainsAny(rawURL, "?&") {
		sep = "&"
	}
	return rawURL + sep + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}
