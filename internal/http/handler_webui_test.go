package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/sharelink-gateway/internal/domain/guest"
	"github.com/target/sharelink-gateway/internal/domain/share"
	"github.com/target/sharelink-gateway/internal/i18n"
)

const (
	targetTemplate = "/[uiwebpath]#!&session=[session]&store=[store]&app=io.ox/files&folder=[folder]&id=[item]"
	loginTemplate  = "/[uiwebpath]#login_type=guest&language=[language]"
)

func newWebUIHandler(t *testing.T, f *loginFixture) *WebUIHandler {
	t.Helper()
	translator, err := i18n.New()
	require.NoError(t, err)
	return NewWebUIHandler(WebUIOptions{
		Login:          f.Login,
		Directory:      f.Directory,
		Translator:     translator,
		TargetTemplate: targetTemplate,
		LoginTemplate:  loginTemplate,
		UIWebPath:      "/appsuite/",
	})
}

// locationQuery parses the parameter list of the redirect location, whether
// it follows a "?" or continues a fragment parameter list with "&".
func locationQuery(t *testing.T, rec *httptest.ResponseRecorder) url.Values {
	t.Helper()
	location := rec.Header().Get("Location")
	i := strings.IndexAny(location, "?&")
	require.GreaterOrEqual(t, i, 0, "location %q carries no parameters", location)
	values, err := url.ParseQuery(location[i+1:])
	require.NoError(t, err)
	return values
}

func TestWebUIHandler_Rank(t *testing.T) {
	h := newWebUIHandler(t, newLoginFixture(t))
	assert.Equal(t, RankCatchAll, h.Rank())
}

func TestWebUIHandler_SilentLoginForAnonymousGuest(t *testing.T) {
	f := newLoginFixture(t)
	f.addGuestUser(guest.User{ID: "7", ContextID: "1", LoginName: "guest@example.com"})
	h := newWebUIHandler(t, f)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/tok", nil)

	access := share.NewAccessRequest(
		guest.Guest{ID: "7", ContextID: "1", AuthMode: guest.AuthAnonymous},
		&share.TargetPath{Module: share.ModuleInfostore, Folder: "f42", Item: "i9"},
		&share.TargetProxy{Kind: share.TargetFile, Title: "report.pdf"},
		false,
	)
	reply, err := h.Handle(rec, req, access)
	require.NoError(t, err)
	assert.Equal(t, ReplyAccept, reply)
	assert.Equal(t, http.StatusFound, rec.Code)

	require.Len(t, f.Sessions.Sessions, 1)
	var sess guest.Session
	for _, s := range f.Sessions.Sessions {
		sess = s
	}

	location := rec.Header().Get("Location")
	assert.Equal(t,
		"/appsuite#!&session="+sess.ID+"&store=false&app=io.ox/files&folder=f42&id=i9",
		location)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sess.ID, cookies[0].Value)
}

func TestWebUIHandler_SessionSaveFailureIsDenied(t *testing.T) {
	f := newLoginFixture(t)
	f.addGuestUser(guest.User{ID: "7", ContextID: "1"})
	f.Sessions.SaveErr = errors.New("redis at 10.0.0.3: connection refused")
	h := newWebUIHandler(t, f)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/tok", nil)

	access := share.NewAccessRequest(
		guest.Guest{ID: "7", ContextID: "1", AuthMode: guest.AuthAnonymous},
		&share.TargetPath{Module: share.ModuleInfostore, Folder: "f42"},
		nil, false)
	reply, err := h.Handle(rec, req, access)
	require.NoError(t, err)
	assert.Equal(t, ReplyDeny, reply)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Only the clean user-facing message may leave the server; the cause
	// chain with store internals stays in the logs.
	body := errorBody(t, rec)
	assert.Equal(t, "login_failed", body["error"])
	assert.NotContains(t, body["message"], "10.0.0.3")
	assert.NotContains(t, body["message"], "connection refused")
	assert.NotContains(t, body["message"], "save session")
}

func TestWebUIHandler_ReusesCookieSession(t *testing.T) {
	f := newLoginFixture(t)
	f.addGuestUser(guest.User{ID: "7", ContextID: "1", LoginName: "guest@example.com"})
	f.Sessions.Sessions["s1"] = guest.Session{
		ID: "s1", UserID: "7", ContextID: "1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	h := newWebUIHandler(t, f)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/tok", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})

	access := share.NewAccessRequest(
		guest.Guest{ID: "7", ContextID: "1", AuthMode: guest.AuthAnonymous},
		&share.TargetPath{Module: share.ModuleInfostore, Folder: "f42", Item: "i9"},
		nil, false)
	reply, err := h.Handle(rec, req, access)
	require.NoError(t, err)
	assert.Equal(t, ReplyAccept, reply)

	// The existing session is reused; no second login happens.
	assert.Len(t, f.Sessions.Sessions, 1)
	assert.Contains(t, rec.Header().Get("Location"), "session=s1")
}

func TestWebUIHandler_SilentLoginWithInvalidTarget(t *testing.T) {
	f := newLoginFixture(t)
	h := newWebUIHandler(t, f)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/tok", nil)

	access := share.NewAccessRequest(
		guest.Guest{ID: "7", ContextID: "1", AuthMode: guest.AuthGuest, Locale: "de-DE"},
		nil, nil, true)
	reply, err := h.Handle(rec, req, access)
	require.NoError(t, err)
	assert.Equal(t, ReplyAccept, reply)
	assert.Equal(t, http.StatusFound, rec.Code)

	// No session for a share whose target is gone; the guest lands on the
	// login page with a localized explanation instead.
	assert.Empty(t, f.Sessions.Sessions)
	q := locationQuery(t, rec)
	assert.Equal(t, "Die gesuchte Freigabe existiert nicht mehr.", q.Get("message"))
}

func TestWebUIHandler_PasswordGuestGetsCredentialPage(t *testing.T) {
	f := newLoginFixture(t)
	f.addGuestUser(guest.User{ID: "7", ContextID: "1", PasswordHash: "x"})
	f.Directory.AddUser(guest.User{ID: "3", ContextID: "1", DisplayName: "Alice Example"})
	h := newWebUIHandler(t, f)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/tok", nil)

	access := share.NewAccessRequest(
		guest.Guest{
			ID: "7", ContextID: "1",
			AuthMode:  guest.AuthGuestPassword,
			Email:     "guest@example.com",
			CreatedBy: "3",
		},
		&share.TargetPath{Module: share.ModuleInfostore, Folder: "f42"},
		&share.TargetProxy{Kind: share.TargetFolder, Title: "photos"},
		false,
	)
	reply, err := h.Handle(rec, req, access)
	require.NoError(t, err)
	assert.Equal(t, ReplyAccept, reply)
	assert.Equal(t, http.StatusFound, rec.Code)

	// Password guests never get a silent session.
	assert.Empty(t, f.Sessions.Sessions)

	q := locationQuery(t, rec)
	assert.Equal(t, `Alice Example has shared the folder "photos" with you.`, q.Get("message"))
	assert.Equal(t, "guest@example.com", q.Get("login_name"))
}

func TestWebUIHandler_AnonymousPasswordOmitsLoginHint(t *testing.T) {
	f := newLoginFixture(t)
	f.Directory.AddUser(guest.User{ID: "3", ContextID: "1", DisplayName: "Alice Example"})
	h := newWebUIHandler(t, f)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/tok", nil)

	access := share.NewAccessRequest(
		guest.Guest{ID: "7", ContextID: "1", AuthMode: guest.AuthAnonymousPassword, CreatedBy: "3"},
		&share.TargetPath{Module: share.ModuleInfostore, Folder: "f42"},
		&share.TargetProxy{Kind: share.TargetFile, Title: "report.pdf"},
		false,
	)
	_, err := h.Handle(rec, req, access)
	require.NoError(t, err)

	q := locationQuery(t, rec)
	assert.Equal(t, `Alice Example has shared the file "report.pdf" with you.`, q.Get("message"))
	assert.Empty(t, q.Get("login_name"))
}

func TestWebUIHandler_UnresolvableSharerFallsBackToSomeone(t *testing.T) {
	f := newLoginFixture(t) // sharer record missing
	h := newWebUIHandler(t, f)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/tok", nil)

	access := share.NewAccessRequest(
		guest.Guest{ID: "7", ContextID: "1", AuthMode: guest.AuthGuestPassword, CreatedBy: "3"},
		&share.TargetPath{Module: share.ModuleInfostore, Folder: "f42"},
		nil, false)
	_, err := h.Handle(rec, req, access)
	require.NoError(t, err)

	q := locationQuery(t, rec)
	assert.Equal(t, "Someone has shared items with you.", q.Get("message"))
}

func TestWebUIHandler_CredentialPageMentionsGoneTarget(t *testing.T) {
	f := newLoginFixture(t)
	f.Directory.AddUser(guest.User{ID: "3", ContextID: "1", DisplayName: "Alice Example"})
	h := newWebUIHandler(t, f)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/tok", nil)

	access := share.NewAccessRequest(
		guest.Guest{ID: "7", ContextID: "1", AuthMode: guest.AuthGuestPassword, CreatedBy: "3"},
		nil, &share.TargetProxy{Kind: share.TargetFolder, Title: "photos"}, true)
	_, err := h.Handle(rec, req, access)
	require.NoError(t, err)

	q := locationQuery(t, rec)
	assert.Equal(t,
		"Alice Example has shared items with you. The share you are looking for does not exist anymore.",
		q.Get("message"))
}

func TestWebUIHandler_UnknownAuthModeStaysNeutral(t *testing.T) {
	f := newLoginFixture(t)
	h := newWebUIHandler(t, f)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/tok", nil)

	access := share.NewAccessRequest(
		guest.Guest{ID: "7", ContextID: "1", AuthMode: guest.AuthMode("saml")},
		&share.TargetPath{Module: share.ModuleInfostore, Folder: "f42"},
		nil, false)
	reply, err := h.Handle(rec, req, access)
	require.NoError(t, err)
	assert.Equal(t, ReplyNeutral, reply)
}

func TestWebUIHandler_UnknownGuestPropagates(t *testing.T) {
	f := newLoginFixture(t) // directory left empty
	h := newWebUIHandler(t, f)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/tok", nil)

	access := share.NewAccessRequest(
		guest.Guest{ID: "7", ContextID: "1", AuthMode: guest.AuthAnonymous},
		&share.TargetPath{Module: share.ModuleInfostore, Folder: "f42"},
		nil, false)
	reply, err := h.Handle(rec, req, access)
	require.Error(t, err)
	assert.Equal(t, ReplyDeny, reply)
}
