package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/target/sharelink-gateway/internal/domain/guest"
	"github.com/target/sharelink-gateway/internal/domain/share"
)

// SessionCookieName is the cookie carrying the guest session ID.
const SessionCookieName = "share_session_id"

// setSessionCookie writes the session cookie based on the session's expiry.
// Transient sessions get a session-scoped cookie (no Max-Age) so the browser
// drops it when the window closes.
func setSessionCookie(w http.ResponseWriter, r *http.Request, sess guest.Session, domain string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if !sess.IsTransient() {
		cookie.MaxAge = int(time.Until(sess.ExpiresAt).Seconds())
	}
	http.SetCookie(w, cookie)
}

// reusableSession returns the live session referenced by the request's
// session cookie, when it belongs to the resolved guest. Transient sessions
// and sessions of other principals are never reused.
func reusableSession(r *http.Request, login GuestLoginService, req share.AccessRequest) (guest.Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return guest.Session{}, false
	}
	sess, err := login.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return guest.Session{}, false
	}
	if sess.IsTransient() || sess.UserID != req.Guest.ID || sess.ContextID != req.Guest.ContextID {
		return guest.Session{}, false
	}
	return sess, true
}
