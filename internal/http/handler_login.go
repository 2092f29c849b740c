package httpx

import (
	"net/http"

	"github.com/target/sharelink-gateway/internal/domain/share"
)

// LoginScreenOptions groups dependencies for NewLoginScreenHandler.
type LoginScreenOptions struct {
	Template  string // login screen URL template
	UIWebPath string
}

// LoginScreenHandler sends browser-like clients to the product's standard
// login screen instead of authenticating the guest directly. Non-browser
// agents are left to the rest of the chain.
type LoginScreenHandler struct {
	NoNotFoundHandling
	template  string
	uiWebPath string
}

// NewLoginScreenHandler constructs a LoginScreenHandler.
func NewLoginScreenHandler(opts LoginScreenOptions) *LoginScreenHandler {
	return &LoginScreenHandler{
		template:  opts.Template,
		uiWebPath: opts.UIWebPath,
	}
}

// Rank implements Handler.
func (h *LoginScreenHandler) Rank() int { return RankLoginScreen }

// Handle implements Handler.
func (h *LoginScreenHandler) Handle(w http.ResponseWriter, r *http.Request, req share.AccessRequest) (Reply, error) {
	if !isBrowserAgent(r.UserAgent()) {
		return ReplyNeutral, nil
	}
	location := BuildRedirectURL(h.template, RedirectValues{
		UIWebPath: h.uiWebPath,
		Language:  req.Guest.Locale,
	})
	http.Redirect(w, r, location, http.StatusFound)
	return ReplyAccept, nil
}
