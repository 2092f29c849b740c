package httpx

import (
	"strconv"
	"strings"

	"github.com/target/sharelink-gateway/internal/domain/guest"
	"github.com/target/sharelink-gateway/internal/domain/share"
)

// Redirect URL templates contain literal bracketed placeholders. Substitution
// is literal string replacement, one placeholder at a time, in the fixed
// order below. Every replacement value is escaped first so it can never be
// interpreted as a replacement token itself, which makes substitution
// idempotent.
const (
	placeholderUIWebPath = "[uiwebpath]"
	placeholderSession   = "[session]"
	placeholderStore     = "[store]"
	placeholderUser      = "[user]"
	placeholderUserID    = "[user_id]"
	placeholderLanguage  = "[language]"
	placeholderModule    = "[module]"
	placeholderFolder    = "[folder]"
	placeholderItem      = "[item]"
)

// RedirectValues carries the substitution values for one redirect URL.
type RedirectValues struct {
	Session   string
	Store     bool // whether the login configuration enables auto-login
	User      string
	UserID    string
	Language  string
	Module    string
	Folder    string
	Item      string
	ItemSet   bool // [item] is substituted only when the target is one item
	UIWebPath string
}

// BuildRedirectURL substitutes the bracketed placeholders of template with
// the given values. When ItemSet is false the [item] placeholder and its
// surrounding segment are omitted entirely.
func BuildRedirectURL(template string, v RedirectValues) string {
	out := template
	if !v.ItemSet {
		out = removeItemSegment(out)
	}
	out = strings.ReplaceAll(out, placeholderUIWebPath, escapeValue(trimUIWebPath(v.UIWebPath)))
	out = strings.ReplaceAll(out, placeholderSession, escapeValue(v.Session))
	out = strings.ReplaceAll(out, placeholderStore, strconv.FormatBool(v.Store))
	out = strings.ReplaceAll(out, placeholderUser, escapeValue(v.User))
	out = strings.ReplaceAll(out, placeholderUserID, escapeValue(v.UserID))
	out = strings.ReplaceAll(out, placeholderLanguage, escapeValue(v.Language))
	out = strings.ReplaceAll(out, placeholderModule, escapeValue(v.Module))
	out = strings.ReplaceAll(out, placeholderFolder, escapeValue(v.Folder))
	if v.ItemSet {
		out = strings.ReplaceAll(out, placeholderItem, escapeValue(v.Item))
	}
	return out
}

// RedirectValuesFor derives the substitution values for a successfully
// resolved share from the request, session, login config, and user record.
func RedirectValuesFor(req share.AccessRequest, sess guest.Session, cfg share.LoginConfig, user guest.User) RedirectValues {
	language := user.Locale
	if language == "" {
		language = req.Guest.Locale
	}
	v := RedirectValues{
		Session:   sess.ID,
		Store:     cfg.AutoLogin,
		User:      user.LoginName,
		UserID:    user.ID,
		Language:  language,
		UIWebPath: cfg.UIWebPath,
	}
	if req.Target != nil {
		v.Module = req.Target.Module.Name()
		v.Folder = req.Target.Folder
		if req.Target.HasItem() {
			v.Item = req.Target.Item
			v.ItemSet = true
		}
	}
	return v
}

// escapeValue escapes the placeholder brackets of a replacement value so a
// substituted value can never form a placeholder.
func escapeValue(s string) string {
	s = strings.ReplaceAll(s, "[", "%5B")
	return strings.ReplaceAll(s, "]", "%5D")
}

// trimUIWebPath strips a single leading and a single trailing slash.
func trimUIWebPath(s string) string {
	s = strings.TrimPrefix(s, "/")
	return strings.TrimSuffix(s, "/")
}

// removeItemSegment drops the [item] placeholder together with the path or
// query segment carrying it, e.g. "&i=[item]" or "/[item]".
func removeItemSegment(template string) string {
	idx := strings.Index(template, placeholderItem)
	if idx < 0 {
		return template
	}
	end := idx + len(placeholderItem)
	start := idx
	for start > 0 && !isSegmentSeparator(template[start-1]) {
		start--
	}
	if start > 0 && (template[start-1] == '&' || template[start-1] == '/') {
		start--
	}
	return template[:start] + template[end:]
}

func isSegmentSeparator(c byte) bool {
	return c == '&' || c == '/' || c == '?' || c == '#'
}
