package config

import "strings"

// RedirectConfig contains the redirect URL templates used by the share
// handlers. Templates carry literal bracketed placeholders ([session],
// [user], [user_id], [module], [folder], [item], [store], [language],
// [uiwebpath]) substituted at request time.
type RedirectConfig struct {
	// UIWebPath is the base path of the web UI, substituted for [uiwebpath].
	UIWebPath string `env:"UIWEBPATH" envDefault:"/appsuite/"`

	// WebClient is the legacy web client template used by the redirecting
	// handler.
	WebClient string `env:"WEB_CLIENT" envDefault:"/[uiwebpath]#session=[session]&store=[store]&user=[user]&user_id=[user_id]&language=[language]&m=[module]&f=[folder]&i=[item]"`

	// Target is the template pointing directly into a resolved target,
	// used by the web UI handler after a silent login.
	Target string `env:"TARGET" envDefault:"/[uiwebpath]#!&session=[session]&store=[store]&app=io.ox/files&folder=[folder]&id=[item]"`

	// Login is the template of the standard login screen.
	Login string `env:"LOGIN" envDefault:"/[uiwebpath]#login_type=guest&language=[language]"`

	// ICS is the template of the calendar export endpoint used by the
	// Basic-Auth calendar handler.
	ICS string `env:"ICS" envDefault:"/[uiwebpath]/caldav/[folder]?session=[session]"`
}

// Sanitize applies guardrails to redirect configuration values.
func (r *RedirectConfig) Sanitize() {
	if strings.TrimSpace(r.UIWebPath) == "" {
		r.UIWebPath = "/appsuite/"
	}
}
