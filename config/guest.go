package config

import (
	"fmt"
	"strings"
	"time"
)

// HandlerMode selects which handler chain the gateway assembles.
type HandlerMode string

const (
	// HandlerModeWebUI serves shares through the current web UI handler.
	HandlerModeWebUI HandlerMode = "webui"
	// HandlerModeLegacy serves shares through the login-screen and legacy
	// redirect handlers.
	HandlerModeLegacy HandlerMode = "legacy"
)

// UnmarshalText implements encoding.TextUnmarshaler for HandlerMode.
func (m *HandlerMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "webui", "legacy":
		*m = HandlerMode(v)
		return nil
	default:
		return fmt.Errorf("invalid HandlerMode: %q (valid options: webui, legacy)", v)
	}
}

// GuestConfig groups guest login configuration.
type GuestConfig struct {
	// Mode determines which handler chain is assembled.
	Mode HandlerMode `env:"HANDLER_MODE" envDefault:"webui"`

	// SessionTTL is the lifetime of guest sessions.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// AutoLogin controls whether the web client stores guest sessions
	// locally (the [store] redirect flag).
	AutoLogin bool `env:"AUTO_LOGIN" envDefault:"false"`

	// BasicRealm is the realm announced in Basic-Auth challenges.
	BasicRealm string `env:"BASIC_REALM" envDefault:"share"`
}

// Sanitize applies guardrails to guest configuration values.
func (g *GuestConfig) Sanitize() {
	if g.SessionTTL <= 0 {
		g.SessionTTL = 30 * time.Minute
	}
	if g.BasicRealm == "" {
		g.BasicRealm = "share"
	}
}
