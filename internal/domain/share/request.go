package share

import "github.com/target/sharelink-gateway/internal/domain/guest"

// AccessRequest is the immutable value produced by the resolver for one
// inbound request: the resolved guest, the optional target path and proxy,
// and a flag marking the target as invalid. Invariant: InvalidTarget implies
// Proxy == nil; NewAccessRequest enforces it.
type AccessRequest struct {
	Guest         guest.Guest
	Target        *TargetPath
	Proxy         *TargetProxy
	InvalidTarget bool
}

// NewAccessRequest builds an AccessRequest, dropping the proxy when the
// target is marked invalid so handlers can never dereference a proxy for an
// unreachable target.
func NewAccessRequest(g guest.Guest, target *TargetPath, proxy *TargetProxy, invalidTarget bool) AccessRequest {
	if invalidTarget {
		proxy = nil
	}
	return AccessRequest{
		Guest:         g,
		Target:        target,
		Proxy:         proxy,
		InvalidTarget: invalidTarget,
	}
}

// LoginConfig is the login configuration snapshot resolved once per guest
// and immutable for the request's lifetime.
type LoginConfig struct {
	// Transient sessions are torn down after the request that created them.
	Transient bool
	// AutoLogin controls whether the web client stores the session locally.
	AutoLogin bool
	// UIWebPath is the base path of the web UI, as configured.
	UIWebPath string
}

// Resolved is the bundle created only after authentication for a share
// succeeds. It is consumed synchronously by the winning handler's response
// hook and never persisted beyond the request.
type Resolved struct {
	Request   AccessRequest
	Session   guest.Session
	UserID    string
	ContextID string
	Config    LoginConfig
}

// NewResolved pairs an access request with the freshly established session.
func NewResolved(req AccessRequest, sess guest.Session, cfg LoginConfig) Resolved {
	return Resolved{
		Request:   req,
		Session:   sess,
		UserID:    sess.UserID,
		ContextID: sess.ContextID,
		Config:    cfg,
	}
}
