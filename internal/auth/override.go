// Package auth derives per-request provider credentials from the inbound
// Authorization header. The gateway has no key database: a caller-supplied
// token simply overrides the baseline API key for whichever provider handles
// the request, with copy-on-override semantics so concurrent requests never
// observe each other's credentials.
package auth

import (
	"strings"

	"github.com/nickverneck/FrameForge/internal/config"
)

var schemes = []string{"bearer ", "key "}

// TokenFromHeader extracts the credential from an Authorization header value.
// A case-insensitive leading "Bearer " or "Key " scheme is stripped; the
// remainder is trimmed. A value with no recognized scheme is used verbatim
// (trimmed) rather than rejected. Empty input yields an empty token.
func TokenFromHeader(header string) string {
	// The scheme check runs before any full trim so "Bearer " (scheme with
	// nothing after it) yields an empty token, not the literal word.
	h := strings.TrimLeft(header, " \t")
	for _, scheme := range schemes {
		if len(h) >= len(scheme) && strings.EqualFold(h[:len(scheme)], scheme) {
			return strings.TrimSpace(h[len(scheme):])
		}
	}
	return strings.TrimSpace(h)
}

// Effective overlays the Authorization header's token, if any, onto the
// baseline configuration. The baseline is never mutated; each call produces
// a fresh per-request view.
func Effective(base *config.Config, authHeader string) config.Effective {
	eff := base.Effective()
	if tok := TokenFromHeader(authHeader); tok != "" {
		eff.KeyOverride = tok
	}
	return eff
}
