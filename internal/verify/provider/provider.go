package provider

import (
	"context"
	"errors"

	"verify-service/internal/verify"
)

// ErrCancelled reports that the user abandoned the interactive login.
// Non-fatal: the session stays pending and the user may reopen the link.
var ErrCancelled = errors.New("provider: user cancelled authentication")

// IdentityProvider is the external collaborator that performs the actual
// interactive authentication for an email hint. Implementations return
// identity facts only and must not touch sessions.
type IdentityProvider interface {
	// AuthCodeURL returns the authorization URL the completing client is
	// redirected to. loginHint pre-fills the account picker with the
	// session's target email.
	AuthCodeURL(state, codeChallenge, loginHint string) string

	// ExchangeCode exchanges the authorization code for provider
	// credentials and returns a normalized identity.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*verify.Identity, error)
}
