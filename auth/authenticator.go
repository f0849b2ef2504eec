// auth/authenticator.go
package auth

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/neonvault/logging"
	"github.com/dev-mohitbeniwal/neonvault/model"
)

// Authenticator ties the key set cache to the verifier for one issuer and
// audience.
type Authenticator struct {
	keys         *KeySetCache
	verifier     *Verifier
	issuerDomain string
	audience     string
}

func NewAuthenticator(keys *KeySetCache, verifier *Verifier, issuerDomain, audience string) *Authenticator {
	return &Authenticator{
		keys:         keys,
		verifier:     verifier,
		issuerDomain: issuerDomain,
		audience:     audience,
	}
}

// Authenticate loads the key set and verifies rawToken against it. Malformed
// tokens are rejected before any key set lookup. A kid
// absent from the cached set triggers exactly one refetch.
func (a *Authenticator) Authenticate(ctx context.Context, rawToken string) (*model.Identity, error) {
	pt, err := parseToken(rawToken)
	if err != nil {
		return nil, err
	}

	keys, err := a.keys.GetKeySet(ctx, a.issuerDomain)
	if err != nil {
		return nil, err
	}

	if kid := pt.header.Kid; kid != "" {
		if _, ok := keys.KeyByID(kid); !ok {
			logger.Debug("Unknown kid, refetching key set", zap.String("kid", kid))
			keys, err = a.keys.Refresh(ctx, a.issuerDomain)
			if err != nil {
				return nil, err
			}
		}
	}

	return a.verifier.Verify(rawToken, a.audience, keys)
}
