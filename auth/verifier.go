// auth/verifier.go
package auth

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	"github.com/dev-mohitbeniwal/neonvault/model"
)

type tokenHeader struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
}

type accessClaims struct {
	Subject   string           `json:"sub"`
	Email     string           `json:"email"`
	Audience  jwt.ClaimStrings `json:"aud"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
}

// Verifier checks RS256 access assertions against a key set.
type Verifier struct {
	// StrictKeyID rejects tokens whose kid is missing or unknown instead of
	// falling back to the first key of the set.
	StrictKeyID bool
	now         func() time.Time
}

func NewVerifier(strictKeyID bool) *Verifier {
	return &Verifier{StrictKeyID: strictKeyID, now: time.Now}
}

// WithClock returns a copy of v that reads the current time from now.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	cp := *v
	cp.now = now
	return &cp
}

type parsedToken struct {
	header       tokenHeader
	claims       accessClaims
	signingInput string
	signature    []byte
}

func parseToken(rawToken string) (*parsedToken, error) {
	if rawToken == "" {
		return nil, vault_errors.ErrUnauthenticated
	}
	parts := strings.Split(rawToken, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, fmt.Errorf("%w: expected three segments", vault_errors.ErrUnauthenticated)
	}

	headerJSON, err := decodeSegment(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", vault_errors.ErrUnauthenticated, err)
	}
	payloadJSON, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", vault_errors.ErrUnauthenticated, err)
	}
	signature, err := decodeSegment(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %v", vault_errors.ErrUnauthenticated, err)
	}

	pt := &parsedToken{
		signingInput: parts[0] + "." + parts[1],
		signature:    signature,
	}
	if err := json.Unmarshal(headerJSON, &pt.header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", vault_errors.ErrUnauthenticated, err)
	}
	if err := json.Unmarshal(payloadJSON, &pt.claims); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", vault_errors.ErrUnauthenticated, err)
	}
	return pt, nil
}

// TokenKeyID returns the kid named in the token header, or "" when the token
// cannot be parsed or names none.
func TokenKeyID(rawToken string) string {
	pt, err := parseToken(rawToken)
	if err != nil {
		return ""
	}
	return pt.header.Kid
}

// Verify validates rawToken and returns the caller identity. No claims are
// returned unless every check passes. Expiry is checked before the signature
// so an expired token is reported as expired whatever it is signed with.
func (v *Verifier) Verify(rawToken, expectedAudience string, keys *KeySet) (*model.Identity, error) {
	pt, err := parseToken(rawToken)
	if err != nil {
		return nil, err
	}

	if exp := pt.claims.ExpiresAt; exp != nil && exp.Unix() < v.now().Unix() {
		return nil, vault_errors.ErrExpired
	}

	key, err := v.selectKey(pt.header.Kid, keys)
	if err != nil {
		return nil, err
	}
	pub, err := key.RSAPublicKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vault_errors.ErrInvalidSignature, err)
	}
	if err := jwt.SigningMethodRS256.Verify(pt.signingInput, pt.signature, pub); err != nil {
		return nil, fmt.Errorf("%w: %v", vault_errors.ErrInvalidSignature, err)
	}

	if !audienceContains(pt.claims.Audience, expectedAudience) {
		return nil, vault_errors.ErrAudienceMismatch
	}
	if pt.claims.Subject == "" {
		return nil, vault_errors.ErrMissingSubject
	}

	identity := &model.Identity{
		Subject:  pt.claims.Subject,
		Email:    pt.claims.Email,
		Audience: []string(pt.claims.Audience),
	}
	if exp := pt.claims.ExpiresAt; exp != nil {
		t := exp.Time.UTC()
		identity.ExpiresAt = &t
	}
	return identity, nil
}

func (v *Verifier) selectKey(kid string, keys *KeySet) (JSONWebKey, error) {
	if keys == nil || len(keys.Keys) == 0 {
		return JSONWebKey{}, fmt.Errorf("%w: empty key set", vault_errors.ErrInvalidSignature)
	}
	if key, ok := keys.KeyByID(kid); ok {
		return key, nil
	}
	if v.StrictKeyID {
		return JSONWebKey{}, fmt.Errorf("%w: unknown kid %q", vault_errors.ErrInvalidSignature, kid)
	}
	return keys.Keys[0], nil
}

func audienceContains(aud jwt.ClaimStrings, expected string) bool {
	for _, a := range aud {
		if a == expected {
			return true
		}
	}
	return false
}
