// test/mock/access.go
package mock

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dev-mohitbeniwal/neonvault/auth"
)

// TokenIssuer stands in for the identity provider: it owns an RSA key pair,
// publishes the public half as a key set and signs access assertions.
type TokenIssuer struct {
	Key   *rsa.PrivateKey
	KeyID string

	certsHits atomic.Int64
}

func NewTokenIssuer(kid string) (*TokenIssuer, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	return &TokenIssuer{Key: key, KeyID: kid}, nil
}

func (i *TokenIssuer) JWK() auth.JSONWebKey {
	pub := i.Key.PublicKey
	return auth.JSONWebKey{
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		Kid: i.KeyID,
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

func (i *TokenIssuer) KeySet() *auth.KeySet {
	return &auth.KeySet{Keys: []auth.JSONWebKey{i.JWK()}}
}

// Sign returns an RS256 token over claims with the issuer's kid in the header.
func (i *TokenIssuer) Sign(claims jwt.MapClaims) (string, error) {
	return i.SignWithKeyID(i.KeyID, claims)
}

// SignWithKeyID signs with the issuer's key but names kid in the header. An
// empty kid omits the header field.
func (i *TokenIssuer) SignWithKeyID(kid string, claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	return token.SignedString(i.Key)
}

// CertsServer serves the key set the way the provider's certs endpoint does.
func (i *TokenIssuer) CertsServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i.certsHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(i.KeySet())
	}))
}

// CertsHits counts requests served by CertsServer.
func (i *TokenIssuer) CertsHits() int64 {
	return i.certsHits.Load()
}
