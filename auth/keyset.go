// auth/keyset.go
package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
)

// JSONWebKey is one RSA public key as published by the identity provider.
type JSONWebKey struct {
	Kty string `json:"kty"`
	E   string `json:"e"`
	Use string `json:"use,omitempty"`
	Kid string `json:"kid"`
	Alg string `json:"alg,omitempty"`
	N   string `json:"n"`
}

// KeySet is the provider's certs document. Order matters: the first key is
// the fallback when a token names no known key.
type KeySet struct {
	Keys []JSONWebKey `json:"keys"`
}

// KeyByID returns the key whose kid equals kid.
func (ks *KeySet) KeyByID(kid string) (JSONWebKey, bool) {
	if ks == nil || kid == "" {
		return JSONWebKey{}, false
	}
	for _, k := range ks.Keys {
		if k.Kid == kid {
			return k, true
		}
	}
	return JSONWebKey{}, false
}

// RSAPublicKey builds the public key from the base64url modulus and exponent.
func (k JSONWebKey) RSAPublicKey() (*rsa.PublicKey, error) {
	if k.Kty != "" && k.Kty != "RSA" {
		return nil, fmt.Errorf("unsupported key type %q", k.Kty)
	}
	nBytes, err := decodeSegment(k.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eBytes, err := decodeSegment(k.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}
	if len(nBytes) == 0 || len(eBytes) == 0 {
		return nil, fmt.Errorf("empty key material for kid %q", k.Kid)
	}

	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() > int64(^uint32(0)>>1) {
		return nil, fmt.Errorf("exponent out of range for kid %q", k.Kid)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(e.Int64()),
	}, nil
}

// decodeSegment decodes base64url with or without trailing padding.
func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
