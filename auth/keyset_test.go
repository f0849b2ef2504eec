package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/neonvault/auth"
)

func TestJSONWebKeyRSAPublicKey(t *testing.T) {
	issuer := newIssuer(t, "k1")

	pub, err := issuer.JWK().RSAPublicKey()
	require.NoError(t, err)
	assert.Equal(t, issuer.Key.PublicKey.N, pub.N)
	assert.Equal(t, issuer.Key.PublicKey.E, pub.E)

	padded := issuer.JWK()
	padded.E = "AQAB="
	pub, err = padded.RSAPublicKey()
	require.NoError(t, err)
	assert.Equal(t, 65537, pub.E)
}

func TestJSONWebKeyRejectsBadMaterial(t *testing.T) {
	tests := map[string]auth.JSONWebKey{
		"wrong type":     {Kty: "EC", N: "AQAB", E: "AQAB"},
		"bad modulus":    {Kty: "RSA", N: "***", E: "AQAB"},
		"empty exponent": {Kty: "RSA", N: "AQAB", E: ""},
	}
	for name, key := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := key.RSAPublicKey()
			assert.Error(t, err)
		})
	}
}

func TestKeySetKeyByID(t *testing.T) {
	ks := &auth.KeySet{Keys: []auth.JSONWebKey{{Kid: "a"}, {Kid: "b"}}}

	key, ok := ks.KeyByID("b")
	assert.True(t, ok)
	assert.Equal(t, "b", key.Kid)

	_, ok = ks.KeyByID("c")
	assert.False(t, ok)
	_, ok = ks.KeyByID("")
	assert.False(t, ok)

	var empty *auth.KeySet
	_, ok = empty.KeyByID("a")
	assert.False(t, ok)
}
