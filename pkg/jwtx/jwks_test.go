package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWK_PEM_Ed25519(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	jwk := NewEd25519JWK("test-key-id", "sig", "EdDSA", publicKey)

	pemStr, err := jwk.PEM()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(pemStr, "-----BEGIN PUBLIC KEY-----"))

	block, _ := pem.Decode([]byte(pemStr))
	require.NotNil(t, block)

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)
	require.Equal(t, publicKey, parsed.(ed25519.PublicKey))
}

func TestJWK_PEM_Unsupported(t *testing.T) {
	_, err := JWK{Kty: "RSA"}.PEM()
	require.Error(t, err)

	_, err = JWK{Kty: "EC", Crv: "P-256", X: "AAAA"}.PEM()
	require.Error(t, err)

	_, err = JWK{Kty: "OKP", Crv: "X25519", X: "AAAA"}.PEM()
	require.Error(t, err)
}

func TestKeySet_RejectsBadKeys(t *testing.T) {
	ks := NewKeySet()
	require.Error(t, ks.AddJWK(JWK{Kty: "OKP", Crv: "Ed25519", Kid: "short", X: "AAAA"}))
	require.False(t, ks.IsReady())

	_, err := ks.Get("short")
	require.ErrorIs(t, err, ErrNoKey)
}

func TestJWKS_JSONShape(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	ks := NewKeySet()
	require.NoError(t, ks.AddJWK(NewEd25519JWK("k1", "sig", "EdDSA", publicKey)))

	raw, err := json.Marshal(ks.PublicJWKS())
	require.NoError(t, err)

	var out map[string][]map[string]string
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out["keys"], 1)
	require.Equal(t, "OKP", out["keys"][0]["kty"])
	require.Equal(t, "k1", out["keys"][0]["kid"])
	require.NotContains(t, out["keys"][0], "n")
}
