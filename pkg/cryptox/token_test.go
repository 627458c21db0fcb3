package cryptox_test

import (
	"encoding/base64"
	"testing"

	"github.com/aussiebroadwan/collab/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		size    int
		wantLen int
	}{
		{cryptox.TokenSize128, 22},
		{cryptox.TokenSize256, 43},
	}

	for _, tt := range tests {
		tok, err := cryptox.GenerateToken(tt.size)
		require.NoError(t, err)
		require.Len(t, tok, tt.wantLen)

		raw, err := base64.RawURLEncoding.DecodeString(tok)
		require.NoError(t, err, "token must be base64url without padding")
		require.Len(t, raw, tt.size)
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	_, err := cryptox.GenerateToken(0)
	require.Error(t, err)
	_, err = cryptox.GenerateToken(-4)
	require.Error(t, err)
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		tok := cryptox.MustGenerateToken(cryptox.TokenSize256)
		_, dup := seen[tok]
		require.False(t, dup)
		seen[tok] = struct{}{}
	}
}

func TestFingerprintToken(t *testing.T) {
	a := cryptox.FingerprintToken("abc")
	require.Equal(t, a, cryptox.FingerprintToken("abc"))
	require.NotEqual(t, a, cryptox.FingerprintToken("abd"))
	require.Len(t, a, 43)
}
