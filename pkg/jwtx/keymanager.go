package jwtx

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/collab/pkg/cryptox"
)

// KeyManager wires a single Ed25519 signer to its KeySet and Verifier.
type KeyManager struct {
	Signer   Signer
	Verifier Verifier
	KeySet   *KeySet
}

// KeyManagerOptions configures the KeyManager.
type KeyManagerOptions struct {
	// Issuer is the iss claim stamped on and required of every token.
	Issuer string

	// Audience values required on verification. Empty means "don't care".
	Audience []string

	// Leeway tolerates clock skew when checking exp/nbf.
	Leeway time.Duration

	// KeyPath points at a PKCS8 PEM file. It is created on first start. An
	// empty path keeps an ephemeral key, so tokens die with the process.
	KeyPath string
}

// NewKeyManager loads (or creates) the signing key and builds the matching
// verifier.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	pemBytes, err := cryptox.LoadOrGenerateEd25519Key(opts.KeyPath)
	if err != nil {
		return nil, err
	}

	kid, err := generateKeyID(opts.KeyPath, pemBytes)
	if err != nil {
		return nil, err
	}

	signer, err := NewSignerEdDSA(kid, pemBytes)
	if err != nil {
		return nil, err
	}
	if err := signer.Validate(); err != nil {
		return nil, err
	}

	keyset := NewKeySet()
	if err := keyset.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}

	return &KeyManager{
		Signer:   signer,
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer, opts.Audience, opts.Leeway),
		KeySet:   keyset,
	}, nil
}

// IsReady returns true if the KeyManager has valid keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// generateKeyID derives a stable kid from a persisted key so that restarts
// keep the same JWKS entry; ephemeral keys get a random one.
func generateKeyID(path string, pemBytes []byte) (string, error) {
	if path != "" {
		return "collab-" + cryptox.FingerprintToken(string(pemBytes))[:16], nil
	}
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("jwtx: generate key id: %w", err)
	}
	return "collab-" + token, nil
}
