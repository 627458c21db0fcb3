package service

import (
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/pkg/jwtx"
)

type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

type TokenService struct {
	KeyManager *jwtx.KeyManager
	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	Now        func() time.Time
}

// IssueAccessToken signs a bearer token for u.
func (s *TokenService) IssueAccessToken(u domain.User) (AccessToken, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	now := clock(s.Now)
	claims := jwtx.NewAccessClaims(
		u.ID,       // subject
		u.Login,    // login
		u.Email,    // email
		ttl,        // token lifetime
		s.Issuer,   // issuer
		s.Audience, // audience
		now,        // current time
	)

	token, err := s.KeyManager.Signer.Sign(claims)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: token, ExpiresAt: now.Add(ttl)}, nil
}
