package httpproof

import (
	"context"
	"time"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/pkg/errors"
)

// JWTAuthenticator validates bearer tokens against a JWKS fetched from
// jwksURL and refreshed in the background.
type JWTAuthenticator struct {
	keySet         jwk.Set
	expectedIssuer string
}

// NewJWTAuthenticator fetches jwksURL once on startup and registers it
// for periodic background refresh.
func NewJWTAuthenticator(ctx context.Context, jwksURL, expectedIssuer string, refreshInterval time.Duration) (*JWTAuthenticator, error) {
	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, errors.Wrap(err, "create jwk cache")
	}
	if err := cache.Register(ctx, jwksURL, jwk.WithConstantInterval(refreshInterval)); err != nil {
		return nil, errors.Wrap(err, "register jwk location")
	}
	if _, err := cache.Refresh(ctx, jwksURL); err != nil {
		return nil, errors.Wrap(err, "fetch jwks on startup")
	}
	keySet, err := cache.CachedSet(jwksURL)
	if err != nil {
		return nil, errors.Wrap(err, "get cached key set")
	}
	return &JWTAuthenticator{keySet: keySet, expectedIssuer: expectedIssuer}, nil
}

// Authenticate parses and verifies bearerToken against the JWKS and
// checks its issuer. It matches httpproof.Config's Authenticate shape.
func (a *JWTAuthenticator) Authenticate(ctx context.Context, bearerToken string) error {
	token, err := jwt.Parse(
		[]byte(bearerToken),
		jwt.WithKeySet(a.keySet),
		jwt.WithValidate(true),
	)
	if err != nil {
		return errors.Wrap(err, "token parsing/verification failed")
	}

	issuer, ok := token.Issuer()
	if !ok {
		return errors.New("issuer claim not found in token")
	}
	if issuer != a.expectedIssuer {
		return errors.Errorf("invalid issuer: expected %s, got %s", a.expectedIssuer, issuer)
	}
	return nil
}
