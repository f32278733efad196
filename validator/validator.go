// Package validator verifies platform-issued access credentials against the
// platform JWK Set (or a shared signing key) so hosts can reject a tampered
// cached snapshot before trusting it. The session layer itself never
// verifies tokens; this is an opt-in hardening step.
package validator

import (
	"log"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"

	authclient "github.com/goliatone/go-authclient"
)

// Config selects the verification keys. Exactly one of KeyFunc, JWKSetURLs,
// or SigningKey should be set; KeyFunc wins when several are.
type Config struct {
	// KeyFunc overrides key selection entirely.
	KeyFunc jwt.Keyfunc

	// JWKSetURLs are remote JWK Set endpoints, tried in order.
	JWKSetURLs []string

	// SigningKey is a shared HMAC secret.
	SigningKey []byte

	// Issuer, when set, must match the token's iss claim.
	Issuer string

	// Audience, when set, must be present in the token's aud claim.
	Audience []string
}

// Validator checks access credentials and returns their claims.
type Validator struct {
	keyFunc  jwt.Keyfunc
	issuer   string
	audience []string
}

// New builds a Validator from cfg.
func New(cfg Config) (*Validator, error) {
	keyFn := cfg.KeyFunc

	if keyFn == nil && len(cfg.JWKSetURLs) > 0 {
		multi, err := multiKeyfunc(cfg.JWKSetURLs)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create keyfunc from JWK Set URL")
		}
		keyFn = multi
	}

	if keyFn == nil && len(cfg.SigningKey) > 0 {
		key := cfg.SigningKey
		keyFn = func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method", errors.CategoryAuth).
					WithMetadata(map[string]any{"alg": token.Header["alg"]})
			}
			return key, nil
		}
	}

	if keyFn == nil {
		return nil, errors.New("validator requires a key source", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	return &Validator{
		keyFunc:  keyFn,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}, nil
}

// Validate parses and verifies a credential, returning structured claims.
func (v *Validator) Validate(tokenString string) (*authclient.AccessClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if v.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(v.issuer))
	}
	if len(v.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(v.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &authclient.AccessClaims{}, v.keyFunc, parserOptions...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryAuth, "access credential rejected").
			WithCode(errors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*authclient.AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("unable to decode access credential claims", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	return claims, nil
}

func multiKeyfunc(jwkSetURLs []string) (jwt.Keyfunc, error) {
	opts := keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			log.Printf("failed to do a background refresh of JWK Set: %s", err)
		},
	}

	m := make(map[string]keyfunc.Options, len(jwkSetURLs))
	for _, url := range jwkSetURLs {
		m[url] = opts
	}

	multi, err := keyfunc.GetMultiple(m, keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	})
	if err != nil {
		return nil, err
	}
	return multi.Keyfunc, nil
}
