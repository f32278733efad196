package authclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// AccessClaims is the subset of the platform's access token payload the
// client cares about. The client never verifies signatures; tokens are
// opaque credentials and the server is the authority. Verification lives in
// the validator subpackage for hosts that want it.
type AccessClaims struct {
	jwt.RegisteredClaims
	UID  string `json:"uid,omitempty"`
	Role string `json:"role,omitempty"`
}

// PeekClaims decodes an access credential without verifying it, for expiry
// checks and debugging only.
func PeekClaims(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "unable to decode access credential")
	}
	return claims, nil
}

// CredentialExpiry returns the expiry of an access credential, or the zero
// time when the token carries no exp claim.
func CredentialExpiry(token string) (time.Time, error) {
	claims, err := PeekClaims(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}
