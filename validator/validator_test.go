package validator_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authclient "github.com/goliatone/go-authclient"
	"github.com/goliatone/go-authclient/validator"
)

var signingKey = []byte("test-signing-secret")

func issueToken(t *testing.T, claims *authclient.AccessClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	require.NoError(t, err)
	return token
}

func TestNewRequiresKeySource(t *testing.T) {
	_, err := validator.New(validator.Config{})
	assert.Error(t, err)
}

func TestValidateAcceptsSignedCredential(t *testing.T) {
	v, err := validator.New(validator.Config{SigningKey: signingKey})
	require.NoError(t, err)

	token := issueToken(t, &authclient.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UID:  "u-1",
		Role: "teacher",
	})

	claims, err := v.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UID)
	assert.Equal(t, "teacher", claims.Role)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	v, err := validator.New(validator.Config{SigningKey: []byte("a different secret")})
	require.NoError(t, err)

	token := issueToken(t, &authclient.AccessClaims{UID: "u-1"})

	_, err = v.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredCredential(t *testing.T) {
	v, err := validator.New(validator.Config{SigningKey: signingKey})
	require.NoError(t, err)

	token := issueToken(t, &authclient.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UID: "u-1",
	})

	_, err = v.Validate(token)
	assert.Error(t, err)
}

func TestValidateEnforcesIssuer(t *testing.T) {
	v, err := validator.New(validator.Config{
		SigningKey: signingKey,
		Issuer:     "https://auth.example.com",
	})
	require.NoError(t, err)

	token := issueToken(t, &authclient.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://rogue.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err = v.Validate(token)
	assert.Error(t, err)
}

func TestValidateEnforcesAudience(t *testing.T) {
	v, err := validator.New(validator.Config{
		SigningKey: signingKey,
		Audience:   []string{"education-platform"},
	})
	require.NoError(t, err)

	good := issueToken(t, &authclient.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"education-platform"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	_, err = v.Validate(good)
	assert.NoError(t, err)

	bad := issueToken(t, &authclient.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"other-service"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	_, err = v.Validate(bad)
	assert.Error(t, err)
}
