package authclient

import (
	"net/http"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeRefreshFailed     = "session_refresh_failed"
	TextCodeSessionIncomplete = "session_incomplete"
	TextCodeProfileNotFound   = "profile_not_found"
	TextCodeRequestFailed     = "request_failed"
	TextCodeInvalidConfig     = "invalid_client_config"
)

// ErrRefreshFailed is returned when the refresh exchange is rejected or its
// payload cannot be used. The session has already been cleared by the time
// callers observe it.
var ErrRefreshFailed = errors.New("refresh exchange failed", errors.CategoryAuth).
	WithTextCode(TextCodeRefreshFailed).
	WithCode(errors.CodeUnauthorized)

// ErrSessionIncomplete is returned when a refresh response is missing one of
// the credential pair, which the session invariant does not allow.
var ErrSessionIncomplete = errors.New("refresh response missing credentials", errors.CategoryValidation).
	WithTextCode(TextCodeSessionIncomplete).
	WithCode(errors.CodeBadRequest)

// ErrProfileNotFound is the miss condition profile sources report when an
// identity has no row; the resolver continues to the next source.
var ErrProfileNotFound = errors.New("profile not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProfileNotFound).
	WithCode(errors.CodeNotFound)

// IsProfileNotFound reports whether err represents a profile miss rather
// than a lookup failure.
func IsProfileNotFound(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeProfileNotFound
	}
	return false
}

// IsAuthFailure reports whether err is an authorization failure from the
// API, i.e. the condition the refresh-and-retry policy reacts to.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}
	return false
}
