package authclient

import "fmt"

// Storage keys reserved for the session layer. Consumers outside this
// package must not read or write them directly.
const (
	StorageKeyAccessToken  = "auth.access_token"
	StorageKeyRefreshToken = "auth.refresh_token"
	StorageKeyUserSnapshot = "auth.user"
)

// Session holds the credential pair and the cached user snapshot. The
// logical session keeps both credentials together: a refresh persists the
// whole triple, a sign-out or irrecoverable refresh failure clears it.
type Session struct {
	AccessToken  string        `json:"accessToken,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
	User         *UserSnapshot `json:"user,omitempty"`
}

// Complete reports whether the credential pair is fully present.
func (s *Session) Complete() bool {
	return s != nil && s.AccessToken != "" && s.RefreshToken != ""
}

// Empty reports whether the session carries no values at all.
func (s *Session) Empty() bool {
	return s == nil || (s.AccessToken == "" && s.RefreshToken == "" && s.User == nil)
}

func (s Session) String() string {
	user := "<nil>"
	if s.User != nil {
		user = s.User.UserID
	}
	return fmt.Sprintf(
		"access=%t refresh=%t user=%s",
		s.AccessToken != "",
		s.RefreshToken != "",
		user,
	)
}

// UserSnapshot is the cached profile of the identity the credentials were
// issued for.
type UserSnapshot struct {
	UserID       string         `json:"id"`
	EmailAddress string         `json:"email,omitempty"`
	Name         string         `json:"name,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

var _ Identity = (*UserSnapshot)(nil)

// ID implements Identity.
func (u *UserSnapshot) ID() string {
	if u == nil {
		return ""
	}
	return u.UserID
}

// Email implements Identity.
func (u *UserSnapshot) Email() string {
	if u == nil {
		return ""
	}
	return u.EmailAddress
}

// NewIdentity builds a minimal Identity from raw attributes, useful when the
// auth provider reports a sign-in before a snapshot has been cached.
func NewIdentity(id, email string) Identity {
	return &UserSnapshot{UserID: id, EmailAddress: email}
}
