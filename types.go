package authclient

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal. It is issued
// by the external authentication provider and superseded wholesale on
// re-authentication.
type Identity interface {
	ID() string
	Email() string
}

// KeyValue is the durable storage primitive backing a SessionStore. Write
// with an empty value removes the key. Read returns the empty string, not an
// error, when the key is absent.
type KeyValue interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
}

// AuthProvider is the external authentication collaborator the Coordinator
// reacts to. CurrentIdentity returns (nil, nil) when nobody is signed in.
type AuthProvider interface {
	CurrentIdentity(ctx context.Context) (Identity, error)
	SignOut(ctx context.Context) error
}

// ProfileSource is one candidate backing record type that may describe an
// identity's role. Lookup returns ErrProfileNotFound when the identity has
// no row in this source.
type ProfileSource interface {
	Role() Role
	Lookup(ctx context.Context, identityID string) (*Profile, error)
}

// Profile is the raw record a ProfileSource returns on a hit.
type Profile struct {
	// Status is the record's approval status field, empty when the source
	// has no such column.
	Status string
	// Data carries the role-specific fields verbatim.
	Data []byte
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHCLIENT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
