// Package authclient provides the client-side session layer for the
// education platform API: credential storage, transparent single-flight
// refresh, authorized request execution, and account role resolution.
//
// Token lifecycle:
//   - TokenManager owns the stored access/refresh credential pair and the
//     refresh exchange. Concurrent refresh attempts share one in-flight
//     network call and observe the identical outcome, so a burst of failing
//     requests never races a rotated refresh credential.
//   - Client issues API calls with the Bearer credential attached and, on an
//     authorization failure, refreshes once and re-issues the identical call
//     a single time before surfacing the error.
//
// Role resolution:
//   - Resolver walks candidate profile sources in fixed precedence order
//     (super admin, academy owner, teacher, student) and returns the first
//     matching RoleRecord with its approval state. Identities with no
//     matching profile resolve to the generic user role.
//   - Coordinator reacts to sign-in/sign-out notifications from an
//     AuthProvider, drives resolution, and publishes a
//     {user, role, approval, loading} snapshot for route guards.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by the token manager
//     and coordinator to describe sign-in, sign-out, refresh, and resolution
//     events. Sinks run best-effort (errors are logged) so you can forward to
//     a database or queue without blocking the session.
package authclient
