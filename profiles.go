package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
)

// Default platform API paths for the candidate profile sources. Each path
// gets the identity ID appended.
const (
	PathSuperAdmins   = "/super-admins"
	PathAcademyOwners = "/academies/owner"
	PathTeachers      = "/teachers"
	PathStudents      = "/students"
)

// restProfileSource looks an identity up in one platform API collection.
type restProfileSource struct {
	client *Client
	role   Role
	path   string
}

// NewRESTProfileSource builds a ProfileSource that queries path + "/" + id
// through the client. A 404 maps to ErrProfileNotFound.
func NewRESTProfileSource(client *Client, role Role, path string) ProfileSource {
	return &restProfileSource{
		client: client,
		role:   role,
		path:   strings.TrimRight(path, "/"),
	}
}

// DefaultProfileSources wires the four platform collections in precedence
// order. The generic user fallback is the resolver's, not a source.
func DefaultProfileSources(client *Client) []ProfileSource {
	return []ProfileSource{
		NewRESTProfileSource(client, RoleSuperAdmin, PathSuperAdmins),
		NewRESTProfileSource(client, RoleAcademyOwner, PathAcademyOwners),
		NewRESTProfileSource(client, RoleTeacher, PathTeachers),
		NewRESTProfileSource(client, RoleStudent, PathStudents),
	}
}

// Role implements ProfileSource.
func (s *restProfileSource) Role() Role {
	return s.role
}

// Lookup implements ProfileSource.
func (s *restProfileSource) Lookup(ctx context.Context, identityID string) (*Profile, error) {
	data, err := s.client.Get(ctx, s.path+"/"+identityID)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if len(data) == 0 || string(data) == "null" {
		return nil, ErrProfileNotFound
	}

	var record struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "malformed profile payload")
	}

	return &Profile{Status: record.Status, Data: data}, nil
}
