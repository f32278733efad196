package authclient

import "encoding/json"

// Role is one of the mutually-exclusive account types an identity may hold.
type Role = string

const (
	// RoleSuperAdmin administers the whole platform.
	RoleSuperAdmin Role = "super_admin"
	// RoleAcademyOwner owns a provisioned academy.
	RoleAcademyOwner Role = "academy_owner"
	// RoleTeacher teaches classes inside an academy.
	RoleTeacher Role = "teacher"
	// RoleStudent is enrolled in classes.
	RoleStudent Role = "student"
	// RoleGenericUser is the fallback for identities with no matching
	// profile, e.g. a brand-new account.
	RoleGenericUser Role = "user"
)

// ApprovalState is whether a role-holder's account is currently usable.
type ApprovalState = string

const (
	ApprovalActive   ApprovalState = "active"
	ApprovalPending  ApprovalState = "pending"
	ApprovalRejected ApprovalState = "rejected"
)

// RolePrecedence returns the fixed resolution order, highest first. The
// resolver stops at the first matching source and never consults
// lower-precedence sources once a match is found.
func RolePrecedence() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleAcademyOwner,
		RoleTeacher,
		RoleStudent,
		RoleGenericUser,
	}
}

// IsValidRole checks if the role is one of the predefined valid roles.
func IsValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleAcademyOwner, RoleTeacher, RoleStudent, RoleGenericUser:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a Role.
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValidRole(role)
}

// Outranks reports whether r sits above other in the precedence order.
// Unknown roles never outrank anything.
func Outranks(r, other Role) bool {
	return precedenceIndex(r) < precedenceIndex(other)
}

func precedenceIndex(r Role) int {
	for i, candidate := range RolePrecedence() {
		if candidate == r {
			return i
		}
	}
	return len(RolePrecedence())
}

// RoleRecord is the resolved account type for an identity plus its approval
// state. Exactly one RoleRecord is valid per identity at any time.
type RoleRecord struct {
	Role     Role            `json:"role"`
	Approval ApprovalState   `json:"approval"`
	Profile  json.RawMessage `json:"profile,omitempty"`
}

// GenericRoleRecord is the fallback record for identities that match no
// candidate profile source.
func GenericRoleRecord() *RoleRecord {
	return &RoleRecord{Role: RoleGenericUser, Approval: ApprovalActive}
}

// approvalForRole derives the approval state from a profile's status field.
// Academy owner records only exist after their academy has been provisioned,
// so that role is always active regardless of any status column.
func approvalForRole(role Role, status string) ApprovalState {
	if role == RoleAcademyOwner {
		return ApprovalActive
	}
	switch status {
	case "pending":
		return ApprovalPending
	case "rejected":
		return ApprovalRejected
	default:
		return ApprovalActive
	}
}
