// Package rbac defines the closed role enumeration and the capability set
// each role grants. Authorization decisions compare permissions, never raw
// role strings.
package rbac

import "fmt"

// Role identifies the actor class attached to a user account.
type Role string

const (
	RoleSystemAdmin     Role = "SYSTEM_ADMIN"
	RoleCustomsReviewer Role = "CUSTOMS_REVIEWER"
	RoleCompanyAdmin    Role = "COMPANY_ADMIN"
	RoleCompanyOperator Role = "COMPANY_OPERATOR"
	RoleStationOperator Role = "STATION_OPERATOR"
)

var validRoles = []Role{
	RoleSystemAdmin,
	RoleCustomsReviewer,
	RoleCompanyAdmin,
	RoleCompanyOperator,
	RoleStationOperator,
}

// Permission names a single capability a role may hold.
type Permission string

const (
	PermSubmissionEdit    Permission = "submissions.edit"
	PermSubmissionSubmit  Permission = "submissions.submit"
	PermSubmissionRecall  Permission = "submissions.recall"
	PermSubmissionReview  Permission = "submissions.review"
	PermSubmissionReopen  Permission = "submissions.reopen"
	PermSubmissionForward Permission = "submissions.forward"
	PermOversightDecide   Permission = "oversight.decide"
	PermOversightExport   Permission = "oversight.export"
	PermTaskManage        Permission = "tasks.manage"
	PermTaskRespond       Permission = "tasks.respond"
	PermEvidenceUpload    Permission = "evidence.upload"
	PermEvidenceRead      Permission = "evidence.read"
	PermComplianceRead    Permission = "compliance.read"
	PermRegistryManage    Permission = "registry.manage"
	PermCompanyRead       Permission = "company.read"
)

// Set is a permission lookup table.
type Set map[Permission]struct{}

// Has reports whether the permission is present in the set.
func (s Set) Has(perm Permission) bool {
	_, ok := s[perm]
	return ok
}

func newSet(perms ...Permission) Set {
	set := make(Set, len(perms))
	for _, perm := range perms {
		set[perm] = struct{}{}
	}
	return set
}

var permissionsByRole = map[Role]Set{
	RoleStationOperator: newSet(
		PermSubmissionEdit,
		PermSubmissionSubmit,
		PermSubmissionRecall,
		PermEvidenceUpload,
		PermEvidenceRead,
		PermComplianceRead,
	),
	RoleCompanyOperator: newSet(
		PermSubmissionEdit,
		PermSubmissionSubmit,
		PermSubmissionRecall,
		PermEvidenceUpload,
		PermEvidenceRead,
		PermComplianceRead,
		PermCompanyRead,
		PermTaskRespond,
	),
	RoleCompanyAdmin: newSet(
		PermSubmissionEdit,
		PermSubmissionSubmit,
		PermSubmissionRecall,
		PermSubmissionReview,
		PermSubmissionReopen,
		PermSubmissionForward,
		PermEvidenceUpload,
		PermEvidenceRead,
		PermComplianceRead,
		PermCompanyRead,
		PermTaskRespond,
	),
	RoleCustomsReviewer: newSet(
		PermOversightDecide,
		PermOversightExport,
		PermSubmissionReopen,
		PermTaskManage,
		PermEvidenceRead,
		PermComplianceRead,
	),
	RoleSystemAdmin: newSet(
		PermSubmissionEdit,
		PermSubmissionSubmit,
		PermSubmissionRecall,
		PermSubmissionReview,
		PermSubmissionReopen,
		PermSubmissionForward,
		PermOversightDecide,
		PermOversightExport,
		PermTaskManage,
		PermTaskRespond,
		PermEvidenceUpload,
		PermEvidenceRead,
		PermComplianceRead,
		PermRegistryManage,
		PermCompanyRead,
	),
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Permissions returns the capability set granted to the role. Unknown roles
// get an empty set, so a typo denies rather than permits.
func (r Role) Permissions() Set {
	if set, ok := permissionsByRole[r]; ok {
		return set
	}
	return Set{}
}

// Can reports whether the role holds the given permission.
func (r Role) Can(perm Permission) bool {
	return r.Permissions().Has(perm)
}

// IsCompanyScoped reports whether the role acts on behalf of a company.
func (r Role) IsCompanyScoped() bool {
	return r == RoleCompanyAdmin || r == RoleCompanyOperator || r == RoleStationOperator
}

// ParseRole converts the raw string to Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
