package rbac

import "testing"

func TestParseRole(t *testing.T) {
	for _, role := range validRoles {
		got, err := ParseRole(string(role))
		if err != nil || got != role {
			t.Errorf("ParseRole(%q) = %v, %v", role, got, err)
		}
	}
	if _, err := ParseRole("SUPERUSER"); err == nil {
		t.Error("expected error for unknown role")
	}
	if _, err := ParseRole("system_admin"); err == nil {
		t.Error("role parsing must be case sensitive")
	}
}

func TestUnknownRoleDeniesEverything(t *testing.T) {
	var bogus Role = "AUDITOR"
	if bogus.Can(PermComplianceRead) {
		t.Error("unknown role granted a permission")
	}
	if len(bogus.Permissions()) != 0 {
		t.Error("unknown role has a non-empty permission set")
	}
}

func TestStationOperatorScope(t *testing.T) {
	role := RoleStationOperator
	granted := []Permission{PermSubmissionEdit, PermSubmissionSubmit, PermSubmissionRecall, PermEvidenceUpload, PermComplianceRead}
	for _, perm := range granted {
		if !role.Can(perm) {
			t.Errorf("station operator missing %s", perm)
		}
	}
	denied := []Permission{PermSubmissionReview, PermSubmissionForward, PermOversightDecide, PermTaskManage, PermRegistryManage}
	for _, perm := range denied {
		if role.Can(perm) {
			t.Errorf("station operator must not hold %s", perm)
		}
	}
}

func TestCompanyAdminCanReviewAndForward(t *testing.T) {
	role := RoleCompanyAdmin
	for _, perm := range []Permission{PermSubmissionReview, PermSubmissionReopen, PermSubmissionForward} {
		if !role.Can(perm) {
			t.Errorf("company admin missing %s", perm)
		}
	}
	if role.Can(PermOversightDecide) {
		t.Error("company admin must not decide oversight cases")
	}
	if role.Can(PermRegistryManage) {
		t.Error("company admin must not manage the registry")
	}
}

func TestCustomsReviewerIsOversightOnly(t *testing.T) {
	role := RoleCustomsReviewer
	for _, perm := range []Permission{PermOversightDecide, PermOversightExport, PermTaskManage, PermEvidenceRead} {
		if !role.Can(perm) {
			t.Errorf("customs reviewer missing %s", perm)
		}
	}
	for _, perm := range []Permission{PermSubmissionEdit, PermSubmissionSubmit, PermEvidenceUpload, PermRegistryManage} {
		if role.Can(perm) {
			t.Errorf("customs reviewer must not hold %s", perm)
		}
	}
}

func TestSystemAdminHoldsEveryPermission(t *testing.T) {
	all := []Permission{
		PermSubmissionEdit, PermSubmissionSubmit, PermSubmissionRecall,
		PermSubmissionReview, PermSubmissionReopen, PermSubmissionForward,
		PermOversightDecide, PermOversightExport,
		PermTaskManage, PermTaskRespond,
		PermEvidenceUpload, PermEvidenceRead,
		PermComplianceRead, PermRegistryManage, PermCompanyRead,
	}
	for _, perm := range all {
		if !RoleSystemAdmin.Can(perm) {
			t.Errorf("system admin missing %s", perm)
		}
	}
}

func TestIsCompanyScoped(t *testing.T) {
	scoped := map[Role]bool{
		RoleSystemAdmin:     false,
		RoleCustomsReviewer: false,
		RoleCompanyAdmin:    true,
		RoleCompanyOperator: true,
		RoleStationOperator: true,
	}
	for role, want := range scoped {
		if got := role.IsCompanyScoped(); got != want {
			t.Errorf("%s.IsCompanyScoped() = %v, want %v", role, got, want)
		}
	}
}
