package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
)

func gateRequest(t *testing.T, mw func(http.Handler) http.Handler, role rbac.Role) *httptest.ResponseRecorder {
	t.Helper()
	var called bool
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if role != "" {
		req = req.WithContext(WithActor(req.Context(), "user-1", role, nil, nil))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusNoContent && !called {
		t.Fatal("handler reported success without being called")
	}
	return rec
}

func TestRequirePermissionAllowsGrantedRole(t *testing.T) {
	mw := RequirePermission(rbac.PermOversightDecide, nil)

	for _, role := range []rbac.Role{rbac.RoleCustomsReviewer, rbac.RoleSystemAdmin} {
		rec := gateRequest(t, mw, role)
		if rec.Code != http.StatusNoContent {
			t.Errorf("%s: status %d, want 204", role, rec.Code)
		}
	}
}

func TestRequirePermissionDeniesMissingGrant(t *testing.T) {
	mw := RequirePermission(rbac.PermOversightDecide, nil)

	for _, role := range []rbac.Role{rbac.RoleCompanyAdmin, rbac.RoleStationOperator} {
		rec := gateRequest(t, mw, role)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: status %d, want 403", role, rec.Code)
		}
	}
}

func TestRequirePermissionDeniesAnonymousContext(t *testing.T) {
	mw := RequirePermission(rbac.PermComplianceRead, nil)

	rec := gateRequest(t, mw, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403 for missing role", rec.Code)
	}
}

func TestRequireAnyPermissionAdmitsEitherGrant(t *testing.T) {
	mw := RequireAnyPermission(nil, rbac.PermTaskRespond, rbac.PermTaskManage)

	for _, role := range []rbac.Role{rbac.RoleCompanyAdmin, rbac.RoleCustomsReviewer} {
		rec := gateRequest(t, mw, role)
		if rec.Code != http.StatusNoContent {
			t.Errorf("%s: status %d, want 204", role, rec.Code)
		}
	}
}

func TestRequireAnyPermissionDeniesRoleWithNeitherGrant(t *testing.T) {
	mw := RequireAnyPermission(nil, rbac.PermTaskRespond, rbac.PermTaskManage)

	rec := gateRequest(t, mw, rbac.RoleStationOperator)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("station operator: status %d, want 403 on task thread gate", rec.Code)
	}
}

func TestRequireRoleExactMatch(t *testing.T) {
	mw := RequireRole(rbac.RoleCustomsReviewer, nil)

	if rec := gateRequest(t, mw, rbac.RoleCustomsReviewer); rec.Code != http.StatusNoContent {
		t.Errorf("reviewer: status %d, want 204", rec.Code)
	}
	if rec := gateRequest(t, mw, rbac.RoleSystemAdmin); rec.Code != http.StatusForbidden {
		t.Errorf("system admin: status %d, want 403 on exact-role gate", rec.Code)
	}
}

func TestWithActorRoundTrip(t *testing.T) {
	ctx := WithActor(nil, "user-9", rbac.RoleCompanyOperator, nil, nil)

	if got := UserIDFromContext(ctx); got != "user-9" {
		t.Errorf("user id %q", got)
	}
	if got := RoleFromContext(ctx); got != rbac.RoleCompanyOperator {
		t.Errorf("role %q", got)
	}
	if CompanyIDFromContext(ctx) != nil {
		t.Error("company scope should be nil when not seeded")
	}
	if StationIDFromContext(ctx) != nil {
		t.Error("station scope should be nil when not seeded")
	}
}
