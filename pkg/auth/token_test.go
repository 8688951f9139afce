package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/config"
	apperrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
)

func testIssuer(t *testing.T, secret string) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(config.SessionConfig{
		Secret:     secret,
		Issuer:     "fuelguard-test",
		TTLMinutes: 30,
	})
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return issuer
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer(config.SessionConfig{Issuer: "fuelguard-test"}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestMintVerifyRoundTrip(t *testing.T) {
	issuer := testIssuer(t, "0123456789abcdef0123456789abcdef")
	sessionID := uuid.New()
	userID := uuid.New()

	raw, err := issuer.Mint(sessionID, userID, rbac.RoleCompanyAdmin, time.Now())
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	claims, err := issuer.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.ID != sessionID.String() {
		t.Errorf("jti %s, want session %s", claims.ID, sessionID)
	}
	if claims.Subject != userID.String() {
		t.Errorf("sub %s, want user %s", claims.Subject, userID)
	}
	if claims.Role != rbac.RoleCompanyAdmin {
		t.Errorf("role %s, want COMPANY_ADMIN", claims.Role)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	minter := testIssuer(t, "0123456789abcdef0123456789abcdef")
	verifier := testIssuer(t, "fedcba9876543210fedcba9876543210")

	raw, err := minter.Mint(uuid.New(), uuid.New(), rbac.RoleStationOperator, time.Now())
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	_, err = verifier.Verify(raw)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeUnauthorized {
		t.Fatalf("got %v, want unauthorized", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := testIssuer(t, "0123456789abcdef0123456789abcdef")

	raw, err := issuer.Mint(uuid.New(), uuid.New(), rbac.RoleStationOperator, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	_, err = issuer.Verify(raw)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeUnauthorized {
		t.Fatalf("got %v, want unauthorized", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := testIssuer(t, "0123456789abcdef0123456789abcdef")

	_, err := issuer.Verify("not-a-token")
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeUnauthorized {
		t.Fatalf("got %v, want unauthorized", err)
	}
}
