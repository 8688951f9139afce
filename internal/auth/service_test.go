package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/fuelguard/fuelguard-backend/pkg/auth"
	"github.com/fuelguard/fuelguard-backend/pkg/auth/session"
	"github.com/fuelguard/fuelguard-backend/pkg/config"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
	"github.com/fuelguard/fuelguard-backend/pkg/security"
)

// Cheap argon parameters keep the hashing in tests fast.
var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubUserFinder struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func (s *stubUserFinder) add(user *models.User) *models.User {
	if s.byEmail == nil {
		s.byEmail = map[string]*models.User{}
		s.byID = map[uuid.UUID]*models.User{}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return user
}

func (s *stubUserFinder) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserFinder) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessionStore struct {
	created []session.Data
	revoked []uuid.UUID
}

func (s *stubSessionStore) Create(_ context.Context, data session.Data) (uuid.UUID, error) {
	s.created = append(s.created, data)
	return uuid.New(), nil
}

func (s *stubSessionStore) Revoke(_ context.Context, sid uuid.UUID) error {
	s.revoked = append(s.revoked, sid)
	return nil
}

type authFixture struct {
	users    *stubUserFinder
	sessions *stubSessionStore
	tokens   *pkgauth.TokenIssuer
	svc      Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tokens, err := pkgauth.NewTokenIssuer(config.SessionConfig{
		Secret:     "0123456789abcdef0123456789abcdef",
		Issuer:     "fuelguard-test",
		TTLMinutes: 30,
	})
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	userRepo := &stubUserFinder{}
	sessions := &stubSessionStore{}
	svc, err := NewService(userRepo, sessions, tokens)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &authFixture{users: userRepo, sessions: sessions, tokens: tokens, svc: svc}
}

func (fx *authFixture) addUser(t *testing.T, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	companyID := uuid.New()
	return fx.users.add(&models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test User",
		Role:         rbac.RoleCompanyAdmin,
		CompanyID:    &companyID,
		Active:       active,
	})
}

func TestLoginSucceedsAndOpensSession(t *testing.T) {
	fx := newAuthFixture(t)
	user := fx.addUser(t, "admin@hellenicfuels.gr", "correct horse battery", true)

	result, err := fx.svc.Login(context.Background(), "admin@hellenicfuels.gr", "correct horse battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("login returned an empty token")
	}
	if result.User == nil || result.User.Email != user.Email {
		t.Fatalf("login user = %+v", result.User)
	}
	if len(fx.sessions.created) != 1 {
		t.Fatalf("created %d sessions, want 1", len(fx.sessions.created))
	}
	if fx.sessions.created[0].UserID != user.ID {
		t.Error("session bound to the wrong user")
	}

	claims, err := fx.tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("Verify minted token: %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Errorf("token subject %s, want %s", claims.Subject, user.ID)
	}
	if claims.Role != rbac.RoleCompanyAdmin {
		t.Errorf("token role %s", claims.Role)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	fx := newAuthFixture(t)
	fx.addUser(t, "admin@hellenicfuels.gr", "correct horse battery", true)

	_, err := fx.svc.Login(context.Background(), "admin@hellenicfuels.gr", "wrong password")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("got %v, want unauthorized", err)
	}
	if len(fx.sessions.created) != 0 {
		t.Fatal("failed login opened a session")
	}
}

func TestLoginUnknownEmailMatchesBadPasswordError(t *testing.T) {
	fx := newAuthFixture(t)
	fx.addUser(t, "admin@hellenicfuels.gr", "correct horse battery", true)

	_, unknownErr := fx.svc.Login(context.Background(), "nobody@hellenicfuels.gr", "whatever")
	_, badPassErr := fx.svc.Login(context.Background(), "admin@hellenicfuels.gr", "whatever")

	unknown := pkgerrors.As(unknownErr)
	badPass := pkgerrors.As(badPassErr)
	if unknown == nil || badPass == nil {
		t.Fatalf("errors %v / %v", unknownErr, badPassErr)
	}
	if unknown.Code() != badPass.Code() || unknown.Message() != badPass.Message() {
		t.Fatalf("login must not leak which accounts exist: %q vs %q", unknown.Message(), badPass.Message())
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	fx := newAuthFixture(t)
	fx.addUser(t, "former@hellenicfuels.gr", "correct horse battery", false)

	_, err := fx.svc.Login(context.Background(), "former@hellenicfuels.gr", "correct horse battery")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("got %v, want unauthorized", err)
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	fx := newAuthFixture(t)

	for _, creds := range [][2]string{{"", "secret"}, {"user@example.com", ""}, {"   ", "secret"}} {
		_, err := fx.svc.Login(context.Background(), creds[0], creds[1])
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Errorf("Login(%q, %q) = %v, want validation error", creds[0], creds[1], err)
		}
	}
}

func TestLogout(t *testing.T) {
	fx := newAuthFixture(t)
	sid := uuid.New()

	if err := fx.svc.Logout(context.Background(), sid.String()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(fx.sessions.revoked) != 1 || fx.sessions.revoked[0] != sid {
		t.Fatalf("revoked %v, want [%s]", fx.sessions.revoked, sid)
	}

	err := fx.svc.Logout(context.Background(), "not-a-uuid")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("got %v, want unauthorized", err)
	}
}

func TestMeUnknownUser(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.svc.Me(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("got %v, want unauthorized", err)
	}
}
