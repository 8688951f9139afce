package security

import (
	"strings"
	"testing"

	"github.com/fuelguard/fuelguard-backend/pkg/config"
)

var testCfg = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", testCfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := VerifyPassword("correct horse battery", hash)
	if err != nil || !ok {
		t.Fatalf("VerifyPassword = %v, %v, want match", ok, err)
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPassword("same input", testCfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("same input", testCfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword("", testCfg); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{"", "plaintext", "$argon2id$v=19$m=1024", "$bcrypt$whatever"} {
		if _, err := VerifyPassword("secret", encoded); err == nil {
			t.Errorf("VerifyPassword accepted malformed hash %q", encoded)
		}
	}
}

func TestGenerateTempPassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		pw, err := GenerateTempPassword(16)
		if err != nil {
			t.Fatalf("GenerateTempPassword: %v", err)
		}
		if len(pw) != 16 {
			t.Fatalf("length %d, want 16", len(pw))
		}
		if seen[pw] {
			t.Fatal("temp password repeated")
		}
		seen[pw] = true
	}
}
