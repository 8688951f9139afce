package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/fuelguard/fuelguard-backend/pkg/config"
	apperrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
)

func testStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(config.StorageConfig{
		EvidenceDir:  t.TempDir(),
		MaxUploadMB:  1,
		AllowedTypes: "application/pdf, image/png",
	})
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return store
}

func TestNewLocalStoreRequiresDirectory(t *testing.T) {
	if _, err := NewLocalStore(config.StorageConfig{}); err == nil {
		t.Fatal("expected error for empty evidence directory")
	}
}

func TestValidateContentType(t *testing.T) {
	store := testStore(t)

	allowed := []string{
		"application/pdf",
		"APPLICATION/PDF",
		"image/png; charset=binary",
		"  image/png  ",
	}
	for _, ct := range allowed {
		if err := store.ValidateContentType(ct); err != nil {
			t.Errorf("ValidateContentType(%q) = %v, want nil", ct, err)
		}
	}

	denied := []string{"application/zip", "text/html", ""}
	for _, ct := range denied {
		err := store.ValidateContentType(ct)
		typed := apperrors.As(err)
		if typed == nil || typed.Code() != apperrors.CodeValidation {
			t.Errorf("ValidateContentType(%q) = %v, want validation error", ct, err)
		}
	}
}

func TestSaveOpenDeleteRoundTrip(t *testing.T) {
	store := testStore(t)
	content := "tank inspection report"

	key, written, err := store.Save(strings.NewReader(content), "report.pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if written != int64(len(content)) {
		t.Errorf("wrote %d bytes, want %d", written, len(content))
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Errorf("key %q lost the extension", key)
	}

	rc, err := store.Open(key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	read, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || string(read) != content {
		t.Fatalf("read %q (%v), want %q", read, err, content)
	}

	if err := store.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(key); apperrors.As(err) == nil || apperrors.As(err).Code() != apperrors.CodeNotFound {
		t.Fatalf("open after delete: got %v, want not found", err)
	}

	// Deletes stay idempotent.
	if err := store.Delete(key); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestSaveEnforcesUploadLimit(t *testing.T) {
	store := testStore(t)
	oversized := strings.NewReader(strings.Repeat("x", int(store.MaxBytes())+1))

	_, _, err := store.Save(oversized, "huge.pdf")
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestOpenRejectsEscapingKeys(t *testing.T) {
	store := testStore(t)

	for _, key := range []string{"../secrets.txt", "/etc/passwd", "."} {
		_, err := store.Open(key)
		typed := apperrors.As(err)
		if typed == nil || typed.Code() != apperrors.CodeValidation {
			t.Errorf("Open(%q) = %v, want validation error", key, err)
		}
	}
}
