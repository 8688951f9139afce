package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/config"
	apperrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
)

// LocalStore writes evidence files to a directory on the host. Keys are
// relative paths under the root, partitioned by upload date so a single
// directory never accumulates unbounded entries.
type LocalStore struct {
	root     string
	maxBytes int64
	allowed  map[string]struct{}
}

func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	if cfg.EvidenceDir == "" {
		return nil, apperrors.New(apperrors.CodeInternal, "evidence directory is required")
	}
	if err := os.MkdirAll(cfg.EvidenceDir, 0o750); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "create evidence directory")
	}
	allowed := make(map[string]struct{})
	for _, ct := range cfg.AllowedContentTypes() {
		allowed[ct] = struct{}{}
	}
	return &LocalStore{
		root:     cfg.EvidenceDir,
		maxBytes: int64(cfg.MaxUploadMB) << 20,
		allowed:  allowed,
	}, nil
}

// ValidateContentType rejects uploads outside the configured allowlist.
func (s *LocalStore) ValidateContentType(contentType string) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if _, ok := s.allowed[ct]; !ok {
		return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("content type %q is not allowed", contentType))
	}
	return nil
}

// MaxBytes returns the configured per-file upload limit.
func (s *LocalStore) MaxBytes() int64 {
	return s.maxBytes
}

// Save streams the reader to disk and returns the storage key along
// with the number of bytes written. The reader is capped at the upload
// limit; anything larger fails validation.
func (s *LocalStore) Save(r io.Reader, originalName string) (string, int64, error) {
	key := buildKey(originalName)
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", 0, apperrors.Wrap(apperrors.CodeInternal, err, "create evidence partition")
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", 0, apperrors.Wrap(apperrors.CodeInternal, err, "create evidence file")
	}
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err != nil {
		_ = os.Remove(path)
		return "", 0, apperrors.Wrap(apperrors.CodeInternal, err, "write evidence file")
	}
	if closeErr != nil {
		_ = os.Remove(path)
		return "", 0, apperrors.Wrap(apperrors.CodeInternal, closeErr, "close evidence file")
	}
	if written > s.maxBytes {
		_ = os.Remove(path)
		return "", 0, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d byte upload limit", s.maxBytes))
	}
	return key, written, nil
}

// Open returns a reader for a stored evidence file.
func (s *LocalStore) Open(key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "evidence file not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "open evidence file")
	}
	return f, nil
}

// Delete removes a stored evidence file. Missing files are ignored so
// deletes stay idempotent.
func (s *LocalStore) Delete(key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(apperrors.CodeInternal, err, "delete evidence file")
	}
	return nil
}

// resolve maps a storage key to an absolute path, refusing keys that
// escape the root.
func (s *LocalStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", apperrors.New(apperrors.CodeValidation, "invalid storage key")
	}
	return filepath.Join(s.root, cleaned), nil
}

func buildKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if len(ext) > 10 {
		ext = ""
	}
	now := time.Now().UTC()
	return fmt.Sprintf("%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
}
