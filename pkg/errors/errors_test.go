package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "load station")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped error lost its cause")
	}
	if err.Code() != CodeDependency {
		t.Errorf("code %s", err.Code())
	}
	if err.Message() != "load station" {
		t.Errorf("message %q", err.Message())
	}
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := New(CodeNotFound, "submission not found")
	outer := fmt.Errorf("handler: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("As failed to find the typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Errorf("code %s", typed.Code())
	}
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("As matched an untyped error")
	}
	if As(nil) != nil {
		t.Fatal("As matched nil")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "all checks must be completed").
		WithDetails(map[string]any{"incomplete": []string{"OBL-002"}})

	details, ok := err.Details().(map[string]any)
	if !ok {
		t.Fatalf("details %T", err.Details())
	}
	if _, ok := details["incomplete"]; !ok {
		t.Fatal("details dropped")
	}
}

func TestMetadataFor(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeIdempotency, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Errorf("MetadataFor(%s).HTTPStatus = %d, want %d", tc.code, got, tc.status)
		}
	}

	if got := MetadataFor("NO_SUCH_CODE").HTTPStatus; got != http.StatusInternalServerError {
		t.Errorf("unknown code mapped to %d, want 500", got)
	}
}

func TestValidationDetailsAreAllowed(t *testing.T) {
	if !MetadataFor(CodeValidation).DetailsAllowed {
		t.Error("validation errors must surface details")
	}
	if MetadataFor(CodeUnauthorized).DetailsAllowed {
		t.Error("unauthorized errors must not leak details")
	}
}
