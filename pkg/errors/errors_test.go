package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeIntegrity, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Fatalf("code %s: expected status %d got %d", tc.code, tc.status, meta.HTTPStatus)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("disk on fire")
	err := Wrap(CodeDependency, cause, "writing variant")

	if err.Unwrap() != cause {
		t.Fatalf("expected cause to be preserved")
	}
	if As(err).Code() != CodeDependency {
		t.Fatalf("expected dependency code, got %s", As(err).Code())
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeValidation, nil, "missing field")
	if err.Unwrap() != nil {
		t.Fatalf("expected no cause")
	}
	if err.Error() != "VALIDATION_ERROR: missing field" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	t.Parallel()

	inner := New(CodeNotFound, "no such file")
	wrapped := fmt.Errorf("handling request: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("expected not found, got %s", typed.Code())
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeIntegrity, fmt.Errorf("stat failed"), "backing file missing")
	dump := Dump(err)

	if dump.Code != CodeIntegrity {
		t.Fatalf("expected integrity code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d", len(dump.Chain))
	}
}
