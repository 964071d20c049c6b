package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "persist cart slot")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeNotFound, "product not found")
	outer := fmt.Errorf("handling request: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestAsNilAndUntyped(t *testing.T) {
	if As(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestMetadataForKnownCodes(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:    http.StatusBadRequest,
		CodeNotFound:      http.StatusNotFound,
		CodeConflict:      http.StatusConflict,
		CodeStateConflict: http.StatusUnprocessableEntity,
		CodeInternal:      http.StatusInternalServerError,
		CodeDependency:    http.StatusServiceUnavailable,
	}
	for code, status := range cases {
		if got := MetadataFor(code).HTTPStatus; got != status {
			t.Fatalf("%s: expected status %d got %d", code, status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	if got := MetadataFor(Code("MYSTERY")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("expected 500 fallback got %d", got)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"customer_email": "is required"})
	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details["customer_email"] != "is required" {
		t.Fatalf("unexpected details: %v", details)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := Wrap(CodeDependency, cause, "persist cart slot")

	info := Dump(err)
	if info.Code != string(CodeDependency) {
		t.Fatalf("unexpected code %s", info.Code)
	}
	if len(info.Chain) != 2 {
		t.Fatalf("expected chain of 2 got %d", len(info.Chain))
	}
	if info.Chain[1] != "disk full" {
		t.Fatalf("unexpected chain tail: %s", info.Chain[1])
	}
}
