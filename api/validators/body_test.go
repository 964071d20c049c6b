package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/floracare/storefront/pkg/errors"
)

type samplePayload struct {
	Name  string `json:"customer_name" validate:"required"`
	Email string `json:"customer_email" validate:"required,email"`
}

func TestDecodeJSONBodySuccess(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_name":"Marie","customer_email":"marie@example.com"}`))

	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Name != "Marie" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_name":"Marie","customer_email":"marie@example.com","extra":true}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestDecodeJSONBodyValidationDetailsUseJSONNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_name":"Marie","customer_email":"nope"}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type %T", typed.Details())
	}
	if details["customer_email"] != "must be a valid email" {
		t.Fatalf("unexpected details: %v", details)
	}
}

func TestDecodeJSONBodyMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=25", nil)
	got, err := ParseQueryInt(req, "limit", 10, 1, 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != 25 {
		t.Fatalf("expected 25 got %d", got)
	}
}

func TestParseQueryIntDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := ParseQueryInt(req, "limit", 10, 1, 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != 10 {
		t.Fatalf("expected default 10 got %d", got)
	}
}

func TestParseQueryIntRejectsOutOfRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=9000", nil)
	if _, err := ParseQueryInt(req, "limit", 10, 1, 100); err == nil {
		t.Fatal("expected range error")
	}
}

func TestParseQueryIntRejectsNonNumeric(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=ten", nil)
	if _, err := ParseQueryInt(req, "limit", 10, 1, 100); err == nil {
		t.Fatal("expected parse error")
	}
}
