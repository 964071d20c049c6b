package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/floracare/storefront/pkg/errors"
	"github.com/floracare/storefront/pkg/types"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteSuccess(resp, map[string]string{"status": "ok"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestWriteErrorMapsCodeToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{pkgerrors.New(pkgerrors.CodeValidation, "bad input"), http.StatusBadRequest},
		{pkgerrors.New(pkgerrors.CodeNotFound, "missing"), http.StatusNotFound},
		{pkgerrors.New(pkgerrors.CodeConflict, "busy"), http.StatusConflict},
		{pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty"), http.StatusUnprocessableEntity},
		{pkgerrors.New(pkgerrors.CodeDependency, "redis down"), http.StatusServiceUnavailable},
		{errors.New("plain failure"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		resp := httptest.NewRecorder()
		WriteError(context.Background(), nil, resp, tc.err)
		if resp.Code != tc.status {
			t.Fatalf("%v: expected %d got %d", tc.err, tc.status, resp.Code)
		}
	}
}

func TestWriteErrorExposesClientSafeMessage(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty"))

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Message != "cart is empty" {
		t.Fatalf("expected pass-through message got %q", envelope.Error.Message)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, pkgerrors.New(pkgerrors.CodeInternal, "stack trace details leak"))

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Message != "internal server error" {
		t.Fatalf("internal message leaked: %q", envelope.Error.Message)
	}
}
