package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/types"
)

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope
}

func TestWriteSuccessWrapsData(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteSuccess(resp, map[string]string{"hello": "world"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode success envelope: %v", err)
	}
	if envelope.Data["hello"] != "world" {
		t.Fatalf("expected data passthrough got %+v", envelope.Data)
	}
}

func TestWriteErrorMapsCodesToStatus(t *testing.T) {
	cases := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeValidation, http.StatusBadRequest},
		{pkgerrors.CodeUnauthorized, http.StatusUnauthorized},
		{pkgerrors.CodeForbidden, http.StatusForbidden},
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodeConflict, http.StatusConflict},
		{pkgerrors.CodeStockExceeded, http.StatusConflict},
		{pkgerrors.CodeStateConflict, http.StatusUnprocessableEntity},
		{pkgerrors.CodeRateLimit, http.StatusTooManyRequests},
		{pkgerrors.CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		resp := httptest.NewRecorder()
		WriteError(context.Background(), nil, resp, pkgerrors.New(tc.code, "boom"))
		if resp.Code != tc.status {
			t.Fatalf("code %s: expected status %d got %d", tc.code, tc.status, resp.Code)
		}
		envelope := decodeError(t, resp)
		if envelope.Error.Code != string(tc.code) {
			t.Fatalf("expected code %s got %s", tc.code, envelope.Error.Code)
		}
	}
}

func TestWriteErrorPassesClientSafeMessages(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive"))

	envelope := decodeError(t, resp)
	if envelope.Error.Message != "quantity must be positive" {
		t.Fatalf("expected validation message passthrough got %q", envelope.Error.Message)
	}
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("pq: relation missing"), "query users"))

	envelope := decodeError(t, resp)
	if envelope.Error.Message == "query users" || envelope.Error.Message == "pq: relation missing" {
		t.Fatalf("internal details leaked to client: %q", envelope.Error.Message)
	}
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	resp := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "invalid payload").
		WithDetails(map[string]string{"email": "email is required"})
	WriteError(context.Background(), nil, resp, err)

	envelope := decodeError(t, resp)
	details, ok := envelope.Error.Details.(map[string]any)
	if !ok {
		t.Fatalf("expected details map got %T", envelope.Error.Details)
	}
	if details["email"] != "email is required" {
		t.Fatalf("expected field detail got %+v", details)
	}
}

func TestWriteErrorWrapsUnknownErrors(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, errors.New("plain failure"))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for untyped error got %d", resp.Code)
	}
	envelope := decodeError(t, resp)
	if envelope.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("expected internal code got %s", envelope.Error.Code)
	}
}
