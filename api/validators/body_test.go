package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
)

type samplePayload struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

func postJSON(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(postJSON(`{"email":"gamer@duocuc.cl","quantity":2}`), &dest)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dest.Email != "gamer@duocuc.cl" || dest.Quantity != 2 {
		t.Fatalf("unexpected payload %+v", dest)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(postJSON(`{"email":"a@b.cl","quantity":1,"extra":true}`), &dest)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONTag(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(postJSON(`{"email":"not-an-email","quantity":0}`), &dest)
	if err == nil {
		t.Fatal("expected validation error")
	}
	coded := pkgerrors.As(err)
	if coded == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	details, ok := coded.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", coded.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
	if details["quantity"] != "must be at least 1" {
		t.Fatalf("unexpected quantity message %q", details["quantity"])
	}
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=30", nil)
	value, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil || value != 30 {
		t.Fatalf("expected 30, got %d (%v)", value, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	value, err = ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil || value != 25 {
		t.Fatalf("expected default 25, got %d (%v)", value, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	if _, err = ParseQueryInt(req, "limit", 25, 1, 100); err == nil {
		t.Fatal("expected range error for 500")
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	if _, err = ParseQueryInt(req, "limit", 25, 1, 100); err == nil {
		t.Fatal("expected numeric error for abc")
	}
}

func TestSanitizeStringCountsRunes(t *testing.T) {
	if got := SanitizeString("  Señor Gamer  ", 0); got != "Señor Gamer" {
		t.Fatalf("trim only: got %q", got)
	}
	if got := SanitizeString("ñoño", 3); got != "ñoñ" {
		t.Fatalf("rune-safe truncation: got %q", got)
	}
	if got := SanitizeString("short", 10); got != "short" {
		t.Fatalf("no-op under limit: got %q", got)
	}
}
