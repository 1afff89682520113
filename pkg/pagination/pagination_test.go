package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-3, DefaultLimit},
		{0, DefaultLimit},
		{1, 1},
		{MaxLimit, MaxLimit},
		{MaxLimit + 50, MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("LimitWithBuffer(10) = %d, want 11", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	anchor := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC),
		ID:        uuid.New(),
	}

	token := EncodeCursor(anchor)
	parsed, err := ParseCursor(token)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if parsed == nil {
		t.Fatal("expected cursor, got nil")
	}
	if !parsed.CreatedAt.Equal(anchor.CreatedAt) {
		t.Fatalf("timestamp changed: %s vs %s", parsed.CreatedAt, anchor.CreatedAt)
	}
	if parsed.ID != anchor.ID {
		t.Fatalf("id changed: %s vs %s", parsed.ID, anchor.ID)
	}
}

func TestParseCursorEmptyMeansFirstPage(t *testing.T) {
	for _, token := range []string{"", "   "} {
		cursor, err := ParseCursor(token)
		if err != nil {
			t.Fatalf("empty token should not error: %v", err)
		}
		if cursor != nil {
			t.Fatalf("empty token should yield nil cursor, got %+v", cursor)
		}
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	for _, token := range []string{"not base64!!", "bm8tc2VwYXJhdG9y", EncodeCursor(Cursor{}) + "x"} {
		if _, err := ParseCursor(token); err == nil {
			t.Fatalf("expected error for token %q", token)
		}
	}
}
