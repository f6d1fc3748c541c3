package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_IsMapsStatusToSentinel(t *testing.T) {
	cases := []struct {
		status int
		target error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrInvalidArgument},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusBadGateway, ErrUpstream},
		{http.StatusGatewayTimeout, ErrUpstream},
	}
	for _, tc := range cases {
		err := fmt.Errorf("wrapped: %w", New(tc.status, "code", errors.New("boom")))
		if !errors.Is(err, tc.target) {
			t.Fatalf("status %d should match %v", tc.status, tc.target)
		}
	}
	if errors.Is(New(http.StatusInternalServerError, "x", nil), ErrUpstream) {
		t.Fatalf("500 must not classify as upstream")
	}
}

func TestFrom(t *testing.T) {
	if From(nil, "x") != nil {
		t.Fatalf("nil error should stay nil")
	}

	nf := NotFound("learning_path_not_found", "Learning path not found")
	if got := From(fmt.Errorf("load: %w", nf), "fallback"); got != nf {
		t.Fatalf("expected the wrapped *Error back, got %+v", got)
	}

	got := From(fmt.Errorf("lookup: %w", ErrInvalidArgument), "fallback")
	if got.Status != http.StatusBadRequest || got.Code != "invalid_argument" {
		t.Fatalf("sentinel not classified: %+v", got)
	}

	got = From(errors.New("disk on fire"), "learning_path_save_failed")
	if got.Status != http.StatusInternalServerError || got.Code != "learning_path_save_failed" {
		t.Fatalf("unknown error: %+v", got)
	}
}

func TestError_Message(t *testing.T) {
	if msg := New(http.StatusUnauthorized, "unauthorized", nil).Error(); msg != "unauthorized" {
		t.Fatalf("code should stand in for a nil error, got %q", msg)
	}
	if msg := New(http.StatusTeapot, "", nil).Error(); msg != "api error (418)" {
		t.Fatalf("got %q", msg)
	}
}
