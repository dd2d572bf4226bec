package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIs(t *testing.T) {
	err := New(CodeNotFound, "endpoint not found")
	if !Is(err, CodeNotFound) {
		t.Fatalf("expected Is to match CodeNotFound")
	}
	if Is(err, CodeBadRequest) {
		t.Fatalf("expected Is to reject other codes")
	}
	if Is(errors.New("plain"), CodeNotFound) {
		t.Fatalf("expected Is to reject non-domain errors")
	}

	wrapped := fmt.Errorf("lookup: %w", err)
	if !Is(wrapped, CodeNotFound) {
		t.Fatalf("expected Is to unwrap error chains")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodeBadGateway, "remote failed")); got != CodeBadGateway {
		t.Fatalf("expected bad_gateway, got %q", got)
	}
	if got := CodeOf(errors.New("boom")); got != CodeInternal {
		t.Fatalf("expected unclassified errors to map to internal, got %q", got)
	}
}

func TestWrapKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:104: connection refused")
	err := Wrap(CodeBadGateway, "association failed", cause)
	if MessageOf(err) != "association failed" {
		t.Fatalf("client message must not include the cause, got %q", MessageOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to stay in the chain for logging")
	}
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeBadGateway:   http.StatusBadGateway,
		CodeUnavailable:  http.StatusServiceUnavailable,
		CodeInternal:     http.StatusInternalServerError,
		Code("unknown"):  http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := ToHTTPStatus(code); got != want {
			t.Fatalf("code %q: expected %d, got %d", code, want, got)
		}
	}
}
