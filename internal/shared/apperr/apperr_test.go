package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if KindOf(NotFound("booking not found")) != KindNotFound {
		t.Error("expected KindNotFound")
	}
	if KindOf(InvalidState("booking is already completed")) != KindInvalidState {
		t.Error("expected KindInvalidState")
	}
	if KindOf(errors.New("plain error")) != KindUnknown {
		t.Error("expected KindUnknown for plain error")
	}
	if KindOf(nil) != KindUnknown {
		t.Error("expected KindUnknown for nil")
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("processing drop: %w", InvalidInput("incorrect drop OTP"))
	if KindOf(err) != KindInvalidInput {
		t.Error("expected kind to survive wrapping")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{InvalidState("x"), http.StatusConflict},
		{InvalidInput("x"), http.StatusBadRequest},
		{Forbidden("x"), http.StatusForbidden},
		{Upstream(errors.New("timeout"), "gateway down"), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestUpstreamUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream(cause, "error fetching payment")
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}
