package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{name: "bad request", err: BadRequest("invalid"), want: http.StatusBadRequest},
		{name: "unauthorized", err: Unauthorized("no"), want: http.StatusUnauthorized},
		{name: "conflict", err: Conflict("busy"), want: http.StatusConflict},
		{name: "not found", err: NotFound("missing"), want: http.StatusNotFound},
		{name: "unprocessable", err: Unprocessable("nope"), want: http.StatusUnprocessableEntity},
		{name: "internal", err: Internal("boom"), want: http.StatusInternalServerError},
		{name: "nil", err: nil, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.StatusCode(); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("db unreachable", WithCause(cause))

	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find the wrapped cause")
	}
	if err.Error() != "db unreachable: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFrom(t *testing.T) {
	app := NotFound("missing")
	if got := From(app); got != app {
		t.Error("From() re-wrapped an AppError")
	}

	wrapped := fmt.Errorf("outer: %w", app)
	if got := From(wrapped); got.Kind() != KindNotFound {
		t.Errorf("From(wrapped) kind = %v, want not found", got.Kind())
	}

	plain := From(errors.New("oops"))
	if plain.Kind() != KindInternal {
		t.Errorf("From(plain) kind = %v, want internal", plain.Kind())
	}
	if From(nil) != nil {
		t.Error("From(nil) != nil")
	}
}

func TestDetails(t *testing.T) {
	err := BadRequest("invalid", WithDetail("field", "phone"), WithDetails(map[string]any{"hint": "E.164"}))
	details := err.Details()
	if details["field"] != "phone" || details["hint"] != "E.164" {
		t.Errorf("Details() = %v", details)
	}
}
