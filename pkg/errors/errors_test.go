package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Spot"), CodeNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("bad date"), CodeInvalidInput, http.StatusBadRequest},
		{"validation", Validation("invalid booking", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"conflict", Conflict("overlap"), CodeConflict, http.StatusConflict},
		{"forbidden", Forbidden("wrong role"), CodeForbidden, http.StatusForbidden},
		{"internal", Internal("storage failure", errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestError_WithCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("storage failure", cause)

	want := "INTERNAL_ERROR: storage failure (caused by: connection reset)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "abc-123")

	if err.Details["id"] != "abc-123" {
		t.Errorf("details id = %v, want abc-123", err.Details["id"])
	}
	if err.Details["resource"] != "Booking" {
		t.Errorf("details resource = %v, want Booking", err.Details["resource"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("overlap")
	if got := AsAppError(appErr); got != appErr {
		t.Error("expected AsAppError to return the same AppError")
	}

	plain := errors.New("driver error")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("code = %s, want %s", got.Code, CodeInternal)
	}
	if !errors.Is(got, plain) {
		t.Error("expected original error to be wrapped")
	}
}
