package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   New(CodeNotFound, "room not found", http.StatusNotFound),
			expected: "NOT_FOUND: room not found",
		},
		{
			name:     "with underlying error",
			appErr:   Wrap(errors.New("connection reset"), CodeInternal, "store failure", http.StatusInternalServerError),
			expected: "INTERNAL_ERROR: store failure (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("write conflict")
	appErr := Unavailable("Reservation store", cause)

	if !errors.Is(appErr, cause) {
		t.Errorf("errors.Is should reach the wrapped cause")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Room"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Room", 7), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad body"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("no signature"), CodeUnauthorized, http.StatusUnauthorized},
		{"conflict", Conflict("taken"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Reservation store", nil), CodeUnavailable, http.StatusServiceUnavailable},
		{"rate limited", RateLimited("slow down"), CodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Room", 99)

	if err.Details["id"] != 99 {
		t.Errorf("expected id 99, got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Room" {
		t.Errorf("expected resource 'Room', got %v", err.Details["resource"])
	}
}

func TestWithReason(t *testing.T) {
	err := Validation("Missing required reservation information", map[string]any{"fields": []string{"date"}}).
		WithReason("missing_field")

	if err.Reason() != "missing_field" {
		t.Errorf("Reason() = %q, want %q", err.Reason(), "missing_field")
	}
	if _, ok := err.Details["fields"]; !ok {
		t.Errorf("WithReason should keep existing details")
	}

	if reason := Conflict("taken").Reason(); reason != "" {
		t.Errorf("expected empty reason, got %q", reason)
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("reserve: %w", Conflict("taken"))

	if !HasCode(wrapped, CodeConflict) {
		t.Errorf("HasCode should see through fmt.Errorf wrapping")
	}
	if HasCode(wrapped, CodeNotFound) {
		t.Errorf("HasCode matched the wrong code")
	}
	if HasCode(errors.New("plain"), CodeConflict) {
		t.Errorf("HasCode should be false for plain errors")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Room")
	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return the same AppError")
	}

	if AsAppError(fmt.Errorf("ctx: %w", appErr)) != appErr {
		t.Errorf("AsAppError() should unwrap wrapped AppErrors")
	}

	plain := errors.New("regular error")
	result := AsAppError(plain)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should map plain errors to internal, got %s", result.Code)
	}
	if result.Err != plain {
		t.Errorf("AsAppError() should keep the original error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	body := string(NotFoundWithID("Room", 99).ToJSON())

	for _, want := range []string{`"code":"NOT_FOUND"`, `"message":"Room not found"`, `"id":99`} {
		if !strings.Contains(body, want) {
			t.Errorf("ToJSON() = %s, missing %s", body, want)
		}
	}
}
