// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/nbench/envprofile/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "config_missing_error",
			code:    errors.ErrConfigMissing,
			message: "profile service URL not configured",
			wantStr: "[CONFIG_MISSING] profile service URL not configured",
		},
		{
			name:    "malformed_input_error",
			code:    errors.ErrMalformedInput,
			message: "profile payload must be a JSON object",
			wantStr: "[MALFORMED_INPUT] profile payload must be a JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := errors.Wrap(cause, errors.ErrNetwork, "publish failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	if got := err.Error(); got != "[NETWORK] publish failed: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapNil(t *testing.T) {
	if err := errors.Wrap(nil, errors.ErrNetwork, "ignored"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if err := errors.Wrapf(nil, errors.ErrService, "ignored %d", 1); err != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", err)
	}
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Newf(errors.ErrService, "HTTP %d: %s", 503, "unavailable")

	if !errors.IsErrorCode(err, errors.ErrService) {
		t.Error("IsErrorCode should match the error's own code")
	}
	if errors.IsErrorCode(err, errors.ErrNetwork) {
		t.Error("IsErrorCode should not match a different code")
	}
	if errors.IsErrorCode(stderrors.New("plain"), errors.ErrService) {
		t.Error("IsErrorCode should not match a plain error")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrProbeFailed, "probe exited 1")); got != errors.ErrProbeFailed {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrProbeFailed)
	}
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(plain) = %v, want %v", got, errors.ErrUnknown)
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrService, "tombstone rejected").
		WithDetail("status", 403).
		WithDetail("id", "abc123")

	details := errors.GetErrorDetails(err)
	if details["status"] != 403 {
		t.Errorf("details[status] = %v, want 403", details["status"])
	}
	if details["id"] != "abc123" {
		t.Errorf("details[id] = %v, want abc123", details["id"])
	}
}
