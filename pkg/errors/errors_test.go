package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "bad width: %d", 0)

	if err.Code != ErrCodeConfigInvalid {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeConfigInvalid)
	}

	if err.Message != "bad width: 0" {
		t.Errorf("Message = %v, want %v", err.Message, "bad width: 0")
	}

	expected := "CONFIG_INVALID: bad width: 0"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exec: chrome not found")
	err := Wrap(ErrCodeRenderUnavailable, cause, "launch browser")

	if err.Code != ErrCodeRenderUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRenderUnavailable)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeRenderOverflow, "x"), ErrCodeRenderOverflow, true},
		{"non-matching code", New(ErrCodeRenderOverflow, "x"), ErrCodeRenderFailed, false},
		{"wrapped by fmt", fmt.Errorf("render: %w", New(ErrCodeRenderTimeout, "x")), ErrCodeRenderTimeout, true},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsRenderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"failed", New(ErrCodeRenderFailed, "x"), true},
		{"overflow", New(ErrCodeRenderOverflow, "x"), true},
		{"unavailable", New(ErrCodeRenderUnavailable, "x"), true},
		{"timeout wrapped", fmt.Errorf("pipeline: %w", New(ErrCodeRenderTimeout, "x")), true},
		{"config", New(ErrCodeConfigInvalid, "x"), false},
		{"input", New(ErrCodeInvalidInput, "x"), false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRenderError(tt.err); got != tt.want {
				t.Errorf("IsRenderError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodePayloadTooLarge, "x")); got != ErrCodePayloadTooLarge {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodePayloadTooLarge)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "body is not JSON")); got != "body is not JSON" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}
