package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "error with cause",
			err: Wrap(KindDecode, "decode_audio", "invalid base64 payload",
				errors.New("illegal base64 data at input byte 4")),
			contains: []string{"[decode:decode_audio]", "invalid base64 payload", "illegal base64 data"},
		},
		{
			name:     "error without cause",
			err:      New(KindFormat, "validate_signature", "unrecognized audio container"),
			contains: []string{"[format:validate_signature]", "unrecognized audio container"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errStr, substr) {
					t.Errorf("error string %q does not contain %q", errStr, substr)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrappedErr := Wrap(KindPayload, "test", "wrapped", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Error("Unwrap should return the original error")
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{
			name:     "direct error kind match",
			err:      New(KindAuth, "verify_key", "invalid API key"),
			kind:     KindAuth,
			expected: true,
		},
		{
			name:     "wrapped error kind match",
			err:      Wrap(KindLanguage, "validate", "unsupported language", errors.New("french")),
			kind:     KindLanguage,
			expected: true,
		},
		{
			name:     "error kind mismatch",
			err:      New(KindDecode, "test", "message"),
			kind:     KindFormat,
			expected: false,
		},
		{
			name:     "non-typed error",
			err:      errors.New("plain error"),
			kind:     KindDecode,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsKind(tt.err, tt.kind)
			if result != tt.expected {
				t.Errorf("IsKind() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(New(KindTimeout, "detect", "processing budget exceeded")); got != KindTimeout {
		t.Errorf("KindOf() = %v, expected %v", got, KindTimeout)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf() = %v, expected %v", got, KindUnknown)
	}
}
