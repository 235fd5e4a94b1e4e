package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeEmptyCatalog, "no %s entities", "album"),
			want: "EMPTY_CATALOG: no album entities",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeWriteFailure, fmt.Errorf("disk full"), "write %s", "out.png"),
			want: "WRITE_FAILURE: write out.png: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	base := New(ErrCodeInvalidCanvas, "canvas 0x0")
	wrapped := fmt.Errorf("render: %w", base)

	if !Is(wrapped, ErrCodeInvalidCanvas) {
		t.Error("Is should find the code through fmt.Errorf wrapping")
	}
	if Is(wrapped, ErrCodeDecodeFailure) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeInvalidCanvas) {
		t.Error("Is should be false for plain errors")
	}
	if Is(nil, ErrCodeInvalidCanvas) {
		t.Error("Is should be false for nil")
	}

	nested := Wrap(ErrCodeWriteFailure, fmt.Errorf("encode: %w", base), "write out.png")
	if !Is(nested, ErrCodeWriteFailure) || !Is(nested, ErrCodeInvalidCanvas) {
		t.Error("Is should match both the outer and the wrapped code")
	}
}

func TestWrap_Unwrap(t *testing.T) {
	err := Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "open index.txt")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("wrapped cause should be reachable with errors.Is")
	}
	if !Is(err, ErrCodeFileNotFound) {
		t.Errorf("Is(%v, FILE_NOT_FOUND) = false", err)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNothingToRender, "no covers placed")); got != "no covers placed" {
		t.Errorf("UserMessage() = %q", got)
	}
	wrapped := fmt.Errorf("render: %w", Wrap(ErrCodeWriteFailure, fmt.Errorf("disk full"), "write out.png"))
	if got := UserMessage(wrapped); got != "write out.png: disk full" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(fmt.Errorf("boom")); got != "boom" {
		t.Errorf("UserMessage() = %q", got)
	}
}
