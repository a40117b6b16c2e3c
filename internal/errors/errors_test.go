package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("test error")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "test error" {
		t.Errorf("expected 'test error', got '%s'", err.Error())
	}
}

func TestWrap(t *testing.T) {
	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(ErrInvalidInput, "invalid ttl")
		if wrapped == nil {
			t.Fatal("expected wrapped error, got nil")
		}
		if wrapped.Error() != "invalid ttl: invalid input" {
			t.Errorf("expected 'invalid ttl: invalid input', got '%s'", wrapped.Error())
		}
		if !errors.Is(wrapped, ErrInvalidInput) {
			t.Error("wrapped error should match ErrInvalidInput")
		}
	})

	t.Run("wrap nil error", func(t *testing.T) {
		if wrapped := Wrap(nil, "wrapped"); wrapped != nil {
			t.Errorf("expected nil, got %v", wrapped)
		}
	})

	t.Run("wrap twice keeps the chain", func(t *testing.T) {
		wrapped := Wrap(Wrap(ErrNotFound, "record"), "fetch")
		if wrapped.Error() != "fetch: record: not found" {
			t.Errorf("unexpected message '%s'", wrapped.Error())
		}
		if !Is(wrapped, ErrNotFound) {
			t.Error("double wrapped error should match ErrNotFound")
		}
	})
}

func TestStandardErrors(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{ErrNotFound, "not found"},
		{ErrInvalidInput, "invalid input"},
		{ErrInternal, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("expected '%s', got '%s'", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestIs_Classification(t *testing.T) {
	standard := []error{ErrNotFound, ErrInvalidInput, ErrInternal}

	for _, target := range standard {
		wrapped := Wrap(target, "operation failed")
		for _, other := range standard {
			want := other == target
			if got := Is(wrapped, other); got != want {
				t.Errorf("Is(Wrap(%v), %v) = %v, want %v", target, other, got, want)
			}
		}
	}
}

func TestIs_InternalIsNotInvalidInput(t *testing.T) {
	corrupted := Wrap(ErrInternal, "record corrupted")

	if !Is(corrupted, ErrInternal) {
		t.Error("expected error to match ErrInternal")
	}
	if Is(corrupted, ErrInvalidInput) {
		t.Error("internal failure must not match ErrInvalidInput")
	}
	if Is(corrupted, ErrNotFound) {
		t.Error("internal failure must not match ErrNotFound")
	}
}

func TestJoin(t *testing.T) {
	t.Run("joins every error", func(t *testing.T) {
		joined := Join(Wrap(ErrNotFound, "record"), Wrap(ErrInternal, "clear"))
		if joined == nil {
			t.Fatal("expected joined error, got nil")
		}
		if !Is(joined, ErrNotFound) {
			t.Error("joined error should match ErrNotFound")
		}
		if !Is(joined, ErrInternal) {
			t.Error("joined error should match ErrInternal")
		}
		if Is(joined, ErrInvalidInput) {
			t.Error("joined error should not match ErrInvalidInput")
		}
	})

	t.Run("nil errors are dropped", func(t *testing.T) {
		if joined := Join(nil, nil); joined != nil {
			t.Errorf("expected nil, got %v", joined)
		}

		joined := Join(nil, ErrInternal)
		if joined.Error() != "internal error" {
			t.Errorf("expected 'internal error', got '%s'", joined.Error())
		}
	})
}
