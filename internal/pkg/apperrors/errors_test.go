package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCustomErrorUnwrapsToSentinel(t *testing.T) {
	err := NewMissingFieldError("Missing required field: email")

	if !errors.Is(err, ErrMissingField) {
		t.Fatal("missing field error should match ErrMissingField")
	}
	if err.Error() != "Missing required field: email" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestIsMatchesAnyListed(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrFileRejected)

	if !Is(err, ErrMissingField, ErrInvalidFormat, ErrFileRejected) {
		t.Fatal("Is should match a listed sentinel through wrapping")
	}
	if Is(err, ErrStudentNotFound, ErrDocumentNotFound) {
		t.Fatal("Is matched an unrelated sentinel")
	}
}

func TestCustomErrorFallbackMessages(t *testing.T) {
	withMessage := &CustomError{Err: ErrStorageFailure, Message: "disk full"}
	if withMessage.Error() != "disk full" {
		t.Fatalf("Error() = %q", withMessage.Error())
	}

	withoutMessage := &CustomError{Err: ErrStorageFailure}
	if withoutMessage.Error() != ErrStorageFailure.Error() {
		t.Fatalf("Error() = %q", withoutMessage.Error())
	}
}
