package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSpecificErrorsUnwrapToKind(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{ErrInvalidTime, ErrValidation},
		{ErrTimeNotInFuture, ErrValidation},
		{ErrInvalidSlots, ErrValidation},
		{ErrSameOwner, ErrValidation},
		{ErrTargetHasNoCard, ErrNoActiveCard},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("errors.Is(%v, %v) = false", tc.err, tc.kind)
		}
	}
	if errors.Is(ErrTimeNotInFuture, ErrStaleCard) {
		t.Fatalf("validation error matched stale card kind")
	}
}

func TestCodeReturnsMostSpecific(t *testing.T) {
	wrapped := fmt.Errorf("reschedule: %w", ErrTimeNotInFuture)
	if got := Code(wrapped); got != "time_not_in_future" {
		t.Fatalf("Code = %q, want time_not_in_future", got)
	}
	if got := Code(errors.New("plain")); got != "" {
		t.Fatalf("Code(plain) = %q, want empty", got)
	}
}

func TestCollaboratorKeepsCause(t *testing.T) {
	cause := errors.New("503 service unavailable")
	err := Collaborator("send origin", cause)
	if !errors.Is(err, ErrCollaborator) {
		t.Fatalf("missing collaborator kind: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("missing cause: %v", err)
	}
	if got := Code(err); got != "collaborator_failure" {
		t.Fatalf("Code = %q", got)
	}
}
