package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/garnizeh/reelwork/internal/apperr"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("disk full")
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"validation", apperr.Validation("bad input"), apperr.KindValidation},
		{"not found", apperr.NotFound("Job not found"), apperr.KindNotFound},
		{"wrapped conflict", fmt.Errorf("create: %w", apperr.Conflict("Username already exists", cause)), apperr.KindConflict},
		{"authentication", apperr.Authentication("Not authenticated"), apperr.KindAuthentication},
		{"forbidden", apperr.Forbidden("nope"), apperr.KindForbidden},
		{"plain error", cause, apperr.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperr.KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.Internal(cause)
	if err.Message != "An error occurred" {
		t.Fatalf("unexpected message %q", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
}
