package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorsWrapCategories(t *testing.T) {
	wrapped := fmt.Errorf("loading project: %w", ErrProjectNotFound)

	assert.True(t, errors.Is(wrapped, ErrProjectNotFound))
	assert.True(t, errors.Is(wrapped, ErrResourceNotFound))
	assert.False(t, errors.Is(wrapped, ErrChannelNotFound))

	assert.True(t, errors.Is(ErrInviteExpired, ErrGone))
	assert.True(t, errors.Is(ErrChannelAlreadyExists, ErrConflict))
	assert.True(t, errors.Is(ErrPlanLimitReached, ErrPermissionDenied))
}

func TestUserMessage(t *testing.T) {
	msg, ok := UserMessage(fmt.Errorf("x: %w", ErrUserNotFound))
	assert.True(t, ok)
	assert.Equal(t, "User not found", msg)

	_, ok = UserMessage(errors.New("pg: connection refused"))
	assert.False(t, ok)
}

func TestIs(t *testing.T) {
	err := NewForbiddenError("nope")
	assert.True(t, Is(err, ErrBadRequest, ErrPermissionDenied))
	assert.False(t, Is(err, ErrBadRequest, ErrConflict))
	assert.True(t, Is(fmt.Errorf("respond: %w", ErrInviteExpired), ErrGone))
}

func TestCustomErrorCode(t *testing.T) {
	var ce *CustomError
	assert.True(t, errors.As(ErrPlanLimitReached, &ce))
	assert.Equal(t, "PLAN_001", ce.Code)
}
