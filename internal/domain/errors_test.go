package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExternalServiceErrorMatchesUnavailable(t *testing.T) {
	transportErr := NewExternalServiceError(
		"yookassa", "unavailable", "failed to execute request", 0, errors.New("connection refused"),
	)
	assert.True(t, errors.Is(transportErr, ErrExternalServiceUnavailable))

	// Ответ со статусом вне 2xx не считается недоступностью сервиса
	badStatusErr := NewExternalServiceError("auth", "bad_status", "unexpected status", 500, nil)
	assert.False(t, errors.Is(badStatusErr, ErrExternalServiceUnavailable))
}

func TestExternalServiceErrorUnwrapsOriginal(t *testing.T) {
	original := errors.New("connection refused")
	wrapped := fmt.Errorf("pay for subscription: %w", NewExternalServiceError(
		"yookassa", "unavailable", "failed to execute request", 0, original,
	))

	assert.True(t, errors.Is(wrapped, ErrExternalServiceUnavailable))
	assert.True(t, errors.Is(wrapped, original))
}
