package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDedupKeyFormats(t *testing.T) {
	userSubsID := uuid.MustParse("b2f1a6f0-1111-2222-3333-444455556666")
	expires := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	ts := expires.Unix()

	assert.Equal(t,
		DedupKey(fmt.Sprintf("subscription_auto_pay_%s_%d", userSubsID, ts)),
		AutoPayKey(userSubsID, expires))
	assert.Equal(t,
		DedupKey(fmt.Sprintf("subscription_expiration_%s_%d", userSubsID, ts)),
		ExpirationKey(userSubsID, expires))
	assert.Equal(t,
		DedupKey(fmt.Sprintf("subscription_expired_%s_%d", userSubsID, ts)),
		ExpiredKey(userSubsID, expires))
}

func TestDedupKeysDifferPerExpiration(t *testing.T) {
	userSubsID := uuid.New()
	first := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 30)

	// Продление подписки открывает новый срок и новый ключ
	assert.NotEqual(t, AutoPayKey(userSubsID, first), AutoPayKey(userSubsID, second))
}
