package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeltaDays(t *testing.T) {
	tests := []struct {
		name               string
		transactionAmount  float64
		subscriptionAmount float64
		period             int
		expected           int
	}{
		{"full amount gives full period", 500, 500, 30, 30},
		{"half amount gives half period", 250, 500, 30, 15},
		{"fractional days are truncated", 100, 300, 10, 3},
		{"amount above subscription extends past period", 1000, 500, 30, 60},
		{"zero transaction amount gives zero days", 0, 500, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeltaDays(tt.transactionAmount, tt.subscriptionAmount, tt.period))
		})
	}
}

func TestDeltaDaysPanicsOnZeroSubscriptionAmount(t *testing.T) {
	assert.Panics(t, func() {
		DeltaDays(100, 0, 30)
	})
}
