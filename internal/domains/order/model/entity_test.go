package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{OrderStatusPending, OrderStatusConfirmed, OrderStatusDispatched, OrderStatusDelivered} {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("cancelled"))
	assert.False(t, IsValidStatus(""))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusDispatched, true},
		{OrderStatusDispatched, OrderStatusDelivered, true},

		// Skipping intermediate statuses is allowed.
		{OrderStatusPending, OrderStatusDelivered, true},

		// Backward and same-status moves are not.
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusPending, OrderStatusPending, false},

		{OrderStatusPending, "cancelled", false},
		{"unknown", OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
