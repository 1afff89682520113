package orders

import (
	"testing"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to enums.OrderStatus }{
		{enums.OrderStatusPending, enums.OrderStatusProcessing},
		{enums.OrderStatusPending, enums.OrderStatusCancelled},
		{enums.OrderStatusPending, enums.OrderStatusRejected},
		{enums.OrderStatusProcessing, enums.OrderStatusShipped},
		{enums.OrderStatusProcessing, enums.OrderStatusCancelled},
		{enums.OrderStatusShipped, enums.OrderStatusDelivered},
	}
	for _, tt := range allowed {
		if !CanTransition(tt.from, tt.to) {
			t.Fatalf("%s -> %s should be allowed", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to enums.OrderStatus }{
		{enums.OrderStatusPending, enums.OrderStatusShipped},
		{enums.OrderStatusPending, enums.OrderStatusDelivered},
		{enums.OrderStatusProcessing, enums.OrderStatusRejected},
		{enums.OrderStatusProcessing, enums.OrderStatusDelivered},
		{enums.OrderStatusShipped, enums.OrderStatusCancelled},
		{enums.OrderStatusDelivered, enums.OrderStatusShipped},
		{enums.OrderStatusCancelled, enums.OrderStatusPending},
		{enums.OrderStatusRejected, enums.OrderStatusProcessing},
		{enums.OrderStatusDelivered, enums.OrderStatusDelivered},
	}
	for _, tt := range denied {
		if CanTransition(tt.from, tt.to) {
			t.Fatalf("%s -> %s should be denied", tt.from, tt.to)
		}
	}
}
