package orders

import "github.com/levelup-gaming/levelup-backend/pkg/enums"

// Lifecycle: pending -> processing -> shipped -> delivered, with
// cancellation allowed from pending and processing, and rejection only
// from pending. Delivered, cancelled, and rejected are terminal.
var transitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {
		enums.OrderStatusProcessing,
		enums.OrderStatusCancelled,
		enums.OrderStatusRejected,
	},
	enums.OrderStatusProcessing: {
		enums.OrderStatusShipped,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusShipped: {
		enums.OrderStatusDelivered,
	},
}

// CanTransition reports whether an order may move from one status to
// another in a single step.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions lists the statuses reachable from the given one.
func AllowedTransitions(from enums.OrderStatus) []enums.OrderStatus {
	return transitions[from]
}

// releasesResources reports whether entering the status returns stock
// and refunds redeemed points.
func releasesResources(status enums.OrderStatus) bool {
	return status == enums.OrderStatusCancelled || status == enums.OrderStatusRejected
}
