package order

import "reviewqr-backend/internal/models"

// ValidTransition reports whether an order may move from one status to the
// next. Shipments only move forward; Delivered is terminal.
func ValidTransition(from, to string) bool {
	switch from {
	case models.OrderProcessing:
		return to == models.OrderInTransit
	case models.OrderInTransit:
		return to == models.OrderDelivered
	default:
		return false
	}
}
