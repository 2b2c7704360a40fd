package enums

import "fmt"

// PurchaseOrderStatus tracks the lifecycle of a purchase order.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending  PurchaseOrderStatus = "Pending"
	PurchaseOrderStatusReceived PurchaseOrderStatus = "Received"
)

var validPurchaseOrderStatuses = []PurchaseOrderStatus{
	PurchaseOrderStatusPending,
	PurchaseOrderStatusReceived,
}

// String implements fmt.Stringer.
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PurchaseOrderStatus.
func (s PurchaseOrderStatus) IsValid() bool {
	for _, candidate := range validPurchaseOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Pending may become Received; nothing else moves.
func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	return s == PurchaseOrderStatusPending && next == PurchaseOrderStatusReceived
}

// ParsePurchaseOrderStatus converts raw input into a PurchaseOrderStatus.
func ParsePurchaseOrderStatus(value string) (PurchaseOrderStatus, error) {
	for _, candidate := range validPurchaseOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase order status %q", value)
}
