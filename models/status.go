package models

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusRejected  OrderStatus = "rejected"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:  {OrderStatusCompleted: true, OrderStatusRejected: true},
	OrderStatusRejected: {OrderStatusPending: true},
	// completed is terminal
	OrderStatusCompleted: {},
}

// IsValid reports whether s is a known order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to
// another. Same-status updates are always allowed so admins can amend
// notes without changing state.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	return validNext[from][to]
}
