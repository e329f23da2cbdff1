package order

import "dinekart/internal/model"

// transitions lists the statuses each status may move to.
var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:   {model.OrderStatusConfirmed, model.OrderStatusCancelled},
	model.OrderStatusConfirmed: {model.OrderStatusPreparing, model.OrderStatusCancelled},
	model.OrderStatusPreparing: {model.OrderStatusReady, model.OrderStatusCancelled},
	model.OrderStatusReady:     {model.OrderStatusDelivered, model.OrderStatusCancelled},
	model.OrderStatusDelivered: nil,
	model.OrderStatusCancelled: nil,
}

// NextStatuses returns the statuses reachable from s in one step.
func NextStatuses(s model.OrderStatus) []model.OrderStatus {
	next := transitions[s]
	out := make([]model.OrderStatus, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether no further status change is allowed from s.
func IsTerminal(s model.OrderStatus) bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to model.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns ErrInvalidStatusTransition unless from → to is allowed.
func Transition(from, to model.OrderStatus) error {
	if !CanTransition(from, to) {
		return model.ErrInvalidStatusTransition
	}
	return nil
}
