package statemachine

import (
	"errors"

	"buildflow-api/models"
)

// deliveryTransitions is the linear delivery-job lifecycle. The SEARCHING ->
// ASSIGNED step happens through the claim, not through a status update call.
var deliveryTransitions = map[models.DeliveryStatus]models.DeliveryStatus{
	models.DeliverySearching: models.DeliveryAssigned,
	models.DeliveryAssigned:  models.DeliveryPickedUp,
	models.DeliveryPickedUp:  models.DeliveryCompleted,
}

// CanTransitionDelivery checks a delivery status change. Self-transitions are
// rejected, so repeating an update cannot re-fire email/push side effects.
func CanTransitionDelivery(from, to models.DeliveryStatus) error {
	if next, ok := deliveryTransitions[from]; ok && next == to {
		return nil
	}
	if from == to {
		return errors.New("delivery is already " + string(from))
	}
	return errors.New(
		"invalid delivery transition: " + string(from) + " -> " + string(to))
}

// OrderStatusFor returns the order status forced by a delivery status change,
// or "" when the order is left untouched (SEARCHING/ASSIGNED).
func OrderStatusFor(status models.DeliveryStatus) models.OrderStatus {
	switch status {
	case models.DeliveryPickedUp:
		return models.StatusShipped
	case models.DeliveryCompleted:
		return models.StatusDelivered
	}
	return ""
}
