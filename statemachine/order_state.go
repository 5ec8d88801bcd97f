package statemachine

import (
	"errors"

	"buildflow-api/models"
)

// Actor names allowed to trigger order transitions
const (
	ActorCustomer = "customer"
	ActorSupplier = "supplier"
	ActorDriver   = "driver"
	ActorAdmin    = "admin"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// validTransitions is the authoritative order state machine definition
var validTransitions = []Transition{
	// Supplier responds to a new order
	{From: models.StatusPending, To: models.StatusAccepted, Actor: ActorSupplier},
	{From: models.StatusPending, To: models.StatusRejected, Actor: ActorSupplier},
	// Customer or supplier can cancel before the order ships
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorSupplier},
	{From: models.StatusAccepted, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusAccepted, To: models.StatusCancelled, Actor: ActorSupplier},
	// Driver progress mirrors into the order
	{From: models.StatusAccepted, To: models.StatusShipped, Actor: ActorDriver},
	{From: models.StatusShipped, To: models.StatusDelivered, Actor: ActorDriver},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move an order from one state to
// another. Admin bypasses the table (emergency override).
func CanTransition(from, to models.OrderStatus, actor string) error {
	if actor == ActorAdmin {
		return nil
	}
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full order state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
