package statemachine

import (
	"testing"

	"buildflow-api/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		actor   string
		wantErr bool
	}{
		{"supplier accepts pending", models.StatusPending, models.StatusAccepted, ActorSupplier, false},
		{"supplier rejects pending", models.StatusPending, models.StatusRejected, ActorSupplier, false},
		{"customer cancels pending", models.StatusPending, models.StatusCancelled, ActorCustomer, false},
		{"customer cancels accepted", models.StatusAccepted, models.StatusCancelled, ActorCustomer, false},
		{"driver ships accepted", models.StatusAccepted, models.StatusShipped, ActorDriver, false},
		{"driver delivers shipped", models.StatusShipped, models.StatusDelivered, ActorDriver, false},
		{"customer cannot accept", models.StatusPending, models.StatusAccepted, ActorCustomer, true},
		{"customer cannot cancel shipped", models.StatusShipped, models.StatusCancelled, ActorCustomer, true},
		{"no path out of cancelled", models.StatusCancelled, models.StatusAccepted, ActorSupplier, true},
		{"no path out of delivered", models.StatusDelivered, models.StatusPending, ActorSupplier, true},
		{"no self transition", models.StatusPending, models.StatusPending, ActorSupplier, true},
		{"driver cannot skip to delivered", models.StatusAccepted, models.StatusDelivered, ActorDriver, true},
		{"admin bypasses the table", models.StatusCancelled, models.StatusAccepted, ActorAdmin, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.actor)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanTransition(%s, %s, %s) err=%v wantErr=%v",
					tt.from, tt.to, tt.actor, err, tt.wantErr)
			}
		})
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	nexts := ValidTransitionsFrom(models.StatusPending)
	want := map[models.OrderStatus]bool{
		models.StatusAccepted:  true,
		models.StatusRejected:  true,
		models.StatusCancelled: true,
	}
	if len(nexts) != len(want) {
		t.Fatalf("got %v, want states %v", nexts, want)
	}
	for _, s := range nexts {
		if !want[s] {
			t.Errorf("unexpected next state %s from PENDING", s)
		}
	}

	if got := ValidTransitionsFrom(models.StatusDelivered); len(got) != 0 {
		t.Errorf("DELIVERED should be terminal, got next states %v", got)
	}
}

func TestCanTransitionDelivery(t *testing.T) {
	tests := []struct {
		name    string
		from    models.DeliveryStatus
		to      models.DeliveryStatus
		wantErr bool
	}{
		{"assigned to picked up", models.DeliveryAssigned, models.DeliveryPickedUp, false},
		{"picked up to completed", models.DeliveryPickedUp, models.DeliveryCompleted, false},
		{"searching to assigned", models.DeliverySearching, models.DeliveryAssigned, false},
		{"skip pickup", models.DeliveryAssigned, models.DeliveryCompleted, true},
		{"repeat completed", models.DeliveryCompleted, models.DeliveryCompleted, true},
		{"repeat picked up", models.DeliveryPickedUp, models.DeliveryPickedUp, true},
		{"backwards", models.DeliveryCompleted, models.DeliveryPickedUp, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransitionDelivery(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanTransitionDelivery(%s, %s) err=%v wantErr=%v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestOrderStatusFor(t *testing.T) {
	if got := OrderStatusFor(models.DeliveryPickedUp); got != models.StatusShipped {
		t.Errorf("PICKED_UP should force SHIPPED, got %s", got)
	}
	if got := OrderStatusFor(models.DeliveryCompleted); got != models.StatusDelivered {
		t.Errorf("COMPLETED should force DELIVERED, got %s", got)
	}
	if got := OrderStatusFor(models.DeliveryAssigned); got != "" {
		t.Errorf("ASSIGNED should not touch the order, got %s", got)
	}
	if got := OrderStatusFor(models.DeliverySearching); got != "" {
		t.Errorf("SEARCHING should not touch the order, got %s", got)
	}
}
