package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryStatus represents the logistics lifecycle of one order's delivery job
type DeliveryStatus string

const (
	DeliverySearching DeliveryStatus = "SEARCHING"
	DeliveryAssigned  DeliveryStatus = "ASSIGNED"
	DeliveryPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryCompleted DeliveryStatus = "COMPLETED"
)

// Delivery is the logistics job for exactly one order. Unassigned jobs have
// PartnerID nil and status SEARCHING; the first successful claim wins.
type Delivery struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	OrderID        string         `json:"order_id" gorm:"uniqueIndex;not null"`
	Order          *Order         `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	PartnerID      *uint          `json:"partner_id"`
	Partner        *User          `json:"partner,omitempty" gorm:"foreignKey:PartnerID"`
	Status         DeliveryStatus `json:"status" gorm:"not null;default:'SEARCHING'"`
	PickupAddress  string         `json:"pickup_address"`
	DropoffAddress string         `json:"dropoff_address"`
	DeliveryFee    float64        `json:"delivery_fee"`
	StartedAt      *time.Time     `json:"started_at"`
	CompletedAt    *time.Time     `json:"completed_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (d *Delivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
