package models

import "time"

// Domain event types recorded in the event log
const (
	EventSignup           = "SIGNUP"
	EventLogin            = "LOGIN"
	EventSearch           = "SEARCH"
	EventProfileUpdated   = "PROFILE_UPDATED"
	EventProductCreated   = "PRODUCT_CREATED"
	EventOrderPlaced      = "ORDER_PLACED"
	EventOrderStatus      = "ORDER_STATUS_UPDATE"
	EventDeliveryAccepted = "DELIVERY_ACCEPTED"
	EventDeliveryUpdate   = "DELIVERY_UPDATE"
)

// EventLog is the append-only audit/telemetry trail. Rows are never
// mutated or deleted; UserID is nil for anonymous events.
type EventLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    *uint          `json:"user_id" gorm:"index"`
	User      *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	EventType string         `json:"event_type" gorm:"not null;index"`
	Metadata  map[string]any `json:"metadata" gorm:"serializer:json"`
	IPAddress string         `json:"ip_address"`
	UserAgent string         `json:"user_agent"`
	CreatedAt time.Time      `json:"created_at"`
}
