package domain

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderCompleted = "order.completed"
	EventOrderReceipt   = "order.receipt"

	OrdersTopic = "orders"
)

// EventEnvelope is the wire form of an outbox event. Receipt events double as
// the email-receipt trigger; mail delivery itself happens downstream.
type EventEnvelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	RestaurantID int64           `json:"restaurant_id"`
	OrderID      int64           `json:"order_id"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Payload      json.RawMessage `json:"payload"`
}

type OutboxEvent struct {
	ID            int64
	EventID       string
	RestaurantID  int64
	Topic         string
	PayloadJSON   json.RawMessage
	Status        string
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
	DispatchedAt  *time.Time
}
