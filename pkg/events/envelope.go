package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names a domain event.
type EventType string

const (
	// EventOrderPlaced is emitted once an order and its lines are persisted.
	EventOrderPlaced EventType = "order.placed"
)

const envelopeVersion = 1

// Envelope is the stable payload structure handed to every backend.
type Envelope struct {
	Version     int             `json:"version"`
	EventID     string          `json:"eventId"`
	EventType   EventType       `json:"eventType"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Data        json.RawMessage `json:"data"`
}

// NewEnvelope marshals data into a fresh envelope.
func NewEnvelope(eventType EventType, aggregateID string, data any, occurredAt time.Time) (Envelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return Envelope{
		Version:     envelopeVersion,
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  occurredAt.UTC(),
		Data:        payload,
	}, nil
}

// Attributes returns the routing metadata copied onto transport messages.
func (e Envelope) Attributes() map[string]string {
	return map[string]string{
		"event_id":     e.EventID,
		"event_type":   string(e.EventType),
		"aggregate_id": e.AggregateID,
	}
}

// OrderPlaced is the payload of EventOrderPlaced.
type OrderPlaced struct {
	OrderID        string    `json:"orderId"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	PaymentMethod  string    `json:"paymentMethod"`
	PaymentStatus  string    `json:"paymentStatus"`
	PaymentAmount  int       `json:"paymentAmount"`
	ShippingCharge int       `json:"shippingCharge"`
	ItemCount      int       `json:"itemCount"`
	OrderDate      time.Time `json:"orderDate"`
}
