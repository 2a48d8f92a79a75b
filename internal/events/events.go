// Package events announces transaction changes to interested consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"finance-tracker/internal/models"
)

// EventType names a transaction change.
type EventType string

const (
	TransactionRecorded EventType = "transaction.recorded"
	TransactionUpdated  EventType = "transaction.updated"
	TransactionDeleted  EventType = "transaction.deleted"
)

// TransactionEvent is the message body published for a transaction change.
// Amount is in the base currency.
type TransactionEvent struct {
	Type          EventType `json:"type"`
	UserID        int64     `json:"user_id"`
	TransactionID int64     `json:"transaction_id"`
	Kind          string    `json:"kind"`
	Amount        float64   `json:"amount"`
	Category      string    `json:"category"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionEvent builds an event for t stamped with the current time.
func NewTransactionEvent(typ EventType, t *models.Transaction) TransactionEvent {
	return TransactionEvent{
		Type:          typ,
		UserID:        t.UserID,
		TransactionID: t.ID,
		Kind:          string(t.Kind),
		Amount:        t.Amount,
		Category:      t.Category,
		Timestamp:     time.Now().UTC(),
	}
}

// ToJSON encodes the event.
func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers transaction events.
type Publisher interface {
	PublishTransaction(ctx context.Context, ev TransactionEvent) error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

// PublishTransaction does nothing.
func (Nop) PublishTransaction(context.Context, TransactionEvent) error { return nil }
