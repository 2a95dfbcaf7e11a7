// Package notify publishes ledger events for the push-notification function.
package notify

import (
	"context"
	"encoding/json"
	"time"
)

// Kind names what happened to the ledger.
type Kind string

const (
	TransactionCreated Kind = "transaction.created"
	TransactionUpdated Kind = "transaction.updated"
	TransactionDeleted Kind = "transaction.deleted"
	SettlementCreated  Kind = "settlement.created"
)

// Event is the message body consumers receive. Only identifiers and the
// headline figures travel; consumers read details back through the API.
type Event struct {
	Kind          Kind      `json:"kind"`
	ProjectID     string    `json:"project_id"`
	TransactionID string    `json:"transaction_id"`
	ActorID       string    `json:"actor_id"`
	Title         string    `json:"title,omitempty"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an event published by this package.
func EventFromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event. It is used when AMQP is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
