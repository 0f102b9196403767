package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventTransferCreated   EventType = "market.transfer.created"
	EventTransferAccepted  EventType = "market.transfer.accepted"
	EventTransferCompleted EventType = "market.transfer.completed"
	EventOfferPlaced       EventType = "market.offer.placed"
	EventOfferAccepted     EventType = "market.offer.accepted"
	EventOfferRejected     EventType = "market.offer.rejected"
	EventWindowOpened      EventType = "market.window.opened"
	EventWindowClosed      EventType = "market.window.closed"
	EventFraudAlertRaised  EventType = "market.fraud.alert.raised"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateTransfer AggregateType = "transfer"
	AggregateOffer    AggregateType = "offer"
	AggregateWindow   AggregateType = "window"
	AggregateFraud    AggregateType = "fraud"
)

// OutboxDraft is the payload written to the event_outbox table.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"eventId"`
	AggregateType AggregateType   `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     EventType       `json:"eventType"`
	PartitionKey  string          `json:"partitionKey"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

func newDraft(agg AggregateType, aggID string, evt EventType, payload interface{}) OutboxDraft {
	raw, _ := json.Marshal(payload)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: agg,
		AggregateID:   aggID,
		EventType:     evt,
		PartitionKey:  aggID,
		Headers:       json.RawMessage(`{}`),
		Payload:       raw,
		OccurredAt:    time.Now(),
	}
}

// NewTransferEvent creates a transfer lifecycle event carrying the full
// transfer snapshot.
func NewTransferEvent(evt EventType, t *Transfer) OutboxDraft {
	return newDraft(AggregateTransfer, t.ID.String(), evt, t)
}

// NewOfferEvent creates an offer lifecycle event. The partition key is the
// parent transfer so all activity on one negotiation stays ordered.
func NewOfferEvent(evt EventType, o *Offer) OutboxDraft {
	d := newDraft(AggregateOffer, o.ID.String(), evt, o)
	d.PartitionKey = o.TransferID.String()
	return d
}

// NewWindowEvent creates a window open/close event.
func NewWindowEvent(evt EventType, w *TransferWindow) OutboxDraft {
	return newDraft(AggregateWindow, w.ID.String(), evt, w)
}

// NewFraudAlertEvent creates an event for a raised fraud alert. The
// outbox consumer fans this out to admin notification channels.
func NewFraudAlertEvent(alert *FraudAlert) OutboxDraft {
	d := newDraft(AggregateFraud, alert.ID.String(), EventFraudAlertRaised, alert)
	d.PartitionKey = alert.TransferID.String()
	return d
}
