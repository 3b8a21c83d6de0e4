package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/0xsj/overwatch-profile/internal/domain/event"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/messaging"
)

const (
	headerEventType = "Event-Type"
	defaultPrefix   = "overwatch"
)

// msgPublisher is the part of *nats.Conn the publisher uses.
type msgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

// eventPublisher implements messaging.EventPublisher on core NATS.
type eventPublisher struct {
	conn   msgPublisher
	prefix string
}

// NewEventPublisher creates a new EventPublisher publishing under subjectPrefix.
func NewEventPublisher(conn *nats.Conn, subjectPrefix string) messaging.EventPublisher {
	return newEventPublisher(conn, subjectPrefix)
}

func newEventPublisher(conn msgPublisher, subjectPrefix string) *eventPublisher {
	if subjectPrefix == "" {
		subjectPrefix = defaultPrefix
	}
	return &eventPublisher{conn: conn, prefix: subjectPrefix}
}

// Publish sends evt with its type and ID as headers and the caller's trace
// context propagated alongside.
func (p *eventPublisher) Publish(ctx context.Context, evt event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(newEnvelope(evt))
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", evt.EventType(), err)
	}

	msg := nats.NewMsg(p.subject(evt))
	msg.Data = data
	msg.Header.Set(headerEventType, evt.EventType())
	msg.Header.Set(nats.MsgIdHdr, evt.EventID().String())
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(http.Header(msg.Header)))

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.EventType(), err)
	}
	return nil
}

// PublishAll publishes events in order and stops at the first failure.
func (p *eventPublisher) PublishAll(ctx context.Context, events []event.Event) error {
	for _, evt := range events {
		if err := p.Publish(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

func (p *eventPublisher) subject(evt event.Event) string {
	return p.prefix + "." + messaging.TopicForEvent(evt)
}

// envelope is the wire form of an event.
type envelope struct {
	EventID       string      `json:"event_id"`
	EventType     string      `json:"event_type"`
	AggregateID   string      `json:"aggregate_id"`
	AggregateType string      `json:"aggregate_type"`
	OccurredAt    int64       `json:"occurred_at"`
	Payload       event.Event `json:"payload"`
}

func newEnvelope(evt event.Event) envelope {
	return envelope{
		EventID:       evt.EventID().String(),
		EventType:     evt.EventType(),
		AggregateID:   evt.AggregateID().String(),
		AggregateType: evt.AggregateType(),
		OccurredAt:    evt.OccurredAt().Time().Unix(),
		Payload:       evt,
	}
}
