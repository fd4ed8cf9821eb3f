// Package events handles event emission for completed imports
package events

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	fernctx "github.com/Ramsey-B/fern/pkg/context"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Publisher is the outbound transport; *kafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// Emitter handles event emission for Fern
type Emitter struct {
	publisher Publisher
	logger    ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(publisher Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		publisher: publisher,
		logger:    logger,
	}
}

// EmitProfileImported emits a profile imported event keyed by traveler
func (e *Emitter) EmitProfileImported(ctx context.Context, event ProfileImportedEvent) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitProfileImported")
	defer span.End()

	event.BaseEvent = e.base(ctx, EventTypeProfileImported, event.OrganizationID)
	return e.publish(ctx, event.BaseEvent, event.TravelerID, event)
}

// EmitReservationImported emits a reservation imported event keyed by record locator
func (e *Emitter) EmitReservationImported(ctx context.Context, event ReservationImportedEvent) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitReservationImported")
	defer span.End()

	event.BaseEvent = e.base(ctx, EventTypeReservationImported, event.OrganizationID)
	return e.publish(ctx, event.BaseEvent, event.RecordLocator, event)
}

func (e *Emitter) base(ctx context.Context, eventType EventType, organizationID string) BaseEvent {
	return BaseEvent{
		EventType:      eventType,
		SchemaVersion:  SchemaVersion,
		OrganizationID: organizationID,
		Timestamp:      time.Now().UTC(),
		CorrelationID:  fernctx.GetRequestID(ctx),
	}
}

func (e *Emitter) publish(ctx context.Context, base BaseEvent, key string, payload any) error {
	err := e.publisher.Publish(ctx, kafka.Event{
		EventType:      string(base.EventType),
		OrganizationID: base.OrganizationID,
		Key:            key,
		SchemaVersion:  base.SchemaVersion,
		Payload:        payload,
	})
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Errorf("Failed to emit %s event", base.EventType)
		return err
	}
	return nil
}
