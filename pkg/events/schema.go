package events

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/validation"
)

// EventType defines the type of event
type EventType string

const (
	EventTypeProfileImported     EventType = "profile.imported"
	EventTypeReservationImported EventType = "reservation.imported"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType      EventType `json:"event_type"`
	SchemaVersion  string    `json:"schema_version"`
	OrganizationID string    `json:"organization_id"`
	Timestamp      time.Time `json:"timestamp"`
	CorrelationID  string    `json:"correlation_id,omitempty"`
}

// ProfileImportedEvent is emitted after a profile has been persisted,
// including when some families failed to reconcile.
type ProfileImportedEvent struct {
	BaseEvent
	TravelerID        string                        `json:"traveler_id"`
	Source            string                        `json:"source"`
	SourceID          string                        `json:"source_id"`
	Created           bool                          `json:"created"`
	CompletenessScore float64                       `json:"completeness_score"`
	Families          map[string]int64              `json:"families"`
	Errors            []*errors.ReconciliationError `json:"errors,omitempty"`
}

// ReservationImportedEvent is emitted after a reservation has been assembled
// and its passengers reconciled.
type ReservationImportedEvent struct {
	BaseEvent
	RecordLocator     string            `json:"record_locator"`
	Source            string            `json:"source"`
	Status            string            `json:"status"`
	CompletenessScore float64           `json:"completeness_score"`
	TravelerIDs       []string          `json:"traveler_ids"`
	Validation        validation.Report `json:"validation"`
}
