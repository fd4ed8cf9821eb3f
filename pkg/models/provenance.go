package models

import "time"

const (
	ProvenanceActionUpsert  = "upsert"
	ProvenanceActionDeleted = "deleted"
)

// ProvenanceRecord records which source run contributed a value and when.
type ProvenanceRecord struct {
	Source     string    `json:"source"`
	SourceID   string    `json:"source_id"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
	Action     string    `json:"action,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// Provenance maps a field-group name to the record that produced it.
type Provenance map[string]ProvenanceRecord
