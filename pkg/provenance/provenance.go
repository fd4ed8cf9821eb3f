// Package provenance stamps canonical field groups and persisted rows with
// the source run that produced them.
package provenance

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
)

// DefaultConfidence is the confidence of values read directly from a source.
const DefaultConfidence = 1.0

// Reservation field groups.
var ReservationGroups = []string{
	"booking_info",
	"passengers",
	"flight_segments",
	"hotel_segments",
	"car_segments",
	"accounting_lines",
	"remarks",
	"trip_summary",
}

// Profile field groups.
var ProfileGroups = []string{
	"personal_info",
	"contact_info",
	"documents",
	"loyalty_programs",
	"payment_methods",
	"emergency_contacts",
	"preferences",
	"employment",
	"remarks",
}

// Build maps every group to the same record for (source, sourceID, ts).
func Build(groups []string, source, sourceID string, ts time.Time) models.Provenance {
	out := make(models.Provenance, len(groups))
	for _, group := range groups {
		out[group] = record(source, sourceID, ts)
	}
	return out
}

// ForRow is the provenance entry an upsert writes.
func ForRow(source, sourceID string, ts time.Time) models.ProvenanceRecord {
	r := record(source, sourceID, ts)
	r.Action = models.ProvenanceActionUpsert
	return r
}

// Deleted is the entry appended to a row when it is soft-deleted.
func Deleted(source, sourceID string, ts time.Time, reason string) models.ProvenanceRecord {
	r := record(source, sourceID, ts)
	r.Action = models.ProvenanceActionDeleted
	r.Reason = reason
	return r
}

func record(source, sourceID string, ts time.Time) models.ProvenanceRecord {
	return models.ProvenanceRecord{
		Source:     source,
		SourceID:   sourceID,
		Timestamp:  ts.UTC(),
		Confidence: DefaultConfidence,
	}
}
