package models

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/database"
)

// ProfileRow is one persisted entity of a profile family table
// (emails, phones, documents...). It is never hard-deleted.
type ProfileRow struct {
	ID          string                            `json:"id" db:"id"`
	ProfileID   string                            `json:"profile_id" db:"profile_id"`
	Source      string                            `json:"source" db:"source"`
	SourceID    string                            `json:"source_id" db:"source_id"`
	NaturalKey  string                            `json:"natural_key" db:"natural_key"`
	Data        database.JSON[map[string]any]     `json:"data" db:"data"`
	Fingerprint string                            `json:"fingerprint" db:"fingerprint"`
	Provenance  database.JSON[[]ProvenanceRecord] `json:"provenance" db:"provenance"`
	CreatedAt   time.Time                         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time                         `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time                        `json:"deleted_at,omitempty" db:"deleted_at"`
}

// LatestProvenance returns the newest provenance entry, if any.
func (r ProfileRow) LatestProvenance() *ProvenanceRecord {
	entries := r.Provenance.Data
	if len(entries) == 0 {
		return nil
	}
	return &entries[len(entries)-1]
}

// Traveler is the persisted core of a profile: identity plus the
// single-valued field groups, each with its own provenance.
type Traveler struct {
	ID                string                      `json:"id" db:"id"`
	OrganizationID    string                      `json:"organization_id" db:"organization_id"`
	Source            string                      `json:"source" db:"source"`
	SourceID          string                      `json:"source_id" db:"source_id"`
	FirstName         string                      `json:"first_name" db:"first_name"`
	LastName          string                      `json:"last_name" db:"last_name"`
	PrimaryEmail      string                      `json:"primary_email" db:"primary_email"`
	Data              database.JSON[TravelerData] `json:"data" db:"data"`
	Provenance        database.JSON[Provenance]   `json:"provenance" db:"provenance"`
	Fingerprint       string                      `json:"fingerprint" db:"fingerprint"`
	CompletenessScore float64                     `json:"completeness_score" db:"completeness_score"`
	CreatedAt         time.Time                   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at" db:"updated_at"`
	DeletedAt         *time.Time                  `json:"deleted_at,omitempty" db:"deleted_at"`
}

// TravelerData holds the single-valued profile groups stored on the traveler.
type TravelerData struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	Preferences  Preferences  `json:"preferences"`
	Employment   Employment   `json:"employment"`
	Remarks      []Remark     `json:"remarks,omitempty"`
}
