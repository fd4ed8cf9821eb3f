package provenance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestBuild(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))

	got := Build([]string{"personal_info", "contact_info"}, "sabre", "P-1", ts)

	want := models.ProvenanceRecord{Source: "sabre", SourceID: "P-1", Timestamp: ts.UTC(), Confidence: 1.0}
	assert.Equal(t, models.Provenance{"personal_info": want, "contact_info": want}, got)
}

func TestBuild_Deterministic(t *testing.T) {
	ts := time.Now()
	assert.Equal(t, Build(ProfileGroups, "a", "b", ts), Build(ProfileGroups, "a", "b", ts))
	assert.Len(t, Build(ReservationGroups, "a", "b", ts), len(ReservationGroups))
	assert.Empty(t, Build(nil, "a", "b", ts))
}

func TestRowEntries(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	upsert := ForRow("sabre", "P-1", ts)
	assert.Equal(t, models.ProvenanceActionUpsert, upsert.Action)
	assert.Empty(t, upsert.Reason)

	deleted := Deleted("sabre", "P-1", ts, "absent from source")
	assert.Equal(t, models.ProvenanceActionDeleted, deleted.Action)
	assert.Equal(t, "absent from source", deleted.Reason)
	assert.Equal(t, 1.0, deleted.Confidence)
}
