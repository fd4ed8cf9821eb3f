package traveler

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
)

func getTestRepository(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	raw, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	_, err = raw.Exec(`CREATE TABLE travelers (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		source_id TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		primary_email TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL DEFAULT '{}',
		provenance TEXT NOT NULL DEFAULT '{}',
		fingerprint TEXT NOT NULL DEFAULT '',
		completeness_score REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`)
	require.NoError(t, err)

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewRepository(database.NewDatabaseInstance(raw, logger), logger)
}

func newTraveler(sourceID, email string) *models.Traveler {
	return &models.Traveler{
		ID:             uuid.NewString(),
		OrganizationID: "ORG-7",
		Source:         "sabre",
		SourceID:       sourceID,
		FirstName:      "John",
		LastName:       "Smith",
		PrimaryEmail:   email,
		Data: database.NewJSON(models.TravelerData{
			PersonalInfo: models.PersonalInfo{FirstName: "John", LastName: "Smith"},
		}),
		Provenance: database.NewJSON(models.Provenance{
			"personal_info": {Source: "sabre", SourceID: sourceID, Confidence: 1},
		}),
		CompletenessScore: 40,
	}
}

func TestSaveAndFind(t *testing.T) {
	repo := getTestRepository(t)
	ctx := context.Background()

	traveler := newTraveler("P-100", " John.Smith@Example.com ")
	require.NoError(t, repo.Save(ctx, traveler))
	assert.Equal(t, "john.smith@example.com", traveler.PrimaryEmail)

	bySource, err := repo.FindBySource(ctx, "ORG-7", "sabre", "P-100")
	require.NoError(t, err)
	require.NotNil(t, bySource)
	assert.Equal(t, traveler.ID, bySource.ID)
	assert.Equal(t, "John", bySource.Data.Data.PersonalInfo.FirstName)
	assert.Equal(t, "P-100", bySource.Provenance.Data["personal_info"].SourceID)
	assert.Equal(t, 40.0, bySource.CompletenessScore)

	byEmail, err := repo.FindByEmail(ctx, "ORG-7", "JOHN.SMITH@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, traveler.ID, byEmail.ID)

	byID, err := repo.Get(ctx, traveler.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Smith", byID.LastName)
}

func TestFind_NotFound(t *testing.T) {
	repo := getTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, newTraveler("P-100", "john@x.com")))

	found, err := repo.FindBySource(ctx, "OTHER-ORG", "sabre", "P-100")
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindByEmail(ctx, "ORG-7", "")
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.Get(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSave_UpdatesExisting(t *testing.T) {
	repo := getTestRepository(t)
	ctx := context.Background()

	traveler := newTraveler("P-100", "john@x.com")
	require.NoError(t, repo.Save(ctx, traveler))
	created := traveler.CreatedAt

	traveler.FirstName = "Johnny"
	traveler.CompletenessScore = 90
	require.NoError(t, repo.Save(ctx, traveler))

	saved, err := repo.Get(ctx, traveler.ID)
	require.NoError(t, err)
	assert.Equal(t, "Johnny", saved.FirstName)
	assert.Equal(t, 90.0, saved.CompletenessScore)
	assert.True(t, created.Equal(saved.CreatedAt))
}
