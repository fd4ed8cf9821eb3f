package traveler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const table = "travelers"

var columns = []string{"id", "organization_id", "source", "source_id", "first_name", "last_name", "primary_email", "data", "provenance", "fingerprint", "completeness_score", "created_at", "updated_at", "deleted_at"}

// Repository handles traveler persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Get returns the active traveler with id, or nil when there is none.
func (r *Repository) Get(ctx context.Context, id string) (*models.Traveler, error) {
	ctx, span := tracing.StartSpan(ctx, "traveler.Repository.Get")
	defer span.End()

	sb := database.NewSelectBuilder(r.db.Flavor())
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("id", id), sb.IsNull("deleted_at"))

	return r.getOne(ctx, sb, map[string]any{"id": id})
}

// FindBySource returns the active traveler a source record was imported as.
func (r *Repository) FindBySource(ctx context.Context, organizationID, source, sourceID string) (*models.Traveler, error) {
	ctx, span := tracing.StartSpan(ctx, "traveler.Repository.FindBySource")
	defer span.End()

	sb := database.NewSelectBuilder(r.db.Flavor())
	sb.Select(columns...)
	sb.From(table)
	sb.Where(
		sb.Equal("organization_id", organizationID),
		sb.Equal("source", source),
		sb.Equal("source_id", sourceID),
		sb.IsNull("deleted_at"),
	)
	sb.Limit(1)

	return r.getOne(ctx, sb, map[string]any{"organization_id": organizationID, "source": source, "source_id": sourceID})
}

// FindByEmail returns the oldest active traveler of the organization whose
// primary email matches after normalization.
func (r *Repository) FindByEmail(ctx context.Context, organizationID, email string) (*models.Traveler, error) {
	ctx, span := tracing.StartSpan(ctx, "traveler.Repository.FindByEmail")
	defer span.End()

	email = normalizers.NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}

	sb := database.NewSelectBuilder(r.db.Flavor())
	sb.Select(columns...)
	sb.From(table)
	sb.Where(
		sb.Equal("organization_id", organizationID),
		sb.Equal("primary_email", email),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("created_at")
	sb.Limit(1)

	return r.getOne(ctx, sb, map[string]any{"organization_id": organizationID, "email": email})
}

func (r *Repository) getOne(ctx context.Context, sb *database.SelectBuilder, fields map[string]any) (*models.Traveler, error) {
	query, args := sb.Build()
	var t models.Traveler
	if err := database.QuerierFrom(ctx, r.db).GetContext(ctx, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(fields).Error("Failed to get traveler")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get traveler")
	}
	return &t, nil
}

// Save inserts the traveler or replaces its mutable columns. The primary
// email is stored normalized so FindByEmail can match it exactly.
func (r *Repository) Save(ctx context.Context, t *models.Traveler) error {
	ctx, span := tracing.StartSpan(ctx, "traveler.Repository.Save")
	defer span.End()

	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	t.PrimaryEmail = normalizers.NormalizeEmail(t.PrimaryEmail)

	ib := database.NewInsertBuilder(r.db.Flavor())
	ib.InsertInto(table)
	ib.Cols(columns...)
	ib.Values(t.ID, t.OrganizationID, t.Source, t.SourceID, t.FirstName, t.LastName, t.PrimaryEmail, t.Data, t.Provenance, t.Fingerprint, t.CompletenessScore, t.CreatedAt, t.UpdatedAt, t.DeletedAt)

	ub := ib.OnConflict("id")
	ub.Set(
		ub.Assign("organization_id", database.Excluded("organization_id")),
		ub.Assign("source_id", database.Excluded("source_id")),
		ub.Assign("first_name", database.Excluded("first_name")),
		ub.Assign("last_name", database.Excluded("last_name")),
		ub.Assign("primary_email", database.Excluded("primary_email")),
		ub.Assign("data", database.Excluded("data")),
		ub.Assign("provenance", database.Excluded("provenance")),
		ub.Assign("fingerprint", database.Excluded("fingerprint")),
		ub.Assign("completeness_score", database.Excluded("completeness_score")),
		ub.Assign("updated_at", database.Excluded("updated_at")),
	)

	query, args := ib.Build()
	if _, err := database.QuerierFrom(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id":              t.ID,
			"organization_id": t.OrganizationID,
			"source":          t.Source,
			"source_id":       t.SourceID,
		}).Error("Failed to save traveler")
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to save traveler: %v", err)
	}
	return nil
}
