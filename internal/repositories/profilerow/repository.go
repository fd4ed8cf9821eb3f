package profilerow

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/reconcile"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

var columns = []string{"id", "profile_id", "source", "source_id", "natural_key", "data", "fingerprint", "provenance", "created_at", "updated_at", "deleted_at"}

// Repository persists the rows of every reconciled family table. It is the
// reconcile.Accessor used in production.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
	tables map[string]bool
}

var _ reconcile.Accessor = (*Repository)(nil)

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	tables := map[string]bool{}
	for _, f := range reconcile.Families {
		tables[f.Table] = true
	}
	return &Repository{
		db:     db,
		logger: logger,
		tables: tables,
	}
}

func (r *Repository) Begin(ctx context.Context) (context.Context, database.Tx, error) {
	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return ctx, nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to begin transaction: %v", err)
	}
	return ctx, tx, nil
}

func (r *Repository) checkTable(table string) error {
	if !r.tables[table] {
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "unknown family table '%s'", table)
	}
	return nil
}

// SoftDeleteMissing soft-deletes the active rows of scope whose natural key
// is not in keep.
func (r *Repository) SoftDeleteMissing(ctx context.Context, table string, scope models.Scope, keep []string, entry models.ProvenanceRecord) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "profilerow.Repository.SoftDeleteMissing")
	defer span.End()
	return r.softDelete(ctx, table, scope, keep, entry)
}

// SoftDeleteAll soft-deletes every active row of scope.
func (r *Repository) SoftDeleteAll(ctx context.Context, table string, scope models.Scope, entry models.ProvenanceRecord) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "profilerow.Repository.SoftDeleteAll")
	defer span.End()
	return r.softDelete(ctx, table, scope, nil, entry)
}

// softDelete selects the rows first so the deletion entry can be appended to
// each row's provenance in a dialect-neutral way. Callers run it inside the
// family transaction.
func (r *Repository) softDelete(ctx context.Context, table string, scope models.Scope, keep []string, entry models.ProvenanceRecord) (int64, error) {
	if err := r.checkTable(table); err != nil {
		return 0, err
	}
	q := database.QuerierFrom(ctx, r.db)
	flavor := r.db.Flavor()

	sb := database.NewSelectBuilder(flavor)
	sb.Select("id", "provenance")
	sb.From(table)
	where := []string{
		sb.Equal("profile_id", scope.ProfileID),
		sb.Equal("source", scope.Source),
		sb.Equal("source_id", scope.SourceID),
		sb.IsNull("deleted_at"),
	}
	if len(keep) > 0 {
		where = append(where, sb.NotIn("natural_key", toArgs(keep)...))
	}
	sb.Where(where...)

	query, args := sb.Build()
	var targets []struct {
		ID         string                                   `db:"id"`
		Provenance database.JSON[[]models.ProvenanceRecord] `db:"provenance"`
	}
	if err := q.SelectContext(ctx, &targets, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(scopeFields(table, scope)).Error("Failed to select rows to soft delete")
		return 0, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to select %s rows: %v", table, err)
	}

	deletedAt := entry.Timestamp.UTC()
	if deletedAt.IsZero() {
		deletedAt = time.Now().UTC()
	}

	var n int64
	for _, target := range targets {
		history := append(target.Provenance.Data, entry)

		ub := database.NewUpdateBuilder(flavor)
		ub.Update(table)
		ub.Set(
			ub.Assign("deleted_at", deletedAt),
			ub.Assign("updated_at", deletedAt),
			ub.Assign("provenance", database.NewJSON(history)),
		)
		ub.Where(ub.Equal("id", target.ID), ub.IsNull("deleted_at"))

		query, args := ub.Build()
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(scopeFields(table, scope)).WithField("id", target.ID).Error("Failed to soft delete row")
			return n, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to soft delete %s row: %v", table, err)
		}
		affected, _ := res.RowsAffected()
		n += affected
	}

	if n > 0 {
		r.logger.WithContext(ctx).WithFields(scopeFields(table, scope)).WithField("count", n).Debug("Soft deleted rows")
	}
	return n, nil
}

// Upsert writes each row of scope. The scope's own row for a natural key is
// refreshed, or resurrected when soft-deleted. Without one, the row is
// inserted unless another scope holds the key among the active rows. Rows
// already current, or whose key is held by another scope, are not counted.
func (r *Repository) Upsert(ctx context.Context, table string, scope models.Scope, rows []models.ProfileRow) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "profilerow.Repository.Upsert")
	defer span.End()

	if err := r.checkTable(table); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	q := database.QuerierFrom(ctx, r.db)

	var n int64
	for _, row := range rows {
		if row.Source != scope.Source || row.SourceID != scope.SourceID || row.ProfileID != scope.ProfileID {
			return n, httperror.NewHTTPErrorf(http.StatusInternalServerError, "row %s is outside the reconciliation scope", row.NaturalKey)
		}

		affected, err := r.upsertRow(ctx, q, table, row)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(scopeFields(table, scope)).WithField("natural_key", row.NaturalKey).Error("Failed to upsert row")
			return n, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to upsert %s row: %v", table, err)
		}
		n += affected
	}
	return n, nil
}

type keyHolder struct {
	ID        string     `db:"id"`
	Source    string     `db:"source"`
	SourceID  string     `db:"source_id"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (h keyHolder) owns(row models.ProfileRow) bool {
	return h.Source == row.Source && h.SourceID == row.SourceID
}

func (r *Repository) upsertRow(ctx context.Context, q database.Querier, table string, row models.ProfileRow) (int64, error) {
	sb := database.NewSelectBuilder(r.db.Flavor())
	sb.Select("id", "source", "source_id", "deleted_at")
	sb.From(table)
	sb.Where(sb.Equal("profile_id", row.ProfileID), sb.Equal("natural_key", row.NaturalKey))
	sb.OrderBy("updated_at").Desc()

	query, args := sb.Build()
	var holders []keyHolder
	if err := q.SelectContext(ctx, &holders, query, args...); err != nil {
		return 0, err
	}

	var active, own *keyHolder
	for i := range holders {
		h := &holders[i]
		if h.DeletedAt == nil {
			active = h
		}
		if h.owns(row) && (own == nil || (own.DeletedAt != nil && h.DeletedAt == nil)) {
			own = h
		}
	}

	switch {
	case active != nil && !active.owns(row):
		return 0, nil
	case own != nil:
		return r.refresh(ctx, q, table, own.ID, row)
	}
	return r.insert(ctx, q, table, row)
}

// refresh updates the scope's row in place and clears deleted_at. It is a
// no-op when data, provenance and liveness are unchanged.
func (r *Repository) refresh(ctx context.Context, q database.Querier, table, id string, row models.ProfileRow) (int64, error) {
	ub := database.NewUpdateBuilder(r.db.Flavor())
	ub.Update(table)
	ub.Set(
		ub.Assign("data", row.Data),
		ub.Assign("fingerprint", row.Fingerprint),
		ub.Assign("provenance", row.Provenance),
		ub.Assign("updated_at", row.UpdatedAt),
		ub.Assign("deleted_at", nil),
	)
	ub.Where(
		ub.Equal("id", id),
		ub.Or(
			ub.NotEqual("fingerprint", row.Fingerprint),
			ub.IsNotNull("deleted_at"),
			ub.NotEqual("provenance", row.Provenance),
		),
	)

	query, args := ub.Build()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// insert adds a new row. A concurrent writer that claimed the key first wins
// and the insert affects nothing.
func (r *Repository) insert(ctx context.Context, q database.Querier, table string, row models.ProfileRow) (int64, error) {
	ib := database.NewInsertBuilder(r.db.Flavor())
	ib.InsertInto(table)
	ib.Cols(columns...)
	ib.Values(row.ID, row.ProfileID, row.Source, row.SourceID, row.NaturalKey, row.Data, row.Fingerprint, row.Provenance, row.CreatedAt, row.UpdatedAt, nil)
	ib.OnConflictDoNothing("deleted_at IS NULL", "profile_id", "natural_key")

	query, args := ib.Build()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListActive returns the non-deleted rows of a profile, oldest first.
func (r *Repository) ListActive(ctx context.Context, table, profileID string) ([]models.ProfileRow, error) {
	ctx, span := tracing.StartSpan(ctx, "profilerow.Repository.ListActive")
	defer span.End()
	return r.list(ctx, table, profileID, false)
}

// ListAll returns every row of a profile including soft-deleted ones.
func (r *Repository) ListAll(ctx context.Context, table, profileID string) ([]models.ProfileRow, error) {
	ctx, span := tracing.StartSpan(ctx, "profilerow.Repository.ListAll")
	defer span.End()
	return r.list(ctx, table, profileID, true)
}

func (r *Repository) list(ctx context.Context, table, profileID string, includeDeleted bool) ([]models.ProfileRow, error) {
	if err := r.checkTable(table); err != nil {
		return nil, err
	}

	sb := database.NewSelectBuilder(r.db.Flavor())
	sb.Select(columns...)
	sb.From(table)
	where := []string{sb.Equal("profile_id", profileID)}
	if !includeDeleted {
		where = append(where, sb.IsNull("deleted_at"))
	}
	sb.Where(where...)
	sb.OrderBy("created_at", "natural_key")

	query, args := sb.Build()
	rows := []models.ProfileRow{}
	if err := database.QuerierFrom(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"table": table, "profile_id": profileID}).Error("Failed to list profile rows")
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to list %s rows: %v", table, err)
	}
	return rows, nil
}

func scopeFields(table string, scope models.Scope) map[string]any {
	return map[string]any{
		"table":      table,
		"profile_id": scope.ProfileID,
		"source":     scope.Source,
		"source_id":  scope.SourceID,
	}
}

func toArgs(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
