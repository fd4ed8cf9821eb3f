// Package reconcile brings the persisted rows of one profile into line with
// a freshly assembled canonical document, one entity family at a time.
package reconcile

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	fernctx "github.com/Ramsey-B/fern/pkg/context"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/fingerprint"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/provenance"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const (
	ReasonMissing = "absent from source"
	ReasonCleared = "source reported no entities"
)

// Accessor is the persistence surface reconciliation runs against. Every
// method is scoped to one family table and must only touch rows whose
// source and source id match the scope.
type Accessor interface {
	// Begin opens the transaction the two phases share and returns a context
	// carrying it.
	Begin(ctx context.Context) (context.Context, database.Tx, error)
	SoftDeleteMissing(ctx context.Context, table string, scope models.Scope, keep []string, entry models.ProvenanceRecord) (int64, error)
	SoftDeleteAll(ctx context.Context, table string, scope models.Scope, entry models.ProvenanceRecord) (int64, error)
	// Upsert returns the number of rows inserted or changed. Rows whose key
	// is owned by another scope, or that are already current, are not counted.
	Upsert(ctx context.Context, table string, scope models.Scope, rows []models.ProfileRow) (int64, error)
}

type FamilyResult struct {
	Family      string `json:"family"`
	SoftDeleted int64  `json:"soft_deleted"`
	Upserted    int64  `json:"upserted"`
	Skipped     int64  `json:"skipped"`
}

func (r FamilyResult) RowsAffected() int64 {
	return r.SoftDeleted + r.Upserted
}

// ProfileResult is the partial-success outcome of reconciling every family
// of one profile.
type ProfileResult struct {
	ProfileID string                        `json:"profile_id"`
	Families  map[string]int64              `json:"families"`
	Errors    []*errors.ReconciliationError `json:"errors,omitempty"`
}

func (r ProfileResult) OK() bool {
	return len(r.Errors) == 0
}

type Engine struct {
	accessor Accessor
	validate *validator.Validate
	logger   ectologger.Logger
}

func NewEngine(logger ectologger.Logger, accessor Accessor) *Engine {
	return &Engine{
		accessor: accessor,
		validate: validator.New(),
		logger:   logger,
	}
}

// ReconcileFamily runs the soft-delete and upsert phases for one family in
// a single transaction. On error nothing of this family is written.
func (e *Engine) ReconcileFamily(ctx context.Context, scope models.Scope, family Family, entities []Entity, ts time.Time) (FamilyResult, error) {
	ctx, span := tracing.StartSpan(ctx, "reconcile.Engine.ReconcileFamily")
	defer span.End()
	tracing.SetAttributes(span, map[string]string{"family": family.Name, "profile_id": scope.ProfileID})

	result, err := e.reconcileFamily(ctx, scope, family, entities, runTime(ts))
	if err != nil {
		tracing.RecordError(span, err)
		metrics.ReconcileFailuresTotal.WithLabelValues(family.Name).Inc()
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"profile_id":  scope.ProfileID,
			"source":      scope.Source,
			"source_id":   scope.SourceID,
			"document_id": fernctx.GetDocumentID(ctx),
			"family":      family.Name,
		}).Error("family reconciliation rolled back")
		return FamilyResult{Family: family.Name}, err
	}

	metrics.ReconciledRowsTotal.WithLabelValues(family.Name, "soft_deleted").Add(float64(result.SoftDeleted))
	metrics.ReconciledRowsTotal.WithLabelValues(family.Name, "upserted").Add(float64(result.Upserted))
	metrics.ReconciledRowsTotal.WithLabelValues(family.Name, "skipped").Add(float64(result.Skipped))
	return result, nil
}

func (e *Engine) reconcileFamily(ctx context.Context, scope models.Scope, family Family, entities []Entity, ts time.Time) (FamilyResult, error) {
	result := FamilyResult{Family: family.Name}
	if err := e.validate.Struct(scope); err != nil {
		return result, fmt.Errorf("invalid reconciliation scope: %w", err)
	}
	if family.Table == "" || family.Key == nil {
		return result, fmt.Errorf("entity family '%s' is not configured", family.Name)
	}

	rows, keys := buildRows(scope, family, entities, ts)
	if dropped := len(entities) - len(rows); dropped > 0 {
		e.logger.WithContext(ctx).WithFields(map[string]any{
			"family":  family.Name,
			"dropped": dropped,
		}).Debug("entities without a natural key or with a duplicate key were not written")
	}

	ctx, tx, err := e.accessor.Begin(ctx)
	if err != nil {
		return result, err
	}
	defer tx.Rollback(ctx)

	switch {
	case len(entities) == 0:
		entry := provenance.Deleted(scope.Source, scope.SourceID, ts, ReasonCleared)
		if result.SoftDeleted, err = e.accessor.SoftDeleteAll(ctx, family.Table, scope, entry); err != nil {
			return result, err
		}
	case len(keys) > 0:
		entry := provenance.Deleted(scope.Source, scope.SourceID, ts, ReasonMissing)
		if result.SoftDeleted, err = e.accessor.SoftDeleteMissing(ctx, family.Table, scope, keys, entry); err != nil {
			return result, err
		}
	}

	if len(rows) > 0 {
		if result.Upserted, err = e.accessor.Upsert(ctx, family.Table, scope, rows); err != nil {
			return result, err
		}
		result.Skipped = int64(len(rows)) - result.Upserted
	}

	if err := tx.Commit(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// ReconcileProfile reconciles every family in batches concurrently. A
// family that fails is reported on the result and never cancels or rolls
// back its siblings.
func (e *Engine) ReconcileProfile(ctx context.Context, scope models.Scope, batches map[string][]Entity, ts time.Time) ProfileResult {
	ctx, span := tracing.StartSpan(ctx, "reconcile.Engine.ReconcileProfile")
	defer span.End()

	ts = runTime(ts)
	result := ProfileResult{ProfileID: scope.ProfileID, Families: map[string]int64{}}
	var mu sync.Mutex

	// errgroup.Group without a context: one family's error must not cancel the rest
	var g errgroup.Group
	for name, entities := range batches {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Errors = append(result.Errors, errors.NewReconciliationError(scope.ProfileID, name, err))
				}
			}()

			family, err := Lookup(name)
			if err != nil {
				return err
			}
			fr, err := e.ReconcileFamily(ctx, scope, family, entities, ts)
			if err != nil {
				return err
			}

			mu.Lock()
			result.Families[name] = fr.RowsAffected()
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].Family < result.Errors[j].Family
	})

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"profile_id": scope.ProfileID,
		"source":     scope.Source,
		"source_id":  scope.SourceID,
		"families":   result.Families,
		"errors":     len(result.Errors),
	}).Debug("reconciled profile")

	return result
}

// buildRows converts entities into rows, dropping those without a natural
// key. The first entity wins when two share a key.
func buildRows(scope models.Scope, family Family, entities []Entity, ts time.Time) ([]models.ProfileRow, []string) {
	rows := make([]models.ProfileRow, 0, len(entities))
	keys := make([]string, 0, len(entities))
	seen := map[string]bool{}

	for _, entity := range entities {
		key := family.Key(entity.Data)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
		rows = append(rows, models.ProfileRow{
			ID:          uuid.NewString(),
			ProfileID:   scope.ProfileID,
			Source:      scope.Source,
			SourceID:    scope.SourceID,
			NaturalKey:  key,
			Data:        database.NewJSON(entity.Data),
			Fingerprint: fingerprint.Generate(entity.Data),
			Provenance:  database.NewJSON([]models.ProvenanceRecord{provenance.ForRow(scope.Source, scope.SourceID, ts)}),
			CreatedAt:   ts,
			UpdatedAt:   ts,
		})
	}
	return rows, keys
}

func runTime(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now().UTC()
	}
	return ts.UTC()
}
