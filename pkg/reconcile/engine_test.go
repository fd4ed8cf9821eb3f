package reconcile

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
)

var (
	t1 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	t2 = t1.Add(time.Hour)
	t3 = t2.Add(time.Hour)
)

type memTxKey struct{}

// memTx undoes every mutation made through it unless committed.
type memTx struct {
	database.Tx
	store  *memAccessor
	undo   []func()
	closed bool
}

func (t *memTx) IsOpen() bool  { return !t.closed }
func (t *memTx) IsOwner() bool { return true }

func (t *memTx) Commit(context.Context) error {
	t.closed = true
	t.undo = nil
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	return nil
}

type memAccessor struct {
	mu     sync.Mutex
	tables map[string][]*models.ProfileRow
	fail   map[string]error
}

func newMemAccessor() *memAccessor {
	return &memAccessor{tables: map[string][]*models.ProfileRow{}, fail: map[string]error{}}
}

func (m *memAccessor) Begin(ctx context.Context) (context.Context, database.Tx, error) {
	tx := &memTx{store: m}
	return context.WithValue(ctx, memTxKey{}, tx), tx, nil
}

func (m *memAccessor) record(ctx context.Context, fn func()) {
	tx := ctx.Value(memTxKey{}).(*memTx)
	tx.undo = append(tx.undo, fn)
}

func (m *memAccessor) softDelete(ctx context.Context, table string, scope models.Scope, keep map[string]bool, entry models.ProvenanceRecord) int64 {
	var n int64
	for _, row := range m.tables[table] {
		if row.ProfileID != scope.ProfileID || row.Source != scope.Source || row.SourceID != scope.SourceID || row.DeletedAt != nil || keep[row.NaturalKey] {
			continue
		}
		before := *row
		before.Provenance = database.NewJSON(append([]models.ProvenanceRecord{}, row.Provenance.Data...))
		ts := entry.Timestamp
		row.DeletedAt = &ts
		row.Provenance.Data = append(row.Provenance.Data, entry)
		m.record(ctx, func() { *row = before })
		n++
	}
	return n
}

func (m *memAccessor) SoftDeleteMissing(ctx context.Context, table string, scope models.Scope, keep []string, entry models.ProvenanceRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keepSet := map[string]bool{}
	for _, k := range keep {
		keepSet[k] = true
	}
	return m.softDelete(ctx, table, scope, keepSet, entry), nil
}

func (m *memAccessor) SoftDeleteAll(ctx context.Context, table string, scope models.Scope, entry models.ProvenanceRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.softDelete(ctx, table, scope, nil, entry), nil
}

func (m *memAccessor) Upsert(ctx context.Context, table string, scope models.Scope, rows []models.ProfileRow) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[table]; err != nil {
		return 0, err
	}

	var n int64
	for _, incoming := range rows {
		var active, existing *models.ProfileRow
		for _, row := range m.tables[table] {
			if row.ProfileID != incoming.ProfileID || row.NaturalKey != incoming.NaturalKey {
				continue
			}
			if row.DeletedAt == nil {
				active = row
			}
			if row.Source == scope.Source && row.SourceID == scope.SourceID && (existing == nil || row.DeletedAt == nil) {
				existing = row
			}
		}

		if active != nil && active != existing {
			continue
		}
		if existing == nil {
			row := incoming
			m.tables[table] = append(m.tables[table], &row)
			m.record(ctx, func() { m.tables[table] = m.tables[table][:len(m.tables[table])-1] })
			n++
			continue
		}
		if existing.Fingerprint == incoming.Fingerprint && existing.DeletedAt == nil && samePovenance(existing.Provenance.Data, incoming.Provenance.Data) {
			continue
		}

		before := *existing
		existing.Data = incoming.Data
		existing.Fingerprint = incoming.Fingerprint
		existing.Provenance = incoming.Provenance
		existing.UpdatedAt = incoming.UpdatedAt
		existing.DeletedAt = nil
		m.record(ctx, func() { *existing = before })
		n++
	}
	return n, nil
}

func samePovenance(a, b []models.ProvenanceRecord) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func (m *memAccessor) row(table, profileID, key string) *models.ProfileRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.tables[table] {
		if row.ProfileID == profileID && row.NaturalKey == key {
			return row
		}
	}
	return nil
}

func (m *memAccessor) active(table string, scope models.Scope) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := []string{}
	for _, row := range m.tables[table] {
		if row.ProfileID == scope.ProfileID && row.Source == scope.Source && row.SourceID == scope.SourceID && row.DeletedAt == nil {
			keys = append(keys, row.NaturalKey)
		}
	}
	return keys
}

func getTestEngine() (*Engine, *memAccessor) {
	store := newMemAccessor()
	return NewEngine(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}), store), store
}

func emails(t *testing.T, addresses ...string) []Entity {
	t.Helper()
	items := make([]models.Email, 0, len(addresses))
	for _, a := range addresses {
		items = append(items, models.Email{Address: a})
	}
	entities, err := Entities(items)
	require.NoError(t, err)
	return entities
}

var scopeA = models.Scope{ProfileID: "trv-1", Source: "sabre", SourceID: "ABC123"}

func TestReconcileFamily_Idempotent(t *testing.T) {
	engine, store := getTestEngine()
	ctx := context.Background()
	family := Families[FamilyEmail]

	first, err := engine.ReconcileFamily(ctx, scopeA, family, emails(t, "a@x.com", "b@x.com"), t1)
	require.NoError(t, err)
	assert.Equal(t, FamilyResult{Family: FamilyEmail, Upserted: 2}, first)

	second, err := engine.ReconcileFamily(ctx, scopeA, family, emails(t, "a@x.com", "b@x.com"), t1)
	require.NoError(t, err)
	assert.Equal(t, FamilyResult{Family: FamilyEmail, Skipped: 2}, second)
	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, store.active(family.Table, scopeA))
}

func TestReconcileFamily_LaterRunOnlyRefreshesProvenance(t *testing.T) {
	engine, store := getTestEngine()
	ctx := context.Background()
	family := Families[FamilyEmail]

	_, err := engine.ReconcileFamily(ctx, scopeA, family, emails(t, "a@x.com"), t1)
	require.NoError(t, err)
	before := *store.row(family.Table, scopeA.ProfileID, "a@x.com")

	_, err = engine.ReconcileFamily(ctx, scopeA, family, emails(t, "a@x.com"), t2)
	require.NoError(t, err)
	after := store.row(family.Table, scopeA.ProfileID, "a@x.com")

	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Fingerprint, after.Fingerprint)
	assert.Equal(t, before.Data, after.Data)
	assert.Equal(t, t2, after.LatestProvenance().Timestamp)
}

func TestReconcileFamily_SoftDeletesOnlyMissing(t *testing.T) {
	engine, store := getTestEngine()
	ctx := context.Background()
	family := Families[FamilyEmail]

	_, err := engine.ReconcileFamily(ctx, scopeA, family, emails(t, "a@x.com", "b@x.com"), t1)
	require.NoError(t, err)

	result, err := engine.ReconcileFamily(ctx, scopeA, family, emails(t, "A@x.com ", "c@x.com"), t2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.SoftDeleted)
	assert.Equal(t, int64(2), result.Upserted)

	assert.ElementsMatch(t, []string{"a@x.com", "c@x.com"}, store.active(family.Table, scopeA))

	b := store.row(family.Table, scopeA.ProfileID, "b@x.com")
	require.NotNil(t, b.DeletedAt)
	assert.Equal(t, t2, *b.DeletedAt)
	assert.Equal(t, "b@x.com", b.Data.Data["address"])
	latest := b.LatestProvenance()
	assert.Equal(t, models.ProvenanceActionDeleted, latest.Action)
	assert.Equal(t, ReasonMissing, latest.Reason)
	assert.Len(t, b.Provenance.Data, 2)
}

func TestReconcileFamily_EmptyListClearsScope(t *testing.T) {
	engine, store := getTestEngine()
	ctx := context.Background()
	family := Families[FamilyPhone]

	phones, err := Entities([]models.Phone{{Number: "+1 555 0100"}, {Number: "555-0199"}})
	require.NoError(t, err)
	_, err = engine.ReconcileFamily(ctx, scopeA, family, phones, t1)
	require.NoError(t, err)

	result, err := engine.ReconcileFamily(ctx, scopeA, family, nil, t2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.SoftDeleted)
	assert.Empty(t, store.active(family.Table, scopeA))
	assert.Equal(t, ReasonCleared, store.row(family.Table, scopeA.ProfileID, "15550100").LatestProvenance().Reason)
}

func TestReconcileFamily_Resurrection(t *testing.T) {
	engine, store := getTestEngine()
	ctx := context.Background()
	family := Families[FamilyEmail]

	_, err := engine.ReconcileFamily(ctx, scopeA, family, emails(t, "a@x.com"), t1)
	require.NoError(t, err)
	_, err = engine.ReconcileFamily(ctx, scopeA, family, nil, t2)
	require.NoError(t, err)
	require.NotNil(t, store.row(family.Table, scopeA.ProfileID, "a@x.com").DeletedAt)

	result, err := engine.ReconcileFamily(ctx, scopeA, family, emails(t, "a@x.com"), t3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Upserted)

	row := store.row(family.Table, scopeA.ProfileID, "a@x.com")
	assert.Nil(t, row.DeletedAt)
	assert.Equal(t, models.ProvenanceActionUpsert, row.LatestProvenance().Action)
	assert.Equal(t, t3, row.LatestProvenance().Timestamp)
}

func TestReconcileFamily_SourceIsolation(t *testing.T) {
	engine, store := getTestEngine()
	ctx := context.Background()
	family := Families[FamilyEmail]
	scopeB := models.Scope{ProfileID: scopeA.ProfileID, Source: "sabre", SourceID: "XYZ789"}

	_, err := engine.ReconcileFamily(ctx, scopeB, family, emails(t, "b@x.com", "shared@x.com"), t1)
	require.NoError(t, err)
	owned := *store.row(family.Table, scopeA.ProfileID, "shared@x.com")

	// scope A clears itself and then reports a key scope B owns
	_, err = engine.ReconcileFamily(ctx, scopeA, family, nil, t2)
	require.NoError(t, err)
	result, err := engine.ReconcileFamily(ctx, scopeA, family, emails(t, "shared@x.com"), t3)
	require.NoError(t, err)

	assert.Equal(t, FamilyResult{Family: FamilyEmail, Skipped: 1}, result)
	assert.ElementsMatch(t, []string{"b@x.com", "shared@x.com"}, store.active(family.Table, scopeB))
	assert.Equal(t, owned, *store.row(family.Table, scopeA.ProfileID, "shared@x.com"))
}

func TestReconcileFamily_KeyReleasedBySoftDeleteGoesToNextScope(t *testing.T) {
	engine, store := getTestEngine()
	ctx := context.Background()
	family := Families[FamilyEmail]
	scopeB := models.Scope{ProfileID: scopeA.ProfileID, Source: "sabre", SourceID: "XYZ789"}

	_, err := engine.ReconcileFamily(ctx, scopeA, family, emails(t, "x@x.com"), t1)
	require.NoError(t, err)
	_, err = engine.ReconcileFamily(ctx, scopeA, family, nil, t2)
	require.NoError(t, err)

	result, err := engine.ReconcileFamily(ctx, scopeB, family, emails(t, "x@x.com"), t3)
	require.NoError(t, err)
	assert.Equal(t, FamilyResult{Family: FamilyEmail, Upserted: 1}, result)
	assert.Equal(t, []string{"x@x.com"}, store.active(family.Table, scopeB))
	assert.Empty(t, store.active(family.Table, scopeA))
}

func TestReconcileFamily_DropsKeylessAndDuplicateEntities(t *testing.T) {
	engine, store := getTestEngine()
	family := Families[FamilyEmail]

	result, err := engine.ReconcileFamily(context.Background(), scopeA, family, emails(t, "a@x.com", " ", "A@X.COM"), t1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Upserted)
	assert.Equal(t, "a@x.com", store.row(family.Table, scopeA.ProfileID, "a@x.com").Data.Data["address"])
}

func TestReconcileFamily_InvalidScope(t *testing.T) {
	engine, _ := getTestEngine()

	_, err := engine.ReconcileFamily(context.Background(), models.Scope{ProfileID: "trv-1"}, Families[FamilyEmail], nil, t1)
	assert.Error(t, err)
}

func TestReconcileProfile_FailureIsolation(t *testing.T) {
	engine, store := getTestEngine()
	ctx := context.Background()

	phones, err := Entities([]models.Phone{{Number: "555-0100"}})
	require.NoError(t, err)
	_, err = engine.ReconcileFamily(ctx, scopeA, Families[FamilyPhone], phones, t1)
	require.NoError(t, err)

	store.fail[Families[FamilyPhone].Table] = fmt.Errorf("connection reset")
	newPhones, err := Entities([]models.Phone{{Number: "555-0199"}})
	require.NoError(t, err)

	result := engine.ReconcileProfile(ctx, scopeA, map[string][]Entity{
		FamilyEmail: emails(t, "a@x.com"),
		FamilyPhone: newPhones,
	}, t2)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, FamilyPhone, result.Errors[0].Family)
	assert.Equal(t, scopeA.ProfileID, result.Errors[0].ProfileID)
	assert.Contains(t, result.Errors[0].Error(), "connection reset")
	assert.Equal(t, map[string]int64{FamilyEmail: 1}, result.Families)
	assert.False(t, result.OK())

	// the failed family's soft delete was rolled back with its upsert
	assert.Equal(t, []string{"5550100"}, store.active(Families[FamilyPhone].Table, scopeA))
	assert.Equal(t, []string{"a@x.com"}, store.active(Families[FamilyEmail].Table, scopeA))
}

func TestReconcileProfile_UnknownFamily(t *testing.T) {
	engine, _ := getTestEngine()

	result := engine.ReconcileProfile(context.Background(), scopeA, map[string][]Entity{"fax": nil}, t1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "fax", result.Errors[0].Family)
}
