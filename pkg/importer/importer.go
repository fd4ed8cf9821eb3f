// Package importer runs one raw provider document through assembly,
// validation and reconciliation.
package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/assembler"
	fernctx "github.com/Ramsey-B/fern/pkg/context"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/fingerprint"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/raw"
	"github.com/Ramsey-B/fern/pkg/reconcile"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/validation"
)

const (
	KindProfile     = "profile"
	KindReservation = "reservation"
)

// TravelerStore is the traveler persistence the importer needs.
type TravelerStore interface {
	FindBySource(ctx context.Context, organizationID, source, sourceID string) (*models.Traveler, error)
	FindByEmail(ctx context.Context, organizationID, email string) (*models.Traveler, error)
	Save(ctx context.Context, t *models.Traveler) error
}

type Reconciler interface {
	ReconcileProfile(ctx context.Context, scope models.Scope, batches map[string][]reconcile.Entity, ts time.Time) reconcile.ProfileResult
}

// Locker serializes work on one traveler across replicas.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type Emitter interface {
	EmitProfileImported(ctx context.Context, event events.ProfileImportedEvent) error
	EmitReservationImported(ctx context.Context, event events.ReservationImportedEvent) error
}

// Options are resolved once at startup.
type Options struct {
	Source                string
	DefaultOrganizationID string
	Concurrency           int
	// Now stamps provenance; tests pin it.
	Now func() time.Time
}

type Dependencies struct {
	Assembler  *assembler.Assembler
	Checker    *validation.Checker
	Travelers  TravelerStore
	Reconciler Reconciler
	Locker     Locker
	Emitter    Emitter
}

type Importer struct {
	assembler  *assembler.Assembler
	checker    *validation.Checker
	travelers  TravelerStore
	reconciler Reconciler
	locker     Locker
	emitter    Emitter
	opts       Options
	logger     ectologger.Logger
}

func NewImporter(logger ectologger.Logger, opts Options, deps Dependencies) *Importer {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Locker == nil {
		deps.Locker = noopLocker{}
	}
	if deps.Emitter == nil {
		deps.Emitter = noopEmitter{}
	}
	return &Importer{
		assembler:  deps.Assembler,
		checker:    deps.Checker,
		travelers:  deps.Travelers,
		reconciler: deps.Reconciler,
		locker:     deps.Locker,
		emitter:    deps.Emitter,
		opts:       opts,
		logger:     logger,
	}
}

// ProfileOutcome is the result of importing one profile document. Family
// failures are reported on Result, not as an error.
type ProfileOutcome struct {
	TravelerID string                  `json:"traveler_id"`
	SourceID   string                  `json:"source_id"`
	Created    bool                    `json:"created"`
	Profile    *models.Profile         `json:"profile"`
	Result     reconcile.ProfileResult `json:"result"`
}

// ImportProfile assembles a profile, resolves or creates its traveler and
// reconciles every family under (traveler, source, profile source id).
func (i *Importer) ImportProfile(ctx context.Context, doc raw.Document) (outcome *ProfileOutcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Importer.ImportProfile")
	defer span.End()

	start := time.Now()
	defer func() {
		i.observe(KindProfile, start, err, outcome != nil && outcome.Created, outcome != nil && !outcome.Result.OK())
		tracing.RecordError(span, err)
	}()

	source, organizationID := i.source(ctx), i.organization(ctx)
	ts := i.opts.Now()

	profile, err := i.assembler.Profile(ctx, doc, assembler.Options{Source: source, OrganizationID: organizationID, Timestamp: ts})
	if err != nil {
		return nil, err
	}
	sourceID := profile.Metadata.SourceID
	email := profile.PrimaryEmail()
	if sourceID == "" && strings.TrimSpace(email) == "" && profile.PersonalInfo.FirstName == "" && profile.PersonalInfo.LastName == "" {
		return nil, errors.ErrNoUsableIdentity
	}
	ctx = fernctx.SetDocumentID(ctx, sourceID)

	release, err := i.locker.Lock(ctx, lockKey(profile.Metadata.OrganizationID, source, ternary(sourceID != "", sourceID, email)))
	if err != nil {
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}
	defer release()

	traveler, created, err := i.resolveTraveler(ctx, profile, source)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(traveler, profile); err != nil {
		return nil, err
	}
	if err := i.travelers.Save(ctx, traveler); err != nil {
		return nil, err
	}

	batches, err := reconcile.ProfileBatches(profile)
	if err != nil {
		return nil, err
	}
	scope := models.Scope{ProfileID: traveler.ID, Source: source, SourceID: ternary(sourceID != "", sourceID, traveler.ID)}
	result := i.reconciler.ReconcileProfile(ctx, scope, batches, ts)

	outcome = &ProfileOutcome{
		TravelerID: traveler.ID,
		SourceID:   sourceID,
		Created:    created,
		Profile:    profile,
		Result:     result,
	}

	_ = i.emitter.EmitProfileImported(ctx, events.ProfileImportedEvent{
		BaseEvent:         events.BaseEvent{OrganizationID: traveler.OrganizationID},
		TravelerID:        traveler.ID,
		Source:            source,
		SourceID:          sourceID,
		Created:           created,
		CompletenessScore: profile.Metadata.CompletenessScore,
		Families:          result.Families,
		Errors:            result.Errors,
	})

	i.logger.WithContext(ctx).WithFields(map[string]any{
		"traveler_id":     traveler.ID,
		"source_id":       sourceID,
		"created":         created,
		"families":        result.Families,
		"family_failures": len(result.Errors),
	}).Info("imported profile")

	return outcome, nil
}

// resolveTraveler looks the traveler up by source record, then by primary
// email within the organization, and creates one when neither matches.
func (i *Importer) resolveTraveler(ctx context.Context, profile *models.Profile, source string) (*models.Traveler, bool, error) {
	organizationID := profile.Metadata.OrganizationID

	if sourceID := profile.Metadata.SourceID; sourceID != "" {
		t, err := i.travelers.FindBySource(ctx, organizationID, source, sourceID)
		if err != nil || t != nil {
			return t, false, err
		}
	}
	if email := profile.PrimaryEmail(); email != "" {
		t, err := i.travelers.FindByEmail(ctx, organizationID, email)
		if err != nil || t != nil {
			return t, false, err
		}
	}

	return &models.Traveler{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Source:         source,
		SourceID:       profile.Metadata.SourceID,
	}, true, nil
}

// applyProfile copies the single-valued groups of profile onto t.
func applyProfile(t *models.Traveler, profile *models.Profile) error {
	data := models.TravelerData{
		PersonalInfo: profile.PersonalInfo,
		Preferences:  profile.Preferences,
		Employment:   profile.Employment,
		Remarks:      profile.Remarks,
	}
	fp, err := fingerprint.GenerateFromValue(data)
	if err != nil {
		return fmt.Errorf("failed to fingerprint traveler data: %w", err)
	}

	if t.SourceID == "" {
		t.SourceID = profile.Metadata.SourceID
	}
	t.FirstName = profile.PersonalInfo.FirstName
	t.LastName = profile.PersonalInfo.LastName
	t.PrimaryEmail = profile.PrimaryEmail()
	t.Data = database.NewJSON(data)
	t.Provenance = database.NewJSON(profile.Provenance)
	t.Fingerprint = fp
	t.CompletenessScore = profile.Metadata.CompletenessScore
	return nil
}

// ReservationOutcome is the result of importing one reservation document.
type ReservationOutcome struct {
	RecordLocator string                    `json:"record_locator"`
	Reservation   *models.Reservation       `json:"reservation"`
	Validation    validation.Report         `json:"validation"`
	Travelers     []reconcile.ProfileResult `json:"travelers"`
	// Unmatched lists passengers whose profile reference resolved to no traveler.
	Unmatched []string `json:"unmatched,omitempty"`
	// Failed holds passengers whose traveler lookup or lock failed. The
	// remaining passengers are still reconciled.
	Failed []*errors.ReconciliationError `json:"failed,omitempty"`
}

// Partial reports whether any passenger or family failed.
func (o *ReservationOutcome) Partial() bool {
	if len(o.Failed) > 0 {
		return true
	}
	for _, r := range o.Travelers {
		if !r.OK() {
			return true
		}
	}
	return false
}

// ImportReservation assembles and validates a reservation, then reconciles
// the contact facts of every passenger that references a known traveler
// under (traveler, source, record locator).
func (i *Importer) ImportReservation(ctx context.Context, doc raw.Document) (outcome *ReservationOutcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Importer.ImportReservation")
	defer span.End()

	start := time.Now()
	defer func() {
		partial := outcome != nil && outcome.Partial()
		i.observe(KindReservation, start, err, false, partial)
		tracing.RecordError(span, err)
	}()

	source, organizationID := i.source(ctx), i.organization(ctx)
	ts := i.opts.Now()

	res, err := i.assembler.Reservation(ctx, doc, assembler.Options{Source: source, OrganizationID: organizationID, Timestamp: ts})
	if err != nil {
		return nil, err
	}
	locator := res.BookingInfo.RecordLocator
	ctx = fernctx.SetDocumentID(ctx, locator)

	outcome = &ReservationOutcome{
		RecordLocator: locator,
		Reservation:   res,
		Validation:    i.checker.Check(ctx, res),
		Travelers:     []reconcile.ProfileResult{},
	}

	travelerIDs := []string{}
	for _, p := range res.Passengers {
		if p.ProfileID == "" {
			continue
		}
		if locator == "" {
			i.logger.WithContext(ctx).WithField("passenger", p.FullName()).Warn("reservation has no record locator, passenger facts not reconciled")
			break
		}

		traveler, err := i.findPassengerTraveler(ctx, organizationID, source, p)
		if err != nil {
			outcome.fail(ctx, i.logger, p, err)
			continue
		}
		if traveler == nil {
			outcome.Unmatched = append(outcome.Unmatched, p.PrimaryIdentifier())
			continue
		}

		result, err := i.reconcilePassenger(ctx, traveler, source, locator, p, ts)
		if err != nil {
			outcome.fail(ctx, i.logger, p, err)
			continue
		}
		outcome.Travelers = append(outcome.Travelers, result)
		travelerIDs = append(travelerIDs, traveler.ID)
	}

	_ = i.emitter.EmitReservationImported(ctx, events.ReservationImportedEvent{
		BaseEvent:         events.BaseEvent{OrganizationID: organizationID},
		RecordLocator:     locator,
		Source:            source,
		Status:            res.BookingInfo.Status,
		CompletenessScore: res.CompletenessScore,
		TravelerIDs:       travelerIDs,
		Validation:        outcome.Validation,
	})

	i.logger.WithContext(ctx).WithFields(map[string]any{
		"record_locator": locator,
		"status":         res.BookingInfo.Status,
		"valid":          outcome.Validation.Valid,
		"travelers":      len(travelerIDs),
		"unmatched":      len(outcome.Unmatched),
		"failed":         len(outcome.Failed),
	}).Info("imported reservation")

	return outcome, nil
}

func (o *ReservationOutcome) fail(ctx context.Context, logger ectologger.Logger, p models.Passenger, err error) {
	logger.WithContext(ctx).WithError(err).WithField("passenger", p.PrimaryIdentifier()).Error("failed to reconcile passenger")
	o.Failed = append(o.Failed, errors.NewReconciliationError(p.ProfileID, "", err))
}

func (i *Importer) findPassengerTraveler(ctx context.Context, organizationID, source string, p models.Passenger) (*models.Traveler, error) {
	t, err := i.travelers.FindBySource(ctx, organizationID, source, p.ProfileID)
	if err != nil || t != nil {
		return t, err
	}
	for _, email := range p.FactValues(models.ContactEmail) {
		if t, err = i.travelers.FindByEmail(ctx, organizationID, email); err != nil || t != nil {
			return t, err
		}
	}
	return nil, nil
}

func (i *Importer) reconcilePassenger(ctx context.Context, traveler *models.Traveler, source, locator string, p models.Passenger, ts time.Time) (reconcile.ProfileResult, error) {
	release, err := i.locker.Lock(ctx, lockKey(traveler.OrganizationID, traveler.Source, traveler.ID))
	if err != nil {
		return reconcile.ProfileResult{}, fmt.Errorf("failed to lock traveler: %w", err)
	}
	defer release()

	batches, err := reconcile.PassengerBatches(p)
	if err != nil {
		return reconcile.ProfileResult{}, err
	}
	scope := models.Scope{ProfileID: traveler.ID, Source: source, SourceID: locator}
	return i.reconciler.ReconcileProfile(ctx, scope, batches, ts), nil
}

func (i *Importer) source(ctx context.Context) string {
	if s := fernctx.GetSource(ctx); s != "" {
		return s
	}
	return i.opts.Source
}

func (i *Importer) organization(ctx context.Context) string {
	if o := fernctx.GetOrganizationID(ctx); o != "" {
		return o
	}
	return i.opts.DefaultOrganizationID
}

func (i *Importer) observe(kind string, start time.Time, err error, created, partial bool) {
	status := "updated"
	switch {
	case err != nil:
		status = "failed"
	case partial:
		status = "partial"
	case created:
		status = "created"
	}
	metrics.ImportsTotal.WithLabelValues(kind, status).Inc()
	metrics.ImportDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func lockKey(parts ...string) string {
	return "profile:" + strings.Join(parts, ":")
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

type noopEmitter struct{}

func (noopEmitter) EmitProfileImported(context.Context, events.ProfileImportedEvent) error {
	return nil
}

func (noopEmitter) EmitReservationImported(context.Context, events.ReservationImportedEvent) error {
	return nil
}
