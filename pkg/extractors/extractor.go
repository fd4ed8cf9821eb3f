// Package extractors pulls typed canonical records out of raw provider trees.
// Each entity family is extracted independently; a failing family degrades to
// a partial list without affecting its siblings.
package extractors

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/identity"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/raw"
)

// Entity families.
const (
	FamilyBooking           = "booking"
	FamilyPassengers        = "passengers"
	FamilyContacts          = "contacts"
	FamilyFlights           = "flights"
	FamilyHotels            = "hotels"
	FamilyCars              = "cars"
	FamilyAccounting        = "accounting"
	FamilyRemarks           = "remarks"
	FamilyPersonalInfo      = "personal_info"
	FamilyEmails            = "emails"
	FamilyPhones            = "phones"
	FamilyAddresses         = "addresses"
	FamilyDocuments         = "documents"
	FamilyLoyalty           = "loyalty"
	FamilyPaymentMethods    = "payment_methods"
	FamilyEmergencyContacts = "emergency_contacts"
	FamilyPreferences       = "preferences"
	FamilyEmployment        = "employment"
)

type Extractor struct {
	reader   *raw.Reader
	resolver *identity.Resolver
	logger   ectologger.Logger
}

func NewExtractor(logger ectologger.Logger, reader *raw.Reader) *Extractor {
	if reader == nil {
		reader = raw.NewReader()
	}
	return &Extractor{
		reader:   reader,
		resolver: identity.NewResolver(logger),
		logger:   logger,
	}
}

func (e *Extractor) Reader() *raw.Reader {
	return e.reader
}

// collect runs fn for one family. Items added before a panic or error are
// kept; the failure is logged and counted.
func collect[T any](ctx context.Context, e *Extractor, family string, fn func(add func(T)) error) (items []T) {
	items = []T{}
	add := func(item T) {
		items = append(items, item)
	}

	defer func() {
		if r := recover(); r != nil {
			e.fail(ctx, errors.NewExtractionError(family, r), len(items))
		}
	}()

	if err := fn(add); err != nil {
		e.fail(ctx, errors.NewExtractionError(family, err), len(items))
	}
	return items
}

// guard is collect for families that mutate already extracted records.
func guard(ctx context.Context, e *Extractor, family string, fn func() error) {
	collect(ctx, e, family, func(func(struct{})) error {
		return fn()
	})
}

func (e *Extractor) fail(ctx context.Context, err *errors.ExtractionError, kept int) {
	metrics.ExtractionFailuresTotal.WithLabelValues(err.Family).Inc()
	e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
		"family": err.Family,
		"kept":   kept,
	}).Error("extraction failed, continuing with partial result")
}
