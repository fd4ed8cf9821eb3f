// Package assembler composes extractor output into canonical reservations
// and profiles.
package assembler

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/extractors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/provenance"
	"github.com/Ramsey-B/fern/pkg/raw"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Options identify the run a canonical document is assembled for.
type Options struct {
	Source         string
	OrganizationID string
	Timestamp      time.Time
}

type Assembler struct {
	extractor *extractors.Extractor
	reader    *raw.Reader
	logger    ectologger.Logger
}

func NewAssembler(logger ectologger.Logger, extractor *extractors.Extractor) *Assembler {
	return &Assembler{
		extractor: extractor,
		reader:    extractor.Reader(),
		logger:    logger,
	}
}

// Reservation assembles one canonical reservation. A document without a
// recognizable reservation root is the only fatal error.
func (a *Assembler) Reservation(ctx context.Context, doc raw.Document, opts Options) (*models.Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, "assembler.Assembler.Reservation")
	defer span.End()

	root := a.reservationRoot(doc.Root)
	if root == nil {
		tracing.RecordError(span, errors.ErrNoReservationRoot)
		return nil, errors.ErrNoReservationRoot
	}

	e := a.extractor
	res := &models.Reservation{
		BookingInfo:     e.Booking(ctx, root),
		Passengers:      e.Passengers(ctx, root),
		FlightSegments:  e.Flights(ctx, root),
		HotelSegments:   e.Hotels(ctx, root),
		CarSegments:     e.Cars(ctx, root),
		AccountingLines: e.AccountingLines(ctx, root),
		Remarks:         e.Remarks(ctx, root),
	}

	res.BookingInfo.Status = BookingStatus(res)
	res.TripSummary = TripSummary(res)
	res.CompletenessScore = ReservationCompleteness(res)
	res.Provenance = provenance.Build(provenance.ReservationGroups, opts.Source, res.BookingInfo.RecordLocator, timestamp(opts))

	a.logger.WithContext(ctx).WithFields(map[string]any{
		"record_locator": res.BookingInfo.RecordLocator,
		"passengers":     len(res.Passengers),
		"flights":        len(res.FlightSegments),
		"hotels":         len(res.HotelSegments),
		"cars":           len(res.CarSegments),
		"status":         res.BookingInfo.Status,
		"completeness":   res.CompletenessScore,
	}).Debug("assembled reservation")

	return res, nil
}

// Profile assembles one canonical profile. The organization from the
// document wins over the configured default.
func (a *Assembler) Profile(ctx context.Context, doc raw.Document, opts Options) (*models.Profile, error) {
	ctx, span := tracing.StartSpan(ctx, "assembler.Assembler.Profile")
	defer span.End()

	root := a.profileRoot(doc.Root)
	if root == nil {
		tracing.RecordError(span, errors.ErrNoProfileRoot)
		return nil, errors.ErrNoProfileRoot
	}

	e := a.extractor
	n := e.ProfileNodes(root)
	profile := &models.Profile{
		PersonalInfo: e.PersonalInfo(ctx, n),
		ContactInfo: models.ContactInfo{
			Emails:    e.ProfileEmails(ctx, n),
			Phones:    e.ProfilePhones(ctx, n),
			Addresses: e.ProfileAddresses(ctx, n),
		},
		Documents:         e.ProfileDocuments(ctx, n),
		LoyaltyPrograms:   e.ProfileLoyalty(ctx, n),
		PaymentMethods:    e.ProfilePaymentMethods(ctx, n),
		EmergencyContacts: e.ProfileEmergencyContacts(ctx, n),
		Preferences:       e.ProfilePreferences(ctx, n),
		Employment:        e.ProfileEmployment(ctx, n),
		Remarks:           e.ProfileRemarks(ctx, n),
		Metadata:          e.ProfileMetadata(n),
	}

	profile.Metadata.SourceSystem = opts.Source
	if profile.Metadata.OrganizationID == "" {
		profile.Metadata.OrganizationID = opts.OrganizationID
	}
	profile.Metadata.CompletenessScore = ProfileCompleteness(profile)
	profile.Provenance = provenance.Build(provenance.ProfileGroups, opts.Source, profile.Metadata.SourceID, timestamp(opts))

	return profile, nil
}

func (a *Assembler) reservationRoot(doc map[string]any) map[string]any {
	if root := a.reader.Object(doc, raw.ReservationRoot); root != nil {
		return root
	}
	// the document may already be the reservation body
	for _, f := range []raw.Field{raw.BookingDetails, raw.Passengers, raw.ReservationSegments} {
		if a.reader.Has(doc, f) {
			return doc
		}
	}
	return nil
}

func (a *Assembler) profileRoot(doc map[string]any) map[string]any {
	if root := a.reader.Object(doc, raw.ProfileRoot); root != nil {
		return root
	}
	for _, f := range []raw.Field{raw.ProfileCustomer, raw.ProfileUniqueID, raw.ProfileFirstName} {
		if a.reader.Has(doc, f) {
			return doc
		}
	}
	return nil
}

// BookingStatus derives the booking status. Checks run in a fixed order:
// ticketed, then past segments, then cancelled codes.
func BookingStatus(res *models.Reservation) string {
	if res.BookingInfo.Ticketed || len(res.BookingInfo.TicketNumbers) > 0 {
		return models.BookingStatusTicketed
	}

	past, cancelled := false, false
	visit := func(isPast bool, code string) {
		past = past || isPast
		cancelled = cancelled || extractors.CancelledStatusCodes[strings.ToUpper(code)]
	}
	for _, s := range res.FlightSegments {
		visit(s.IsPast, s.StatusCode)
	}
	for _, s := range res.HotelSegments {
		visit(s.IsPast, s.StatusCode)
	}
	for _, s := range res.CarSegments {
		visit(s.IsPast, s.StatusCode)
	}

	switch {
	case past:
		return models.BookingStatusCompleted
	case cancelled:
		return models.BookingStatusCancelled
	}
	return models.BookingStatusBooked
}

func timestamp(opts Options) time.Time {
	if opts.Timestamp.IsZero() {
		return time.Now().UTC()
	}
	return opts.Timestamp
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func score(populated []bool) float64 {
	if len(populated) == 0 {
		return 0
	}
	n := 0
	for _, p := range populated {
		if p {
			n++
		}
	}
	return round2(float64(n) / float64(len(populated)) * 100)
}
