package extractors

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/raw"
)

func getTestExtractor() *Extractor {
	return NewExtractor(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}), raw.NewReader())
}

func loadFixture(t *testing.T, name string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	doc, err := raw.Classify(data)
	require.NoError(t, err)
	return doc.Root
}

func reservationRoot(t *testing.T, e *Extractor, doc map[string]any) map[string]any {
	t.Helper()
	root := e.reader.Object(doc, raw.ReservationRoot)
	require.NotNil(t, root)
	return root
}

// stripNamespace renames every namespaced key to its plain form.
func stripNamespace(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[strings.TrimPrefix(k, raw.Namespace)] = stripNamespace(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = stripNamespace(child)
		}
		return out
	}
	return v
}

func TestBooking(t *testing.T) {
	e := getTestExtractor()
	root := reservationRoot(t, e, loadFixture(t, "reservation.json"))

	booking := e.Booking(context.Background(), root)

	assert.Equal(t, "ABC123", booking.RecordLocator)
	require.NotNil(t, booking.CreatedAt)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC), *booking.CreatedAt)
	assert.Equal(t, "AGT", booking.CreationAgent)
	assert.Equal(t, "X1Y2", booking.PseudoCityCode)
	assert.True(t, booking.Ticketed)
	assert.Equal(t, []string{"0012345678901"}, booking.TicketNumbers)
	assert.Empty(t, booking.Status)
}

func TestPassengers(t *testing.T) {
	e := getTestExtractor()
	root := reservationRoot(t, e, loadFixture(t, "reservation.json"))

	passengers := e.Passengers(context.Background(), root)
	require.Len(t, passengers, 2)

	john, jane := passengers[0], passengers[1]
	assert.Equal(t, "1", john.PrimaryIdentifier())
	assert.Equal(t, "SMITH/JOHN", john.FullName())
	assert.Equal(t, "ADT", john.PassengerType)
	assert.Equal(t, "TRV-1", john.ProfileID)
	assert.Equal(t, []string{"john@x.com", "shared@x.com"}, john.FactValues(models.ContactEmail))
	assert.Equal(t, []string{"shared@x.com"}, jane.FactValues(models.ContactEmail))

	require.Len(t, john.Phones, 1)
	assert.Equal(t, models.AssociationDirect, john.Phones[0].AssociationBasis)
	assert.Equal(t, "mobile", john.Phones[0].Type)
	assert.Empty(t, jane.Phones)

	require.NotNil(t, john.Passport)
	assert.Equal(t, "X1234567", john.Passport.Number)
	assert.Equal(t, "US", john.Passport.IssuingCountry)
	assert.Equal(t, "2030-01-15", john.Passport.ExpirationDate)
	assert.Equal(t, []models.Visa{{Number: "987654", IssuingCountry: "US", ApplicableCountry: "GB", ExpirationDate: "2026-12-31"}}, john.Visas)
	assert.Nil(t, jane.Passport)
	assert.Empty(t, jane.Visas)

	assert.Equal(t, []models.LoyaltyProgram{{ProviderCode: "AA", MemberNumber: "AA123", Tier: "GOLD"}}, john.LoyaltyPrograms)
}

func TestPassengers_SingleObjectEqualsList(t *testing.T) {
	e := getTestExtractor()
	pax := map[string]any{
		"@nameNumber": "1",
		"LastName":    "DOE",
		"FirstName":   "ALEX",
		"EmailAddress": map[string]any{
			"Address": "alex@x.com",
		},
	}

	single := map[string]any{"Passengers": map[string]any{"Passenger": pax}}
	list := map[string]any{"Passengers": map[string]any{"Passenger": []any{pax}}}

	fromSingle := e.Passengers(context.Background(), single)
	fromList := e.Passengers(context.Background(), list)

	require.Len(t, fromSingle, 1)
	assert.Equal(t, fromSingle, fromList)
	assert.Equal(t, []string{"alex@x.com"}, fromSingle[0].FactValues(models.ContactEmail))
}

func TestSegments(t *testing.T) {
	e := getTestExtractor()
	root := reservationRoot(t, e, loadFixture(t, "reservation.json"))
	ctx := context.Background()

	flights := e.Flights(ctx, root)
	require.Len(t, flights, 2)
	assert.Equal(t, "JFK", flights[0].Origin)
	assert.Equal(t, "LHR", flights[0].Destination)
	assert.Equal(t, "100", flights[0].FlightNumber)
	assert.Equal(t, models.SegmentStatusConfirmed, flights[0].Status)
	require.NotNil(t, flights[0].DurationMinutes)
	assert.Equal(t, 750, *flights[0].DurationMinutes)
	assert.Equal(t, []models.SeatAssignment{{Number: "12A", StatusCode: "HK", Status: models.SegmentStatusConfirmed, PassengerNameNumber: "1"}}, flights[0].Seats)
	assert.Equal(t, 4, flights[1].Sequence)
	assert.Nil(t, flights[1].DurationMinutes, "missing arrival must leave the duration undefined")
	assert.Empty(t, flights[1].Seats)

	hotels := e.Hotels(ctx, root)
	require.Len(t, hotels, 1)
	assert.Equal(t, "The Grand", hotels[0].Name)
	assert.Equal(t, "HY", hotels[0].ChainCode)
	require.NotNil(t, hotels[0].Nights)
	assert.Equal(t, 3, *hotels[0].Nights)

	cars := e.Cars(ctx, root)
	require.Len(t, cars, 1)
	assert.Equal(t, "ZE", cars[0].Vendor)
	assert.Equal(t, "LHR", cars[0].ReturnLocation)
	require.NotNil(t, cars[0].RentalDays)
	assert.Equal(t, 3, *cars[0].RentalDays)
}

func TestSegments_OrderedBySequence(t *testing.T) {
	e := getTestExtractor()
	root := map[string]any{
		"Segments": map[string]any{"Segment": []any{
			map[string]any{"@sequence": "2", "Air": map[string]any{"DepartureAirport": "LHR"}},
			map[string]any{"@sequence": "1", "Air": map[string]any{"DepartureAirport": "JFK"}},
		}},
	}

	flights := e.Flights(context.Background(), root)
	require.Len(t, flights, 2)
	assert.Equal(t, "JFK", flights[0].Origin)
	assert.Equal(t, models.SegmentStatusUnknown, flights[0].Status)
}

func TestAccountingAndRemarks(t *testing.T) {
	e := getTestExtractor()
	root := reservationRoot(t, e, loadFixture(t, "reservation.json"))
	ctx := context.Background()

	lines := e.AccountingLines(ctx, root)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].BaseFare)
	assert.InDelta(t, 1200.50, *lines[0].BaseFare, 0.001)
	assert.InDelta(t, 150.25, *lines[0].Tax, 0.001)
	assert.Nil(t, lines[0].Commission)
	assert.Equal(t, "AA", lines[0].Airline)

	remarks := e.Remarks(ctx, root)
	require.Len(t, remarks, 4)
	assert.Equal(t, models.Remark{Type: "General", Text: "*TN/Spring Sales Summit"}, remarks[0])

	markers := ParseTripMarkers(remarks)
	assert.Equal(t, TripMarkers{
		TripName:      "Spring Sales Summit",
		TripPurpose:   "Client meeting",
		Approver:      "jane.doe",
		International: true,
	}, markers)
}

func TestNamespacedAndPlainAreEquivalent(t *testing.T) {
	e := getTestExtractor()
	ctx := context.Background()
	doc := loadFixture(t, "reservation.json")
	namespaced := reservationRoot(t, e, doc)
	plain := reservationRoot(t, e, stripNamespace(doc).(map[string]any))

	assert.Equal(t, e.Booking(ctx, namespaced), e.Booking(ctx, plain))
	assert.Equal(t, e.Passengers(ctx, namespaced), e.Passengers(ctx, plain))
	assert.Equal(t, e.Flights(ctx, namespaced), e.Flights(ctx, plain))
	assert.Equal(t, e.Hotels(ctx, namespaced), e.Hotels(ctx, plain))
	assert.Equal(t, e.Cars(ctx, namespaced), e.Cars(ctx, plain))
	assert.Equal(t, e.AccountingLines(ctx, namespaced), e.AccountingLines(ctx, plain))
	assert.Equal(t, e.Remarks(ctx, namespaced), e.Remarks(ctx, plain))
}

func TestCollect_PanicKeepsPartialResult(t *testing.T) {
	e := getTestExtractor()

	items := collect(context.Background(), e, "test", func(add func(int)) error {
		add(1)
		add(2)
		var m map[string]int
		m["boom"] = 3
		return nil
	})

	assert.Equal(t, []int{1, 2}, items)
}

func TestCollect_ErrorKeepsPartialResult(t *testing.T) {
	e := getTestExtractor()

	items := collect(context.Background(), e, "test", func(add func(string)) error {
		add("a")
		return errors.New("upstream shape changed")
	})

	assert.Equal(t, []string{"a"}, items)
}

func TestParseVisa(t *testing.T) {
	visa, ok := ParseVisa("/v/123ab/us//ca//2027-06-30")
	require.True(t, ok)
	assert.Equal(t, models.Visa{Number: "123AB", IssuingCountry: "US", ApplicableCountry: "CA", ExpirationDate: "2027-06-30"}, visa)

	visa, ok = ParseVisa("3DOCO/V/55/FR//DE//15JAN27")
	require.True(t, ok)
	assert.Equal(t, "2027-01-15", visa.ExpirationDate)

	_, ok = ParseVisa("/V/123/US/CA/2027")
	assert.False(t, ok)
	_, ok = ParseVisa("")
	assert.False(t, ok)
}

func TestSegmentStatus(t *testing.T) {
	assert.Equal(t, models.SegmentStatusConfirmed, SegmentStatus(" hk"))
	assert.Equal(t, models.SegmentStatusUnconfirmed, SegmentStatus("UC"))
	assert.Equal(t, models.SegmentStatusWaitlisted, SegmentStatus("HL"))
	assert.Equal(t, models.SegmentStatusCancelled, SegmentStatus("XX"))
	assert.Equal(t, models.SegmentStatusUnknown, SegmentStatus("ZZ"))
	assert.Equal(t, models.SegmentStatusUnknown, SegmentStatus(""))
}

func TestDurations(t *testing.T) {
	start := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 1, 30, 0, 0, time.UTC)

	assert.Equal(t, 210, *MinutesBetween(&start, &end))
	assert.Nil(t, MinutesBetween(&start, nil))
	assert.Nil(t, MinutesBetween(nil, &end))
	assert.Nil(t, MinutesBetween(&end, &start))

	assert.Equal(t, 1, *NightsBetween(&start, &end))
	assert.Nil(t, NightsBetween(nil, &end))

	assert.Equal(t, 1, *RentalDaysBetween(&start, &end))
	assert.Nil(t, RentalDaysBetween(&start, nil))
}

func TestParseTimeAndDates(t *testing.T) {
	for _, s := range []string{"2024-04-01T18:00:00Z", "2024-04-01T18:00:00", "2024-04-01T18:00"} {
		parsed := ParseTime(s)
		require.NotNil(t, parsed, s)
		assert.Equal(t, 18, parsed.Hour())
	}
	assert.NotNil(t, ParseTime("2024-04-01"))
	assert.Nil(t, ParseTime("yesterday"))
	assert.Nil(t, ParseTime(""))

	assert.Equal(t, "2030-01-15", NormalizeDate("15JAN30"))
	assert.Equal(t, "2030-01-15", NormalizeDate("2030-01-15T00:00:00"))
	assert.Equal(t, "sometime", NormalizeDate("sometime"))
}
