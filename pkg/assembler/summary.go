package assembler

import (
	"strings"
	"time"

	"github.com/Gobusters/ectolinq"

	"github.com/Ramsey-B/fern/pkg/extractors"
	"github.com/Ramsey-B/fern/pkg/models"
)

// TripSummary derives the trip summary. Origin and destination come from
// the first and last flights; the international flag comes only from the
// remark marker.
func TripSummary(res *models.Reservation) models.TripSummary {
	markers := extractors.ParseTripMarkers(res.Remarks)
	summary := models.TripSummary{
		IsInternational: markers.International,
		TripName:        markers.TripName,
		TripPurpose:     markers.TripPurpose,
		Approver:        markers.Approver,
		TotalSegments:   len(res.FlightSegments) + len(res.HotelSegments) + len(res.CarSegments),
		Cities:          []string{},
	}

	flights := res.FlightSegments
	if len(flights) > 0 {
		first, last := flights[0], flights[len(flights)-1]
		summary.Origin = first.Origin
		summary.Destination = last.Destination
		summary.IsRoundTrip = len(flights) >= 2 && first.Origin != "" && strings.EqualFold(first.Origin, last.Destination)
	}

	for _, f := range flights {
		for _, city := range []string{f.Origin, f.Destination} {
			city = strings.ToUpper(city)
			if city != "" && !ectolinq.Contains(summary.Cities, city) {
				summary.Cities = append(summary.Cities, city)
			}
		}
	}
	summary.IsMultiCity = len(summary.Cities) > 2

	for _, f := range flights {
		summary.StartDate = earliest(summary.StartDate, f.DepartureTime)
		summary.EndDate = latest(summary.EndDate, f.ArrivalTime, f.DepartureTime)
	}
	for _, h := range res.HotelSegments {
		summary.StartDate = earliest(summary.StartDate, h.CheckIn)
		summary.EndDate = latest(summary.EndDate, h.CheckOut)
	}
	for _, c := range res.CarSegments {
		summary.StartDate = earliest(summary.StartDate, c.PickupTime)
		summary.EndDate = latest(summary.EndDate, c.ReturnTime)
	}

	return summary
}

func earliest(current *time.Time, candidates ...*time.Time) *time.Time {
	for _, c := range candidates {
		if c != nil && (current == nil || c.Before(*current)) {
			current = c
		}
	}
	return current
}

func latest(current *time.Time, candidates ...*time.Time) *time.Time {
	for _, c := range candidates {
		if c != nil && (current == nil || c.After(*current)) {
			current = c
		}
	}
	return current
}

// ReservationCompleteness scores the reservation's key fields.
func ReservationCompleteness(res *models.Reservation) float64 {
	hasEmail, hasPhone := false, false
	for _, p := range res.Passengers {
		hasEmail = hasEmail || len(p.Emails) > 0
		hasPhone = hasPhone || len(p.Phones) > 0
	}
	segments := len(res.FlightSegments) + len(res.HotelSegments) + len(res.CarSegments)

	return score([]bool{
		res.BookingInfo.RecordLocator != "",
		res.BookingInfo.CreatedAt != nil,
		len(res.Passengers) > 0,
		segments > 0,
		hasEmail,
		hasPhone,
		res.BookingInfo.Status == models.BookingStatusTicketed,
		len(res.AccountingLines) > 0,
	})
}

// ProfileCompleteness scores the profile's key fields.
func ProfileCompleteness(p *models.Profile) float64 {
	return score([]bool{
		p.PersonalInfo.FirstName != "",
		p.PersonalInfo.LastName != "",
		p.PersonalInfo.BirthDate != "",
		len(p.ContactInfo.Emails) > 0,
		len(p.ContactInfo.Phones) > 0,
		len(p.ContactInfo.Addresses) > 0,
		len(p.Documents) > 0,
		len(p.LoyaltyPrograms) > 0,
		len(p.PaymentMethods) > 0,
		len(p.EmergencyContacts) > 0,
	})
}
