// Package validation inspects assembled reservations for known data quality
// problems. Its findings are advisory and never block persistence.
package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
)

const (
	SeverityIssue          = "issue"
	SeverityRecommendation = "recommendation"
)

const (
	RulePastFlightSeat     = "past_flight_seat"
	RuleUpcomingFlightSeat = "upcoming_flight_seat"
	RuleHotelConfirmation  = "hotel_confirmation"
	RuleCarConfirmation    = "car_confirmation"
)

// sentinelSeats are seat numbers the provider uses for "no seat".
var sentinelSeats = map[string]bool{"": true, "0": true, "000": true}

type Finding struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Segment  int    `json:"segment,omitempty"`
	Message  string `json:"message"`
}

type Report struct {
	Valid           bool      `json:"valid"`
	Issues          []Finding `json:"issues"`
	Recommendations []Finding `json:"recommendations"`
}

func (r *Report) issue(rule string, segment int, format string, args ...any) {
	r.Issues = append(r.Issues, Finding{Rule: rule, Severity: SeverityIssue, Segment: segment, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) recommend(rule string, segment int, format string, args ...any) {
	r.Recommendations = append(r.Recommendations, Finding{Rule: rule, Severity: SeverityRecommendation, Segment: segment, Message: fmt.Sprintf(format, args...)})
}

type Checker struct {
	logger ectologger.Logger
}

func NewChecker(logger ectologger.Logger) *Checker {
	return &Checker{logger: logger}
}

// Check inspects res without mutating it. Findings are logged and counted.
func (c *Checker) Check(ctx context.Context, res *models.Reservation) Report {
	report := Evaluate(res)

	for _, f := range append(append([]Finding{}, report.Issues...), report.Recommendations...) {
		metrics.ValidationFindingsTotal.WithLabelValues(f.Severity, f.Rule).Inc()
	}
	if !report.Valid {
		c.logger.WithContext(ctx).WithFields(map[string]any{
			"record_locator":  res.BookingInfo.RecordLocator,
			"issues":          len(report.Issues),
			"recommendations": len(report.Recommendations),
		}).Warn("reservation has data quality issues")
	}
	return report
}

// Evaluate runs every rule over res.
func Evaluate(res *models.Reservation) Report {
	report := Report{Issues: []Finding{}, Recommendations: []Finding{}}
	if res == nil {
		report.Valid = true
		return report
	}

	for _, f := range res.FlightSegments {
		flight := strings.TrimSpace(f.MarketingCarrier + f.FlightNumber)
		if f.IsPast {
			if !hasUsableSeat(f.Seats) {
				report.issue(RulePastFlightSeat, f.Sequence, "past flight %s has no confirmed seat assignment", flight)
			}
			continue
		}
		if len(f.Seats) == 0 {
			report.recommend(RuleUpcomingFlightSeat, f.Sequence, "flight %s has no seat assignment", flight)
		}
	}

	for _, h := range res.HotelSegments {
		if !h.IsPast && strings.TrimSpace(h.ConfirmationNumber) == "" {
			report.recommend(RuleHotelConfirmation, h.Sequence, "hotel %s has no confirmation number", h.Name)
		}
	}
	for _, car := range res.CarSegments {
		if !car.IsPast && strings.TrimSpace(car.ConfirmationNumber) == "" {
			report.recommend(RuleCarConfirmation, car.Sequence, "car rental with %s has no confirmation number", car.Vendor)
		}
	}

	report.Valid = len(report.Issues) == 0
	return report
}

// hasUsableSeat reports whether any seat is a real, non-unconfirmed seat.
func hasUsableSeat(seats []models.SeatAssignment) bool {
	for _, s := range seats {
		if sentinelSeats[strings.TrimSpace(s.Number)] {
			continue
		}
		if s.Status == models.SegmentStatusUnconfirmed || strings.EqualFold(s.StatusCode, "UC") {
			continue
		}
		return true
	}
	return false
}
