package extractors

import (
	"context"
	"strings"

	"github.com/Gobusters/ectolinq"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/raw"
)

// Booking extracts booking details and ticketing state. Status is left
// empty; it depends on segments and is derived during assembly.
func (e *Extractor) Booking(ctx context.Context, root map[string]any) models.BookingInfo {
	items := collect(ctx, e, FamilyBooking, func(add func(models.BookingInfo)) error {
		details := e.reader.Object(root, raw.BookingDetails)
		if details == nil {
			details = root
		}

		info := models.BookingInfo{
			RecordLocator:  strings.ToUpper(e.firstText(raw.RecordLocator, details, root)),
			CreatedAt:      ParseTime(e.firstText(raw.CreationTime, details, root)),
			UpdatedAt:      ParseTime(e.firstText(raw.UpdateTime, details, root)),
			CreationAgent:  e.firstText(raw.CreationAgent, details, root),
			PseudoCityCode: e.firstText(raw.PseudoCityCode, details, root),
		}

		for _, ticketing := range e.reader.Objects(root, raw.TicketingInfo) {
			if e.reader.Bool(ticketing, raw.AlreadyTicketed) {
				info.Ticketed = true
			}
			for _, detail := range e.reader.Objects(ticketing, raw.TicketDetails) {
				number := e.reader.Text(detail, raw.TicketNumber)
				if number != "" && !ectolinq.Contains(info.TicketNumbers, number) {
					info.TicketNumbers = append(info.TicketNumbers, number)
				}
			}
		}
		if len(info.TicketNumbers) > 0 {
			info.Ticketed = true
		}

		add(info)
		return nil
	})

	if len(items) == 0 {
		return models.BookingInfo{}
	}
	return items[0]
}

// firstText reads field from the first node that has it.
func (e *Extractor) firstText(field raw.Field, nodes ...map[string]any) string {
	for _, node := range nodes {
		if v := e.reader.Text(node, field); v != "" {
			return v
		}
	}
	return ""
}

// firstObjects reads a list field from the first node that has it.
func (e *Extractor) firstObjects(field raw.Field, nodes ...map[string]any) []map[string]any {
	for _, node := range nodes {
		if v := e.reader.Objects(node, field); len(v) > 0 {
			return v
		}
	}
	return nil
}
