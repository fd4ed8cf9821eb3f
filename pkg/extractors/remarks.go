package extractors

import (
	"context"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/raw"
)

// Remark markers are provider conventions with no documented grammar. They
// are matched literally at the start of a remark.
const (
	MarkerTripName      = "*TN/"
	MarkerTripPurpose   = "*TP/"
	MarkerApprover      = "*APV/"
	MarkerInternational = "*INTL"
)

// TripMarkers holds the values carried by marker remarks.
type TripMarkers struct {
	TripName      string
	TripPurpose   string
	Approver      string
	International bool
}

// ParseTripMarkers scans remarks for markers. The first occurrence of each
// valued marker wins.
func ParseTripMarkers(remarks []models.Remark) TripMarkers {
	markers := TripMarkers{}
	for _, remark := range remarks {
		text := strings.TrimSpace(remark.Text)
		upper := strings.ToUpper(text)
		switch {
		case strings.HasPrefix(upper, MarkerTripName):
			if markers.TripName == "" {
				markers.TripName = strings.TrimSpace(text[len(MarkerTripName):])
			}
		case strings.HasPrefix(upper, MarkerTripPurpose):
			if markers.TripPurpose == "" {
				markers.TripPurpose = strings.TrimSpace(text[len(MarkerTripPurpose):])
			}
		case strings.HasPrefix(upper, MarkerApprover):
			if markers.Approver == "" {
				markers.Approver = strings.TrimSpace(text[len(MarkerApprover):])
			}
		case strings.HasPrefix(upper, MarkerInternational):
			markers.International = true
		}
	}
	return markers
}

func (e *Extractor) Remarks(ctx context.Context, root map[string]any) []models.Remark {
	return collect(ctx, e, FamilyRemarks, func(add func(models.Remark)) error {
		for _, item := range e.reader.List(root, raw.ReservationRemarks) {
			if remark, ok := e.remark(item); ok {
				add(remark)
			}
		}
		return nil
	})
}

// remark reads a remark given as bare text, as a node with text, or as a node
// with continuation lines.
func (e *Extractor) remark(item any) (models.Remark, bool) {
	node, ok := item.(map[string]any)
	if !ok {
		text := normalizers.CollapseWhitespace(raw.Text(item))
		return models.Remark{Text: text}, text != ""
	}

	lines := []string{}
	for _, line := range e.reader.List(node, raw.RemarkLines) {
		var text string
		if m, ok := line.(map[string]any); ok {
			text = e.reader.Text(m, raw.RemarkLineText)
		} else {
			text = raw.Text(line)
		}
		if text = normalizers.CollapseWhitespace(text); text != "" {
			lines = append(lines, text)
		}
	}
	if len(lines) == 0 {
		if text := normalizers.CollapseWhitespace(e.reader.Text(node, raw.RemarkText)); text != "" {
			lines = append(lines, text)
		}
	}
	if len(lines) == 0 {
		return models.Remark{}, false
	}

	return models.Remark{
		Type: e.reader.Text(node, raw.RemarkType),
		Text: strings.Join(lines, " "),
	}, true
}

func (e *Extractor) AccountingLines(ctx context.Context, root map[string]any) []models.AccountingLine {
	return collect(ctx, e, FamilyAccounting, func(add func(models.AccountingLine)) error {
		for _, node := range e.reader.Objects(root, raw.AccountingLines) {
			line := models.AccountingLine{
				FareApplication: e.reader.Text(node, raw.AccountingFareApplication),
				BaseFare:        ParseAmount(e.reader.Text(node, raw.AccountingBaseFare)),
				Tax:             ParseAmount(e.reader.Text(node, raw.AccountingTax)),
				Commission:      ParseAmount(e.reader.Text(node, raw.AccountingCommission)),
				DocumentNumber:  e.reader.Text(node, raw.AccountingDocumentNumber),
				Airline:         normalizers.NormalizeCode(e.reader.Text(node, raw.AccountingAirline)),
				FormOfPayment:   e.reader.Text(node, raw.AccountingFormOfPayment),
				PassengerName:   normalizers.CollapseWhitespace(e.reader.Text(node, raw.AccountingPassengerName)),
			}
			if line.BaseFare == nil && line.DocumentNumber == "" && line.FareApplication == "" {
				continue
			}
			add(line)
		}
		return nil
	})
}
