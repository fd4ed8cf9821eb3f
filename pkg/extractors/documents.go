package extractors

import (
	"regexp"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/raw"
)

// visaPattern matches /V/<number>/<issuingCountry>//<applicableCountry>//<expiry>.
var visaPattern = regexp.MustCompile(`/V/([^/\s]+)/([^/\s]*)//([^/\s]*)//([^/\s]+)`)

const passportType = "P"

// apisDocuments reads the passport and visas out of a passenger's APIS
// special requests. The first passport wins.
func (e *Extractor) apisDocuments(node map[string]any) (*models.Passport, []models.Visa) {
	var passport *models.Passport
	visas := []models.Visa{}

	for _, request := range e.reader.Objects(node, raw.PassengerAPIS) {
		for _, docs := range e.reader.Objects(request, raw.DOCSEntry) {
			if passport != nil || !strings.EqualFold(e.reader.Text(docs, raw.DocumentType), passportType) {
				continue
			}
			number := normalizers.Alphanumeric(e.reader.Text(docs, raw.DocumentNumber))
			if number == "" {
				continue
			}
			passport = &models.Passport{
				Number:         number,
				IssuingCountry: normalizers.NormalizeCode(e.reader.Text(docs, raw.DocumentIssuer)),
				Nationality:    normalizers.NormalizeCode(e.reader.Text(docs, raw.DocumentNationality)),
				ExpirationDate: NormalizeDate(e.reader.Text(docs, raw.DocumentExpiry)),
				BirthDate:      NormalizeDate(e.reader.Text(docs, raw.DocumentBirthDate)),
				Gender:         e.reader.Text(docs, raw.DocumentGender),
				Surname:        e.reader.Text(docs, raw.DocumentSurname),
				GivenName:      e.reader.Text(docs, raw.DocumentForename),
			}
		}

		texts := []string{e.reader.Text(request, raw.DocumentFreeText)}
		for _, doco := range e.reader.List(request, raw.DOCOEntry) {
			if m, ok := doco.(map[string]any); ok {
				texts = append(texts, e.reader.Text(m, raw.DocumentFreeText))
			} else {
				texts = append(texts, raw.Text(doco))
			}
		}
		for _, text := range texts {
			if visa, ok := ParseVisa(text); ok && !hasVisa(visas, visa.Number) {
				visas = append(visas, visa)
			}
		}
	}

	return passport, visas
}

// ParseVisa matches free text against the visa pattern. Text that does not
// match yields no visa.
func ParseVisa(text string) (models.Visa, bool) {
	m := visaPattern.FindStringSubmatch(strings.ToUpper(text))
	if m == nil {
		return models.Visa{}, false
	}
	return models.Visa{
		Number:            m[1],
		IssuingCountry:    m[2],
		ApplicableCountry: m[3],
		ExpirationDate:    NormalizeDate(m[4]),
	}, true
}

func hasVisa(visas []models.Visa, number string) bool {
	for _, v := range visas {
		if v.Number == number {
			return true
		}
	}
	return false
}

// PassengerDocuments flattens a passenger's passport and visas into travel
// documents for reconciliation.
func PassengerDocuments(p models.Passenger) []models.TravelDocument {
	docs := []models.TravelDocument{}
	if p.Passport != nil {
		docs = append(docs, models.TravelDocument{
			Type:           models.DocumentPassport,
			Number:         p.Passport.Number,
			IssuingCountry: p.Passport.IssuingCountry,
			Nationality:    p.Passport.Nationality,
			ExpirationDate: p.Passport.ExpirationDate,
		})
	}
	for _, v := range p.Visas {
		docs = append(docs, models.TravelDocument{
			Type:              models.DocumentVisa,
			Number:            v.Number,
			IssuingCountry:    v.IssuingCountry,
			ApplicableCountry: v.ApplicableCountry,
			ExpirationDate:    v.ExpirationDate,
		})
	}
	return docs
}

// documentType maps provider document type codes onto canonical types.
func documentType(code string) string {
	switch normalizers.NormalizeCode(code) {
	case "P", "PP", "PASSPORT", "2":
		return models.DocumentPassport
	case "V", "VISA", "1":
		return models.DocumentVisa
	case "":
		return ""
	}
	return models.DocumentOther
}
