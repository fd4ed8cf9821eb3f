package extractors

import (
	"context"
	"strings"

	"github.com/Ramsey-B/fern/pkg/identity"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/raw"
)

// Passengers extracts passengers with the facts nested under each passenger
// node, then attributes reservation level contact facts to them.
func (e *Extractor) Passengers(ctx context.Context, root map[string]any) []models.Passenger {
	passengers := collect(ctx, e, FamilyPassengers, func(add func(models.Passenger)) error {
		for _, node := range e.reader.Objects(root, raw.Passengers) {
			add(e.passenger(node))
		}
		return nil
	})

	guard(ctx, e, FamilyContacts, func() error {
		facts := e.reservationFacts(root)
		stats := e.resolver.Attach(ctx, passengers, facts)
		e.logger.WithContext(ctx).WithFields(map[string]any{
			"passengers": len(passengers),
			"facts":      len(facts),
			"explicit":   stats.Explicit,
			"shared":     stats.Shared,
			"dropped":    stats.Dropped,
		}).Debug("attributed reservation contact facts")
		return nil
	})

	return passengers
}

func (e *Extractor) passenger(node map[string]any) models.Passenger {
	p := models.Passenger{
		ID:            e.reader.Text(node, raw.PassengerID),
		NameID:        e.reader.Text(node, raw.PassengerNameID),
		NameAssocID:   e.reader.Text(node, raw.PassengerNameAssocID),
		NameNumber:    e.reader.Text(node, raw.PassengerNameNumber),
		FirstName:     normalizers.CollapseWhitespace(e.reader.Text(node, raw.PassengerFirstName)),
		LastName:      normalizers.CollapseWhitespace(e.reader.Text(node, raw.PassengerLastName)),
		PassengerType: e.reader.Text(node, raw.PassengerType),
		ProfileID:     e.reader.Text(node, raw.PassengerProfileID),
		Emails:        []models.ContactFact{},
		Phones:        []models.ContactFact{},
		Addresses:     []models.ContactFact{},
	}

	for _, item := range e.reader.List(node, raw.PassengerEmails) {
		identity.AddDirect(&p, e.fact(models.ContactEmail, item))
	}
	for _, item := range e.reader.List(node, raw.PassengerPhones) {
		identity.AddDirect(&p, e.fact(models.ContactPhone, item))
	}
	for _, item := range e.reader.List(node, raw.PassengerAddresses) {
		identity.AddDirect(&p, e.fact(models.ContactAddress, item))
	}

	p.Passport, p.Visas = e.apisDocuments(node)

	for _, ff := range e.reader.Objects(node, raw.PassengerLoyalty) {
		program := models.LoyaltyProgram{
			ProviderCode: normalizers.NormalizeCode(e.reader.Text(ff, raw.LoyaltyProgram)),
			MemberNumber: normalizers.RemoveWhitespace(e.reader.Text(ff, raw.LoyaltyNumber)),
			Tier:         e.reader.Text(ff, raw.LoyaltyTier),
		}
		if program.ProviderCode != "" && program.MemberNumber != "" {
			p.LoyaltyPrograms = append(p.LoyaltyPrograms, program)
		}
	}

	return p
}

// reservationFacts reads contact facts listed at reservation level, each
// with whatever association attributes it carries.
func (e *Extractor) reservationFacts(root map[string]any) []identity.Fact {
	facts := []identity.Fact{}
	for _, item := range e.reader.List(root, raw.ReservationEmails) {
		facts = append(facts, e.fact(models.ContactEmail, item))
	}
	for _, item := range e.reader.List(root, raw.ReservationPhones) {
		facts = append(facts, e.fact(models.ContactPhone, item))
	}
	for _, item := range e.reader.List(root, raw.ReservationAddress) {
		facts = append(facts, e.fact(models.ContactAddress, item))
	}
	return facts
}

// fact reads one contact fact node. Bare text leaves carry only a value.
func (e *Extractor) fact(kind models.ContactKind, item any) identity.Fact {
	node, ok := item.(map[string]any)
	if !ok {
		return identity.Fact{Kind: kind, Value: raw.Text(item)}
	}

	f := identity.Fact{
		Kind: kind,
		Attributes: identity.Attributes{
			NameRefNumber: e.reader.Text(node, raw.FactNameRefNumber),
			NameNumber:    e.reader.Text(node, raw.FactNameNumber),
			NameID:        e.reader.Text(node, raw.FactNameID),
			NameAssocID:   e.reader.Text(node, raw.FactNameAssocID),
		},
	}

	switch kind {
	case models.ContactEmail:
		f.Value = strings.TrimSpace(e.reader.Text(node, raw.EmailAddress))
		f.Type = e.reader.Text(node, raw.EmailType)
	case models.ContactPhone:
		f.Value = strings.TrimSpace(e.reader.Text(node, raw.PhoneNumber))
		f.Type = e.reader.Text(node, raw.PhoneType)
	case models.ContactAddress:
		f.Address = e.address(node)
		f.Type = f.Address.Type
		f.Value = f.Address.Line1
	}
	return f
}

func (e *Extractor) address(node map[string]any) *models.Address {
	lines := []string{}
	for _, line := range e.reader.List(node, raw.AddressLines) {
		if text := normalizers.CollapseWhitespace(raw.Text(line)); text != "" {
			lines = append(lines, text)
		}
	}

	addr := &models.Address{
		City:       e.reader.Text(node, raw.AddressCity),
		State:      e.reader.Text(node, raw.AddressState),
		PostalCode: e.reader.Text(node, raw.AddressPostalCode),
		Country:    normalizers.NormalizeCode(e.reader.Text(node, raw.AddressCountry)),
		Type:       e.reader.Text(node, raw.AddressType),
	}
	if len(lines) > 0 {
		addr.Line1 = lines[0]
	}
	if len(lines) > 1 {
		addr.Line2 = strings.Join(lines[1:], ", ")
	}
	return addr
}
