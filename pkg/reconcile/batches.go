package reconcile

import (
	"github.com/Ramsey-B/fern/pkg/extractors"
	"github.com/Ramsey-B/fern/pkg/models"
)

// ProfileBatches splits a canonical profile into one entity list per family.
// Every family is present, so a family the source no longer reports is
// cleared for the scope.
func ProfileBatches(p *models.Profile) (map[string][]Entity, error) {
	batches := map[string][]Entity{}
	var err error
	if batches[FamilyEmail], err = Entities(p.ContactInfo.Emails); err != nil {
		return nil, err
	}
	if batches[FamilyPhone], err = Entities(p.ContactInfo.Phones); err != nil {
		return nil, err
	}
	if batches[FamilyAddress], err = Entities(p.ContactInfo.Addresses); err != nil {
		return nil, err
	}
	if batches[FamilyDocument], err = Entities(p.Documents); err != nil {
		return nil, err
	}
	if batches[FamilyLoyalty], err = Entities(p.LoyaltyPrograms); err != nil {
		return nil, err
	}
	if batches[FamilyPayment], err = Entities(p.PaymentMethods); err != nil {
		return nil, err
	}
	if batches[FamilyEmergencyContact], err = Entities(p.EmergencyContacts); err != nil {
		return nil, err
	}
	return batches, nil
}

// PassengerBatches splits the facts a reservation carries for one passenger
// into the families a reservation can report.
func PassengerBatches(p models.Passenger) (map[string][]Entity, error) {
	emails := make([]models.Email, 0, len(p.Emails))
	for _, f := range p.Emails {
		emails = append(emails, models.Email{Address: f.Value, Type: f.Type})
	}
	phones := make([]models.Phone, 0, len(p.Phones))
	for _, f := range p.Phones {
		phones = append(phones, models.Phone{Number: f.Value, Type: f.Type})
	}
	addresses := make([]models.Address, 0, len(p.Addresses))
	for _, f := range p.Addresses {
		addr := models.Address{Line1: f.Value}
		if f.Address != nil {
			addr = *f.Address
		}
		if addr.Type == "" {
			addr.Type = f.Type
		}
		addresses = append(addresses, addr)
	}

	batches := map[string][]Entity{}
	var err error
	if batches[FamilyEmail], err = Entities(emails); err != nil {
		return nil, err
	}
	if batches[FamilyPhone], err = Entities(phones); err != nil {
		return nil, err
	}
	if batches[FamilyAddress], err = Entities(addresses); err != nil {
		return nil, err
	}
	if batches[FamilyDocument], err = Entities(extractors.PassengerDocuments(p)); err != nil {
		return nil, err
	}
	if batches[FamilyLoyalty], err = Entities(p.LoyaltyPrograms); err != nil {
		return nil, err
	}
	return batches, nil
}
