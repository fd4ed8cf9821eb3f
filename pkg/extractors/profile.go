package extractors

import (
	"context"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/raw"
)

// ProfileNodes are the two nodes profile fields are read from. Most
// providers nest traveler data under a customer node; some flatten it onto
// the profile itself.
type ProfileNodes struct {
	Profile  map[string]any
	Customer map[string]any
}

func (e *Extractor) ProfileNodes(profile map[string]any) ProfileNodes {
	customer := e.reader.Object(profile, raw.ProfileCustomer)
	if customer == nil {
		customer = profile
	}
	return ProfileNodes{Profile: profile, Customer: customer}
}

func (n ProfileNodes) order() []map[string]any {
	return []map[string]any{n.Customer, n.Profile}
}

func (e *Extractor) PersonalInfo(ctx context.Context, n ProfileNodes) models.PersonalInfo {
	items := collect(ctx, e, FamilyPersonalInfo, func(add func(models.PersonalInfo)) error {
		add(models.PersonalInfo{
			Prefix:     e.firstText(raw.ProfilePrefix, n.order()...),
			FirstName:  normalizers.CollapseWhitespace(e.firstText(raw.ProfileFirstName, n.order()...)),
			MiddleName: normalizers.CollapseWhitespace(e.firstText(raw.ProfileMiddleName, n.order()...)),
			LastName:   normalizers.CollapseWhitespace(e.firstText(raw.ProfileLastName, n.order()...)),
			BirthDate:  NormalizeDate(e.firstText(raw.ProfileBirthDate, n.order()...)),
			Gender:     e.firstText(raw.ProfileGender, n.order()...),
		})
		return nil
	})
	if len(items) == 0 {
		return models.PersonalInfo{}
	}
	return items[0]
}

func (e *Extractor) ProfileEmails(ctx context.Context, n ProfileNodes) []models.Email {
	return collect(ctx, e, FamilyEmails, func(add func(models.Email)) error {
		seen := map[string]bool{}
		for _, item := range e.firstList(raw.ProfileEmails, n.order()...) {
			email := models.Email{}
			if node, ok := item.(map[string]any); ok {
				email.Address = e.reader.Text(node, raw.ProfileEmailValue)
				email.Type = e.reader.Text(node, raw.ProfileEmailType)
				email.Primary = e.reader.Bool(node, raw.ProfileEmailDefault)
			} else {
				email.Address = raw.Text(item)
			}
			email.Address = strings.TrimSpace(email.Address)
			key := normalizers.NormalizeEmail(email.Address)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			add(email)
		}
		return nil
	})
}

func (e *Extractor) ProfilePhones(ctx context.Context, n ProfileNodes) []models.Phone {
	return collect(ctx, e, FamilyPhones, func(add func(models.Phone)) error {
		seen := map[string]bool{}
		for _, item := range e.firstList(raw.ProfilePhones, n.order()...) {
			phone := models.Phone{}
			if node, ok := item.(map[string]any); ok {
				phone.Number = e.reader.Text(node, raw.ProfilePhoneFull)
				if phone.Number == "" {
					phone.Number = strings.Join(nonEmpty(
						e.reader.Text(node, raw.ProfilePhoneCountry),
						e.reader.Text(node, raw.ProfilePhoneArea),
						e.reader.Text(node, raw.ProfilePhoneLocal),
					), " ")
				}
				phone.Type = e.reader.Text(node, raw.ProfilePhoneUse)
			} else {
				phone.Number = raw.Text(item)
			}
			phone.Number = strings.TrimSpace(phone.Number)
			key := normalizers.NormalizePhone(phone.Number)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			add(phone)
		}
		return nil
	})
}

func (e *Extractor) ProfileAddresses(ctx context.Context, n ProfileNodes) []models.Address {
	return collect(ctx, e, FamilyAddresses, func(add func(models.Address)) error {
		for _, node := range e.firstObjects(raw.ProfileAddresses, n.order()...) {
			if addr := e.address(node); addr.Line1 != "" {
				add(*addr)
			}
		}
		return nil
	})
}

func (e *Extractor) ProfileDocuments(ctx context.Context, n ProfileNodes) []models.TravelDocument {
	return collect(ctx, e, FamilyDocuments, func(add func(models.TravelDocument)) error {
		for _, node := range e.firstObjects(raw.ProfileDocuments, n.order()...) {
			doc := models.TravelDocument{
				Type:              documentType(e.reader.Text(node, raw.ProfileDocType)),
				Number:            normalizers.Alphanumeric(e.reader.Text(node, raw.ProfileDocNumber)),
				IssuingCountry:    normalizers.NormalizeCode(e.reader.Text(node, raw.ProfileDocIssuer)),
				Nationality:       normalizers.NormalizeCode(e.reader.Text(node, raw.ProfileDocNation)),
				ApplicableCountry: normalizers.NormalizeCode(e.reader.Text(node, raw.ProfileDocApplicable)),
				IssueDate:         NormalizeDate(e.reader.Text(node, raw.ProfileDocEffective)),
				ExpirationDate:    NormalizeDate(e.reader.Text(node, raw.ProfileDocExpiry)),
			}
			if doc.Number == "" {
				continue
			}
			if doc.Type == "" {
				doc.Type = models.DocumentOther
			}
			add(doc)
		}
		return nil
	})
}

func (e *Extractor) ProfileLoyalty(ctx context.Context, n ProfileNodes) []models.LoyaltyProgram {
	return collect(ctx, e, FamilyLoyalty, func(add func(models.LoyaltyProgram)) error {
		for _, node := range e.firstObjects(raw.ProfileLoyalty, n.order()...) {
			program := models.LoyaltyProgram{
				ProviderCode: normalizers.NormalizeCode(e.reader.Text(node, raw.ProfileLoyaltyVendor)),
				MemberNumber: normalizers.RemoveWhitespace(e.reader.Text(node, raw.ProfileLoyaltyNumber)),
				Tier:         e.reader.Text(node, raw.ProfileLoyaltyLevel),
			}
			if program.ProviderCode == "" || program.MemberNumber == "" {
				continue
			}
			add(program)
		}
		return nil
	})
}

// ProfilePaymentMethods keeps only the last four digits of a card number.
func (e *Extractor) ProfilePaymentMethods(ctx context.Context, n ProfileNodes) []models.PaymentMethod {
	return collect(ctx, e, FamilyPaymentMethods, func(add func(models.PaymentMethod)) error {
		for _, node := range e.firstObjects(raw.ProfilePaymentCards, n.order()...) {
			card := models.PaymentMethod{
				CardType:   normalizers.NormalizeCode(e.reader.Text(node, raw.ProfileCardType)),
				LastFour:   normalizers.LastFour(e.reader.Text(node, raw.ProfileCardNumber)),
				Expiration: e.reader.Text(node, raw.ProfileCardExpiry),
				HolderName: normalizers.CollapseWhitespace(e.reader.Text(node, raw.ProfileCardHolder)),
			}
			if card.LastFour == "" {
				continue
			}
			add(card)
		}
		return nil
	})
}

func (e *Extractor) ProfileEmergencyContacts(ctx context.Context, n ProfileNodes) []models.EmergencyContact {
	return collect(ctx, e, FamilyEmergencyContacts, func(add func(models.EmergencyContact)) error {
		for _, node := range e.firstObjects(raw.ProfileEmergency, n.order()...) {
			name := e.reader.Text(node, raw.ContactFullName)
			if name == "" {
				name = strings.Join(nonEmpty(
					e.reader.Text(node, raw.ContactGivenName),
					e.reader.Text(node, raw.ContactSurname),
				), " ")
			}
			contact := models.EmergencyContact{
				Name:         normalizers.CollapseWhitespace(name),
				Phone:        strings.TrimSpace(e.reader.Text(node, raw.ContactPhone)),
				Relationship: e.reader.Text(node, raw.ContactRelation),
			}
			if contact.Name == "" {
				continue
			}
			add(contact)
		}
		return nil
	})
}

func (e *Extractor) ProfilePreferences(ctx context.Context, n ProfileNodes) models.Preferences {
	items := collect(ctx, e, FamilyPreferences, func(add func(models.Preferences)) error {
		node := e.firstObject(raw.ProfilePreferences, n.order()...)
		add(models.Preferences{
			Seat:       e.reader.Text(node, raw.PreferenceSeat),
			Meal:       e.reader.Text(node, raw.PreferenceMeal),
			HotelChain: normalizers.NormalizeCode(e.reader.Text(node, raw.PreferenceHotelChain)),
			CarVendor:  normalizers.NormalizeCode(e.reader.Text(node, raw.PreferenceCarVendor)),
		})
		return nil
	})
	if len(items) == 0 {
		return models.Preferences{}
	}
	return items[0]
}

func (e *Extractor) ProfileEmployment(ctx context.Context, n ProfileNodes) models.Employment {
	items := collect(ctx, e, FamilyEmployment, func(add func(models.Employment)) error {
		node := e.firstObject(raw.ProfileEmployment, n.order()...)
		add(models.Employment{
			EmployeeID: e.reader.Text(node, raw.EmployeeID),
			Title:      e.reader.Text(node, raw.EmployeeTitle),
			Department: e.reader.Text(node, raw.EmployeeDepartment),
			Company:    e.reader.Text(node, raw.EmployeeCompany),
			CostCenter: e.reader.Text(node, raw.EmployeeCostCenter),
		})
		return nil
	})
	if len(items) == 0 {
		return models.Employment{}
	}
	return items[0]
}

func (e *Extractor) ProfileRemarks(ctx context.Context, n ProfileNodes) []models.Remark {
	return collect(ctx, e, FamilyRemarks, func(add func(models.Remark)) error {
		for _, item := range e.firstList(raw.ProfileRemarks, n.Profile, n.Customer) {
			if remark, ok := e.remark(item); ok {
				add(remark)
			}
		}
		return nil
	})
}

// ProfileMetadata reads the provider id and organization of the profile.
func (e *Extractor) ProfileMetadata(n ProfileNodes) models.ProfileMetadata {
	return models.ProfileMetadata{
		SourceID:       e.firstText(raw.ProfileUniqueID, n.Profile, n.Customer),
		OrganizationID: e.firstText(raw.ProfileOrganization, n.Profile, n.Customer),
	}
}

func (e *Extractor) firstList(field raw.Field, nodes ...map[string]any) []any {
	for _, node := range nodes {
		if v := e.reader.List(node, field); len(v) > 0 {
			return v
		}
	}
	return nil
}

func (e *Extractor) firstObject(field raw.Field, nodes ...map[string]any) map[string]any {
	for _, node := range nodes {
		if v := e.reader.Object(node, field); v != nil {
			return v
		}
	}
	return nil
}

func nonEmpty(values ...string) []string {
	out := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
