package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/raw"
)

func profileNodes(t *testing.T, e *Extractor) ProfileNodes {
	t.Helper()
	profile := e.reader.Object(loadFixture(t, "profile.json"), raw.ProfileRoot)
	require.NotNil(t, profile)
	return e.ProfileNodes(profile)
}

func TestProfile_PersonalAndMetadata(t *testing.T) {
	e := getTestExtractor()
	n := profileNodes(t, e)

	assert.Equal(t, models.PersonalInfo{
		Prefix:     "MR",
		FirstName:  "John",
		MiddleName: "Q",
		LastName:   "Smith",
		BirthDate:  "1980-05-05",
		Gender:     "M",
	}, e.PersonalInfo(context.Background(), n))

	meta := e.ProfileMetadata(n)
	assert.Equal(t, "P-100", meta.SourceID)
	assert.Equal(t, "ORG-7", meta.OrganizationID)
}

func TestProfile_Contacts(t *testing.T) {
	e := getTestExtractor()
	n := profileNodes(t, e)
	ctx := context.Background()

	assert.Equal(t, []models.Email{
		{Address: "John.Smith@Example.com", Type: "BUS", Primary: true},
		{Address: "home@example.com"},
	}, e.ProfileEmails(ctx, n))

	assert.Equal(t, []models.Phone{
		{Number: "+1 (555) 010-0100", Type: "H"},
		{Number: "1 555 0199", Type: "M"},
	}, e.ProfilePhones(ctx, n))

	assert.Equal(t, []models.Address{{
		Line1:      "1 Main St",
		Line2:      "Suite 5",
		City:       "Austin",
		State:      "TX",
		PostalCode: "78701",
		Country:    "US",
		Type:       "home",
	}}, e.ProfileAddresses(ctx, n))
}

func TestProfile_DocumentsLoyaltyPayments(t *testing.T) {
	e := getTestExtractor()
	n := profileNodes(t, e)
	ctx := context.Background()

	assert.Equal(t, []models.TravelDocument{
		{Type: models.DocumentPassport, Number: "X1234567", IssuingCountry: "US", Nationality: "US", ExpirationDate: "2030-01-15"},
		{Type: models.DocumentVisa, Number: "987654", ApplicableCountry: "GB"},
	}, e.ProfileDocuments(ctx, n))

	assert.Equal(t, []models.LoyaltyProgram{
		{ProviderCode: "AA", MemberNumber: "AA123", Tier: "GOLD"},
	}, e.ProfileLoyalty(ctx, n))

	assert.Equal(t, []models.PaymentMethod{
		{CardType: "VI", LastFour: "1111", Expiration: "1228", HolderName: "JOHN SMITH"},
	}, e.ProfilePaymentMethods(ctx, n))

	assert.Equal(t, []models.EmergencyContact{
		{Name: "Mary Smith", Phone: "555-0142", Relationship: "Spouse"},
	}, e.ProfileEmergencyContacts(ctx, n))
}

func TestProfile_PreferencesEmploymentRemarks(t *testing.T) {
	e := getTestExtractor()
	n := profileNodes(t, e)
	ctx := context.Background()

	assert.Equal(t, models.Preferences{Seat: "Aisle", Meal: "VGML", HotelChain: "HY", CarVendor: "ZE"}, e.ProfilePreferences(ctx, n))
	assert.Equal(t, models.Employment{EmployeeID: "E-42", Title: "Engineer", Department: "R&D", Company: "Acme", CostCenter: "CC-1"}, e.ProfileEmployment(ctx, n))
	assert.Equal(t, []models.Remark{{Text: "VIP traveler"}, {Text: "Prefers early flights"}}, e.ProfileRemarks(ctx, n))
}

func TestProfile_FlatProfileWithoutCustomerNode(t *testing.T) {
	e := getTestExtractor()
	n := e.ProfileNodes(map[string]any{
		"profile_id": "flat-1",
		"first_name": "Ana",
		"last_name":  "Lee",
		"emails":     "ana@x.com",
		"phones":     []any{"555 0101"},
	})
	ctx := context.Background()

	assert.Equal(t, "flat-1", e.ProfileMetadata(n).SourceID)
	assert.Equal(t, "Ana", e.PersonalInfo(ctx, n).FirstName)
	assert.Equal(t, []models.Email{{Address: "ana@x.com"}}, e.ProfileEmails(ctx, n))
	assert.Equal(t, []models.Phone{{Number: "555 0101"}}, e.ProfilePhones(ctx, n))
	assert.Empty(t, e.ProfileDocuments(ctx, n))
}
