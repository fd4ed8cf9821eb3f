package models

type PersonalInfo struct {
	Prefix     string `json:"prefix,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	BirthDate  string `json:"birth_date,omitempty"`
	Gender     string `json:"gender,omitempty"`
}

type Email struct {
	Address string `json:"address"`
	Type    string `json:"type,omitempty"`
	Primary bool   `json:"primary,omitempty"`
}

type Phone struct {
	Number string `json:"number"`
	Type   string `json:"type,omitempty"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Type       string `json:"type,omitempty"`
}

type ContactInfo struct {
	Emails    []Email   `json:"emails"`
	Phones    []Phone   `json:"phones"`
	Addresses []Address `json:"addresses"`
}

const (
	DocumentPassport = "PASSPORT"
	DocumentVisa     = "VISA"
	DocumentOther    = "OTHER"
)

type TravelDocument struct {
	Type              string `json:"type"`
	Number            string `json:"number"`
	IssuingCountry    string `json:"issuing_country,omitempty"`
	Nationality       string `json:"nationality,omitempty"`
	ApplicableCountry string `json:"applicable_country,omitempty"`
	IssueDate         string `json:"issue_date,omitempty"`
	ExpirationDate    string `json:"expiration_date,omitempty"`
}

type LoyaltyProgram struct {
	ProviderCode string `json:"provider_code"`
	MemberNumber string `json:"member_number"`
	Tier         string `json:"tier,omitempty"`
}

type PaymentMethod struct {
	CardType   string `json:"card_type"`
	LastFour   string `json:"last_four"`
	Expiration string `json:"expiration,omitempty"`
	HolderName string `json:"holder_name,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

type Preferences struct {
	Seat       string `json:"seat,omitempty"`
	Meal       string `json:"meal,omitempty"`
	HotelChain string `json:"hotel_chain,omitempty"`
	CarVendor  string `json:"car_vendor,omitempty"`
}

type Employment struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
	Company    string `json:"company,omitempty"`
	CostCenter string `json:"cost_center,omitempty"`
}

type ProfileMetadata struct {
	SourceSystem      string  `json:"source_system"`
	SourceID          string  `json:"source_id"`
	OrganizationID    string  `json:"organization_id,omitempty"`
	CompletenessScore float64 `json:"completeness_score"`
}

// Profile is the canonical form of one provider traveler profile.
type Profile struct {
	PersonalInfo      PersonalInfo       `json:"personal_info"`
	ContactInfo       ContactInfo        `json:"contact_info"`
	Documents         []TravelDocument   `json:"documents"`
	LoyaltyPrograms   []LoyaltyProgram   `json:"loyalty_programs"`
	PaymentMethods    []PaymentMethod    `json:"payment_methods"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts"`
	Preferences       Preferences        `json:"preferences"`
	Employment        Employment         `json:"employment"`
	Remarks           []Remark           `json:"remarks"`
	Metadata          ProfileMetadata    `json:"metadata"`
	Provenance        Provenance         `json:"provenance,omitempty"`
}

// PrimaryEmail returns the flagged primary email, else the first one.
func (p Profile) PrimaryEmail() string {
	for _, e := range p.ContactInfo.Emails {
		if e.Primary {
			return e.Address
		}
	}
	if len(p.ContactInfo.Emails) > 0 {
		return p.ContactInfo.Emails[0].Address
	}
	return ""
}
