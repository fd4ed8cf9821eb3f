package models

import (
	"strings"
	"time"
)

// AssociationBasis says how a contact fact was attributed to a passenger.
type AssociationBasis string

const (
	AssociationDirect         AssociationBasis = "direct"
	AssociationExplicitMatch  AssociationBasis = "explicit-match"
	AssociationImplicitShared AssociationBasis = "implicit-shared"
)

// ContactKind is the family a contact fact belongs to.
type ContactKind string

const (
	ContactEmail   ContactKind = "email"
	ContactPhone   ContactKind = "phone"
	ContactAddress ContactKind = "address"
)

// ContactFact is an email, phone or address attributed to a passenger.
type ContactFact struct {
	Kind                      ContactKind      `json:"kind"`
	Value                     string           `json:"value"`
	Type                      string           `json:"type,omitempty"`
	AssociationBasis          AssociationBasis `json:"association_basis"`
	OwningPassengerIdentifier string           `json:"owning_passenger_identifier,omitempty"`
	Address                   *Address         `json:"address,omitempty"`
}

type Passport struct {
	Number         string `json:"number"`
	IssuingCountry string `json:"issuing_country,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	ExpirationDate string `json:"expiration_date,omitempty"`
	BirthDate      string `json:"birth_date,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Surname        string `json:"surname,omitempty"`
	GivenName      string `json:"given_name,omitempty"`
}

type Visa struct {
	Number            string `json:"number"`
	IssuingCountry    string `json:"issuing_country,omitempty"`
	ApplicableCountry string `json:"applicable_country,omitempty"`
	ExpirationDate    string `json:"expiration_date,omitempty"`
}

type Passenger struct {
	ID              string           `json:"id,omitempty"`
	NameID          string           `json:"name_id,omitempty"`
	NameAssocID     string           `json:"name_assoc_id,omitempty"`
	NameNumber      string           `json:"name_number,omitempty"`
	FirstName       string           `json:"first_name,omitempty"`
	LastName        string           `json:"last_name,omitempty"`
	PassengerType   string           `json:"passenger_type,omitempty"`
	ProfileID       string           `json:"profile_id,omitempty"`
	Emails          []ContactFact    `json:"emails"`
	Phones          []ContactFact    `json:"phones"`
	Addresses       []ContactFact    `json:"addresses"`
	Passport        *Passport        `json:"passport,omitempty"`
	Visas           []Visa           `json:"visas,omitempty"`
	LoyaltyPrograms []LoyaltyProgram `json:"loyalty_programs,omitempty"`
}

// PrimaryIdentifier is the first non-empty of name number, name assoc id,
// name id and id.
func (p Passenger) PrimaryIdentifier() string {
	for _, id := range []string{p.NameNumber, p.NameAssocID, p.NameID, p.ID} {
		if id != "" {
			return id
		}
	}
	return ""
}

func (p Passenger) FullName() string {
	switch {
	case p.LastName != "" && p.FirstName != "":
		return p.LastName + "/" + p.FirstName
	case p.LastName != "":
		return p.LastName
	}
	return p.FirstName
}

// Facts returns the slice holding facts of kind.
func (p *Passenger) Facts(kind ContactKind) *[]ContactFact {
	switch kind {
	case ContactPhone:
		return &p.Phones
	case ContactAddress:
		return &p.Addresses
	}
	return &p.Emails
}

// FactValues lists the values of one kind, in attribution order.
func (p Passenger) FactValues(kind ContactKind) []string {
	facts := *p.Facts(kind)
	out := make([]string, 0, len(facts))
	for _, f := range facts {
		out = append(out, f.Value)
	}
	return out
}

type BookingInfo struct {
	RecordLocator  string     `json:"record_locator"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
	CreationAgent  string     `json:"creation_agent,omitempty"`
	PseudoCityCode string     `json:"pseudo_city_code,omitempty"`
	Status         string     `json:"status"`
	Ticketed       bool       `json:"ticketed"`
	TicketNumbers  []string   `json:"ticket_numbers,omitempty"`
}

const (
	BookingStatusTicketed  = "ticketed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
	BookingStatusBooked    = "booked"
)

const (
	SegmentStatusConfirmed   = "confirmed"
	SegmentStatusUnconfirmed = "unconfirmed"
	SegmentStatusWaitlisted  = "waitlisted"
	SegmentStatusCancelled   = "cancelled"
	SegmentStatusUnknown     = "unknown"
)

type SeatAssignment struct {
	Number              string `json:"number"`
	StatusCode          string `json:"status_code,omitempty"`
	Status              string `json:"status,omitempty"`
	PassengerNameNumber string `json:"passenger_name_number,omitempty"`
}

type FlightSegment struct {
	Sequence           int              `json:"sequence"`
	MarketingCarrier   string           `json:"marketing_carrier,omitempty"`
	OperatingCarrier   string           `json:"operating_carrier,omitempty"`
	FlightNumber       string           `json:"flight_number,omitempty"`
	Origin             string           `json:"origin,omitempty"`
	Destination        string           `json:"destination,omitempty"`
	DepartureTime      *time.Time       `json:"departure_time,omitempty"`
	ArrivalTime        *time.Time       `json:"arrival_time,omitempty"`
	DurationMinutes    *int             `json:"duration_minutes,omitempty"`
	ClassOfService     string           `json:"class_of_service,omitempty"`
	Equipment          string           `json:"equipment,omitempty"`
	ConfirmationNumber string           `json:"confirmation_number,omitempty"`
	StatusCode         string           `json:"status_code,omitempty"`
	Status             string           `json:"status"`
	IsPast             bool             `json:"is_past"`
	Seats              []SeatAssignment `json:"seats"`
}

type HotelSegment struct {
	Sequence           int        `json:"sequence"`
	Name               string     `json:"name,omitempty"`
	ChainCode          string     `json:"chain_code,omitempty"`
	HotelCode          string     `json:"hotel_code,omitempty"`
	CityCode           string     `json:"city_code,omitempty"`
	CheckIn            *time.Time `json:"check_in,omitempty"`
	CheckOut           *time.Time `json:"check_out,omitempty"`
	Nights             *int       `json:"nights,omitempty"`
	ConfirmationNumber string     `json:"confirmation_number,omitempty"`
	RoomType           string     `json:"room_type,omitempty"`
	Rate               *float64   `json:"rate,omitempty"`
	Currency           string     `json:"currency,omitempty"`
	StatusCode         string     `json:"status_code,omitempty"`
	Status             string     `json:"status"`
	IsPast             bool       `json:"is_past"`
}

type CarSegment struct {
	Sequence           int        `json:"sequence"`
	Vendor             string     `json:"vendor,omitempty"`
	PickupLocation     string     `json:"pickup_location,omitempty"`
	ReturnLocation     string     `json:"return_location,omitempty"`
	PickupTime         *time.Time `json:"pickup_time,omitempty"`
	ReturnTime         *time.Time `json:"return_time,omitempty"`
	RentalDays         *int       `json:"rental_days,omitempty"`
	VehicleType        string     `json:"vehicle_type,omitempty"`
	ConfirmationNumber string     `json:"confirmation_number,omitempty"`
	Rate               *float64   `json:"rate,omitempty"`
	Currency           string     `json:"currency,omitempty"`
	StatusCode         string     `json:"status_code,omitempty"`
	Status             string     `json:"status"`
	IsPast             bool       `json:"is_past"`
}

type AccountingLine struct {
	FareApplication string   `json:"fare_application,omitempty"`
	BaseFare        *float64 `json:"base_fare,omitempty"`
	Tax             *float64 `json:"tax,omitempty"`
	Commission      *float64 `json:"commission,omitempty"`
	DocumentNumber  string   `json:"document_number,omitempty"`
	Airline         string   `json:"airline,omitempty"`
	FormOfPayment   string   `json:"form_of_payment,omitempty"`
	PassengerName   string   `json:"passenger_name,omitempty"`
}

type Remark struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

type TripSummary struct {
	Origin          string     `json:"origin,omitempty"`
	Destination     string     `json:"destination,omitempty"`
	IsRoundTrip     bool       `json:"is_round_trip"`
	IsMultiCity     bool       `json:"is_multi_city"`
	IsInternational bool       `json:"is_international"`
	TripName        string     `json:"trip_name,omitempty"`
	TripPurpose     string     `json:"trip_purpose,omitempty"`
	Approver        string     `json:"approver,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Cities          []string   `json:"cities,omitempty"`
	TotalSegments   int        `json:"total_segments"`
}

// Reservation is the canonical form of one provider reservation.
type Reservation struct {
	BookingInfo       BookingInfo      `json:"booking_info"`
	Passengers        []Passenger      `json:"passengers"`
	FlightSegments    []FlightSegment  `json:"flight_segments"`
	HotelSegments     []HotelSegment   `json:"hotel_segments"`
	CarSegments       []CarSegment     `json:"car_segments"`
	AccountingLines   []AccountingLine `json:"accounting_lines"`
	Remarks           []Remark         `json:"remarks"`
	TripSummary       TripSummary      `json:"trip_summary"`
	CompletenessScore float64          `json:"completeness_score"`
	Provenance        Provenance       `json:"provenance,omitempty"`
}

// PassengerByIdentifier finds a passenger by its primary identifier.
func (r Reservation) PassengerByIdentifier(id string) *Passenger {
	for i := range r.Passengers {
		if strings.EqualFold(r.Passengers[i].PrimaryIdentifier(), id) {
			return &r.Passengers[i]
		}
	}
	return nil
}
