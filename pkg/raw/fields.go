package raw

import "strings"

// Field is a logical field name. Its raw key variants live in Fields.
type Field string

// Namespace is the prefix the provider puts on element names in its
// namespaced serialization.
const Namespace = "stl19:"

// Reservation roots and booking details.
const (
	ReservationRoot     Field = "reservation.root"
	BookingDetails      Field = "reservation.booking_details"
	RecordLocator       Field = "booking.record_locator"
	CreationTime        Field = "booking.creation_time"
	UpdateTime          Field = "booking.update_time"
	CreationAgent       Field = "booking.creation_agent"
	PseudoCityCode      Field = "booking.pseudo_city_code"
	TicketingInfo       Field = "reservation.ticketing_info"
	TicketDetails       Field = "ticketing.ticket_details"
	TicketNumber        Field = "ticketing.ticket_number"
	AlreadyTicketed     Field = "ticketing.already_ticketed"
	ReservationEmails   Field = "reservation.emails"
	ReservationPhones   Field = "reservation.phones"
	ReservationAddress  Field = "reservation.addresses"
	ReservationSegments Field = "reservation.segments"
	AccountingLines     Field = "reservation.accounting_lines"
	ReservationRemarks  Field = "reservation.remarks"
	Passengers          Field = "reservation.passengers"
)

// Passenger identity and nested facts.
const (
	PassengerID          Field = "passenger.id"
	PassengerNameID      Field = "passenger.name_id"
	PassengerNameAssocID Field = "passenger.name_assoc_id"
	PassengerNameNumber  Field = "passenger.name_number"
	PassengerType        Field = "passenger.type"
	PassengerFirstName   Field = "passenger.first_name"
	PassengerLastName    Field = "passenger.last_name"
	PassengerProfileID   Field = "passenger.profile_id"
	PassengerEmails      Field = "passenger.emails"
	PassengerPhones      Field = "passenger.phones"
	PassengerAddresses   Field = "passenger.addresses"
	PassengerAPIS        Field = "passenger.apis_requests"
	PassengerLoyalty     Field = "passenger.loyalty"
)

// Association attributes carried by reservation level contact facts.
const (
	FactNameRefNumber Field = "fact.name_ref_number"
	FactNameNumber    Field = "fact.name_number"
	FactNameID        Field = "fact.name_id"
	FactNameAssocID   Field = "fact.name_assoc_id"
	EmailAddress      Field = "email.address"
	EmailType         Field = "email.type"
	PhoneNumber       Field = "phone.number"
	PhoneType         Field = "phone.type"
	AddressLines      Field = "address.lines"
	AddressCity       Field = "address.city"
	AddressState      Field = "address.state"
	AddressPostalCode Field = "address.postal_code"
	AddressCountry    Field = "address.country"
	AddressType       Field = "address.type"
)

// Travel documents.
const (
	DOCSEntry           Field = "apis.docs"
	DOCOEntry           Field = "apis.doco"
	DocumentType        Field = "document.type"
	DocumentNumber      Field = "document.number"
	DocumentIssuer      Field = "document.issuing_country"
	DocumentNationality Field = "document.nationality"
	DocumentExpiry      Field = "document.expiration"
	DocumentBirthDate   Field = "document.birth_date"
	DocumentGender      Field = "document.gender"
	DocumentSurname     Field = "document.surname"
	DocumentForename    Field = "document.forename"
	DocumentFreeText    Field = "document.free_text"
	LoyaltyProgram      Field = "loyalty.program"
	LoyaltyNumber       Field = "loyalty.number"
	LoyaltyTier         Field = "loyalty.tier"
)

// Segments.
const (
	SegmentAir     Field = "segment.air"
	SegmentHotel   Field = "segment.hotel"
	SegmentVehicle Field = "segment.vehicle"
	SegmentIsPast  Field = "segment.is_past"
	SegmentSeq     Field = "segment.sequence"
	SegmentStatus  Field = "segment.status"

	FlightOrigin       Field = "flight.origin"
	FlightDestination  Field = "flight.destination"
	FlightDeparture    Field = "flight.departure_time"
	FlightArrival      Field = "flight.arrival_time"
	FlightCarrier      Field = "flight.marketing_carrier"
	FlightOperating    Field = "flight.operating_carrier"
	FlightNumber       Field = "flight.number"
	FlightClass        Field = "flight.class_of_service"
	FlightEquipment    Field = "flight.equipment"
	FlightConfirmation Field = "flight.confirmation"
	FlightSeats        Field = "flight.seats"
	SeatNumber         Field = "seat.number"
	SeatStatus         Field = "seat.status"
	SeatNameNumber     Field = "seat.name_number"
	HotelName          Field = "hotel.name"
	HotelChain         Field = "hotel.chain"
	HotelCode          Field = "hotel.code"
	HotelCity          Field = "hotel.city"
	HotelCheckIn       Field = "hotel.check_in"
	HotelCheckOut      Field = "hotel.check_out"
	HotelConfirmation  Field = "hotel.confirmation"
	HotelRoomType      Field = "hotel.room_type"
	HotelRate          Field = "hotel.rate"
	HotelCurrency      Field = "hotel.currency"
	CarVendor          Field = "car.vendor"
	CarPickupLocation  Field = "car.pickup_location"
	CarReturnLocation  Field = "car.return_location"
	CarPickupTime      Field = "car.pickup_time"
	CarReturnTime      Field = "car.return_time"
	CarVehicleType     Field = "car.vehicle_type"
	CarConfirmation    Field = "car.confirmation"
	CarRate            Field = "car.rate"
	CarCurrency        Field = "car.currency"
)

// Accounting and remarks.
const (
	AccountingFareApplication Field = "accounting.fare_application"
	AccountingBaseFare        Field = "accounting.base_fare"
	AccountingTax             Field = "accounting.tax"
	AccountingCommission      Field = "accounting.commission"
	AccountingDocumentNumber  Field = "accounting.document_number"
	AccountingAirline         Field = "accounting.airline"
	AccountingFormOfPayment   Field = "accounting.form_of_payment"
	AccountingPassengerName   Field = "accounting.passenger_name"
	RemarkType                Field = "remark.type"
	RemarkLines               Field = "remark.lines"
	RemarkLineText            Field = "remark.line_text"
	RemarkText                Field = "remark.text"
)

// Profiles.
const (
	ProfileRoot          Field = "profile.root"
	ProfileUniqueID      Field = "profile.unique_id"
	ProfileOrganization  Field = "profile.organization_id"
	ProfileCustomer      Field = "profile.customer"
	ProfileFirstName     Field = "profile.first_name"
	ProfileMiddleName    Field = "profile.middle_name"
	ProfileLastName      Field = "profile.last_name"
	ProfilePrefix        Field = "profile.prefix"
	ProfileBirthDate     Field = "profile.birth_date"
	ProfileGender        Field = "profile.gender"
	ProfileEmails        Field = "profile.emails"
	ProfilePhones        Field = "profile.phones"
	ProfileAddresses     Field = "profile.addresses"
	ProfileDocuments     Field = "profile.documents"
	ProfileLoyalty       Field = "profile.loyalty"
	ProfilePaymentCards  Field = "profile.payment_cards"
	ProfileEmergency     Field = "profile.emergency_contacts"
	ProfileEmployment    Field = "profile.employment"
	ProfilePreferences   Field = "profile.preferences"
	ProfileRemarks       Field = "profile.remarks"
	ProfileEmailValue    Field = "profile.email.value"
	ProfileEmailType     Field = "profile.email.type"
	ProfileEmailDefault  Field = "profile.email.default"
	ProfilePhoneFull     Field = "profile.phone.full"
	ProfilePhoneCountry  Field = "profile.phone.country"
	ProfilePhoneArea     Field = "profile.phone.area"
	ProfilePhoneLocal    Field = "profile.phone.local"
	ProfilePhoneUse      Field = "profile.phone.use"
	ProfileDocType       Field = "profile.document.type"
	ProfileDocNumber     Field = "profile.document.number"
	ProfileDocIssuer     Field = "profile.document.issuer"
	ProfileDocExpiry     Field = "profile.document.expiry"
	ProfileDocEffective  Field = "profile.document.effective"
	ProfileDocNation     Field = "profile.document.nationality"
	ProfileDocApplicable Field = "profile.document.applicable_country"
	ProfileLoyaltyVendor Field = "profile.loyalty.vendor"
	ProfileLoyaltyNumber Field = "profile.loyalty.number"
	ProfileLoyaltyLevel  Field = "profile.loyalty.level"
	ProfileCardType      Field = "profile.card.type"
	ProfileCardNumber    Field = "profile.card.number"
	ProfileCardExpiry    Field = "profile.card.expiry"
	ProfileCardHolder    Field = "profile.card.holder"
	ContactGivenName     Field = "contact.given_name"
	ContactSurname       Field = "contact.surname"
	ContactFullName      Field = "contact.full_name"
	ContactPhone         Field = "contact.phone"
	ContactRelation      Field = "contact.relation"
	EmployeeID           Field = "employment.employee_id"
	EmployeeTitle        Field = "employment.title"
	EmployeeDepartment   Field = "employment.department"
	EmployeeCompany      Field = "employment.company"
	EmployeeCostCenter   Field = "employment.cost_center"
	PreferenceSeat       Field = "preference.seat"
	PreferenceMeal       Field = "preference.meal"
	PreferenceHotelChain Field = "preference.hotel_chain"
	PreferenceCarVendor  Field = "preference.car_vendor"
)

// Fields maps every logical field to its ordered raw key variants. The
// namespaced form comes first, then the plain form, then legacy spellings.
var Fields = map[Field][]string{
	ReservationRoot:     variants("GetReservationRS.Reservation", "Reservation", "reservation"),
	BookingDetails:      variants("BookingDetails", "bookingDetails", "booking_details"),
	RecordLocator:       variants("RecordLocator", "recordLocator", "record_locator", "@RecordLocator"),
	CreationTime:        variants("SystemCreationTimestamp", "CreationTimestamp", "creationTimestamp", "created_at"),
	UpdateTime:          variants("UpdateTimestamp", "updateTimestamp", "updated_at"),
	CreationAgent:       variants("CreationAgentID", "creationAgentId", "creation_agent"),
	PseudoCityCode:      variants("CreationAgentPCC", "PseudoCityCode", "pseudoCityCode", "pcc"),
	TicketingInfo:       variants("PassengerReservation.TicketingInfo", "TicketingInfo", "ticketingInfo", "ticketing_info"),
	TicketDetails:       variants("TicketDetails", "ticketDetails", "ticket_details"),
	TicketNumber:        variants("TicketNumber", "ticketNumber", "ticket_number"),
	AlreadyTicketed:     variants("AlreadyTicketed", "alreadyTicketed", "already_ticketed", "@Ticketed"),
	ReservationEmails:   variants("EmailAddresses.EmailAddress", "emailAddresses", "email_addresses"),
	ReservationPhones:   variants("PhoneNumbers.PhoneNumber", "phoneNumbers", "phone_numbers"),
	ReservationAddress:  variants("Addresses.Address", "addresses"),
	ReservationSegments: variants("PassengerReservation.Segments.Segment", "Segments.Segment", "segments"),
	AccountingLines:     variants("AccountingLines.AccountingLine", "accountingLines", "accounting_lines"),
	ReservationRemarks:  variants("Remarks.Remark", "remarks"),
	Passengers:          variants("PassengerReservation.Passengers.Passenger", "Passengers.Passenger", "passengers"),

	PassengerID:          plain("@id", "id", "Id"),
	PassengerNameID:      plain("@nameId", "nameId", "NameId", "name_id"),
	PassengerNameAssocID: plain("@nameAssocId", "nameAssocId", "NameAssocId", "name_assoc_id"),
	PassengerNameNumber:  plain("@nameNumber", "nameNumber", "NameNumber", "name_number"),
	PassengerType:        plain("@passengerType", "passengerType", "PassengerType", "passenger_type"),
	PassengerFirstName:   variants("FirstName", "firstName", "first_name", "GivenName"),
	PassengerLastName:    variants("LastName", "lastName", "last_name", "Surname"),
	PassengerProfileID:   variants("Profiles.ProfileID", "ProfileID", "profileId", "profile_id"),
	PassengerEmails:      variants("EmailAddress", "emailAddresses", "emails"),
	PassengerPhones:      variants("PhoneNumbers.PhoneNumber", "phoneNumbers", "phones"),
	PassengerAddresses:   variants("Addresses.Address", "addresses"),
	PassengerAPIS:        variants("SpecialRequests.APISRequest", "specialRequests.apisRequests", "apis_requests"),
	PassengerLoyalty:     variants("FrequentFlyer", "frequentFlyer", "loyalty"),

	FactNameRefNumber: plain("@nameRefNumber", "nameRefNumber", "NameRefNumber", "name_ref_number"),
	FactNameNumber:    plain("@nameNumber", "nameNumber", "NameNumber", "name_number"),
	FactNameID:        plain("@nameId", "nameId", "NameId", "name_id"),
	FactNameAssocID:   plain("@nameAssocId", "nameAssocId", "NameAssocId", "name_assoc_id"),
	EmailAddress:      variants("Address", "address", "email", "value", TextKey),
	EmailType:         plain("@type", "type", "Type", Namespace+"Type"),
	PhoneNumber:       variants("Number", "number", "phone", "value", TextKey),
	PhoneType:         plain("@type", "type", "Type", Namespace+"Label", "Label"),
	AddressLines:      variants("AddressLine", "addressLines", "address_lines", "line1", "street"),
	AddressCity:       variants("CityName", "City", "city"),
	AddressState:      variants("StateProvince", "StateCode", "state"),
	AddressPostalCode: variants("PostalCode", "postalCode", "postal_code", "zip"),
	AddressCountry:    variants("CountryCode", "countryCode", "country_code", "country"),
	AddressType:       plain("@type", "type", "Type"),

	DOCSEntry:           variants("DOCSEntry", "docsEntry", "docs"),
	DOCOEntry:           variants("DOCOEntry", "docoEntry", "doco"),
	DocumentType:        variants("DocumentType", "documentType", "document_type"),
	DocumentNumber:      variants("DocumentNumber", "documentNumber", "document_number"),
	DocumentIssuer:      variants("CountryOfIssue", "countryOfIssue", "issuing_country"),
	DocumentNationality: variants("DocumentNationalityCountry", "nationality"),
	DocumentExpiry:      variants("DocumentExpirationDate", "expirationDate", "expiration_date"),
	DocumentBirthDate:   variants("DateOfBirth", "dateOfBirth", "date_of_birth"),
	DocumentGender:      variants("Gender", "gender"),
	DocumentSurname:     variants("Surname", "surname", "last_name"),
	DocumentForename:    variants("Forename", "forename", "first_name"),
	DocumentFreeText:    variants("FreeText", "freeText", "free_text", "Text", TextKey),
	LoyaltyProgram:      variants("SupplierCode", "Vendor", "ProgramCode", "programCode", "program_code"),
	LoyaltyNumber:       variants("Number", "MembershipNumber", "number", "membership_number"),
	LoyaltyTier:         variants("TierLevel", "tierLevel", "tier"),

	SegmentAir:     variants("Air", "air", "flight"),
	SegmentHotel:   variants("Hotel", "hotel"),
	SegmentVehicle: variants("Vehicle", "vehicle", "Car", "car"),
	SegmentIsPast:  plain("@isPast", "isPast", "IsPast", "is_past", Namespace+"IsPast"),
	SegmentSeq:     plain("@sequence", "sequence", "Sequence", "@segmentAssociationId"),
	SegmentStatus:  variants("ActionCode", "actionCode", "action_code", "StatusCode", "status"),

	FlightOrigin:       variants("DepartureAirport", "departureAirport", "departure_airport", "origin"),
	FlightDestination:  variants("ArrivalAirport", "arrivalAirport", "arrival_airport", "destination"),
	FlightDeparture:    variants("DepartureDateTime", "departureDateTime", "departure_date_time", "departure_time"),
	FlightArrival:      variants("ArrivalDateTime", "arrivalDateTime", "arrival_date_time", "arrival_time"),
	FlightCarrier:      variants("MarketingAirlineCode", "MarketingAirline", "marketingAirline", "marketing_airline"),
	FlightOperating:    variants("OperatingAirlineCode", "OperatingAirline", "operatingAirline", "operating_airline"),
	FlightNumber:       variants("MarketingFlightNumber", "FlightNumber", "flightNumber", "flight_number"),
	FlightClass:        variants("ClassOfService", "classOfService", "class_of_service"),
	FlightEquipment:    variants("EquipmentType", "equipmentType", "equipment"),
	FlightConfirmation: variants("AirlineRefId", "airlineRefId", "confirmation_number"),
	FlightSeats:        variants("Seats.Seat", "seats"),
	SeatNumber:         variants("Number", "SeatNumber", "number", "seat_number", "@number"),
	SeatStatus:         variants("SeatStatusCode", "StatusCode", "status", "@status"),
	SeatNameNumber:     plain("@nameNumber", "nameNumber", "NameNumber", "name_number"),

	HotelName:         variants("HotelName", "hotelName", "hotel_name", "name"),
	HotelChain:        variants("ChainCode", "chainCode", "chain_code"),
	HotelCode:         variants("HotelCode", "hotelCode", "hotel_code"),
	HotelCity:         variants("HotelCityCode", "CityCode", "cityCode", "city"),
	HotelCheckIn:      variants("CheckInDate", "checkInDate", "check_in", "StartDate"),
	HotelCheckOut:     variants("CheckOutDate", "checkOutDate", "check_out", "EndDate"),
	HotelConfirmation: variants("ConfirmationNumber", "confirmationNumber", "confirmation_number"),
	HotelRoomType:     variants("RoomType", "roomType", "room_type"),
	HotelRate:         variants("RoomRate.Amount", "Rate", "rate"),
	HotelCurrency:     variants("RoomRate.CurrencyCode", "CurrencyCode", "currency"),

	CarVendor:         variants("VendorCode", "vendorCode", "vendor_code", "vendor"),
	CarPickupLocation: variants("PickUpLocation", "pickUpLocation", "pickup_location"),
	CarReturnLocation: variants("ReturnLocation", "returnLocation", "return_location"),
	CarPickupTime:     variants("PickUpDateTime", "pickUpDateTime", "pickup_time"),
	CarReturnTime:     variants("ReturnDateTime", "returnDateTime", "return_time"),
	CarVehicleType:    variants("VehicleType", "vehicleType", "vehicle_type"),
	CarConfirmation:   variants("ConfirmationNumber", "confirmationNumber", "confirmation_number"),
	CarRate:           variants("ApproximateTotalCharge.Amount", "Rate", "rate"),
	CarCurrency:       variants("ApproximateTotalCharge.CurrencyCode", "CurrencyCode", "currency"),

	AccountingFareApplication: variants("FareApplication", "fareApplication", "fare_application"),
	AccountingBaseFare:        variants("BaseFare", "baseFare", "base_fare"),
	AccountingTax:             variants("TaxAmount", "taxAmount", "tax_amount"),
	AccountingCommission:      variants("CommissionAmount", "commissionAmount", "commission_amount"),
	AccountingDocumentNumber:  variants("DocumentNumber", "documentNumber", "document_number"),
	AccountingAirline:         variants("AirlineDesignator", "airlineDesignator", "airline"),
	AccountingFormOfPayment:   variants("FormOfPaymentCode", "FormOfPayment", "formOfPayment", "form_of_payment"),
	AccountingPassengerName:   variants("PassengerName", "passengerName", "passenger_name"),
	RemarkType:                plain("@type", "type", "Type"),
	RemarkLines:               variants("RemarkLines.RemarkLine", "remarkLines", "lines"),
	RemarkLineText:            variants("Text", "text", TextKey),
	RemarkText:                variants("Text", "text", "FreeText"),

	ProfileRoot:          plain("Sabre_OTA_ProfileReadRS.Profiles.ProfileInfo.Profile", "ProfileReadRS.Profile", "Profiles.ProfileInfo.Profile", "Profile", "profile"),
	ProfileUniqueID:      plain("@UniqueID", "UniqueID.@ID", "UniqueID", "uniqueId", "profile_id", "id"),
	ProfileOrganization:  plain("@ClientCode", "ClientCode", "organizationId", "organization_id"),
	ProfileCustomer:      plain("Traveler.Customer", "Customer", "customer", "traveler"),
	ProfileFirstName:     plain("PersonName.GivenName", "personName.givenName", "firstName", "first_name"),
	ProfileMiddleName:    plain("PersonName.MiddleName", "personName.middleName", "middleName", "middle_name"),
	ProfileLastName:      plain("PersonName.SurName", "PersonName.Surname", "personName.surname", "lastName", "last_name"),
	ProfilePrefix:        plain("PersonName.NamePrefix", "personName.prefix", "prefix"),
	ProfileBirthDate:     plain("@BirthDate", "BirthDate", "birthDate", "date_of_birth"),
	ProfileGender:        plain("@Gender", "Gender", "gender"),
	ProfileEmails:        plain("Email", "emails", "email_addresses"),
	ProfilePhones:        plain("Telephone", "phones", "phone_numbers"),
	ProfileAddresses:     plain("Address", "addresses"),
	ProfileDocuments:     plain("Document", "documents"),
	ProfileLoyalty:       plain("CustLoyalty", "Traveler.CustLoyalty", "loyalty", "loyalty_programs"),
	ProfilePaymentCards:  plain("PaymentForm.PaymentCard", "PaymentCard", "paymentCards", "payment_cards"),
	ProfileEmergency:     plain("EmergencyContact", "emergencyContacts", "emergency_contacts"),
	ProfileEmployment:    plain("EmployeeInfo", "employment", "employee_info"),
	ProfilePreferences:   plain("Preferences", "preferences", "PrefCollections"),
	ProfileRemarks:       plain("Remarks.Remark", "Remark", "remarks"),
	ProfileEmailValue:    plain("@EmailAddress", "EmailAddress", "emailAddress", "address", "value", TextKey),
	ProfileEmailType:     plain("@EmailTypeCode", "EmailTypeCode", "type"),
	ProfileEmailDefault:  plain("@DefaultInd", "DefaultInd", "default", "primary"),
	ProfilePhoneFull:     plain("@FullPhoneNumber", "FullPhoneNumber", "fullPhoneNumber", "number", TextKey),
	ProfilePhoneCountry:  plain("@CountryAccessCode", "CountryAccessCode", "country_code"),
	ProfilePhoneArea:     plain("@AreaCityCode", "AreaCityCode", "area_code"),
	ProfilePhoneLocal:    plain("@PhoneNumber", "PhoneNumber", "phone_number"),
	ProfilePhoneUse:      plain("@PhoneUseType", "PhoneUseType", "@PhoneLocationType", "type"),
	ProfileDocType:       plain("@DocType", "@DocTypeCode", "DocType", "type"),
	ProfileDocNumber:     plain("@DocID", "DocID", "number", "document_number"),
	ProfileDocIssuer:     plain("@DocIssueCountry", "DocIssueCountry", "issuing_country"),
	ProfileDocExpiry:     plain("@ExpireDate", "ExpireDate", "expiration_date"),
	ProfileDocEffective:  plain("@EffectiveDate", "EffectiveDate", "issue_date"),
	ProfileDocNation:     plain("@DocHolderNationality", "DocHolderNationality", "nationality"),
	ProfileDocApplicable: plain("@ApplicableCountry", "ApplicableCountry", "applicable_country"),
	ProfileLoyaltyVendor: plain("@VendorCode", "@ProgramID", "VendorCode", "program_code"),
	ProfileLoyaltyNumber: plain("@MembershipID", "MembershipID", "membership_number", "number"),
	ProfileLoyaltyLevel:  plain("@LoyalLevel", "LoyalLevel", "tier"),
	ProfileCardType:      plain("@CardCode", "@CardType", "CardCode", "card_type"),
	ProfileCardNumber:    plain("@MaskedCardNumber", "@CardNumber", "CardNumber", "masked_number", "last_four"),
	ProfileCardExpiry:    plain("@ExpireDate", "ExpireDate", "expiration"),
	ProfileCardHolder:    plain("CardHolderName", "@CardHolderName", "holder_name"),
	ContactGivenName:     plain("PersonName.GivenName", "GivenName", "first_name"),
	ContactSurname:       plain("PersonName.SurName", "SurName", "last_name"),
	ContactFullName:      plain("@Name", "Name", "name"),
	ContactPhone:         plain("Telephone.@FullPhoneNumber", "@PhoneNumber", "Telephone", "phone"),
	ContactRelation:      plain("@Relation", "Relation", "relationship"),
	EmployeeID:           plain("@EmployeeId", "EmployeeId", "employee_id"),
	EmployeeTitle:        plain("@Title", "Title", "title"),
	EmployeeDepartment:   plain("@Department", "Department", "department"),
	EmployeeCompany:      plain("@CompanyName", "CompanyName", "company"),
	EmployeeCostCenter:   plain("@CostCenter", "CostCenter", "cost_center"),
	PreferenceSeat:       plain("AirPref.SeatPref.@SeatPreference", "AirPref.SeatPref", "seat"),
	PreferenceMeal:       plain("AirPref.MealPref.@MealType", "AirPref.MealPref", "meal"),
	PreferenceHotelChain: plain("HotelPref.@ChainCode", "HotelPref.ChainCode", "hotel_chain"),
	PreferenceCarVendor:  plain("VehiclePref.@VendorCode", "VehiclePref.VendorCode", "car_vendor"),
}

// variants puts the namespaced spelling of primary first, then primary
// itself, then the legacy spellings.
func variants(primary string, legacy ...string) []string {
	out := []string{namespaced(primary), primary}
	return append(out, legacy...)
}

func plain(paths ...string) []string {
	return paths
}

// namespaced prefixes every element segment of path. Attribute (@) and text
// (#) segments are not namespaced by the provider.
func namespaced(path string) string {
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		if strings.HasPrefix(segment, "@") || strings.HasPrefix(segment, "#") || strings.HasPrefix(segment, Namespace) {
			continue
		}
		segments[i] = Namespace + segment
	}
	return strings.Join(segments, ".")
}
