package extractors

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/raw"
)

// CancelledStatusCodes are the segment action codes that mark a booking as
// cancelled.
var CancelledStatusCodes = map[string]bool{"XX": true, "HX": true, "NO": true, "XL": true}

var segmentStatuses = map[string]string{
	"HK": models.SegmentStatusConfirmed,
	"KK": models.SegmentStatusConfirmed,
	"KL": models.SegmentStatusConfirmed,
	"TK": models.SegmentStatusConfirmed,
	"RR": models.SegmentStatusConfirmed,
	"HS": models.SegmentStatusConfirmed,
	"SS": models.SegmentStatusConfirmed,
	"GK": models.SegmentStatusConfirmed,
	"UC": models.SegmentStatusUnconfirmed,
	"US": models.SegmentStatusUnconfirmed,
	"UN": models.SegmentStatusUnconfirmed,
	"NN": models.SegmentStatusUnconfirmed,
	"HN": models.SegmentStatusUnconfirmed,
	"PN": models.SegmentStatusUnconfirmed,
	"HL": models.SegmentStatusWaitlisted,
	"LL": models.SegmentStatusWaitlisted,
	"XX": models.SegmentStatusCancelled,
	"HX": models.SegmentStatusCancelled,
	"XL": models.SegmentStatusCancelled,
	"XK": models.SegmentStatusCancelled,
	"NO": models.SegmentStatusCancelled,
}

// SegmentStatus maps a raw action or status code to a canonical status.
func SegmentStatus(code string) string {
	code = normalizers.NormalizeCode(code)
	if status, ok := segmentStatuses[code]; ok {
		return status
	}
	return models.SegmentStatusUnknown
}

type segmentNode struct {
	segment  map[string]any
	detail   map[string]any
	sequence int
}

// segmentNodes returns the typed child (Air, Hotel, Vehicle) of every
// segment carrying one, ordered by sequence when the provider supplies it.
func (e *Extractor) segmentNodes(root map[string]any, kind raw.Field) []segmentNode {
	nodes := []segmentNode{}
	for i, segment := range e.reader.Objects(root, raw.ReservationSegments) {
		detail := e.reader.Object(segment, kind)
		if detail == nil {
			continue
		}
		seq, err := strconv.Atoi(e.firstText(raw.SegmentSeq, segment, detail))
		if err != nil || seq <= 0 {
			seq = i + 1
		}
		nodes = append(nodes, segmentNode{segment: segment, detail: detail, sequence: seq})
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].sequence < nodes[j].sequence
	})
	return nodes
}

func (e *Extractor) segmentState(n segmentNode) (code, status string, isPast bool) {
	code = normalizers.NormalizeCode(e.firstText(raw.SegmentStatus, n.detail, n.segment))
	isPast = e.reader.Bool(n.detail, raw.SegmentIsPast) || e.reader.Bool(n.segment, raw.SegmentIsPast)
	return code, SegmentStatus(code), isPast
}

func (e *Extractor) Flights(ctx context.Context, root map[string]any) []models.FlightSegment {
	return collect(ctx, e, FamilyFlights, func(add func(models.FlightSegment)) error {
		for _, n := range e.segmentNodes(root, raw.SegmentAir) {
			air := n.detail
			code, status, isPast := e.segmentState(n)
			flight := models.FlightSegment{
				Sequence:           n.sequence,
				MarketingCarrier:   normalizers.NormalizeCode(e.reader.Text(air, raw.FlightCarrier)),
				OperatingCarrier:   normalizers.NormalizeCode(e.reader.Text(air, raw.FlightOperating)),
				FlightNumber:       strings.TrimLeft(e.reader.Text(air, raw.FlightNumber), "0"),
				Origin:             normalizers.NormalizeCode(e.reader.Text(air, raw.FlightOrigin)),
				Destination:        normalizers.NormalizeCode(e.reader.Text(air, raw.FlightDestination)),
				DepartureTime:      ParseTime(e.reader.Text(air, raw.FlightDeparture)),
				ArrivalTime:        ParseTime(e.reader.Text(air, raw.FlightArrival)),
				ClassOfService:     e.reader.Text(air, raw.FlightClass),
				Equipment:          e.reader.Text(air, raw.FlightEquipment),
				ConfirmationNumber: e.reader.Text(air, raw.FlightConfirmation),
				StatusCode:         code,
				Status:             status,
				IsPast:             isPast,
				Seats:              []models.SeatAssignment{},
			}
			flight.DurationMinutes = MinutesBetween(flight.DepartureTime, flight.ArrivalTime)

			for _, seat := range e.reader.Objects(air, raw.FlightSeats) {
				seatCode := normalizers.NormalizeCode(e.reader.Text(seat, raw.SeatStatus))
				flight.Seats = append(flight.Seats, models.SeatAssignment{
					Number:              normalizers.NormalizeCode(e.reader.Text(seat, raw.SeatNumber)),
					StatusCode:          seatCode,
					Status:              seatStatus(seatCode),
					PassengerNameNumber: e.reader.Text(seat, raw.SeatNameNumber),
				})
			}
			add(flight)
		}
		return nil
	})
}

func seatStatus(code string) string {
	if code == "" {
		return ""
	}
	return SegmentStatus(code)
}

func (e *Extractor) Hotels(ctx context.Context, root map[string]any) []models.HotelSegment {
	return collect(ctx, e, FamilyHotels, func(add func(models.HotelSegment)) error {
		for _, n := range e.segmentNodes(root, raw.SegmentHotel) {
			hotel := n.detail
			code, status, isPast := e.segmentState(n)
			segment := models.HotelSegment{
				Sequence:           n.sequence,
				Name:               normalizers.CollapseWhitespace(e.reader.Text(hotel, raw.HotelName)),
				ChainCode:          normalizers.NormalizeCode(e.reader.Text(hotel, raw.HotelChain)),
				HotelCode:          e.reader.Text(hotel, raw.HotelCode),
				CityCode:           normalizers.NormalizeCode(e.reader.Text(hotel, raw.HotelCity)),
				CheckIn:            ParseTime(e.reader.Text(hotel, raw.HotelCheckIn)),
				CheckOut:           ParseTime(e.reader.Text(hotel, raw.HotelCheckOut)),
				ConfirmationNumber: e.reader.Text(hotel, raw.HotelConfirmation),
				RoomType:           e.reader.Text(hotel, raw.HotelRoomType),
				Rate:               ParseAmount(e.reader.Text(hotel, raw.HotelRate)),
				Currency:           normalizers.NormalizeCode(e.reader.Text(hotel, raw.HotelCurrency)),
				StatusCode:         code,
				Status:             status,
				IsPast:             isPast,
			}
			segment.Nights = NightsBetween(segment.CheckIn, segment.CheckOut)
			add(segment)
		}
		return nil
	})
}

func (e *Extractor) Cars(ctx context.Context, root map[string]any) []models.CarSegment {
	return collect(ctx, e, FamilyCars, func(add func(models.CarSegment)) error {
		for _, n := range e.segmentNodes(root, raw.SegmentVehicle) {
			car := n.detail
			code, status, isPast := e.segmentState(n)
			segment := models.CarSegment{
				Sequence:           n.sequence,
				Vendor:             normalizers.NormalizeCode(e.reader.Text(car, raw.CarVendor)),
				PickupLocation:     normalizers.NormalizeCode(e.reader.Text(car, raw.CarPickupLocation)),
				ReturnLocation:     normalizers.NormalizeCode(e.reader.Text(car, raw.CarReturnLocation)),
				PickupTime:         ParseTime(e.reader.Text(car, raw.CarPickupTime)),
				ReturnTime:         ParseTime(e.reader.Text(car, raw.CarReturnTime)),
				VehicleType:        e.reader.Text(car, raw.CarVehicleType),
				ConfirmationNumber: e.reader.Text(car, raw.CarConfirmation),
				Rate:               ParseAmount(e.reader.Text(car, raw.CarRate)),
				Currency:           normalizers.NormalizeCode(e.reader.Text(car, raw.CarCurrency)),
				StatusCode:         code,
				Status:             status,
				IsPast:             isPast,
			}
			if segment.ReturnLocation == "" {
				segment.ReturnLocation = segment.PickupLocation
			}
			segment.RentalDays = RentalDaysBetween(segment.PickupTime, segment.ReturnTime)
			add(segment)
		}
		return nil
	})
}
