package services

import (
	"context"

	"staykeeper/internal/models"
	"staykeeper/internal/repositories"
	"staykeeper/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
)

var (
	defaultCheckinTime  = utils.ClockTime{Hour: 16, Minute: 0}
	defaultCheckoutTime = utils.ClockTime{Hour: 10, Minute: 0}
)

// StayService reconstructs the StayContext snapshot for a verified guest
// session from current reservation data. Turnover flags come from live
// existence queries so the snapshot is never staler than the call itself.
type StayService struct {
	reservationRepo repositories.ReservationRepository
	propertyRepo    repositories.PropertyRepository
	log             logger.Logger
}

func NewStayService(repos repositories.Repository) *StayService {
	return &StayService{
		reservationRepo: repos.Reservation,
		propertyRepo:    repos.Property,
		log:             logger.New("StayService"),
	}
}

// BuildForSession assembles the stay snapshot for one session. Dates stored
// on the session win; the PMS reservation record backfills anything missing.
// Returns ok=false when arrival or departure cannot be determined, which
// callers must treat as ineligible rather than an error.
func (s *StayService) BuildForSession(
	ctx context.Context,
	session *models.ChatSession,
) (StayContext, bool) {
	log := s.log.Function("BuildForSession")

	if session == nil {
		return StayContext{}, false
	}

	stay := StayContext{
		PropertyID:   session.PropertyID,
		CheckinTime:  defaultCheckinTime,
		CheckoutTime: defaultCheckoutTime,
	}

	if session.ArrivalDate != nil {
		stay.ArrivalDate = *session.ArrivalDate
	}
	if session.DepartureDate != nil {
		stay.DepartureDate = *session.DepartureDate
	}

	var reservation *models.Reservation
	if session.PMSReservationID != "" {
		var err error
		reservation, err = s.reservationRepo.GetByPMSReservationID(
			ctx,
			session.PropertyID,
			session.PMSReservationID,
		)
		if err != nil {
			log.Warn("could not load reservation for session", "sessionID", session.ID)
		}
	}

	if reservation != nil {
		if stay.ArrivalDate.IsZero() {
			stay.ArrivalDate = reservation.ArrivalDate
		}
		if stay.DepartureDate.IsZero() {
			stay.DepartureDate = reservation.DepartureDate
		}
		stay.CheckinTime = utils.ParseClockTime(reservation.CheckinTime, stay.CheckinTime)
		stay.CheckoutTime = utils.ParseClockTime(reservation.CheckoutTime, stay.CheckoutTime)
	} else if property, err := s.propertyRepo.GetByID(ctx, session.PropertyID); err == nil {
		stay.CheckinTime = utils.ParseClockTime(property.CheckinTime, stay.CheckinTime)
		stay.CheckoutTime = utils.ParseClockTime(property.CheckoutTime, stay.CheckoutTime)
	}

	if stay.ArrivalDate.IsZero() || stay.DepartureDate.IsZero() {
		log.Info("session has no resolvable stay dates", "sessionID", session.ID)
		return StayContext{}, false
	}

	excludeID := 0
	if reservation != nil {
		excludeID = reservation.ID
	}

	// Arrival-day turnover: someone else departs on the arrival date.
	hasArrivalTurnover, err := s.reservationRepo.HasDepartureOn(
		ctx, session.PropertyID, stay.ArrivalDate, excludeID,
	)
	if err != nil {
		// Fail closed: an unknown turnover state blocks gated upgrades.
		hasArrivalTurnover = true
	}
	stay.HasArrivalTurnover = hasArrivalTurnover

	// Departure-day turnover: someone else arrives on the departure date.
	hasDepartureTurnover, err := s.reservationRepo.HasArrivalOn(
		ctx, session.PropertyID, stay.DepartureDate, excludeID,
	)
	if err != nil {
		hasDepartureTurnover = true
	}
	stay.HasDepartureTurnover = hasDepartureTurnover

	return stay, true
}
