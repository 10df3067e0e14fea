package repositories

import (
	"context"
	"time"

	contextutil "staykeeper/internal/context"
	"staykeeper/internal/database"
	. "staykeeper/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	GetByID(ctx context.Context, id int) (*Reservation, error)
	GetByPMSReservationID(ctx context.Context, propertyID int, pmsID string) (*Reservation, error)
	// HasDepartureOn reports whether another blocking reservation on the
	// property departs on the given date. Used for arrival-day turnover.
	HasDepartureOn(ctx context.Context, propertyID int, date time.Time, excludeID int) (bool, error)
	// HasArrivalOn is the departure-day symmetric form.
	HasArrivalOn(ctx context.Context, propertyID int, date time.Time, excludeID int) (bool, error)
	Create(ctx context.Context, reservation *Reservation) (*Reservation, error)
	Update(ctx context.Context, reservation *Reservation) error
}

type reservationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewReservationRepository(db database.DB) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: logger.New("reservationRepository"),
	}
}

func (r *reservationRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *reservationRepository) GetByID(ctx context.Context, id int) (*Reservation, error) {
	log := r.log.Function("GetByID")

	var reservation Reservation
	if err := r.getDB(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get reservation by ID", err, "id", id)
	}

	return &reservation, nil
}

func (r *reservationRepository) GetByPMSReservationID(
	ctx context.Context,
	propertyID int,
	pmsID string,
) (*Reservation, error) {
	log := r.log.Function("GetByPMSReservationID")

	var reservation Reservation
	err := r.getDB(ctx).
		First(&reservation, "property_id = ? AND pms_reservation_id = ?", propertyID, pmsID).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err(
			"failed to get reservation by PMS ID", err,
			"propertyID", propertyID, "pmsID", pmsID,
		)
	}

	return &reservation, nil
}

func (r *reservationRepository) HasDepartureOn(
	ctx context.Context,
	propertyID int,
	date time.Time,
	excludeID int,
) (bool, error) {
	log := r.log.Function("HasDepartureOn")

	count, err := r.turnoverCount(ctx, "departure_date", propertyID, date, excludeID)
	if err != nil {
		return false, log.Err(
			"failed to check same-day departures", err,
			"propertyID", propertyID, "date", date,
		)
	}

	return count > 0, nil
}

func (r *reservationRepository) HasArrivalOn(
	ctx context.Context,
	propertyID int,
	date time.Time,
	excludeID int,
) (bool, error) {
	log := r.log.Function("HasArrivalOn")

	count, err := r.turnoverCount(ctx, "arrival_date", propertyID, date, excludeID)
	if err != nil {
		return false, log.Err(
			"failed to check same-day arrivals", err,
			"propertyID", propertyID, "date", date,
		)
	}

	return count > 0, nil
}

func (r *reservationRepository) turnoverCount(
	ctx context.Context,
	dateColumn string,
	propertyID int,
	date time.Time,
	excludeID int,
) (int64, error) {
	query := r.getDB(ctx).
		Model(&Reservation{}).
		Where("property_id = ?", propertyID).
		Where(dateColumn+" = ?", date.Format("2006-01-02")).
		Where("status NOT IN ?", []string{ReservationStatusCancelled, ReservationStatusNoShow})

	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *reservationRepository) Create(
	ctx context.Context,
	reservation *Reservation,
) (*Reservation, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(reservation).Error; err != nil {
		return nil, log.Err("failed to create reservation", err, "reservation", reservation)
	}

	return reservation, nil
}

func (r *reservationRepository) Update(ctx context.Context, reservation *Reservation) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(reservation).Error; err != nil {
		return log.Err("failed to update reservation", err, "reservation", reservation)
	}

	return nil
}
