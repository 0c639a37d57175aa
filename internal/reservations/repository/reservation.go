package repository

import (
	"context"
	"fmt"
	reserrors "roomres/internal/reservations/errors"
	"roomres/pkg/config"
	"roomres/pkg/model"
)

const (
	CollectionName      = "Reservations"
	SlotCollectionName  = "Reservation_slots"
	CounterCollection   = "Counters"
	reservationSequence = "reservations"
)

// SlotFunc runs inside a slot transaction. Repository calls made with the
// context it receives join that transaction.
type SlotFunc func(ctx context.Context) error

// ReservationRepository is the reservation ledger.
type ReservationRepository interface {
	// Create assigns ID and CreatedAt and inserts the reservation. Call it from
	// inside ExecuteInSlot so the overlap check and the insert commit together.
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id int64) (*model.Reservation, error)
	// FindByRoomAndDate returns the slot's reservations ordered by start time.
	FindByRoomAndDate(ctx context.Context, roomID int, date string) ([]*model.Reservation, error)
	// FindOverlapping returns every reservation on date intersecting [start, end).
	FindOverlapping(ctx context.Context, date, start, end string) ([]*model.Reservation, error)
	Count(ctx context.Context) (int64, error)
	// ExecuteInSlot runs fn serialised against every other writer of slot.
	// Transient contention is retried; when retries run out the error wraps
	// db.ErrRetriesExhausted.
	ExecuteInSlot(ctx context.Context, slot model.Slot, fn SlotFunc) error
}

// New returns the repository for the configured store backend.
func New(cfg *config.Config) ReservationRepository {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return NewPostgresReservationRepository(cfg)
	case config.BackendMemory:
		return NewMemoryReservationRepository()
	default:
		return NewMongoReservationRepository(cfg)
	}
}

func validateReservation(r *model.Reservation) error {
	if r == nil {
		return fmt.Errorf("%w: nil reservation", reserrors.ErrInvalidReservation)
	}
	if r.RoomID <= 0 || r.GuestName == "" || r.Date == "" {
		return fmt.Errorf("%w: room, guest and date are required", reserrors.ErrInvalidReservation)
	}
	if r.StartTime >= r.EndTime {
		return fmt.Errorf("%w: start %s is not before end %s", reserrors.ErrInvalidReservation, r.StartTime, r.EndTime)
	}
	return nil
}
