package repository

import (
	"context"
	"errors"
	"fmt"
	reserrors "roomres/internal/reservations/errors"
	"roomres/pkg/config"
	"roomres/pkg/db/postgres"
	"roomres/pkg/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresReservationRepository struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	txManager *postgres.TransactionManager
}

func NewPostgresReservationRepository(cfg *config.Config) ReservationRepository {
	return &postgresReservationRepository{
		cfg:       cfg,
		pool:      cfg.Client.Postgres,
		txManager: postgres.NewTransactionManager(cfg.Client.Postgres, cfg.RetryPolicy()),
	}
}

const selectReservations = `
	SELECT id, room_id, guest_name, to_char(date, 'YYYY-MM-DD'),
	       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), created_at
	FROM reservations`

func (r *postgresReservationRepository) ExecuteInSlot(ctx context.Context, slot model.Slot, fn SlotFunc) error {
	return r.txManager.ExecuteLocked(ctx, slot.Key(), fn)
}

func (r *postgresReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	if err := validateReservation(reservation); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	err := postgres.QuerierFrom(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO reservations (room_id, guest_name, date, start_time, end_time)
		VALUES ($1, $2, $3::date, $4::time, $5::time)
		RETURNING id, created_at`,
		reservation.RoomID, reservation.GuestName, reservation.Date, reservation.StartTime, reservation.EndTime,
	).Scan(&reservation.ID, &reservation.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", reserrors.ErrSlotConflict, err)
		}
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	reservation.CreatedAt = reservation.CreatedAt.UTC()
	return nil
}

func (r *postgresReservationRepository) FindByID(ctx context.Context, id int64) (*model.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	row := postgres.QuerierFrom(ctx, r.pool).QueryRow(ctx, selectReservations+` WHERE id = $1`, id)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", reserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return res, nil
}

func (r *postgresReservationRepository) FindByRoomAndDate(ctx context.Context, roomID int, date string) ([]*model.Reservation, error) {
	return r.query(ctx, selectReservations+`
		WHERE room_id = $1 AND date = $2::date
		ORDER BY start_time, id`, roomID, date)
}

func (r *postgresReservationRepository) FindOverlapping(ctx context.Context, date, start, end string) ([]*model.Reservation, error) {
	return r.query(ctx, selectReservations+`
		WHERE date = $1::date AND start_time < $3::time AND end_time > $2::time
		ORDER BY room_id, start_time, id`, date, start, end)
}

func (r *postgresReservationRepository) query(ctx context.Context, sql string, args ...any) ([]*model.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	rows, err := postgres.QuerierFrom(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}
	return reservations, nil
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.RoomID, &res.GuestName, &res.Date, &res.StartTime, &res.EndTime, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	res.CreatedAt = res.CreatedAt.UTC()
	return &res, nil
}

func (r *postgresReservationRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var count int64
	if err := postgres.QuerierFrom(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM reservations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}
