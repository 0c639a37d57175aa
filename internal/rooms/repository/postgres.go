package repository

import (
	"context"
	"errors"
	"fmt"
	roomserrors "roomres/internal/rooms/errors"
	"roomres/pkg/config"
	"roomres/pkg/db/postgres"
	"roomres/pkg/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRoomRepository struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

func NewPostgresRoomRepository(cfg *config.Config) RoomRepository {
	return &postgresRoomRepository{
		cfg:  cfg,
		pool: cfg.Client.Postgres,
	}
}

const selectRooms = `SELECT id, capacity, features FROM rooms`

func (r *postgresRoomRepository) FindByID(ctx context.Context, id int) (*model.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var room model.Room
	err := postgres.QuerierFrom(ctx, r.pool).
		QueryRow(ctx, selectRooms+` WHERE id = $1`, id).
		Scan(&room.ID, &room.Capacity, &room.Features)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", roomserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *postgresRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	return r.query(ctx, selectRooms+` ORDER BY id`)
}

func (r *postgresRoomRepository) FindMatching(ctx context.Context, minCapacity int, features []string) ([]*model.Room, error) {
	if features == nil {
		features = []string{}
	}
	return r.query(ctx, selectRooms+` WHERE capacity >= $1 AND features @> $2::text[] ORDER BY id`, minCapacity, features)
}

func (r *postgresRoomRepository) query(ctx context.Context, sql string, args ...any) ([]*model.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	rows, err := postgres.QuerierFrom(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]*model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Capacity, &room.Features); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}
	return rooms, nil
}

func (r *postgresRoomRepository) Upsert(ctx context.Context, room *model.Room) error {
	if err := validateRoom(room); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := postgres.QuerierFrom(ctx, r.pool).Exec(ctx, `
		INSERT INTO rooms (id, capacity, features) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET capacity = EXCLUDED.capacity, features = EXCLUDED.features`,
		room.ID, room.Capacity, room.Features,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert room %d: %w", room.ID, err)
	}
	return nil
}

func (r *postgresRoomRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var count int64
	if err := postgres.QuerierFrom(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM rooms`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}

func (r *postgresRoomRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
