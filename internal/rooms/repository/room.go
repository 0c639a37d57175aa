package repository

import (
	"context"
	"fmt"
	roomserrors "roomres/internal/rooms/errors"
	"roomres/pkg/config"
	"roomres/pkg/model"
	"roomres/pkg/sanitizer"
)

const CollectionName = "Rooms"

// RoomRepository is the room catalog. All list methods return rooms in
// ascending id order.
type RoomRepository interface {
	FindByID(ctx context.Context, id int) (*model.Room, error)
	FindAll(ctx context.Context) ([]*model.Room, error)
	// FindMatching returns rooms with capacity >= minCapacity whose features
	// include every entry of features.
	FindMatching(ctx context.Context, minCapacity int, features []string) ([]*model.Room, error)
	Upsert(ctx context.Context, room *model.Room) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// New returns the repository for the configured store backend.
func New(cfg *config.Config) RoomRepository {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return NewPostgresRoomRepository(cfg)
	case config.BackendMemory:
		return NewMemoryRoomRepository()
	default:
		return NewMongoRoomRepository(cfg)
	}
}

func validateRoom(room *model.Room) error {
	if room == nil {
		return fmt.Errorf("%w: nil room", roomserrors.ErrInvalidRoom)
	}
	if room.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", roomserrors.ErrInvalidRoom, room.ID)
	}
	if room.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", roomserrors.ErrInvalidRoom, room.Capacity)
	}
	room.Features = sanitizer.SanitizeFeatures(room.Features)
	return nil
}
