package repository

import (
	"context"
	"fmt"
	roomserrors "roomres/internal/rooms/errors"
	"roomres/pkg/model"
	"slices"
	"sort"
	"sync"
)

type memoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[int]*model.Room
}

// NewMemoryRoomRepository keeps the catalog in process memory. Used by the
// memory backend and by tests.
func NewMemoryRoomRepository(rooms ...*model.Room) RoomRepository {
	r := &memoryRoomRepository{rooms: make(map[int]*model.Room)}
	for _, room := range rooms {
		_ = r.Upsert(context.Background(), room)
	}
	return r
}

func cloneRoom(room *model.Room) *model.Room {
	c := *room
	c.Features = slices.Clone(room.Features)
	return &c
}

func (r *memoryRoomRepository) FindByID(_ context.Context, id int) (*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", roomserrors.ErrNotFound, id)
	}
	return cloneRoom(room), nil
}

func (r *memoryRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	return r.FindMatching(ctx, 0, nil)
}

func (r *memoryRoomRepository) FindMatching(ctx context.Context, minCapacity int, features []string) ([]*model.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*model.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if room.Capacity >= minCapacity && room.HasFeatures(features) {
			rooms = append(rooms, cloneRoom(room))
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (r *memoryRoomRepository) Upsert(_ context.Context, room *model.Room) error {
	if err := validateRoom(room); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (r *memoryRoomRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.rooms)), nil
}

func (r *memoryRoomRepository) Ping(_ context.Context) error {
	return nil
}
