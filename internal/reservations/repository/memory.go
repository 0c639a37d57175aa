package repository

import (
	"context"
	"fmt"
	reserrors "roomres/internal/reservations/errors"
	"roomres/pkg/model"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type stagedWrites struct {
	slot         model.Slot
	reservations []*model.Reservation
}

type stagedKey struct{}

type memoryReservationRepository struct {
	mu      sync.RWMutex
	ledger  map[int64]*model.Reservation
	nextID  atomic.Int64
	slotsMu sync.Mutex
	slots   map[model.Slot]chan struct{}
}

// NewMemoryReservationRepository keeps the ledger in process memory. Each slot
// has its own lock, writes made inside ExecuteInSlot are staged and only
// become visible when fn succeeds.
func NewMemoryReservationRepository() ReservationRepository {
	return &memoryReservationRepository{
		ledger: make(map[int64]*model.Reservation),
		slots:  make(map[model.Slot]chan struct{}),
	}
}

func (r *memoryReservationRepository) slotLock(slot model.Slot) chan struct{} {
	r.slotsMu.Lock()
	defer r.slotsMu.Unlock()

	lock, ok := r.slots[slot]
	if !ok {
		lock = make(chan struct{}, 1)
		r.slots[slot] = lock
	}
	return lock
}

func (r *memoryReservationRepository) ExecuteInSlot(ctx context.Context, slot model.Slot, fn SlotFunc) error {
	lock := r.slotLock(slot)
	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()

	staged := &stagedWrites{slot: slot}
	if err := fn(context.WithValue(ctx, stagedKey{}, staged)); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range staged.reservations {
		r.ledger[res.ID] = res
	}
	return nil
}

func (r *memoryReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	if err := validateReservation(reservation); err != nil {
		return err
	}

	reservation.ID = r.nextID.Add(1)
	reservation.CreatedAt = time.Now().UTC()
	stored := *reservation

	if staged, ok := ctx.Value(stagedKey{}).(*stagedWrites); ok {
		if staged.slot != reservation.Slot() {
			return fmt.Errorf("%w: reservation for %s written inside %s", reserrors.ErrInvalidReservation,
				reservation.Slot().Key(), staged.slot.Key())
		}
		staged.reservations = append(staged.reservations, &stored)
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ledger[stored.ID] = &stored
	return nil
}

func (r *memoryReservationRepository) FindByID(_ context.Context, id int64) (*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.ledger[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", reserrors.ErrNotFound, id)
	}
	c := *res
	return &c, nil
}

func (r *memoryReservationRepository) FindByRoomAndDate(ctx context.Context, roomID int, date string) ([]*model.Reservation, error) {
	result := r.filter(func(res *model.Reservation) bool {
		return res.RoomID == roomID && res.Date == date
	})

	// Reads inside the slot see the slot's own staged writes.
	if staged, ok := ctx.Value(stagedKey{}).(*stagedWrites); ok && staged.slot == (model.Slot{RoomID: roomID, Date: date}) {
		for _, res := range staged.reservations {
			c := *res
			result = append(result, &c)
		}
		sortByStart(result)
	}
	return result, nil
}

func (r *memoryReservationRepository) FindOverlapping(_ context.Context, date, start, end string) ([]*model.Reservation, error) {
	return r.filter(func(res *model.Reservation) bool {
		return res.Date == date && res.Overlaps(start, end)
	}), nil
}

func (r *memoryReservationRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.ledger)), nil
}

func (r *memoryReservationRepository) filter(keep func(*model.Reservation) bool) []*model.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Reservation, 0)
	for _, res := range r.ledger {
		if keep(res) {
			c := *res
			result = append(result, &c)
		}
	}
	sortByStart(result)
	return result
}

func sortByStart(reservations []*model.Reservation) {
	sort.Slice(reservations, func(i, j int) bool {
		a, b := reservations[i], reservations[j]
		if a.RoomID != b.RoomID {
			return a.RoomID < b.RoomID
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
}
