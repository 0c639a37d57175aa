package repository

import (
	"context"
	"errors"
	reserrors "roomres/internal/reservations/errors"
	"roomres/pkg/model"
	"sync"
	"testing"
	"time"
)

func newReservation(room int, date, start, end string) *model.Reservation {
	return &model.Reservation{RoomID: room, GuestName: "Guest", Date: date, StartTime: start, EndTime: end}
}

func TestMemoryReservationRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryReservationRepository()
	ctx := context.Background()

	for _, res := range []*model.Reservation{
		newReservation(4, "2025-05-10", "14:00", "16:00"),
		newReservation(4, "2025-05-10", "09:00", "11:00"),
		newReservation(5, "2025-05-10", "10:00", "12:00"),
		newReservation(4, "2025-05-11", "09:00", "10:00"),
	} {
		if err := repo.Create(ctx, res); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if res.ID == 0 || res.CreatedAt.IsZero() {
			t.Fatalf("Create() did not assign id/created_at: %+v", res)
		}
	}

	slot, err := repo.FindByRoomAndDate(ctx, 4, "2025-05-10")
	if err != nil {
		t.Fatalf("FindByRoomAndDate() error = %v", err)
	}
	if len(slot) != 2 || slot[0].StartTime != "09:00" || slot[1].StartTime != "14:00" {
		t.Errorf("FindByRoomAndDate() = %+v, want 09:00 then 14:00", slot)
	}

	overlapping, _ := repo.FindOverlapping(ctx, "2025-05-10", "10:30", "14:30")
	if len(overlapping) != 3 {
		t.Errorf("FindOverlapping() returned %d, want 3", len(overlapping))
	}

	touching, _ := repo.FindOverlapping(ctx, "2025-05-10", "12:00", "14:00")
	if len(touching) != 0 {
		t.Errorf("FindOverlapping() on touching boundaries returned %d, want 0", len(touching))
	}

	got, err := repo.FindByID(ctx, slot[0].ID)
	if err != nil || got.StartTime != "09:00" {
		t.Errorf("FindByID() = %+v, %v", got, err)
	}
	if _, err := repo.FindByID(ctx, 999); !errors.Is(err, reserrors.ErrNotFound) {
		t.Errorf("FindByID(999) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryReservationRepository_InvalidReservation(t *testing.T) {
	repo := NewMemoryReservationRepository()

	tests := []*model.Reservation{
		nil,
		newReservation(0, "2025-05-10", "09:00", "10:00"),
		newReservation(1, "2025-05-10", "10:00", "10:00"),
		{RoomID: 1, Date: "2025-05-10", StartTime: "09:00", EndTime: "10:00"},
	}
	for _, res := range tests {
		if err := repo.Create(context.Background(), res); !errors.Is(err, reserrors.ErrInvalidReservation) {
			t.Errorf("Create(%+v) error = %v, want ErrInvalidReservation", res, err)
		}
	}
}

func TestMemoryReservationRepository_SlotRollback(t *testing.T) {
	repo := NewMemoryReservationRepository()
	ctx := context.Background()
	slot := model.Slot{RoomID: 4, Date: "2025-05-10"}
	boom := errors.New("boom")

	err := repo.ExecuteInSlot(ctx, slot, func(ctx context.Context) error {
		if err := repo.Create(ctx, newReservation(4, "2025-05-10", "09:00", "10:00")); err != nil {
			return err
		}
		staged, _ := repo.FindByRoomAndDate(ctx, 4, "2025-05-10")
		if len(staged) != 1 {
			t.Errorf("staged write not visible inside slot: %d", len(staged))
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ExecuteInSlot() error = %v, want boom", err)
	}

	if n, _ := repo.Count(ctx); n != 0 {
		t.Errorf("Count() after rollback = %d, want 0", n)
	}
}

func TestMemoryReservationRepository_SlotWrongSlot(t *testing.T) {
	repo := NewMemoryReservationRepository()
	slot := model.Slot{RoomID: 4, Date: "2025-05-10"}

	err := repo.ExecuteInSlot(context.Background(), slot, func(ctx context.Context) error {
		return repo.Create(ctx, newReservation(5, "2025-05-10", "09:00", "10:00"))
	})
	if !errors.Is(err, reserrors.ErrInvalidReservation) {
		t.Errorf("ExecuteInSlot() error = %v, want ErrInvalidReservation", err)
	}
}

func TestMemoryReservationRepository_SlotSerialisesWriters(t *testing.T) {
	repo := NewMemoryReservationRepository()
	ctx := context.Background()
	slot := model.Slot{RoomID: 7, Date: "2025-05-10"}

	const writers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.ExecuteInSlot(ctx, slot, func(ctx context.Context) error {
				existing, err := repo.FindByRoomAndDate(ctx, 7, "2025-05-10")
				if err != nil {
					return err
				}
				for _, res := range existing {
					if res.Overlaps("09:00", "10:00") {
						return reserrors.ErrSlotConflict
					}
				}
				return repo.Create(ctx, newReservation(7, "2025-05-10", "09:00", "10:00"))
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("successes = %d, want 1", successes)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestMemoryReservationRepository_SlotHonoursContext(t *testing.T) {
	repo := NewMemoryReservationRepository()
	slot := model.Slot{RoomID: 1, Date: "2025-05-10"}

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = repo.ExecuteInSlot(context.Background(), slot, func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := repo.ExecuteInSlot(ctx, slot, func(ctx context.Context) error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("ExecuteInSlot() error = %v, want deadline exceeded", err)
	}
}
