package repository

import (
	"context"
	"errors"
	roomserrors "roomres/internal/rooms/errors"
	"roomres/pkg/model"
	"testing"
)

func TestMemoryRoomRepository_UpsertNormalisesFeatures(t *testing.T) {
	repo := NewMemoryRoomRepository()
	ctx := context.Background()

	room := &model.Room{ID: 1, Capacity: 2, Features: []string{" WiFi ", "TV", "WiFi", ""}}
	if err := repo.Upsert(ctx, room); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.FindByID(ctx, 1)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if len(got.Features) != 2 || got.Features[0] != "WiFi" || got.Features[1] != "TV" {
		t.Errorf("Features = %q, want [WiFi TV]", got.Features)
	}

	got.Features[0] = "mutated"
	again, _ := repo.FindByID(ctx, 1)
	if again.Features[0] != "WiFi" {
		t.Error("FindByID must return a copy")
	}
}

func TestMemoryRoomRepository_UpsertReplaces(t *testing.T) {
	repo := NewMemoryRoomRepository(&model.Room{ID: 3, Capacity: 1})
	ctx := context.Background()

	if err := repo.Upsert(ctx, &model.Room{ID: 3, Capacity: 4}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	room, _ := repo.FindByID(ctx, 3)
	if room.Capacity != 4 {
		t.Errorf("Capacity = %d, want 4", room.Capacity)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestMemoryRoomRepository_Invalid(t *testing.T) {
	repo := NewMemoryRoomRepository()

	tests := []*model.Room{nil, {ID: 0, Capacity: 1}, {ID: 1, Capacity: 0}}
	for _, room := range tests {
		if err := repo.Upsert(context.Background(), room); !errors.Is(err, roomserrors.ErrInvalidRoom) {
			t.Errorf("Upsert(%+v) error = %v, want ErrInvalidRoom", room, err)
		}
	}

	if _, err := repo.FindByID(context.Background(), 42); !errors.Is(err, roomserrors.ErrNotFound) {
		t.Errorf("FindByID(42) error = %v, want ErrNotFound", err)
	}
}
