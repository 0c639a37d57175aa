package service

import (
	"context"
	"errors"
	"roomres/internal/rooms/repository"
	"roomres/pkg/config"
	apperrors "roomres/pkg/errors"
	"roomres/pkg/logger"
	"roomres/pkg/model"
	"testing"
)

type mockRoomRepository struct {
	repository.RoomRepository
	findAllFunc func(ctx context.Context) ([]*model.Room, error)
}

func (m *mockRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	return m.findAllFunc(ctx)
}

func testConfig() *config.Config {
	return &config.Config{Log: logger.Discard()}
}

func seededService() RoomService {
	repo := repository.NewMemoryRoomRepository(
		&model.Room{ID: 5, Capacity: 6, Features: []string{"TV", "WiFi", "Kitchen"}},
		&model.Room{ID: 4, Capacity: 2, Features: []string{"TV", "WiFi", "Ocean View"}},
		&model.Room{ID: 10, Capacity: 1, Features: []string{"WiFi"}},
	)
	return NewRoomService(repo, testConfig())
}

func TestGetByID(t *testing.T) {
	svc := seededService()

	tests := []struct {
		name     string
		id       int
		wantCode string
	}{
		{"existing", 4, ""},
		{"missing", 99, apperrors.CodeNotFound},
		{"non positive", 0, apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room, err := svc.GetByID(context.Background(), tt.id)
			if tt.wantCode == "" {
				if err != nil || room.ID != tt.id {
					t.Fatalf("GetByID(%d) = %+v, %v", tt.id, room, err)
				}
				return
			}
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("GetByID(%d) error = %v, want %s", tt.id, err, tt.wantCode)
			}
		})
	}
}

func TestList_AscendingIDs(t *testing.T) {
	rooms, err := seededService().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []int{4, 5, 10}
	if len(rooms) != len(want) {
		t.Fatalf("List() returned %d rooms, want %d", len(rooms), len(want))
	}
	for i, id := range want {
		if rooms[i].ID != id {
			t.Errorf("rooms[%d].ID = %d, want %d", i, rooms[i].ID, id)
		}
	}
}

func TestList_RepositoryFailure(t *testing.T) {
	svc := NewRoomService(&mockRoomRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Room, error) {
			return nil, errors.New("connection reset")
		},
	}, testConfig())

	if _, err := svc.List(context.Background()); !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Errorf("List() error = %v, want INTERNAL_ERROR", err)
	}
}

func TestFindMatching(t *testing.T) {
	svc := seededService()

	tests := []struct {
		name     string
		capacity int
		features []string
		want     []int
	}{
		{"everything", 1, nil, []int{4, 5, 10}},
		{"capacity filter", 2, nil, []int{4, 5}},
		{"feature subset", 1, []string{"TV", "WiFi"}, []int{4, 5}},
		{"single feature", 1, []string{"Ocean View"}, []int{4}},
		{"unknown feature", 1, []string{"Sauna"}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, err := svc.FindMatching(context.Background(), tt.capacity, tt.features)
			if err != nil {
				t.Fatalf("FindMatching() error = %v", err)
			}
			got := make([]int, 0, len(rooms))
			for _, r := range rooms {
				got = append(got, r.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("FindMatching() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("FindMatching() = %v, want %v", got, tt.want)
				}
			}
		})
	}

	_, err := svc.FindMatching(context.Background(), 0, nil)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Reason() != "invalid_capacity" {
		t.Errorf("FindMatching(0) error = %v, want invalid_capacity", err)
	}
}
