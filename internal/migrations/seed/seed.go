package seed

import (
	"context"
	"fmt"
	"roomres/internal/reservations/service"
	"roomres/internal/rooms/repository"
	apperrors "roomres/pkg/errors"
	"roomres/pkg/logger"
	"roomres/pkg/model"
)

// Rooms is the demo catalog. Rooms 1 to 3 back the demo reservations that
// reference them.
func Rooms() []*model.Room {
	return []*model.Room{
		{ID: 1, Capacity: 2, Features: []string{"WiFi", "TV"}},
		{ID: 2, Capacity: 4, Features: []string{"WiFi", "TV", "Kitchen"}},
		{ID: 3, Capacity: 1, Features: []string{"WiFi"}},
		{ID: 4, Capacity: 2, Features: []string{"TV", "WiFi", "Ocean View"}},
		{ID: 5, Capacity: 6, Features: []string{"TV", "WiFi", "Kitchen", "AC", "Pool Access"}},
		{ID: 6, Capacity: 3, Features: []string{"TV", "Mini-bar", "Balcony"}},
		{ID: 7, Capacity: 4, Features: []string{"WiFi", "Kitchen", "Pet Friendly"}},
		{ID: 8, Capacity: 2, Features: []string{"TV", "WiFi", "Accessibility Features"}},
		{ID: 9, Capacity: 8, Features: []string{"TV", "WiFi", "Conference Room", "Projector"}},
		{ID: 10, Capacity: 1, Features: []string{"WiFi", "Work Desk", "Coffee Machine"}},
	}
}

func Reservations() []model.ReservationRequest {
	r := func(room int, guest, date, start, end string) model.ReservationRequest {
		return model.ReservationRequest{RoomID: room, GuestName: guest, Date: date, StartTime: start, EndTime: end}
	}
	return []model.ReservationRequest{
		r(3, "Charlie", "2025-05-10", "09:00", "11:00"),
		r(4, "David", "2025-05-10", "10:00", "18:00"),
		r(5, "Eve", "2025-05-10", "18:00", "22:00"),

		r(1, "Frank", "2025-05-11", "10:00", "12:00"),
		r(2, "Grace", "2025-05-11", "14:00", "16:00"),
		r(6, "Henry", "2025-05-11", "09:00", "17:00"),

		r(1, "Irene", "2025-05-12", "08:00", "12:00"),
		r(2, "Jack", "2025-05-12", "09:00", "14:00"),
		r(3, "Kate", "2025-05-12", "10:00", "16:00"),
		r(4, "Leo", "2025-05-12", "11:00", "15:00"),
		r(5, "Mia", "2025-05-12", "14:00", "18:00"),
		r(6, "Noah", "2025-05-12", "16:00", "20:00"),
		r(7, "Olivia", "2025-05-12", "18:00", "22:00"),

		r(9, "Conference A", "2025-05-15", "09:00", "17:00"),
		r(10, "Pat", "2025-05-15", "13:00", "15:00"),
	}
}

type Result struct {
	Rooms        int
	Reservations int
	Skipped      int
}

// Run upserts the catalog and books the demo reservations through the
// reservation service. A reservation that already exists conflicts with
// itself and is skipped, so running twice changes nothing.
func Run(ctx context.Context, rooms repository.RoomRepository, reservations service.ReservationService, log *logger.Logger) (*Result, error) {
	result := &Result{}

	for _, room := range Rooms() {
		if err := rooms.Upsert(ctx, room); err != nil {
			return nil, fmt.Errorf("failed to seed room %d: %w", room.ID, err)
		}
		result.Rooms++
	}

	for _, req := range Reservations() {
		_, err := reservations.Reserve(ctx, &req)
		switch {
		case err == nil:
			result.Reservations++
		case apperrors.HasCode(err, apperrors.CodeConflict):
			result.Skipped++
			log.Debug("Seed reservation already present", "room_id", req.RoomID, "date", req.Date, "start_time", req.StartTime)
		default:
			return nil, fmt.Errorf("failed to seed reservation for room %d on %s: %w", req.RoomID, req.Date, err)
		}
	}

	log.Info("Seed data applied",
		"rooms", result.Rooms,
		"reservations", result.Reservations,
		"skipped", result.Skipped,
	)
	return result, nil
}
